// Command mkraw converts images to and from the raw big-endian RGB565 format
// the firmware embeds, and renders a panel test card.
package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"disco/display/ltdc"

	"github.com/fogleman/gg"
)

func main() {
	var (
		inPath   = flag.String("in", "", "Input image (.png/.jpg to encode, .raw to decode).")
		outPath  = flag.String("out", "", "Output file (.raw or .png).")
		width    = flag.Int("width", 0, "Width of a .raw input in pixels.")
		testcard = flag.String("testcard", "", "Render a WxH test card instead of reading -in (e.g. 480x272).")
	)
	flag.Parse()

	if *outPath == "" || (*inPath == "" && *testcard == "") {
		fatalf("usage: mkraw -in in.png -out out.raw\n       mkraw -in in.raw -width 100 -out out.png\n       mkraw -testcard 480x272 -out card.raw")
	}

	img, err := load(*inPath, *width, *testcard)
	if err != nil {
		fatalf("mkraw: %v", err)
	}
	if err := save(*outPath, img); err != nil {
		fatalf("mkraw: %v", err)
	}
	b := img.Bounds()
	fmt.Printf("mkraw: wrote %s (%dx%d)\n", *outPath, b.Dx(), b.Dy())
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func load(path string, width int, card string) (image.Image, error) {
	if card != "" {
		w, h, err := parseSize(card)
		if err != nil {
			return nil, err
		}
		return testCard(w, h), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isRaw(path) {
		return decodeRaw(data, width)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func save(path string, img image.Image) error {
	if isRaw(path) {
		return os.WriteFile(path, encodeRaw(img), 0o644)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func isRaw(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".raw" || ext == ".bin"
}

func parseSize(s string) (w, h int, err error) {
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("test card size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("test card size %q: must be positive", s)
	}
	return w, h, nil
}

// encodeRaw packs img row by row. Alpha is ignored.
func encodeRaw(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out = binary.BigEndian.AppendUint16(out, uint16(ltdc.PackRGB565(c)))
		}
	}
	return out
}

func decodeRaw(data []byte, width int) (*image.RGBA, error) {
	if width <= 0 {
		return nil, errors.New("decoding a raw image needs -width")
	}
	row := width * 2
	if len(data) == 0 || len(data)%row != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d pixel rows", len(data), width)
	}
	height := len(data) / row
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		p := ltdc.RGB565(binary.BigEndian.Uint16(data[i*2:]))
		img.SetRGBA(i%width, i/width, p.Expand())
	}
	return img, nil
}

var cardBars = []color.RGBA{
	ltdc.White, ltdc.Yellow, ltdc.Cyan, ltdc.Green,
	ltdc.Magenta, ltdc.Red, ltdc.Blue, ltdc.Black,
}

// testCard draws colour bars over the top two thirds, a grey ramp below and
// a centred circle with a one pixel border around the frame.
func testCard(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(ltdc.Black)
	dc.Clear()

	barH := float64(h) * 2 / 3
	barW := float64(w) / float64(len(cardBars))
	for i, c := range cardBars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barW, 0, barW+1, barH)
		dc.Fill()
	}
	steps := 16
	stepW := float64(w) / float64(steps)
	for i := 0; i < steps; i++ {
		v := uint8(i * 255 / (steps - 1))
		dc.SetColor(color.RGBA{v, v, v, 0xFF})
		dc.DrawRectangle(float64(i)*stepW, barH, stepW+1, float64(h)-barH)
		dc.Fill()
	}

	r := float64(min(w, h)) / 4
	dc.SetColor(ltdc.White)
	dc.SetLineWidth(2)
	dc.DrawCircle(float64(w)/2, float64(h)/2, r)
	dc.Stroke()

	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(w)-1, float64(h)-1)
	dc.Stroke()

	dc.DrawStringAnchored(fmt.Sprintf("%dx%d", w, h), float64(w)/2, float64(h)/2, 0.5, 0.5)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}
