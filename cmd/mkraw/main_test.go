package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"disco/display/ltdc"
)

func TestEncodeRawByteOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, ltdc.Red)
	img.SetRGBA(1, 0, ltdc.Blue)
	got := encodeRaw(img)
	want := []byte{0xF8, 0x00, 0x00, 0x1F}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeRaw() = % x, want % x", got, want)
	}
}

func TestRawRoundTrip(t *testing.T) {
	card := testCard(64, 48)
	raw := encodeRaw(card)
	if len(raw) != 64*48*2 {
		t.Fatalf("len(encodeRaw()) = %d, want %d", len(raw), 64*48*2)
	}
	back, err := decodeRaw(raw, 64)
	if err != nil {
		t.Fatalf("decodeRaw() error = %v", err)
	}
	if back.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Fatalf("decodeRaw() bounds = %v", back.Bounds())
	}
	if !bytes.Equal(encodeRaw(back), raw) {
		t.Fatal("re-encoding the decoded image changed it")
	}
}

func TestTestCardBars(t *testing.T) {
	card := testCard(480, 272)
	if b := card.Bounds(); b.Dx() != 480 || b.Dy() != 272 {
		t.Fatalf("testCard() bounds = %v", b)
	}
	// sample the middle of each bar, above the circle
	for i, want := range cardBars {
		x := i*60 + 30
		got := color.RGBAModel.Convert(card.At(x, 20)).(color.RGBA)
		if got != want {
			t.Fatalf("bar %d at (%d,20) = %v, want %v", i, x, got, want)
		}
	}
}

func TestDecodeRawErrors(t *testing.T) {
	if _, err := decodeRaw(make([]byte, 10), 0); err == nil {
		t.Fatal("decodeRaw() without width succeeded")
	}
	if _, err := decodeRaw(make([]byte, 10), 3); err == nil {
		t.Fatal("decodeRaw() accepted a partial row")
	}
}

func TestParseSize(t *testing.T) {
	if w, h, err := parseSize("480x272"); err != nil || w != 480 || h != 272 {
		t.Fatalf("parseSize() = %d, %d, %v", w, h, err)
	}
	if _, _, err := parseSize("0x5"); err == nil {
		t.Fatal("parseSize(0x5) succeeded")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "card.raw")
	card, err := load("", 0, "32x16")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if err := save(raw, card); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	pngPath := filepath.Join(dir, "card.png")
	img, err := load(raw, 32, "")
	if err != nil {
		t.Fatalf("load(raw) error = %v", err)
	}
	if err := save(pngPath, img); err != nil {
		t.Fatalf("save(png) error = %v", err)
	}
	back, err := load(pngPath, 0, "")
	if err != nil {
		t.Fatalf("load(png) error = %v", err)
	}
	data, _ := os.ReadFile(raw)
	if !bytes.Equal(encodeRaw(back), data) {
		t.Fatal("png round trip changed the pixels")
	}
}
