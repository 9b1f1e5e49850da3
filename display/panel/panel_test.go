//go:build !tinygo

package panel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"iter"
	"slices"
	"strings"
	"testing"

	"disco/display/ltdc"
	"disco/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"
)

func openSim(t *testing.T) (*hal.Sim, *Display) {
	t.Helper()
	sim := hal.NewSim(2 * 480 * 272 * 2)
	return sim, Open(sim, Config{})
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if s := fmt.Sprint(r); !strings.Contains(s, want) {
			t.Fatalf("panic = %q, want it to contain %q", s, want)
		}
	}()
	fn()
}

func at(s *Surface, x, y int) ltdc.RGB565 {
	return s.At(x, y).(ltdc.RGB565)
}

func checkArea(t *testing.T, s *Surface, area image.Rectangle, in, out ltdc.RGB565) {
	t.Helper()
	for p := range Points(s.Bounds()) {
		want := out
		if p.In(area) {
			want = in
		}
		if got := at(s, p.X, p.Y); got != want {
			t.Fatalf("pixel %v = %#04x, want %#04x", p, uint16(got), uint16(want))
		}
	}
}

// counted yields the same color n times and records how many were taken.
func counted(c color.RGBA, n int, taken *int) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		for i := 0; i < n; i++ {
			*taken++
			if !yield(c) {
				return
			}
		}
	}
}

func TestOpenBringUpTrace(t *testing.T) {
	var log bytes.Buffer
	sim := hal.NewSim(2 * 480 * 272 * 2)
	d := Open(sim, Config{Logger: testLogger{&log}})

	var names []string
	for _, e := range sim.Events() {
		names = append(names, e.String())
	}
	idx := func(s string) int {
		i := slices.Index(names, s)
		if i < 0 {
			t.Fatalf("event %q missing from %v", s, names)
		}
		return i
	}
	disable := idx("LCD_DISP low")
	backlight := idx("LCD_BL_CTRL high")
	reload := idx("reload immediate layers=01")
	enable := idx("LCD_DISP high")
	if !(disable < backlight && backlight < enable && reload < enable) {
		t.Fatalf("events out of order: %v", names)
	}
	if !sim.Lit() {
		t.Fatal("panel not lit after Open")
	}
	if got := d.Controller().State(); got != ltdc.StateLive {
		t.Fatalf("State() = %v, want %v", got, ltdc.StateLive)
	}
	if len(d.Steps()) != 5 || d.Steps()[4] != StepOutputEnable {
		t.Fatalf("Steps() = %v", d.Steps())
	}
	if !strings.Contains(log.String(), "panel: backlight on") {
		t.Fatalf("log = %q, want backlight line", log.String())
	}
}

type testLogger struct{ b *bytes.Buffer }

func (l testLogger) WriteLineString(s string) { l.b.WriteString(s + "\n") }
func (l testLogger) WriteLineBytes(b []byte)  { l.b.Write(append(b, '\n')) }

func TestEndToEndBlackAndGreen(t *testing.T) {
	sim, d := openSim(t)
	s := d.Surface()

	if w, h := s.Size(); w != 480 || h != 272 {
		t.Fatalf("Size() = %dx%d, want 480x272", w, h)
	}
	s.FillSolid(s.Bounds(), ltdc.Black)
	s.FillSolid(image.Rect(20, 20, 71, 61), ltdc.Green)

	if got := at(s, 0, 0); got != 0 {
		t.Fatalf("pixel (0,0) = %#04x, want black", uint16(got))
	}
	if got := at(s, 30, 30); got != ltdc.PackRGB565(ltdc.Green) {
		t.Fatalf("pixel (30,30) = %#04x, want green", uint16(got))
	}

	img := image.NewRGBA(sim.Bounds())
	sim.Snapshot(img)
	if c := img.RGBAAt(0, 0); c != ltdc.Black {
		t.Fatalf("scan-out (0,0) = %v, want black", c)
	}
	if c := img.RGBAAt(30, 30); c != ltdc.Green {
		t.Fatalf("scan-out (30,30) = %v, want green", c)
	}
	if c := img.RGBAAt(70, 60); c != ltdc.Green {
		t.Fatalf("scan-out (70,60) = %v, want green", c)
	}
	if c := img.RGBAAt(71, 61); c != ltdc.Black {
		t.Fatalf("scan-out (71,61) = %v, want black", c)
	}

	d.BacklightOff()
	sim.Snapshot(img)
	if c := img.RGBAAt(30, 30); c != ltdc.Black {
		t.Fatalf("scan-out with backlight off = %v, want black", c)
	}
	d.BacklightOn()
	d.Disable()
	if sim.Lit() {
		t.Fatal("panel lit after Disable")
	}
	d.Enable()
	if !sim.Lit() {
		t.Fatal("panel dark after Enable")
	}
}

func TestFillSolid(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	area := image.Rect(100, 50, 150, 90)
	s.FillSolid(area, ltdc.Blue)
	checkArea(t, s, area, ltdc.PackRGB565(ltdc.Blue), 0)

	s.FillSolid(image.Rect(10, 10, 10, 20), ltdc.Red)
	checkArea(t, s, area, ltdc.PackRGB565(ltdc.Blue), 0)

	mustPanic(t, "outside", func() { s.FillSolid(image.Rect(470, 0, 481, 10), ltdc.Red) })
}

func TestFillContiguousMatchesDrawPixels(t *testing.T) {
	_, d1 := openSim(t)
	_, d2 := openSim(t)
	area := image.Rect(200, 100, 213, 109)

	gradient := func(yield func(color.RGBA) bool) {
		for p := range Points(area) {
			if !yield(color.RGBA{R: uint8(p.X * 3), G: uint8(p.Y * 5), B: uint8(p.X ^ p.Y), A: 0xFF}) {
				return
			}
		}
	}
	d1.Surface().FillContiguous(area, gradient)

	d2.Surface().DrawPixels(func(yield func(Pixel) bool) {
		next := Points(area)
		var pts []image.Point
		for p := range next {
			pts = append(pts, p)
		}
		i := 0
		for c := range gradient {
			if !yield(Pixel{Point: pts[i], Color: c}) {
				return
			}
			i++
		}
	})

	for p := range Points(d1.Surface().Bounds()) {
		a, b := at(d1.Surface(), p.X, p.Y), at(d2.Surface(), p.X, p.Y)
		if a != b {
			t.Fatalf("pixel %v: FillContiguous %#04x, DrawPixels %#04x", p, uint16(a), uint16(b))
		}
	}
}

func TestFillContiguousPartialClip(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	area := image.Rect(470, 260, 490, 280)
	taken := 0
	s.FillContiguous(area, counted(ltdc.Red, area.Dx()*area.Dy(), &taken))

	checkArea(t, s, image.Rect(470, 260, 480, 272), ltdc.PackRGB565(ltdc.Red), 0)
	if taken != area.Dx()*area.Dy() {
		t.Fatalf("consumed %d colors, want %d", taken, area.Dx()*area.Dy())
	}
}

func TestFillContiguousClipKeepsRowOrder(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	// 3x2 area hanging off the left edge: only column x=0 is visible and
	// gets the last color of each row.
	area := image.Rect(-2, 0, 1, 2)
	colors := []color.RGBA{ltdc.Red, ltdc.Red, ltdc.Green, ltdc.Red, ltdc.Red, ltdc.Blue}
	s.FillContiguous(area, slices.Values(colors))

	if got := at(s, 0, 0); got != ltdc.PackRGB565(ltdc.Green) {
		t.Fatalf("pixel (0,0) = %#04x, want green", uint16(got))
	}
	if got := at(s, 0, 1); got != ltdc.PackRGB565(ltdc.Blue) {
		t.Fatalf("pixel (0,1) = %#04x, want blue", uint16(got))
	}
}

func TestFillContiguousEmptyIntersection(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	taken := 0
	s.FillContiguous(image.Rect(-50, -50, -9, -9), counted(ltdc.White, 41*41, &taken))

	checkArea(t, s, image.Rectangle{}, 0, 0)
	if taken != 0 {
		t.Fatalf("consumed %d colors on an empty intersection", taken)
	}
}

func TestFillContiguousStopsWhenColorsRunOut(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	s.FillContiguous(image.Rect(0, 0, 10, 10), Solid(ltdc.Yellow, 15))

	yellow := ltdc.PackRGB565(ltdc.Yellow)
	// 15 colors cover row 0 and the first five points of row 1.
	for p := range Points(s.Bounds()) {
		want := ltdc.RGB565(0)
		if p.In(image.Rect(0, 0, 10, 1)) || p.In(image.Rect(0, 1, 5, 2)) {
			want = yellow
		}
		if got := at(s, p.X, p.Y); got != want {
			t.Fatalf("pixel %v = %#04x, want %#04x", p, uint16(got), uint16(want))
		}
	}
}

func TestFillContiguousIgnoresExtraColors(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	taken := 0
	s.FillContiguous(image.Rect(0, 0, 2, 2), counted(ltdc.Cyan, 100, &taken))
	if taken != 4 {
		t.Fatalf("consumed %d colors for a 4 pixel area", taken)
	}
	checkArea(t, s, image.Rect(0, 0, 2, 2), ltdc.PackRGB565(ltdc.Cyan), 0)
}

func TestFillContiguousTakesOnePerPoint(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	taken := 0
	// partly off screen: clipped points still use their color
	s.FillContiguous(image.Rect(478, 270, 482, 273), counted(ltdc.Blue, 50, &taken))
	if taken != 12 {
		t.Fatalf("consumed %d colors for a 12 point area", taken)
	}
	checkArea(t, s, image.Rect(478, 270, 480, 272), ltdc.PackRGB565(ltdc.Blue), 0)
}

func TestFillRectangleRejectsEmptySize(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	for _, sz := range []image.Point{{-5, -5}, {0, 5}, {5, 0}, {-5, 5}} {
		if err := s.FillRectangle(10, 10, int16(sz.X), int16(sz.Y), ltdc.Red); err == nil {
			t.Fatalf("FillRectangle(10, 10, %d, %d) error = nil", sz.X, sz.Y)
		}
	}
	checkArea(t, s, image.Rectangle{}, 0, 0)
}

func TestDrawPixelsNoClipping(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	s.DrawPixels(slices.Values([]Pixel{{Point: image.Pt(1, 2), Color: ltdc.Magenta}}))
	if got := at(s, 1, 2); got != ltdc.PackRGB565(ltdc.Magenta) {
		t.Fatalf("pixel (1,2) = %#04x, want magenta", uint16(got))
	}
	mustPanic(t, "outside", func() {
		s.DrawPixels(slices.Values([]Pixel{{Point: image.Pt(-1, 0), Color: ltdc.Red}}))
	})
}

func TestDisplayerClips(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	var disp drivers.Displayer = s

	disp.SetPixel(-1, -1, ltdc.White)
	disp.SetPixel(480, 0, ltdc.White)
	disp.SetPixel(479, 271, ltdc.White)
	if err := disp.Display(); err != nil {
		t.Fatalf("Display() error = %v", err)
	}
	if err := s.FillRectangle(-10, -10, 20, 20, ltdc.Red); err != nil {
		t.Fatalf("FillRectangle() error = %v", err)
	}

	want := image.Rect(0, 0, 10, 10)
	for p := range Points(s.Bounds()) {
		var c ltdc.RGB565
		switch {
		case p.In(want):
			c = ltdc.PackRGB565(ltdc.Red)
		case p == image.Pt(479, 271):
			c = 0xFFFF
		}
		if got := at(s, p.X, p.Y); got != c {
			t.Fatalf("pixel %v = %#04x, want %#04x", p, uint16(got), uint16(c))
		}
	}

	if err := s.SetRotation(drivers.Rotation90); err == nil {
		t.Fatal("SetRotation(90) succeeded")
	}
	if err := s.SetRotation(drivers.Rotation0); err != nil {
		t.Fatalf("SetRotation(0) error = %v", err)
	}
}

func TestDrawBitmap(t *testing.T) {
	_, d := openSim(t)
	s := d.Surface()
	img := pixel.NewImage[pixel.RGB565BE](3, 2)
	red := pixel.NewColor[pixel.RGB565BE](0xFF, 0, 0)
	blue := pixel.NewColor[pixel.RGB565BE](0, 0, 0xFF)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, red)
		}
	}
	img.Set(2, 1, blue)

	if err := s.DrawBitmap(478, 270, img); err != nil {
		t.Fatalf("DrawBitmap() error = %v", err)
	}
	if got := at(s, 478, 270); got != ltdc.PackRGB565(ltdc.Red) {
		t.Fatalf("pixel (478,270) = %#04x, want red", uint16(got))
	}
	if got := at(s, 479, 271); got != ltdc.PackRGB565(ltdc.Red) {
		t.Fatalf("pixel (479,271) = %#04x, want red", uint16(got))
	}

	if err := s.DrawBitmap(0, 0, img); err != nil {
		t.Fatalf("DrawBitmap() error = %v", err)
	}
	if got := at(s, 2, 1); got != ltdc.PackRGB565(ltdc.Blue) {
		t.Fatalf("pixel (2,1) = %#04x, want blue", uint16(got))
	}
}
