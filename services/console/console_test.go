//go:build !tinygo

package console

import (
	"image"
	"image/color"
	"testing"

	conclient "disco/client/console"
	"disco/display/ltdc"
	"disco/display/panel"
	"disco/hal"
	"disco/kernel"
)

func openSurface(t *testing.T) *panel.Surface {
	t.Helper()
	return panel.Open(hal.NewSim(2*480*272*2), panel.Config{}).Surface()
}

var bandColors = []color.RGBA{ltdc.Red, ltdc.Green, ltdc.Blue, ltdc.Cyan, ltdc.Magenta, ltdc.Yellow}

func paintBand(s *panel.Surface, area image.Rectangle) {
	for i, c := range bandColors {
		y := area.Min.Y + i
		s.FillSolid(image.Rect(area.Min.X, y, area.Max.X, y+1), c)
	}
}

func rowColor(t *testing.T, s *panel.Surface, area image.Rectangle, i int) color.RGBA {
	t.Helper()
	y := area.Min.Y + i
	first := s.At(area.Min.X, y).(ltdc.RGB565)
	for x := area.Min.X; x < area.Max.X; x++ {
		if got := s.At(x, y).(ltdc.RGB565); got != first {
			t.Fatalf("band row %d is not uniform: (%d,%d) = %#04x, want %#04x", i, x, y, uint16(got), uint16(first))
		}
	}
	return first.Expand()
}

func TestStripViewScrollRotates(t *testing.T) {
	s := openSurface(t)
	area := image.Rect(10, 200, 14, 206)
	paintBand(s, area)
	v := newStripView(s, area)

	for _, tt := range []struct {
		line int16
		top  int
	}{
		{2, 2},
		{5, 5},
		{5, 5},
		{1, 1},
		{6, 0},
	} {
		v.SetScroll(tt.line)
		for i := range bandColors {
			want := bandColors[(i+tt.top)%len(bandColors)]
			if got := rowColor(t, s, area, i); got != want {
				t.Fatalf("after SetScroll(%d): band row %d = %v, want %v", tt.line, i, got, want)
			}
		}
	}
	if got := s.At(9, 200).(ltdc.RGB565); got != 0 {
		t.Fatalf("pixel left of the band = %#04x, want black", uint16(got))
	}
}

func TestStripViewFillWraps(t *testing.T) {
	s := openSurface(t)
	area := image.Rect(0, 100, 8, 106)
	v := newStripView(s, area)
	v.SetScroll(2)

	// memory rows 1 and 2 sit on band rows 5 and 0
	if err := v.FillRectangle(-3, 1, 20, 2, ltdc.White); err != nil {
		t.Fatalf("FillRectangle() error = %v", err)
	}
	for i := 0; i < 6; i++ {
		want := ltdc.Black
		if i == 0 || i == 5 {
			want = ltdc.White
		}
		if got := rowColor(t, s, area, i); got != want {
			t.Fatalf("band row %d = %v, want %v", i, got, want)
		}
	}

	if err := v.FillRectangle(6, 4, -4, -3, ltdc.Red); err != nil {
		t.Fatalf("FillRectangle() with negative size error = %v", err)
	}
	for i := 1; i < 5; i++ {
		if got := rowColor(t, s, area, i); got != ltdc.Black {
			t.Fatalf("negative size fill drew band row %d = %v", i, got)
		}
	}

	v.SetPixel(3, 3, ltdc.Red)
	if got := s.At(3, 101).(ltdc.RGB565); got != ltdc.PackRGB565(ltdc.Red) {
		t.Fatalf("SetPixel(3,3) landed elsewhere: (3,101) = %#04x", uint16(got))
	}
	v.SetPixel(8, 0, ltdc.Red)
	v.SetPixel(0, 6, ltdc.Red)
	if got := s.At(8, 100).(ltdc.RGB565); got != 0 {
		t.Fatalf("SetPixel outside the view drew (8,100) = %#04x", uint16(got))
	}
	if w, h := v.Size(); w != 8 || h != 6 {
		t.Fatalf("Size() = %dx%d, want 8x6", w, h)
	}
}

func TestServiceDrawsInsideArea(t *testing.T) {
	s := openSurface(t)
	k := kernel.New()
	res := kernel.NewResource(k, "surface", s)
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	svc := New(res, ep.Restrict(kernel.RightRecv), image.Rect(0, 200, 480, 272))
	if got := svc.Area(); got != image.Rect(0, 200, 480, 272) {
		t.Fatalf("Area() = %v", got)
	}

	sent := false
	k.AddTask(svc)
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		if sent {
			ctx.Sleep(1000)
			return
		}
		if r := conclient.Write(ctx, ep.Restrict(kernel.RightSend), "Hello"); r != kernel.SendOK {
			t.Errorf("Write() = %s", r)
		}
		sent = true
	}))
	k.Run(50)

	if res.Held() {
		t.Fatal("console kept the surface")
	}
	lit := 0
	for p := range panel.Points(s.Bounds()) {
		if s.At(p.X, p.Y).(ltdc.RGB565) == 0 {
			continue
		}
		if !p.In(svc.Area()) {
			t.Fatalf("console drew outside its area at %v", p)
		}
		lit++
	}
	if lit == 0 {
		t.Fatal("console drew nothing")
	}
}

func TestServiceWaitsForSurface(t *testing.T) {
	s := openSurface(t)
	k := kernel.New()
	res := kernel.NewResource(k, "surface", s)
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	svc := New(res, ep, image.Rect(0, 200, 480, 272))

	holder := 0
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		switch holder {
		case 0:
			res.Acquire(ctx)
			conclient.Write(ctx, ep, "x")
		case 1:
		case 2:
			res.Release(ctx)
		default:
			ctx.Sleep(1000)
		}
		holder++
	}))
	k.AddTask(svc)

	k.Run(3)
	if svc.term != nil {
		t.Fatal("console drew while another task held the surface")
	}
	k.Run(50)
	if svc.term == nil {
		t.Fatal("console never drew after the surface was released")
	}
	if svc.hasPending {
		t.Fatal("pending message not consumed")
	}
}

func TestNewRejectsShortArea(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New() with a 10 pixel band did not panic")
		}
	}()
	New(nil, kernel.Capability{}, image.Rect(0, 0, 480, 10))
}

type taskFunc func(*kernel.Context)

func (f taskFunc) Step(ctx *kernel.Context) { f(ctx) }
