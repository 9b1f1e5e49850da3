package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"

	"disco/display/ltdc"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"
)

var (
	errRotation  = errors.New("panel: rotation not supported")
	errEmptyRect = errors.New("panel: rectangle has no area")
)

// Surface draws on one live layer of the panel. It implements DrawTarget,
// drivers.Displayer (for tinyfont and tinyterm) and image.Image.
type Surface struct {
	live   *ltdc.Live[ltdc.RGB565]
	layer  ltdc.Layer
	bounds image.Rectangle
}

func newSurface(live *ltdc.Live[ltdc.RGB565], layer ltdc.Layer) *Surface {
	w, h := live.Size()
	return &Surface{live: live, layer: layer, bounds: image.Rect(0, 0, w, h)}
}

// Size is the panel resolution.
func (s *Surface) Size() (width, height int16) {
	return int16(s.bounds.Dx()), int16(s.bounds.Dy())
}

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle { return s.bounds }

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model { return ltdc.RGB565Model }

// At reads back a pixel. Points outside the surface are black.
func (s *Surface) At(x, y int) color.Color {
	if !image.Pt(x, y).In(s.bounds) {
		return ltdc.RGB565(0)
	}
	return s.live.Pixel(s.layer, x, y)
}

// DrawPixels writes each pixel. Out-of-range points panic.
func (s *Surface) DrawPixels(pixels iter.Seq[Pixel]) {
	for p := range pixels {
		s.live.DrawPixel(s.layer, p.X, p.Y, ltdc.PackRGB565(p.Color))
	}
}

// FillSolid fills area with one DMA2D transfer. area must lie inside the
// surface; an empty area does nothing.
func (s *Surface) FillSolid(area image.Rectangle, c color.RGBA) {
	if area.Empty() {
		return
	}
	if !area.In(s.bounds) {
		panic(fmt.Sprintf("panel: solid fill %v outside %v", area, s.bounds))
	}
	s.live.DrawRectangle(s.layer, area.Min, area.Max.Sub(image.Pt(1, 1)), ltdc.PackRGB565(c))
}

// FillContiguous pairs the points of area, row by row, with colors and
// writes the ones inside the surface. Colors for clipped points are still
// consumed. Drawing stops when colors runs out.
func (s *Surface) FillContiguous(area image.Rectangle, colors iter.Seq[color.RGBA]) {
	drawable := area.Intersect(s.bounds)
	if drawable.Empty() {
		return
	}
	w := area.Dx()
	n := w * area.Dy()
	i := 0
	for c := range colors {
		p := image.Pt(area.Min.X+i%w, area.Min.Y+i/w)
		if p.In(drawable) {
			s.live.DrawPixel(s.layer, p.X, p.Y, ltdc.PackRGB565(c))
		}
		i++
		if i == n {
			return
		}
	}
}

// CopyRectangle moves pixels with the DMA2D. See ltdc.Live.CopyRectangle.
func (s *Surface) CopyRectangle(src image.Rectangle, dst image.Point) {
	s.live.CopyRectangle(s.layer, src, dst)
}

// SetPixel implements drivers.Displayer. Points outside the surface are
// dropped.
func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	if !image.Pt(int(x), int(y)).In(s.bounds) {
		return
	}
	s.live.DrawPixel(s.layer, int(x), int(y), ltdc.PackRGB565(c))
}

// Display implements drivers.Displayer. The LTDC scans the framebuffer
// continuously, so there is nothing to flush.
func (s *Surface) Display() error { return nil }

// FillRectangle clips the rectangle to the surface and fills it. A width or
// height below one is an error and draws nothing.
func (s *Surface) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if width <= 0 || height <= 0 {
		return errEmptyRect
	}
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height))
	s.FillSolid(r.Intersect(s.bounds), c)
	return nil
}

// DrawBitmap draws img with its top-left corner at (x, y), clipped.
func (s *Surface) DrawBitmap(x, y int16, img pixel.Image[pixel.RGB565BE]) error {
	w, h := img.Size()
	if w == 0 || h == 0 {
		return nil
	}
	area := image.Rect(int(x), int(y), int(x)+w, int(y)+h)
	s.FillContiguous(area, func(yield func(color.RGBA) bool) {
		for py := 0; py < h; py++ {
			for px := 0; px < w; px++ {
				if !yield(img.Get(px, py).RGBA()) {
					return
				}
			}
		}
	})
	return nil
}

// Rotation implements drivers.Displayer rotation queries. The LTDC has no
// rotation support.
func (s *Surface) Rotation() drivers.Rotation { return drivers.Rotation0 }

// SetRotation accepts only drivers.Rotation0.
func (s *Surface) SetRotation(r drivers.Rotation) error {
	if r != drivers.Rotation0 {
		return errRotation
	}
	return nil
}

var (
	_ DrawTarget        = (*Surface)(nil)
	_ drivers.Displayer = (*Surface)(nil)
	_ image.Image       = (*Surface)(nil)
)
