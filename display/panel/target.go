package panel

import (
	"image"
	"image/color"
	"iter"
)

// Pixel is one colored point.
type Pixel struct {
	image.Point
	Color color.RGBA
}

// DrawTarget is the drawing surface graphics code renders onto.
//
// Coordinates passed to DrawPixels and FillSolid must be inside the surface;
// FillContiguous clips.
type DrawTarget interface {
	Size() (width, height int16)
	DrawPixels(pixels iter.Seq[Pixel])
	FillSolid(area image.Rectangle, c color.RGBA)
	FillContiguous(area image.Rectangle, colors iter.Seq[color.RGBA])
}

// Points yields the points of r in row-major order.
func Points(r image.Rectangle) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if !yield(image.Pt(x, y)) {
					return
				}
			}
		}
	}
}

// Solid yields c n times.
func Solid(c color.RGBA, n int) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		for i := 0; i < n; i++ {
			if !yield(c) {
				return
			}
		}
	}
}
