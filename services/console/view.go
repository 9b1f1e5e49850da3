package console

import (
	"errors"
	"image"
	"image/color"

	"disco/display/ltdc"
	"disco/display/panel"

	"tinygo.org/x/drivers"
)

var errRotation = errors.New("console: rotation not supported")

// stripView shows a band of the panel to tinyterm as a display with hardware
// vertical scrolling. tinyterm draws in memory rows; memory row m is shown on
// band row (m - top) mod height. SetScroll rotates the band contents so the
// mapping stays true after top changes.
type stripView struct {
	surf *panel.Surface
	area image.Rectangle
	top  int

	row []color.RGBA
}

func newStripView(surf *panel.Surface, area image.Rectangle) *stripView {
	return &stripView{surf: surf, area: area, row: make([]color.RGBA, area.Dx())}
}

func (v *stripView) Size() (x, y int16) {
	return int16(v.area.Dx()), int16(v.area.Dy())
}

// band converts a memory row to a panel row.
func (v *stripView) band(m int) int {
	h := v.area.Dy()
	return v.area.Min.Y + ((m-v.top)%h+h)%h
}

func (v *stripView) SetPixel(x, y int16, c color.RGBA) {
	if int(x) < 0 || int(x) >= v.area.Dx() || int(y) < 0 || int(y) >= v.area.Dy() {
		return
	}
	v.surf.SetPixel(int16(v.area.Min.X)+x, int16(v.band(int(y))), c)
}

func (v *stripView) Display() error { return nil }

// FillRectangle fills memory rows [y, y+height). The run is split where it
// wraps around the bottom of the band. Non-positive sizes draw nothing.
func (v *stripView) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height))
	r = r.Intersect(image.Rect(0, 0, v.area.Dx(), v.area.Dy()))
	if r.Empty() {
		return nil
	}
	h := v.area.Dy()
	for m := r.Min.Y; m < r.Max.Y; {
		start := v.band(m) - v.area.Min.Y
		n := min(r.Max.Y-m, h-start)
		v.surf.FillSolid(image.Rect(
			v.area.Min.X+r.Min.X, v.area.Min.Y+start,
			v.area.Min.X+r.Max.X, v.area.Min.Y+start+n,
		), c)
		m += n
	}
	return nil
}

// SetScroll makes memory row line the top row of the band.
func (v *stripView) SetScroll(line int16) {
	h := v.area.Dy()
	top := (int(line)%h + h) % h
	delta := (top - v.top + h) % h
	v.rotate(delta)
	v.top = top
}

// rotate moves band row i+delta to row i, wrapping. Each cycle parks one
// row in v.row and moves the others with single-row DMA2D copies.
func (v *stripView) rotate(delta int) {
	h := v.area.Dy()
	if delta == 0 {
		return
	}
	for start := 0; start < gcd(h, delta); start++ {
		v.saveRow(start)
		i := start
		for {
			j := (i + delta) % h
			if j == start {
				break
			}
			v.surf.CopyRectangle(v.rowRect(j), v.rowRect(i).Min)
			i = j
		}
		v.restoreRow(i)
	}
}

func (v *stripView) rowRect(i int) image.Rectangle {
	y := v.area.Min.Y + i
	return image.Rect(v.area.Min.X, y, v.area.Max.X, y+1)
}

func (v *stripView) saveRow(i int) {
	y := v.area.Min.Y + i
	for x := range v.row {
		v.row[x] = v.surf.At(v.area.Min.X+x, y).(ltdc.RGB565).Expand()
	}
}

func (v *stripView) restoreRow(i int) {
	v.surf.FillContiguous(v.rowRect(i), func(yield func(color.RGBA) bool) {
		for _, c := range v.row {
			if !yield(c) {
				return
			}
		}
	})
}

func (v *stripView) SetRotation(r drivers.Rotation) error {
	if r != drivers.Rotation0 {
		return errRotation
	}
	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
