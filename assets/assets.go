// Package assets holds the images embedded in the firmware.
package assets

import (
	_ "embed"
	"fmt"

	"tinygo.org/x/drivers/pixel"
)

// LogoWidth is the width of the boot logo in pixels.
const LogoWidth = 100

//go:embed logo.raw
var logoRaw []byte

// Logo is the boot logo, big-endian RGB565, LogoWidth pixels wide.
func Logo() pixel.Image[pixel.RGB565BE] {
	img, err := Raw(logoRaw, LogoWidth)
	if err != nil {
		panic(err)
	}
	return img
}

// Raw wraps raw big-endian RGB565 rows of the given width. The height follows
// from the length of b.
func Raw(b []byte, width int) (pixel.Image[pixel.RGB565BE], error) {
	row := width * 2
	if width <= 0 || len(b) == 0 || len(b)%row != 0 {
		return pixel.Image[pixel.RGB565BE]{}, fmt.Errorf("assets: %d bytes is not a whole number of %d pixel rows", len(b), width)
	}
	img := pixel.NewImage[pixel.RGB565BE](width, len(b)/row)
	copy(img.RawBuffer(), b)
	return img, nil
}
