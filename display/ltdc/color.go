package ltdc

import "image/color"

// RGB565 is a packed 16-bit pixel: bits 15-11 red, 10-5 green, 4-0 blue.
type RGB565 uint16

// RGB565Model converts any color to RGB565.
var RGB565Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(RGB565); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return PackRGB565(color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF})
})

// PackRGB565 truncates c to 5-6-5 bits. Alpha is ignored. Every drawing path
// converts through this function so fills and per-pixel writes agree.
func PackRGB565(c color.RGBA) RGB565 {
	return RGB565(uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3))
}

// Expand returns the 8-bit per channel color, scaling each field to 0..255.
func (p RGB565) Expand() color.RGBA {
	r := uint32(p>>11) & 0x1F
	g := uint32(p>>5) & 0x3F
	b := uint32(p) & 0x1F
	return color.RGBA{
		R: uint8(r * 255 / 31),
		G: uint8(g * 255 / 63),
		B: uint8(b * 255 / 31),
		A: 0xFF,
	}
}

// RGBA implements color.Color.
func (p RGB565) RGBA() (r, g, b, a uint32) {
	return p.Expand().RGBA()
}

// Common full-intensity colors.
var (
	Black   = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	White   = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	Red     = color.RGBA{0xFF, 0x00, 0x00, 0xFF}
	Green   = color.RGBA{0x00, 0xFF, 0x00, 0xFF}
	Blue    = color.RGBA{0x00, 0x00, 0xFF, 0xFF}
	Cyan    = color.RGBA{0x00, 0xFF, 0xFF, 0xFF}
	Magenta = color.RGBA{0xFF, 0x00, 0xFF, 0xFF}
	Yellow  = color.RGBA{0xFF, 0xFF, 0x00, 0xFF}
)
