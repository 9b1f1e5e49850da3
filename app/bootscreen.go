package app

import (
	"disco/assets"
	"disco/display/ltdc"
	"disco/display/panel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// drawBootScreen paints the first visible frame: black, the logo in the top
// left corner and a greeting in red.
func drawBootScreen(s *panel.Surface) {
	s.FillSolid(s.Bounds(), ltdc.Black)
	_ = s.DrawBitmap(0, 0, assets.Logo())

	font := &freemono.Regular9pt7b
	tinyfont.WriteLine(s, font, 200, 200, "Hello,", ltdc.Red)
	tinyfont.WriteLine(s, font, 200, 200+int16(font.YAdvance), "Go!", ltdc.Red)
}
