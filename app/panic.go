package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"disco/display/ltdc"
	"disco/internal/buildinfo"
	"disco/kernel"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

func installPanicHandler(s *System) {
	s.k.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := s.h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}
		if s.disp == nil {
			return
		}
		paintPanic(s.disp.Surface(), lines)
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"disco panic:",
		"build: " + buildinfo.Describe(),
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}
	return lines
}

// paintPanic clears d to white and writes lines in black, wrapping long ones,
// until the screen is full.
func paintPanic(d interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}, lines []string) {
	maxW, maxH := d.Size()
	_ = d.FillRectangle(0, 0, maxW, maxH, ltdc.White)

	font := &freemono.Regular9pt7b
	fontHeight, fontOffset := int16(font.YAdvance), int16(13)
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		return
	}
	cols := maxW / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > maxH {
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, font, fontWidth, fontOffset, 0, y, chunk, ltdc.Black)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func drawTextLine(
	d drivers.Displayer,
	font tinyfont.Fonter,
	fontWidth, fontOffset int16,
	x0, y0 int16,
	s string,
	fg color.RGBA,
) {
	var drawX = x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, drawX, y0+fontOffset, r, fg)
		drawX += fontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
