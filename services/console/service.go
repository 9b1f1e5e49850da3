// Package console runs a tinyterm terminal in a band of the panel, fed by
// MsgConsoleWrite messages.
package console

import (
	"fmt"
	"image"

	"disco/display/ltdc"
	"disco/display/panel"
	"disco/kernel"
	"disco/proto"

	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 18
	fontOffset = 13
)

// Rows is the number of text rows of a band of the given height.
func Rows(height int) int { return height / fontHeight }

// Service owns the console band. It draws only while holding the surface.
type Service struct {
	surf *kernel.Resource[*panel.Surface]
	ep   kernel.Capability
	area image.Rectangle

	view *stripView
	term *tinyterm.Terminal

	pending    kernel.Message
	hasPending bool
}

// New places the console in area, which is trimmed to a whole number of text
// rows from the top.
func New(surf *kernel.Resource[*panel.Surface], ep kernel.Capability, area image.Rectangle) *Service {
	area.Max.Y = area.Min.Y + Rows(area.Dy())*fontHeight
	if area.Empty() {
		panic(fmt.Sprintf("console: area %v holds no text row", area))
	}
	return &Service{surf: surf, ep: ep, area: area}
}

// Area is the band the console draws in.
func (s *Service) Area() image.Rectangle { return s.area }

func (s *Service) Step(ctx *kernel.Context) {
	if !s.hasPending {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		s.pending, s.hasPending = msg, true
	}

	surf, ok := s.surf.Acquire(ctx)
	if !ok {
		return
	}
	defer s.surf.Release(ctx)

	if s.term == nil {
		s.reset(surf)
	}
	s.handle(surf, &s.pending)
	s.hasPending = false

	// Drain what is queued without giving up the surface in between.
	for {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			break
		}
		s.handle(surf, &msg)
	}
}

func (s *Service) handle(surf *panel.Surface, msg *kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgConsoleWrite:
		_, _ = s.term.Write(msg.Payload())
	case proto.MsgConsoleClear:
		s.reset(surf)
	}
}

func (s *Service) reset(surf *panel.Surface) {
	surf.FillSolid(s.area, ltdc.Black)
	s.view = newStripView(surf, s.area)
	s.term = tinyterm.NewTerminal(s.view)
	s.term.Configure(&tinyterm.Config{
		Font:       &freemono.Regular9pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
}
