// Package redraw is the periodic drawing task: each period it takes the
// surface, moves a box one step inside its arena, gives the surface back and
// sleeps.
package redraw

import (
	"fmt"
	"image"
	"image/color"

	logclient "disco/client/logger"
	"disco/display/ltdc"
	"disco/display/panel"
	"disco/hal"
	"disco/kernel"
)

// Config describes the animation.
type Config struct {
	// Period is the number of ticks between frames.
	Period uint64
	// Arena bounds the box. The zero value is DefaultConfig.Arena.
	Arena image.Rectangle
	// Box is the initial box.
	Box      image.Rectangle
	Velocity image.Point
	Color    color.RGBA
	// ReportEvery logs a status line every n frames; 0 disables it.
	ReportEvery uint64
}

// DefaultConfig moves a green box at about 30 frames per second on a 1 ms
// tick, right of the logo and above the text and console.
var DefaultConfig = Config{
	Period:      33,
	Arena:       image.Rect(110, 0, 480, 180),
	Box:         image.Rect(130, 20, 181, 61),
	Velocity:    image.Pt(3, 2),
	Color:       ltdc.Green,
	ReportEvery: 120,
}

// Task is the redraw loop. It holds the surface only inside Step.
type Task struct {
	cfg  Config
	surf *kernel.Resource[*panel.Surface]
	led  hal.LED
	log  kernel.Capability

	box   image.Rectangle
	vel   image.Point
	frame uint64
	ledOn bool
	drawn bool
}

// New returns the task. led and log may be nil / invalid.
func New(surf *kernel.Resource[*panel.Surface], led hal.LED, log kernel.Capability, cfg Config) *Task {
	if cfg.Arena.Empty() {
		cfg.Arena = DefaultConfig.Arena
	}
	if cfg.Box.Empty() {
		cfg.Box = DefaultConfig.Box
	}
	if !cfg.Box.In(cfg.Arena) {
		panic(fmt.Sprintf("redraw: box %v outside arena %v", cfg.Box, cfg.Arena))
	}
	if cfg.Period == 0 {
		cfg.Period = 1
	}
	return &Task{cfg: cfg, surf: surf, led: led, log: log, box: cfg.Box, vel: cfg.Velocity}
}

// Frame is the number of frames drawn.
func (t *Task) Frame() uint64 { return t.frame }

// Box is the box as last drawn.
func (t *Task) Box() image.Rectangle { return t.box }

// Step draws one frame and sleeps for one period. While another task holds
// the surface it waits without drawing.
func (t *Task) Step(ctx *kernel.Context) {
	s, ok := t.surf.Acquire(ctx)
	if !ok {
		return
	}
	if t.drawn {
		s.FillSolid(t.box, ltdc.Black)
		t.move()
	}
	s.FillSolid(t.box, t.cfg.Color)
	t.surf.Release(ctx)
	t.drawn = true
	t.frame++

	t.heartbeat()
	if n := t.cfg.ReportEvery; n != 0 && t.frame%n == 0 && t.log.Valid() {
		_ = logclient.Logf(ctx, t.log, "redraw: frame %d box %v", t.frame, t.box.Min)
	}
	ctx.Sleep(t.cfg.Period)
}

// move advances the box and bounces it off the arena edges.
func (t *Task) move() {
	next := t.box.Add(t.vel)
	a := t.cfg.Arena
	if next.Min.X < a.Min.X || next.Max.X > a.Max.X {
		t.vel.X = -t.vel.X
	}
	if next.Min.Y < a.Min.Y || next.Max.Y > a.Max.Y {
		t.vel.Y = -t.vel.Y
	}
	next = t.box.Add(t.vel)
	if !next.In(a) {
		// arena too small for the velocity; stay put
		return
	}
	t.box = next
}

func (t *Task) heartbeat() {
	if t.led == nil {
		return
	}
	t.ledOn = !t.ledOn
	if t.ledOn {
		t.led.High()
	} else {
		t.led.Low()
	}
}
