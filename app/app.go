// Package app wires the panel, the kernel and the tasks into the firmware.
package app

import (
	"fmt"
	"image"

	"disco/client/console"
	logclient "disco/client/logger"
	"disco/display/ltdc"
	"disco/display/panel"
	"disco/hal"
	"disco/internal/buildinfo"
	"disco/kernel"
	conservice "disco/services/console"
	"disco/services/logger"
	"disco/tasks/redraw"
)

const defaultStepBudget = 64

// ConsoleArea is the band at the bottom of the panel the console draws in.
var ConsoleArea = image.Rect(0, 236, 480, 272)

// Config selects the board options. The zero value is the default setup.
type Config struct {
	// Reload selects when layer changes latch.
	Reload ltdc.ReloadMode
	// Redraw configures the animation; the zero value is redraw.DefaultConfig.
	Redraw redraw.Config
	// StepBudget caps the kernel steps per call of the step function.
	StepBudget int
}

// System is the running firmware.
type System struct {
	h   hal.HAL
	cfg Config
	k   *kernel.Kernel

	disp   *panel.Display
	surf   *kernel.Resource[*panel.Surface]
	redraw *redraw.Task
	con    *conservice.Service
}

// New brings the system up and returns its step function, which the host
// runners call once per frame.
func New(h hal.HAL, cfg Config) func() error {
	return NewSystem(h, cfg).Step
}

// Run starts the system and never returns (TinyGo entrypoint). Between steps
// it sleeps on the tick stream; after a task panic it halts with the panic
// screen shown.
func Run(h hal.HAL, cfg Config) {
	s := NewSystem(h, cfg)
	var ticks <-chan uint64
	if t := h.Time(); t != nil {
		ticks = t.Ticks()
	}
	for {
		if err := s.Step(); err != nil {
			select {}
		}
		if s.k.Idle() {
			s.k.TickTo(<-ticks)
		}
	}
}

// NewSystem opens the panel, paints the boot screen and starts the tasks.
func NewSystem(h hal.HAL, cfg Config) *System {
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = defaultStepBudget
	}
	if cfg.Redraw == (redraw.Config{}) {
		cfg.Redraw = redraw.DefaultConfig
	}

	s := &System{h: h, cfg: cfg, k: kernel.New()}
	installPanicHandler(s)

	s.disp = panel.Open(h.Display(), panel.Config{Reload: cfg.Reload, Logger: h.Logger()})
	surf := s.disp.Surface()
	drawBootScreen(surf)
	s.surf = kernel.NewResource(s.k, "surface", surf)

	logEP := s.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	conEP := s.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	s.con = conservice.New(s.surf, conEP.Restrict(kernel.RightRecv), ConsoleArea)
	s.redraw = redraw.New(s.surf, h.LED(), logEP.Restrict(kernel.RightSend), cfg.Redraw)

	s.k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)).Mirror(conEP.Restrict(kernel.RightSend)))
	s.k.AddTask(s.con)
	s.k.AddTask(s.redraw)
	s.k.AddTask(bootMessage{
		log:  logEP.Restrict(kernel.RightSend),
		con:  conEP.Restrict(kernel.RightSend),
		line: fmt.Sprintf("disco %s: %s", buildinfo.Short(), s.disp.Controller().PixelClock()),
	})
	return s
}

// Step feeds the newest tick to the kernel and runs tasks until they are all
// suspended or the step budget is spent. After a task panic it reports the
// panic as an error.
func (s *System) Step() error {
	s.pollTicks()
	s.k.Run(s.cfg.StepBudget)
	if info, ok := s.k.Panic(); ok {
		return fmt.Errorf("app: task %d panicked: %v", info.TaskID, info.Value)
	}
	return nil
}

func (s *System) pollTicks() {
	t := s.h.Time()
	if t == nil {
		return
	}
	ch := t.Ticks()
	if ch == nil {
		return
	}
	for {
		select {
		case seq := <-ch:
			s.k.TickTo(seq)
		default:
			return
		}
	}
}

// Kernel exposes the scheduler.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Display exposes the panel.
func (s *System) Display() *panel.Display { return s.disp }

// Redraw exposes the animation task.
func (s *System) Redraw() *redraw.Task { return s.redraw }

// bootMessage logs the version line once and clears stale console text.
type bootMessage struct {
	log  kernel.Capability
	con  kernel.Capability
	line string
}

func (b bootMessage) Step(ctx *kernel.Context) {
	_ = console.Clear(ctx, b.con)
	_ = logclient.Log(ctx, b.log, b.line)
	ctx.Exit()
}
