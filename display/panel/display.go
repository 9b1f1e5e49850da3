// Package panel turns the LTDC controller into the board's display: it owns
// the framebuffer, runs the power-up sequence on the DISP and backlight lines
// and hands out the drawing Surface.
package panel

import (
	"fmt"

	"disco/display/ltdc"
	"disco/hal"
)

// Config selects the panel profile. The zero value is the DISCO panel with
// immediate reloads and no logging.
type Config struct {
	Timing ltdc.Timing
	Reload ltdc.ReloadMode
	Logger hal.Logger
}

// Display is a brought-up panel.
type Display struct {
	hw  hal.Display
	cfg Config

	ctrl  *ltdc.Controller[ltdc.RGB565]
	fb    *ltdc.Framebuffer[ltdc.RGB565]
	live  *ltdc.Live[ltdc.RGB565]
	surf  *Surface
	steps []Step
}

// Open configures the controller and lights the panel. The framebuffer starts
// out zeroed, so the first visible frame is black.
func Open(h hal.Display, cfg Config) *Display {
	if cfg.Timing == (ltdc.Timing{}) {
		cfg.Timing = DiscoTiming
	}
	d := &Display{hw: h, cfg: cfg}
	bringUp(d, func(s Step) {
		d.steps = append(d.steps, s)
		d.logf("panel: %s", s)
	})
	d.surf = newSurface(d.live, ltdc.Layer1)
	return d
}

func (d *Display) logf(format string, args ...any) {
	if d.cfg.Logger == nil {
		return
	}
	d.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}

func (d *Display) configure() {
	hw := d.hw.Hardware()
	d.ctrl = ltdc.New[ltdc.RGB565](hw, d.cfg.Timing, ltdc.FormatRGB565, ltdc.HSE(d.hw.HSEHz()))
	d.ctrl.SetReloadMode(d.cfg.Reload)
	d.fb = ltdc.NewRegistry[ltdc.RGB565](hw.Memory, d.cfg.Timing).GetOrInit(ltdc.Layer1)
	d.ctrl.ConfigureLayer(ltdc.Layer1, d.fb, ltdc.FormatRGB565)
	d.logf("panel: %dx%d pixel clock %s, framebuffer at %#08x",
		d.cfg.Timing.ActiveWidth, d.cfg.Timing.ActiveHeight, d.ctrl.PixelClock(), d.fb.Addr())
}

func (d *Display) setOutputEnable(on bool) {
	if on {
		d.hw.OutputEnable().High()
	} else {
		d.hw.OutputEnable().Low()
	}
}

func (d *Display) setBacklight(on bool) {
	if on {
		d.hw.Backlight().High()
	} else {
		d.hw.Backlight().Low()
	}
}

func (d *Display) commit() {
	d.ctrl.EnableLayer(ltdc.Layer1)
	d.live = d.ctrl.Reload()
}

// Surface is the drawing surface of the panel.
func (d *Display) Surface() *Surface { return d.surf }

// Controller exposes the LTDC controller.
func (d *Display) Controller() *ltdc.Controller[ltdc.RGB565] { return d.ctrl }

// Steps is the bring-up trace.
func (d *Display) Steps() []Step { return append([]Step(nil), d.steps...) }

// Enable drives DISP high.
func (d *Display) Enable() { d.setOutputEnable(true) }

// Disable drives DISP low; the panel goes dark but keeps its contents.
func (d *Display) Disable() { d.setOutputEnable(false) }

// BacklightOn drives the backlight enable high.
func (d *Display) BacklightOn() { d.setBacklight(true) }

// BacklightOff drives the backlight enable low. Scan-out continues.
func (d *Display) BacklightOff() { d.setBacklight(false) }
