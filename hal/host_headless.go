//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	// StepBudget is the number of app steps per frame.
	StepBudget int
}

// RunHeadless runs the program without opening a window. Every frame advances
// the tick stream, runs the app step and ends with a vertical blank.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	h := newHost(os.Stdout)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					return err
				}
			}
			h.sim.VBlank()
			frame++
			if cfg.Ticks > 0 && frame >= cfg.Ticks {
				on, toggles := h.led.state()
				h.logger.WriteLineString(fmt.Sprintf("hal: headless done frames=%d lit=%t led=%t toggles=%d spins=%d",
					frame, h.sim.Lit(), on, toggles, h.sim.Spins()))
				return nil
			}
		}
	}
}
