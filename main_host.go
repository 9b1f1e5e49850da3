//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"disco/app"
	"disco/display/ltdc"
	"disco/hal"
	"disco/tasks/redraw"
)

func main() {
	var hcfg hal.HeadlessConfig
	var wcfg hal.WindowConfig
	var vblank bool
	acfg := app.Config{Redraw: redraw.DefaultConfig}
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.IntVar(&wcfg.Scale, "scale", 2, "Window zoom factor.")
	flag.BoolVar(&vblank, "vblank-reload", false, "Latch layer changes at vertical blank instead of immediately.")
	flag.Uint64Var(&acfg.Redraw.Period, "period", redraw.DefaultConfig.Period, "Redraw period in milliseconds.")
	flag.Parse()

	if vblank {
		acfg.Reload = ltdc.ReloadVerticalBlank
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, acfg) }

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, wcfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
