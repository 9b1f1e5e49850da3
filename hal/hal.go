package hal

import (
	"errors"

	"disco/hal/periph"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Pin is a push-pull output line.
type Pin interface {
	High()
	Low()
}

// LED is a minimal output pin abstraction.
type LED interface {
	Pin
}

var (
	ErrNotImplemented  = errors.New("not implemented")
	ErrArenaExhausted  = errors.New("hal: display arena exhausted")
	ErrArenaAlignment  = errors.New("hal: alignment must be a power of two")
	ErrAddressUnmapped = errors.New("hal: bus address not backed by arena")
)

// Memory hands out pinned, bus-addressable memory for scan-out buffers.
//
// A reservation is never moved or released; the returned address is what the
// LTDC and DMA2D are programmed with.
type Memory interface {
	Reserve(size, align uint32) (addr uint32, mem []byte, err error)
}

// DisplayHW bundles the peripherals the display controller takes ownership of.
type DisplayHW struct {
	LTDC   *periph.LTDC
	DMA2D  *periph.DMA2D
	RCC    *periph.RCC
	Memory Memory

	// Spin is called from every busy-wait loop. On the board it is nil; the
	// host simulator uses it to advance the hardware model.
	Spin func()
}

// Display provides the LCD peripherals and its two control lines.
type Display interface {
	Hardware() DisplayHW
	// OutputEnable is the panel's DISP line.
	OutputEnable() Pin
	Backlight() Pin
	// HSEHz is the external oscillator frequency, 0 if the PLLs run from HSI.
	HSEHz() uint32
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined (1 ms on both targets).
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the program and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Time() Time
}
