//go:build tinygo && stm32f746

package hal

import (
	"unsafe"

	"disco/hal/periph"
)

// displayArena backs the layer framebuffers. The linker script maps DTCM,
// SRAM1 and SRAM2 as one 320 KB RAM region, and at about 255 KB the array
// spans DTCM and SRAM1. The LTDC and DMA2D reach DTCM through the core's AHBS
// port, so both see every part of it at its CPU address.
var displayArena [(480*272*2 + 32) / 4]uint32

type discoHAL struct {
	led  gpioPin
	disp *discoDisplay
	t    *tinyGoTime
}

// New returns the STM32F746G-DISCO HAL. It brings the clock tree to 216 MHz
// and routes the LCD pins before anything else touches the display.
func New() HAL {
	initClocks()
	initLCDPins()

	led := gpioPin{port: gpioPort('I'), pin: 1}
	configureOutput(led)
	led.Low()

	base := unsafe.Pointer(&displayArena[0])
	arena := NewArena(uint32(uintptr(base)), unsafe.Slice((*byte)(base), len(displayArena)*4))
	return &discoHAL{
		led: led,
		disp: &discoDisplay{
			hw: DisplayHW{
				LTDC:   (*periph.LTDC)(unsafe.Pointer(uintptr(periph.LTDCBase))),
				DMA2D:  (*periph.DMA2D)(unsafe.Pointer(uintptr(periph.DMA2DBase))),
				RCC:    rcc(),
				Memory: arena,
			},
			disp: gpioPin{port: gpioPort('I'), pin: 12},
			bl:   gpioPin{port: gpioPort('K'), pin: 3},
		},
		t: newTinyGoTime(),
	}
}

func (h *discoHAL) Logger() Logger   { return consoleLogger{} }
func (h *discoHAL) LED() LED         { return h.led }
func (h *discoHAL) Display() Display { return h.disp }
func (h *discoHAL) Time() Time       { return h.t }

type discoDisplay struct {
	hw   DisplayHW
	disp gpioPin
	bl   gpioPin
}

func (d *discoDisplay) Hardware() DisplayHW { return d.hw }
func (d *discoDisplay) OutputEnable() Pin   { return d.disp }
func (d *discoDisplay) Backlight() Pin      { return d.bl }
func (d *discoDisplay) HSEHz() uint32       { return hseHz }
