//go:build tinygo

package hal

import (
	"time"
	"unsafe"

	"disco/hal/periph"
)

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 1)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

// consoleLogger writes to the runtime's debug console (the target's default
// serial port).
type consoleLogger struct{}

func (consoleLogger) WriteLineString(s string) {
	println(s)
}

func (consoleLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

// gpioPin drives one pin of a port through BSRR.
type gpioPin struct {
	port *periph.GPIO
	pin  uint8
}

func (p gpioPin) High() { p.port.BSRR.Set(1 << p.pin) }
func (p gpioPin) Low()  { p.port.BSRR.Set(1 << (p.pin + 16)) }

func gpioPort(letter byte) *periph.GPIO {
	return (*periph.GPIO)(unsafe.Pointer(uintptr(periph.GPIOBase + uint32(letter-'A')*periph.GPIOSize)))
}
