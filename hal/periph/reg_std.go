//go:build !tinygo

package periph

import "sync/atomic"

// Register32 is a 32-bit hardware register.
//
// It mirrors the method set of runtime/volatile.Register32 so driver code is
// shared between the board and the host simulator.
type Register32 struct {
	Reg uint32
}

func (r *Register32) Get() uint32 {
	return atomic.LoadUint32(&r.Reg)
}

func (r *Register32) Set(value uint32) {
	atomic.StoreUint32(&r.Reg, value)
}

func (r *Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

func (r *Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

func (r *Register32) HasBits(value uint32) bool {
	return r.Get()&value != 0
}

// ReplaceBits replaces the bits selected by mask<<pos with value<<pos.
func (r *Register32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}
