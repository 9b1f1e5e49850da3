package ltdc

import (
	"fmt"
	"unsafe"

	"disco/hal"
)

// Layer is one of the two LTDC scan-out layers.
type Layer uint8

const (
	Layer1 Layer = iota
	Layer2

	numLayers = 2
)

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "L1"
	case Layer2:
		return "L2"
	default:
		return fmt.Sprintf("L?(%d)", uint8(l))
	}
}

func (l Layer) check() {
	if l >= numLayers {
		panic("ltdc: no such layer " + l.String())
	}
}

// Framebuffer is a pinned array of exactly width×height pixel words. Its
// address and length are fixed when the registry creates it.
type Framebuffer[T Word] struct {
	pix  []T
	addr uint32
}

// Len is the number of pixel words.
func (f *Framebuffer[T]) Len() int { return len(f.pix) }

// Addr is the bus address the LTDC and DMA2D are programmed with.
func (f *Framebuffer[T]) Addr() uint32 { return f.addr }

// Framebuffers are reserved with the alignment the DMA2D burst engine wants.
const framebufferAlign = 8

// Registry owns one framebuffer per layer, carved from pinned memory on
// first use and never reallocated or freed.
type Registry[T Word] struct {
	mem    hal.Memory
	pixels int
	slots  [numLayers]*Framebuffer[T]
}

// NewRegistry returns a registry whose framebuffers cover timing's active
// area.
func NewRegistry[T Word](mem hal.Memory, timing Timing) *Registry[T] {
	timing.Validate()
	return &Registry[T]{mem: mem, pixels: timing.Pixels()}
}

// GetOrInit returns the layer's framebuffer, reserving it on the first call.
// Every call for the same layer returns the same framebuffer. It panics if
// the memory cannot hold it.
func (r *Registry[T]) GetOrInit(l Layer) *Framebuffer[T] {
	l.check()
	if fb := r.slots[l]; fb != nil {
		return fb
	}
	size := uint32(r.pixels * wordSize[T]())
	addr, mem, err := r.mem.Reserve(size, framebufferAlign)
	if err != nil {
		panic(fmt.Sprintf("ltdc: framebuffer %s (%d bytes): %v", l, size, err))
	}
	fb := &Framebuffer[T]{
		pix:  unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), r.pixels),
		addr: addr,
	}
	r.slots[l] = fb
	return fb
}
