package hal

// Arena is a bump allocator over a fixed slab whose first byte sits at a known
// bus address. It implements Memory.
type Arena struct {
	base uint32
	buf  []byte
	used uint32
}

// NewArena returns an arena over buf, addressed from base.
func NewArena(base uint32, buf []byte) *Arena {
	return &Arena{base: base, buf: buf}
}

// Reserve carves size bytes aligned to align out of the slab.
func (a *Arena) Reserve(size, align uint32) (uint32, []byte, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, nil, ErrArenaAlignment
	}
	addr := (a.base + a.used + align - 1) &^ (align - 1)
	off := addr - a.base
	if uint64(off)+uint64(size) > uint64(len(a.buf)) {
		return 0, nil, ErrArenaExhausted
	}
	a.used = off + size
	return addr, a.buf[off : off+size : off+size], nil
}

// Resolve returns the n bytes backing bus address addr.
func (a *Arena) Resolve(addr, n uint32) ([]byte, error) {
	if addr < a.base {
		return nil, ErrAddressUnmapped
	}
	off := uint64(addr - a.base)
	if off+uint64(n) > uint64(len(a.buf)) {
		return nil, ErrAddressUnmapped
	}
	return a.buf[off : off+uint64(n)], nil
}

// Used reports how many bytes have been reserved, padding included.
func (a *Arena) Used() uint32 { return a.used }

// Size is the slab length.
func (a *Arena) Size() uint32 { return uint32(len(a.buf)) }
