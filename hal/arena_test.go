package hal

import (
	"errors"
	"testing"
)

func TestArenaReserveAligns(t *testing.T) {
	a := NewArena(0x1000_0001, make([]byte, 64))

	addr, mem, err := a.Reserve(8, 4)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if addr != 0x1000_0004 {
		t.Fatalf("Reserve() addr = %#x, want %#x", addr, 0x1000_0004)
	}
	if len(mem) != 8 || cap(mem) != 8 {
		t.Fatalf("Reserve() len/cap = %d/%d, want 8/8", len(mem), cap(mem))
	}

	addr2, _, err := a.Reserve(4, 16)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if addr2 != 0x1000_0010 {
		t.Fatalf("second Reserve() addr = %#x, want %#x", addr2, 0x1000_0010)
	}
}

func TestArenaReserveExhausted(t *testing.T) {
	a := NewArena(0, make([]byte, 16))
	if _, _, err := a.Reserve(12, 1); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if _, _, err := a.Reserve(8, 1); !errors.Is(err, ErrArenaExhausted) {
		t.Fatalf("Reserve() error = %v, want %v", err, ErrArenaExhausted)
	}
	if _, _, err := a.Reserve(1, 3); !errors.Is(err, ErrArenaAlignment) {
		t.Fatalf("Reserve() error = %v, want %v", err, ErrArenaAlignment)
	}
}

func TestArenaResolveSharesMemory(t *testing.T) {
	a := NewArena(SimBusBase, make([]byte, 32))
	addr, mem, err := a.Reserve(16, 4)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	b, err := a.Resolve(addr+4, 4)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	b[0] = 0xAB
	if mem[4] != 0xAB {
		t.Fatalf("mem[4] = %#x, want 0xab", mem[4])
	}

	if _, err := a.Resolve(SimBusBase-1, 1); !errors.Is(err, ErrAddressUnmapped) {
		t.Fatalf("Resolve(below) error = %v, want %v", err, ErrAddressUnmapped)
	}
	if _, err := a.Resolve(SimBusBase+30, 4); !errors.Is(err, ErrAddressUnmapped) {
		t.Fatalf("Resolve(past end) error = %v, want %v", err, ErrAddressUnmapped)
	}
}
