//go:build tinygo

package periph

import "runtime/volatile"

// Register32 is a 32-bit memory-mapped hardware register.
type Register32 = volatile.Register32
