package ltdc

import "fmt"

// Timing is a panel timing profile. Porches and sync widths are in pixel
// clocks (horizontal) or lines (vertical).
//
// A false polarity means active low.
type Timing struct {
	ActiveWidth  uint16
	ActiveHeight uint16
	HBackPorch   uint16
	HFrontPorch  uint16
	HSync        uint16
	VBackPorch   uint16
	VFrontPorch  uint16
	VSync        uint16
	FrameRate    uint16

	HSyncPol      bool
	VSyncPol      bool
	DataEnablePol bool
	PixelClockPol bool
}

// Validate panics if any dimension is zero or the totals overflow the
// register fields.
func (t Timing) Validate() {
	for _, f := range []struct {
		name string
		v    uint16
	}{
		{"active width", t.ActiveWidth},
		{"active height", t.ActiveHeight},
		{"h back porch", t.HBackPorch},
		{"h front porch", t.HFrontPorch},
		{"h sync", t.HSync},
		{"v back porch", t.VBackPorch},
		{"v front porch", t.VFrontPorch},
		{"v sync", t.VSync},
		{"frame rate", t.FrameRate},
	} {
		if f.v == 0 {
			panic("ltdc: timing " + f.name + " is zero")
		}
	}
	if w, h := t.TotalWidth(), t.TotalHeight(); w > 0xFFF || h > 0x7FF {
		panic(fmt.Sprintf("ltdc: timing totals %dx%d overflow the LTDC fields", w, h))
	}
}

// TotalWidth is the accumulated total width register value.
func (t Timing) TotalWidth() uint32 {
	return uint32(t.HSync) + uint32(t.HBackPorch) + uint32(t.ActiveWidth) + uint32(t.HFrontPorch) - 1
}

// TotalHeight is the accumulated total height register value.
func (t Timing) TotalHeight() uint32 {
	return uint32(t.VSync) + uint32(t.VBackPorch) + uint32(t.ActiveHeight) + uint32(t.VFrontPorch) - 1
}

// PixelClockHz is the dot clock needed for FrameRate.
func (t Timing) PixelClockHz() uint32 {
	return t.TotalWidth() * t.TotalHeight() * uint32(t.FrameRate)
}

// Pixels is ActiveWidth×ActiveHeight.
func (t Timing) Pixels() int {
	return int(t.ActiveWidth) * int(t.ActiveHeight)
}

// accumulated returns the horizontal and vertical back porch ends (AHBP,
// AVBP): the last clock before the active area.
func (t Timing) accumulated() (ahbp, avbp uint32) {
	return uint32(t.HSync) + uint32(t.HBackPorch) - 1, uint32(t.VSync) + uint32(t.VBackPorch) - 1
}
