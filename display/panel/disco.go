package panel

import "disco/display/ltdc"

// DiscoTiming is the RK043FN48H 4.3" panel on the STM32F746G-DISCO board.
// All control signals are active low.
var DiscoTiming = ltdc.Timing{
	ActiveWidth:  480,
	ActiveHeight: 272,
	HBackPorch:   13,
	HFrontPorch:  30,
	HSync:        41,
	VBackPorch:   2,
	VFrontPorch:  2,
	VSync:        10,
	FrameRate:    60,
}
