package ltdc

import "fmt"

// HSIHz is the internal RC oscillator frequency.
const HSIHz = 16_000_000

// ClockSource is the oscillator feeding the PLLs. The zero value means HSI.
type ClockSource struct {
	Hz uint32
}

// HSE returns an external oscillator source of hz.
func HSE(hz uint32) ClockSource { return ClockSource{Hz: hz} }

func (s ClockSource) hz() uint32 {
	if s.Hz == 0 {
		return HSIHz
	}
	return s.Hz
}

// PLLSAI limits (RM0385 5.3.24).
const (
	pllSAIMinN      = 50
	pllSAIMaxN      = 432
	pllSAIMinVCOHz  = 100_000_000
	pllSAIMaxVCOHz  = 432_000_000
	pllSAIMinR      = 2
	pllSAIMaxR      = 7
	pllSAIDivRCount = 4
)

// PLLSAI is a PLLSAI setting producing the LCD clock:
// ((src / PLLM) × N) / R / DivR.
type PLLSAI struct {
	N    uint32
	R    uint32
	DivR uint32 // 2, 4, 8 or 16
	Hz   uint32
}

func (p PLLSAI) String() string {
	return fmt.Sprintf("N=%d R=%d DIVR=%d (%d Hz)", p.N, p.R, p.DivR, p.Hz)
}

func (p PLLSAI) divRField() uint32 {
	switch p.DivR {
	case 2:
		return 0
	case 4:
		return 1
	case 8:
		return 2
	default:
		return 3
	}
}

// SearchPLLSAI finds the setting whose output is closest to lcdHz from below
// or above, preferring the first found on ties. It reports false when no
// setting keeps the VCO in range.
func SearchPLLSAI(srcHz, pllm, lcdHz uint32) (PLLSAI, bool) {
	if pllm == 0 || lcdHz == 0 {
		return PLLSAI{}, false
	}
	vcoIn := uint64(srcHz / pllm)
	if vcoIn == 0 {
		return PLLSAI{}, false
	}

	var best PLLSAI
	bestErr := uint64(1<<63 - 1)
	found := false
	for r := uint64(pllSAIMinR); r <= pllSAIMaxR; r++ {
		for i := 0; i < pllSAIDivRCount; i++ {
			divr := uint64(2) << i
			n := uint64(lcdHz) * divr * r / vcoIn
			if n < pllSAIMinN || n > pllSAIMaxN {
				continue
			}
			vco := vcoIn * n
			if vco < pllSAIMinVCOHz || vco > pllSAIMaxVCOHz {
				continue
			}
			out := vco / (r * divr)
			diff := absDiff(out, uint64(lcdHz))
			if diff < bestErr {
				bestErr = diff
				best = PLLSAI{N: uint32(n), R: uint32(r), DivR: uint32(divr), Hz: uint32(out)}
				found = true
			}
		}
	}
	return best, found
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
