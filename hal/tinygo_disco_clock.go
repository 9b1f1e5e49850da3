//go:build tinygo && stm32f746

package hal

import (
	"unsafe"

	"disco/hal/periph"
)

// The ST-LINK MCO feeds a 25 MHz clock into OSC_IN.
const hseHz = 25_000_000

func rcc() *periph.RCC {
	return (*periph.RCC)(unsafe.Pointer(uintptr(periph.RCCBase)))
}

// initClocks switches SYSCLK to the main PLL at 216 MHz: HSE bypass,
// M=25 N=432 P=2 Q=9, over-drive on, seven flash wait states, APB1 /4, APB2 /2.
func initClocks() {
	r := rcc()
	pwr := (*periph.PWR)(unsafe.Pointer(uintptr(periph.PWRBase)))
	flash := (*periph.FLASH)(unsafe.Pointer(uintptr(periph.FLASHBase)))

	r.APB1ENR.SetBits(periph.RCC_APB1ENR_PWREN)
	pwr.CR1.ReplaceBits(0b11, 0b11, periph.PWR_CR1_VOS_Pos) // scale 1

	r.CR.SetBits(periph.RCC_CR_HSEBYP | periph.RCC_CR_HSEON)
	for !r.CR.HasBits(periph.RCC_CR_HSERDY) {
	}

	r.CR.ClearBits(periph.RCC_CR_PLLON)
	for r.CR.HasBits(periph.RCC_CR_PLLRDY) {
	}
	r.PLLCFGR.Set(25<<periph.RCC_PLLCFGR_PLLM_Pos |
		432<<periph.RCC_PLLCFGR_PLLN_Pos |
		0<<periph.RCC_PLLCFGR_PLLP_Pos | // /2
		periph.RCC_PLLCFGR_PLLSRC |
		9<<periph.RCC_PLLCFGR_PLLQ_Pos)
	r.CR.SetBits(periph.RCC_CR_PLLON)
	for !r.CR.HasBits(periph.RCC_CR_PLLRDY) {
	}

	pwr.CR1.SetBits(periph.PWR_CR1_ODEN)
	for !pwr.CSR1.HasBits(periph.PWR_CSR1_ODRDY) {
	}
	pwr.CR1.SetBits(periph.PWR_CR1_ODSWEN)
	for !pwr.CSR1.HasBits(periph.PWR_CSR1_ODSWRDY) {
	}

	flash.ACR.Set(7 | periph.FLASH_ACR_ARTEN | periph.FLASH_ACR_PRFTEN)
	for flash.ACR.Get()&periph.FLASH_ACR_LATENCY_Msk != 7 {
	}

	r.CFGR.Set(0<<periph.RCC_CFGR_HPRE_Pos |
		0b101<<periph.RCC_CFGR_PPRE1_Pos |
		0b100<<periph.RCC_CFGR_PPRE2_Pos |
		periph.RCC_CFGR_SW_PLL)
	for (r.CFGR.Get()>>periph.RCC_CFGR_SWS_Pos)&periph.RCC_CFGR_SW_Msk != periph.RCC_CFGR_SW_PLL {
	}
}

type lcdPin struct {
	port byte
	pin  uint8
	af   uint8
}

// LCD signal routing on the DISCO board. Every signal is AF14 except LCD_B4
// on PG12 which sits on AF9.
var lcdPins = [...]lcdPin{
	{'E', 4, 14},  // B0
	{'G', 12, 9},  // B4
	{'I', 9, 14},  // VSYNC
	{'I', 10, 14}, // HSYNC
	{'I', 14, 14}, // CLK
	{'I', 15, 14}, // R0
	{'J', 0, 14}, {'J', 1, 14}, {'J', 2, 14}, {'J', 3, 14}, // R1..R4
	{'J', 4, 14}, {'J', 5, 14}, {'J', 6, 14}, // R5..R7
	{'J', 7, 14}, {'J', 8, 14}, {'J', 9, 14}, {'J', 10, 14}, {'J', 11, 14}, // G0..G4
	{'J', 13, 14}, {'J', 14, 14}, {'J', 15, 14}, // B1..B3
	{'K', 0, 14}, {'K', 1, 14}, {'K', 2, 14}, // G5..G7
	{'K', 4, 14}, {'K', 5, 14}, {'K', 6, 14}, // B5..B7
	{'K', 7, 14}, // DE
}

func initLCDPins() {
	r := rcc()
	for _, port := range "EGIJK" {
		r.AHB1ENR.SetBits(1 << uint32(port-'A'))
	}
	_ = r.AHB1ENR.Get()

	for _, p := range lcdPins {
		g := gpioPort(p.port)
		pos := uint8(p.pin) * 2
		g.MODER.ReplaceBits(periph.GPIOModeAlternate, 0b11, pos)
		g.OSPEEDR.ReplaceBits(periph.GPIOSpeedVeryHigh, 0b11, pos)
		g.OTYPER.ClearBits(1 << p.pin)
		g.PUPDR.ReplaceBits(0, 0b11, pos)
		g.AFR[p.pin/8].ReplaceBits(uint32(p.af), 0xF, (p.pin%8)*4)
	}

	disp := gpioPin{port: gpioPort('I'), pin: 12}
	bl := gpioPin{port: gpioPort('K'), pin: 3}
	disp.Low()
	bl.Low()
	configureOutput(disp)
	configureOutput(bl)
}

func configureOutput(p gpioPin) {
	pos := p.pin * 2
	p.port.OTYPER.ClearBits(1 << p.pin)
	p.port.OSPEEDR.ReplaceBits(0b01, 0b11, pos)
	p.port.MODER.ReplaceBits(periph.GPIOModeOutput, 0b11, pos)
}
