// Package periph describes the STM32F7 register blocks used to drive the LCD:
// the LTDC timing generator, the DMA2D blit accelerator, and the parts of RCC,
// PWR, FLASH and GPIO needed to clock and route them.
//
// Layouts follow RM0385. On the board the blocks are cast from their bus
// addresses; on the host they are ordinary memory interpreted by the simulator
// in package hal.
package periph

// Bus addresses (RM0385 table 1).
const (
	FLASHBase = 0x40023C00
	PWRBase   = 0x40007000
	RCCBase   = 0x40023800
	LTDCBase  = 0x40016800
	DMA2DBase = 0x4002B000
	GPIOBase  = 0x40020000 // GPIOA; ports are 0x400 apart
	GPIOSize  = 0x400
)

// LTDC is the LCD-TFT display controller.
type LTDC struct {
	_     [2]Register32 // 0x00
	SSCR  Register32    // 0x08 synchronization size
	BPCR  Register32    // 0x0C back porch
	AWCR  Register32    // 0x10 active width
	TWCR  Register32    // 0x14 total width
	GCR   Register32    // 0x18 global control
	_     [2]Register32
	SRCR  Register32 // 0x24 shadow reload
	_     Register32
	BCCR  Register32 // 0x2C background color
	_     Register32
	IER   Register32 // 0x34
	ISR   Register32 // 0x38
	ICR   Register32 // 0x3C
	LIPCR Register32 // 0x40
	CPSR  Register32 // 0x44
	CDSR  Register32 // 0x48
	_     [14]Register32
	Layer [2]LTDCLayer // 0x84, 0x104
}

// LTDCLayer is one of the two scan-out layers.
type LTDCLayer struct {
	CR     Register32 // +0x00
	WHPCR  Register32 // +0x04 window horizontal position
	WVPCR  Register32 // +0x08 window vertical position
	CKCR   Register32 // +0x0C color keying
	PFCR   Register32 // +0x10 pixel format
	CACR   Register32 // +0x14 constant alpha
	DCCR   Register32 // +0x18 default color
	BFCR   Register32 // +0x1C blending factors
	_      [2]Register32
	CFBAR  Register32 // +0x28 frame buffer address
	CFBLR  Register32 // +0x2C frame buffer length
	CFBLNR Register32 // +0x30 frame buffer line number
	_      [3]Register32
	CLUTWR Register32 // +0x40
	_      [15]Register32
}

// LTDC bit fields.
const (
	SSCR_VSH_Pos  = 0
	SSCR_HSW_Pos  = 16
	BPCR_AVBP_Pos = 0
	BPCR_AHBP_Pos = 16
	AWCR_AAH_Pos  = 0
	AWCR_AAW_Pos  = 16
	TWCR_TOTALH   = 0
	TWCR_TOTALW   = 16

	GCR_LTDCEN = 1 << 0
	GCR_DEN    = 1 << 16
	GCR_PCPOL  = 1 << 28
	GCR_DEPOL  = 1 << 29
	GCR_VSPOL  = 1 << 30
	GCR_HSPOL  = 1 << 31

	SRCR_IMR = 1 << 0
	SRCR_VBR = 1 << 1

	LxCR_LEN    = 1 << 0
	LxCR_COLKEN = 1 << 1
	LxCR_CLUTEN = 1 << 4

	LxWHPCR_WHSTPOS_Pos = 0
	LxWHPCR_WHSPPOS_Pos = 16
	LxWVPCR_WVSTPOS_Pos = 0
	LxWVPCR_WVSPPOS_Pos = 16
	LxCFBLR_CFBLL_Pos   = 0
	LxCFBLR_CFBP_Pos    = 16
	LxBFCR_BF2_Pos      = 0
	LxBFCR_BF1_Pos      = 8

	Field11 = 0x7FF
	Field12 = 0xFFF
	Field13 = 0x1FFF
)

// DMA2D is the Chrom-ART accelerator.
type DMA2D struct {
	CR      Register32 // 0x00
	ISR     Register32 // 0x04
	IFCR    Register32 // 0x08
	FGMAR   Register32 // 0x0C foreground memory address
	FGOR    Register32 // 0x10 foreground offset
	BGMAR   Register32 // 0x14
	BGOR    Register32 // 0x18
	FGPFCCR Register32 // 0x1C foreground PFC control
	FGCOLR  Register32 // 0x20
	BGPFCCR Register32 // 0x24
	BGCOLR  Register32 // 0x28
	FGCMAR  Register32 // 0x2C
	BGCMAR  Register32 // 0x30
	OPFCCR  Register32 // 0x34 output PFC control
	OCOLR   Register32 // 0x38 output color
	OMAR    Register32 // 0x3C output memory address
	OOR     Register32 // 0x40 output offset
	NLR     Register32 // 0x44 number of lines
	LWR     Register32 // 0x48
	AMTCR   Register32 // 0x4C
}

// DMA2D bit fields.
const (
	DMA2D_CR_START    = 1 << 0
	DMA2D_CR_SUSP     = 1 << 1
	DMA2D_CR_ABORT    = 1 << 2
	DMA2D_CR_MODE_Pos = 16
	DMA2D_CR_MODE_Msk = 0x3

	DMA2D_MODE_M2M       = 0b00
	DMA2D_MODE_M2M_PFC   = 0b01
	DMA2D_MODE_M2M_BLEND = 0b10
	DMA2D_MODE_R2M       = 0b11

	DMA2D_ISR_TEIF  = 1 << 0
	DMA2D_ISR_TCIF  = 1 << 1
	DMA2D_ISR_CEIF  = 1 << 5
	DMA2D_IFCR_ALL  = 0x3F
	DMA2D_NLR_PL_Pos = 16
	DMA2D_NLR_NL_Msk = 0xFFFF
	DMA2D_NLR_PL_Msk = 0x3FFF
	DMA2D_OOR_Msk    = 0x3FFF
	DMA2D_CM_Msk     = 0x7
	DMA2D_FGCM_Msk   = 0xF
)

// RCC is the reset and clock control block.
type RCC struct {
	CR         Register32 // 0x00
	PLLCFGR    Register32 // 0x04
	CFGR       Register32 // 0x08
	CIR        Register32 // 0x0C
	AHB1RSTR   Register32 // 0x10
	AHB2RSTR   Register32 // 0x14
	AHB3RSTR   Register32 // 0x18
	_          Register32
	APB1RSTR   Register32 // 0x20
	APB2RSTR   Register32 // 0x24
	_          [2]Register32
	AHB1ENR    Register32 // 0x30
	AHB2ENR    Register32 // 0x34
	AHB3ENR    Register32 // 0x38
	_          Register32
	APB1ENR    Register32 // 0x40
	APB2ENR    Register32 // 0x44
	_          [2]Register32
	AHB1LPENR  Register32 // 0x50
	AHB2LPENR  Register32 // 0x54
	AHB3LPENR  Register32 // 0x58
	_          Register32
	APB1LPENR  Register32 // 0x60
	APB2LPENR  Register32 // 0x64
	_          [2]Register32
	BDCR       Register32 // 0x70
	CSR        Register32 // 0x74
	_          [2]Register32
	SSCGR      Register32 // 0x80
	PLLI2SCFGR Register32 // 0x84
	PLLSAICFGR Register32 // 0x88
	DCKCFGR1   Register32 // 0x8C
	DCKCFGR2   Register32 // 0x90
}

// RCC bit fields.
const (
	RCC_CR_HSION     = 1 << 0
	RCC_CR_HSEON     = 1 << 16
	RCC_CR_HSERDY    = 1 << 17
	RCC_CR_HSEBYP    = 1 << 18
	RCC_CR_PLLON     = 1 << 24
	RCC_CR_PLLRDY    = 1 << 25
	RCC_CR_PLLSAION  = 1 << 28
	RCC_CR_PLLSAIRDY = 1 << 29

	RCC_PLLCFGR_PLLM_Pos = 0
	RCC_PLLCFGR_PLLM_Msk = 0x3F
	RCC_PLLCFGR_PLLN_Pos = 6
	RCC_PLLCFGR_PLLP_Pos = 16
	RCC_PLLCFGR_PLLSRC   = 1 << 22
	RCC_PLLCFGR_PLLQ_Pos = 24

	RCC_CFGR_SW_Msk    = 0x3
	RCC_CFGR_SW_PLL    = 0x2
	RCC_CFGR_SWS_Pos   = 2
	RCC_CFGR_HPRE_Pos  = 4
	RCC_CFGR_PPRE1_Pos = 10
	RCC_CFGR_PPRE2_Pos = 13

	RCC_AHB1ENR_DMA2DEN  = 1 << 23
	RCC_AHB1RSTR_DMA2DRST = 1 << 23
	RCC_APB1ENR_PWREN    = 1 << 28
	RCC_APB2ENR_LTDCEN   = 1 << 26
	RCC_APB2RSTR_LTDCRST = 1 << 26

	RCC_PLLSAICFGR_PLLSAIN_Pos = 6
	RCC_PLLSAICFGR_PLLSAIN_Msk = 0x1FF
	RCC_PLLSAICFGR_PLLSAIQ_Pos = 24
	RCC_PLLSAICFGR_PLLSAIR_Pos = 28
	RCC_PLLSAICFGR_PLLSAIR_Msk = 0x7

	RCC_DCKCFGR1_PLLSAIDIVR_Pos = 16
	RCC_DCKCFGR1_PLLSAIDIVR_Msk = 0x3
)

// PWR is the power controller.
type PWR struct {
	CR1  Register32 // 0x00
	CSR1 Register32 // 0x04
	CR2  Register32
	CSR2 Register32
}

// PWR bit fields.
const (
	PWR_CR1_VOS_Pos  = 14
	PWR_CR1_ODEN     = 1 << 16
	PWR_CR1_ODSWEN   = 1 << 17
	PWR_CSR1_ODRDY   = 1 << 16
	PWR_CSR1_ODSWRDY = 1 << 17
)

// FLASH is the flash interface.
type FLASH struct {
	ACR Register32 // 0x00
}

// FLASH bit fields.
const (
	FLASH_ACR_LATENCY_Msk = 0xF
	FLASH_ACR_PRFTEN      = 1 << 8
	FLASH_ACR_ARTEN       = 1 << 9
)

// GPIO is one GPIO port.
type GPIO struct {
	MODER   Register32 // 0x00
	OTYPER  Register32 // 0x04
	OSPEEDR Register32 // 0x08
	PUPDR   Register32 // 0x0C
	IDR     Register32 // 0x10
	ODR     Register32 // 0x14
	BSRR    Register32 // 0x18
	LCKR    Register32 // 0x1C
	AFR     [2]Register32
}

// GPIO modes and speeds.
const (
	GPIOModeInput     = 0b00
	GPIOModeOutput    = 0b01
	GPIOModeAlternate = 0b10
	GPIOSpeedVeryHigh = 0b11
)
