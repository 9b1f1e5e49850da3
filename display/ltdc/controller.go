// Package ltdc drives the STM32F7 LCD-TFT controller and the DMA2D blit
// accelerator behind it.
//
// A Controller is brought up in a fixed order: New programs the clock and the
// timing registers, ConfigureLayer binds a framebuffer, EnableLayer marks it
// for scan-out and Reload commits the shadow registers. Only Reload hands out
// the Live handle that can draw, so pixels cannot be written to a
// framebuffer the panel is not yet scanning.
//
// Contract violations (bad sizes, out-of-range coordinates, calls out of
// order) panic. Nothing here is safe for concurrent use.
package ltdc

import (
	"fmt"

	"disco/hal"
	"disco/hal/periph"
)

// State is the bring-up stage of a Controller. It only moves forward.
type State uint8

const (
	StateUnconfigured State = iota
	StateTimingConfigured
	StateLayerConfigured
	StateLayerEnabled
	StateLive
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateTimingConfigured:
		return "timing configured"
	case StateLayerConfigured:
		return "layer configured"
	case StateLayerEnabled:
		return "layer enabled"
	case StateLive:
		return "live"
	default:
		return "unknown"
	}
}

// ReloadMode selects when Reload commits the shadow registers.
type ReloadMode uint8

const (
	// ReloadImmediate latches right away.
	ReloadImmediate ReloadMode = iota
	// ReloadVerticalBlank latches at the start of the next vertical blank.
	ReloadVerticalBlank
)

func (m ReloadMode) String() string {
	if m == ReloadVerticalBlank {
		return "vblank"
	}
	return "immediate"
}

// spinBudget bounds every busy-wait on the hardware. Exhausting it means the
// peripheral is unclocked or misprogrammed.
const spinBudget = 1 << 20

type layerState[T Word] struct {
	fb      *Framebuffer[T]
	format  PixelFormat
	enabled bool
}

// Controller owns the LTDC and DMA2D register blocks.
type Controller[T Word] struct {
	hw     hal.DisplayHW
	timing Timing
	format PixelFormat
	clock  PLLSAI
	mode   ReloadMode
	state  State
	layers [numLayers]layerState[T]
	live   *Live[T]
}

// New configures the timing generator for timing and turns it on with no
// layer scanned out. clk is the oscillator the PLLs run from; it must
// already be stable.
func New[T Word](hw hal.DisplayHW, timing Timing, format PixelFormat, clk ClockSource) *Controller[T] {
	timing.Validate()
	checkFormat[T](format)
	if hw.LTDC == nil || hw.DMA2D == nil || hw.RCC == nil {
		panic("ltdc: missing peripheral")
	}

	c := &Controller[T]{hw: hw, timing: timing, format: format}
	c.live = &Live[T]{c: c}

	rcc := hw.RCC
	rcc.APB2ENR.SetBits(periph.RCC_APB2ENR_LTDCEN)
	rcc.AHB1ENR.SetBits(periph.RCC_AHB1ENR_DMA2DEN)
	_ = rcc.APB2ENR.Get()
	rcc.APB2RSTR.SetBits(periph.RCC_APB2RSTR_LTDCRST)
	rcc.APB2RSTR.ClearBits(periph.RCC_APB2RSTR_LTDCRST)
	rcc.AHB1RSTR.SetBits(periph.RCC_AHB1RSTR_DMA2DRST)
	rcc.AHB1RSTR.ClearBits(periph.RCC_AHB1RSTR_DMA2DRST)

	c.startPixelClock(clk)

	l := hw.LTDC
	ahbp, avbp := timing.accumulated()
	w, h := uint32(timing.ActiveWidth), uint32(timing.ActiveHeight)
	l.SSCR.Set((uint32(timing.HSync)-1)<<periph.SSCR_HSW_Pos | (uint32(timing.VSync)-1)<<periph.SSCR_VSH_Pos)
	l.BPCR.Set(ahbp<<periph.BPCR_AHBP_Pos | avbp<<periph.BPCR_AVBP_Pos)
	l.AWCR.Set((ahbp+w)<<periph.AWCR_AAW_Pos | (avbp+h)<<periph.AWCR_AAH_Pos)
	l.TWCR.Set(timing.TotalWidth()<<periph.TWCR_TOTALW | timing.TotalHeight()<<periph.TWCR_TOTALH)

	var gcr uint32
	if timing.HSyncPol {
		gcr |= periph.GCR_HSPOL
	}
	if timing.VSyncPol {
		gcr |= periph.GCR_VSPOL
	}
	if timing.DataEnablePol {
		gcr |= periph.GCR_DEPOL
	}
	if timing.PixelClockPol {
		gcr |= periph.GCR_PCPOL
	}
	l.GCR.Set(gcr)
	l.BCCR.Set(0)
	l.IER.Set(0)

	l.SRCR.Set(periph.SRCR_IMR)
	c.waitUntil("timing reload", func() bool { return !l.SRCR.HasBits(periph.SRCR_IMR) })
	l.GCR.SetBits(periph.GCR_LTDCEN)

	c.state = StateTimingConfigured
	return c
}

func (c *Controller[T]) startPixelClock(clk ClockSource) {
	rcc := c.hw.RCC
	pllm := (rcc.PLLCFGR.Get() >> periph.RCC_PLLCFGR_PLLM_Pos) & periph.RCC_PLLCFGR_PLLM_Msk
	want := c.timing.PixelClockHz()
	p, ok := SearchPLLSAI(clk.hz(), pllm, want)
	if !ok {
		panic(fmt.Sprintf("ltdc: no PLLSAI setting for %d Hz from %d Hz / M=%d", want, clk.hz(), pllm))
	}
	c.clock = p

	rcc.CR.ClearBits(periph.RCC_CR_PLLSAION)
	c.waitUntil("PLLSAI stop", func() bool { return !rcc.CR.HasBits(periph.RCC_CR_PLLSAIRDY) })
	rcc.PLLSAICFGR.ReplaceBits(p.N, periph.RCC_PLLSAICFGR_PLLSAIN_Msk, periph.RCC_PLLSAICFGR_PLLSAIN_Pos)
	rcc.PLLSAICFGR.ReplaceBits(p.R, periph.RCC_PLLSAICFGR_PLLSAIR_Msk, periph.RCC_PLLSAICFGR_PLLSAIR_Pos)
	rcc.DCKCFGR1.ReplaceBits(p.divRField(), periph.RCC_DCKCFGR1_PLLSAIDIVR_Msk, periph.RCC_DCKCFGR1_PLLSAIDIVR_Pos)
	rcc.CR.SetBits(periph.RCC_CR_PLLSAION)
	c.waitUntil("PLLSAI lock", func() bool { return rcc.CR.HasBits(periph.RCC_CR_PLLSAIRDY) })
}

// waitUntil spins until done reports true and panics once spinBudget is
// spent.
func (c *Controller[T]) waitUntil(what string, done func() bool) {
	for i := 0; ; i++ {
		if c.hw.Spin != nil {
			c.hw.Spin()
		}
		if done() {
			return
		}
		if i >= spinBudget {
			panic("ltdc: timed out waiting for " + what)
		}
	}
}

// State reports the bring-up stage.
func (c *Controller[T]) State() State { return c.state }

// Timing is the profile the controller was configured with.
func (c *Controller[T]) Timing() Timing { return c.timing }

// PixelClock is the PLLSAI setting in use.
func (c *Controller[T]) PixelClock() PLLSAI { return c.clock }

// SetReloadMode selects when later Reload calls latch.
func (c *Controller[T]) SetReloadMode(m ReloadMode) { c.mode = m }

func (c *Controller[T]) advance(s State) {
	if s > c.state {
		c.state = s
	}
}

// ConfigureLayer binds fb to layer with the given format. The layer stays
// disabled. fb must hold exactly one word per active pixel.
func (c *Controller[T]) ConfigureLayer(layer Layer, fb *Framebuffer[T], format PixelFormat) {
	layer.check()
	if fb == nil {
		panic("ltdc: nil framebuffer for " + layer.String())
	}
	if fb.Len() != c.timing.Pixels() {
		panic(fmt.Sprintf("ltdc: framebuffer for %s has %d pixels, want %d×%d",
			layer, fb.Len(), c.timing.ActiveWidth, c.timing.ActiveHeight))
	}
	checkFormat[T](format)

	ahbp, avbp := c.timing.accumulated()
	w, h := uint32(c.timing.ActiveWidth), uint32(c.timing.ActiveHeight)
	pitch := w * uint32(format.BytesPerPixel())

	r := &c.hw.LTDC.Layer[layer]
	r.WHPCR.Set((ahbp+w)<<periph.LxWHPCR_WHSPPOS_Pos | (ahbp+1)<<periph.LxWHPCR_WHSTPOS_Pos)
	r.WVPCR.Set((avbp+h)<<periph.LxWVPCR_WVSPPOS_Pos | (avbp+1)<<periph.LxWVPCR_WVSTPOS_Pos)
	r.PFCR.Set(uint32(format))
	r.CACR.Set(0xFF)
	r.DCCR.Set(0)
	// Constant alpha times pixel (BF1=4) over one minus constant alpha (BF2=5).
	r.BFCR.Set(4<<periph.LxBFCR_BF1_Pos | 5<<periph.LxBFCR_BF2_Pos)
	r.CFBAR.Set(fb.Addr())
	r.CFBLR.Set(pitch<<periph.LxCFBLR_CFBP_Pos | (pitch+3)<<periph.LxCFBLR_CFBLL_Pos)
	r.CFBLNR.Set(h)

	st := &c.layers[layer]
	st.fb = fb
	st.format = format
	c.advance(StateLayerConfigured)
}

// EnableLayer marks a configured layer for scan-out. It takes effect at the
// next Reload.
func (c *Controller[T]) EnableLayer(layer Layer) {
	layer.check()
	st := &c.layers[layer]
	if st.fb == nil {
		panic("ltdc: enable of unconfigured layer " + layer.String())
	}
	c.hw.LTDC.Layer[layer].CR.SetBits(periph.LxCR_LEN)
	st.enabled = true
	c.advance(StateLayerEnabled)
}

// DisableLayer stops scan-out of layer at the next Reload.
func (c *Controller[T]) DisableLayer(layer Layer) {
	layer.check()
	c.hw.LTDC.Layer[layer].CR.ClearBits(periph.LxCR_LEN)
	c.layers[layer].enabled = false
}

// Reload commits the shadow registers and waits until the hardware has
// latched them. It panics if no layer has been enabled yet.
func (c *Controller[T]) Reload() *Live[T] {
	if c.state < StateLayerEnabled {
		panic("ltdc: reload in state " + c.state.String())
	}
	bit := uint32(periph.SRCR_IMR)
	if c.mode == ReloadVerticalBlank {
		bit = periph.SRCR_VBR
	}
	srcr := &c.hw.LTDC.SRCR
	srcr.Set(bit)
	c.waitUntil(c.mode.String()+" reload", func() bool { return !srcr.HasBits(bit) })
	c.state = StateLive
	return c.live
}

// Live is a controller that is scanning out. It is the only handle with
// drawing methods.
type Live[T Word] struct {
	c *Controller[T]
}

// Controller returns the underlying controller, for further layer changes.
func (v *Live[T]) Controller() *Controller[T] { return v.c }

// Size is the active area.
func (v *Live[T]) Size() (width, height int) {
	return int(v.c.timing.ActiveWidth), int(v.c.timing.ActiveHeight)
}

func (v *Live[T]) layer(l Layer) *layerState[T] {
	l.check()
	st := &v.c.layers[l]
	if st.fb == nil {
		panic("ltdc: draw on unconfigured layer " + l.String())
	}
	return st
}

func (v *Live[T]) checkPoint(x, y int) {
	w, h := v.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		panic(fmt.Sprintf("ltdc: pixel (%d,%d) outside %dx%d", x, y, w, h))
	}
}

// DrawPixel stores one word. There is no clipping.
func (v *Live[T]) DrawPixel(layer Layer, x, y int, value T) {
	st := v.layer(layer)
	v.checkPoint(x, y)
	st.fb.pix[y*int(v.c.timing.ActiveWidth)+x] = value
}

// Pixel reads one word back.
func (v *Live[T]) Pixel(layer Layer, x, y int) T {
	st := v.layer(layer)
	v.checkPoint(x, y)
	return st.fb.pix[y*int(v.c.timing.ActiveWidth)+x]
}
