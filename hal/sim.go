//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"disco/hal/periph"
)

// SimBusBase is where the simulator maps its display arena: the start of the
// FMC SDRAM bank on the board.
const SimBusBase = 0xC000_0000

// Number of spins a vertical-blank reload stays pending when nothing calls
// VBlank.
const simVBlankSpins = 4

// SimEventKind classifies a SimEvent.
type SimEventKind uint8

const (
	SimPinEvent SimEventKind = iota + 1
	SimReloadEvent
)

// SimEvent is one externally visible change: a control line write or a
// shadow register reload reaching the active registers.
type SimEvent struct {
	Kind SimEventKind
	Name string
	High bool
	// Layers is the bitmask of layers enabled after a reload.
	Layers uint8
}

func (e SimEvent) String() string {
	switch e.Kind {
	case SimPinEvent:
		if e.High {
			return e.Name + " high"
		}
		return e.Name + " low"
	case SimReloadEvent:
		return fmt.Sprintf("reload %s layers=%02b", e.Name, e.Layers)
	default:
		return "unknown"
	}
}

type simLayer struct {
	cr, whpcr, wvpcr, pfcr, cacr, dccr, bfcr, cfbar, cfblr, cfblnr uint32
}

// Sim is a register-level model of the LTDC, DMA2D and the PLLSAI part of
// RCC, plus the panel's DISP and backlight lines. It implements Display.
//
// Register writes land in ordinary memory; the model reacts when spin runs,
// which the display controller does from each of its busy-wait loops.
type Sim struct {
	mu sync.Mutex

	ltdc  periph.LTDC
	dma2d periph.DMA2D
	rcc   periph.RCC
	arena *Arena

	active   [2]simLayer
	vbrSpins int
	spins    uint64

	disp simPin
	bl   simPin

	events []SimEvent
	hse    uint32
}

// NewSim returns a simulator with an arenaBytes display arena mapped at
// SimBusBase.
func NewSim(arenaBytes uint32) *Sim {
	s := &Sim{
		arena: NewArena(SimBusBase, make([]byte, arenaBytes)),
		hse:   25_000_000,
	}
	s.disp = simPin{sim: s, name: "LCD_DISP"}
	s.bl = simPin{sim: s, name: "LCD_BL_CTRL"}

	// Main PLL as the board bring-up leaves it, PLLSAI at reset.
	s.rcc.PLLCFGR.Set(25<<periph.RCC_PLLCFGR_PLLM_Pos |
		432<<periph.RCC_PLLCFGR_PLLN_Pos |
		periph.RCC_PLLCFGR_PLLSRC |
		9<<periph.RCC_PLLCFGR_PLLQ_Pos)
	s.rcc.PLLSAICFGR.Set(0x2400_3000)
	return s
}

func (s *Sim) Hardware() DisplayHW {
	return DisplayHW{
		LTDC:   &s.ltdc,
		DMA2D:  &s.dma2d,
		RCC:    &s.rcc,
		Memory: s.arena,
		Spin:   s.spin,
	}
}

func (s *Sim) OutputEnable() Pin { return &s.disp }
func (s *Sim) Backlight() Pin    { return &s.bl }
func (s *Sim) HSEHz() uint32     { return s.hse }

// Arena exposes the simulated SDRAM.
func (s *Sim) Arena() *Arena { return s.arena }

// Events returns a copy of the event trace.
func (s *Sim) Events() []SimEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SimEvent(nil), s.events...)
}

// Lit reports whether the panel is showing scan-out: LTDC on, DISP high and
// backlight on.
func (s *Sim) Lit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lit()
}

func (s *Sim) lit() bool {
	return s.disp.level && s.bl.level && s.ltdc.GCR.HasBits(periph.GCR_LTDCEN)
}

// Spins reports how often the hardware model was advanced.
func (s *Sim) Spins() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spins
}

// VBlank marks the end of a frame: a pending vertical-blank reload latches.
func (s *Sim) VBlank() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ltdc.SRCR.HasBits(periph.SRCR_VBR) {
		s.latch("vblank")
		s.ltdc.SRCR.ClearBits(periph.SRCR_VBR)
	}
}

func (s *Sim) spin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spins++

	cr := s.rcc.CR.Get()
	switch {
	case cr&periph.RCC_CR_PLLSAION != 0 && cr&periph.RCC_CR_PLLSAIRDY == 0:
		s.rcc.CR.SetBits(periph.RCC_CR_PLLSAIRDY)
	case cr&periph.RCC_CR_PLLSAION == 0 && cr&periph.RCC_CR_PLLSAIRDY != 0:
		s.rcc.CR.ClearBits(periph.RCC_CR_PLLSAIRDY)
	}

	if s.rcc.APB2ENR.HasBits(periph.RCC_APB2ENR_LTDCEN) {
		srcr := s.ltdc.SRCR.Get()
		if srcr&periph.SRCR_IMR != 0 {
			s.latch("immediate")
			s.ltdc.SRCR.ClearBits(periph.SRCR_IMR)
		}
		if srcr&periph.SRCR_VBR != 0 {
			s.vbrSpins++
			if s.vbrSpins >= simVBlankSpins {
				s.latch("vblank")
				s.ltdc.SRCR.ClearBits(periph.SRCR_VBR)
			}
		}
	}

	if s.rcc.AHB1ENR.HasBits(periph.RCC_AHB1ENR_DMA2DEN) {
		if f := s.dma2d.IFCR.Get(); f != 0 {
			s.dma2d.ISR.ClearBits(f)
			s.dma2d.IFCR.Set(0)
		}
		if s.dma2d.CR.HasBits(periph.DMA2D_CR_START) {
			s.dma2d.ISR.SetBits(s.transfer())
			s.dma2d.CR.ClearBits(periph.DMA2D_CR_START)
		}
	}
}

func (s *Sim) latch(how string) {
	var layers uint8
	for i := range s.active {
		l := &s.ltdc.Layer[i]
		s.active[i] = simLayer{
			cr:     l.CR.Get(),
			whpcr:  l.WHPCR.Get(),
			wvpcr:  l.WVPCR.Get(),
			pfcr:   l.PFCR.Get(),
			cacr:   l.CACR.Get(),
			dccr:   l.DCCR.Get(),
			bfcr:   l.BFCR.Get(),
			cfbar:  l.CFBAR.Get(),
			cfblr:  l.CFBLR.Get(),
			cfblnr: l.CFBLNR.Get(),
		}
		if s.active[i].cr&periph.LxCR_LEN != 0 {
			layers |= 1 << i
		}
	}
	s.vbrSpins = 0
	s.events = append(s.events, SimEvent{Kind: SimReloadEvent, Name: how, Layers: layers})
}

func dma2dBytesPerPixel(cm uint32) uint32 {
	switch cm {
	case 0:
		return 4
	case 1:
		return 3
	case 2, 3, 4:
		return 2
	default:
		return 0
	}
}

// transfer runs the programmed DMA2D job to completion and returns the ISR
// flags it raises.
func (s *Sim) transfer() uint32 {
	d := &s.dma2d
	mode := (d.CR.Get() >> periph.DMA2D_CR_MODE_Pos) & periph.DMA2D_CR_MODE_Msk
	bpp := dma2dBytesPerPixel(d.OPFCCR.Get() & periph.DMA2D_CM_Msk)
	if bpp == 0 {
		return periph.DMA2D_ISR_CEIF
	}
	nlr := d.NLR.Get()
	pl := (nlr >> periph.DMA2D_NLR_PL_Pos) & periph.DMA2D_NLR_PL_Msk
	nl := nlr & periph.DMA2D_NLR_NL_Msk
	if pl == 0 || nl == 0 {
		return periph.DMA2D_ISR_CEIF
	}
	outStride := (pl + d.OOR.Get()&periph.DMA2D_OOR_Msk) * bpp
	omar := d.OMAR.Get()

	switch mode {
	case periph.DMA2D_MODE_R2M:
		c := d.OCOLR.Get()
		px := []byte{byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)}[:bpp]
		for line := uint32(0); line < nl; line++ {
			row, err := s.arena.Resolve(omar+line*outStride, pl*bpp)
			if err != nil {
				return periph.DMA2D_ISR_TEIF
			}
			for i := 0; i < len(row); i += int(bpp) {
				copy(row[i:], px)
			}
		}
	case periph.DMA2D_MODE_M2M:
		if dma2dBytesPerPixel(d.FGPFCCR.Get()&periph.DMA2D_FGCM_Msk) != bpp {
			return periph.DMA2D_ISR_CEIF
		}
		inStride := (pl + d.FGOR.Get()&periph.DMA2D_OOR_Msk) * bpp
		fgmar := d.FGMAR.Get()
		for line := uint32(0); line < nl; line++ {
			src, err := s.arena.Resolve(fgmar+line*inStride, pl*bpp)
			if err != nil {
				return periph.DMA2D_ISR_TEIF
			}
			dst, err := s.arena.Resolve(omar+line*outStride, pl*bpp)
			if err != nil {
				return periph.DMA2D_ISR_TEIF
			}
			copy(dst, src)
		}
	default:
		// Blending and pixel format conversion are not modelled.
		return periph.DMA2D_ISR_CEIF
	}
	return periph.DMA2D_ISR_TCIF
}

// Bounds is the active display area programmed into the LTDC.
func (s *Sim) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds()
}

func (s *Sim) bounds() image.Rectangle {
	bpcr := s.ltdc.BPCR.Get()
	awcr := s.ltdc.AWCR.Get()
	ahbp := int(bpcr>>periph.BPCR_AHBP_Pos) & periph.Field12
	avbp := int(bpcr>>periph.BPCR_AVBP_Pos) & periph.Field11
	aaw := int(awcr>>periph.AWCR_AAW_Pos) & periph.Field12
	aah := int(awcr>>periph.AWCR_AAH_Pos) & periph.Field11
	if aaw <= ahbp || aah <= avbp {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, aaw-ahbp, aah-avbp)
}

// Snapshot composes what the panel currently shows into dst, which must
// cover Bounds. A dark panel renders black.
func (s *Sim) Snapshot(dst *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bounds().Intersect(dst.Bounds())
	if !s.lit() {
		fillRGBA(dst, b, color.RGBA{A: 0xFF})
		return
	}
	bg := s.ltdc.BCCR.Get()
	fillRGBA(dst, b, color.RGBA{R: uint8(bg >> 16), G: uint8(bg >> 8), B: uint8(bg), A: 0xFF})

	bpcr := s.ltdc.BPCR.Get()
	ahbp := int(bpcr>>periph.BPCR_AHBP_Pos) & periph.Field12
	avbp := int(bpcr>>periph.BPCR_AVBP_Pos) & periph.Field11
	for i := range s.active {
		l := &s.active[i]
		if l.cr&periph.LxCR_LEN == 0 {
			continue
		}
		win := image.Rect(
			int(l.whpcr>>periph.LxWHPCR_WHSTPOS_Pos)&periph.Field12-ahbp-1,
			int(l.wvpcr>>periph.LxWVPCR_WVSTPOS_Pos)&periph.Field11-avbp-1,
			int(l.whpcr>>periph.LxWHPCR_WHSPPOS_Pos)&periph.Field12-ahbp,
			int(l.wvpcr>>periph.LxWVPCR_WVSPPOS_Pos)&periph.Field11-avbp,
		)
		s.scanLayer(dst, l, win.Intersect(b), win.Min)
	}
}

func (s *Sim) scanLayer(dst *image.RGBA, l *simLayer, area image.Rectangle, origin image.Point) {
	pf := l.pfcr & 0x7
	bpp := ltdcBytesPerPixel(pf)
	pitch := (l.cfblr >> periph.LxCFBLR_CFBP_Pos) & periph.Field13
	lines := int(l.cfblnr & periph.Field11)
	constAlpha := uint8(l.cacr)
	pixelAlpha := (l.bfcr>>periph.LxBFCR_BF1_Pos)&0x7 == 6

	for y := area.Min.Y; y < area.Max.Y; y++ {
		fy := y - origin.Y
		if fy >= lines {
			break
		}
		fx0 := area.Min.X - origin.X
		row, err := s.arena.Resolve(l.cfbar+uint32(fy)*pitch+uint32(fx0)*bpp, uint32(area.Dx())*bpp)
		if err != nil {
			continue
		}
		for x := area.Min.X; x < area.Max.X; x++ {
			p := row[uint32(x-area.Min.X)*bpp:]
			a, r, g, bl := decodeLTDC(pf, p)
			alpha := constAlpha
			if pixelAlpha {
				alpha = uint8(uint16(alpha) * uint16(a) / 255)
			}
			o := dst.PixOffset(x, y)
			px := dst.Pix[o : o+4 : o+4]
			px[0] = blend(px[0], r, alpha)
			px[1] = blend(px[1], g, alpha)
			px[2] = blend(px[2], bl, alpha)
			px[3] = 0xFF
		}
	}
}

func ltdcBytesPerPixel(pf uint32) uint32 {
	switch pf {
	case 0:
		return 4
	case 1:
		return 3
	case 2, 3, 4, 7:
		return 2
	default:
		return 1
	}
}

func decodeLTDC(pf uint32, p []byte) (a, r, g, b uint8) {
	switch pf {
	case 0:
		return p[3], p[2], p[1], p[0]
	case 1:
		return 0xFF, p[2], p[1], p[0]
	case 2:
		r, g, b = rgb888From565(uint16(p[0]) | uint16(p[1])<<8)
		return 0xFF, r, g, b
	case 3:
		return argbFrom1555(uint16(p[0]) | uint16(p[1])<<8)
	case 4:
		return argbFrom4444(uint16(p[0]) | uint16(p[1])<<8)
	case 5:
		return 0xFF, p[0], p[0], p[0]
	case 6:
		l := p[0] & 0xF
		al := p[0] >> 4
		return al<<4 | al, l<<4 | l, l<<4 | l, l<<4 | l
	default:
		return p[1], p[0], p[0], p[0]
	}
}

func fillRGBA(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, y, c)
		}
	}
}

type simPin struct {
	sim   *Sim
	name  string
	level bool
}

func (p *simPin) High() { p.set(true) }
func (p *simPin) Low()  { p.set(false) }

func (p *simPin) set(level bool) {
	p.sim.mu.Lock()
	defer p.sim.mu.Unlock()
	p.level = level
	p.sim.events = append(p.sim.events, SimEvent{Kind: SimPinEvent, Name: p.name, High: level})
}
