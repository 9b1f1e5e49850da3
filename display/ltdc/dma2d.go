package ltdc

import (
	"fmt"
	"image"

	"disco/hal/periph"
)

func (v *Live[T]) dma2dMode(st *layerState[T]) uint32 {
	cm, ok := st.format.dma2dMode()
	if !ok {
		panic("ltdc: DMA2D cannot write " + st.format.String())
	}
	return cm
}

func (v *Live[T]) offset(st *layerState[T], p image.Point) uint32 {
	bpp := uint32(st.format.BytesPerPixel())
	return st.fb.Addr() + (uint32(p.Y)*uint32(v.c.timing.ActiveWidth)+uint32(p.X))*bpp
}

// DrawRectangle fills the inclusive box topLeft..bottomRight with value using
// DMA2D register-to-memory mode and returns once the transfer is complete.
// Both corners must be inside the active area with topLeft above and left of
// bottomRight.
func (v *Live[T]) DrawRectangle(layer Layer, topLeft, bottomRight image.Point, value T) {
	st := v.layer(layer)
	v.checkPoint(topLeft.X, topLeft.Y)
	v.checkPoint(bottomRight.X, bottomRight.Y)
	if topLeft.X > bottomRight.X || topLeft.Y > bottomRight.Y {
		panic(fmt.Sprintf("ltdc: inverted rectangle %v-%v", topLeft, bottomRight))
	}
	cm := v.dma2dMode(st)

	pl := uint32(bottomRight.X - topLeft.X + 1)
	nl := uint32(bottomRight.Y - topLeft.Y + 1)
	d := v.c.hw.DMA2D
	d.CR.Set(periph.DMA2D_MODE_R2M << periph.DMA2D_CR_MODE_Pos)
	d.OPFCCR.Set(cm)
	d.OCOLR.Set(uint32(value))
	d.OMAR.Set(v.offset(st, topLeft))
	d.OOR.Set(uint32(v.c.timing.ActiveWidth) - pl)
	d.NLR.Set(pl<<periph.DMA2D_NLR_PL_Pos | nl)
	v.run("fill")
}

// CopyRectangle copies src to the same-sized box at dst with DMA2D
// memory-to-memory mode. Lines are copied top to bottom, so an overlapping
// destination must not lie below the source.
func (v *Live[T]) CopyRectangle(layer Layer, src image.Rectangle, dst image.Point) {
	st := v.layer(layer)
	if src.Empty() {
		return
	}
	last := src.Max.Sub(image.Pt(1, 1))
	v.checkPoint(src.Min.X, src.Min.Y)
	v.checkPoint(last.X, last.Y)
	v.checkPoint(dst.X, dst.Y)
	v.checkPoint(dst.X+src.Dx()-1, dst.Y+src.Dy()-1)
	to := src.Sub(src.Min).Add(dst)
	if to.Overlaps(src) && (dst.Y > src.Min.Y || dst.Y == src.Min.Y && dst.X > src.Min.X) {
		panic(fmt.Sprintf("ltdc: overlapping copy %v to %v runs backwards", src, dst))
	}
	cm := v.dma2dMode(st)

	pl := uint32(src.Dx())
	nl := uint32(src.Dy())
	off := uint32(v.c.timing.ActiveWidth) - pl
	d := v.c.hw.DMA2D
	d.CR.Set(periph.DMA2D_MODE_M2M << periph.DMA2D_CR_MODE_Pos)
	d.FGPFCCR.Set(cm)
	d.FGMAR.Set(v.offset(st, src.Min))
	d.FGOR.Set(off)
	d.OPFCCR.Set(cm)
	d.OMAR.Set(v.offset(st, dst))
	d.OOR.Set(off)
	d.NLR.Set(pl<<periph.DMA2D_NLR_PL_Pos | nl)
	v.run("copy")
}

// run starts the programmed transfer and waits for it to finish.
func (v *Live[T]) run(what string) {
	d := v.c.hw.DMA2D
	d.CR.SetBits(periph.DMA2D_CR_START)
	v.c.waitUntil("DMA2D "+what, func() bool { return !d.CR.HasBits(periph.DMA2D_CR_START) })
	isr := d.ISR.Get()
	d.IFCR.Set(periph.DMA2D_IFCR_ALL)
	switch {
	case isr&periph.DMA2D_ISR_TEIF != 0:
		panic("ltdc: DMA2D " + what + " transfer error")
	case isr&periph.DMA2D_ISR_CEIF != 0:
		panic("ltdc: DMA2D " + what + " configuration error")
	}
}
