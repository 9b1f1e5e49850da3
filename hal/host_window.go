//go:build !tinygo && cgo

package hal

import (
	"image"

	"disco/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop preview.
type WindowConfig struct {
	// Scale is the integer zoom factor of the panel image.
	Scale int
	TPS   int
}

// RunWindow starts a desktop window that shows the simulated scan-out.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	h := New().(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	size := h.sim.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		size = image.Pt(480, 272)
	}
	ebiten.SetWindowTitle("disco (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(size.X*cfg.Scale, size.Y*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	g.h.sim.VBlank()
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	b := g.h.sim.Bounds()
	if b.Empty() {
		return
	}
	if g.img == nil || g.img.Bounds() != b {
		g.img = image.NewRGBA(b)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
	}

	g.h.sim.Snapshot(g.img)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.h.sim.Bounds()
	if b.Empty() {
		return 480, 272
	}
	return b.Dx(), b.Dy()
}
