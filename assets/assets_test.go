package assets

import (
	"testing"

	"tinygo.org/x/drivers/pixel"
)

func TestLogo(t *testing.T) {
	img := Logo()
	w, h := img.Size()
	if w != LogoWidth || h != 100 {
		t.Fatalf("Logo().Size() = %dx%d, want %dx100", w, h, LogoWidth)
	}
	if c := img.Get(0, 0).RGBA(); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("corner pixel = %v, want black", c)
	}
}

func TestRawByteOrder(t *testing.T) {
	// 0xF800 is pure red in RGB565.
	img, err := Raw([]byte{0xF8, 0x00, 0x00, 0x1F}, 2)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if got := img.Get(0, 0); got != pixel.NewColor[pixel.RGB565BE](0xFF, 0, 0) {
		t.Fatalf("pixel 0 = %v, want red", got.RGBA())
	}
	if got := img.Get(1, 0); got != pixel.NewColor[pixel.RGB565BE](0, 0, 0xFF) {
		t.Fatalf("pixel 1 = %v, want blue", got.RGBA())
	}
}

func TestRawRejectsPartialRows(t *testing.T) {
	if _, err := Raw(make([]byte, 6), 2); err == nil {
		t.Fatal("Raw() accepted 1.5 rows")
	}
	if _, err := Raw(nil, 2); err == nil {
		t.Fatal("Raw() accepted an empty image")
	}
}
