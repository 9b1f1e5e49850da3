package ltdc

import "unsafe"

// PixelFormat is the layer pixel format. Values are the PFCR encoding.
type PixelFormat uint8

const (
	FormatARGB8888 PixelFormat = iota
	FormatRGB888
	FormatRGB565
	FormatARGB1555
	FormatARGB4444
	FormatL8
	FormatAL44
	FormatAL88
)

// BytesPerPixel is the storage size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatARGB8888:
		return 4
	case FormatRGB888:
		return 3
	case FormatRGB565, FormatARGB1555, FormatARGB4444, FormatAL88:
		return 2
	default:
		return 1
	}
}

// dma2dMode is the DMA2D color mode for f. Only the direct color formats
// can be a DMA2D output.
func (f PixelFormat) dma2dMode() (uint32, bool) {
	if f > FormatARGB4444 {
		return 0, false
	}
	return uint32(f), true
}

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB8888:
		return "ARGB8888"
	case FormatRGB888:
		return "RGB888"
	case FormatRGB565:
		return "RGB565"
	case FormatARGB1555:
		return "ARGB1555"
	case FormatARGB4444:
		return "ARGB4444"
	case FormatL8:
		return "L8"
	case FormatAL44:
		return "AL44"
	case FormatAL88:
		return "AL88"
	default:
		return "unknown"
	}
}

// Word is a framebuffer storage word. A pixel occupies exactly one word.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

func wordSize[T Word]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

func checkFormat[T Word](f PixelFormat) {
	if f.BytesPerPixel() != wordSize[T]() {
		panic("ltdc: pixel format " + f.String() + " does not fit the framebuffer word")
	}
}
