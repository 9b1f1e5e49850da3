package hal

// Scan-out decoders. Each expands one stored pixel to 8-bit channels the way
// the LTDC does before blending: replicate high bits into the low bits.

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := uint8(p>>11) & 0x1F
	gg := uint8(p>>5) & 0x3F
	bb := uint8(p) & 0x1F
	return rr<<3 | rr>>2, gg<<2 | gg>>4, bb<<3 | bb>>2
}

func argbFrom1555(p uint16) (a, r, g, b uint8) {
	if p&0x8000 != 0 {
		a = 0xFF
	}
	rr := uint8(p>>10) & 0x1F
	gg := uint8(p>>5) & 0x1F
	bb := uint8(p) & 0x1F
	return a, rr<<3 | rr>>2, gg<<3 | gg>>2, bb<<3 | bb>>2
}

func argbFrom4444(p uint16) (a, r, g, b uint8) {
	a = uint8(p>>12) & 0xF
	r = uint8(p>>8) & 0xF
	g = uint8(p>>4) & 0xF
	b = uint8(p) & 0xF
	return a<<4 | a, r<<4 | r, g<<4 | g, b<<4 | b
}

func blend(dst, src, alpha uint8) uint8 {
	return uint8((uint16(src)*uint16(alpha) + uint16(dst)*uint16(255-alpha) + 127) / 255)
}
