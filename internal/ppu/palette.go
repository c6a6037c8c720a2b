package ppu

import "gones/internal/screen"

// ntscPalette maps the 64 possible 6-bit NES palette indices to RGB. Values
// taken from the reference NTSC palette used by common emulators.
var ntscPalette = [64]screen.RGB{
	{R: 0x80, G: 0x80, B: 0x80}, {R: 0x00, G: 0x3d, B: 0xa6}, {R: 0x00, G: 0x12, B: 0xb0}, {R: 0x44, G: 0x00, B: 0x96},
	{R: 0xa1, G: 0x00, B: 0x5e}, {R: 0xc7, G: 0x00, B: 0x28}, {R: 0xba, G: 0x06, B: 0x00}, {R: 0x8c, G: 0x17, B: 0x00},
	{R: 0x5c, G: 0x2f, B: 0x00}, {R: 0x10, G: 0x45, B: 0x00}, {R: 0x05, G: 0x4a, B: 0x00}, {R: 0x00, G: 0x47, B: 0x2e},
	{R: 0x00, G: 0x41, B: 0x66}, {R: 0x00, G: 0x00, B: 0x00}, {R: 0x05, G: 0x05, B: 0x05}, {R: 0x05, G: 0x05, B: 0x05},
	{R: 0xc7, G: 0xc7, B: 0xc7}, {R: 0x00, G: 0x77, B: 0xff}, {R: 0x21, G: 0x55, B: 0xff}, {R: 0x82, G: 0x37, B: 0xfa},
	{R: 0xeb, G: 0x2f, B: 0xb5}, {R: 0xff, G: 0x29, B: 0x50}, {R: 0xff, G: 0x22, B: 0x00}, {R: 0xd6, G: 0x32, B: 0x00},
	{R: 0xc4, G: 0x62, B: 0x00}, {R: 0x35, G: 0x80, B: 0x00}, {R: 0x05, G: 0x8f, B: 0x00}, {R: 0x00, G: 0x8a, B: 0x55},
	{R: 0x00, G: 0x99, B: 0xcc}, {R: 0x21, G: 0x21, B: 0x21}, {R: 0x09, G: 0x09, B: 0x09}, {R: 0x09, G: 0x09, B: 0x09},
	{R: 0xff, G: 0xff, B: 0xff}, {R: 0x0f, G: 0xd7, B: 0xff}, {R: 0x69, G: 0xa2, B: 0xff}, {R: 0xd4, G: 0x80, B: 0xff},
	{R: 0xff, G: 0x45, B: 0xf3}, {R: 0xff, G: 0x61, B: 0x8b}, {R: 0xff, G: 0x88, B: 0x33}, {R: 0xff, G: 0x9c, B: 0x12},
	{R: 0xfa, G: 0xbc, B: 0x20}, {R: 0x9f, G: 0xe3, B: 0x0e}, {R: 0x2b, G: 0xf0, B: 0x35}, {R: 0x0c, G: 0xf0, B: 0xa4},
	{R: 0x05, G: 0xfb, B: 0xff}, {R: 0x5e, G: 0x5e, B: 0x5e}, {R: 0x0d, G: 0x0d, B: 0x0d}, {R: 0x0d, G: 0x0d, B: 0x0d},
	{R: 0xff, G: 0xff, B: 0xff}, {R: 0xa6, G: 0xfc, B: 0xff}, {R: 0xb3, G: 0xec, B: 0xff}, {R: 0xda, G: 0xab, B: 0xeb},
	{R: 0xff, G: 0xa8, B: 0xf9}, {R: 0xff, G: 0xab, B: 0xb3}, {R: 0xff, G: 0xd2, B: 0xb0}, {R: 0xff, G: 0xef, B: 0xa6},
	{R: 0xff, G: 0xf7, B: 0x9c}, {R: 0xd7, G: 0xe8, B: 0x95}, {R: 0xa6, G: 0xed, B: 0xaf}, {R: 0xa2, G: 0xf2, B: 0xda},
	{R: 0x99, G: 0xff, B: 0xfc}, {R: 0xdd, G: 0xdd, B: 0xdd}, {R: 0x11, G: 0x11, B: 0x11}, {R: 0x11, G: 0x11, B: 0x11},
}

// applyEmphasis scales RGB channels per mask bits 7..5 (R/G/B emphasis).
// Each enabled emphasis bit boosts its own channel by 1.1x and dims the
// other two by 0.9x; multiple bits compose multiplicatively.
func applyEmphasis(mask uint8, rgb screen.RGB) screen.RGB {
	r, g, b := float64(rgb.R), float64(rgb.G), float64(rgb.B)
	if mask&0x20 != 0 { // emphasize red
		r *= 1.1
		g *= 0.9
		b *= 0.9
	}
	if mask&0x40 != 0 { // emphasize green
		g *= 1.1
		r *= 0.9
		b *= 0.9
	}
	if mask&0x80 != 0 { // emphasize blue
		b *= 1.1
		r *= 0.9
		g *= 0.9
	}
	return screen.RGB{R: clamp8(r), G: clamp8(g), B: clamp8(b)}
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
