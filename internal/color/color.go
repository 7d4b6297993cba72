// Package color provides the RGBA8 color type, color-space conversion, the
// color literal parser, and the blend/shift operations used by palettes.
package color

import (
	"fmt"
	stdcolor "image/color"
)

// RGBA8 is a straight (non-premultiplied) 8-bit sRGB color.
type RGBA8 struct {
	R, G, B, A uint8
}

var (
	// Magenta is the sentinel substituted for unresolvable colors.
	Magenta = RGBA8{R: 255, G: 0, B: 255, A: 255}
	// Transparent is fully transparent black.
	Transparent = RGBA8{}
)

// Hex formats c as #RRGGBB, or #RRGGBBAA when not fully opaque.
func (c RGBA8) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// String implements fmt.Stringer.
func (c RGBA8) String() string { return c.Hex() }

// NRGBA converts c to the standard library's straight-alpha color.
func (c RGBA8) NRGBA() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromColor converts any color.Color to RGBA8.
func FromColor(c stdcolor.Color) RGBA8 {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return RGBA8{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ColorF64 is a straight-alpha color with float64 components in [0,1].
// RGB components are in the color space indicated by context.
type ColorF64 struct {
	R, G, B, A float64
}

// ToF64 maps each uint8 component [0,255] to [0,1].
func (c RGBA8) ToF64() ColorF64 {
	return ColorF64{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// ToRGBA8 clamps each component to [0,1] and rounds it to uint8.
func (c ColorF64) ToRGBA8() RGBA8 {
	return RGBA8{
		R: clampAndRound(c.R),
		G: clampAndRound(c.G),
		B: clampAndRound(c.B),
		A: clampAndRound(c.A),
	}
}

func clampAndRound(v float64) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
