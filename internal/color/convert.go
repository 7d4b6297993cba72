package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// sRGBToLinearLUT converts an sRGB byte to a linear component in O(1).
var sRGBToLinearLUT [256]float64

func init() {
	for i := range sRGBToLinearLUT {
		sRGBToLinearLUT[i] = SRGBToLinear(float64(i) / 255)
	}
}

// SRGBToLinear applies the sRGB EOTF to a component in [0,1].
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB OETF to a component in [0,1].
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Linear returns the linear-light RGB components of c. Alpha is untouched.
func (c RGBA8) Linear() ColorF64 {
	return ColorF64{
		R: sRGBToLinearLUT[c.R],
		G: sRGBToLinearLUT[c.G],
		B: sRGBToLinearLUT[c.B],
		A: float64(c.A) / 255,
	}
}

// FromLinear encodes linear-light components back to sRGB bytes.
func FromLinear(c ColorF64) RGBA8 {
	return ColorF64{
		R: LinearToSRGB(clamp01(c.R)),
		G: LinearToSRGB(clamp01(c.G)),
		B: LinearToSRGB(clamp01(c.B)),
		A: c.A,
	}.ToRGBA8()
}

// toColorful returns the opaque part of c as a go-colorful color.
func (c RGBA8) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// fromColorful clamps col into gamut and attaches alpha a in [0,1].
func fromColorful(col colorful.Color, a float64) RGBA8 {
	col = col.Clamped()
	return ColorF64{R: col.R, G: col.G, B: col.B, A: a}.ToRGBA8()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
