package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Space is a color-mix() interpolation space.
type Space uint8

const (
	SpaceSRGB Space = iota
	SpaceSRGBLinear
	SpaceOkLab
	SpaceOkLch
	SpaceLab
	SpaceLch
	SpaceHSL
	SpaceHWB
)

var spaceNames = [...]string{
	SpaceSRGB:       "srgb",
	SpaceSRGBLinear: "srgb-linear",
	SpaceOkLab:      "oklab",
	SpaceOkLch:      "oklch",
	SpaceLab:        "lab",
	SpaceLch:        "lch",
	SpaceHSL:        "hsl",
	SpaceHWB:        "hwb",
}

func (s Space) String() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return fmt.Sprintf("space(%d)", s)
}

// ParseSpace parses an interpolation space name, ignoring case.
func ParseSpace(name string) (Space, error) {
	key := Fold(name)
	for i, n := range spaceNames {
		if n == key {
			return Space(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color space %q", ErrInvalidLiteral, name)
}

// hueIndex returns which coordinate is a hue angle, or -1.
func (s Space) hueIndex() int {
	switch s {
	case SpaceOkLch, SpaceLch:
		return 2
	case SpaceHSL, SpaceHWB:
		return 0
	}
	return -1
}

// achromatic is the chroma/saturation below which a hue is treated as missing.
const achromatic = 1e-4

// coords converts c into space. The bool reports a powerless hue.
func (s Space) coords(c RGBA8) ([3]float64, bool) {
	col := c.toColorful()
	switch s {
	case SpaceSRGBLinear:
		l := c.Linear()
		return [3]float64{l.R, l.G, l.B}, false
	case SpaceOkLab:
		l, a, b := col.OkLab()
		return [3]float64{l, a, b}, false
	case SpaceOkLch:
		l, ch, h := col.OkLch()
		return [3]float64{l, ch, h}, ch < achromatic
	case SpaceLab:
		l, a, b := col.Lab()
		return [3]float64{l, a, b}, false
	case SpaceLch:
		h, ch, l := col.Hcl()
		return [3]float64{l, ch, h}, ch < achromatic
	case SpaceHSL:
		h, sat, l := col.Hsl()
		return [3]float64{h, sat, l}, sat < achromatic
	case SpaceHWB:
		h, sat, v := col.Hsv()
		w, b := (1-sat)*v, 1-v
		return [3]float64{h, w, b}, w+b >= 1-achromatic
	}
	return [3]float64{col.R, col.G, col.B}, false
}

// color converts coordinates in space back to sRGB with alpha a.
func (s Space) color(v [3]float64, a float64) RGBA8 {
	switch s {
	case SpaceSRGBLinear:
		return FromLinear(ColorF64{R: v[0], G: v[1], B: v[2], A: a})
	case SpaceOkLab:
		return fromColorful(colorful.OkLab(v[0], v[1], v[2]), a)
	case SpaceOkLch:
		return fromColorful(colorful.OkLch(v[0], v[1], v[2]), a)
	case SpaceLab:
		return fromColorful(colorful.Lab(v[0], v[1], v[2]), a)
	case SpaceLch:
		return fromColorful(colorful.Hcl(v[2], v[1], v[0]), a)
	case SpaceHSL:
		return fromColorful(colorful.Hsl(v[0], clamp01(v[1]), clamp01(v[2])), a)
	case SpaceHWB:
		return fromColorful(hwb(v[0], clamp01(v[1]), clamp01(v[2])), a)
	}
	return ColorF64{R: v[0], G: v[1], B: v[2], A: a}.ToRGBA8()
}

// Mix interpolates from a towards b in space; t is the weight of b.
// Non-hue coordinates are interpolated premultiplied by alpha and hues take
// the shorter arc, following CSS Color 5 color-mix().
func Mix(a, b RGBA8, space Space, t float64) RGBA8 {
	t = clamp01(t)
	aa, ab := float64(a.A)/255, float64(b.A)/255
	alpha := aa*(1-t) + ab*t
	if alpha == 0 {
		return Transparent
	}

	ca, aMissing := space.coords(a)
	cb, bMissing := space.coords(b)
	h := space.hueIndex()
	if h >= 0 {
		switch {
		case aMissing && !bMissing:
			ca[h] = cb[h]
		case bMissing && !aMissing:
			cb[h] = ca[h]
		}
	}

	var out [3]float64
	for i := range out {
		if i == h {
			out[i] = lerpHue(ca[i], cb[i], t)
			continue
		}
		out[i] = (ca[i]*aa*(1-t) + cb[i]*ab*t) / alpha
	}
	return space.color(out, alpha)
}

func lerpHue(a, b, t float64) float64 {
	d := b - a
	switch {
	case d > 180:
		d -= 360
	case d < -180:
		d += 360
	}
	return normalizeHue(a + d*t)
}
