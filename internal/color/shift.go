package color

import "github.com/lucasb-eyer/go-colorful"

// Shift is an HSL adjustment: Lightness and Saturation in percentage
// points, Hue in degrees.
type Shift struct {
	Lightness  float64
	Hue        float64
	Saturation float64
}

// IsZero reports whether s changes nothing.
func (s Shift) IsZero() bool {
	return s.Lightness == 0 && s.Hue == 0 && s.Saturation == 0
}

// Scale multiplies every delta by k.
func (s Shift) Scale(k float64) Shift {
	return Shift{Lightness: s.Lightness * k, Hue: s.Hue * k, Saturation: s.Saturation * k}
}

// Shifted applies s to c in HSL. Alpha is preserved.
func (c RGBA8) Shifted(s Shift) RGBA8 {
	if s.IsZero() {
		return c
	}
	h, sat, l := c.toColorful().Hsl()
	h = normalizeHue(h + s.Hue)
	sat = clamp01(sat + s.Saturation/100)
	l = clamp01(l + s.Lightness/100)
	return fromColorful(colorful.Hsl(h, sat, l), float64(c.A)/255)
}
