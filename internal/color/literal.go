package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/pixelsrc/internal/cache"
)

// ErrInvalidLiteral is wrapped by every literal parse failure.
var ErrInvalidLiteral = errors.New("color: invalid literal")

func invalid(src, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidLiteral, src, fmt.Sprintf(format, args...))
}

// ParseLiteral parses one CSS color literal:
//
//   - hex: #rgb, #rgba, #rrggbb, #rrggbbaa
//   - rgb()/rgba(), hsl()/hsla(), hwb(), oklab(), oklch() in comma or space
//     syntax, with an optional "/ alpha" in space syntax
//   - named colors, including transparent
//
// Function and color names are case-insensitive.
func ParseLiteral(s string) (RGBA8, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return RGBA8{}, invalid(s, "empty")
	}
	if src[0] == '#' {
		return parseHex(src)
	}
	if open := strings.IndexByte(src, '('); open >= 0 {
		if !strings.HasSuffix(src, ")") {
			return RGBA8{}, invalid(s, "missing closing parenthesis")
		}
		name := Fold(strings.TrimSpace(src[:open]))
		return parseFunc(src, name, src[open+1:len(src)-1])
	}
	if c, ok := LookupName(src); ok {
		return c, nil
	}
	return RGBA8{}, invalid(s, "unknown color name")
}

// Parser memoizes ParseLiteral. It is safe for concurrent use, so one
// Parser is shared by all sprites of a batch.
type Parser struct {
	cache *cache.Cache[string, parsed]
}

type parsed struct {
	c   RGBA8
	err error
}

// NewParser returns a parser caching up to about size literals.
func NewParser(size int) *Parser {
	return &Parser{cache: cache.New[string, parsed](size)}
}

// Parse is ParseLiteral with memoization.
func (p *Parser) Parse(s string) (RGBA8, error) {
	if p == nil || p.cache == nil {
		return ParseLiteral(s)
	}
	r := p.cache.GetOrCreate(s, func() parsed {
		c, err := ParseLiteral(s)
		return parsed{c: c, err: err}
	})
	return r.c, r.err
}

// Stats reports the cache hit and miss counters.
func (p *Parser) Stats() (hits, misses uint64) {
	if p == nil || p.cache == nil {
		return 0, 0
	}
	return p.cache.Stats()
}

func parseHex(src string) (RGBA8, error) {
	hex := src[1:]
	var v [8]uint8
	for i := 0; i < len(hex); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return RGBA8{}, invalid(src, "invalid hex digit %q", hex[i])
		}
		if i < len(v) {
			v[i] = d
		}
	}

	switch len(hex) {
	case 3:
		return RGBA8{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: 255}, nil
	case 4:
		return RGBA8{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: v[3] * 17}, nil
	case 6:
		return RGBA8{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: 255}, nil
	case 8:
		return RGBA8{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: v[6]<<4 | v[7]}, nil
	default:
		return RGBA8{}, invalid(src, "hex length %d, expected 3, 4, 6, or 8", len(hex))
	}
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// component is one parsed function argument.
type component struct {
	v    float64
	unit string // "", "%", "deg", "rad", "grad", "turn"
	none bool
}

func parseComponent(tok string) (component, error) {
	if Fold(tok) == "none" {
		return component{none: true}, nil
	}
	end := len(tok)
	for end > 0 {
		c := tok[end-1]
		if c == '%' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			end--
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(tok[:end], 64)
	if err != nil {
		return component{}, fmt.Errorf("number %q", tok)
	}
	unit := Fold(tok[end:])
	switch unit {
	case "", "%", "deg", "rad", "grad", "turn":
	default:
		return component{}, fmt.Errorf("unit %q", unit)
	}
	return component{v: v, unit: unit}, nil
}

// splitArgs splits function arguments into channel components and an
// optional alpha, accepting both legacy comma syntax and space syntax.
func splitArgs(args string) (channels []string, alpha string, err error) {
	if strings.Contains(args, ",") {
		parts := strings.Split(args, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch len(parts) {
		case 3:
			return parts, "", nil
		case 4:
			return parts[:3], parts[3], nil
		}
		return nil, "", fmt.Errorf("expected 3 or 4 arguments, got %d", len(parts))
	}

	left, right, hasAlpha := strings.Cut(args, "/")
	channels = strings.Fields(left)
	if len(channels) != 3 {
		return nil, "", fmt.Errorf("expected 3 channels, got %d", len(channels))
	}
	if hasAlpha {
		alpha = strings.TrimSpace(right)
		if alpha == "" || strings.ContainsAny(alpha, " \t/") {
			return nil, "", fmt.Errorf("malformed alpha %q", right)
		}
	}
	return channels, alpha, nil
}

func parseFunc(src, name, args string) (RGBA8, error) {
	channelToks, alphaTok, err := splitArgs(args)
	if err != nil {
		return RGBA8{}, invalid(src, "%v", err)
	}
	var ch [3]component
	for i, tok := range channelToks {
		if ch[i], err = parseComponent(tok); err != nil {
			return RGBA8{}, invalid(src, "invalid %v", err)
		}
	}
	alpha := 1.0
	if alphaTok != "" {
		a, err := parseComponent(alphaTok)
		if err != nil {
			return RGBA8{}, invalid(src, "invalid alpha %v", err)
		}
		switch {
		case a.none:
			alpha = 0
		case a.unit == "%":
			alpha = a.v / 100
		case a.unit == "":
			alpha = a.v
		default:
			return RGBA8{}, invalid(src, "alpha cannot have unit %q", a.unit)
		}
		alpha = clamp01(alpha)
	}

	switch name {
	case "rgb", "rgba":
		var rgb [3]float64
		for i, c := range ch {
			switch {
			case c.none:
			case c.unit == "%":
				rgb[i] = c.v / 100
			case c.unit == "":
				rgb[i] = c.v / 255
			default:
				return RGBA8{}, invalid(src, "rgb channel cannot have unit %q", c.unit)
			}
		}
		return ColorF64{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}.ToRGBA8(), nil

	case "hsl", "hsla":
		h, err := hue(ch[0])
		if err != nil {
			return RGBA8{}, invalid(src, "%v", err)
		}
		s, l := percent(ch[1]), percent(ch[2])
		return fromColorful(colorful.Hsl(h, clamp01(s), clamp01(l)), alpha), nil

	case "hwb":
		h, err := hue(ch[0])
		if err != nil {
			return RGBA8{}, invalid(src, "%v", err)
		}
		return fromColorful(hwb(h, clamp01(percent(ch[1])), clamp01(percent(ch[2]))), alpha), nil

	case "oklab":
		l := lightness(ch[0])
		a, b := chroma(ch[1]), chroma(ch[2])
		return fromColorful(colorful.OkLab(l, a, b), alpha), nil

	case "oklch":
		l := lightness(ch[0])
		c := math.Max(chroma(ch[1]), 0)
		h, err := hue(ch[2])
		if err != nil {
			return RGBA8{}, invalid(src, "%v", err)
		}
		return fromColorful(colorful.OkLch(l, c, h), alpha), nil
	}
	return RGBA8{}, invalid(src, "unsupported color function %q", name)
}

// hue converts an angle component to degrees in [0,360).
func hue(c component) (float64, error) {
	var deg float64
	switch c.unit {
	case "", "deg":
		deg = c.v
	case "rad":
		deg = c.v * 180 / math.Pi
	case "grad":
		deg = c.v * 0.9
	case "turn":
		deg = c.v * 360
	default:
		return 0, fmt.Errorf("hue cannot have unit %q", c.unit)
	}
	if c.none {
		deg = 0
	}
	return normalizeHue(deg), nil
}

func normalizeHue(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// percent reads a saturation/lightness/whiteness argument. Bare numbers in
// space syntax are percentages as well.
func percent(c component) float64 {
	if c.none {
		return 0
	}
	return c.v / 100
}

// lightness reads an OkLab/OkLch L argument: 0..1 or 0%..100%.
func lightness(c component) float64 {
	switch {
	case c.none:
		return 0
	case c.unit == "%":
		return clamp01(c.v / 100)
	}
	return clamp01(c.v)
}

// chroma reads an OkLab a/b or OkLch C argument; 100% maps to 0.4.
func chroma(c component) float64 {
	switch {
	case c.none:
		return 0
	case c.unit == "%":
		return c.v / 100 * 0.4
	}
	return c.v
}

// hwb converts hue/whiteness/blackness to a color via HSV.
func hwb(h, w, b float64) colorful.Color {
	if w+b >= 1 {
		g := w / (w + b)
		return colorful.Color{R: g, G: g, B: g}
	}
	v := 1 - b
	s := 1 - w/v
	return colorful.Hsv(h, s, v)
}
