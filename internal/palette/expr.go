package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/pixelsrc/internal/color"
)

// ErrExpr is wrapped by malformed var() and color-mix() expressions.
var ErrExpr = errors.New("palette: malformed color expression")

// Expr is a color expression. The variants are Literal, VarRef, ColorMix,
// Derived and Ramp.
type Expr interface {
	isExpr()
}

// Literal is a plain color literal such as "#FF0000" or "hsl(0 100% 50%)".
type Literal struct {
	Src string
}

// VarRef is var(--name) with an optional fallback expression.
type VarRef struct {
	Name     string
	Fallback Expr
}

// MixOperand is one side of a color-mix().
type MixOperand struct {
	Expr       Expr
	Percent    float64
	HasPercent bool
}

// ColorMix is color-mix(in <space>, a [p%], b [p%]).
type ColorMix struct {
	Space color.Space
	A, B  MixOperand
}

// Derived is a base color with one HSL shift applied.
type Derived struct {
	Base  Expr
	Shift color.Shift
}

// Ramp fans a base color out into shadow and highlight tokens.
type Ramp struct {
	Base      Expr
	Steps     int
	Shadow    color.Shift
	Highlight color.Shift
}

func (Literal) isExpr()  {}
func (VarRef) isExpr()   {}
func (ColorMix) isExpr() {}
func (Derived) isExpr()  {}
func (Ramp) isExpr()     {}

// Ramp defaults.
const DefaultSteps = 3

var (
	DefaultShadow    = color.Shift{Lightness: -15, Hue: 10, Saturation: 5}
	DefaultHighlight = color.Shift{Lightness: 12, Hue: -5, Saturation: -10}
)

// NewRamp returns a ramp with the default step count and shifts.
func NewRamp(base Expr) Ramp {
	return Ramp{Base: base, Steps: DefaultSteps, Shadow: DefaultShadow, Highlight: DefaultHighlight}
}

// NormalizeName returns a custom property name with its "--" prefix.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// IsCustomProperty reports whether a palette key declares a custom property.
func IsCustomProperty(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), "--")
}

// ParseExpr parses the string form of a color expression. Anything that is
// not a var() or color-mix() call is returned as a Literal and validated when
// it is resolved.
func ParseExpr(s string) (Expr, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return nil, fmt.Errorf("%w: empty", ErrExpr)
	}
	if name, args, ok := splitCall(src); ok {
		switch color.Fold(name) {
		case "var":
			return parseVar(src, args)
		case "color-mix":
			return parseMix(src, args)
		}
	}
	return Literal{Src: src}, nil
}

// splitCall splits "name(args)" when the parenthesis opened after name is
// the one closing the string.
func splitCall(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", "", false
			}
		}
	}
	if depth != 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true
}

// splitTop splits s at commas outside parentheses, keeping at most n parts
// when n > 0.
func splitTop(s string, n int) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 && (n <= 0 || len(parts) < n-1) {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func parseVar(src, args string) (Expr, error) {
	parts := splitTop(args, 2)
	name := strings.TrimSpace(parts[0])
	if name == "" || name == "--" || strings.ContainsAny(name, " \t()") {
		return nil, fmt.Errorf("%w %q: bad variable name", ErrExpr, src)
	}
	ref := VarRef{Name: NormalizeName(name)}
	if len(parts) == 2 {
		fb, err := ParseExpr(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w %q: fallback: %v", ErrExpr, src, err)
		}
		ref.Fallback = fb
	}
	return ref, nil
}

func parseMix(src, args string) (Expr, error) {
	parts := splitTop(args, 0)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w %q: expected 3 arguments, got %d", ErrExpr, src, len(parts))
	}

	method := strings.Fields(parts[0])
	if len(method) < 2 || color.Fold(method[0]) != "in" {
		return nil, fmt.Errorf("%w %q: expected \"in <space>\"", ErrExpr, src)
	}
	space, err := color.ParseSpace(method[1])
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrExpr, src, err)
	}
	// Only the default hue interpolation method is supported.
	if len(method) > 2 {
		if len(method) != 4 || color.Fold(method[2]) != "shorter" || color.Fold(method[3]) != "hue" {
			return nil, fmt.Errorf("%w %q: unsupported interpolation method %q", ErrExpr, src, strings.Join(method[2:], " "))
		}
	}

	mix := ColorMix{Space: space}
	if mix.A, err = parseOperand(parts[1]); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrExpr, src, err)
	}
	if mix.B, err = parseOperand(parts[2]); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrExpr, src, err)
	}
	return mix, nil
}

// parseOperand reads "expr", "expr p%" or "p% expr".
func parseOperand(s string) (MixOperand, error) {
	s = strings.TrimSpace(s)

	if i := lastTopSpace(s); i >= 0 {
		if p, ok, err := parsePercent(s[i+1:]); ok || err != nil {
			if err != nil {
				return MixOperand{}, err
			}
			e, err := ParseExpr(s[:i])
			return MixOperand{Expr: e, Percent: p, HasPercent: true}, err
		}
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		if p, ok, err := parsePercent(s[:i]); ok || err != nil {
			if err != nil {
				return MixOperand{}, err
			}
			e, err := ParseExpr(s[i+1:])
			return MixOperand{Expr: e, Percent: p, HasPercent: true}, err
		}
	}
	e, err := ParseExpr(s)
	return MixOperand{Expr: e}, err
}

// lastTopSpace returns the index of the last blank outside parentheses.
func lastTopSpace(s string) int {
	depth, last := 0, -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t':
			if depth == 0 {
				last = i
			}
		}
	}
	return last
}

func parsePercent(tok string) (float64, bool, error) {
	tok = strings.TrimSpace(tok)
	if !strings.HasSuffix(tok, "%") {
		return 0, false, nil
	}
	p, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
	if err != nil {
		return 0, false, nil
	}
	if p < 0 || p > 100 {
		return 0, true, fmt.Errorf("percentage %s out of range", tok)
	}
	return p, true, nil
}
