package color

import (
	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// extraNames are CSS Color 4 keywords missing from the SVG 1.1 table.
var extraNames = map[string]RGBA8{
	"transparent":   Transparent,
	"rebeccapurple": {R: 0x66, G: 0x33, B: 0x99, A: 255},
}

// Fold case-folds a CSS keyword. A Caser is stateful, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// LookupName resolves a CSS named color, ignoring case.
func LookupName(name string) (RGBA8, bool) {
	key := Fold(name)
	if c, ok := extraNames[key]; ok {
		return c, true
	}
	if c, ok := colornames.Map[key]; ok {
		return RGBA8{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return RGBA8{}, false
}
