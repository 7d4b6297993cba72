// Package region resolves a sprite's region declarations into pixel sets.
//
// Resolution has two passes. Pass 1 walks regions in declaration order and
// rasterizes each one; any pixel-affecting reference (fill, except, compound
// operands, auto-outline, auto-shadow) must name a region already resolved,
// otherwise compilation fails with a forward-reference error in every mode.
// Background regions resolve last. Pass 2 checks the within and adjacent-to
// constraints against the complete result, so those may point forward.
package region

import (
	"image"

	"github.com/gogpu/pixelsrc/internal/modifier"
	"github.com/gogpu/pixelsrc/internal/shape"
)

// Role is optional semantic metadata of a region.
type Role string

const (
	RoleNone      Role = ""
	RoleBoundary  Role = "boundary"
	RoleAnchor    Role = "anchor"
	RoleFill      Role = "fill"
	RoleShadow    Role = "shadow"
	RoleHighlight Role = "highlight"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleBoundary, RoleAnchor, RoleFill, RoleShadow, RoleHighlight:
		return true
	}
	return false
}

// Operand is one input of a compound operation: a region name or a nested
// definition.
type Operand struct {
	Ref string
	Def *Def
}

// Def is one region declaration. Nested operand definitions use the same
// type; their Name, Token, Z and validation fields are ignored.
type Def struct {
	Name string
	// Token is the palette token painted; empty means Name.
	Token string
	Shape shape.Shape

	Union     []Operand
	Intersect []Operand
	// Base is the minuend of Subtract; without it the region's own shape is.
	Base     *Def
	Subtract []Operand
	Except   []string

	AutoOutline string
	// Thickness is the auto-outline ring count.
	Thickness    int
	AutoShadow   string
	ShadowOffset image.Point

	Modifiers modifier.Pipeline
	// Seed overrides the derived jitter seed.
	Seed *int64

	Z    *int
	Role Role

	Within     string
	AdjacentTo string
}

// IsBackground reports whether d claims the pixels left over by every other
// region: a region named "background" without a shape, or a
// background fill.
func (d *Def) IsBackground() bool {
	if _, ok := d.Shape.(shape.Background); ok {
		return true
	}
	return d.Name == "background" && d.Shape == nil && !d.hasCompound()
}

func (d *Def) hasCompound() bool {
	return len(d.Union) > 0 || len(d.Intersect) > 0 || d.Base != nil || len(d.Subtract) > 0 ||
		d.AutoOutline != "" || d.AutoShadow != ""
}

// TokenName returns the token the region paints.
func (d *Def) TokenName() string {
	if d.Token != "" {
		return d.Token
	}
	return d.Name
}

// Sprite is the region-level view of a sprite.
type Sprite struct {
	Name    string
	Size    image.Point
	Regions []Def
}
