package pixelsrc

import (
	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/palette"
	"github.com/gogpu/pixelsrc/internal/raster"
	"github.com/gogpu/pixelsrc/internal/region"
)

// Color is a straight-alpha 8-bit sRGB color.
type Color = color.RGBA8

// Magenta is painted for colors that could not be resolved.
var Magenta = color.Magenta

// ParseColor parses one CSS color literal.
func ParseColor(s string) (Color, error) {
	return color.ParseLiteral(s)
}

// Pixmap is the RGBA pixel buffer of a compiled sprite. It implements
// image.Image.
type Pixmap = raster.Pixmap

// Palette is a resolved token-to-color map.
type Palette = palette.Palette

// Token is one resolved palette entry.
type Token = palette.Token

// Region is a resolved region: its pixels, effective z and token.
type Region = region.Resolved

// Role is optional region metadata.
type Role = region.Role

// Region roles.
const (
	RoleBoundary  = region.RoleBoundary
	RoleAnchor    = region.RoleAnchor
	RoleFill      = region.RoleFill
	RoleShadow    = region.RoleShadow
	RoleHighlight = region.RoleHighlight
)

// Mode selects how recoverable problems are handled.
type Mode = diag.Mode

const (
	// Lenient reports problems and substitutes fallbacks.
	Lenient = diag.Lenient
	// Strict fails a sprite on its first diagnostic.
	Strict = diag.Strict
)

// Diagnostic is one reported problem.
type Diagnostic = diag.Diagnostic

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind = diag.Kind

// Diagnostic kinds.
const (
	KindForwardReference = diag.KindForwardReference
	KindUnknownToken     = diag.KindUnknownToken
	KindColorResolution  = diag.KindColorResolution
	KindValidation       = diag.KindValidation
	KindBounds           = diag.KindBounds
	KindDuplicate        = diag.KindDuplicate
	KindSyntax           = diag.KindSyntax
)

// Error is the error form of an error-severity Diagnostic.
type Error = diag.Error

// Errors matched with errors.Is against Result.Err and Output.Err.
var (
	ErrForwardReference = diag.ErrForwardReference
	ErrUnknownToken     = diag.ErrUnknownToken
	ErrColorResolution  = diag.ErrColorResolution
	ErrValidation       = diag.ErrValidation
	ErrBounds           = diag.ErrBounds
	ErrDuplicate        = diag.ErrDuplicate
	ErrSyntax           = diag.ErrSyntax
)
