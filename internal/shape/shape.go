// Package shape rasterizes region shape primitives into pixel sets.
//
// Every primitive is a closed variant of Shape. Rasterize returns the
// primitive's pixels unclipped, except Fill and Background which are
// bounded by the canvas by construction. RasterizeCanvas does the work of
// the canvas only and reports whether anything fell outside it.
package shape

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// Shape is a region primitive.
type Shape interface {
	isShape()
}

// Points is a literal set of pixels.
type Points struct {
	Pts []pixset.Point
}

// Line is a polyline through Pts.
type Line struct {
	Pts       []pixset.Point
	Thickness int
}

// Rect is a filled rectangle covering [X,X+W)×[Y,Y+H).
type Rect struct {
	X, Y, W, H int
	Round      int
}

// Stroke is the outer Thickness ring of a rectangle.
type Stroke struct {
	X, Y, W, H int
	Thickness  int
	Round      int
}

// Ellipse covers pixels with ((x-CX)/RX)²+((y-CY)/RY)² <= 1.
type Ellipse struct {
	CX, CY, RX, RY int
}

// Circle is an Ellipse with equal radii.
type Circle struct {
	CX, CY, R int
}

// Polygon is an even-odd filled polygon.
type Polygon struct {
	Pts []pixset.Point
}

// Path is an SVG-lite path: M, L, H, V, Z and their relative forms.
type Path struct {
	D string
}

// Fill flood-fills the area enclosed by the region Inside. Seed is optional.
type Fill struct {
	Inside string
	Seed   *pixset.Point
}

// Background is every canvas pixel not claimed by another region.
type Background struct{}

func (Points) isShape()     {}
func (Line) isShape()       {}
func (Rect) isShape()       {}
func (Stroke) isShape()     {}
func (Ellipse) isShape()    {}
func (Circle) isShape()     {}
func (Polygon) isShape()    {}
func (Path) isShape()       {}
func (Fill) isShape()       {}
func (Background) isShape() {}

// Lookup returns the pixels of an already-resolved region.
type Lookup func(name string) (pixset.Set, bool)

// Env is what a shape may read besides its own fields.
type Env struct {
	// Size is the canvas size.
	Size image.Point
	// Lookup finds regions resolved so far.
	Lookup Lookup
	// Obstacles are extra walls for Fill.
	Obstacles pixset.Set
	// Claimed are the pixels Background leaves out.
	Claimed pixset.Set
}

// Canvas returns the canvas rectangle.
func (e Env) Canvas() image.Rectangle {
	return image.Rectangle{Max: e.Size}
}

var (
	// ErrUnresolved is wrapped by UnresolvedError.
	ErrUnresolved = errors.New("shape: region not resolved")
	// ErrPath is wrapped by path syntax errors.
	ErrPath = errors.New("shape: invalid path")
)

// UnresolvedError is a Fill naming a region that is not resolved yet.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("shape: region %q is not resolved", e.Name)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// Rasterize returns the pixels of s.
func Rasterize(s Shape, env Env) (pixset.Set, error) {
	return rasterize(s, env, everywhere)
}

// RasterizeCanvas returns the pixels of s inside the canvas of env, and
// whether s has pixels outside it. Area fills only visit the canvas and a
// one-pixel band around it, so an oversized shape costs no more than the
// canvas does.
func RasterizeCanvas(s Shape, env Env) (pixset.Set, bool, error) {
	canvas := env.Canvas()
	// A rect, stroke or ellipse is connected: if it has pixels on both
	// sides of the canvas edge, some lie in the band.
	set, err := rasterize(s, env, canvas.Inset(-1))
	if err != nil {
		return pixset.Set{}, false, err
	}
	in, dropped := set.Clip(canvas)
	outside := dropped > 0 || (in.Empty() && !empty(s))
	return in, outside, nil
}

// empty reports whether an area shape has no pixels at all.
func empty(s Shape) bool {
	switch s := s.(type) {
	case Rect:
		return s.W <= 0 || s.H <= 0
	case Stroke:
		return s.W <= 0 || s.H <= 0
	case Ellipse:
		return s.RX <= 0 || s.RY <= 0
	case Circle:
		return s.R <= 0
	}
	// Outlines of the other shapes are never limited, so Clip sees them.
	return true
}

var everywhere = image.Rect(math.MinInt32, math.MinInt32, math.MaxInt32, math.MaxInt32)

func rasterize(s Shape, env Env, lim image.Rectangle) (pixset.Set, error) {
	switch s := s.(type) {
	case Points:
		return pixset.Of(s.Pts...), nil
	case Line:
		return polyline(s.Pts, s.Thickness), nil
	case Rect:
		return rect(s.X, s.Y, s.W, s.H, s.Round, lim), nil
	case Stroke:
		return stroke(s, lim), nil
	case Ellipse:
		return ellipse(s.CX, s.CY, s.RX, s.RY, lim), nil
	case Circle:
		return ellipse(s.CX, s.CY, s.R, s.R, lim), nil
	case Polygon:
		return polygon(s.Pts, lim), nil
	case Path:
		return path(s.D, lim)
	case Fill:
		boundary, ok := env.lookup(s.Inside)
		if !ok {
			return pixset.Set{}, &UnresolvedError{Name: s.Inside}
		}
		return FloodFill(boundary, env.Obstacles, s.Seed, env.Size), nil
	case Background:
		all := pixset.Rect(env.Canvas())
		return all.Subtract(env.Claimed), nil
	case nil:
		return pixset.Set{}, nil
	}
	return pixset.Set{}, fmt.Errorf("shape: unknown shape %T", s)
}

func (e Env) lookup(name string) (pixset.Set, bool) {
	if e.Lookup == nil {
		return pixset.Set{}, false
	}
	return e.Lookup(name)
}
