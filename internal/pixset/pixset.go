// Package pixset provides Set, an immutable set of integer pixel
// coordinates, and the pure set algebra regions are built from.
package pixset

import (
	"cmp"
	"image"
	"slices"
)

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Compare orders points row-major: by Y, then X.
func Compare(a, b Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// Set is a set of pixel coordinates. The zero value is empty. Operations
// never mutate their receiver or arguments; a Set can be shared freely once
// built.
type Set struct {
	m map[Point]struct{}
}

// Builder accumulates points into a new Set.
type Builder struct {
	m map[Point]struct{}
}

// NewBuilder returns a builder with room for n points.
func NewBuilder(n int) *Builder {
	return &Builder{m: make(map[Point]struct{}, n)}
}

// Add inserts a point.
func (b *Builder) Add(p Point) { b.m[p] = struct{}{} }

// AddXY inserts (x, y).
func (b *Builder) AddXY(x, y int) { b.m[Point{x, y}] = struct{}{} }

// AddSet inserts every point of s.
func (b *Builder) AddSet(s Set) {
	for p := range s.m {
		b.m[p] = struct{}{}
	}
}

// Has reports whether p was added.
func (b *Builder) Has(p Point) bool {
	_, ok := b.m[p]
	return ok
}

// Len returns the number of points added so far.
func (b *Builder) Len() int { return len(b.m) }

// Set returns the accumulated set. The builder must not be used afterwards.
func (b *Builder) Set() Set {
	s := Set{m: b.m}
	b.m = nil
	return s
}

// Of builds a set from points.
func Of(pts ...Point) Set {
	b := NewBuilder(len(pts))
	for _, p := range pts {
		b.Add(p)
	}
	return b.Set()
}

// Rect returns every pixel of r.
func Rect(r image.Rectangle) Set {
	r = r.Canon()
	b := NewBuilder(r.Dx() * r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.AddXY(x, y)
		}
	}
	return b.Set()
}

// Len returns the number of pixels.
func (s Set) Len() int { return len(s.m) }

// Empty reports whether s has no pixels.
func (s Set) Empty() bool { return len(s.m) == 0 }

// Contains reports whether p is in s.
func (s Set) Contains(p Point) bool {
	_, ok := s.m[p]
	return ok
}

// Sorted returns the pixels in row-major order.
func (s Set) Sorted() []Point {
	out := make([]Point, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	slices.SortFunc(out, Compare)
	return out
}

// Bounds returns the smallest rectangle containing s. It is empty for an
// empty set.
func (s Set) Bounds() image.Rectangle {
	first := true
	var r image.Rectangle
	for p := range s.m {
		if first {
			r = image.Rect(p.X, p.Y, p.X+1, p.Y+1)
			first = false
			continue
		}
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X+1)
		r.Max.Y = max(r.Max.Y, p.Y+1)
	}
	return r
}

// Equal reports whether a and b have the same members.
func Equal(a, b Set) bool {
	if len(a.m) != len(b.m) {
		return false
	}
	for p := range a.m {
		if _, ok := b.m[p]; !ok {
			return false
		}
	}
	return true
}

// Union returns every pixel in any of the sets.
func Union(sets ...Set) Set {
	n := 0
	for _, s := range sets {
		n = max(n, len(s.m))
	}
	b := NewBuilder(n)
	for _, s := range sets {
		b.AddSet(s)
	}
	return b.Set()
}

// Intersect returns the pixels present in every set. With no arguments the
// result is empty.
func Intersect(sets ...Set) Set {
	if len(sets) == 0 {
		return Set{}
	}
	smallest := 0
	for i, s := range sets {
		if len(s.m) < len(sets[smallest].m) {
			smallest = i
		}
	}
	b := NewBuilder(len(sets[smallest].m))
outer:
	for p := range sets[smallest].m {
		for i, s := range sets {
			if i == smallest {
				continue
			}
			if _, ok := s.m[p]; !ok {
				continue outer
			}
		}
		b.Add(p)
	}
	return b.Set()
}

// Subtract returns the pixels of s not in any of others.
func (s Set) Subtract(others ...Set) Set {
	b := NewBuilder(len(s.m))
outer:
	for p := range s.m {
		for _, o := range others {
			if _, ok := o.m[p]; ok {
				continue outer
			}
		}
		b.Add(p)
	}
	return b.Set()
}

// Clip returns the pixels of s inside r, and how many were dropped.
func (s Set) Clip(r image.Rectangle) (Set, int) {
	b := NewBuilder(len(s.m))
	for p := range s.m {
		if (image.Point{X: p.X, Y: p.Y}).In(r) {
			b.Add(p)
		}
	}
	dropped := len(s.m) - b.Len()
	return b.Set(), dropped
}

// Translate returns s shifted by (dx, dy).
func (s Set) Translate(dx, dy int) Set {
	if dx == 0 && dy == 0 {
		return s
	}
	return s.Map(func(p Point) Point { return p.Add(dx, dy) })
}

// Map returns the image of s under f.
func (s Set) Map(f func(Point) Point) Set {
	b := NewBuilder(len(s.m))
	for p := range s.m {
		b.Add(f(p))
	}
	return b.Set()
}

// Filter returns the pixels of s for which keep is true.
func (s Set) Filter(keep func(Point) bool) Set {
	b := NewBuilder(len(s.m))
	for p := range s.m {
		if keep(p) {
			b.Add(p)
		}
	}
	return b.Set()
}

// All calls yield for each pixel in unspecified order until it returns false.
func (s Set) All(yield func(Point) bool) {
	for p := range s.m {
		if !yield(p) {
			return
		}
	}
}

// Neighbors4 returns the 4-connected neighbours of p.
func Neighbors4(p Point) [4]Point {
	return [4]Point{p.Add(1, 0), p.Add(-1, 0), p.Add(0, 1), p.Add(0, -1)}
}

// Touches reports whether some pixel of a is 4-adjacent to a pixel of b.
func Touches(a, b Set) bool {
	for p := range a.m {
		for _, n := range Neighbors4(p) {
			if _, ok := b.m[n]; ok {
				return true
			}
		}
	}
	return false
}

// Subset reports whether every pixel of a is in b.
func Subset(a, b Set) bool {
	for p := range a.m {
		if _, ok := b.m[p]; !ok {
			return false
		}
	}
	return true
}
