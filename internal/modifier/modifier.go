// Package modifier implements the per-region pixel-set modifiers.
//
// Pipeline applies them in a fixed order: repeat, transform, symmetric,
// jitter, then x/y range clipping. Every step is total: an empty set in
// gives an empty set out.
package modifier

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// Everywhere is a limit that drops nothing.
var Everywhere = image.Rect(math.MinInt32, math.MinInt32, math.MaxInt32, math.MaxInt32)

// Pipeline is the set of optional modifiers of one region.
type Pipeline struct {
	Repeat    *Repeat
	Transform Transform
	Symmetric *Symmetry
	Jitter    *Jitter
	// Seed drives Jitter.
	Seed   uint64
	XRange *Range
	YRange *Range
}

// Apply runs the pipeline on s and clips the result to a canvas of size.
// Repeat and transform skip pixels that symmetry and jitter can no longer
// bring onto the canvas.
func (p Pipeline) Apply(s pixset.Set, size image.Point) pixset.Set {
	canvas := image.Rectangle{Max: size}
	limit := p.reach(canvas)
	if p.Repeat != nil {
		tiles := limit
		if len(p.Transform) > 0 {
			// A rotation or scale pivots on the centroid of every tile.
			tiles = Everywhere
		}
		s = p.Repeat.Apply(s, tiles)
	}
	if len(p.Transform) > 0 {
		s = p.Transform.Apply(s, limit)
	}
	if p.Symmetric != nil {
		s = p.Symmetric.Apply(s, size)
	}
	if p.Jitter != nil {
		s = p.Jitter.Apply(s, p.Seed)
	}
	if p.XRange != nil {
		r := *p.XRange
		s = s.Filter(func(pt pixset.Point) bool { return r.Contains(pt.X) })
	}
	if p.YRange != nil {
		r := *p.YRange
		s = s.Filter(func(pt pixset.Point) bool { return r.Contains(pt.Y) })
	}
	s, _ = s.Clip(canvas)
	return s
}

// reach returns the area whose pixels can still land on canvas after the
// symmetry and jitter steps.
func (p Pipeline) reach(canvas image.Rectangle) image.Rectangle {
	r := canvas
	if p.Jitter != nil {
		x, y := p.Jitter.X.norm(), p.Jitter.Y.norm()
		r = image.Rect(r.Min.X-x.Max, r.Min.Y-y.Max, r.Max.X-x.Min, r.Max.Y-y.Min)
	}
	if p.Symmetric != nil {
		r = p.Symmetric.preimage(r, canvas.Size())
	}
	return r
}

// Range is an inclusive coordinate band.
type Range struct {
	Min, Max int
}

// Contains reports whether v lies in the band.
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

func (r Range) norm() Range {
	return Range{Min: min(r.Min, r.Max), Max: max(r.Min, r.Max)}
}

// Repeat tiles a set CountX × CountY times.
type Repeat struct {
	CountX, CountY     int
	SpacingX, SpacingY int
	// OffsetAlternate shifts odd rows right by half a tile.
	OffsetAlternate bool
}

// Apply unions s with its copies. The tile size is the bounding box of s
// plus spacing. Copies that miss limit entirely are skipped.
func (r Repeat) Apply(s pixset.Set, limit image.Rectangle) pixset.Set {
	if s.Empty() || (r.CountX <= 1 && r.CountY <= 1) {
		return s
	}
	bb := s.Bounds()
	tw := max(bb.Dx()+r.SpacingX, 1)
	th := max(bb.Dy()+r.SpacingY, 1)

	b := pixset.NewBuilder(s.Len())
	y0, y1 := tiles(max(r.CountY, 1), th, bb.Min.Y, bb.Max.Y, limit.Min.Y, limit.Max.Y)
	for iy := y0; iy <= y1; iy++ {
		off := 0
		if r.OffsetAlternate && iy%2 == 1 {
			off = tw / 2
		}
		x0, x1 := tiles(max(r.CountX, 1), tw, bb.Min.X+off, bb.Max.X+off, limit.Min.X, limit.Max.X)
		for ix := x0; ix <= x1; ix++ {
			b.AddSet(s.Translate(ix*tw+off, iy*th))
		}
	}
	return b.Set()
}

// tiles returns the first and last index i in [0, n) for which the span
// [lo+i*step, hi+i*step) overlaps [from, to).
func tiles(n, step, lo, hi, from, to int) (first, last int) {
	first = max(floorDiv(from-hi, step)+1, 0)
	last = min(floorDiv(to-lo-1, step), n-1)
	return first, last
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Outline returns the pixels within thickness 4-connected steps of s,
// excluding s itself.
func Outline(s pixset.Set, thickness int) pixset.Set {
	thickness = max(thickness, 1)
	grown := s
	frontier := s
	for range thickness {
		b := pixset.NewBuilder(frontier.Len() * 2)
		frontier.All(func(p pixset.Point) bool {
			for _, n := range pixset.Neighbors4(p) {
				if !grown.Contains(n) {
					b.Add(n)
				}
			}
			return true
		})
		frontier = b.Set()
		grown = pixset.Union(grown, frontier)
	}
	return grown.Subtract(s)
}

// Shadow returns s moved by (dx, dy), minus s.
func Shadow(s pixset.Set, dx, dy int) pixset.Set {
	return s.Translate(dx, dy).Subtract(s)
}

// Jitter moves each pixel by a random offset drawn from inclusive ranges.
type Jitter struct {
	X, Y Range
}

// Apply perturbs s. Each pixel draws its offset from a generator seeded
// by seed and its own position, so the result does not depend on which
// other pixels are present.
func (j Jitter) Apply(s pixset.Set, seed uint64) pixset.Set {
	if s.Empty() {
		return s
	}
	src := rand.NewPCG(seed, 0)
	rng := rand.New(src)
	b := pixset.NewBuilder(s.Len())
	for p := range s.All {
		src.Seed(seed, pointKey(p))
		b.Add(p.Add(draw(rng, j.X), draw(rng, j.Y)))
	}
	return b.Set()
}

func draw(rng *rand.Rand, r Range) int {
	lo, hi := min(r.Min, r.Max), max(r.Min, r.Max)
	if lo == hi {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
