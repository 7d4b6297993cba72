package shape

import (
	"image"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// FloodFill fills the 4-connected area around seed, stopping at boundary
// and obstacle pixels and at the canvas edge. The result never contains a
// wall pixel. A nil seed is chosen by AutoSeed; an invalid seed yields an
// empty set.
func FloodFill(boundary, obstacles pixset.Set, seed *pixset.Point, size image.Point) pixset.Set {
	canvas := image.Rectangle{Max: size}
	if canvas.Empty() {
		return pixset.Set{}
	}
	open := func(p pixset.Point) bool {
		return (image.Point{X: p.X, Y: p.Y}).In(canvas) &&
			!boundary.Contains(p) && !obstacles.Contains(p)
	}

	var start pixset.Point
	if seed != nil {
		start = *seed
	} else {
		var ok bool
		if start, ok = AutoSeed(boundary, canvas, open); !ok {
			return pixset.Set{}
		}
	}
	if !open(start) {
		return pixset.Set{}
	}

	b := pixset.NewBuilder(64)
	b.Add(start)
	queue := []pixset.Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range pixset.Neighbors4(p) {
			if open(n) && !b.Has(n) {
				b.Add(n)
				queue = append(queue, n)
			}
		}
	}
	return b.Set()
}

// AutoSeed picks a fill seed: the centre of the boundary's bounding box,
// else the nearest open pixel on growing square rings around it. An empty
// boundary seeds at the canvas origin.
func AutoSeed(boundary pixset.Set, canvas image.Rectangle, open func(pixset.Point) bool) (pixset.Point, bool) {
	if boundary.Empty() {
		p := pixset.Pt(canvas.Min.X, canvas.Min.Y)
		return p, open(p)
	}
	bb := boundary.Bounds()
	// Bounds is exclusive; the centre uses inclusive extremes.
	cx := (bb.Min.X + bb.Max.X - 1) / 2
	cy := (bb.Min.Y + bb.Max.Y - 1) / 2
	c := pixset.Pt(cx, cy)
	if open(c) {
		return c, true
	}

	maxR := max(bb.Dx(), bb.Dy())
	for r := 1; r <= maxR; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				if p := c.Add(dx, dy); open(p) {
					return p, true
				}
			}
		}
	}
	return pixset.Point{}, false
}
