package shape

import (
	"image"
	"slices"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// bresenham adds the pixels of the segment p0-p1 to b.
func bresenham(b *pixset.Builder, p0, p1 pixset.Point) {
	x0, y0 := p0.X, p0.Y
	dx := abs(p1.X - x0)
	dy := -abs(p1.Y - y0)
	sx, sy := 1, 1
	if x0 > p1.X {
		sx = -1
	}
	if y0 > p1.Y {
		sy = -1
	}
	err := dx + dy
	for {
		b.AddXY(x0, y0)
		if x0 == p1.X && y0 == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// polyline draws consecutive segments. Thickness > 1 adds copies offset
// across the dominant axis of each segment, centred on the segment.
func polyline(pts []pixset.Point, thickness int) pixset.Set {
	b := pixset.NewBuilder(len(pts) * 4)
	if len(pts) == 1 {
		b.Add(pts[0])
	}
	thickness = max(thickness, 1)
	lo := -(thickness - 1) / 2
	hi := thickness / 2
	for i := 0; i+1 < len(pts); i++ {
		p0, p1 := pts[i], pts[i+1]
		horizontal := abs(p1.X-p0.X) >= abs(p1.Y-p0.Y)
		for o := lo; o <= hi; o++ {
			if horizontal {
				bresenham(b, p0.Add(0, o), p1.Add(0, o))
			} else {
				bresenham(b, p0.Add(o, 0), p1.Add(o, 0))
			}
		}
	}
	return b.Set()
}

// rect fills [x,x+w)×[y,y+h) within lim, clipping corners when r > 0.
func rect(x, y, w, h, r int, lim image.Rectangle) pixset.Set {
	if w <= 0 || h <= 0 {
		return pixset.Set{}
	}
	r = min(r, w/2, h/2)
	area := image.Rect(x, y, x+w, y+h).Intersect(lim)
	b := pixset.NewBuilder(area.Dx() * area.Dy())
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			if r > 0 && !inRoundedCorner(px-x, py-y, w, h, r) {
				continue
			}
			b.AddXY(px, py)
		}
	}
	return b.Set()
}

// inRoundedCorner reports whether local pixel (lx, ly) of a w×h rectangle
// survives corner rounding with radius r. Pixels outside the r×r corner
// boxes always survive. Inside a box, with the corner-circle centre c on
// the pixel grid, a pixel is kept iff
//
//	(2lx+1-2c)² + (2ly+1-2c)² <= (2r-1)²
//
// after mirroring the box onto the top-left corner, where c = r.
func inRoundedCorner(lx, ly, w, h, r int) bool {
	if lx >= r && lx < w-r {
		return true
	}
	if ly >= r && ly < h-r {
		return true
	}
	if lx >= w-r {
		lx = w - 1 - lx
	}
	if ly >= h-r {
		ly = h - 1 - ly
	}
	dx := 2*lx + 1 - 2*r
	dy := 2*ly + 1 - 2*r
	d := 2*r - 1
	return dx*dx+dy*dy <= d*d
}

func stroke(s Stroke, lim image.Rectangle) pixset.Set {
	t := s.Thickness
	if t <= 0 {
		t = 1
	}
	outer := rect(s.X, s.Y, s.W, s.H, s.Round, lim)
	inner := rect(s.X+t, s.Y+t, s.W-2*t, s.H-2*t, max(s.Round-t, 0), lim)
	return outer.Subtract(inner)
}

// ellipse covers integer pixels inside the ellipse equation, evaluated in
// int64 as (x-cx)²·ry² + (y-cy)²·rx² <= rx²·ry², within lim.
func ellipse(cx, cy, rx, ry int, lim image.Rectangle) pixset.Set {
	if rx <= 0 || ry <= 0 {
		return pixset.Set{}
	}
	rx2, ry2 := int64(rx)*int64(rx), int64(ry)*int64(ry)
	limit := rx2 * ry2
	area := image.Rect(cx-rx, cy-ry, cx+rx+1, cy+ry+1).Intersect(lim)
	b := pixset.NewBuilder(area.Dx() * area.Dy())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := int64(y - cy)
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := int64(x - cx)
			if dx*dx*ry2+dy*dy*rx2 <= limit {
				b.AddXY(x, y)
			}
		}
	}
	return b.Set()
}

// polygon fills vertices with an even-odd scanline. Each edge counts on the
// rows [ymin, ymax), interpolated from its upper end, so a vertex shared by
// two edges is crossed once. Horizontal edges and the outline itself are
// always drawn in full; the interior only within lim. Fewer than three
// vertices give an empty set.
func polygon(vs []pixset.Point, lim image.Rectangle) pixset.Set {
	if len(vs) < 3 {
		return pixset.Set{}
	}
	minY, maxY := vs[0].Y, vs[0].Y
	for _, v := range vs[1:] {
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}

	// Edges are walked from their row-major smaller end so the result does
	// not depend on vertex order.
	b := pixset.NewBuilder(len(vs) * 8)
	for i := range vs {
		a, c := vs[i], vs[(i+1)%len(vs)]
		if pixset.Compare(a, c) > 0 {
			a, c = c, a
		}
		bresenham(b, a, c)
	}

	xs := make([]int, 0, len(vs))
	for y := max(minY, lim.Min.Y); y <= min(maxY, lim.Max.Y-1); y++ {
		xs = xs[:0]
		for i := range vs {
			a, c := vs[i], vs[(i+1)%len(vs)]
			if a.Y == c.Y {
				continue
			}
			if a.Y > c.Y {
				a, c = c, a
			}
			if y >= a.Y && y < c.Y {
				xs = append(xs, a.X+(y-a.Y)*(c.X-a.X)/(c.Y-a.Y))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], lim.Min.X); x <= min(xs[i+1], lim.Max.X-1); x++ {
				b.AddXY(x, y)
			}
		}
	}
	return b.Set()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
