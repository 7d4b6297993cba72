package modifier

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// Axis selects a symmetry mode.
type Axis uint8

const (
	// AxisX mirrors across the vertical centre line of the canvas.
	AxisX Axis = iota
	// AxisY mirrors across the horizontal centre line.
	AxisY
	// AxisXY mirrors across both.
	AxisXY
	// AxisAt mirrors across the column At.
	AxisAt
)

// Symmetry mirrors a set and unions the result with the original.
type Symmetry struct {
	Axis Axis
	At   int
}

// ParseSymmetry parses "x", "y", "xy" or an integer column.
func ParseSymmetry(s string) (Symmetry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return Symmetry{Axis: AxisX}, nil
	case "y":
		return Symmetry{Axis: AxisY}, nil
	case "xy", "yx", "both":
		return Symmetry{Axis: AxisXY}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Symmetry{}, fmt.Errorf("modifier: invalid symmetry %q", s)
	}
	return Symmetry{Axis: AxisAt, At: n}, nil
}

// Apply returns s together with its mirror image on a canvas of size.
func (m Symmetry) Apply(s pixset.Set, size image.Point) pixset.Set {
	w, h := size.X, size.Y
	mx := func(p pixset.Point) pixset.Point { return pixset.Pt(w-1-p.X, p.Y) }
	my := func(p pixset.Point) pixset.Point { return pixset.Pt(p.X, h-1-p.Y) }

	switch m.Axis {
	case AxisX:
		return pixset.Union(s, s.Map(mx))
	case AxisY:
		return pixset.Union(s, s.Map(my))
	case AxisXY:
		return pixset.Union(s, s.Map(mx), s.Map(my), s.Map(func(p pixset.Point) pixset.Point { return mx(my(p)) }))
	case AxisAt:
		return pixset.Union(s, s.Map(func(p pixset.Point) pixset.Point { return pixset.Pt(2*m.At-p.X, p.Y) }))
	}
	return s
}

// preimage returns the bounding box of the pixels that Apply leaves in r
// or mirrors into it.
func (m Symmetry) preimage(r image.Rectangle, size image.Point) image.Rectangle {
	// fx and fy mirror r across x = c/2 and y = c/2.
	fx := func(r image.Rectangle, c int) image.Rectangle {
		return image.Rect(c-r.Max.X+1, r.Min.Y, c-r.Min.X+1, r.Max.Y)
	}
	fy := func(r image.Rectangle, c int) image.Rectangle {
		return image.Rect(r.Min.X, c-r.Max.Y+1, r.Max.X, c-r.Min.Y+1)
	}
	w, h := size.X-1, size.Y-1
	switch m.Axis {
	case AxisX:
		return r.Union(fx(r, w))
	case AxisY:
		return r.Union(fy(r, h))
	case AxisXY:
		return r.Union(fx(r, w)).Union(fy(r, h)).Union(fy(fx(r, w), h))
	case AxisAt:
		return r.Union(fx(r, 2*m.At))
	}
	return r
}
