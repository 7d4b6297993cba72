package raster

import (
	"cmp"
	"image"
	"slices"

	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/pixset"
)

// Layer is one resolved region ready to paint.
type Layer struct {
	Name   string
	Token  string
	Pixels pixset.Set
	Z      int
	// Index is the declaration index; it breaks ties between equal Z.
	Index int
}

// Lookup returns the color of a palette token.
type Lookup func(token string) (color.RGBA8, bool)

// Composite paints layers in ascending Z order onto a transparent pixmap of
// the given size. A later layer overwrites the pixels of an earlier one.
//
// A token missing from the palette is reported once per token; in lenient
// mode its pixels are painted magenta.
func Composite(size image.Point, layers []Layer, lookup Lookup, diags *diag.Collector) (*Pixmap, error) {
	order := slices.Clone(layers)
	slices.SortStableFunc(order, func(a, b Layer) int {
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	pm := NewPixmap(size.X, size.Y)
	missing := make(map[string]bool)
	for _, l := range order {
		c, ok := lookup(l.Token)
		if !ok {
			if !missing[l.Token] {
				missing[l.Token] = true
				if err := diags.Report(diag.KindUnknownToken, diag.DetailNone, l.Token,
					"region %q paints a token missing from the palette", l.Name); err != nil {
					return nil, err
				}
			}
			c = color.Magenta
		}
		for p := range l.Pixels.All {
			pm.SetPixel(p.X, p.Y, c)
		}
	}
	return pm, nil
}
