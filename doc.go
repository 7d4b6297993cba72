// Package pixelsrc compiles declarative pixel-art sprites into RGBA pixel
// buffers.
//
// # Overview
//
// A source file is a sequence of declarations. A palette declaration maps
// tokens to colors; color values may be CSS literals, var() references to
// palette custom properties, color-mix() expressions, or derived shades and
// ramps of another color. A sprite declaration names a canvas size, a palette
// and an ordered set of regions. Each region is a shape (points, line, rect,
// stroke, ellipse, circle, polygon, path, flood fill or background) refined
// by compound set operations and modifiers, painted with one token.
//
// # Quick Start
//
//	decls, err := tree.DecodeJSON(strings.NewReader(src))
//	if err != nil {
//	    return err
//	}
//
//	c := pixelsrc.New()
//	defer c.Close()
//
//	out, err := c.Compile(ctx, decls)
//	if err != nil {
//	    return err
//	}
//	for _, s := range out.Sprites {
//	    if s.Pixmap != nil {
//	        _ = s.Pixmap.SavePNG(s.Name + ".png")
//	    }
//	}
//
// # Resolution Order
//
// Regions resolve in declaration order and may only read regions declared
// before them: fill, except, compound operands, auto-outline and auto-shadow
// referring to a later region fail with [ErrForwardReference] in every mode.
// A region named background, or a fill of "background", resolves after all
// others and takes every pixel left over. The within and adjacent-to
// constraints are checked afterwards and may refer to any region.
//
// # Diagnostics
//
// In [Lenient] mode problems are reported and replaced by fallbacks:
// unresolvable colors and unknown tokens paint magenta, out-of-canvas
// pixels are clipped, and duplicate names keep the last declaration.
// In [Strict] mode the first diagnostic fails the sprite and no pixel
// buffer is produced.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. All
// geometry is integer; a pixel (x, y) covers [x, x+1) × [y, y+1).
package pixelsrc

// Version is the current version of the library.
const Version = "0.1.0"
