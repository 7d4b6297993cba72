package region

import (
	"errors"
	"log/slog"

	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/modifier"
	"github.com/gogpu/pixelsrc/internal/pixset"
	"github.com/gogpu/pixelsrc/internal/shape"
)

// Resolved is a region after pass 1.
type Resolved struct {
	Name   string
	Token  string
	Pixels pixset.Set
	Z      int
	// Index is the declaration index.
	Index int
	Role  Role
}

// Result holds the resolved regions in declaration order.
type Result struct {
	Regions []Resolved
	index   map[string]int
}

// Get returns a resolved region by name.
func (r *Result) Get(name string) (Resolved, bool) {
	i, ok := r.index[name]
	if !ok {
		return Resolved{}, false
	}
	return r.Regions[i], true
}

type resolver struct {
	sprite   *Sprite
	diags    *diag.Collector
	logger   *slog.Logger
	resolved map[string]pixset.Set
	// current is the top-level region being resolved, for diagnostics.
	current string
}

// Resolve runs both passes over sp. It fails on a forward reference, or on
// any diagnostic when diags is strict.
func Resolve(sp *Sprite, diags *diag.Collector, logger *slog.Logger) (*Result, error) {
	r := &resolver{
		sprite:   sp,
		diags:    diags,
		logger:   logger,
		resolved: make(map[string]pixset.Set, len(sp.Regions)),
	}
	res := &Result{
		Regions: make([]Resolved, len(sp.Regions)),
		index:   make(map[string]int, len(sp.Regions)),
	}

	// Pass 1.
	var deferred []int
	claimed := pixset.NewBuilder(sp.Size.X * sp.Size.Y)
	for i := range sp.Regions {
		def := &sp.Regions[i]
		if def.IsBackground() {
			deferred = append(deferred, i)
			continue
		}
		px, err := r.top(def, i, pixset.Set{})
		if err != nil {
			return nil, err
		}
		claimed.AddSet(px)
		r.store(res, def, i, px)
	}
	taken := claimed.Set()
	for _, i := range deferred {
		def := &sp.Regions[i]
		px, err := r.top(def, i, taken)
		if err != nil {
			return nil, err
		}
		taken = pixset.Union(taken, px)
		r.store(res, def, i, px)
	}

	// Pass 2.
	for i := range sp.Regions {
		if err := r.validate(&sp.Regions[i], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *resolver) store(res *Result, def *Def, i int, px pixset.Set) {
	z := i
	if def.Z != nil {
		z = *def.Z
	}
	r.resolved[def.Name] = px
	res.index[def.Name] = i
	res.Regions[i] = Resolved{
		Name:   def.Name,
		Token:  def.TokenName(),
		Pixels: px,
		Z:      z,
		Index:  i,
		Role:   def.Role,
	}
	if r.logger != nil {
		r.logger.Debug("region: resolved", "sprite", r.sprite.Name, "region", def.Name, "pixels", px.Len(), "z", z)
	}
}

// top resolves a declared region. claimed is only read by background
// regions.
func (r *resolver) top(def *Def, index int, claimed pixset.Set) (pixset.Set, error) {
	r.current = def.Name
	if def.IsBackground() && def.Shape == nil {
		def = withShape(def, shape.Background{})
	}
	return r.def(def, index, claimed)
}

func withShape(d *Def, s shape.Shape) *Def {
	c := *d
	c.Shape = s
	return &c
}

// lookup finds a resolved region or reports a forward reference.
func (r *resolver) lookup(name, use string) (pixset.Set, error) {
	if s, ok := r.resolved[name]; ok {
		return s, nil
	}
	return pixset.Set{}, r.diags.Report(diag.KindForwardReference, diag.DetailNone, r.current,
		"%s references %q, which is not resolved yet", use, name)
}

// def resolves one definition: primitive shape, compound operations, then
// the modifier pipeline.
func (r *resolver) def(d *Def, index int, claimed pixset.Set) (pixset.Set, error) {
	var (
		acc     pixset.Set
		present bool
	)

	if d.Shape != nil {
		s, err := r.primitive(d, claimed)
		if err != nil {
			return pixset.Set{}, err
		}
		acc, present = s, true
	}

	if len(d.Union) > 0 {
		ops, err := r.operands(d.Union, index, "union")
		if err != nil {
			return pixset.Set{}, err
		}
		if present {
			ops = append(ops, acc)
		}
		acc, present = pixset.Union(ops...), true
	}

	if len(d.Intersect) > 0 {
		ops, err := r.operands(d.Intersect, index, "intersect")
		if err != nil {
			return pixset.Set{}, err
		}
		if present {
			ops = append(ops, acc)
		}
		acc, present = pixset.Intersect(ops...), true
	}

	if d.Base != nil || len(d.Subtract) > 0 {
		if d.Base != nil {
			base, err := r.def(d.Base, index, claimed)
			if err != nil {
				return pixset.Set{}, err
			}
			acc, present = base, true
		}
		ops, err := r.operands(d.Subtract, index, "subtract")
		if err != nil {
			return pixset.Set{}, err
		}
		acc = acc.Subtract(ops...)
	}

	if len(d.Except) > 0 {
		ex, err := r.refs(d.Except, "except")
		if err != nil {
			return pixset.Set{}, err
		}
		acc = acc.Subtract(ex...)
	}

	if d.AutoOutline != "" {
		target, err := r.lookup(d.AutoOutline, "auto-outline")
		if err != nil {
			return pixset.Set{}, err
		}
		acc = pixset.Union(acc, modifier.Outline(target, d.Thickness))
	}

	if d.AutoShadow != "" {
		target, err := r.lookup(d.AutoShadow, "auto-shadow")
		if err != nil {
			return pixset.Set{}, err
		}
		acc = pixset.Union(acc, modifier.Shadow(target, d.ShadowOffset.X, d.ShadowOffset.Y))
	}

	p := d.Modifiers
	p.Seed = modifier.DeriveSeed(r.sprite.Name, d.Name, index, d.Seed)
	return p.Apply(acc, r.sprite.Size), nil
}

// primitive rasterizes d.Shape within the canvas, reporting a shape that
// reaches outside it.
func (r *resolver) primitive(d *Def, claimed pixset.Set) (pixset.Set, error) {
	env := shape.Env{
		Size:    r.sprite.Size,
		Claimed: claimed,
		Lookup: func(name string) (pixset.Set, bool) {
			s, ok := r.resolved[name]
			return s, ok
		},
	}
	if f, ok := d.Shape.(shape.Fill); ok {
		if _, err := r.lookup(f.Inside, "fill"); err != nil {
			return pixset.Set{}, err
		}
		if len(d.Except) > 0 {
			walls, err := r.refs(d.Except, "except")
			if err != nil {
				return pixset.Set{}, err
			}
			env.Obstacles = pixset.Union(walls...)
		}
	}

	clipped, outside, err := shape.RasterizeCanvas(d.Shape, env)
	if err != nil {
		var uerr *shape.UnresolvedError
		if errors.As(err, &uerr) {
			_, ferr := r.lookup(uerr.Name, "fill")
			return pixset.Set{}, ferr
		}
		if ferr := r.diags.Report(diag.KindSyntax, diag.DetailNone, r.current, "%v", err); ferr != nil {
			return pixset.Set{}, ferr
		}
		return pixset.Set{}, nil
	}

	if outside {
		if ferr := r.diags.Report(diag.KindBounds, diag.DetailNone, r.current,
			"shape extends outside the %dx%d canvas; clipped", r.sprite.Size.X, r.sprite.Size.Y); ferr != nil {
			return pixset.Set{}, ferr
		}
	}
	return clipped, nil
}

func (r *resolver) operands(ops []Operand, index int, use string) ([]pixset.Set, error) {
	out := make([]pixset.Set, 0, len(ops))
	for _, op := range ops {
		if op.Def == nil {
			s, err := r.lookup(op.Ref, use)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			continue
		}
		s, err := r.def(op.Def, index, pixset.Set{})
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *resolver) refs(names []string, use string) ([]pixset.Set, error) {
	out := make([]pixset.Set, 0, len(names))
	for _, n := range names {
		s, err := r.lookup(n, use)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// validate checks the pass-2 constraints of d against the full result.
func (r *resolver) validate(d *Def, res *Result) error {
	self, _ := res.Get(d.Name)

	if d.Within != "" {
		target, ok := res.Get(d.Within)
		switch {
		case !ok:
			if err := r.diags.Report(diag.KindValidation, diag.DetailWithin, d.Name,
				"within target %q does not exist", d.Within); err != nil {
				return err
			}
		case !pixset.Subset(self.Pixels, target.Pixels):
			outside := self.Pixels.Subtract(target.Pixels).Len()
			if err := r.diags.Report(diag.KindValidation, diag.DetailWithin, d.Name,
				"%d pixels lie outside %q", outside, d.Within); err != nil {
				return err
			}
		}
	}

	if d.AdjacentTo != "" {
		target, ok := res.Get(d.AdjacentTo)
		switch {
		case !ok:
			if err := r.diags.Report(diag.KindValidation, diag.DetailAdjacentTo, d.Name,
				"adjacent-to target %q does not exist", d.AdjacentTo); err != nil {
				return err
			}
		case !pixset.Touches(self.Pixels, target.Pixels):
			if err := r.diags.Report(diag.KindValidation, diag.DetailAdjacentTo, d.Name,
				"no pixel is 4-adjacent to %q", d.AdjacentTo); err != nil {
				return err
			}
		}
	}
	return nil
}
