package pixelsrc

import (
	"context"
	"image"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/palette"
	"github.com/gogpu/pixelsrc/internal/parallel"
	"github.com/gogpu/pixelsrc/internal/raster"
	"github.com/gogpu/pixelsrc/internal/region"
	"github.com/gogpu/pixelsrc/tree"
)

// Compiler compiles batches of declarations. Sprites of a batch compile
// concurrently; each owns its diagnostics and pixel buffer, and resolved
// palettes are shared read-only.
//
// A Compiler is safe for concurrent use. Close releases its workers.
type Compiler struct {
	opts   options
	parser *color.Parser
	pool   *parallel.Pool
}

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compiler{
		opts: o,
		pool: parallel.NewPool(o.workers),
	}
	if o.cacheSize > 0 {
		c.parser = color.NewParser(o.cacheSize)
	}
	return c
}

// Close stops the worker goroutines. Compile fails after Close.
func (c *Compiler) Close() {
	c.pool.Close()
}

// Mode returns the compiler's diagnostics mode.
func (c *Compiler) Mode() Mode {
	return c.opts.mode
}

// Result is one compiled sprite.
type Result struct {
	Name string
	Size image.Point
	// Palette is the sprite's resolved palette, nil when it has none.
	Palette *Palette
	// Pixmap is nil when the sprite failed.
	Pixmap *Pixmap
	// Regions are the resolved regions in declaration order.
	Regions []Region
	// Diagnostics include those of a shared palette the sprite uses.
	Diagnostics []Diagnostic
}

// Failed reports whether the sprite produced no pixel buffer.
func (r *Result) Failed() bool {
	return r.Pixmap == nil
}

// Err combines the error-severity diagnostics of the sprite, or returns nil.
func (r *Result) Err() error {
	return combine(r.Diagnostics)
}

// Region returns a resolved region by name.
func (r *Result) Region(name string) (Region, bool) {
	for _, reg := range r.Regions {
		if reg.Name == name {
			return reg, true
		}
	}
	return Region{}, false
}

// Output is the result of compiling a batch.
type Output struct {
	// Palettes are the named palettes in declaration order.
	Palettes []*Palette
	// Sprites are the compiled sprites in declaration order.
	Sprites []*Result
	// Diagnostics are file-level: duplicate names and malformed
	// declarations.
	Diagnostics []Diagnostic
}

// Sprite returns a compiled sprite by name.
func (o *Output) Sprite(name string) (*Result, bool) {
	for _, s := range o.Sprites {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Err combines the file-level errors and those of every sprite.
func (o *Output) Err() error {
	err := combine(o.Diagnostics)
	for _, s := range o.Sprites {
		err = multierr.Append(err, s.Err())
	}
	return err
}

func combine(ds []Diagnostic) error {
	var err error
	for _, d := range ds {
		if d.Severity == diag.SeverityError {
			err = multierr.Append(err, &diag.Error{Diagnostic: d})
		}
	}
	return err
}

// resolvedPalette is a palette resolved once per batch.
type resolvedPalette struct {
	pal   *palette.Palette
	diags []diag.Diagnostic
	err   error
}

// CompileReader decodes JSON declarations from r and compiles them.
func (c *Compiler) CompileReader(ctx context.Context, r io.Reader) (*Output, error) {
	decls, err := tree.DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, decls)
}

// Compile compiles every sprite declared in decls. Sprite failures are
// reported in the Output, not as an error; the error is non-nil when ctx is
// cancelled, the Compiler is closed, or a file-level diagnostic is fatal.
func (c *Compiler) Compile(ctx context.Context, decls []tree.Map) (*Output, error) {
	logger := Logger()
	file := diag.NewCollector(c.opts.mode, logger)
	out := &Output{}

	pals, sprites, err := c.collect(file, decls)
	if err != nil {
		out.Diagnostics = file.Diagnostics()
		return out, err
	}

	// Named palettes, and built-ins that sprites refer to, resolve once.
	resolved := make(map[string]*resolvedPalette, len(pals))
	order := make([]string, 0, len(pals))
	sources := make([]palette.Source, 0, len(pals))
	jobs := make([]*resolvedPalette, 0, len(pals))
	for _, pd := range pals {
		pc := diag.NewCollector(c.opts.mode, logger.With("palette", pd.name))
		src, err := decodePalette(pc, pd.name, pd.colors, pd.ramps)
		rp := &resolvedPalette{err: err, diags: pc.Diagnostics()}
		resolved[pd.name] = rp
		order = append(order, pd.name)
		sources = append(sources, src)
		jobs = append(jobs, rp)
	}
	if c.opts.builtins {
		for _, sd := range sprites {
			ref, ok := sd.palette.(string)
			if !ok || resolved[ref] != nil {
				continue
			}
			if src, ok := palette.Builtin(ref); ok {
				rp := &resolvedPalette{}
				resolved[ref] = rp
				sources = append(sources, src)
				jobs = append(jobs, rp)
			}
		}
	}

	err = c.pool.Run(ctx, len(jobs), func(i int) {
		rp := jobs[i]
		if rp.err != nil {
			return
		}
		pc := diag.NewCollector(c.opts.mode, logger.With("palette", sources[i].Name))
		pc.Merge(rp.diags)
		rp.pal, rp.err = palette.Resolve(sources[i], pc, palette.Options{Parser: c.parser, Logger: logger})
		rp.diags = pc.Diagnostics()
	})
	if err != nil {
		return nil, err
	}
	for _, name := range order {
		if rp := resolved[name]; rp.pal != nil {
			out.Palettes = append(out.Palettes, rp.pal)
		}
	}

	out.Sprites = make([]*Result, len(sprites))
	err = c.pool.Run(ctx, len(sprites), func(i int) {
		out.Sprites[i] = c.compileSprite(sprites[i], resolved)
	})
	if err != nil {
		return nil, err
	}
	out.Diagnostics = file.Diagnostics()

	failed := 0
	for _, s := range out.Sprites {
		if s.Failed() {
			failed++
		}
	}
	if c.parser != nil {
		hits, misses := c.parser.Stats()
		logger.Debug("pixelsrc: literal cache", "hits", hits, "misses", misses)
	}
	logger.Info("pixelsrc: batch compiled",
		"sprites", len(sprites),
		"failed", failed,
		"palettes", len(jobs),
		"workers", c.pool.Workers())
	return out, nil
}

// collect splits decls into palettes and sprites. A repeated name keeps the
// position of its first declaration and the body of its last.
func (c *Compiler) collect(file *diag.Collector, decls []tree.Map) ([]paletteDecl, []spriteDecl, error) {
	var (
		pals      []paletteDecl
		sprites   []spriteDecl
		palIdx    = make(map[string]int)
		spriteIdx = make(map[string]int)
	)
	for i, m := range decls {
		typ, _ := m.String("type")
		if typ != "palette" && typ != "sprite" {
			Logger().Debug("pixelsrc: declaration ignored", "index", i, "type", typ)
			continue
		}
		name, ok := m.String("name")
		if !ok || strings.TrimSpace(name) == "" {
			if err := file.Report(diag.KindSyntax, diag.DetailNone, "",
				"%s declaration %d has no name", typ, i); err != nil {
				return nil, nil, err
			}
			continue
		}

		idx := palIdx
		if typ == "sprite" {
			idx = spriteIdx
		}
		j, dup := idx[name]
		if dup {
			if err := file.Report(diag.KindDuplicate, diag.DetailNone, name,
				"%s declared more than once; last declaration wins", typ); err != nil {
				return nil, nil, err
			}
		}

		if typ == "palette" {
			colors, _ := m.Get("colors")
			ramps, _ := m.Get("ramps")
			pd := paletteDecl{name: name, colors: colors, ramps: ramps}
			if dup {
				pals[j] = pd
				continue
			}
			idx[name] = len(pals)
			pals = append(pals, pd)
			continue
		}

		size, _ := m.Get("size")
		pal, _ := m.Get("palette")
		regions, _ := m.Get("regions")
		sd := spriteDecl{name: name, size: size, palette: pal, regions: regions}
		if dup {
			sprites[j] = sd
			continue
		}
		idx[name] = len(sprites)
		sprites = append(sprites, sd)
	}
	return pals, sprites, nil
}

// compileSprite runs one sprite through palette lookup, region resolution
// and compositing. It never returns nil.
func (c *Compiler) compileSprite(sd spriteDecl, pals map[string]*resolvedPalette) *Result {
	logger := Logger().With("sprite", sd.name)
	diags := diag.NewCollector(c.opts.mode, logger)
	res := &Result{Name: sd.name}
	defer func() { res.Diagnostics = diags.Diagnostics() }()

	size, err := decodeSize(diags, sd.name, sd.size)
	if err != nil {
		return res
	}
	res.Size = size

	pal, err := c.spritePalette(diags, sd, pals)
	if err != nil {
		return res
	}
	res.Palette = pal

	defs, err := decodeRegions(diags, sd.name, sd.regions)
	if err != nil {
		return res
	}

	resolved, err := region.Resolve(&region.Sprite{Name: sd.name, Size: size, Regions: defs}, diags, logger)
	if err != nil {
		return res
	}

	layers := make([]raster.Layer, len(resolved.Regions))
	for i, r := range resolved.Regions {
		layers[i] = raster.Layer{Name: r.Name, Token: r.Token, Pixels: r.Pixels, Z: r.Z, Index: r.Index}
	}
	pm, err := raster.Composite(size, layers, pal.Lookup, diags)
	if err != nil {
		return res
	}

	res.Regions = resolved.Regions
	res.Pixmap = pm
	logger.Debug("pixelsrc: sprite compiled", "regions", len(defs), "diagnostics", len(diags.Diagnostics()))
	return res
}

// spritePalette finds or resolves the palette of a sprite: a named or
// built-in palette shared by the batch, or an inline colors map.
func (c *Compiler) spritePalette(diags *diag.Collector, sd spriteDecl, pals map[string]*resolvedPalette) (*palette.Palette, error) {
	switch ref := sd.palette.(type) {
	case nil:
		return nil, diags.Report(diag.KindSyntax, diag.DetailNone, sd.name, "sprite has no palette")

	case string:
		rp, ok := pals[ref]
		if !ok {
			return nil, diags.Report(diag.KindSyntax, diag.DetailNone, sd.name, "unknown palette %q", ref)
		}
		diags.Merge(rp.diags)
		return rp.pal, rp.err

	case tree.Map:
		colors, ramps := any(ref), any(nil)
		if inner, ok := ref.Get("colors"); ok {
			colors = inner
			ramps, _ = ref.Get("ramps")
		}
		src, err := decodePalette(diags, sd.name, colors, ramps)
		if err != nil {
			return nil, err
		}
		return palette.Resolve(src, diags, palette.Options{Parser: c.parser, Logger: Logger()})
	}
	return nil, diags.Report(diag.KindSyntax, diag.DetailNone, sd.name,
		"palette must be a name or an object, got %T", sd.palette)
}
