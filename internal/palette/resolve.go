package palette

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
)

// MaxDepth bounds nested var() evaluation.
const MaxDepth = 100

// Source is an unresolved palette.
type Source struct {
	Name    string
	Entries []Entry
}

// Options configures Resolve.
type Options struct {
	// Parser memoizes literal parsing. Nil parses without a cache.
	Parser *color.Parser
	// Logger receives per-token debug records. Nil discards them.
	Logger *slog.Logger
}

// failure is a color resolution problem carrying its diagnostic detail.
type failure struct {
	detail diag.Detail
	msg    string
}

func (f *failure) Error() string { return f.msg }

func fail(detail diag.Detail, format string, args ...any) error {
	return &failure{detail: detail, msg: fmt.Sprintf(format, args...)}
}

type resolver struct {
	table  *Table
	parser *color.Parser
	// stack holds the custom properties being evaluated, outermost first.
	stack []string
}

// Resolve evaluates every token of src. The returned error is non-nil only
// when diags reports a fatal diagnostic, in which case the palette is nil.
func Resolve(src Source, diags *diag.Collector, opts Options) (*Palette, error) {
	r := &resolver{
		table:  BuildTable(src.Entries),
		parser: opts.Parser,
	}
	p := newPalette(src.Name)

	for _, tok := range r.table.Tokens() {
		expr, err := tok.Parse()
		if err == nil {
			if ramp, ok := expr.(Ramp); ok {
				if err := r.materialize(p, tok.Name, ramp, diags, opts.Logger); err != nil {
					return nil, err
				}
				continue
			}
		}

		var c color.RGBA8
		if err != nil {
			err = fail(diag.DetailInvalidLiteral, "%v", err)
		} else {
			c, err = r.eval(expr, 0)
		}
		if err != nil {
			if ferr := report(diags, tok.Name, err); ferr != nil {
				return nil, ferr
			}
			c = color.Magenta
		}
		p.add(tok.Name, c)
		if opts.Logger != nil {
			opts.Logger.Debug("palette: token resolved", "palette", src.Name, "token", tok.Name, "color", c.Hex())
		}
	}
	return p, nil
}

func report(diags *diag.Collector, name string, err error) error {
	var f *failure
	if !errors.As(err, &f) {
		f = &failure{detail: diag.DetailInvalidLiteral, msg: err.Error()}
	}
	return diags.Report(diag.KindColorResolution, f.detail, name, "%s", f.msg)
}

// materialize adds the tokens of a ramp, darkest first:
// name_k .. name_1, name, name+1 .. name+k.
func (r *resolver) materialize(p *Palette, name string, ramp Ramp, diags *diag.Collector, logger *slog.Logger) error {
	steps := ramp.Steps
	if steps < 1 {
		steps = DefaultSteps
	}
	k := (steps - 1) / 2

	base, err := r.eval(ramp.Base, 0)
	if err != nil {
		if ferr := report(diags, name, err); ferr != nil {
			return ferr
		}
	}

	for i := k; i >= 1; i-- {
		c := color.Magenta
		if err == nil {
			c = base.Shifted(ramp.Shadow.Scale(float64(i)))
		}
		p.add(rampToken(name, fmt.Sprintf("_%d", i)), c)
	}
	if err != nil {
		base = color.Magenta
	}
	p.add(rampToken(name, ""), base)
	for i := 1; i <= k; i++ {
		c := color.Magenta
		if err == nil {
			c = base.Shifted(ramp.Highlight.Scale(float64(i)))
		}
		p.add(rampToken(name, fmt.Sprintf("+%d", i)), c)
	}

	if logger != nil {
		logger.Debug("palette: ramp materialized", "palette", p.Name, "ramp", name, "steps", 2*k+1)
	}
	return nil
}

// rampToken builds "{name<suffix>}" from a braced or bare ramp name.
func rampToken(name, suffix string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
	return "{" + inner + suffix + "}"
}

func (r *resolver) eval(e Expr, depth int) (color.RGBA8, error) {
	if depth > MaxDepth {
		return color.RGBA8{}, fail(diag.DetailDepthExceeded, "variable resolution exceeded depth %d", MaxDepth)
	}

	switch e := e.(type) {
	case Literal:
		c, err := r.parser.Parse(e.Src)
		if err != nil {
			return color.RGBA8{}, fail(diag.DetailInvalidLiteral, "%v", err)
		}
		return c, nil

	case VarRef:
		return r.evalVar(e, depth)

	case ColorMix:
		return r.evalMix(e, depth)

	case Derived:
		base, err := r.eval(e.Base, depth+1)
		if err != nil {
			return color.RGBA8{}, err
		}
		return base.Shifted(e.Shift), nil

	case Ramp:
		// A ramp used as a value stands for its base color.
		return r.eval(e.Base, depth+1)
	}
	return color.RGBA8{}, fail(diag.DetailInvalidLiteral, "empty color expression")
}

func (r *resolver) evalVar(ref VarRef, depth int) (color.RGBA8, error) {
	name := NormalizeName(ref.Name)
	if i := slices.Index(r.stack, name); i >= 0 {
		chain := append(slices.Clone(r.stack[i:]), name)
		return color.RGBA8{}, fail(diag.DetailCircularReference, "circular reference: %s", strings.Join(chain, " -> "))
	}

	entry, ok := r.table.Var(name)
	if !ok {
		if ref.Fallback == nil {
			return color.RGBA8{}, fail(diag.DetailUndefinedVariable, "undefined variable %s", name)
		}
		return r.eval(ref.Fallback, depth+1)
	}

	expr, err := entry.Parse()
	if err != nil {
		return color.RGBA8{}, fail(diag.DetailInvalidLiteral, "%s: %v", name, err)
	}

	r.stack = append(r.stack, name)
	c, err := r.eval(expr, depth+1)
	r.stack = r.stack[:len(r.stack)-1]
	return c, err
}

func (r *resolver) evalMix(m ColorMix, depth int) (color.RGBA8, error) {
	a, err := r.eval(m.A.Expr, depth+1)
	if err != nil {
		return color.RGBA8{}, err
	}
	b, err := r.eval(m.B.Expr, depth+1)
	if err != nil {
		return color.RGBA8{}, err
	}

	t, alpha, err := mixWeights(m.A, m.B)
	if err != nil {
		return color.RGBA8{}, err
	}
	c := color.Mix(a, b, m.Space, t)
	if alpha < 1 {
		c.A = uint8(math.Round(float64(c.A) * alpha))
	}
	return c, nil
}

// mixWeights normalizes color-mix() percentages. It returns the weight of
// the second operand and the alpha multiplier for sums under 100%.
func mixWeights(a, b MixOperand) (t, alpha float64, err error) {
	p1, p2 := a.Percent, b.Percent
	switch {
	case !a.HasPercent && !b.HasPercent:
		p1, p2 = 50, 50
	case !a.HasPercent:
		p1 = 100 - p2
	case !b.HasPercent:
		p2 = 100 - p1
	}
	sum := p1 + p2
	if sum <= 0 {
		return 0, 0, fail(diag.DetailInvalidLiteral, "color-mix percentages sum to zero")
	}
	alpha = 1.0
	if sum < 100 {
		alpha = sum / 100
	}
	return p2 / sum, alpha, nil
}
