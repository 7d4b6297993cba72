package pixelsrc

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/modifier"
	"github.com/gogpu/pixelsrc/internal/palette"
	"github.com/gogpu/pixelsrc/internal/pixset"
	"github.com/gogpu/pixelsrc/internal/region"
	"github.com/gogpu/pixelsrc/internal/shape"
	"github.com/gogpu/pixelsrc/tree"
)

// spriteDecl is a sprite declaration before its regions are decoded.
type spriteDecl struct {
	name    string
	size    any
	palette any
	regions any
}

// paletteDecl is a named palette declaration.
type paletteDecl struct {
	name   string
	colors any
	ramps  any
}

// syntax reports a malformed value. It returns a non-nil error only when the
// diagnostic is fatal.
func syntax(diags *diag.Collector, name, format string, args ...any) error {
	return diags.Report(diag.KindSyntax, diag.DetailNone, name, format, args...)
}

// duplicates reports every repeated key of m.
func duplicates(diags *diag.Collector, name, what string, m tree.Map) error {
	for _, k := range m.Duplicates() {
		if err := diags.Report(diag.KindDuplicate, diag.DetailNone, name,
			"%s %q declared more than once; last declaration wins", what, k); err != nil {
			return err
		}
	}
	return nil
}

// decodeSize validates a sprite's size. A sprite without a valid size cannot
// be rendered, so the failure is fatal in every mode.
func decodeSize(diags *diag.Collector, name string, v any) (image.Point, error) {
	wh, ok := tree.Ints(v)
	if !ok || len(wh) != 2 || wh[0] <= 0 || wh[1] <= 0 {
		return image.Point{}, diags.Abort(diag.KindSyntax, diag.DetailNone, name,
			"size must be two positive integers, got %v", v)
	}
	return image.Pt(wh[0], wh[1]), nil
}

// decodePalette turns a colors map (and optional ramps map) into a palette
// source.
func decodePalette(diags *diag.Collector, name string, colors, ramps any) (palette.Source, error) {
	src := palette.Source{Name: name}

	cm, ok := colors.(tree.Map)
	if !ok {
		if colors != nil {
			if err := syntax(diags, name, "colors must be an object, got %T", colors); err != nil {
				return src, err
			}
		}
		cm = nil
	}
	if err := duplicates(diags, name, "token", cm); err != nil {
		return src, err
	}
	for _, e := range cm.Unique() {
		entry, err := decodeColor(diags, e.Key, e.Value, false)
		if err != nil {
			return src, err
		}
		src.Entries = append(src.Entries, entry)
	}

	if ramps == nil {
		return src, nil
	}
	rm, ok := ramps.(tree.Map)
	if !ok {
		return src, syntax(diags, name, "ramps must be an object, got %T", ramps)
	}
	if err := duplicates(diags, name, "ramp", rm); err != nil {
		return src, err
	}
	for _, e := range rm.Unique() {
		entry, err := decodeColor(diags, e.Key, e.Value, true)
		if err != nil {
			return src, err
		}
		src.Entries = append(src.Entries, entry)
	}
	return src, nil
}

// decodeColor decodes one palette value. Strings are parsed by the resolver;
// objects are derived colors or ramps.
func decodeColor(diags *diag.Collector, token string, v any, ramp bool) (palette.Entry, error) {
	bad := palette.Entry{Name: token, Expr: palette.Literal{Src: color.Magenta.Hex()}}

	switch v := v.(type) {
	case string:
		if ramp {
			base, err := palette.ParseExpr(v)
			if err != nil {
				return bad, invalidColor(diags, token, err)
			}
			return palette.Entry{Name: token, Expr: palette.NewRamp(base)}, nil
		}
		return palette.Entry{Name: token, Raw: v}, nil

	case tree.Map:
		raw, ok := v.String("base")
		if !ok {
			return bad, invalidColor(diags, token, fmt.Errorf("missing base color"))
		}
		base, err := palette.ParseExpr(raw)
		if err != nil {
			return bad, invalidColor(diags, token, err)
		}
		if !ramp && !v.Has("steps") {
			return palette.Entry{Name: token, Expr: palette.Derived{Base: base, Shift: decodeShift(v)}}, nil
		}
		r := palette.NewRamp(base)
		if sv, ok := v.Get("steps"); ok {
			n, ok := tree.Int(sv)
			if !ok || n < 1 {
				if err := syntax(diags, token, "steps must be a positive integer, got %v", sv); err != nil {
					return bad, err
				}
			} else {
				r.Steps = n
			}
		}
		for _, k := range []string{"shadow", "shadow-shift", "shadow_shift"} {
			if m, ok := mapField(v, k); ok {
				r.Shadow = decodeShift(m)
			}
		}
		for _, k := range []string{"highlight", "highlight-shift", "highlight_shift"} {
			if m, ok := mapField(v, k); ok {
				r.Highlight = decodeShift(m)
			}
		}
		return palette.Entry{Name: token, Expr: r}, nil
	}
	return bad, invalidColor(diags, token, fmt.Errorf("unsupported value of type %T", v))
}

func invalidColor(diags *diag.Collector, token string, err error) error {
	return diags.Report(diag.KindColorResolution, diag.DetailInvalidLiteral, token, "%v", err)
}

func mapField(m tree.Map, key string) (tree.Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(tree.Map)
	return sub, ok
}

// decodeShift reads lightness/hue/saturation deltas, long or short keys.
func decodeShift(m tree.Map) color.Shift {
	num := func(keys ...string) float64 {
		for _, k := range keys {
			if v, ok := m.Get(k); ok {
				if f, ok := tree.Number(v); ok {
					return f
				}
			}
		}
		return 0
	}
	return color.Shift{
		Lightness:  num("lightness", "l"),
		Hue:        num("hue", "h"),
		Saturation: num("saturation", "s"),
	}
}

// regionDecoder decodes the regions of one sprite.
type regionDecoder struct {
	diags *diag.Collector
	// region is the top-level region being decoded, for diagnostics.
	region string
}

func decodeRegions(diags *diag.Collector, sprite string, v any) ([]region.Def, error) {
	m, ok := v.(tree.Map)
	if !ok {
		if err := syntax(diags, sprite, "regions must be an object, got %T", v); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := duplicates(diags, sprite, "region", m); err != nil {
		return nil, err
	}

	d := &regionDecoder{diags: diags}
	defs := make([]region.Def, 0, len(m))
	for _, e := range m.Unique() {
		d.region = e.Key
		obj, ok := e.Value.(tree.Map)
		if !ok {
			if err := syntax(diags, e.Key, "region must be an object, got %T", e.Value); err != nil {
				return nil, err
			}
			continue
		}
		def, err := d.def(obj, true)
		if err != nil {
			return nil, err
		}
		def.Name = e.Key
		if def.Shape == nil && !def.IsBackground() && !hasGeometry(obj) {
			if err := syntax(diags, e.Key, "region has no shape"); err != nil {
				return nil, err
			}
		}
		defs = append(defs, *def)
	}
	return defs, nil
}

func hasGeometry(obj tree.Map) bool {
	for _, k := range []string{"union", "intersect", "base", "subtract", "auto-outline", "auto-shadow"} {
		if obj.Has(k) {
			return true
		}
	}
	return false
}

// shapeKeys lists the shape fields in precedence order.
var shapeKeys = []string{"points", "line", "rect", "stroke", "ellipse", "circle", "polygon", "path", "fill"}

// def decodes one region object. Nested operands pass top=false and may
// only carry geometry and modifiers.
func (d *regionDecoder) def(obj tree.Map, top bool) (*region.Def, error) {
	if err := duplicates(d.diags, d.region, "field", obj); err != nil {
		return nil, err
	}
	obj = obj.Unique()
	def := &region.Def{}

	var shapeKey string
	for _, k := range shapeKeys {
		if !obj.Has(k) {
			continue
		}
		if shapeKey != "" {
			if err := d.bad("both %q and %q given; using %q", shapeKey, k, shapeKey); err != nil {
				return nil, err
			}
			continue
		}
		shapeKey = k
	}
	if shapeKey != "" {
		s, err := d.shape(shapeKey, obj)
		if err != nil {
			return nil, err
		}
		def.Shape = s
	}

	for _, e := range obj {
		if err := d.field(def, e, top); err != nil {
			return nil, err
		}
	}

	if def.AutoShadow != "" && !obj.Has("offset") {
		def.ShadowOffset = image.Pt(1, 1)
	}
	return def, nil
}

func (d *regionDecoder) bad(format string, args ...any) error {
	return syntax(d.diags, d.region, format, args...)
}

func (d *regionDecoder) badField(key string, v any, want string) error {
	return d.bad("field %q: got %v, want %s", key, v, want)
}

// shape decodes the shape field key. An invalid value yields a nil shape
// and a diagnostic.
func (d *regionDecoder) shape(key string, obj tree.Map) (shape.Shape, error) {
	v, _ := obj.Get(key)

	intField := func(k string) (int, error) {
		fv, ok := obj.Get(k)
		if !ok {
			return 0, nil
		}
		n, ok := tree.Int(fv)
		if !ok || n < 0 {
			return 0, d.badField(k, fv, "a non-negative integer")
		}
		return n, nil
	}
	round, err := intField("round")
	if err != nil {
		return nil, err
	}
	// field validates thickness, which auto-outline also reads.
	thickness := 0
	if tv, ok := obj.Get("thickness"); ok {
		if n, ok := tree.Int(tv); ok && n > 0 {
			thickness = n
		}
	}

	switch key {
	case "points", "line", "polygon":
		pts, ok := points(v)
		if !ok {
			return nil, d.badField(key, v, "an array of [x, y] pairs")
		}
		switch key {
		case "points":
			return shape.Points{Pts: pts}, nil
		case "line":
			return shape.Line{Pts: pts, Thickness: thickness}, nil
		}
		return shape.Polygon{Pts: pts}, nil

	case "rect", "stroke":
		xs, ok := tree.Ints(v)
		if !ok || len(xs) != 4 {
			return nil, d.badField(key, v, "[x, y, w, h]")
		}
		if key == "rect" {
			return shape.Rect{X: xs[0], Y: xs[1], W: xs[2], H: xs[3], Round: round}, nil
		}
		return shape.Stroke{X: xs[0], Y: xs[1], W: xs[2], H: xs[3], Thickness: thickness, Round: round}, nil

	case "ellipse":
		xs, ok := tree.Ints(v)
		if !ok || len(xs) != 4 {
			return nil, d.badField(key, v, "[cx, cy, rx, ry]")
		}
		return shape.Ellipse{CX: xs[0], CY: xs[1], RX: xs[2], RY: xs[3]}, nil

	case "circle":
		xs, ok := tree.Ints(v)
		if !ok || len(xs) != 3 {
			return nil, d.badField(key, v, "[cx, cy, r]")
		}
		return shape.Circle{CX: xs[0], CY: xs[1], R: xs[2]}, nil

	case "path":
		s, ok := v.(string)
		if !ok {
			return nil, d.badField(key, v, "a path string")
		}
		return shape.Path{D: s}, nil

	case "fill":
		return d.fill(v)
	}
	return nil, nil
}

// fill decodes "inside(X)", "background" or {inside: X, seed: [x, y]}.
func (d *regionDecoder) fill(v any) (shape.Shape, error) {
	switch v := v.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "background" {
			return shape.Background{}, nil
		}
		if inner, ok := strings.CutPrefix(s, "inside("); ok {
			if name, ok := strings.CutSuffix(inner, ")"); ok && strings.TrimSpace(name) != "" {
				return shape.Fill{Inside: strings.TrimSpace(name)}, nil
			}
		}
	case tree.Map:
		name, ok := v.String("inside")
		if !ok || name == "" {
			break
		}
		f := shape.Fill{Inside: name}
		if sv, ok := v.Get("seed"); ok {
			p, ok := point(sv)
			if !ok {
				return nil, d.badField("fill.seed", sv, "[x, y]")
			}
			f.Seed = &p
		}
		return f, nil
	}
	return nil, d.badField("fill", v, `"inside(name)", "background" or {inside, seed}`)
}

// field decodes one non-shape field into def.
func (d *regionDecoder) field(def *region.Def, e tree.Entry, top bool) error {
	key, v := e.Key, e.Value
	switch key {
	case "points", "line", "rect", "stroke", "ellipse", "circle", "polygon", "path", "fill", "round":

	case "thickness":
		n, ok := tree.Int(v)
		if !ok || n < 0 {
			return d.badField(key, v, "a non-negative integer")
		}
		def.Thickness = n

	case "union", "intersect", "subtract":
		ops, err := d.operands(key, v)
		if err != nil {
			return err
		}
		switch key {
		case "union":
			def.Union = ops
		case "intersect":
			def.Intersect = ops
		default:
			def.Subtract = ops
		}

	case "base":
		m, ok := v.(tree.Map)
		if !ok {
			return d.badField(key, v, "a shape object")
		}
		base, err := d.def(m, false)
		if err != nil {
			return err
		}
		def.Base = base

	case "except":
		names, ok := stringList(v)
		if !ok {
			return d.badField(key, v, "a region name or an array of names")
		}
		def.Except = names

	case "auto-outline", "auto-shadow", "within", "adjacent-to":
		s, ok := v.(string)
		if !ok || s == "" {
			return d.badField(key, v, "a region name")
		}
		switch key {
		case "auto-outline":
			def.AutoOutline = s
		case "auto-shadow":
			def.AutoShadow = s
		case "within":
			def.Within = s
		default:
			def.AdjacentTo = s
		}

	case "offset":
		p, ok := point(v)
		if !ok {
			return d.badField(key, v, "[dx, dy]")
		}
		def.ShadowOffset = image.Point(p)

	case "repeat":
		r := d.repeat(def)
		if n, ok := tree.Int(v); ok && n > 0 {
			r.CountX, r.CountY = n, 1
			return nil
		}
		xs, ok := tree.Ints(v)
		if !ok || len(xs) != 2 || xs[0] < 1 || xs[1] < 1 {
			return d.badField(key, v, "[count-x, count-y] of positive integers")
		}
		r.CountX, r.CountY = xs[0], xs[1]

	case "spacing":
		r := d.repeat(def)
		if n, ok := tree.Int(v); ok {
			r.SpacingX, r.SpacingY = n, n
			return nil
		}
		xs, ok := tree.Ints(v)
		if !ok || len(xs) != 2 {
			return d.badField(key, v, "[sx, sy]")
		}
		r.SpacingX, r.SpacingY = xs[0], xs[1]

	case "offset-alternate":
		b, ok := v.(bool)
		if !ok {
			return d.badField(key, v, "a boolean")
		}
		d.repeat(def).OffsetAlternate = b

	case "transform":
		s, ok := v.(string)
		if !ok {
			return d.badField(key, v, "a transform string")
		}
		t, err := modifier.ParseTransform(s)
		if err != nil {
			return d.bad("%v", err)
		}
		def.Modifiers.Transform = t

	case "symmetric":
		s, ok := v.(string)
		if !ok {
			n, isInt := tree.Int(v)
			if !isInt {
				return d.badField(key, v, `"x", "y", "xy" or a coordinate`)
			}
			s = strconv.Itoa(n)
		}
		m, err := modifier.ParseSymmetry(s)
		if err != nil {
			return d.bad("%v", err)
		}
		def.Modifiers.Symmetric = &m

	case "jitter":
		m, ok := v.(tree.Map)
		if !ok {
			return d.badField(key, v, "{x: [min, max], y: [min, max]}")
		}
		var j modifier.Jitter
		for _, axis := range []string{"x", "y"} {
			av, ok := m.Get(axis)
			if !ok {
				continue
			}
			r, ok := rangeOf(av)
			if !ok {
				return d.badField("jitter."+axis, av, "[min, max] with min <= max")
			}
			if axis == "x" {
				j.X = r
			} else {
				j.Y = r
			}
		}
		def.Modifiers.Jitter = &j

	case "seed":
		n, ok := tree.Int(v)
		if !ok {
			return d.badField(key, v, "an integer")
		}
		seed := int64(n)
		def.Seed = &seed

	case "x", "x-range", "y", "y-range":
		r, ok := rangeOf(v)
		if !ok {
			return d.badField(key, v, "[min, max] with min <= max")
		}
		if key[0] == 'x' {
			def.Modifiers.XRange = &r
		} else {
			def.Modifiers.YRange = &r
		}

	case "z":
		n, ok := tree.Int(v)
		if !ok {
			return d.badField(key, v, "an integer")
		}
		if top {
			def.Z = &n
		}

	case "role":
		s, _ := v.(string)
		role := region.Role(s)
		if s == "" || !role.Valid() {
			return d.badField(key, v, "one of boundary, anchor, fill, shadow, highlight")
		}
		def.Role = role

	default:
		return d.bad("unknown field %q", key)
	}
	return nil
}

func (d *regionDecoder) repeat(def *region.Def) *modifier.Repeat {
	if def.Modifiers.Repeat == nil {
		def.Modifiers.Repeat = &modifier.Repeat{CountX: 1, CountY: 1}
	}
	return def.Modifiers.Repeat
}

// operands decodes a compound operand list: region names or shape objects.
func (d *regionDecoder) operands(key string, v any) ([]region.Operand, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, d.badField(key, v, "an array")
	}
	ops := make([]region.Operand, 0, len(arr))
	for _, item := range arr {
		switch item := item.(type) {
		case string:
			ops = append(ops, region.Operand{Ref: item})
		case tree.Map:
			def, err := d.def(item, false)
			if err != nil {
				return nil, err
			}
			ops = append(ops, region.Operand{Def: def})
		default:
			if err := d.badField(key, item, "a region name or shape object"); err != nil {
				return nil, err
			}
		}
	}
	return ops, nil
}

func point(v any) (pixset.Point, bool) {
	xs, ok := tree.Ints(v)
	if !ok || len(xs) != 2 {
		return pixset.Point{}, false
	}
	return pixset.Pt(xs[0], xs[1]), true
}

func points(v any) ([]pixset.Point, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	pts := make([]pixset.Point, len(arr))
	for i, item := range arr {
		if pts[i], ok = point(item); !ok {
			return nil, false
		}
	}
	return pts, true
}

func rangeOf(v any) (modifier.Range, bool) {
	xs, ok := tree.Ints(v)
	if !ok || len(xs) != 2 || xs[0] > xs[1] {
		return modifier.Range{}, false
	}
	return modifier.Range{Min: xs[0], Max: xs[1]}, true
}

// stringList accepts a string or an array of strings.
func stringList(v any) ([]string, bool) {
	switch v := v.(type) {
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
