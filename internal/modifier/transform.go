package modifier

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// ErrTransform is wrapped by transform syntax errors.
var ErrTransform = errors.New("modifier: invalid transform")

// OpKind is a transform operation.
type OpKind uint8

const (
	OpTranslate OpKind = iota
	OpFlipX
	OpFlipY
	// OpAffine is a rotation, scale or skew about the centroid.
	OpAffine
)

// Op is one parsed transform function.
type Op struct {
	Kind   OpKind
	DX, DY int
	// M is the linear part for OpAffine; M[2] and M[5] are zero.
	M f64.Aff3
}

// Transform is a sequence of operations applied left to right.
type Transform []Op

// ParseTransform parses a CSS-like transform list, for example
// "translate(2, 1) rotate(90deg) scale(2) flip-x". Supported functions are
// translate, translatex, translatey, rotate, scale, scalex, scaley, skew,
// skewx, skewy, flip, flipx and flipy; the bare words flip-x and flip-y
// are accepted too.
func ParseTransform(s string) (Transform, error) {
	var t Transform
	rest := strings.TrimSpace(s)
	for rest != "" {
		name, args, tail, err := nextFunc(rest)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrTransform, s, err)
		}
		op, err := parseOp(strings.ToLower(name), args)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s: %v", ErrTransform, s, name, err)
		}
		t = append(t, op)
		rest = strings.TrimSpace(tail)
	}
	return t, nil
}

// nextFunc splits off the first "name(args)" or bare word of s.
func nextFunc(s string) (name, args, tail string, err error) {
	end := strings.IndexAny(s, "( \t")
	if end < 0 {
		return s, "", "", nil
	}
	name = s[:end]
	rest := strings.TrimLeft(s[end:], " \t")
	if !strings.HasPrefix(rest, "(") {
		return name, "", rest, nil
	}
	closing := strings.IndexByte(rest, ')')
	if closing < 0 {
		return "", "", "", fmt.Errorf("unmatched parenthesis after %s", name)
	}
	if name == "" {
		return "", "", "", errors.New("missing function name")
	}
	return name, rest[1:closing], rest[closing+1:], nil
}

func parseOp(name, args string) (Op, error) {
	vals := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })

	switch name {
	case "flip-x", "flipx":
		return Op{Kind: OpFlipX}, nil
	case "flip-y", "flipy":
		return Op{Kind: OpFlipY}, nil
	case "flip":
		if len(vals) != 1 {
			return Op{}, errors.New("expected one axis")
		}
		switch strings.ToLower(vals[0]) {
		case "x", "h", "horizontal":
			return Op{Kind: OpFlipX}, nil
		case "y", "v", "vertical":
			return Op{Kind: OpFlipY}, nil
		}
		return Op{}, fmt.Errorf("unknown axis %q", vals[0])

	case "translate", "translatex", "translatey":
		if len(vals) < 1 || len(vals) > 2 || (name != "translate" && len(vals) != 1) {
			return Op{}, errors.New("wrong number of arguments")
		}
		var d [2]int
		for i, v := range vals {
			n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(v), "px"))
			if err != nil {
				return Op{}, fmt.Errorf("offset %q", v)
			}
			d[i] = n
		}
		if name == "translatey" {
			d[0], d[1] = 0, d[0]
		}
		return Op{Kind: OpTranslate, DX: d[0], DY: d[1]}, nil

	case "rotate":
		if len(vals) != 1 {
			return Op{}, errors.New("expected one angle")
		}
		deg, err := angle(vals[0])
		if err != nil {
			return Op{}, err
		}
		sin, cos := sincos(deg)
		return Op{Kind: OpAffine, M: f64.Aff3{cos, -sin, 0, sin, cos, 0}}, nil

	case "scale", "scalex", "scaley":
		if len(vals) < 1 || len(vals) > 2 || (name != "scale" && len(vals) != 1) {
			return Op{}, errors.New("wrong number of arguments")
		}
		sx, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return Op{}, fmt.Errorf("factor %q", vals[0])
		}
		sy := sx
		if len(vals) == 2 {
			if sy, err = strconv.ParseFloat(vals[1], 64); err != nil {
				return Op{}, fmt.Errorf("factor %q", vals[1])
			}
		}
		switch name {
		case "scalex":
			sy = 1
		case "scaley":
			sx, sy = 1, sx
		}
		if sx <= 0 || sy <= 0 {
			return Op{}, errors.New("scale factors must be positive")
		}
		return Op{Kind: OpAffine, M: f64.Aff3{sx, 0, 0, 0, sy, 0}}, nil

	case "skew", "skewx", "skew-x", "skewy", "skew-y":
		if len(vals) < 1 || len(vals) > 2 || (name != "skew" && len(vals) != 1) {
			return Op{}, errors.New("wrong number of arguments")
		}
		var ax, ay float64
		a, err := angle(vals[0])
		if err != nil {
			return Op{}, err
		}
		if name == "skewy" || name == "skew-y" {
			ay = a
		} else {
			ax = a
		}
		if len(vals) == 2 {
			if ay, err = angle(vals[1]); err != nil {
				return Op{}, err
			}
		}
		if math.Abs(ax) >= 89 || math.Abs(ay) >= 89 {
			return Op{}, errors.New("skew angle must be between -89 and 89 degrees")
		}
		tx, ty := math.Tan(ax*math.Pi/180), math.Tan(ay*math.Pi/180)
		return Op{Kind: OpAffine, M: f64.Aff3{1, tx, 0, ty, 1, 0}}, nil
	}
	return Op{}, errors.New("unknown function")
}

// angle parses degrees with an optional "deg" suffix.
func angle(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(s), "deg"), 64)
	if err != nil {
		return 0, fmt.Errorf("angle %q", s)
	}
	return v, nil
}

// sincos is exact for multiples of 90 degrees.
func sincos(deg float64) (sin, cos float64) {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}

// Apply runs the operations on s in order. Pixels the transform would place
// outside limit may be dropped.
func (t Transform) Apply(s pixset.Set, limit image.Rectangle) pixset.Set {
	for i, op := range t {
		if s.Empty() {
			return s
		}
		switch op.Kind {
		case OpTranslate:
			s = s.Translate(op.DX, op.DY)
		case OpFlipX:
			bb := s.Bounds()
			s = s.Map(func(p pixset.Point) pixset.Point { return pixset.Pt(bb.Min.X+bb.Max.X-1-p.X, p.Y) })
		case OpFlipY:
			bb := s.Bounds()
			s = s.Map(func(p pixset.Point) pixset.Point { return pixset.Pt(p.X, bb.Min.Y+bb.Max.Y-1-p.Y) })
		case OpAffine:
			s = affine(s, op.M, t.limitAfter(i, limit))
		}
	}
	return s
}

// limitAfter returns the area op i may write to: limit moved back through
// the translations that follow it. Any later flip or affine op depends on
// the whole intermediate set, so nothing is dropped then.
func (t Transform) limitAfter(i int, limit image.Rectangle) image.Rectangle {
	var dx, dy int
	for _, op := range t[i+1:] {
		if op.Kind != OpTranslate {
			return Everywhere
		}
		dx += op.DX
		dy += op.DY
	}
	return limit.Sub(image.Pt(dx, dy))
}

// affine maps s through the linear map m about its centroid, the mean of
// its pixel centres. Destination pixels are sampled by mapping their centres
// back through the inverse and testing the source pixel they land in. Only
// destination pixels inside limit are sampled.
func affine(s pixset.Set, m f64.Aff3, limit image.Rectangle) pixset.Set {
	var cx, cy float64
	s.All(func(p pixset.Point) bool {
		cx += float64(p.X) + 0.5
		cy += float64(p.Y) + 0.5
		return true
	})
	n := float64(s.Len())
	cx, cy = cx/n, cy/n

	fwd := about(m, cx, cy)
	inv, ok := invert(fwd)
	if !ok {
		return pixset.Set{}
	}

	src := s.Bounds()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{
		{float64(src.Min.X), float64(src.Min.Y)},
		{float64(src.Max.X), float64(src.Min.Y)},
		{float64(src.Min.X), float64(src.Max.Y)},
		{float64(src.Max.X), float64(src.Max.Y)},
	} {
		x, y := apply(fwd, c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	dst := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	dst = dst.Intersect(limit)

	const eps = 1e-9
	b := pixset.NewBuilder(s.Len())
	for py := dst.Min.Y; py < dst.Max.Y; py++ {
		for px := dst.Min.X; px < dst.Max.X; px++ {
			sx, sy := apply(inv, float64(px)+0.5, float64(py)+0.5)
			if s.Contains(pixset.Pt(int(math.Floor(sx+eps)), int(math.Floor(sy+eps)))) {
				b.AddXY(px, py)
			}
		}
	}
	return b.Set()
}

// about conjugates m with a translation to (cx, cy).
func about(m f64.Aff3, cx, cy float64) f64.Aff3 {
	return f64.Aff3{
		m[0], m[1], cx - m[0]*cx - m[1]*cy,
		m[3], m[4], cy - m[3]*cx - m[4]*cy,
	}
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if math.Abs(det) < 1e-12 {
		return f64.Aff3{}, false
	}
	a := m[4] / det
	b := -m[1] / det
	d := -m[3] / det
	e := m[0] / det
	return f64.Aff3{a, b, -(a*m[2] + b*m[5]), d, e, -(d*m[2] + e*m[5])}, true
}
