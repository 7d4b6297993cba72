package shape

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// ParsePath splits an SVG-lite path into subpaths of absolute vertices.
// Supported commands are M, L, H, V and Z in absolute and relative form.
// Coordinates are rounded to the nearest pixel; repeated coordinate pairs
// after M are implicit line-tos.
func ParsePath(d string) ([][]pixset.Point, error) {
	lx := pathLexer{s: d}
	var (
		subpaths [][]pixset.Point
		cur      []pixset.Point
		pos      pixset.Point
		start    pixset.Point
		cmd      byte
	)
	flush := func() {
		if len(cur) > 0 {
			subpaths = append(subpaths, cur)
		}
		cur = nil
	}

	for {
		lx.skip()
		if lx.done() {
			break
		}
		if c := lx.peek(); isCommand(c) {
			cmd = c
			lx.i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("%w %q: expected command at offset %d", ErrPath, d, lx.i)
		}
		if len(subpaths) == 0 && cur == nil && cmd != 'M' && cmd != 'm' {
			return nil, fmt.Errorf("%w %q: must start with M", ErrPath, d)
		}

		switch cmd {
		case 'M', 'm':
			x, y, err := lx.pair()
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", ErrPath, d, err)
			}
			p := pixset.Pt(x, y)
			if cmd == 'm' {
				p = pos.Add(x, y)
			}
			flush()
			cur = []pixset.Point{p}
			pos, start = p, p
			// Further pairs are line-tos.
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}

		case 'L', 'l':
			x, y, err := lx.pair()
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", ErrPath, d, err)
			}
			p := pixset.Pt(x, y)
			if cmd == 'l' {
				p = pos.Add(x, y)
			}
			cur = lineTo(cur, pos, p)
			pos = p

		case 'H', 'h', 'V', 'v':
			v, err := lx.number()
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", ErrPath, d, err)
			}
			p := pos
			switch cmd {
			case 'H':
				p.X = v
			case 'h':
				p.X += v
			case 'V':
				p.Y = v
			case 'v':
				p.Y += v
			}
			cur = lineTo(cur, pos, p)
			pos = p

		case 'Z', 'z':
			flush()
			pos = start
			cmd = 0

		default:
			return nil, fmt.Errorf("%w %q: unsupported command %q", ErrPath, d, cmd)
		}
	}
	flush()
	return subpaths, nil
}

// lineTo appends p, starting a new subpath at pos after a Z.
func lineTo(cur []pixset.Point, pos, p pixset.Point) []pixset.Point {
	if cur == nil {
		cur = []pixset.Point{pos}
	}
	return append(cur, p)
}

func isCommand(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z' && c != 'e')
}

// path fills each subpath as a polygon and combines them even-odd.
func path(d string, lim image.Rectangle) (pixset.Set, error) {
	subpaths, err := ParsePath(d)
	if err != nil {
		return pixset.Set{}, err
	}
	var out pixset.Set
	for _, sp := range subpaths {
		p := polygon(sp, lim)
		out = pixset.Union(out.Subtract(p), p.Subtract(out))
	}
	return out, nil
}

type pathLexer struct {
	s string
	i int
}

func (l *pathLexer) done() bool { return l.i >= len(l.s) }

func (l *pathLexer) peek() byte { return l.s[l.i] }

func (l *pathLexer) skip() {
	for l.i < len(l.s) {
		switch l.s[l.i] {
		case ' ', '\t', '\n', '\r', ',':
			l.i++
		default:
			return
		}
	}
}

func (l *pathLexer) number() (int, error) {
	l.skip()
	start := l.i
	if l.i < len(l.s) && (l.s[l.i] == '-' || l.s[l.i] == '+') {
		l.i++
	}
	for l.i < len(l.s) {
		c := l.s[l.i]
		if ('0' <= c && c <= '9') || c == '.' {
			l.i++
			continue
		}
		if c == 'e' || c == 'E' {
			l.i++
			if l.i < len(l.s) && (l.s[l.i] == '-' || l.s[l.i] == '+') {
				l.i++
			}
			continue
		}
		break
	}
	if start == l.i {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	f, err := strconv.ParseFloat(l.s[start:l.i], 64)
	if err != nil {
		return 0, fmt.Errorf("number %q", l.s[start:l.i])
	}
	return int(math.Round(f)), nil
}

func (l *pathLexer) pair() (int, int, error) {
	x, err := l.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := l.number()
	return x, y, err
}
