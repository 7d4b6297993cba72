package pixelsrc

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

const coinSrc = `
{"type": "palette", "name": "main", "colors": {"{outline}": "#000000", "{fill}": "#FFD700"}}
{"type": "sprite", "name": "coin", "size": [8, 8], "palette": "main", "regions": {
	"outline": {"stroke": [0, 0, 8, 8]},
	"fill": {"fill": "inside(outline)"}
}}
`

func compile(t *testing.T, src string, opts ...Option) *Output {
	t.Helper()
	c := New(opts...)
	t.Cleanup(c.Close)
	out, err := c.CompileReader(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("CompileReader() error = %v", err)
	}
	return out
}

func sprite(t *testing.T, out *Output, name string) *Result {
	t.Helper()
	s, ok := out.Sprite(name)
	if !ok {
		t.Fatalf("sprite %q missing", name)
	}
	return s
}

func TestCompile_EndToEnd(t *testing.T) {
	for _, mode := range []Mode{Lenient, Strict} {
		t.Run(mode.String(), func(t *testing.T) {
			out := compile(t, coinSrc, WithMode(mode))
			if err := out.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}
			coin := sprite(t, out, "coin")
			if coin.Failed() {
				t.Fatal("coin failed")
			}

			black := Color{A: 255}
			gold := Color{R: 0xFF, G: 0xD7, A: 255}
			pm := coin.Pixmap
			for y := range 8 {
				for x := range 8 {
					want := gold
					if x == 0 || y == 0 || x == 7 || y == 7 {
						want = black
					}
					if got := pm.GetPixel(x, y); got != want {
						t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}

			fill, ok := coin.Region("fill")
			if !ok || fill.Z != 1 || fill.Pixels.Len() != 36 {
				t.Errorf("fill region = %+v", fill)
			}
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	src := `{"type": "sprite", "name": "stars", "size": [16, 16],
		"palette": {"{star}": "white", "{sky}": "#102040"},
		"regions": {
			"sky": {"fill": "background"},
			"star": {"rect": [2, 2, 12, 12], "jitter": {"x": [-2, 2], "y": [-2, 2]}, "repeat": [2, 2], "spacing": [1, 1]}
		}}`
	a := sprite(t, compile(t, src), "stars")
	b := sprite(t, compile(t, src), "stars")
	if a.Failed() || b.Failed() {
		t.Fatalf("compile failed: %v / %v", a.Err(), b.Err())
	}
	if !bytes.Equal(a.Pixmap.Data(), b.Pixmap.Data()) {
		t.Error("two compilations of the same sprite differ")
	}
}

func TestCompile_ForwardReference(t *testing.T) {
	src := `{"type": "sprite", "name": "hero", "size": [8, 8], "palette": {"{skin}": "#FFCC99", "{outline}": "#000"},
		"regions": {"skin": {"fill": "inside(outline)"}, "outline": {"stroke": [0, 0, 8, 8]}}}`
	for _, mode := range []Mode{Lenient, Strict} {
		t.Run(mode.String(), func(t *testing.T) {
			hero := sprite(t, compile(t, src, WithMode(mode)), "hero")
			if !hero.Failed() {
				t.Error("hero produced a pixel buffer")
			}
			if !errors.Is(hero.Err(), ErrForwardReference) {
				t.Errorf("Err() = %v, want ErrForwardReference", hero.Err())
			}
		})
	}
}

func TestCompile_VariableFallback(t *testing.T) {
	src := `{"type": "palette", "name": "p", "colors": {"--main": "#FF0000", "{a}": "var(--missing, #00FF00)", "{b}": "var(--missing)"}}
		{"type": "sprite", "name": "s", "size": [2, 1], "palette": "p", "regions": {
			"a": {"points": [[0, 0]]},
			"b": {"points": [[1, 0]]}
		}}`

	s := sprite(t, compile(t, src), "s")
	if got := s.Pixmap.GetPixel(0, 0); got != (Color{G: 255, A: 255}) {
		t.Errorf("a = %v, want #00FF00", got)
	}
	if got := s.Pixmap.GetPixel(1, 0); got != Magenta {
		t.Errorf("b = %v, want magenta", got)
	}

	strict := sprite(t, compile(t, src, WithMode(Strict)), "s")
	if !strict.Failed() || !errors.Is(strict.Err(), ErrColorResolution) {
		t.Errorf("strict: Failed() = %v, Err() = %v", strict.Failed(), strict.Err())
	}
}

func TestCompile_SharedPaletteDiagnostics(t *testing.T) {
	src := `{"type": "palette", "name": "p", "colors": {"--a": "var(--b)", "--b": "var(--a)", "{x}": "var(--a)"}}
		{"type": "sprite", "name": "one", "size": [1, 1], "palette": "p", "regions": {"x": {"points": [[0, 0]]}}}
		{"type": "sprite", "name": "two", "size": [1, 1], "palette": "p", "regions": {"x": {"points": [[0, 0]]}}}`

	out := compile(t, src)
	for _, name := range []string{"one", "two"} {
		s := sprite(t, out, name)
		if len(s.Diagnostics) != 1 || !strings.Contains(s.Diagnostics[0].Message, "--a -> --b -> --a") {
			t.Errorf("%s diagnostics = %v, want the circular reference", name, s.Diagnostics)
		}
		if got := s.Pixmap.GetPixel(0, 0); got != Magenta {
			t.Errorf("%s pixel = %v, want magenta", name, got)
		}
	}
	if len(out.Palettes) != 1 || out.Palettes[0].Name != "p" {
		t.Errorf("Palettes = %v", out.Palettes)
	}
}

func TestCompile_UnknownToken(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [1, 1], "palette": {"{a}": "red"},
		"regions": {"eye": {"points": [[0, 0]]}}}`

	s := sprite(t, compile(t, src), "s")
	if got := s.Pixmap.GetPixel(0, 0); got != Magenta {
		t.Errorf("pixel = %v, want magenta", got)
	}
	if len(s.Diagnostics) != 1 || s.Diagnostics[0].Kind != KindUnknownToken {
		t.Errorf("Diagnostics = %v", s.Diagnostics)
	}

	strict := sprite(t, compile(t, src, WithMode(Strict)), "s")
	if !errors.Is(strict.Err(), ErrUnknownToken) {
		t.Errorf("strict Err() = %v, want ErrUnknownToken", strict.Err())
	}
}

func TestCompile_BuiltinPalette(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [2, 1], "palette": "@gameboy",
		"regions": {"darkest": {"points": [[0, 0]]}, "lightest": {"points": [[1, 0]]}}}`

	s := sprite(t, compile(t, src), "s")
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if got := s.Pixmap.GetPixel(0, 0).Hex(); got != "#0F380F" {
		t.Errorf("darkest = %s, want #0F380F", got)
	}

	off := sprite(t, compile(t, src, WithBuiltinPalettes(false)), "s")
	if len(off.Diagnostics) == 0 || off.Diagnostics[0].Kind != KindSyntax {
		t.Errorf("Diagnostics with built-ins off = %v, want unknown palette", off.Diagnostics)
	}
}

func TestCompile_Ramp(t *testing.T) {
	src := `{"type": "palette", "name": "p", "colors": {}, "ramps": {"skin": {"base": "#C08060", "steps": 5}}}
		{"type": "sprite", "name": "s", "size": [5, 1], "palette": "p", "regions": {
			"a": {"points": [[0, 0]], "z": 0}
		}}`
	out := compile(t, src)
	p := out.Palettes[0]
	want := []string{"{skin_2}", "{skin_1}", "{skin}", "{skin+1}", "{skin+2}"}
	toks := p.Tokens()
	if len(toks) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", toks, want)
	}
	for i, w := range want {
		if toks[i].Name != w {
			t.Errorf("Tokens()[%d] = %q, want %q", i, toks[i].Name, w)
		}
	}
}

func TestCompile_Duplicates(t *testing.T) {
	src := `{"type": "palette", "name": "p", "colors": {"{a}": "red"}}
		{"type": "palette", "name": "p", "colors": {"{a}": "blue"}}
		{"type": "sprite", "name": "s", "size": [1, 1], "palette": "p", "regions": {"a": {"points": [[0, 0]]}}}`

	out := compile(t, src)
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != KindDuplicate {
		t.Fatalf("Diagnostics = %v, want one duplicate", out.Diagnostics)
	}
	if got := sprite(t, out, "s").Pixmap.GetPixel(0, 0); got != (Color{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want the last declaration's blue", got)
	}

	c := New(WithMode(Strict))
	defer c.Close()
	if _, err := c.CompileReader(context.Background(), strings.NewReader(src)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("strict error = %v, want ErrDuplicate", err)
	}
}

func TestCompile_InvalidSize(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [0, 4], "palette": {}, "regions": {}}`
	s := sprite(t, compile(t, src), "s")
	if !s.Failed() || !errors.Is(s.Err(), ErrSyntax) {
		t.Errorf("Failed() = %v, Err() = %v", s.Failed(), s.Err())
	}
}

func TestCompile_InvalidThickness(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [4, 4], "palette": {"{a}": "red", "{ring}": "blue"},
		"regions": {"a": {"points": [[1, 1]]}, "ring": {"auto-outline": "a", "thickness": "wide"}}}`

	s := sprite(t, compile(t, src), "s")
	var found bool
	for _, d := range s.Diagnostics {
		if d.Kind == KindSyntax && d.Name == "ring" && strings.Contains(d.Message, "thickness") {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %v, want a syntax error on ring's thickness", s.Diagnostics)
	}

	s = sprite(t, compile(t, src, WithMode(Strict)), "s")
	if !s.Failed() || !errors.Is(s.Err(), ErrSyntax) {
		t.Errorf("strict Failed() = %v, Err() = %v, want ErrSyntax", s.Failed(), s.Err())
	}
}

func TestCompile_ZOrder(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [1, 1], "palette": {"{top}": "red", "{under}": "blue"},
		"regions": {"top": {"points": [[0, 0]], "z": 10}, "under": {"points": [[0, 0]]}}}`
	s := sprite(t, compile(t, src), "s")
	if got := s.Pixmap.GetPixel(0, 0); got != (Color{R: 255, A: 255}) {
		t.Errorf("pixel = %v, want red from the higher z", got)
	}
}

func TestCompile_SymmetryInvariant(t *testing.T) {
	src := `{"type": "sprite", "name": "s", "size": [9, 5], "palette": {"{eye}": "black"},
		"regions": {"eye": {"polygon": [[0, 0], [3, 1], [1, 4]], "symmetric": "x"}}}`
	s := sprite(t, compile(t, src), "s")
	eye, _ := s.Region("eye")
	if eye.Pixels.Empty() {
		t.Fatal("eye is empty")
	}
	for p := range eye.Pixels.All {
		if !eye.Pixels.Contains(pixset.Pt(8-p.X, p.Y)) {
			t.Errorf("mirror of %v missing", p)
		}
	}
}

func TestCompile_Cancelled(t *testing.T) {
	c := New()
	defer c.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CompileReader(ctx, strings.NewReader(coinSrc)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCompile_Closed(t *testing.T) {
	c := New()
	c.Close()
	if _, err := c.CompileReader(context.Background(), strings.NewReader(coinSrc)); err == nil {
		t.Error("Compile() after Close succeeded")
	}
}

func TestCompile_ConcurrentBatch(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"type": "palette", "name": "main", "colors": {"{outline}": "#000000", "{fill}": "#FFD700"}}`)
	for i := range 32 {
		b.WriteString(`{"type": "sprite", "name": "coin` + strconv.Itoa(i) + `", "size": [8, 8], "palette": "main",
			"regions": {"outline": {"stroke": [0, 0, 8, 8]}, "fill": {"fill": "inside(outline)"}}}`)
	}
	out := compile(t, b.String(), WithWorkers(4))
	if len(out.Sprites) != 32 {
		t.Fatalf("len(Sprites) = %d, want 32", len(out.Sprites))
	}
	if err := out.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	first := out.Sprites[0].Pixmap.Data()
	for i, s := range out.Sprites {
		if want := "coin" + strconv.Itoa(i); s.Name != want {
			t.Errorf("Sprites[%d].Name = %q, want %q", i, s.Name, want)
		}
		if s.Failed() || !bytes.Equal(s.Pixmap.Data(), first) {
			t.Fatalf("sprite %s differs", s.Name)
		}
	}
}
