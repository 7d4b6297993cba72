package shape

import (
	"errors"
	"image"
	"reflect"
	"slices"
	"testing"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

func pts(xy ...int) []pixset.Point {
	out := make([]pixset.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, pixset.Pt(xy[i], xy[i+1]))
	}
	return out
}

func mustRasterize(t *testing.T, s Shape, env Env) pixset.Set {
	t.Helper()
	got, err := Rasterize(s, env)
	if err != nil {
		t.Fatalf("Rasterize(%#v) error = %v", s, err)
	}
	return got
}

func TestRasterize_Counts(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"points dedup", Points{Pts: pts(0, 0, 1, 1, 0, 0)}, 2},
		{"line horizontal", Line{Pts: pts(0, 0, 3, 0)}, 4},
		{"line diagonal", Line{Pts: pts(0, 0, 3, 3)}, 4},
		{"line single point", Line{Pts: pts(5, 5)}, 1},
		{"line thickness 2", Line{Pts: pts(0, 0, 3, 0), Thickness: 2}, 8},
		{"line thickness 3", Line{Pts: pts(0, 0, 0, 3), Thickness: 3}, 12},
		{"polyline", Line{Pts: pts(0, 0, 2, 0, 2, 2)}, 5},
		{"rect", Rect{X: 1, Y: 1, W: 3, H: 2}, 6},
		{"rect empty", Rect{W: 0, H: 5}, 0},
		{"rect round 1", Rect{W: 6, H: 6, Round: 1}, 32},
		{"rect round 3", Rect{W: 8, H: 8, Round: 3}, 44},
		{"rect round clamped", Rect{W: 2, H: 8, Round: 5}, 12},
		{"stroke", Stroke{W: 4, H: 4}, 12},
		{"stroke thick", Stroke{W: 6, H: 6, Thickness: 2}, 32},
		{"stroke solid", Stroke{W: 3, H: 3, Thickness: 2}, 9},
		{"circle r1", Circle{CX: 2, CY: 2, R: 1}, 5},
		{"circle r2", Circle{CX: 2, CY: 2, R: 2}, 13},
		{"ellipse", Ellipse{CX: 0, CY: 0, RX: 2, RY: 1}, 7},
		{"ellipse zero", Ellipse{RX: 0, RY: 3}, 0},
		{"polygon square", Polygon{Pts: pts(0, 0, 3, 0, 3, 3, 0, 3)}, 16},
		{"polygon too few", Polygon{Pts: pts(0, 0, 3, 3)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRasterize(t, tt.shape, Env{})
			if got.Len() != tt.want {
				t.Errorf("Len() = %d, want %d (%v)", got.Len(), tt.want, got.Sorted())
			}
		})
	}
}

func TestRect_RoundCorners(t *testing.T) {
	got := mustRasterize(t, Rect{W: 6, H: 6, Round: 1}, Env{})
	for _, c := range pts(0, 0, 5, 0, 0, 5, 5, 5) {
		if got.Contains(c) {
			t.Errorf("corner %v kept", c)
		}
	}
	if !got.Contains(pixset.Pt(1, 0)) || !got.Contains(pixset.Pt(0, 1)) {
		t.Error("edge pixels next to corner removed")
	}
}

func TestStroke_Round(t *testing.T) {
	got := mustRasterize(t, Stroke{W: 8, H: 8, Round: 2}, Env{})
	if got.Contains(pixset.Pt(0, 0)) {
		t.Error("outer corner kept")
	}
	if !got.Contains(pixset.Pt(1, 1)) {
		t.Error("rounded corner pixel (1,1) missing from ring")
	}
	if got.Contains(pixset.Pt(3, 3)) {
		t.Error("interior pixel in ring")
	}
}

func TestPolygon_WindingIrrelevant(t *testing.T) {
	tri := pts(0, 0, 6, 1, 2, 6)
	rev := slices.Clone(tri)
	slices.Reverse(rev)
	a := mustRasterize(t, Polygon{Pts: tri}, Env{})
	b := mustRasterize(t, Polygon{Pts: rev}, Env{})
	if !pixset.Equal(a, b) {
		t.Errorf("winding changed result: %v vs %v", a.Sorted(), b.Sorted())
	}
	for _, v := range tri {
		if !a.Contains(v) {
			t.Errorf("vertex %v missing", v)
		}
	}
}

func TestPath(t *testing.T) {
	square := mustRasterize(t, Polygon{Pts: pts(0, 0, 3, 0, 3, 3, 0, 3)}, Env{})

	for _, d := range []string{
		"M0 0 L3 0 L3 3 L0 3 Z",
		"M0,0 3,0 3,3 0,3 z",
		"m0 0 h3 v3 h-3 z",
		"M 0 0 H 3 V 3 H 0",
	} {
		t.Run(d, func(t *testing.T) {
			got := mustRasterize(t, Path{D: d}, Env{})
			if !pixset.Equal(got, square) {
				t.Errorf("got %v, want square", got.Sorted())
			}
		})
	}

	t.Run("even-odd hole", func(t *testing.T) {
		got := mustRasterize(t, Path{D: "M0 0 H5 V5 H0 Z M2 2 H3 V3 H2 Z"}, Env{})
		if got.Len() != 32 {
			t.Errorf("Len() = %d, want 32", got.Len())
		}
		if got.Contains(pixset.Pt(2, 2)) {
			t.Error("hole pixel (2,2) filled")
		}
	})
}

func TestParsePath_Errors(t *testing.T) {
	for _, d := range []string{
		"L0 0",
		"M0 0 C1 1 2 2 3 3",
		"M0",
		"M0 0 Z 5",
		"10 10",
	} {
		if _, err := ParsePath(d); !errors.Is(err, ErrPath) {
			t.Errorf("ParsePath(%q) error = %v, want ErrPath", d, err)
		}
	}
}

func TestParsePath_Subpaths(t *testing.T) {
	got, err := ParsePath("M1 1 l2 0 Z m1 1 L5 5")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]pixset.Point{pts(1, 1, 3, 1), pts(2, 2, 5, 5)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePath() = %v, want %v", got, want)
	}
}

func TestFill_Inside(t *testing.T) {
	outline := mustRasterize(t, Stroke{W: 4, H: 4}, Env{})
	env := Env{
		Size: image.Pt(4, 4),
		Lookup: func(name string) (pixset.Set, bool) {
			if name == "outline" {
				return outline, true
			}
			return pixset.Set{}, false
		},
	}
	got := mustRasterize(t, Fill{Inside: "outline"}, env)
	want := pts(1, 1, 2, 1, 1, 2, 2, 2)
	if !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("fill = %v, want %v", got.Sorted(), want)
	}
	if !pixset.Touches(got, outline) {
		t.Error("fill does not border its outline")
	}
	if !pixset.Intersect(got, outline).Empty() {
		t.Error("fill includes boundary pixels")
	}
}

func TestFill_Unresolved(t *testing.T) {
	_, err := Rasterize(Fill{Inside: "outline"}, Env{Size: image.Pt(8, 8)})
	var uerr *UnresolvedError
	if !errors.As(err, &uerr) || uerr.Name != "outline" {
		t.Fatalf("Rasterize() error = %v, want UnresolvedError{outline}", err)
	}
	if !errors.Is(err, ErrUnresolved) {
		t.Error("errors.Is(err, ErrUnresolved) = false")
	}
}

func TestFloodFill_Seeds(t *testing.T) {
	size := image.Pt(5, 5)
	ring := mustRasterize(t, Stroke{W: 5, H: 5}, Env{})
	centre := pixset.Of(pixset.Pt(2, 2))

	t.Run("auto seed searches around blocked centre", func(t *testing.T) {
		got := FloodFill(ring, centre, nil, size)
		if got.Len() != 8 {
			t.Errorf("Len() = %d, want 8", got.Len())
		}
	})

	t.Run("explicit seed on wall", func(t *testing.T) {
		seed := pixset.Pt(0, 0)
		if got := FloodFill(ring, pixset.Set{}, &seed, size); !got.Empty() {
			t.Errorf("got %d pixels, want none", got.Len())
		}
	})

	t.Run("explicit seed outside canvas", func(t *testing.T) {
		seed := pixset.Pt(9, 9)
		if got := FloodFill(ring, pixset.Set{}, &seed, size); !got.Empty() {
			t.Errorf("got %d pixels, want none", got.Len())
		}
	})

	t.Run("open boundary leaks to canvas edge", func(t *testing.T) {
		seed := pixset.Pt(0, 0)
		got := FloodFill(pixset.Of(pixset.Pt(2, 2)), pixset.Set{}, &seed, size)
		if got.Len() != 24 {
			t.Errorf("Len() = %d, want 24", got.Len())
		}
	})
}

func TestBackground(t *testing.T) {
	got := mustRasterize(t, Background{}, Env{Size: image.Pt(2, 2), Claimed: pixset.Of(pixset.Pt(0, 0))})
	if got.Len() != 3 || got.Contains(pixset.Pt(0, 0)) {
		t.Errorf("background = %v", got.Sorted())
	}
}

func TestRasterizeCanvas(t *testing.T) {
	env := Env{Size: image.Pt(16, 16)}
	square := pts(-50, -50, 50, -50, 50, 50, -50, 50)

	tests := []struct {
		name        string
		shape       Shape
		want        int
		wantOutside bool
	}{
		{"rect inside", Rect{X: 2, Y: 2, W: 4, H: 4}, 16, false},
		{"rect round inside", Rect{X: 0, Y: 0, W: 16, H: 16, Round: 4}, mustRasterize(t, Rect{W: 16, H: 16, Round: 4}, Env{}).Len(), false},
		{"rect oversized", Rect{W: 4000, H: 4000}, 256, true},
		{"rect far away", Rect{X: 100, Y: 100, W: 4, H: 4}, 0, true},
		{"rect empty", Rect{X: 100, W: 0, H: 4}, 0, false},
		{"stroke around canvas", Stroke{X: -10, Y: -10, W: 100, H: 100}, 0, true},
		{"stroke across edge", Stroke{X: -2, Y: -2, W: 20, H: 20, Thickness: 3}, 60, true},
		{"circle inside", Circle{CX: 8, CY: 8, R: 3}, 29, false},
		{"circle oversized", Circle{CX: 8, CY: 8, R: 100}, 256, true},
		{"polygon oversized", Polygon{Pts: square}, 256, true},
		{"path oversized", Path{D: "M-50 -50 H50 V50 H-50 Z"}, 256, true},
		{"points outside", Points{Pts: pts(20, 20)}, 0, true},
		{"line along edge", Line{Pts: pts(0, 15, 15, 15)}, 16, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outside, err := RasterizeCanvas(tt.shape, env)
			if err != nil {
				t.Fatalf("RasterizeCanvas() error = %v", err)
			}
			if got.Len() != tt.want || outside != tt.wantOutside {
				t.Errorf("RasterizeCanvas() = (%d pixels, %v), want (%d, %v)", got.Len(), outside, tt.want, tt.wantOutside)
			}
		})
	}
}
