package raster

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/gogpu/pixelsrc/internal/color"
	"github.com/gogpu/pixelsrc/internal/diag"
	"github.com/gogpu/pixelsrc/internal/pixset"
)

var (
	red  = color.RGBA8{R: 255, A: 255}
	blue = color.RGBA8{B: 255, A: 255}
)

func TestPixmap_SetGet(t *testing.T) {
	pm := NewPixmap(4, 3)
	pm.SetPixel(2, 1, red)

	if got := pm.GetPixel(2, 1); got != red {
		t.Errorf("GetPixel(2, 1) = %v, want %v", got, red)
	}
	if got := pm.GetPixel(0, 0); got != color.Transparent {
		t.Errorf("GetPixel(0, 0) = %v, want transparent", got)
	}
	i := (1*4 + 2) * 4
	if d := pm.Data(); d[i] != 255 || d[i+3] != 255 {
		t.Errorf("raw data = %v, want red", d[i:i+4])
	}
}

// TestPixmap_OutOfBounds verifies out-of-bounds writes are ignored.
func TestPixmap_OutOfBounds(t *testing.T) {
	pm := NewPixmap(2, 2)
	for _, p := range []struct{ x, y int }{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		pm.SetPixel(p.x, p.y, red)
		if got := pm.GetPixel(p.x, p.y); got != color.Transparent {
			t.Errorf("GetPixel(%d, %d) = %v, want transparent", p.x, p.y, got)
		}
	}
	for i, v := range pm.Data() {
		if v != 0 {
			t.Fatalf("out-of-bounds write modified byte %d", i)
		}
	}
}

func TestPixmap_PNGRoundTrip(t *testing.T) {
	pm := NewPixmap(3, 2)
	pm.Clear(blue)
	pm.SetPixel(1, 1, color.RGBA8{R: 10, G: 20, B: 30, A: 128})

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	got := FromImage(img)
	if got.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds() = %v", got.Bounds())
	}
	if !bytes.Equal(got.Data(), pm.Data()) {
		t.Errorf("decoded pixels = %v, want %v", got.Data(), pm.Data())
	}
}

func TestComposite_ZOrder(t *testing.T) {
	lookup := func(tok string) (color.RGBA8, bool) {
		switch tok {
		case "{r}":
			return red, true
		case "{b}":
			return blue, true
		}
		return color.RGBA8{}, false
	}
	px := pixset.Of(pixset.Pt(0, 0))

	tests := []struct {
		name   string
		layers []Layer
		want   color.RGBA8
	}{
		{"declaration order", []Layer{
			{Name: "a", Token: "{r}", Pixels: px, Z: 0, Index: 0},
			{Name: "b", Token: "{b}", Pixels: px, Z: 1, Index: 1},
		}, blue},
		{"explicit z wins", []Layer{
			{Name: "a", Token: "{r}", Pixels: px, Z: 5, Index: 0},
			{Name: "b", Token: "{b}", Pixels: px, Z: 1, Index: 1},
		}, red},
		{"ties keep declaration order", []Layer{
			{Name: "b", Token: "{b}", Pixels: px, Z: 2, Index: 1},
			{Name: "a", Token: "{r}", Pixels: px, Z: 2, Index: 0},
		}, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := Composite(image.Pt(1, 1), tt.layers, lookup, diag.NewCollector(diag.Strict, nil))
			if err != nil {
				t.Fatalf("Composite() error = %v", err)
			}
			if got := pm.GetPixel(0, 0); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposite_UnknownToken(t *testing.T) {
	lookup := func(string) (color.RGBA8, bool) { return color.RGBA8{}, false }
	layers := []Layer{
		{Name: "eye", Token: "{eye}", Pixels: pixset.Of(pixset.Pt(0, 0))},
		{Name: "eye2", Token: "{eye}", Pixels: pixset.Of(pixset.Pt(1, 0)), Index: 1, Z: 1},
	}

	c := diag.NewCollector(diag.Lenient, nil)
	pm, err := Composite(image.Pt(2, 1), layers, lookup, c)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	if got := pm.GetPixel(1, 0); got != color.Magenta {
		t.Errorf("pixel = %v, want magenta", got)
	}
	if ds := c.Diagnostics(); len(ds) != 1 || ds[0].Kind != diag.KindUnknownToken {
		t.Errorf("Diagnostics() = %v, want one unknown-token warning", ds)
	}

	_, err = Composite(image.Pt(2, 1), layers, lookup, diag.NewCollector(diag.Strict, nil))
	if !errors.Is(err, diag.ErrUnknownToken) {
		t.Errorf("strict Composite() error = %v, want ErrUnknownToken", err)
	}
}

func TestComposite_DoesNotReorderInput(t *testing.T) {
	layers := []Layer{{Name: "a", Z: 3}, {Name: "b", Z: 1, Index: 1}}
	lookup := func(string) (color.RGBA8, bool) { return red, true }
	if _, err := Composite(image.Pt(1, 1), layers, lookup, diag.NewCollector(diag.Strict, nil)); err != nil {
		t.Fatal(err)
	}
	if layers[0].Name != "a" {
		t.Error("Composite() reordered its input")
	}
}
