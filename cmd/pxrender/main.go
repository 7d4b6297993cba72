// Command pxrender compiles pixelsrc declarations to PNG files.
//
// Usage:
//
//	pxrender [flags] file.json...
//
// With no files, or the file "-", declarations are read from stdin. Each
// sprite is written to <out>/<name>.png. The exit status is 1 when any sprite
// failed to compile.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pixelsrc"
)

func main() {
	var (
		strict  = flag.Bool("strict", false, "fail a sprite on its first diagnostic")
		outDir  = flag.String("out", ".", "output directory")
		scale   = flag.Int("scale", 1, "integer upscale factor (nearest neighbour)")
		workers = flag.Int("workers", 0, "sprites compiled concurrently (0 = GOMAXPROCS)")
		preview = flag.Bool("preview", false, "show the sprites in the terminal instead of writing files")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	pixelsrc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *scale < 1 {
		log.Fatalf("invalid -scale %d", *scale)
	}

	mode := pixelsrc.Lenient
	if *strict {
		mode = pixelsrc.Strict
	}
	c := pixelsrc.New(pixelsrc.WithMode(mode), pixelsrc.WithWorkers(*workers))
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var sprites []*pixelsrc.Result
	failed := false
	for _, in := range inputs {
		out, err := compileFile(ctx, c, in)
		if err != nil {
			log.Printf("%s: %v", in, err)
			failed = true
			continue
		}
		for _, s := range out.Sprites {
			if s.Failed() {
				log.Printf("%s: sprite %s failed: %v", in, s.Name, s.Err())
				failed = true
				continue
			}
			sprites = append(sprites, s)
		}
	}

	if *preview {
		if err := runPreview(sprites); err != nil {
			log.Fatalf("preview: %v", err)
		}
	} else {
		for _, s := range sprites {
			path := filepath.Join(*outDir, fileName(s.Name))
			if err := savePNG(path, upscale(s.Pixmap, *scale)); err != nil {
				log.Printf("%s: %v", s.Name, err)
				failed = true
				continue
			}
			fmt.Printf("%s (%dx%d)\n", path, s.Size.X*(*scale), s.Size.Y*(*scale))
		}
	}

	if failed {
		stop()
		c.Close()
		os.Exit(1)
	}
}

func compileFile(ctx context.Context, c *pixelsrc.Compiler, path string) (*pixelsrc.Output, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}
	return c.CompileReader(ctx, r)
}

// fileName turns a sprite name into a safe PNG file name.
func fileName(sprite string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, sprite)
	if safe == "" || safe == "." || safe == ".." {
		safe = "_"
	}
	return safe + ".png"
}

// upscale enlarges img by an integer factor without smoothing.
func upscale(img image.Image, factor int) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
