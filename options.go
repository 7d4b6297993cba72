package pixelsrc

import "runtime"

// Option configures a Compiler.
//
// Example:
//
//	c := pixelsrc.New(pixelsrc.WithMode(pixelsrc.Strict), pixelsrc.WithWorkers(2))
//	defer c.Close()
type Option func(*options)

type options struct {
	mode      Mode
	workers   int
	cacheSize int
	builtins  bool
}

// DefaultLiteralCacheSize is the default capacity of the color literal cache.
const DefaultLiteralCacheSize = 512

func defaultOptions() options {
	return options{
		mode:      Lenient,
		workers:   runtime.GOMAXPROCS(0),
		cacheSize: DefaultLiteralCacheSize,
		builtins:  true,
	}
}

// WithMode selects lenient or strict diagnostics handling.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithWorkers sets how many sprites compile concurrently.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithLiteralCacheSize sets the capacity of the color literal cache shared
// by all sprites of a Compiler. Zero disables caching.
func WithLiteralCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = max(n, 0)
	}
}

// WithBuiltinPalettes enables or disables the built-in palettes
// (@gameboy, @nes, @pico8, @grayscale, @1bit).
func WithBuiltinPalettes(enabled bool) Option {
	return func(o *options) {
		o.builtins = enabled
	}
}
