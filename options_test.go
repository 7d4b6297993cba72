package pixelsrc

import (
	"runtime"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.mode != Lenient {
		t.Errorf("mode = %v, want lenient", o.mode)
	}
	if o.workers != runtime.GOMAXPROCS(0) {
		t.Errorf("workers = %d, want GOMAXPROCS", o.workers)
	}
	if o.cacheSize != DefaultLiteralCacheSize || !o.builtins {
		t.Errorf("options = %+v", o)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(options) bool
	}{
		{"strict", WithMode(Strict), func(o options) bool { return o.mode == Strict }},
		{"workers", WithWorkers(3), func(o options) bool { return o.workers == 3 }},
		{"workers below one", WithWorkers(0), func(o options) bool { return o.workers == runtime.GOMAXPROCS(0) }},
		{"cache size", WithLiteralCacheSize(64), func(o options) bool { return o.cacheSize == 64 }},
		{"negative cache size", WithLiteralCacheSize(-1), func(o options) bool { return o.cacheSize == 0 }},
		{"no builtins", WithBuiltinPalettes(false), func(o options) bool { return !o.builtins }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			if !tt.check(o) {
				t.Errorf("options after %s = %+v", tt.name, o)
			}
		})
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	c := New(WithMode(Strict), WithWorkers(2), WithLiteralCacheSize(0))
	defer c.Close()
	if c.Mode() != Strict {
		t.Errorf("Mode() = %v, want strict", c.Mode())
	}
	if c.pool.Workers() != 2 {
		t.Errorf("workers = %d, want 2", c.pool.Workers())
	}
	if c.parser != nil {
		t.Error("parser allocated with a zero cache size")
	}
}
