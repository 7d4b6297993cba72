package pixelsrc

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports every level disabled, so log
// calls in the resolvers cost only the Enabled check.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

// current is read by every worker of a running batch; SetLogger swaps it.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes compiler logging to l. Nil restores the silent default.
// Records carry "sprite", "palette" and "region" attributes naming the
// declaration they concern:
//
//   - Debug: "region: resolved" and "palette: token resolved" per region and
//     token, "pixelsrc: sprite compiled", literal cache hit counts
//   - Info: "pixelsrc: batch compiled" with sprite, failure and worker
//     counts
//   - Warn: one record per lenient-mode diagnostic, with its kind
//
// The cmd/pxrender -v flag enables Debug:
//
//	pixelsrc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
