// Package diag defines the diagnostic model shared by the palette and region
// resolvers: diagnostic kinds, lenient/strict modes, and the Collector that
// decides whether a reported problem aborts compilation.
package diag

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	// KindForwardReference is a pixel-affecting reference to a region that is
	// not yet resolved. It is fatal in every mode.
	KindForwardReference Kind = iota
	// KindUnknownToken is a region painting a token missing from its palette.
	KindUnknownToken
	// KindColorResolution is a token whose color expression cannot be resolved.
	KindColorResolution
	// KindValidation is a violated within/adjacent-to constraint.
	KindValidation
	// KindBounds is primitive geometry extending past the canvas.
	KindBounds
	// KindDuplicate is a name declared more than once.
	KindDuplicate
	// KindSyntax is a malformed field value in the declaration tree.
	KindSyntax
)

var kindNames = [...]string{
	KindForwardReference: "forward-reference",
	KindUnknownToken:     "unknown-token",
	KindColorResolution:  "color-resolution",
	KindValidation:       "validation",
	KindBounds:           "bounds",
	KindDuplicate:        "duplicate-definition",
	KindSyntax:           "syntax",
}

// String returns the kebab-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Detail refines a Kind.
type Detail uint8

const (
	DetailNone Detail = iota
	DetailInvalidLiteral
	DetailUndefinedVariable
	DetailCircularReference
	DetailDepthExceeded
	DetailWithin
	DetailAdjacentTo
)

var detailNames = [...]string{
	DetailNone:              "",
	DetailInvalidLiteral:    "invalid-literal",
	DetailUndefinedVariable: "undefined-variable",
	DetailCircularReference: "circular-reference",
	DetailDepthExceeded:     "depth-exceeded",
	DetailWithin:            "within",
	DetailAdjacentTo:        "adjacent-to",
}

func (d Detail) String() string {
	if int(d) < len(detailNames) {
		return detailNames[d]
	}
	return fmt.Sprintf("detail(%d)", d)
}

// Severity tells whether a diagnostic failed compilation.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Mode selects how recoverable problems are handled.
type Mode uint8

const (
	// Lenient substitutes fallbacks and keeps going.
	Lenient Mode = iota
	// Strict turns every diagnostic into a hard failure.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Sentinel errors matched by errors.Is against an *Error.
var (
	ErrForwardReference = errors.New("pixelsrc: forward reference")
	ErrUnknownToken     = errors.New("pixelsrc: unknown token")
	ErrColorResolution  = errors.New("pixelsrc: color resolution failed")
	ErrValidation       = errors.New("pixelsrc: validation constraint violated")
	ErrBounds           = errors.New("pixelsrc: out of bounds")
	ErrDuplicate        = errors.New("pixelsrc: duplicate definition")
	ErrSyntax           = errors.New("pixelsrc: malformed declaration")
)

// Err returns the sentinel error for the kind.
func (k Kind) Err() error {
	switch k {
	case KindForwardReference:
		return ErrForwardReference
	case KindUnknownToken:
		return ErrUnknownToken
	case KindColorResolution:
		return ErrColorResolution
	case KindValidation:
		return ErrValidation
	case KindBounds:
		return ErrBounds
	case KindDuplicate:
		return ErrDuplicate
	default:
		return ErrSyntax
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind     Kind
	Detail   Detail
	Severity Severity
	// Name is the offending region or token.
	Name    string
	Message string
}

func (d Diagnostic) String() string {
	kind := d.Kind.String()
	if d.Detail != DetailNone {
		kind += "/" + d.Detail.String()
	}
	if d.Name == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, kind, d.Message)
	}
	return fmt.Sprintf("%s %s %q: %s", d.Severity, kind, d.Name, d.Message)
}

// Error is the error form of an error-severity diagnostic.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %s", e.Kind.Err(), e.Message)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind.Err(), e.Name, e.Message)
}

// Unwrap exposes the kind sentinel to errors.Is.
func (e *Error) Unwrap() error { return e.Kind.Err() }

// Fatal reports whether a diagnostic of kind k aborts compilation in mode m.
func Fatal(k Kind, m Mode) bool {
	return m == Strict || k == KindForwardReference
}

// Collector accumulates diagnostics for one compilation unit.
// A Collector is not safe for concurrent use; every sprite owns one.
type Collector struct {
	mode   Mode
	list   []Diagnostic
	logger *slog.Logger
}

// NewCollector returns a collector for mode. A nil logger discards output.
func NewCollector(mode Mode, logger *slog.Logger) *Collector {
	return &Collector{mode: mode, logger: logger}
}

// Mode returns the collector's mode.
func (c *Collector) Mode() Mode { return c.mode }

// Report records a diagnostic and returns a non-nil *Error when it is fatal
// in the collector's mode. Callers must stop and propagate that error.
func (c *Collector) Report(kind Kind, detail Detail, name, format string, args ...any) error {
	return c.record(kind, detail, name, Fatal(kind, c.mode), fmt.Sprintf(format, args...))
}

// Abort records an error-severity diagnostic regardless of mode and returns
// it. It is for problems with no fallback, such as a sprite without a size.
func (c *Collector) Abort(kind Kind, detail Detail, name, format string, args ...any) error {
	return c.record(kind, detail, name, true, fmt.Sprintf(format, args...))
}

func (c *Collector) record(kind Kind, detail Detail, name string, fatal bool, msg string) error {
	d := Diagnostic{
		Kind:     kind,
		Detail:   detail,
		Severity: SeverityWarning,
		Name:     name,
		Message:  msg,
	}
	if fatal {
		d.Severity = SeverityError
	}
	c.list = append(c.list, d)

	if c.logger != nil {
		c.logger.Warn("pixelsrc: diagnostic",
			"kind", kind.String(),
			"detail", detail.String(),
			"severity", d.Severity.String(),
			"name", name,
			"message", d.Message)
	}

	if fatal {
		return &Error{Diagnostic: d}
	}
	return nil
}

// Merge appends diagnostics produced elsewhere (for example while resolving
// a shared palette) without re-evaluating their severity.
func (c *Collector) Merge(ds []Diagnostic) {
	c.list = append(c.list, ds...)
}

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.list))
	copy(out, c.list)
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.list {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
