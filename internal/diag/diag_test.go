package diag

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCollector_LenientWarns(t *testing.T) {
	c := NewCollector(Lenient, nil)

	if err := c.Report(KindUnknownToken, DetailNone, "{eye}", "token not in palette"); err != nil {
		t.Fatalf("Report() = %v, want nil in lenient mode", err)
	}
	if c.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}

	got := c.Diagnostics()
	if len(got) != 1 {
		t.Fatalf("len(Diagnostics()) = %d, want 1", len(got))
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", got[0].Severity)
	}
}

func TestCollector_ForwardReferenceAlwaysFatal(t *testing.T) {
	for _, mode := range []Mode{Lenient, Strict} {
		t.Run(mode.String(), func(t *testing.T) {
			c := NewCollector(mode, nil)
			err := c.Report(KindForwardReference, DetailNone, "skin", "fill references %q", "outline")
			if err == nil {
				t.Fatal("Report() = nil, want error")
			}
			if !errors.Is(err, ErrForwardReference) {
				t.Errorf("errors.Is(%v, ErrForwardReference) = false", err)
			}
			if !c.HasErrors() {
				t.Error("HasErrors() = false, want true")
			}
		})
	}
}

func TestCollector_StrictFailsEverything(t *testing.T) {
	kinds := []Kind{
		KindUnknownToken, KindColorResolution, KindValidation,
		KindBounds, KindDuplicate, KindSyntax,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			c := NewCollector(Strict, nil)
			err := c.Report(k, DetailNone, "x", "boom")
			if err == nil {
				t.Fatal("Report() = nil in strict mode")
			}
			if !errors.Is(err, k.Err()) {
				t.Errorf("errors.Is(err, %v) = false", k.Err())
			}
		})
	}
}

func TestCollector_LogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewCollector(Lenient, logger)

	_ = c.Report(KindBounds, DetailNone, "hat", "clipped %d pixels", 3)

	out := buf.String()
	if !strings.Contains(out, "kind=bounds") || !strings.Contains(out, "clipped 3 pixels") {
		t.Errorf("log output = %q, want kind and message", out)
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Kind:     KindColorResolution,
		Detail:   DetailCircularReference,
		Severity: SeverityError,
		Name:     "{a}",
		Message:  "--a -> --b -> --a",
	}
	want := `error color-resolution/circular-reference "{a}": --a -> --b -> --a`
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDiagnostics_ReturnsCopy(t *testing.T) {
	c := NewCollector(Lenient, nil)
	_ = c.Report(KindSyntax, DetailNone, "r", "bad")
	got := c.Diagnostics()
	got[0].Name = "mutated"
	if c.Diagnostics()[0].Name != "r" {
		t.Error("Diagnostics() exposed internal slice")
	}
}

func TestCollector_AbortIgnoresMode(t *testing.T) {
	c := NewCollector(Lenient, nil)
	err := c.Abort(KindSyntax, DetailNone, "hero", "size must be two positive integers")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Abort() = %v, want ErrSyntax", err)
	}
	if !c.HasErrors() {
		t.Error("HasErrors() = false after Abort")
	}
}
