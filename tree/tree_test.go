package tree

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeJSON_KeepsOrder(t *testing.T) {
	src := `{"type":"sprite","regions":{"zeta":{"rect":[0,0,1,1]},"alpha":{"rect":[1,1,1,1]}}}`
	decls, err := DecodeJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("len(decls) = %d, want 1", len(decls))
	}
	v, _ := decls[0].Get("regions")
	regions, ok := v.(Map)
	if !ok {
		t.Fatalf("regions is %T, want Map", v)
	}
	if got, want := regions.Keys(), []string{"zeta", "alpha"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestDecodeJSON_Forms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"single object", `{"type":"palette"}`, 1},
		{"array", `[{"type":"palette"},{"type":"sprite"}]`, 2},
		{"json lines", "{\"a\":1}\n{\"b\":2}\n{\"c\":3}\n", 3},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls, err := DecodeJSON(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if len(decls) != tt.want {
				t.Errorf("len(decls) = %d, want %d", len(decls), tt.want)
			}
		})
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	if _, err := DecodeJSON(strings.NewReader(`42`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("DecodeJSON(42) error = %v, want ErrNotObject", err)
	}
	if _, err := DecodeJSON(strings.NewReader(`[1]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("DecodeJSON([1]) error = %v, want ErrNotObject", err)
	}
	if _, err := DecodeJSON(strings.NewReader(`{"a":[1,2`)); err == nil {
		t.Error("DecodeJSON(truncated) error = nil")
	}
}

func TestMap_DuplicatesAndUnique(t *testing.T) {
	m := Map{{"a", 1}, {"b", 2}, {"a", 3}, {"c", 4}, {"a", 5}}

	if got := m.Duplicates(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Duplicates() = %v, want [a]", got)
	}
	if v, _ := m.Get("a"); v != 5 {
		t.Errorf("Get(a) = %v, want last value 5", v)
	}

	u := m.Unique()
	want := Map{{"a", 5}, {"b", 2}, {"c", 4}}
	if !reflect.DeepEqual(u, want) {
		t.Errorf("Unique() = %v, want %v", u, want)
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{float64(4), 4, true},
		{json.Number("7"), 7, true},
		{json.Number("-2"), -2, true},
		{1.5, 0, false},
		{"3", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Int(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int(%#v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInts(t *testing.T) {
	got, ok := Ints([]any{1, json.Number("2"), 3.0})
	if !ok || !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Ints() = (%v, %v)", got, ok)
	}
	if _, ok := Ints([]any{1, "x"}); ok {
		t.Error("Ints(mixed) ok = true")
	}
}
