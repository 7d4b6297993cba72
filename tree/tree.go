// Package tree is the in-memory declaration tree consumed by pixelsrc.
//
// Objects are ordered: region declaration order is paint and dependency
// order, so a Map keeps its entries as a slice instead of a Go map. Values
// are nil, bool, numbers (float64, int, int64 or json.Number), string,
// []any, or Map.
package tree

import (
	"encoding/json"
	"math"
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered object. Keys may repeat; lookups see the last one.
type Map []Entry

// Get returns the value of the last entry named key.
func (m Map) Get(key string) (any, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Key == key {
			return m[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// String returns the value of key when it is a string.
func (m Map) String(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in declaration order, including repeats.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Duplicates returns every key declared more than once, in order of first
// appearance.
func (m Map) Duplicates() []string {
	seen := make(map[string]int, len(m))
	var dups []string
	for _, e := range m {
		seen[e.Key]++
		if seen[e.Key] == 2 {
			dups = append(dups, e.Key)
		}
	}
	return dups
}

// Unique returns the entries with repeated keys collapsed: each key keeps the
// position of its first declaration and the value of its last.
func (m Map) Unique() Map {
	index := make(map[string]int, len(m))
	out := make(Map, 0, len(m))
	for _, e := range m {
		if i, ok := index[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

// Number converts a numeric tree value to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Int converts a numeric tree value to an int. Fractional values fail.
func Int(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Ints converts an array of integers.
func Ints(v any) ([]int, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, len(arr))
	for i, e := range arr {
		if out[i], ok = Int(e); !ok {
			return nil, false
		}
	}
	return out, true
}
