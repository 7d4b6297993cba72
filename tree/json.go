package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a top-level JSON value is not an object.
var ErrNotObject = errors.New("tree: top-level value is not an object")

// DecodeJSON reads declarations from r, keeping object key order. The input
// may be one object, an array of objects, or a stream of objects (JSON Lines).
func DecodeJSON(r io.Reader) ([]Map, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var decls []Map
	for {
		v, err := decodeValue(dec)
		if errors.Is(err, io.EOF) {
			return decls, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		switch v := v.(type) {
		case Map:
			decls = append(decls, v)
		case []any:
			for i, e := range v {
				m, ok := e.(Map)
				if !ok {
					return nil, fmt.Errorf("%w: array element %d", ErrNotObject, i)
				}
				decls = append(decls, m)
			}
		default:
			return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
		}
	}
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		m := Map{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, noEOF(err)
			}
			m = append(m, Entry{Key: key, Value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, noEOF(err)
		}
		return m, nil

	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, noEOF(err)
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, noEOF(err)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// noEOF reports truncated input as an error rather than a clean end.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
