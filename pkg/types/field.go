// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strconv"
)

// Field is a single output cell. The zero value is absent, which is distinct
// from a present empty string: absent cells render as an empty TSV cell,
// JSON/YAML null, and SQL NULL.
type Field struct {
	value   string
	present bool
}

// Absent returns an absent Field.
func Absent() Field { return Field{} }

// Str returns a present Field holding s.
func Str(s string) Field { return Field{value: s, present: true} }

// FieldOf converts a decoded JSON value into a Field. nil is absent;
// numbers and booleans keep their JSON text; nested objects and arrays
// are re-encoded as compact JSON.
func FieldOf(v any) Field {
	switch x := v.(type) {
	case nil:
		return Absent()
	case Field:
		return x
	case string:
		return Str(x)
	case json.Number:
		return Str(x.String())
	case bool:
		return Str(strconv.FormatBool(x))
	case int:
		return Str(strconv.Itoa(x))
	case int64:
		return Str(strconv.FormatInt(x, 10))
	case float64:
		return Str(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return Absent()
		}
		return Str(string(data))
	}
}

// String returns the cell text; absent fields return "".
func (f Field) String() string { return f.value }

// IsAbsent reports whether the field carries no value.
func (f Field) IsAbsent() bool { return !f.present }

// MarshalJSON encodes absent fields as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// MarshalYAML encodes absent fields as null.
func (f Field) MarshalYAML() (any, error) {
	if !f.present {
		return nil, nil
	}
	return f.value, nil
}

// NullString returns the value in the shape database/sql expects, with
// absent fields mapped to nil.
func (f Field) NullString() any {
	if !f.present {
		return nil
	}
	return f.value
}
