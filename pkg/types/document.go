// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the matrix-export pipeline:
// decoded API documents, matrix rows, output fields and records, and the
// configuration handed to each stage.
package types

import "strconv"

// Document is one decoded JSON object returned by the TaxonWorks API.
// Numbers are kept as json.Number so identifiers round-trip unchanged.
type Document map[string]any

// Dig walks a nested path through objects and arrays. Array steps are
// decimal indexes ("0"). A missing key, an out-of-range index, or a step
// into a scalar yields nil; Dig never fails.
func (d Document) Dig(path ...string) any {
	var cur any = map[string]any(d)
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[key]
		case Document:
			cur = node[key]
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Field returns the value at path as an output Field.
func (d Document) Field(path ...string) Field {
	return FieldOf(d.Dig(path...))
}

// Text returns the value at path as text, or "" when it is absent.
func (d Document) Text(path ...string) string {
	return d.Field(path...).String()
}

// Truthy reports whether the value at path is set to something other than
// null or false.
func (d Document) Truthy(path ...string) bool {
	switch v := d.Dig(path...).(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Has reports whether path resolves to a non-null value.
func (d Document) Has(path ...string) bool {
	return d.Dig(path...) != nil
}
