// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// RowKindOtu is the row_object base_class for taxonomic-unit rows.
const RowKindOtu = "Otu"

// MatrixRow is one row of an observation matrix.
type MatrixRow struct {
	// Position is the zero-based index of the row in the matrix.
	Position int `json:"position" yaml:"position"`

	// ObjectType is the row object's base_class (e.g. "Otu", "CollectionObject").
	ObjectType string `json:"row_object_type" yaml:"row_object_type"`

	// ObjectURL is the API path of the row object (e.g. "/otus/123").
	ObjectURL string `json:"row_object_reference" yaml:"row_object_reference"`
}

// ObjectID returns the last path segment of ObjectURL.
func (r MatrixRow) ObjectID() string {
	ref := strings.TrimRight(r.ObjectURL, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// Matrix is a snapshot of an observation matrix and its rows.
type Matrix struct {
	ID   string      `json:"id" yaml:"id"`
	Name string      `json:"name" yaml:"name"`
	Rows []MatrixRow `json:"rows" yaml:"rows"`
}
