// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/matrix-export/pkg/types"

// TypeFields are the type-specimen columns.
type TypeFields struct {
	CatalogNumber           types.Field
	BufferedCollectingEvent types.Field
	BufferedOtherLabels     types.Field
	TypeOfType              types.Field
	TypeCitation            types.Field
	Sex                     types.Field
}

// TypeRecord reads the collection objects designated as type material for
// a taxon name. Only an unambiguous match is used: with zero or several
// specimens every field is absent.
func TypeRecord(docs []types.Document) TypeFields {
	if len(docs) != 1 {
		return TypeFields{}
	}
	co := docs[0]

	citation := co.Field("origin_citation", "source", "cached")
	if citation.IsAbsent() {
		citation = co.Field("dwc", "origin_citation", "source", "cached")
	}

	return TypeFields{
		CatalogNumber:           co.Field("dwc", "catalogNumber"),
		BufferedCollectingEvent: co.Field("buffered_collecting_event"),
		BufferedOtherLabels:     co.Field("buffered_other_labels"),
		TypeOfType:              co.Field("type_material", "0", "type_type"),
		TypeCitation:            citation,
		Sex:                     co.Field("dwc", "dwcSex"),
	}
}

// Apply copies the fields into their record columns.
func (f TypeFields) Apply(r *types.Record) {
	r.CatalogNumber = f.CatalogNumber
	r.BufferedCollectingEvent = f.BufferedCollectingEvent
	r.BufferedOtherLabels = f.BufferedOtherLabels
	r.TypeOfType = f.TypeOfType
	r.TypeCitation = f.TypeCitation
	r.Sex = f.Sex
}
