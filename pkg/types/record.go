// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"reflect"
	"slices"
)

// Record is one output row. The struct is the column contract: field order
// is column order and each col tag is the header name, so the header and
// every row are derived from the same declaration.
type Record struct {
	OtuID       Field `col:"otu_id"`
	TaxonNameID Field `col:"taxon_name_id"`

	OriginalGenus      Field `col:"original_genus"`
	OriginalSpecies    Field `col:"original_species"`
	OriginalSubspecies Field `col:"original_subspecies"`
	Author             Field `col:"author"`
	Year               Field `col:"year"`
	Page               Field `col:"page"`
	CurrentGenus       Field `col:"current_genus"`
	CurrentSpecies     Field `col:"current_species"`
	CurrentSubspecies  Field `col:"current_subspecies"`
	CurrentCitation    Field `col:"current_citation"`
	TaxonNameStatus    Field `col:"taxon_name_status"`

	CatalogNumber           Field `col:"catalog_number"`
	BufferedCollectingEvent Field `col:"buffered_collecting_event"`
	BufferedOtherLabels     Field `col:"buffered_other_labels"`
	TypeOfType              Field `col:"type_of_type"`
	TypeCitation            Field `col:"type_citation"`
	Sex                     Field `col:"sex"`

	HigherGrouping  Field `col:"higher_grouping"`
	PublishedPhotos Field `col:"published_photos"`
	Remarks         Field `col:"remarks"`
}

var header = columnNames()

func columnNames() []string {
	t := reflect.TypeOf(Record{})
	names := make([]string, t.NumField())
	for i := range names {
		names[i] = t.Field(i).Tag.Get("col")
	}
	return names
}

// Header returns the column names in output order.
func Header() []string {
	return slices.Clone(header)
}

// Values returns the record's fields in column order.
func (r Record) Values() []Field {
	v := reflect.ValueOf(r)
	out := make([]Field, v.NumField())
	for i := range out {
		out[i] = v.Field(i).Interface().(Field)
	}
	return out
}

// Strings returns the record's cells as text; absent fields become "".
func (r Record) Strings() []string {
	values := r.Values()
	out := make([]string, len(values))
	for i, f := range values {
		out[i] = f.String()
	}
	return out
}

// Populated returns the header names of the fields that carry a value.
func (r Record) Populated() []string {
	var cols []string
	for i, f := range r.Values() {
		if !f.IsAbsent() {
			cols = append(cols, header[i])
		}
	}
	return cols
}
