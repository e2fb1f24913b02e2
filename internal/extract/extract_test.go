// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/matrix-export/pkg/types"
)

func doc(t *testing.T, raw string) types.Document {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var d types.Document
	require.NoError(t, dec.Decode(&d))
	return d
}

func docs(t *testing.T, raw string) []types.Document {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out []types.Document
	require.NoError(t, dec.Decode(&out))
	return out
}

// --- NameStatus ---

const validNameStatusJSON = `{
  "elements": {"original_combination": {"genus": "Aus", "species": "bus", "subspecies": null}},
  "author": "Smith",
  "year": 1901,
  "pages": "12-13",
  "is_valid": true,
  "original_citation": "Smith, 1901: 12",
  "valid_name": {"genus": "Aus", "species": "bus", "original_citation": "ignored"},
  "status": "valid"
}`

func TestNameStatus_Valid(t *testing.T) {
	f := NameStatus(doc(t, validNameStatusJSON))

	assert.Equal(t, "Aus", f.OriginalGenus.String())
	assert.Equal(t, "bus", f.OriginalSpecies.String())
	assert.True(t, f.OriginalSubspecies.IsAbsent())
	assert.Equal(t, "Smith", f.Author.String())
	assert.Equal(t, "1901", f.Year.String())
	assert.Equal(t, "12-13", f.Page.String())
	assert.Equal(t, "Aus", f.CurrentGenus.String())
	assert.Equal(t, "bus", f.CurrentSpecies.String())
	assert.True(t, f.CurrentSubspecies.IsAbsent())
	assert.Equal(t, "Smith, 1901: 12", f.CurrentCitation.String())
	assert.Equal(t, "valid", f.Status.String())
	assert.Empty(t, f.Warnings)
}

func TestNameStatus_Citation(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        string
		absent      bool
		wantWarning bool
	}{
		{
			name: "invalid reads valid_name citation",
			raw:  `{"is_valid": false, "original_citation": "root", "valid_name": {"original_citation": "senior"}}`,
			want: "senior",
		},
		{
			name: "missing is_valid reads valid_name citation",
			raw:  `{"original_citation": "root", "valid_name": {"original_citation": "senior"}}`,
			want: "senior",
		},
		{
			name: "valid with misspelled key only",
			raw:  `{"is_valid": true, "original_ciation": "typo spelling"}`,
			want: "typo spelling",
		},
		{
			name: "invalid with misspelled key only",
			raw:  `{"is_valid": false, "valid_name": {"original_ciation": "typo senior"}}`,
			want: "typo senior",
		},
		{
			name: "both spellings agree",
			raw:  `{"is_valid": true, "original_citation": "same", "original_ciation": "same"}`,
			want: "same",
		},
		{
			name:        "both spellings disagree",
			raw:         `{"is_valid": true, "original_citation": "right", "original_ciation": "other"}`,
			want:        "right",
			wantWarning: true,
		},
		{
			name:   "valid without citation",
			raw:    `{"is_valid": true}`,
			absent: true,
		},
		{
			name:   "invalid without valid_name",
			raw:    `{"is_valid": false}`,
			absent: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NameStatus(doc(t, tt.raw))
			assert.Equal(t, tt.absent, f.CurrentCitation.IsAbsent())
			assert.Equal(t, tt.want, f.CurrentCitation.String())
			if tt.wantWarning {
				require.Len(t, f.Warnings, 1)
				assert.Contains(t, f.Warnings[0], "disagree")
			} else {
				assert.Empty(t, f.Warnings)
			}
		})
	}
}

func TestNameStatus_EmptyDocument(t *testing.T) {
	f := NameStatus(types.Document{})
	var r types.Record
	f.Apply(&r)
	for i, v := range r.Values() {
		assert.True(t, v.IsAbsent(), "column %s", types.Header()[i])
	}
}

func TestNameStatus_Apply(t *testing.T) {
	var r types.Record
	NameStatus(doc(t, validNameStatusJSON)).Apply(&r)

	assert.Equal(t, []string{
		"original_genus", "original_species", "author", "year", "page",
		"current_genus", "current_species", "current_citation", "taxon_name_status",
	}, r.Populated())
}

// --- TypeRecord ---

const singleSpecimenJSON = `[{
  "id": 9,
  "dwc": {"catalogNumber": "INHS 1234", "dwcSex": "female"},
  "buffered_collecting_event": "USA: IL",
  "buffered_other_labels": "Holotype label",
  "type_material": [{"type_type": "holotype"}, {"type_type": "paratype"}],
  "origin_citation": {"source": {"cached": "Smith, J. 1901. Title."}}
}]`

func TestTypeRecord_Single(t *testing.T) {
	f := TypeRecord(docs(t, singleSpecimenJSON))

	assert.Equal(t, TypeFields{
		CatalogNumber:           types.Str("INHS 1234"),
		BufferedCollectingEvent: types.Str("USA: IL"),
		BufferedOtherLabels:     types.Str("Holotype label"),
		TypeOfType:              types.Str("holotype"),
		TypeCitation:            types.Str("Smith, J. 1901. Title."),
		Sex:                     types.Str("female"),
	}, f)
}

func TestTypeRecord_CitationUnderDwc(t *testing.T) {
	f := TypeRecord(docs(t, `[{"dwc": {"origin_citation": {"source": {"cached": "nested"}}}}]`))
	assert.Equal(t, "nested", f.TypeCitation.String())
}

func TestTypeRecord_SingleWithMissingParts(t *testing.T) {
	f := TypeRecord(docs(t, `[{"buffered_other_labels": "only labels", "type_material": []}]`))

	assert.Equal(t, "only labels", f.BufferedOtherLabels.String())
	assert.True(t, f.CatalogNumber.IsAbsent())
	assert.True(t, f.TypeOfType.IsAbsent())
	assert.True(t, f.Sex.IsAbsent())
	assert.True(t, f.TypeCitation.IsAbsent())
}

func TestTypeRecord_NotExactlyOne(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"none", `[]`},
		{"two", `[{"dwc": {"catalogNumber": "A"}}, {"dwc": {"catalogNumber": "B"}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r types.Record
			TypeRecord(docs(t, tt.raw)).Apply(&r)
			assert.Empty(t, r.Populated())
		})
	}
}

func TestTypeRecord_Apply(t *testing.T) {
	var r types.Record
	TypeRecord(docs(t, singleSpecimenJSON)).Apply(&r)
	assert.Equal(t, []string{
		"catalog_number", "buffered_collecting_event", "buffered_other_labels",
		"type_of_type", "type_citation", "sex",
	}, r.Populated())
}

// --- Observations ---

func TestObservationValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"qualitative", `{"type": "Observation::Qualitative", "character_state": {"name": "red"}}`, "red"},
		{"qualitative without state", `{"type": "Observation::Qualitative"}`, ""},
		{"working", `{"type": "Observation::Working", "description": "note"}`, "note"},
		{"continuous", `{"type": "Observation::Continuous", "continuous_value": 3}`, "Observation::Continuous is not supported"},
		{"missing type", `{}`, " is not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObservationValue(doc(t, tt.raw)))
		})
	}
}

func TestObservations_Join(t *testing.T) {
	got := Observations(docs(t, `[
		{"type": "Observation::Qualitative", "character_state": {"name": "red"}},
		{"type": "Observation::Working", "description": "note"}
	]`))
	assert.Equal(t, "red | note", got.String())
}

func TestObservations_Empty(t *testing.T) {
	got := Observations(nil)
	assert.False(t, got.IsAbsent())
	assert.Equal(t, "", got.String())
}

func TestObservations_PreservesOrder(t *testing.T) {
	got := Observations(docs(t, `[
		{"type": "Observation::Working", "description": "b"},
		{"type": "Observation::Sample"},
		{"type": "Observation::Working", "description": "a"}
	]`))
	assert.Equal(t, "b | Observation::Sample is not supported | a", got.String())
}
