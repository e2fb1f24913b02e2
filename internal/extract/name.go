// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract maps TaxonWorks documents onto output fields. Every
// function is pure: a missing nested attribute yields an absent field and
// never an error, so columns stay aligned whatever the API returns.
package extract

import (
	"fmt"
	"slices"

	"github.com/pdiddy/matrix-export/pkg/types"
)

// Attribute spellings for the original citation. Some API versions emit
// the misspelled key, so both are read.
const (
	citationKey      = "original_citation"
	citationAliasKey = "original_ciation"
)

// NameStatusFields are the nomenclatural columns read from a taxon name
// status document.
type NameStatusFields struct {
	OriginalGenus      types.Field
	OriginalSpecies    types.Field
	OriginalSubspecies types.Field
	Author             types.Field
	Year               types.Field
	Page               types.Field
	CurrentGenus       types.Field
	CurrentSpecies     types.Field
	CurrentSubspecies  types.Field
	CurrentCitation    types.Field
	Status             types.Field

	// Warnings describes data anomalies worth reporting, such as the two
	// citation spellings disagreeing.
	Warnings []string
}

// NameStatus reads a /taxon_names/:id/status document. The citation comes
// from the root when the name is valid and from valid_name otherwise.
func NameStatus(doc types.Document) NameStatusFields {
	f := NameStatusFields{
		OriginalGenus:      doc.Field("elements", "original_combination", "genus"),
		OriginalSpecies:    doc.Field("elements", "original_combination", "species"),
		OriginalSubspecies: doc.Field("elements", "original_combination", "subspecies"),
		Author:             doc.Field("author"),
		Year:               doc.Field("year"),
		Page:               doc.Field("pages"),
		CurrentGenus:       doc.Field("valid_name", "genus"),
		CurrentSpecies:     doc.Field("valid_name", "species"),
		CurrentSubspecies:  doc.Field("valid_name", "subspecies"),
		Status:             doc.Field("status"),
	}

	var scope []string
	if !doc.Truthy("is_valid") {
		scope = []string{"valid_name"}
	}
	citation, warning := citationField(doc, scope)
	f.CurrentCitation = citation
	if warning != "" {
		f.Warnings = append(f.Warnings, warning)
	}
	return f
}

// citationField reads the citation under scope, accepting either spelling.
// When both are present and differ the correct spelling is used and a
// warning names the conflict.
func citationField(doc types.Document, scope []string) (types.Field, string) {
	correct := doc.Field(slices.Concat(scope, []string{citationKey})...)
	alias := doc.Field(slices.Concat(scope, []string{citationAliasKey})...)

	if correct.IsAbsent() {
		return alias, ""
	}
	if !alias.IsAbsent() && alias.String() != correct.String() {
		return correct, fmt.Sprintf("%s and %s disagree (%q vs %q), using %s",
			citationKey, citationAliasKey, correct.String(), alias.String(), citationKey)
	}
	return correct, ""
}

// Apply copies the fields into their record columns.
func (f NameStatusFields) Apply(r *types.Record) {
	r.OriginalGenus = f.OriginalGenus
	r.OriginalSpecies = f.OriginalSpecies
	r.OriginalSubspecies = f.OriginalSubspecies
	r.Author = f.Author
	r.Year = f.Year
	r.Page = f.Page
	r.CurrentGenus = f.CurrentGenus
	r.CurrentSpecies = f.CurrentSpecies
	r.CurrentSubspecies = f.CurrentSubspecies
	r.CurrentCitation = f.CurrentCitation
	r.TaxonNameStatus = f.Status
}
