// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/matrix-export/pkg/types"
)

// ObservationSeparator joins several observations of one descriptor.
const ObservationSeparator = " | "

const (
	observationQualitative = "Observation::Qualitative"
	observationWorking     = "Observation::Working"
)

// ObservationValue returns the text of one observation: the character
// state name for qualitative observations, the description for working
// notes, and an "is not supported" marker for any other type.
func ObservationValue(doc types.Document) string {
	kind := doc.Text("type")
	switch kind {
	case observationQualitative:
		return doc.Text("character_state", "name")
	case observationWorking:
		return doc.Text("description")
	default:
		return kind + " is not supported"
	}
}

// Observations joins the values of all observations in order. The result
// is always present; no observations yields an empty string.
func Observations(docs []types.Document) types.Field {
	values := make([]string, len(docs))
	for i, doc := range docs {
		values[i] = ObservationValue(doc)
	}
	return types.Str(strings.Join(values, ObservationSeparator))
}
