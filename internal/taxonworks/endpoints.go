// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonworks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pdiddy/matrix-export/pkg/types"
)

// Matrix fetches an observation matrix together with its rows.
func (c *Client) Matrix(ctx context.Context, matrixID int) (types.Matrix, error) {
	path := fmt.Sprintf("/observation_matrices/%d", matrixID)
	doc, err := c.FetchDocument(ctx, path, url.Values{"extend[]": {"rows"}})
	if err != nil {
		return types.Matrix{}, err
	}
	return parseMatrix(doc, matrixID), nil
}

// parseMatrix reads the row list of a matrix document. Rows without a
// row_object keep an empty ObjectType and are skipped downstream.
func parseMatrix(doc types.Document, matrixID int) types.Matrix {
	m := types.Matrix{
		ID:   doc.Text("id"),
		Name: doc.Text("name"),
	}
	if m.ID == "" {
		m.ID = strconv.Itoa(matrixID)
	}
	rows, _ := doc.Dig("rows").([]any)
	for i, raw := range rows {
		obj, _ := raw.(map[string]any)
		row := types.Document(obj)
		m.Rows = append(m.Rows, types.MatrixRow{
			Position:   i,
			ObjectType: row.Text("row_object", "base_class"),
			ObjectURL:  row.Text("row_object", "object_url"),
		})
	}
	return m
}

// Otu fetches the taxonomic unit at objectURL (e.g. "/otus/123").
func (c *Client) Otu(ctx context.Context, objectURL string) (types.Document, error) {
	return c.FetchDocument(ctx, objectURL, nil)
}

// NameStatus fetches the status summary of a taxon name, including its
// name elements.
func (c *Client) NameStatus(ctx context.Context, taxonNameID string) (types.Document, error) {
	path := "/taxon_names/" + url.PathEscape(taxonNameID) + "/status"
	return c.FetchDocument(ctx, path, url.Values{"extend[]": {"name_elements"}})
}

// TypeSpecimens lists the collection objects that are type material for a
// taxon name, with Darwin Core fields, type material, and origin citation.
func (c *Client) TypeSpecimens(ctx context.Context, taxonNameID string) ([]types.Document, error) {
	return c.FetchList(ctx, "/collection_objects", url.Values{
		"type_specimen_taxon_name_id": {taxonNameID},
		"extend[]":                    {"dwc_fields", "type_material", "origin_citation"},
	})
}

// Observations lists the observations of one descriptor for one OTU, with
// character states expanded.
func (c *Client) Observations(ctx context.Context, descriptorID int, otuID string) ([]types.Document, error) {
	return c.FetchList(ctx, "/observations", url.Values{
		"descriptor_id": {strconv.Itoa(descriptorID)},
		"otu_id":        {otuID},
		"extend[]":      {"character_state"},
	})
}
