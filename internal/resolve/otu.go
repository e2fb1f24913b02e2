// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"

	"github.com/pdiddy/matrix-export/internal/extract"
	"github.com/pdiddy/matrix-export/pkg/types"
)

// Source provides the documents an Otu row depends on. The taxonworks
// Client satisfies it.
type Source interface {
	Otu(ctx context.Context, objectURL string) (types.Document, error)
	NameStatus(ctx context.Context, taxonNameID string) (types.Document, error)
	TypeSpecimens(ctx context.Context, taxonNameID string) ([]types.Document, error)
	Observations(ctx context.Context, descriptorID int, otuID string) ([]types.Document, error)
}

// OtuStrategy resolves taxonomic-unit rows: the OTU, then its taxon name
// status, then the name's type specimen, then one observation column per
// configured descriptor.
type OtuStrategy struct {
	src         Source
	descriptors types.DescriptorColumns
}

// NewOtuStrategy returns a strategy reading from src. A descriptor id of
// zero disables that column, which is then left absent.
func NewOtuStrategy(src Source, descriptors types.DescriptorColumns) *OtuStrategy {
	return &OtuStrategy{src: src, descriptors: descriptors}
}

// Kind returns "Otu".
func (s *OtuStrategy) Kind() string { return types.RowKindOtu }

// Resolve fetches the chain for one OTU row. An OTU without a taxon name
// yields a partial record holding only the two identifier columns.
func (s *OtuStrategy) Resolve(ctx context.Context, row types.MatrixRow) (Result, error) {
	if row.ObjectURL == "" {
		return Result{}, fmt.Errorf("row %d has no object reference", row.Position)
	}

	otu, err := s.src.Otu(ctx, row.ObjectURL)
	if err != nil {
		return Result{}, fmt.Errorf("fetching otu: %w", err)
	}

	rec := types.Record{
		OtuID:       otu.Field("id"),
		TaxonNameID: otu.Field("taxon_name_id"),
	}
	if rec.OtuID.IsAbsent() {
		rec.OtuID = types.Str(row.ObjectID())
	}
	if rec.TaxonNameID.IsAbsent() {
		return Result{Record: rec, Partial: true}, nil
	}
	nameID := rec.TaxonNameID.String()

	var res Result

	status, err := s.src.NameStatus(ctx, nameID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching taxon name %s status: %w", nameID, err)
	}
	names := extract.NameStatus(status)
	names.Apply(&rec)
	res.Warnings = append(res.Warnings, names.Warnings...)

	specimens, err := s.src.TypeSpecimens(ctx, nameID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching type specimens for taxon name %s: %w", nameID, err)
	}
	extract.TypeRecord(specimens).Apply(&rec)
	if len(specimens) > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("taxon name %s has %d type specimens, type columns left empty", nameID, len(specimens)))
	}

	for _, col := range descriptorColumns(&rec, s.descriptors) {
		if col.descriptorID == 0 {
			continue
		}
		obs, err := s.src.Observations(ctx, col.descriptorID, rec.OtuID.String())
		if err != nil {
			return Result{}, fmt.Errorf("fetching %s observations (descriptor %d): %w", col.name, col.descriptorID, err)
		}
		*col.dst = extract.Observations(obs)
	}

	res.Record = rec
	return res, nil
}

type descriptorColumn struct {
	name         string
	descriptorID int
	dst          *types.Field
}

// descriptorColumns lists the observation columns of r in header order.
func descriptorColumns(r *types.Record, d types.DescriptorColumns) []descriptorColumn {
	return []descriptorColumn{
		{"higher_grouping", d.HigherGrouping, &r.HigherGrouping},
		{"published_photos", d.PublishedPhotos, &r.PublishedPhotos},
		{"remarks", d.Remarks, &r.Remarks},
	}
}
