// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns one matrix row into one output record. Each kind
// of row object (Otu, CollectionObject, ...) has its own RowStrategy;
// rows whose kind has no registered strategy are skipped.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/matrix-export/pkg/types"
)

// ErrUnsupportedRow is returned for rows whose object kind has no
// strategy. It marks a skip, not a failure.
var ErrUnsupportedRow = errors.New("unsupported row type")

// Result is the contribution of one resolved row.
type Result struct {
	Record types.Record

	// Partial is set when only the identifier columns could be filled.
	Partial bool

	// Warnings are data anomalies found while resolving the row.
	Warnings []string
}

// RowStrategy resolves rows of one object kind.
type RowStrategy interface {
	// Kind is the row_object base_class this strategy handles.
	Kind() string
	Resolve(ctx context.Context, row types.MatrixRow) (Result, error)
}

// Resolver dispatches rows to the strategy registered for their kind.
type Resolver struct {
	strategies map[string]RowStrategy
}

// NewResolver returns a Resolver with the given strategies registered.
func NewResolver(strategies ...RowStrategy) *Resolver {
	r := &Resolver{strategies: make(map[string]RowStrategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds s, replacing any strategy already registered for its kind.
func (r *Resolver) Register(s RowStrategy) {
	r.strategies[s.Kind()] = s
}

// Kinds returns the supported row kinds in sorted order.
func (r *Resolver) Kinds() []string {
	kinds := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Supports reports whether rows of kind can be resolved.
func (r *Resolver) Supports(kind string) bool {
	_, ok := r.strategies[kind]
	return ok
}

// Resolve resolves a single row. Rows of an unregistered kind return an
// error wrapping ErrUnsupportedRow; any other error means the row could
// not be fetched and should be dropped.
func (r *Resolver) Resolve(ctx context.Context, row types.MatrixRow) (Result, error) {
	s, ok := r.strategies[row.ObjectType]
	if !ok {
		kind := row.ObjectType
		if kind == "" {
			kind = "(no row object)"
		}
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedRow, kind)
	}
	return s.Resolve(ctx, row)
}
