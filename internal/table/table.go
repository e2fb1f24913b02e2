// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table drives row resolution across a whole matrix and collects
// the accepted records, in matrix order, under the fixed header.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/matrix-export/internal/httputil"
	"github.com/pdiddy/matrix-export/internal/resolve"
	"github.com/pdiddy/matrix-export/pkg/types"
)

// Table is the header plus the accepted records.
type Table struct {
	Header  []string
	Records []types.Record
}

// New returns an empty table carrying the record header.
func New() *Table {
	return &Table{Header: types.Header()}
}

// Append adds a record at the end.
func (t *Table) Append(r types.Record) {
	t.Records = append(t.Records, r)
}

// Len returns the number of data records.
func (t *Table) Len() int { return len(t.Records) }

// Rows returns the header followed by every record as text cells.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records)+1)
	rows = append(rows, t.Header)
	for _, r := range t.Records {
		rows = append(rows, r.Strings())
	}
	return rows
}

// RowResolver resolves single matrix rows. *resolve.Resolver satisfies it.
type RowResolver interface {
	Supports(kind string) bool
	Resolve(ctx context.Context, row types.MatrixRow) (resolve.Result, error)
}

// Summary counts how the rows of a run were handled.
type Summary struct {
	Rows     int
	Accepted int
	Partial  int
	Skipped  int
	Failed   int
}

// Builder resolves matrix rows one at a time and accumulates the table.
type Builder struct {
	Resolver RowResolver

	// Pacer spaces the fetch sequences of consecutive rows. Nil disables
	// pacing.
	Pacer *httputil.Pacer

	// Out receives progress and diagnostics. Nil discards them.
	Out io.Writer
}

// Build processes every row of m in order. Unsupported rows are skipped
// and rows whose fetches fail are dropped; both are reported and the run
// continues. If ctx is cancelled, Build stops and returns the rows
// accepted so far together with the context error.
func (b *Builder) Build(ctx context.Context, m types.Matrix) (*Table, Summary, error) {
	w := b.Out
	if w == nil {
		w = io.Discard
	}
	t := New()
	summary := Summary{Rows: len(m.Rows)}

	fmt.Fprintf(w, "processing %d rows\n", len(m.Rows))

	for i, row := range m.Rows {
		if !b.Resolver.Supports(row.ObjectType) {
			fmt.Fprintf(w, "skipped: row %d (%s is not supported)\n", i, describeKind(row.ObjectType))
			summary.Skipped++
			continue
		}

		if b.Pacer != nil {
			if err := b.Pacer.Wait(ctx); err != nil {
				return t, summary, err
			}
		}
		fmt.Fprintf(w, "row: %d/%d\n", i+1, len(m.Rows))

		res, err := b.Resolver.Resolve(ctx, row)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return t, summary, ctxErr
			}
			if errors.Is(err, resolve.ErrUnsupportedRow) {
				fmt.Fprintf(w, "skipped: row %d (%v)\n", i, err)
				summary.Skipped++
				continue
			}
			fmt.Fprintf(w, "failed:  row %d %s (%v)\n", i, row.ObjectURL, err)
			summary.Failed++
			continue
		}

		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "warning: row %d: %s\n", i, warning)
		}
		if res.Partial {
			fmt.Fprintf(w, "partial: row %d %s (no taxon name)\n", i, row.ObjectURL)
			summary.Partial++
		}
		t.Append(res.Record)
		summary.Accepted++
	}

	fmt.Fprintf(w, "done: %d accepted (%d partial), %d skipped, %d failed (total: %d)\n",
		summary.Accepted, summary.Partial, summary.Skipped, summary.Failed, summary.Rows)
	return t, summary, nil
}

func describeKind(kind string) string {
	if kind == "" {
		return "row without row object"
	}
	return kind
}
