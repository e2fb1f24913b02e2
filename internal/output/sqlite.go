// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/matrix-export/internal/table"
)

// sqliteTable is the name of the table holding exported rows.
const sqliteTable = "matrix_rows"

// WriteSQLite stores t in a fresh SQLite database at path, one row per
// record with a position column followed by one TEXT column per header
// name. Absent fields are NULL. The database is built in a temp file and
// renamed over path, so whatever was there before is replaced whole.
func WriteSQLite(t *table.Table, path string) error {
	return WriteSQLiteContext(context.Background(), t, path)
}

// WriteSQLiteContext is WriteSQLite with a caller-supplied context.
func WriteSQLiteContext(ctx context.Context, t *table.Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".matrix-export-*.db")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := fillSQLite(ctx, t, tmpPath); err != nil {
		removeSQLite(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		removeSQLite(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		removeSQLite(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// fillSQLite creates the rows table in the empty database at path and
// inserts every record in one transaction. The database is closed on
// return.
func fillSQLite(ctx context.Context, t *table.Table, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(t.Header)); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(t.Header))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Records {
		values := r.Values()
		args := make([]any, 0, len(values)+1)
		args = append(args, i)
		for _, f := range values {
			args = append(args, f.NullString())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// removeSQLite deletes a partly built database and its rollback journal.
func removeSQLite(path string) {
	os.Remove(path)
	os.Remove(path + "-journal")
}

func createTableSQL(header []string) string {
	cols := make([]string, 0, len(header)+1)
	cols = append(cols, "position INTEGER PRIMARY KEY")
	for _, name := range header {
		cols = append(cols, quoteIdent(name)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", sqliteTable, strings.Join(cols, ",\n\t"))
}

func insertSQL(header []string) string {
	names := make([]string, 0, len(header)+1)
	names = append(names, "position")
	for _, name := range header {
		names = append(names, quoteIdent(name))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sqliteTable, strings.Join(names, ", "), placeholders)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
