// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes a finished table. Every format is written to
// a temporary file in the destination directory and renamed into place,
// so an interrupted write never leaves a truncated artifact behind.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/matrix-export/internal/table"
)

// Format selects the serialization of a table.
type Format string

const (
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name. An empty name selects TSV.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatTSV, nil
	case FormatTSV, FormatJSON, FormatYAML, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want tsv, json, yaml, or sqlite)", name)
	}
}

// Write serializes t to path in the given format.
func Write(t *table.Table, path string, format Format) error {
	switch format {
	case FormatTSV, "":
		return writeAtomic(path, func(w io.Writer) error { return WriteTSV(t, w) })
	case FormatJSON:
		return writeAtomic(path, func(w io.Writer) error { return WriteJSON(t, w) })
	case FormatYAML:
		return writeAtomic(path, func(w io.Writer) error { return WriteYAML(t, w) })
	case FormatSQLite:
		return WriteSQLite(t, path)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteTSV writes the header line and one tab-separated line per record.
// Absent fields are empty cells.
func WriteTSV(t *table.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("writing TSV: %w", err)
	}
	return nil
}

// WriteJSON writes an array of objects whose keys follow header order.
// Absent fields are null.
func WriteJSON(t *table.Table, w io.Writer) error {
	objects := make([]json.RawMessage, len(t.Records))
	for i, r := range t.Records {
		var b strings.Builder
		b.WriteByte('{')
		for j, f := range r.Values() {
			if j > 0 {
				b.WriteByte(',')
			}
			key, _ := json.Marshal(t.Header[j])
			val, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", t.Header[j], err)
			}
			b.Write(key)
			b.WriteByte(':')
			b.Write(val)
		}
		b.WriteByte('}')
		objects[i] = json.RawMessage(b.String())
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes a sequence of mappings whose keys follow header order.
// Absent fields are null.
func WriteYAML(t *table.Table, w io.Writer) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range t.Records {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for j, f := range r.Values() {
			val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.String()}
			if f.IsAbsent() {
				val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Header[j]},
				val,
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// writeAtomic writes through fn into a temp file next to path and renames
// it into place on success.
func writeAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".matrix-export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := fn(tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
