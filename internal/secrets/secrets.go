// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads TaxonWorks credentials from a directory of
// plain-text files. Each file holds one secret: the filename is the key
// and the trimmed file contents are the value.
//
// Recognized keys: taxonworks-api, taxonworks-token, taxonworks-project-token.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Keys of the recognized secret files.
const (
	KeyAPI          = "taxonworks-api"
	KeyToken        = "taxonworks-token"
	KeyProjectToken = "taxonworks-project-token"
)

// Secrets maps secret file names to their values.
type Secrets map[string]string

// Get returns the value for key, or "" when it was not loaded.
func (s Secrets) Get(key string) string {
	return s[key]
}

// Or returns value when it is non-empty and the secret for key otherwise.
// Explicit settings win over secret files.
func (s Secrets) Or(value, key string) string {
	if value != "" {
		return value
	}
	return s.Get(key)
}

// Load reads every regular, non-hidden file in dir. A missing directory
// is not an error and yields empty Secrets. Unreadable files are reported
// on warn and skipped.
func Load(dir string, warn io.Writer) (Secrets, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}
