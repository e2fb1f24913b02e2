package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConfigMissing reports that a required setting was not supplied.
var ErrConfigMissing = errors.New("required configuration missing")

// HTTPConfig holds shared HTTP settings used when talking to the API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "matrix-export/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Credentials are the two static tokens appended to every request.
type Credentials struct {
	// Token is the user token, found on the TaxonWorks account page.
	Token string `json:"token" yaml:"token"`

	// ProjectToken is the project token, found on the project page.
	ProjectToken string `json:"project_token" yaml:"project_token"`
}

// APIConfig locates a TaxonWorks API and how to authenticate against it.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root, e.g. "https://sfg.taxonworks.org/api/v1".
	BaseURL string `json:"base_url" yaml:"base_url"`

	Credentials `yaml:",inline"`
}

// DescriptorColumns binds each observation column to a matrix descriptor id.
type DescriptorColumns struct {
	HigherGrouping  int `json:"higher_grouping" yaml:"higher_grouping"`
	PublishedPhotos int `json:"published_photos" yaml:"published_photos"`
	Remarks         int `json:"remarks" yaml:"remarks"`
}

// DefaultDescriptorColumns are the descriptors of the sample project.
var DefaultDescriptorColumns = DescriptorColumns{
	HigherGrouping:  1409,
	PublishedPhotos: 1484,
	Remarks:         1453,
}

// ExportConfig holds settings for one export run.
type ExportConfig struct {
	API APIConfig `json:"api" yaml:"api"`

	// MatrixID identifies the observation matrix to export.
	MatrixID int `json:"matrix_id" yaml:"matrix_id"`

	// Descriptors selects the observation columns.
	Descriptors DescriptorColumns `json:"descriptors" yaml:"descriptors"`

	// RowDelay is the minimum pause between consecutive rows (default 1s).
	RowDelay time.Duration `json:"row_delay" yaml:"row_delay"`

	// OutputPath is the destination file.
	OutputPath string `json:"output" yaml:"output"`

	// Format selects the output format: tsv, json, yaml, or sqlite.
	Format string `json:"format" yaml:"format"`
}

// Validate checks that the endpoint and both tokens are set. The returned
// error wraps ErrConfigMissing and names every missing setting.
func (c ExportConfig) Validate() error {
	var missing []string
	if c.API.BaseURL == "" {
		missing = append(missing, "TAXONWORKS_API")
	}
	if c.API.Token == "" {
		missing = append(missing, "TAXONWORKS_TOKEN")
	}
	if c.API.ProjectToken == "" {
		missing = append(missing, "TAXONWORKS_PROJECT_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}
	if c.MatrixID <= 0 {
		return fmt.Errorf("invalid matrix id %d", c.MatrixID)
	}
	return nil
}
