// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/matrix-export/internal/httputil"
	"github.com/pdiddy/matrix-export/internal/output"
	"github.com/pdiddy/matrix-export/internal/resolve"
	"github.com/pdiddy/matrix-export/internal/secrets"
	"github.com/pdiddy/matrix-export/internal/table"
	"github.com/pdiddy/matrix-export/internal/taxonworks"
	"github.com/pdiddy/matrix-export/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMatrixID  = 51
	defaultOutput    = "2665_data.tsv"
)

const usageHint = `Set the API endpoint and both tokens before running, for example:

  TAXONWORKS_API=http://127.0.0.1:3000/api/v1 TAXONWORKS_TOKEN=your_token \
  TAXONWORKS_PROJECT_TOKEN=your_project_token matrix-export export

or put them in .secrets/taxonworks-api, .secrets/taxonworks-token, and
.secrets/taxonworks-project-token.`

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a matrix to a tab-separated file",
	Long: `Export fetches the rows of an observation matrix and resolves each OTU row
to one 22-column record: identifiers, original and current name, citation
and status, type specimen details, and the joined observations of three
descriptors. Rows that are not OTUs are skipped; rows whose requests fail
are dropped and reported. The file is written once, at the end of the run
or when the run is interrupted.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("api", "", "TaxonWorks API base URL (default $TAXONWORKS_API)")
	f.Int("matrix-id", defaultMatrixID, "observation matrix to export")
	f.Int("higher-grouping", types.DefaultDescriptorColumns.HigherGrouping, "descriptor id for the higher_grouping column (0 disables)")
	f.Int("published-photos", types.DefaultDescriptorColumns.PublishedPhotos, "descriptor id for the published_photos column (0 disables)")
	f.Int("remarks", types.DefaultDescriptorColumns.Remarks, "descriptor id for the remarks column (0 disables)")
	f.StringP("output", "o", defaultOutput, "output file")
	f.String("format", string(output.FormatTSV), "output format: tsv, json, yaml, or sqlite")
	f.Duration("delay", httputil.DefaultInterval, "pause between consecutive rows (0 disables pacing)")
	f.Duration("timeout", 0, "HTTP request timeout (default 60s)")

	for key, flag := range map[string]string{
		"api":                          "api",
		"matrix_id":                    "matrix-id",
		"descriptors.higher_grouping":  "higher-grouping",
		"descriptors.published_photos": "published-photos",
		"descriptors.remarks":          "remarks",
		"output":                       "output",
		"format":                       "format",
		"delay":                        "delay",
		"timeout":                      "timeout",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(exportCmd)
}

// exportConfig assembles the run settings. Flags, environment, and config
// file are read through v; secret files fill in credentials left unset.
func exportConfig(v *viper.Viper, s secrets.Secrets) types.ExportConfig {
	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	delay := httputil.DefaultInterval
	if v.IsSet("delay") {
		delay = v.GetDuration("delay")
	}
	matrixID := v.GetInt("matrix_id")
	if !v.IsSet("matrix_id") {
		matrixID = defaultMatrixID
	}
	out := v.GetString("output")
	if out == "" {
		out = defaultOutput
	}

	descriptors := types.DefaultDescriptorColumns
	if v.IsSet("descriptors.higher_grouping") {
		descriptors.HigherGrouping = v.GetInt("descriptors.higher_grouping")
	}
	if v.IsSet("descriptors.published_photos") {
		descriptors.PublishedPhotos = v.GetInt("descriptors.published_photos")
	}
	if v.IsSet("descriptors.remarks") {
		descriptors.Remarks = v.GetInt("descriptors.remarks")
	}

	return types.ExportConfig{
		API: types.APIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: userAgent(),
			},
			BaseURL: s.Or(v.GetString("api"), secrets.KeyAPI),
			Credentials: types.Credentials{
				Token:        s.Or(v.GetString("token"), secrets.KeyToken),
				ProjectToken: s.Or(v.GetString("project_token"), secrets.KeyProjectToken),
			},
		},
		MatrixID:    matrixID,
		Descriptors: descriptors,
		RowDelay:    delay,
		OutputPath:  out,
		Format:      v.GetString("format"),
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := exportConfig(viper.GetViper(), loadedSecrets)
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, types.ErrConfigMissing) {
			printUsageDiagnostic(os.Stderr, err)
			return nil
		}
		return err
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return export(ctx, cfg, format, &http.Client{Timeout: cfg.API.Timeout}, os.Stdout)
}

// export runs one matrix export and writes the table. An interrupted run
// still writes the rows resolved before the interruption.
func export(ctx context.Context, cfg types.ExportConfig, format output.Format, httpClient *http.Client, w io.Writer) error {
	client := taxonworks.NewClient(httpClient, cfg.API)

	m, err := client.Matrix(ctx, cfg.MatrixID)
	if err != nil {
		return fmt.Errorf("fetching matrix %d: %w", cfg.MatrixID, err)
	}

	b := &table.Builder{
		Resolver: resolve.NewResolver(resolve.NewOtuStrategy(client, cfg.Descriptors)),
		Pacer:    httputil.NewPacer(cfg.RowDelay),
		Out:      w,
	}
	tbl, _, buildErr := b.Build(ctx, m)
	if buildErr != nil {
		fmt.Fprintf(w, "interrupted: %v; writing %d rows resolved so far\n", buildErr, tbl.Len())
	}

	if err := output.Write(tbl, cfg.OutputPath, format); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}
	fmt.Fprintf(w, "Wrote file %s (%d rows).\n", cfg.OutputPath, tbl.Len())
	return nil
}

func printUsageDiagnostic(w io.Writer, err error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, err)
	fmt.Fprintln(w, usageHint)
	fmt.Fprintln(w)
}
