// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the matrix-export CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/matrix-export/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the matrix-export CLI.
var rootCmd = &cobra.Command{
	Use:   "matrix-export",
	Short: "Export a TaxonWorks observation matrix as a flat table",
	Long: `matrix-export walks the rows of a TaxonWorks observation matrix, follows
each OTU to its taxon name, name status, type specimen, and observations,
and writes one denormalized record per row to a tab-separated file.

Credentials come from TAXONWORKS_API, TAXONWORKS_TOKEN, and
TAXONWORKS_PROJECT_TOKEN, a config file, or files in .secrets/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./matrix-export.yaml or ~/.config/matrix-export/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("matrix-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "matrix-export"))
		}
	}

	viper.SetEnvPrefix("MATRIX_EXPORT")
	viper.AutomaticEnv()
	bindCredentialEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindCredentialEnv maps the conventional TaxonWorks variables onto the
// api, token, and project_token keys.
func bindCredentialEnv(v *viper.Viper) {
	v.BindEnv("api", "TAXONWORKS_API", "MATRIX_EXPORT_API")
	v.BindEnv("token", "TAXONWORKS_TOKEN", "MATRIX_EXPORT_TOKEN")
	v.BindEnv("project_token", "TAXONWORKS_PROJECT_TOKEN", "MATRIX_EXPORT_PROJECT_TOKEN")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
