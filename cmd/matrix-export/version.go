// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of matrix-export",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "matrix-export %s\n", version)
		fmt.Fprintf(w, "user agent: %s\n", userAgent())
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(w, "module: %s\n", info.Main.Path)
			fmt.Fprintf(w, "go: %s\n", info.GoVersion)
		}
	},
}

// userAgent is the User-Agent sent with every API request.
func userAgent() string {
	return "matrix-export/" + version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
