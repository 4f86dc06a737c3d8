package main

import (
	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Catalog publishing service with a flip-book PDF viewer",
	Long: `Folio serves PDF catalogs through a page-flipping viewer.

Operators upload PDF documents, tag them with metadata and an access
policy (public, private, or password protected). Readers browse the
public catalog list and read documents through a flip-book UI backed
by a server-side page rendering pipeline:
  - Pages are rasterized at 2x resolution for crisp zooming
  - The first pages render before the viewer opens, the rest in background
  - Password-protected catalogs unlock per browser session`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.folio/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "folio home directory (default: ~/.folio)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
