package main

import (
	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Folio server via HTTP.

These commands require a running server (folio serve).
Use --server to specify a custom server URL.

Examples:
  folio api health                  # Check server health
  folio api catalogs list           # List all catalogs
  folio api catalogs view <id>      # Open a viewing session
  folio api viewer goto --page 10   # Navigate the open session`,
}

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "Catalog management commands",
}

var viewerCmd = &cobra.Command{
	Use:   "viewer",
	Short: "Viewing session commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Catalogs as subcommand group
	catalogsCmd.AddCommand((&endpoints.ListCatalogsEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.GetCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.CreateCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.UpdateCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.DeleteCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.ShareCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.UnlockCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.DownloadCatalogEndpoint{}).Command(getServerURL))
	catalogsCmd.AddCommand((&endpoints.ViewCatalogEndpoint{}).Command(getServerURL))

	// Viewer session commands as subcommand group
	viewerCmd.AddCommand((&endpoints.ViewerStateEndpoint{}).Command(getServerURL))
	viewerCmd.AddCommand((&endpoints.ViewerGotoEndpoint{}).Command(getServerURL))
	viewerCmd.AddCommand((&endpoints.ViewerPageImageEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(catalogsCmd)
	apiCmd.AddCommand(viewerCmd)
	rootCmd.AddCommand(apiCmd)
}
