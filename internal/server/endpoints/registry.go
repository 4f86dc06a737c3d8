package endpoints

import (
	"github.com/folioview/folio/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct{}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Catalog endpoints
		&ListCatalogsEndpoint{},
		&CreateCatalogEndpoint{},
		&GetCatalogEndpoint{},
		&UpdateCatalogEndpoint{},
		&DeleteCatalogEndpoint{},
		&UploadCatalogEndpoint{},

		// Catalog actions
		&UnlockCatalogEndpoint{},
		&ShareCatalogEndpoint{},
		&DownloadCatalogEndpoint{},
		&ViewCatalogEndpoint{},

		// Viewer endpoints
		&ViewerStateEndpoint{},
		&ViewerGotoEndpoint{},
		&ViewerFlipEndpoint{},
		&ViewerKeyEndpoint{},
		&ViewerZoomEndpoint{},
		&ViewerSidebarEndpoint{},
		&ViewerPageImageEndpoint{},
	}
}
