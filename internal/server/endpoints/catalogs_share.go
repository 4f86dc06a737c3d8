package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/svcctx"
)

// ShareResponse carries the shareable URLs for a catalog.
type ShareResponse struct {
	ViewURL  string `json:"view_url"`
	EmbedURL string `json:"embed_url"`
	Shares   int    `json:"shares"`
}

// ShareCatalogEndpoint handles GET /api/catalogs/{id}/share.
//
// URLs are built from the request origin; they carry no token and no
// expiry, so a share of a password protected catalog still prompts for
// the password.
type ShareCatalogEndpoint struct{}

func (e *ShareCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/catalogs/{id}/share", e.handler
}

func (e *ShareCatalogEndpoint) RequiresInit() bool { return true }

func (e *ShareCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogsFrom(r.Context())
	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}

	if err := store.RecordShare(rec.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec, _ = store.Get(rec.ID)

	origin := requestOrigin(r)
	writeJSON(w, http.StatusOK, ShareResponse{
		ViewURL:  fmt.Sprintf("%s/catalog/%s", origin, rec.ID),
		EmbedURL: fmt.Sprintf("%s/embed/%s", origin, rec.ID),
		Shares:   rec.Shares,
	})
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (e *ShareCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Get share URLs for a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ShareResponse
			if err := client.Get(cmd.Context(), "/api/catalogs/"+args[0]+"/share", &resp); err != nil {
				return err
			}
			fmt.Printf("View:  %s\n", resp.ViewURL)
			fmt.Printf("Embed: %s\n", resp.EmbedURL)
			return nil
		},
	}
}
