package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/pdf"
	"github.com/folioview/folio/internal/svcctx"
	"github.com/folioview/folio/internal/viewer"
)

// ViewCatalogEndpoint handles POST /api/catalogs/{id}/view.
//
// Opens (or reopens) the browser session's viewing session for the
// catalog. The response returns after the first-paint page window has
// fully resolved, so the client can flip immediately on arrival.
type ViewCatalogEndpoint struct{}

func (e *ViewCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalogs/{id}/view", e.handler
}

func (e *ViewCatalogEndpoint) RequiresInit() bool { return true }

func (e *ViewCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogsFrom(r.Context())
	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}

	if !requireAccess(w, r, rec) {
		return
	}

	viewers := svcctx.ViewersFrom(r.Context())
	sessionID := svcctx.SessionIDFrom(r.Context())
	sess, err := viewers.Open(r.Context(), sessionID, rec.ID, rec.SourceRef)
	if err != nil {
		writeError(w, loadErrorStatus(err), err.Error())
		return
	}

	store.RecordView(rec.ID)
	if rec.PageCount != sess.PageCount() {
		store.SetPageCount(rec.ID, sess.PageCount())
	}

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// loadErrorStatus maps a document load failure to an HTTP status.
func loadErrorStatus(err error) int {
	var lerr *pdf.LoadError
	if errors.As(err, &lerr) {
		switch lerr.Kind {
		case pdf.LoadNetwork:
			return http.StatusBadGateway
		case pdf.LoadMalformed, pdf.LoadUnsupported:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func (e *ViewCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Open a viewing session for a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snap viewer.Snapshot
			if err := client.Post(cmd.Context(), "/api/catalogs/"+args[0]+"/view", nil, &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}
