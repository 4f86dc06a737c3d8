package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/access"
	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/svcctx"
)

// UnlockRequest is the password submission payload.
type UnlockRequest struct {
	Password string `json:"password"`
}

// UnlockResponse reports the resulting access state.
type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}

// UnlockCatalogEndpoint handles POST /api/catalogs/{id}/unlock.
//
// A wrong password returns 401 and leaves the session untouched; the
// client may retry without limit. A correct password marks the catalog
// unlocked for the rest of the browser session.
type UnlockCatalogEndpoint struct{}

func (e *UnlockCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalogs/{id}/unlock", e.handler
}

func (e *UnlockCatalogEndpoint) RequiresInit() bool { return true }

func (e *UnlockCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	store := svcctx.CatalogsFrom(r.Context())
	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}

	gate := svcctx.GateFrom(r.Context())
	sessionID := svcctx.SessionIDFrom(r.Context())
	if err := gate.Unlock(sessionID, rec, req.Password); err != nil {
		if errors.Is(err, access.ErrBadPassword) {
			writeError(w, http.StatusUnauthorized, "incorrect password")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UnlockResponse{Unlocked: true})
}

func (e *UnlockCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "unlock <id>",
		Short: "Unlock a password protected catalog for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp UnlockResponse
			err := client.Post(cmd.Context(), "/api/catalogs/"+args[0]+"/unlock", UnlockRequest{Password: password}, &resp)
			if err != nil {
				return err
			}
			fmt.Println("Unlocked")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Catalog password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// requireAccess runs the gate for a catalog and writes the error response
// when the session may not open it. Returns true when access is granted.
func requireAccess(w http.ResponseWriter, r *http.Request, rec catalog.Record) bool {
	gate := svcctx.GateFrom(r.Context())
	sessionID := svcctx.SessionIDFrom(r.Context())
	switch gate.Check(sessionID, rec) {
	case access.Unlocked:
		return true
	case access.Locked:
		writeError(w, http.StatusUnauthorized, "password required")
	case access.Denied:
		writeError(w, http.StatusForbidden, "catalog is private")
	}
	return false
}
