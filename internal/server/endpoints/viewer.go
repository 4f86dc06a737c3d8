package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/svcctx"
	"github.com/folioview/folio/internal/viewer"
)

// activeSession resolves the browser session's viewing session, writing a
// 404 when none is open.
func activeSession(w http.ResponseWriter, r *http.Request) (*viewer.Session, bool) {
	viewers := svcctx.ViewersFrom(r.Context())
	sess, ok := viewers.Get(svcctx.SessionIDFrom(r.Context()))
	if !ok {
		writeError(w, http.StatusNotFound, "no viewing session open")
		return nil, false
	}
	return sess, true
}

// NavResponse is the result of a navigation operation: whether the client
// must command its flip widget, plus the resulting viewer state.
type NavResponse struct {
	CommandWidget bool            `json:"command_widget"`
	State         viewer.Snapshot `json:"state"`
}

// ViewerStateEndpoint handles GET /api/viewer.
type ViewerStateEndpoint struct{}

func (e *ViewerStateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/viewer", e.handler
}

func (e *ViewerStateEndpoint) RequiresInit() bool { return true }

func (e *ViewerStateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *ViewerStateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current viewing session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snap viewer.Snapshot
			if err := client.Get(cmd.Context(), "/api/viewer", &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}

// GotoRequest targets a 1-based page.
type GotoRequest struct {
	Page int `json:"page"`
}

// ViewerGotoEndpoint handles POST /api/viewer/goto.
type ViewerGotoEndpoint struct{}

func (e *ViewerGotoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/viewer/goto", e.handler
}

func (e *ViewerGotoEndpoint) RequiresInit() bool { return true }

func (e *ViewerGotoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req GotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cmdWidget, err := sess.GoToPage(req.Page)
	if err != nil {
		if errors.Is(err, viewer.ErrOutOfRange) {
			writeError(w, http.StatusUnprocessableEntity, "page out of range")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NavResponse{CommandWidget: cmdWidget, State: sess.Snapshot()})
}

func (e *ViewerGotoEndpoint) Command(getServerURL func() string) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "goto",
		Short: "Jump to a page in the open viewing session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp NavResponse
			if err := client.Post(cmd.Context(), "/api/viewer/goto", GotoRequest{Page: page}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	return cmd
}

// FlipRequest reports the widget's 0-based index after a user flip.
type FlipRequest struct {
	Index int `json:"index"`
}

// ViewerFlipEndpoint handles POST /api/viewer/flip, the widget-originated
// side of navigation.
type ViewerFlipEndpoint struct{}

func (e *ViewerFlipEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/viewer/flip", e.handler
}

func (e *ViewerFlipEndpoint) RequiresInit() bool { return true }

func (e *ViewerFlipEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req FlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := sess.Flip(req.Index); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "index out of range")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *ViewerFlipEndpoint) Command(_ func() string) *cobra.Command {
	// Widget-only operation; not exposed on the CLI.
	return nil
}

// KeyRequest names a keyboard navigation key: "left" or "right".
type KeyRequest struct {
	Key string `json:"key"`
}

// ViewerKeyEndpoint handles POST /api/viewer/key. At either edge of the
// document the key press is a no-op, not an error.
type ViewerKeyEndpoint struct{}

func (e *ViewerKeyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/viewer/key", e.handler
}

func (e *ViewerKeyEndpoint) RequiresInit() bool { return true }

func (e *ViewerKeyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	before := sess.Snapshot()
	sess.Key(req.Key)
	after := sess.Snapshot()
	writeJSON(w, http.StatusOK, NavResponse{
		CommandWidget: after.WidgetIndex != before.WidgetIndex,
		State:         after,
	})
}

func (e *ViewerKeyEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

// ZoomRequest selects a zoom direction: "in" or "out".
type ZoomRequest struct {
	Direction string `json:"direction"`
}

// ZoomResponse returns the resulting scale.
type ZoomResponse struct {
	Scale float64 `json:"scale"`
}

// ViewerZoomEndpoint handles POST /api/viewer/zoom.
type ViewerZoomEndpoint struct{}

func (e *ViewerZoomEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/viewer/zoom", e.handler
}

func (e *ViewerZoomEndpoint) RequiresInit() bool { return true }

func (e *ViewerZoomEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req ZoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dir := 1
	if req.Direction == "out" {
		dir = -1
	}
	writeJSON(w, http.StatusOK, ZoomResponse{Scale: sess.Zoom(dir)})
}

func (e *ViewerZoomEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

// SidebarRequest toggles the sidebar and optionally selects a tab.
type SidebarRequest struct {
	Open bool   `json:"open"`
	Tab  string `json:"tab,omitempty"`
}

// ViewerSidebarEndpoint handles POST /api/viewer/sidebar.
type ViewerSidebarEndpoint struct{}

func (e *ViewerSidebarEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/viewer/sidebar", e.handler
}

func (e *ViewerSidebarEndpoint) RequiresInit() bool { return true }

func (e *ViewerSidebarEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req SidebarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess.SetSidebar(req.Open, viewer.SidebarTab(req.Tab))
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (e *ViewerSidebarEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}
