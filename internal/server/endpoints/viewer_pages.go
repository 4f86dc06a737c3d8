package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/viewer"
)

// ViewerPageImageEndpoint handles GET /api/viewer/pages/{n}/image.
//
// Returns the rendered JPEG for a page of the open viewing session. A 202
// means the slot is empty; the client polls. An empty slot may be a page
// still rendering or one whose render failed, the server does not say
// which, and a failed page simply stays 202.
type ViewerPageImageEndpoint struct{}

func (e *ViewerPageImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/viewer/pages/{n}/image", e.handler
}

func (e *ViewerPageImageEndpoint) RequiresInit() bool { return true }

func (e *ViewerPageImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess, ok := activeSession(w, r)
	if !ok {
		return
	}

	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "invalid page number")
		return
	}
	if sess.State() == viewer.StateFailed {
		writeError(w, http.StatusUnprocessableEntity, "viewing session failed to load")
		return
	}
	if n > sess.PageCount() {
		writeError(w, http.StatusNotFound, "page out of range")
		return
	}

	data, ok := sess.PageImage(n)
	if !ok {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

func (e *ViewerPageImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "page <n>",
		Short: "Fetch a rendered page image from the open viewing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetBytes(cmd.Context(), "/api/viewer/pages/"+args[0]+"/image")
			if err != nil {
				return err
			}
			if len(data) == 0 {
				fmt.Println("Page not rendered yet")
				return nil
			}
			if out == "" {
				out = "page-" + args[0] + ".jpg"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Printf("Saved %d bytes to %s\n", len(data), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file path")
	return cmd
}
