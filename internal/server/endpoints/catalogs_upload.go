package endpoints

import (
	"net/http"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/blob"
	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/svcctx"
)

// maxUploadBytes bounds multipart uploads (100 MB).
const maxUploadBytes = 100 << 20

// UploadCatalogEndpoint handles POST /api/catalogs/upload.
//
// Accepts a multipart form with a "file" PDF plus catalog metadata fields.
// The PDF is retained in the blob registry and the catalog's source
// reference points at it; deleting the catalog releases the blob.
type UploadCatalogEndpoint struct{}

func (e *UploadCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalogs/upload", e.handler
}

func (e *UploadCatalogEndpoint) RequiresInit() bool { return true }

func (e *UploadCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	blobs := svcctx.BlobsFrom(r.Context())
	id, size, err := blobs.Store(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload: "+err.Error())
		return
	}

	// Reject anything pdfcpu cannot page-count before a record exists.
	pageCount, err := blobPageCount(blobs, id)
	if err != nil {
		blobs.Release(id)
		writeError(w, http.StatusUnprocessableEntity, "not a readable PDF: "+err.Error())
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strippedFilename(header.Filename)
	}

	rec := catalog.Record{
		Title:       title,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Author:      r.FormValue("author"),
		Visibility:  catalog.VisibilityPublic,
		Password:    r.FormValue("password"),
		SourceRef:   blob.Ref(id),
		FileSize:    size,
		PageCount:   pageCount,
	}
	if v := r.FormValue("visibility"); v != "" {
		vis, err := catalog.ParseVisibility(v)
		if err != nil {
			blobs.Release(id)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec.Visibility = vis
	}
	if kw := r.Form["keywords"]; len(kw) > 0 {
		rec.Keywords = kw
	}

	store := svcctx.CatalogsFrom(r.Context())
	created, err := store.Create(rec)
	if err != nil {
		blobs.Release(id)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("catalog uploaded", "catalog", created.ID, "blob", id, "pages", pageCount, "size", size)
	}
	writeJSON(w, http.StatusCreated, created)
}

func blobPageCount(blobs *blob.Registry, id string) (int, error) {
	f, err := blobs.Open(id)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return api.PageCount(f, nil)
}

func strippedFilename(name string) string {
	base := filepath.Base(name)
	return base[:len(base)-len(filepath.Ext(base))]
}

func (e *UploadCatalogEndpoint) Command(_ func() string) *cobra.Command {
	// No CLI command for file upload - create a catalog with --source instead
	return nil
}
