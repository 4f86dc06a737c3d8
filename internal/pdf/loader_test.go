package pdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folioview/folio/internal/blob"
	"github.com/folioview/folio/internal/home"
)

func testLoader(t *testing.T) (*Loader, *blob.Registry) {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	blobs := blob.NewRegistry(h, nil)
	return NewLoader(blobs, nil), blobs
}

func TestLoader_PlaceholderClassification(t *testing.T) {
	l, _ := testLoader(t)

	// Site-relative refs and other opaque strings open the demo document.
	for _, ref := range []string{"/sample-catalog.pdf", "/technical-guide.pdf", "", "demo"} {
		doc, err := l.Open(context.Background(), ref)
		if err != nil {
			t.Fatalf("Open(%q) error = %v", ref, err)
		}
		if got := doc.PageCount(); got != 48 {
			t.Errorf("Open(%q).PageCount() = %d, want 48", ref, got)
		}
		doc.Close()
	}
}

func TestLoader_BlobRefs(t *testing.T) {
	l, _ := testLoader(t)

	t.Run("missing blob", func(t *testing.T) {
		_, err := l.Open(context.Background(), "blob:nope")
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			t.Fatalf("Open() error = %T, want *LoadError", err)
		}
		if lerr.Kind != LoadUnsupported {
			t.Errorf("LoadError.Kind = %q, want %q", lerr.Kind, LoadUnsupported)
		}
	})

	t.Run("empty blob id", func(t *testing.T) {
		if _, err := l.Open(context.Background(), "blob:"); err == nil {
			t.Error("Open(blob:) expected error")
		}
	})
}

func TestLoader_Remote(t *testing.T) {
	l, _ := testLoader(t)

	t.Run("server error is a network load failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := l.Open(context.Background(), srv.URL+"/cat.pdf")
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			t.Fatalf("Open() error = %T, want *LoadError", err)
		}
		if lerr.Kind != LoadNetwork {
			t.Errorf("LoadError.Kind = %q, want %q", lerr.Kind, LoadNetwork)
		}
	})

	t.Run("non-pdf body is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not a pdf"))
		}))
		defer srv.Close()

		_, err := l.Open(context.Background(), srv.URL+"/cat.pdf")
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			t.Fatalf("Open() error = %T, want *LoadError", err)
		}
		if lerr.Kind != LoadMalformed {
			t.Errorf("LoadError.Kind = %q, want %q", lerr.Kind, LoadMalformed)
		}
	})
}
