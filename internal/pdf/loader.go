package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/folioview/folio/internal/blob"
)

// Loader opens documents from catalog source references.
//
// Reference shapes decide the engine: "blob:<id>" resolves an uploaded
// original, absolute http(s) URLs are fetched to a temp file, and anything
// else (the seeded demo catalogs use site-relative paths) opens the
// synthetic placeholder document.
type Loader struct {
	blobs  *blob.Registry
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a loader backed by the blob registry.
func NewLoader(blobs *blob.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		blobs:  blobs,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.With("component", "loader"),
	}
}

// Open resolves a source reference to a Document.
func (l *Loader) Open(ctx context.Context, ref string) (Document, error) {
	switch {
	case strings.HasPrefix(ref, blob.RefPrefix):
		id, ok := blob.ParseRef(ref)
		if !ok {
			return nil, &LoadError{Kind: LoadUnsupported, Ref: ref, Err: fmt.Errorf("malformed blob reference")}
		}
		path, err := l.blobs.Path(id)
		if err != nil {
			return nil, &LoadError{Kind: LoadUnsupported, Ref: ref, Err: err}
		}
		l.logger.Debug("opening uploaded document", "blob", id)
		return openPoppler(path, ref, false)

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		path, err := l.fetchRemote(ctx, ref)
		if err != nil {
			return nil, &LoadError{Kind: LoadNetwork, Ref: ref, Err: err}
		}
		l.logger.Debug("opening remote document", "url", ref)
		return openPoppler(path, ref, true)

	default:
		l.logger.Debug("opening placeholder document", "ref", ref)
		return newPlaceholderDocument(), nil
	}
}

// fetchRemote downloads a PDF to a temp file with bounded retries.
func (l *Loader) fetchRemote(ctx context.Context, url string) (string, error) {
	tmp, err := os.CreateTemp("", "folio-remote-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := l.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status: %d", resp.StatusCode)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(f, resp.Body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
