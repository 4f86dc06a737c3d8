// Package blob owns the lifetime of uploaded PDF originals.
//
// It replaces an ambient process-wide map of uploaded files with explicit
// ownership: the catalog store retains a blob when a catalog is created
// from an upload and releases it when the catalog is deleted.
package blob

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/folioview/folio/internal/home"
)

// RefPrefix marks a source reference as a registry-owned blob.
const RefPrefix = "blob:"

// ErrNotFound is returned for unknown blob ids.
var ErrNotFound = errors.New("blob not found")

// Registry stores uploaded PDFs on disk under the folio home directory,
// keyed by generated id.
type Registry struct {
	home   *home.Dir
	logger *slog.Logger

	mu    sync.Mutex
	sizes map[string]int64
}

// NewRegistry creates a registry rooted at the home originals directory.
func NewRegistry(h *home.Dir, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		home:   h,
		logger: logger.With("component", "blob"),
		sizes:  make(map[string]int64),
	}
}

// Store writes the PDF bytes to disk and retains them under a new id.
func (r *Registry) Store(src io.Reader) (id string, size int64, err error) {
	id = uuid.New().String()
	path := r.home.OriginalPath(id)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob file: %w", err)
	}
	size, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}

	r.mu.Lock()
	r.sizes[id] = size
	r.mu.Unlock()

	r.logger.Debug("blob stored", "id", id, "size", size)
	return id, size, nil
}

// Path resolves a blob id to its on-disk path.
func (r *Registry) Path(id string) (string, error) {
	path := r.home.OriginalPath(id)
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// Open opens the stored PDF for reading.
func (r *Registry) Open(id string) (*os.File, error) {
	path, err := r.Path(id)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Release removes the blob from disk. Releasing an unknown id is not an
// error; the blob may have been released with its catalog already.
func (r *Registry) Release(id string) error {
	r.mu.Lock()
	delete(r.sizes, id)
	r.mu.Unlock()

	path := r.home.OriginalPath(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	r.logger.Debug("blob released", "id", id)
	return nil
}

// Ref builds the source reference for a stored blob.
func Ref(id string) string {
	return RefPrefix + id
}

// ParseRef extracts the blob id from a source reference.
// Returns false if the reference is not a blob ref.
func ParseRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, RefPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(ref, RefPrefix)
	if id == "" {
		return "", false
	}
	return id, true
}
