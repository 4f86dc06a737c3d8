// Package pdf loads catalog documents and rasterizes their pages.
//
// A Document hides its engine: real PDFs go through pdfcpu for inspection
// and pdftoppm (poppler-utils) for rasterization, while catalogs without a
// real source get a procedurally drawn placeholder document. Callers only
// see the Document and Page contracts.
package pdf

import (
	"context"
	"fmt"
	"image"
)

// Nominal page size in PDF points, the layout basis for viewport math.
const (
	NominalPageWidth  = 595.0
	NominalPageHeight = 842.0
)

// Document is an open, pageable catalog source.
type Document interface {
	// PageCount reports the number of pages. Stable for the document's lifetime.
	PageCount() int
	// Page returns the 1-based page n.
	Page(n int) (Page, error)
	// Close releases the underlying source.
	Close() error
}

// Page renders itself onto caller-provided surfaces.
type Page interface {
	// Viewport returns the pixel dimensions of the page at the given scale.
	Viewport(scale float64) (w, h int)
	// Render draws the page onto dst, filling its bounds. Each call draws
	// on whatever surface the caller supplies; pages hold no canvas state.
	Render(ctx context.Context, dst *image.RGBA) error
}

// LoadErrorKind classifies why a document failed to open.
type LoadErrorKind string

const (
	LoadNetwork     LoadErrorKind = "network"
	LoadMalformed   LoadErrorKind = "malformed"
	LoadUnsupported LoadErrorKind = "unsupported"
)

// LoadError is fatal to the viewing session that triggered the open.
type LoadError struct {
	Kind LoadErrorKind
	Ref  string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Ref, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RenderError reports a single page render failure. It never aborts
// sibling pages; schedulers log it and leave the page slot empty.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
