package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
)

// Rasterizer turns document pages into JPEG bytes at a fixed oversample.
//
// Pages render at Oversample times the nominal size so the client can zoom
// without re-requesting. Every call allocates a fresh surface; rendering
// the same page twice yields equivalent output.
type Rasterizer struct {
	Oversample  float64
	JPEGQuality int
	Logger      *slog.Logger
}

// NewRasterizer builds a rasterizer with the given render settings.
func NewRasterizer(oversample float64, jpegQuality int, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{
		Oversample:  oversample,
		JPEGQuality: jpegQuality,
		Logger:      logger.With("component", "rasterizer"),
	}
}

// RenderPage renders the 1-based page n of doc and encodes it as JPEG.
// A failure is scoped to this page only.
func (r *Rasterizer) RenderPage(ctx context.Context, doc Document, n int) ([]byte, error) {
	page, err := doc.Page(n)
	if err != nil {
		return nil, &RenderError{Page: n, Err: err}
	}

	w, h := page.Viewport(r.Oversample)
	if w <= 0 || h <= 0 {
		return nil, &RenderError{Page: n, Err: fmt.Errorf("degenerate viewport %dx%d", w, h)}
	}

	surface := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := page.Render(ctx, surface); err != nil {
		return nil, &RenderError{Page: n, Err: err}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, surface, &jpeg.Options{Quality: r.JPEGQuality}); err != nil {
		return nil, &RenderError{Page: n, Err: fmt.Errorf("jpeg encode: %w", err)}
	}

	r.Logger.Debug("page rendered", "page", n, "width", w, "height", h, "bytes", buf.Len())
	return buf.Bytes(), nil
}
