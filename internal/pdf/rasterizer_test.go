package pdf

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"testing"
)

func TestRasterizer_RenderPage(t *testing.T) {
	doc := newPlaceholderDocument()
	defer doc.Close()

	r := NewRasterizer(2.0, 90, nil)

	data, err := r.RenderPage(context.Background(), doc, 1)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable JPEG: %v", err)
	}
	// 2x oversample of the 595x842 nominal page.
	if got := img.Bounds().Dx(); got != 1190 {
		t.Errorf("width = %d, want 1190", got)
	}
	if got := img.Bounds().Dy(); got != 1684 {
		t.Errorf("height = %d, want 1684", got)
	}

	t.Run("idempotent per page", func(t *testing.T) {
		again, err := r.RenderPage(context.Background(), doc, 1)
		if err != nil {
			t.Fatalf("RenderPage() error = %v", err)
		}
		if !bytes.Equal(data, again) {
			t.Error("repeated render of the same page produced different bytes")
		}
	})

	t.Run("out of range is a RenderError", func(t *testing.T) {
		_, err := r.RenderPage(context.Background(), doc, 49)
		var rerr *RenderError
		if !errors.As(err, &rerr) {
			t.Fatalf("RenderPage(49) error = %T, want *RenderError", err)
		}
		if rerr.Page != 49 {
			t.Errorf("RenderError.Page = %d, want 49", rerr.Page)
		}
	})
}
