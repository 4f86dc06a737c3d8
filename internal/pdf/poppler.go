package pdf

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	xdraw "golang.org/x/image/draw"
)

// popplerDocument is a real PDF on disk, rasterized page by page via
// pdftoppm (poppler-utils).
type popplerDocument struct {
	path  string
	ref   string
	pages int
	owned bool // temp download, removed on Close
}

// openPoppler validates the PDF with pdfcpu and wraps it as a Document.
func openPoppler(path, ref string, owned bool) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: LoadUnsupported, Ref: ref, Err: err}
	}
	pages, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		if owned {
			os.Remove(path)
		}
		return nil, &LoadError{Kind: LoadMalformed, Ref: ref, Err: fmt.Errorf("failed to read page count: %w", err)}
	}
	if pages == 0 {
		if owned {
			os.Remove(path)
		}
		return nil, &LoadError{Kind: LoadMalformed, Ref: ref, Err: fmt.Errorf("document has no pages")}
	}
	return &popplerDocument{path: path, ref: ref, pages: pages, owned: owned}, nil
}

func (d *popplerDocument) PageCount() int { return d.pages }

func (d *popplerDocument) Page(n int) (Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, d.pages)
	}
	return &popplerPage{doc: d, num: n}, nil
}

func (d *popplerDocument) Close() error {
	if d.owned {
		return os.Remove(d.path)
	}
	return nil
}

type popplerPage struct {
	doc *popplerDocument
	num int
}

func (p *popplerPage) Viewport(scale float64) (int, int) {
	return int(math.Round(NominalPageWidth * scale)), int(math.Round(NominalPageHeight * scale))
}

// Render shells out to pdftoppm for this one page, then scales the result
// to fill dst. Each call uses its own temp directory so concurrent renders
// never share output files.
func (p *popplerPage) Render(ctx context.Context, dst *image.RGBA) error {
	tmpDir, err := os.MkdirTemp("", "folio-page-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")

	// DPI derived from the surface width relative to the nominal page
	// width at 72 DPI, so the output roughly matches dst before scaling.
	dpi := int(math.Round(72 * float64(dst.Bounds().Dx()) / NominalPageWidth))
	if dpi < 36 {
		dpi = 36
	}

	pageStr := fmt.Sprintf("%d", p.num)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", dpi),
		"-singlefile",
		p.doc.path,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	srcPath := outputPrefix + ".png"
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode rendered page: %w", err)
	}

	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return nil
}
