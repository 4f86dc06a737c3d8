package pdf

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// placeholderPageCount is the size of the synthetic demo catalog.
const placeholderPageCount = 48

var (
	coverBlue   = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	pageGray    = color.RGBA{R: 243, G: 244, B: 246, A: 255}
	boxGray     = color.RGBA{R: 209, G: 213, B: 219, A: 255}
	inkDark     = color.RGBA{R: 31, G: 41, B: 55, A: 255}
	accentGreen = color.RGBA{R: 22, G: 163, B: 74, A: 255}
)

// placeholderDocument is the synthetic catalog used when a record has no
// real source: a cover, four table-of-contents pages, then product pages
// laid out as a 2x2 grid with deterministic prices.
type placeholderDocument struct{}

func newPlaceholderDocument() Document { return &placeholderDocument{} }

func (d *placeholderDocument) PageCount() int { return placeholderPageCount }

func (d *placeholderDocument) Page(n int) (Page, error) {
	if n < 1 || n > placeholderPageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, placeholderPageCount)
	}
	return &placeholderPage{num: n}, nil
}

func (d *placeholderDocument) Close() error { return nil }

type placeholderPage struct {
	num int
}

func (p *placeholderPage) Viewport(scale float64) (int, int) {
	return int(math.Round(NominalPageWidth * scale)), int(math.Round(NominalPageHeight * scale))
}

func (p *placeholderPage) Render(_ context.Context, dst *image.RGBA) error {
	switch {
	case p.num == 1:
		p.drawCover(dst)
	case p.num <= 5:
		p.drawContents(dst)
	default:
		p.drawProducts(dst)
	}
	return nil
}

func (p *placeholderPage) drawCover(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(coverBlue), image.Point{}, draw.Src)

	drawTextCentered(dst, "CATALOGUE", b.Dx()/2, b.Dy()*2/5, color.White)
	drawTextCentered(dst, "PRINTEMPS 2024", b.Dx()/2, b.Dy()/2, color.White)
	drawTextCentered(dst, fmt.Sprintf("%d pages", placeholderPageCount), b.Dx()/2, b.Dy()*4/5, color.White)
}

func (p *placeholderPage) drawContents(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(dst, "SOMMAIRE", b.Dx()/10, b.Dy()/12, inkDark)

	// Each contents page lists a band of sections pointing into the
	// product pages.
	lineH := b.Dy() / 16
	y := b.Dy() / 8
	for i := 0; i < 10; i++ {
		section := (p.num-2)*10 + i + 1
		target := 6 + section
		if target > placeholderPageCount {
			break
		}
		drawText(dst, fmt.Sprintf("Section %d", section), b.Dx()/10, y, inkDark)
		drawText(dst, fmt.Sprintf("page %d", target), b.Dx()*7/10, y, inkDark)
		y += lineH
	}

	drawFooter(dst, p.num)
}

func (p *placeholderPage) drawProducts(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(pageGray), image.Point{}, draw.Src)

	drawText(dst, "Collection Printemps", b.Dx()/10, b.Dy()/14, inkDark)

	// 2x2 product grid. Prices are a pure function of page and slot so
	// re-rendering a page always produces identical content.
	margin := b.Dx() / 12
	gutter := b.Dx() / 24
	cellW := (b.Dx() - 2*margin - gutter) / 2
	cellH := b.Dy() / 4
	topY := b.Dy() / 8

	for idx := 0; idx < 4; idx++ {
		col := idx % 2
		row := idx / 2
		x0 := margin + col*(cellW+gutter)
		y0 := topY + row*(cellH+gutter)

		cell := image.Rect(x0, y0, x0+cellW, y0+cellH).Add(b.Min)
		draw.Draw(dst, cell, image.NewUniform(boxGray), image.Point{}, draw.Src)

		product := (p.num-6)*4 + idx + 1
		price := 29.99 + float64(p.num*2+idx)
		drawText(dst, fmt.Sprintf("Produit %d", product), x0+cellW/8, y0+cellH-3*cellH/8, inkDark)
		drawText(dst, fmt.Sprintf("%.2f EUR", price), x0+cellW/8, y0+cellH-cellH/6, accentGreen)
	}

	drawFooter(dst, p.num)
}

func drawFooter(dst *image.RGBA, pageNum int) {
	b := dst.Bounds()
	drawTextCentered(dst, fmt.Sprintf("%d / %d", pageNum, placeholderPageCount), b.Dx()/2, b.Dy()-b.Dy()/24, inkDark)
}

// drawText draws s with its left edge at (x, y) relative to dst's origin.
func drawText(dst *image.RGBA, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y),
	}
	d.DrawString(s)
}

// drawTextCentered draws s horizontally centered on x.
func drawTextCentered(dst *image.RGBA, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s)
	d.Dot = fixed.P(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y).Sub(fixed.Point26_6{X: w / 2})
	d.DrawString(s)
}
