package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	plumber "github.com/pyhub-apps/pdfplumber-golang"
	"github.com/pyhub-apps/pdfplumber-golang/pkg/pdf"
)

// OpenPDF opens a PDF file through the pdfplumber provider. A missing
// or unreadable document is the only hard failure the engine surfaces;
// everything downstream degrades softly.
func OpenPDF(path string) (Provider, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("unreadable document %s: %w", path, err)
	}
	doc, err := plumber.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	return &plumberProvider{doc: doc}, nil
}

type plumberProvider struct {
	doc pdf.Document
}

func (p *plumberProvider) Pages() []Page {
	raw := p.doc.GetPages()
	pages := make([]Page, 0, len(raw))
	for _, pg := range raw {
		pages = append(pages, &plumberPage{page: pg})
	}
	return pages
}

func (p *plumberProvider) Close() error {
	return p.doc.Close()
}

type plumberPage struct {
	page pdf.Page
}

func (p *plumberPage) Text() string {
	return p.page.ExtractText()
}

func (p *plumberPage) Words() []Word {
	raw := p.page.ExtractWords()
	words := make([]Word, 0, len(raw))
	for _, w := range raw {
		words = append(words, Word{
			Text:   w.Text,
			X0:     w.X0,
			Top:    w.Y0,
			Height: w.Y1 - w.Y0,
		})
	}
	return words
}

func (p *plumberPage) Height() float64 {
	return p.page.GetHeight()
}

func (p *plumberPage) ExtractTables(region Region, cfg TableConfig) []Table {
	y0 := region.Y0
	if y0 < 0 {
		y0 = 0
	}
	y1 := region.Y1
	if h := p.page.GetHeight(); y1 > h {
		y1 = h
	}
	cropped := p.page.Crop(pdf.BoundingBox{X0: 0, Y0: y0, X1: p.page.GetWidth(), Y1: y1})
	raw := cropped.ExtractTables(pdf.WithTableStrategy(cfg.VerticalStrategy, cfg.HorizontalStrategy))
	tables := make([]Table, 0, len(raw))
	for _, tb := range raw {
		tables = append(tables, Table{Rows: tb.Rows})
	}
	return tables
}
