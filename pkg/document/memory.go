package document

// MemoryPage is an in-memory Page used in tests and by callers that
// already hold extracted text/geometry. Table extraction ignores the
// region (content is assumed pre-cropped) and returns the canned
// tables for the requested strategy.
type MemoryPage struct {
	PageText   string
	PageWords  []Word
	PageHeight float64

	// GridTables answers the lines/lines configuration, TextTables
	// the text/text configuration.
	GridTables []Table
	TextTables []Table
}

func (p *MemoryPage) Text() string  { return p.PageText }
func (p *MemoryPage) Words() []Word { return p.PageWords }

func (p *MemoryPage) Height() float64 {
	if p.PageHeight > 0 {
		return p.PageHeight
	}
	return 842 // A4 points
}

func (p *MemoryPage) ExtractTables(_ Region, cfg TableConfig) []Table {
	if cfg.VerticalStrategy == "lines" || cfg.HorizontalStrategy == "lines" {
		return p.GridTables
	}
	return p.TextTables
}

// MemoryProvider is an in-memory Provider over MemoryPages.
type MemoryProvider struct {
	Docs []*MemoryPage
}

func (m *MemoryProvider) Pages() []Page {
	pages := make([]Page, 0, len(m.Docs))
	for _, p := range m.Docs {
		pages = append(pages, p)
	}
	return pages
}

func (m *MemoryProvider) Close() error { return nil }
