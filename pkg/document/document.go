// Package document defines the narrow contract the extraction engine
// consumes from the external text/geometry layer: per-page flattened
// text, positioned words, and candidate tables for a vertical crop.
// The engine never touches raw document bytes.
package document

// Word is a positioned token on a page.
type Word struct {
	Text   string
	X0     float64 // left edge
	Top    float64 // top edge
	Height float64
}

// Region is a vertical interval of a page bounding an item table.
type Region struct {
	Y0 float64
	Y1 float64
}

// Table is a raw extracted table: ordered rows of raw cell strings.
// Cells may contain embedded line breaks when the renderer merged
// several logical rows into one geometric row. Tables are transient
// and discarded after normalization.
type Table struct {
	Rows [][]string
}

// TableConfig selects a geometric table-detection configuration.
// Different source templates render tables with or without drawn grid
// lines, so detection runs under independent configurations.
type TableConfig struct {
	VerticalStrategy   string
	HorizontalStrategy string
}

// Page is one immutable page of a document.
type Page interface {
	// Text returns the page's flattened text blob.
	Text() string

	// Words returns the positioned words on the page.
	Words() []Word

	// ExtractTables crops the page to the region and runs table
	// detection under the given configuration. A nil or empty result
	// is a normal outcome, not an error.
	ExtractTables(region Region, cfg TableConfig) []Table

	// Height returns the page height, used to clamp regions.
	Height() float64
}

// Provider is the document layer: it owns the pages of one document.
type Provider interface {
	// Pages returns the document's pages in order.
	Pages() []Page

	// Close releases resources held by the provider.
	Close() error
}
