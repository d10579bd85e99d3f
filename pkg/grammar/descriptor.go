package grammar

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// Anchor describes how to locate the item table on a page from word
// geometry: a header label token and an optional footer/total label.
type Anchor struct {
	// Headers are accepted header tokens (case-insensitive), e.g.
	// the first column label of the item table.
	Headers []string `toml:"headers"`

	// PairTokens, when set, require one of these tokens on the same
	// visual row to the right of the header token.
	PairTokens []string `toml:"pair_tokens,omitempty"`

	// HeaderMaxX, when positive, rejects header tokens right of it.
	HeaderMaxX float64 `toml:"header_max_x,omitempty"`

	// FooterPair locates the footer by two tokens on one visual row
	// (e.g. "item" + "total").
	FooterPair []string `toml:"footer_pair,omitempty"`

	// FooterLeft locates the footer by a single token near the left
	// margin, below the header by at least FooterMinGap.
	FooterLeft     string  `toml:"footer_left,omitempty"`
	FooterLeftMaxX float64 `toml:"footer_left_max_x,omitempty"`
	FooterMinGap   float64 `toml:"footer_min_gap,omitempty"`

	TopMargin    float64 `toml:"top_margin"`
	BottomMargin float64 `toml:"bottom_margin"`

	// FallbackHeight bounds the region when no footer is found.
	FallbackHeight float64 `toml:"fallback_height"`
}

// BrandRepair names a known truncated-brand rendering defect: items
// whose name starts with Prefix get Prepend/Append restored.
type BrandRepair struct {
	Prefix  string `toml:"prefix"`
	Prepend string `toml:"prepend"`
	Append  string `toml:"append"`
}

// Descriptor declares one template family: its identifying markers,
// table anchors, line grammars, stitching vocabulary, header-field
// patterns, and repair parameters. Supporting a new vendor means
// writing a new descriptor, not new code.
type Descriptor struct {
	Family   string `toml:"family"`
	Merchant string `toml:"merchant"`

	// Markers identify the template family in the document text
	// (lower-case substrings). A document matching none of them is
	// rejected with reason "not_<family>".
	Markers []string `toml:"markers"`

	Anchor Anchor `toml:"anchor"`

	// Fields is the strict line grammar. Empty means the family has
	// no text-path grammar (table paths only).
	Fields []FieldSpec `toml:"fields,omitempty"`

	// FlexFields is the order-flexible fallback grammar, tried only
	// when the strict grammar matches nothing in the whole document.
	FlexFields []FieldSpec `toml:"flex_fields,omitempty"`

	// Stitching vocabulary: substrings marking header/address lines
	// (never part of a product name), substrings disqualifying a
	// bare alphabetic line from being a name fragment, exact tokens
	// of column-header noise lines, and pack-size tokens.
	HeaderDenylist  []string `toml:"header_denylist,omitempty"`
	AddressDenylist []string `toml:"address_denylist,omitempty"`
	NoiseTokens     []string `toml:"noise_tokens,omitempty"`
	PackTokens      []string `toml:"pack_tokens,omitempty"`

	// StopMarkers end the item section (totals block and friends).
	StopMarkers []string `toml:"stop_markers,omitempty"`

	// Header-field patterns, first match wins. Each needs exactly
	// one capture group.
	InvoiceNoPatterns     []string `toml:"invoice_no_patterns,omitempty"`
	OrderIDPatterns       []string `toml:"order_id_patterns,omitempty"`
	DatePatterns          []string `toml:"date_patterns,omitempty"`
	DeclaredTotalPatterns []string `toml:"declared_total_patterns,omitempty"`

	// RupeesFallback recovers a declared total from the amount
	// preceding an "amount in words" line when no pattern matched.
	RupeesFallback bool `toml:"rupees_fallback,omitempty"`

	// PerPageInvoices emits one invoice per page bearing an item
	// table instead of a single document-wide invoice.
	PerPageInvoices bool `toml:"per_page_invoices,omitempty"`

	// CodeWidth is the undivided width of the family's tax
	// classification code, used by the digit-split repair.
	CodeWidth int `toml:"code_width,omitempty"`

	// TotalConfusionThreshold is the ceiling under which a rendered
	// total is considered a misread fragment of a zero-tax column.
	TotalConfusionThreshold float64 `toml:"total_confusion_threshold,omitempty"`

	BrandRepairs []BrandRepair `toml:"brand_repairs,omitempty"`
}

// Validate checks the descriptor for the mistakes a hand-written TOML
// file is likely to contain.
func (d *Descriptor) Validate() error {
	if d.Family == "" {
		return fmt.Errorf("descriptor without a family name")
	}
	if len(d.Markers) == 0 {
		return fmt.Errorf("descriptor %q has no identifying markers", d.Family)
	}
	if len(d.Fields) == 0 && len(d.Anchor.Headers) == 0 {
		return fmt.Errorf("descriptor %q has neither a line grammar nor a table anchor", d.Family)
	}
	for _, f := range d.Fields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("descriptor %q: %w", d.Family, err)
		}
	}
	for _, f := range d.FlexFields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("descriptor %q (flex): %w", d.Family, err)
		}
	}
	return nil
}

// LoadDescriptor parses a TOML template-family descriptor.
func LoadDescriptor(content []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("invalid descriptor TOML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
