package grammar

// Zepto returns the descriptor for the dense GST-breakdown template
// family: one physical line per item carrying serial, name, HSN code,
// quantity, rate, discount, taxable value, CGST/SGST percentages and
// amounts, cess, and total.
func Zepto() *Descriptor {
	return &Descriptor{
		Family:   "zepto",
		Merchant: "ZEPTO",
		Markers:  []string{"zepto", "geddit convenience"},
		Anchor: Anchor{
			Headers:        []string{"sr"},
			FooterPair:     []string{"item", "total"},
			TopMargin:      10,
			BottomMargin:   80,
			FallbackHeight: 520,
		},
		Fields: []FieldSpec{
			{Name: "sr", Kind: KindInt},
			{Name: "name", Kind: KindFreeText},
			{Name: "hsn", Kind: KindCode, MinLen: 6, MaxLen: 8},
			{Name: "qty", Kind: KindInt},
			{Name: "rate", Kind: KindDecimal},
			{Name: "discount_pct", Kind: KindPercent},
			{Name: "taxable", Kind: KindDecimal},
			{Name: "cgst_pct", Kind: KindPercent},
			{Name: "sgst_pct", Kind: KindPercent},
			{Name: "cgst_amt", Kind: KindDecimal},
			{Name: "sgst_amt", Kind: KindDecimal},
			{Name: "cess_pct", Kind: KindPercent, Optional: true, MarkerOptional: true},
			{Name: "cess_amt", Kind: KindDecimal},
			{Name: "total", Kind: KindDecimal},
		},
		// Membership/pass style rows split the display name around the
		// serial and lead with a gross amount instead of a rate.
		FlexFields: []FieldSpec{
			{Name: "name", Kind: KindFreeText},
			{Name: "sr", Kind: KindInt},
			{Name: "name2", Kind: KindFreeText},
			{Name: "hsn", Kind: KindCode, MinLen: 6, MaxLen: 8},
			{Name: "qty", Kind: KindInt},
			{Name: "gross", Kind: KindDecimal},
			{Name: "discount_pct", Kind: KindPercent},
			{Name: "taxable", Kind: KindDecimal},
			{Name: "cgst_pct", Kind: KindPercent},
			{Name: "sgst_pct", Kind: KindPercent},
			{Name: "cgst_amt", Kind: KindDecimal},
			{Name: "sgst_amt", Kind: KindDecimal},
			{Name: "cess_pct", Kind: KindPercent},
			{Name: "cess_amt", Kind: KindDecimal},
			{Name: "total", Kind: KindDecimal},
		},
		HeaderDenylist: []string{
			"bill to", "ship to", "invoice", "gstin", "fssai", "place of supply",
			"sr item", "hsn", "taxable", "cgst", "s/ut", "cess", "total amt",
			"no description", "product rate",
		},
		AddressDenylist: []string{
			"layout", "road", "compound", "pura", "aecs", "munnekollal",
			"bengaluru", "karnataka", "india", "pin", "gstin", "fssai",
			"geddit", "convenience", "private limited", "vyom", "chopra",
		},
		NoiseTokens: []string{
			"sr", "no", "hsn", "qty", "rate", "disc.", "taxable", "amt.",
			"cgst", "s/ut", "gst", "cess", "total", "sr no",
			"item & description", "product rate", "taxable amt.", "total amt.",
		},
		PackTokens:  []string{"pack", "pcs", "pc", "kg", "g)", "ml", "l)", "("},
		StopMarkers: []string{"item total", "invoice value", "handling fee"},
		InvoiceNoPatterns: []string{
			`(?i)Invoice\s*No\.?\s*:\s*([A-Za-z0-9]+)`,
		},
		OrderIDPatterns: []string{
			`(?i)Order\s*No\.?\s*:\s*([A-Za-z0-9]+)`,
		},
		DatePatterns: []string{
			`Date\s*:\s*([0-9]{2}-[0-9]{2}-[0-9]{4})`,
		},
		DeclaredTotalPatterns: []string{
			`(?i)\bItem\s+Total\b\s*([0-9]+(?:\.[0-9]{1,2})?)`,
			`(?i)\bInvoice\s+Value\b\s*([0-9]+(?:\.[0-9]{1,2})?)`,
		},
		CodeWidth:               8,
		TotalConfusionThreshold: 5,
		BrandRepairs: []BrandRepair{
			{Prefix: "Kinnaur", Prepend: "Apple ", Append: " pcs"},
		},
	}
}

// Blinkit returns the descriptor for the per-page table family: no
// reliable line grammar, one item table (and one invoice) per page,
// with a left-column "Total" footer row carrying the invoice total.
func Blinkit() *Descriptor {
	return &Descriptor{
		Family:   "blinkit",
		Merchant: "BLINKIT",
		Markers:  []string{"blinkit"},
		Anchor: Anchor{
			Headers:        []string{"sr.", "sr"},
			PairTokens:     []string{"no", "no."},
			FooterLeft:     "total",
			FooterLeftMaxX: 100,
			FooterMinGap:   50,
			TopMargin:      8,
			BottomMargin:   25,
			FallbackHeight: 260,
		},
		NoiseTokens: []string{"sr.", "no", "qty", "mrp", "total"},
		StopMarkers: []string{"total", "grand total"},
		InvoiceNoPatterns: []string{
			`(?i)Invoice\s*Number\s*:?\s*([A-Z0-9]+)`,
		},
		OrderIDPatterns: []string{
			`(?i)Order\s*Id\s*:?\s*(\d+)`,
		},
		DatePatterns: []string{
			`\b(\d{2}-[A-Za-z]{3}-\d{4})\b`,
		},
		DeclaredTotalPatterns: []string{
			`(?i)Grand\s*Total\s*:?\s*₹?\s*([0-9,]+(?:\.[0-9]{2})?)`,
			`(?i)Total\s*Amount\s*:?\s*₹?\s*([0-9,]+(?:\.[0-9]{2})?)`,
		},
		RupeesFallback:  true,
		PerPageInvoices: true,
		CodeWidth:       8,
	}
}

// Swiggy returns the descriptor for the serial-prefixed food-order
// template family: rows lead with "N.", carry a unit-of-measure word
// between the name and the quantity, and close with four amounts of
// which the last is the net total. Instamart variants render the
// display name on the line above the data line; the stitcher recovers
// it.
func Swiggy() *Descriptor {
	return &Descriptor{
		Family:   "swiggy",
		Merchant: "SWIGGY",
		Markers:  []string{"swiggy", "bundl technologies"},
		Fields: []FieldSpec{
			{Name: "row", Kind: KindPattern, Pattern: `\d+\.`},
			{Name: "name", Kind: KindFreeText},
			{Name: "uom", Kind: KindPattern, Pattern: `[A-Za-z]+`},
			{Name: "qty", Kind: KindInt},
			{Name: "rate", Kind: KindPattern, Pattern: `[0-9][0-9,]*\.[0-9]{2,3}`},
			{Name: "discount_amt", Kind: KindPattern, Pattern: `[0-9][0-9,]*\.[0-9]{2,3}`},
			{Name: "pre_tax", Kind: KindPattern, Pattern: `[0-9][0-9,]*\.[0-9]{2,3}`},
			{Name: "total", Kind: KindPattern, Pattern: `[0-9][0-9,]*\.[0-9]{2,3}`},
		},
		HeaderDenylist: []string{
			"description of goods", "sr no", "subtotal", "invoice",
			"hsn", "tax", "date",
		},
		NoiseTokens: []string{"qty", "uom", "rate", "amount", "total"},
		StopMarkers: []string{"invoice total", "invoice value", "grand total"},
		OrderIDPatterns: []string{
			`(?i)\bHandling\s*Fees\s*for\s*Order\s+([0-9]+)`,
			`(?i)\bOrder\s*ID\s*[:#]?\s*([0-9]+)`,
			`(?i)\bOrder\s*No\s*[:#]?\s*([0-9]+)`,
		},
		DeclaredTotalPatterns: []string{
			`(?i)\bInvoice\s*Value\s*₹?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			`(?i)\bInvoice\s*Total\s*₹?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			`(?i)\bGrand\s*Total\s*₹?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			`(?i)\bTotal\s*₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
		},
	}
}

// Eatclub returns the descriptor for the dashed quantity template
// family: the name and the numbers are separated by a literal dash and
// the quantity carries a "Pc" unit marker.
func Eatclub() *Descriptor {
	return &Descriptor{
		Family:   "eatclub",
		Merchant: "EATCLUB",
		Markers:  []string{"eatclub", "mojopizza"},
		Fields: []FieldSpec{
			{Name: "name", Kind: KindFreeText},
			{Name: "sep", Kind: KindPattern, Pattern: `-`},
			{Name: "qty", Kind: KindInt},
			{Name: "unit", Kind: KindPattern, Pattern: `[Pp]c`},
			{Name: "rate", Kind: KindDecimal},
			{Name: "total", Kind: KindDecimal},
		},
		HeaderDenylist: []string{
			"product details", "description", "invoice", "gstin",
		},
		NoiseTokens: []string{"qty", "rate", "amount"},
		StopMarkers: []string{"sub total"},
		InvoiceNoPatterns: []string{
			`(?i)\bInvoice\s*No\.?\s*:\s*(\S+)`,
		},
		OrderIDPatterns: []string{
			`(?i)\bTracking\s*ID\s*:\s*([A-Z0-9]+)`,
		},
		DatePatterns: []string{
			`(?i)\bOrdered\s*At\s*:?\s*([0-9]{2}-[0-9]{2}-[0-9]{4})`,
		},
		DeclaredTotalPatterns: []string{
			`(?i)\bInvoice\s*Total\s*:?\s*₹?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
		},
	}
}

// Families lists the built-in template-family descriptors by name.
func Families() map[string]*Descriptor {
	return map[string]*Descriptor{
		"zepto":   Zepto(),
		"blinkit": Blinkit(),
		"swiggy":  Swiggy(),
		"eatclub": Eatclub(),
	}
}
