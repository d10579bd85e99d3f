// Package invoice defines the structured records recovered from an
// invoice document: line items with tax breakdowns, per-invoice
// aggregates, and the overall extraction result.
package invoice

import (
	"fmt"
	"strings"
)

// LineItem is one itemized row of an invoice. Every field except the
// display name is optional: a field that failed to parse stays nil
// and never aborts extraction of its siblings.
type LineItem struct {
	Sr          *int     `json:"sr" toml:"sr"`
	Name        string   `json:"name" toml:"name"`
	HSN         string   `json:"hsn,omitempty" toml:"hsn"`
	Qty         *int     `json:"qty" toml:"qty"`
	Rate        *float64 `json:"rate" toml:"rate"`
	DiscountPct *float64 `json:"discount_pct" toml:"discount_pct"`
	Taxable     *float64 `json:"taxable" toml:"taxable"`
	CGSTPct     *float64 `json:"cgst_pct" toml:"cgst_pct"`
	SGSTPct     *float64 `json:"sgst_pct" toml:"sgst_pct"`
	CGSTAmt     *float64 `json:"cgst_amt" toml:"cgst_amt"`
	SGSTAmt     *float64 `json:"sgst_amt" toml:"sgst_amt"`
	CessPct     *float64 `json:"cess_pct" toml:"cess_pct"`
	CessAmt     *float64 `json:"cess_amt" toml:"cess_amt"`
	Total       *float64 `json:"total" toml:"total"`
}

// Key returns the identity tuple used to recognize two candidates as
// the same physical line item: normalized tax code, quantity, total,
// and the lower-cased normalized name. Candidates sharing a key
// collapse to one record during reconciliation.
func (it LineItem) Key() string {
	qty := ""
	if it.Qty != nil {
		qty = fmt.Sprintf("%d", *it.Qty)
	}
	total := ""
	if it.Total != nil {
		total = fmt.Sprintf("%.2f", *it.Total)
	}
	name := strings.ToLower(strings.Join(strings.Fields(it.Name), " "))
	return strings.TrimSpace(it.HSN) + "|" + qty + "|" + total + "|" + name
}

// Invoice is one logical invoice: header fields plus its ordered item
// list and totals. A single document may contain several invoices
// (e.g. one item table per page sharing one file).
type Invoice struct {
	Merchant      string     `json:"merchant"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	OrderID       string     `json:"order_id,omitempty"`
	Date          string     `json:"date,omitempty"` // ISO 8601 date
	PageIndex     int        `json:"page_index"`
	Items         []LineItem `json:"items"`
	DeclaredTotal *float64   `json:"declared_total"`
	ComputedTotal *float64   `json:"computed_total"`
	Discrepancy   bool       `json:"discrepancy"`
}

// Result is the outcome of extracting one document. A document whose
// identifying markers are missing yields OK=false with a reason; every
// other degradation (missing region, unparseable field, zero items)
// still yields OK=true with a best-effort, partially-null structure.
type Result struct {
	OK           bool      `json:"ok"`
	Reason       string    `json:"reason,omitempty"`
	Invoices     []Invoice `json:"invoices"`
	OverallTotal *float64  `json:"overall_total"`
}

// Float returns a pointer to v, for building optional fields inline.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building optional fields inline.
func Int(v int) *int { return &v }
