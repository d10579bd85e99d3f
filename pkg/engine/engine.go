// Package engine orchestrates extraction of structured invoices from
// a document: it fans page work out across goroutines, runs the
// table-grid, table-text, and line-grammar candidate paths per page,
// repairs and reconciles the candidates, and assembles the final
// invoices with header fields and totals.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/phuslu/log"

	"github.com/CaptainVC/hisab-kitab/pkg/document"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
	"github.com/CaptainVC/hisab-kitab/pkg/layout"
	"github.com/CaptainVC/hisab-kitab/pkg/repair"
	"github.com/CaptainVC/hisab-kitab/pkg/stitch"
)

// Engine extracts invoices of one template family. Engines are
// immutable after construction and safe for concurrent use.
type Engine struct {
	desc   *grammar.Descriptor
	strict *grammar.Matcher
	flex   *grammar.Matcher
	rules  []repair.Rule

	invoiceNoRE []*regexp.Regexp
	orderIDRE   []*regexp.Regexp
	dateRE      []*regexp.Regexp
	declaredRE  []*regexp.Regexp
}

// New builds an engine from a template-family descriptor. Grammar and
// pattern compilation happen here so a broken descriptor fails fast.
func New(d *grammar.Descriptor) (*Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{desc: d, rules: repair.RulesFor(d)}

	var err error
	if len(d.Fields) > 0 {
		if e.strict, err = grammar.Compile(d.Fields); err != nil {
			return nil, fmt.Errorf("family %q strict grammar: %w", d.Family, err)
		}
	}
	if len(d.FlexFields) > 0 {
		if e.flex, err = grammar.Compile(d.FlexFields); err != nil {
			return nil, fmt.Errorf("family %q flexible grammar: %w", d.Family, err)
		}
	}
	if e.invoiceNoRE, err = compilePatterns(d.InvoiceNoPatterns); err != nil {
		return nil, fmt.Errorf("family %q: %w", d.Family, err)
	}
	if e.orderIDRE, err = compilePatterns(d.OrderIDPatterns); err != nil {
		return nil, fmt.Errorf("family %q: %w", d.Family, err)
	}
	if e.dateRE, err = compilePatterns(d.DatePatterns); err != nil {
		return nil, fmt.Errorf("family %q: %w", d.Family, err)
	}
	if e.declaredRE, err = compilePatterns(d.DeclaredTotalPatterns); err != nil {
		return nil, fmt.Errorf("family %q: %w", d.Family, err)
	}
	return e, nil
}

// pageResult carries one page's candidates through the fan-in. The
// streams stay separate so reconciliation can honor path priority.
type pageResult struct {
	grid      []invoice.LineItem
	textTable []invoice.LineItem
	line      []invoice.LineItem

	// footerTotal is the value of the table's own "Total" footer row.
	footerTotal *float64

	// hasTable marks pages bearing a mapped item table; in per-page
	// invoice mode only those pages produce an invoice.
	hasTable bool
}

// Extract recovers all invoices from the document. A document missing
// the family's identifying markers yields OK=false with a reason;
// every softer degradation (no table anchor, unparseable fields, zero
// items) yields OK=true with a best-effort structure. The only error
// returns are context cancellation.
func (e *Engine) Extract(ctx context.Context, prov document.Provider) (*invoice.Result, error) {
	pages := prov.Pages()
	texts := make([]string, len(pages))
	for i, pg := range pages {
		texts[i] = normalizeNewlines(pg.Text())
	}
	full := strings.Join(texts, "\n")

	if !e.markersPresent(full) {
		log.Info().Str("family", e.desc.Family).Msg("identifying markers not found")
		return &invoice.Result{OK: false, Reason: "not_" + e.desc.Family, Invoices: []invoice.Invoice{}}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]pageResult, len(pages))
	var wg sync.WaitGroup
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.extractPage(i, pages[i], texts[i])
		}(i)
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.flexFallback(results, texts)

	if e.desc.PerPageInvoices {
		return e.assemblePerPage(results, texts, full), nil
	}
	return e.assembleSingle(results, full), nil
}

// extractPage runs the three candidate paths over one page and
// applies the repair rules to each stream. Repairs run before
// reconciliation so corrected values drive the identity keys.
func (e *Engine) extractPage(idx int, pg document.Page, text string) pageResult {
	var out pageResult

	region, ok := layout.LocateRegion(pg.Words(), pg.Height(), e.desc.Anchor)
	if ok {
		if tb, found := layout.FirstTable(pg.ExtractTables(region, layout.GridConfig)); found {
			items, footer, mapped := layout.GridItems(tb, e.desc.StopMarkers)
			if mapped {
				out.grid = items
				out.footerTotal = footer
				out.hasTable = true
			}
		}
		if e.strict != nil {
			// The text strategy scans from the table header down to the
			// page bottom: the overlap defect can push item rows below
			// the footer line the grid strategy stops at.
			open := document.Region{Y0: region.Y0, Y1: pg.Height()}
			if tb, found := layout.FirstTable(pg.ExtractTables(open, layout.TextConfig)); found {
				out.textTable = layout.TextTableItems(tb, e.strict, e.desc)
			}
		}
	} else {
		log.Debug().Int("page", idx).Str("family", e.desc.Family).Msg("no item-table anchor on page")
	}

	out.line = e.strictLineItems(text)

	out.grid = repair.Apply(out.grid, e.rules)
	out.textTable = repair.Apply(out.textTable, e.rules)
	out.line = repair.Apply(out.line, e.rules)
	return out
}

// strictLineItems runs the strict line grammar over a page's text,
// stitching split display names from the neighbors of each match.
func (e *Engine) strictLineItems(text string) []invoice.LineItem {
	if e.strict == nil {
		return nil
	}
	lines := strings.Split(text, "\n")
	start := e.sectionStart(lines)

	var items []invoice.LineItem
	st := stitch.New(e.desc, e.strict.Matches)
	for idx := start; idx < len(lines); idx++ {
		it, ok := e.strict.Match(lines[idx])
		if !ok {
			continue
		}
		it.Name = st.Assemble(lines, idx, start, it.Name)
		items = append(items, it)
	}
	return items
}

// flexFallback runs the order-flexible grammar over the pages when
// the strict grammar matched nothing anywhere in the document. The
// first page yielding an item receives it as its line stream.
func (e *Engine) flexFallback(results []pageResult, texts []string) {
	if e.flex == nil {
		return
	}
	for _, r := range results {
		if len(r.line) > 0 {
			return
		}
	}
	for i, text := range texts {
		lines := strings.Split(text, "\n")
		if items := e.flexItems(lines, e.sectionStart(lines)); len(items) > 0 {
			results[i].line = repair.Apply(items, e.rules)
			return
		}
	}
}

// sectionStart finds the line index where the items section begins: a
// line that is exactly a table-header token. Zero when absent, so the
// grammar still scans the whole page.
func (e *Engine) sectionStart(lines []string) int {
	for i, ln := range lines {
		t := strings.TrimSpace(ln)
		for _, h := range e.desc.Anchor.Headers {
			if strings.EqualFold(t, h) {
				return i
			}
		}
	}
	return 0
}

// flexItems tries the order-flexible grammar on each line, and on the
// line joined with its successor (the row may wrap). These layouts
// carry a single item, so the first match is the answer.
func (e *Engine) flexItems(lines []string, start int) []invoice.LineItem {
	for idx := start; idx < len(lines); idx++ {
		t := strings.TrimSpace(lines[idx])
		if t == "" {
			continue
		}
		if stopLine(t, e.desc.StopMarkers) {
			break
		}
		candidates := []string{t}
		if idx+1 < len(lines) {
			candidates = append(candidates, t+" "+strings.TrimSpace(lines[idx+1]))
		}
		for _, c := range candidates {
			if it, ok := e.flex.Match(c); ok {
				return []invoice.LineItem{it}
			}
		}
	}
	return nil
}

// assembleSingle builds the one document-wide invoice: all pages'
// streams reconcile into a single ordered item list, header fields
// and the declared total come from the whole document text.
func (e *Engine) assembleSingle(results []pageResult, full string) *invoice.Result {
	streams := make([][]invoice.LineItem, 0, len(results)*3)
	for _, r := range results {
		streams = append(streams, r.grid, r.textTable, r.line)
	}
	items := Reconcile(streams...)
	if items == nil {
		items = []invoice.LineItem{}
		log.Warn().Str("family", e.desc.Family).Msg("no line items recovered")
	}

	inv := invoice.Invoice{
		Merchant:      e.desc.Merchant,
		InvoiceNumber: firstGroup(e.invoiceNoRE, full),
		OrderID:       firstGroup(e.orderIDRE, full),
		Date:          e.headerDate(full),
		Items:         items,
		DeclaredTotal: e.declaredTotal(full),
		ComputedTotal: sumTotals(items),
	}
	inv.Discrepancy = discrepant(inv.DeclaredTotal, inv.ComputedTotal)

	return &invoice.Result{
		OK:           true,
		Invoices:     []invoice.Invoice{inv},
		OverallTotal: inv.ComputedTotal,
	}
}

// assemblePerPage builds one invoice per page bearing an item table.
// Each invoice's declared total prefers the table's own footer row;
// the overall total sums each invoice's declared total, falling back
// to its computed total.
func (e *Engine) assemblePerPage(results []pageResult, texts []string, full string) *invoice.Result {
	res := &invoice.Result{OK: true, Invoices: []invoice.Invoice{}}
	orderID := firstGroup(e.orderIDRE, full)

	var overall float64
	haveOverall := false
	for i, r := range results {
		if !r.hasTable {
			continue
		}
		items := Reconcile(r.grid, r.textTable, r.line)
		if items == nil {
			items = []invoice.LineItem{}
		}
		declared := r.footerTotal
		if declared == nil {
			declared = e.declaredTotal(texts[i])
		}
		inv := invoice.Invoice{
			Merchant:      e.desc.Merchant,
			InvoiceNumber: firstGroup(e.invoiceNoRE, texts[i]),
			OrderID:       orderID,
			Date:          e.headerDate(texts[i]),
			PageIndex:     i,
			Items:         items,
			DeclaredTotal: declared,
			ComputedTotal: sumTotals(items),
		}
		inv.Discrepancy = discrepant(inv.DeclaredTotal, inv.ComputedTotal)

		if t := firstNonNil(inv.DeclaredTotal, inv.ComputedTotal); t != nil {
			overall += *t
			haveOverall = true
		}
		res.Invoices = append(res.Invoices, inv)
	}
	if haveOverall {
		res.OverallTotal = invoice.Float(invoice.Round2(overall))
	}
	if len(res.Invoices) == 0 {
		log.Warn().Str("family", e.desc.Family).Msg("no pages carried an item table")
	}
	return res
}

func (e *Engine) markersPresent(full string) bool {
	low := strings.ToLower(full)
	for _, m := range e.desc.Markers {
		if m != "" && strings.Contains(low, m) {
			return true
		}
	}
	return false
}

func stopLine(t string, stop []string) bool {
	low := strings.ToLower(t)
	for _, s := range stop {
		if s != "" && strings.Contains(low, s) {
			return true
		}
	}
	return false
}

func firstNonNil(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
