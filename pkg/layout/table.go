package layout

import (
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/document"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

// The two geometric table-detection configurations. Grid detection
// follows drawn lines; text detection follows whitespace alignment.
// Templates render tables with or without visible grid lines, so both
// run as independent candidate streams.
var (
	GridConfig = document.TableConfig{VerticalStrategy: "lines", HorizontalStrategy: "lines"}
	TextConfig = document.TableConfig{VerticalStrategy: "text", HorizontalStrategy: "text"}
)

// FirstTable returns the first non-empty table of a detection pass.
func FirstTable(tables []document.Table) (document.Table, bool) {
	for _, tb := range tables {
		if len(tb.Rows) > 0 {
			return tb, true
		}
	}
	return document.Table{}, false
}

// ColumnMap holds the indexes of the columns of interest, -1 when the
// header row does not carry the column.
type ColumnMap struct {
	Desc  int
	Qty   int
	HSN   int
	MRP   int
	Total int
}

// MapColumns locates the columns of interest by header keyword. The
// total column is the LAST header containing "total": trailing
// columns are the authoritative total in multi-total layouts.
func MapColumns(header []string) ColumnMap {
	cm := ColumnMap{Desc: -1, Qty: -1, HSN: -1, MRP: -1, Total: -1}
	for i, raw := range header {
		c := strings.ToLower(grammar.NormalizeLine(raw))
		switch {
		case cm.Desc < 0 && (strings.Contains(c, "description") || (strings.Contains(c, "item") && !strings.Contains(c, "total"))):
			cm.Desc = i
		case cm.Qty < 0 && strings.Contains(c, "qty"):
			cm.Qty = i
		case cm.HSN < 0 && strings.Contains(c, "hsn"):
			cm.HSN = i
		case cm.MRP < 0 && strings.Contains(c, "mrp"):
			cm.MRP = i
		}
		if strings.Contains(c, "total") {
			cm.Total = i
		}
	}
	return cm
}

// GridItems turns a grid-strategy raw table into line-item
// candidates. It also returns the value of a left-column footer
// "Total" row when the table carries one (per-page invoice families
// declare their invoice total there). The final return is false when
// the table's header row does not carry the columns of interest.
func GridItems(tb document.Table, stop []string) ([]invoice.LineItem, *float64, bool) {
	if len(tb.Rows) < 2 {
		return nil, nil, false
	}
	cm := MapColumns(tb.Rows[0])
	if cm.Desc < 0 || cm.Total < 0 {
		return nil, nil, false
	}

	var items []invoice.LineItem
	var footerTotal *float64

	for _, row := range tb.Rows[1:] {
		if len(row) == 0 {
			continue
		}
		first := strings.ToLower(grammar.NormalizeLine(row[0]))
		if first == "total" || first == "grand total" {
			if v := cellMoney(row, cm.Total); v != nil {
				footerTotal = v
			}
			continue
		}
		if isStopRow(first, stop) {
			continue
		}

		descRaw := cellAt(row, cm.Desc)
		if strings.TrimSpace(descRaw) == "" {
			continue
		}

		if strings.Contains(row[0], "\n") || strings.Contains(descRaw, "\n") {
			items = append(items, zipStackedRow(row, cm)...)
			continue
		}

		total := cellMoney(row, cm.Total)
		if total == nil {
			continue
		}
		it := invoice.LineItem{
			Name:  grammar.NormalizeLine(descRaw),
			Sr:    invoice.ParseSerial(row[0]),
			HSN:   strings.TrimSpace(cellAt(row, cm.HSN)),
			Qty:   invoice.ParseQty(cellAt(row, cm.Qty)),
			Rate:  cellMoney(row, cm.MRP),
			Total: total,
		}
		items = append(items, it)
	}

	return items, footerTotal, true
}

// zipStackedRow handles a geometric row holding several logical rows:
// each multi-valued cell splits into stacked sub-values, and the k-th
// sub-values of the serial/description/code/quantity/total columns
// pair into the k-th candidate.
func zipStackedRow(row []string, cm ColumnMap) []invoice.LineItem {
	srs := SplitCell(row[0])
	descs := SplitCell(cellAt(row, cm.Desc))
	hsns := SplitCell(cellAt(row, cm.HSN))
	qtys := SplitCell(cellAt(row, cm.Qty))
	totals := SplitCell(cellAt(row, cm.Total))

	n := len(descs)
	for _, l := range []int{len(totals), len(srs), len(hsns), len(qtys)} {
		if l > n {
			n = l
		}
	}

	var items []invoice.LineItem
	for i := 0; i < n; i++ {
		name := at(descs, i)
		if name == "" {
			continue
		}
		total := invoice.ParseMoney(at(totals, i))
		if total == nil {
			continue
		}
		items = append(items, invoice.LineItem{
			Name:  name,
			Sr:    invoice.ParseSerial(at(srs, i)),
			HSN:   at(hsns, i),
			Qty:   invoice.ParseQty(at(qtys, i)),
			Total: total,
		})
	}
	return items
}

// TextTableItems turns a text-strategy raw table into candidates by
// repairing cell damage, flattening each row, and running the line
// grammar over it. The first row is also scanned: a rendering bug can
// overlap an item row with the table header of the next page, leaving
// a full item inside the "header".
func TextTableItems(tb document.Table, m *grammar.Matcher, d *grammar.Descriptor) []invoice.LineItem {
	if m == nil || len(tb.Rows) == 0 {
		return nil
	}
	codeMin, codeMax := codeBounds(d)

	var items []invoice.LineItem

	// The header row gets no numeric repairs: a bled item row inside
	// it is intact text, and digit-joining would fuse its values.
	var headerCells []string
	for _, c := range tb.Rows[0] {
		if s := grammar.NormalizeLine(strings.ReplaceAll(c, "\n", " ")); s != "" {
			headerCells = append(headerCells, s)
		}
	}
	headerText := strings.Join(headerCells, " ")
	if headerText != "" && grammar.ContainsCode(headerText, codeMin, codeMax) {
		items = append(items, m.MatchAll(headerText)...)
	}

	for _, row := range tb.Rows[1:] {
		rowText := flattenRow(row, d.CodeWidth)
		if rowText == "" {
			continue
		}
		if isStopRow(strings.ToLower(rowText), d.StopMarkers) {
			break
		}
		if !grammar.ContainsCode(rowText, codeMin, codeMax) {
			continue
		}
		items = append(items, m.MatchAll(rowText)...)
	}

	return items
}

// flattenRow cleans each cell (whitespace collapse, in-cell digit-run
// join, orphan decimal repair), applies the cross-cell fixed-width
// digit repair, and joins the cells into one line.
func flattenRow(row []string, codeWidth int) string {
	var cells []string
	for _, c := range row {
		s := grammar.NormalizeLine(strings.ReplaceAll(c, "\n", " "))
		s = JoinDigitRuns(s)
		s = grammar.RepairOrphanDecimal(s)
		if s != "" {
			cells = append(cells, s)
		}
	}
	if codeWidth > 0 {
		cells = RepairDigitSplit(cells, codeWidth)
	}
	return strings.Join(cells, " ")
}

func codeBounds(d *grammar.Descriptor) (int, int) {
	for _, f := range d.Fields {
		if f.Kind == grammar.KindCode {
			return f.MinLen, f.MaxLen
		}
	}
	if d.CodeWidth > 0 {
		return d.CodeWidth - 2, d.CodeWidth
	}
	return 6, 8
}

func isStopRow(low string, stop []string) bool {
	for _, s := range stop {
		if s != "" && strings.Contains(low, s) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cellMoney(row []string, idx int) *float64 {
	return invoice.ParseMoney(grammar.NormalizeLine(cellAt(row, idx)))
}

func at(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}
