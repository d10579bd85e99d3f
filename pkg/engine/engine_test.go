package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CaptainVC/hisab-kitab/pkg/document"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

const zeptoPageText = `Geddit Convenience Private Limited
Invoice No : INV123
Order No : ORD456
Date : 05-02-2026
Sr
1 Lemon 7031010 2 10.00 0% 20.00 2.5% 2.5% 0.50 0.50 0% 0.00 21.00
Item Total 21.00`

func zeptoEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(grammar.Zepto())
	require.NoError(t, err)
	return e
}

func blinkitEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(grammar.Blinkit())
	require.NoError(t, err)
	return e
}

func TestExtractVendorMismatch(t *testing.T) {
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: "Some Other Store\nInvoice No : X1"},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "not_zepto", res.Reason)
	assert.Empty(t, res.Invoices)
}

func TestExtractSingleInvoiceFromText(t *testing.T) {
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: zeptoPageText},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 1)

	inv := res.Invoices[0]
	assert.Equal(t, "ZEPTO", inv.Merchant)
	assert.Equal(t, "INV123", inv.InvoiceNumber)
	assert.Equal(t, "ORD456", inv.OrderID)
	assert.Equal(t, "2026-02-05", inv.Date)

	require.Len(t, inv.Items, 1)
	it := inv.Items[0]
	assert.Equal(t, "Lemon", it.Name)
	assert.Equal(t, "7031010", it.HSN)
	require.NotNil(t, it.Qty)
	assert.Equal(t, 2, *it.Qty)

	require.NotNil(t, inv.DeclaredTotal)
	assert.InDelta(t, 21, *inv.DeclaredTotal, 1e-9)
	require.NotNil(t, inv.ComputedTotal)
	assert.InDelta(t, 21, *inv.ComputedTotal, 1e-9)
	assert.False(t, inv.Discrepancy)

	require.NotNil(t, res.OverallTotal)
	assert.InDelta(t, 21, *res.OverallTotal, 1e-9)
}

func TestExtractDeduplicatesAcrossPaths(t *testing.T) {
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{
			PageText: zeptoPageText,
			PageWords: []document.Word{
				{Text: "Sr", X0: 10, Top: 100},
				{Text: "Item", X0: 10, Top: 400},
				{Text: "Total", X0: 60, Top: 400},
			},
			GridTables: []document.Table{{Rows: [][]string{
				{"Sr. No", "Item Description", "HSN", "Qty", "MRP", "Total"},
				{"1", "Lemon", "7031010", "2", "10.00", "21.00"},
			}}},
		},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 1)
	require.Len(t, res.Invoices[0].Items, 1, "grid and line candidates share one identity")
	assert.Equal(t, "Lemon", res.Invoices[0].Items[0].Name)
}

func TestExtractFlexibleFallback(t *testing.T) {
	// The membership row wraps across two lines, so the strict grammar
	// matches nothing and the order-flexible variant takes over.
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: "Geddit Convenience\n" +
			"Invoice No : INVP1\n" +
			"Zepto Pass 1 Membership Fee 998599\n" +
			"1 99.00 0% 84.75 9% 9% 7.63 7.62 0% 0.00 99.00\n" +
			"Item Total 99.00"},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 1)
	require.Len(t, res.Invoices[0].Items, 1)

	it := res.Invoices[0].Items[0]
	assert.Equal(t, "Zepto Pass Membership Fee", it.Name)
	assert.Equal(t, "998599", it.HSN)
	require.NotNil(t, it.Total)
	assert.InDelta(t, 99, *it.Total, 1e-9)
	require.NotNil(t, res.Invoices[0].DeclaredTotal)
	assert.InDelta(t, 99, *res.Invoices[0].DeclaredTotal, 1e-9)
	assert.False(t, res.Invoices[0].Discrepancy)
}

func TestExtractEmptyDocument(t *testing.T) {
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: "Zepto order summary with no item table at all"},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK, "an empty extraction is a degradation, not a failure")
	require.Len(t, res.Invoices, 1)
	assert.Empty(t, res.Invoices[0].Items)
	assert.Nil(t, res.Invoices[0].ComputedTotal)
}

func TestExtractCancelled(t *testing.T) {
	e := zeptoEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: zeptoPageText},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, prov)
	assert.ErrorIs(t, err, context.Canceled)
}

func blinkitPage(invoiceNo, name, hsn, qty, mrp, total string) *document.MemoryPage {
	return &document.MemoryPage{
		PageText: "Blinkit\nInvoice Number: " + invoiceNo + "\nOrder Id: 777001\nInvoice Date: 02-Aug-2025",
		PageWords: []document.Word{
			{Text: "Sr.", X0: 10, Top: 120},
			{Text: "No", X0: 28, Top: 120},
			{Text: "Total", X0: 20, Top: 300},
		},
		GridTables: []document.Table{{Rows: [][]string{
			{"Sr. No", "Item Description", "HSN", "Qty", "MRP", "Total"},
			{"1", name, hsn, qty, mrp, total},
			{"Total", "", "", "", "", total},
		}}},
	}
}

func TestExtractPerPageInvoices(t *testing.T) {
	e := blinkitEngine(t)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		blinkitPage("BLK001", "Milk 500ml", "04012000", "2", "30.00", "60.00"),
		blinkitPage("BLK002", "Bread", "19059090", "1", "40.00", "40.00"),
		{PageText: "Blinkit delivery summary page"}, // no item table
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 2, "only pages bearing an item table become invoices")

	first, second := res.Invoices[0], res.Invoices[1]
	assert.Equal(t, 0, first.PageIndex)
	assert.Equal(t, 1, second.PageIndex)
	assert.Equal(t, "BLK001", first.InvoiceNumber)
	assert.Equal(t, "BLK002", second.InvoiceNumber)
	assert.Equal(t, "777001", first.OrderID)
	assert.Equal(t, "2025-08-02", first.Date)

	require.Len(t, first.Items, 1)
	assert.Equal(t, "Milk 500ml", first.Items[0].Name)
	require.NotNil(t, first.DeclaredTotal)
	assert.InDelta(t, 60, *first.DeclaredTotal, 1e-9, "the table footer row carries the invoice total")
	assert.False(t, first.Discrepancy)

	require.NotNil(t, res.OverallTotal)
	assert.InDelta(t, 100, *res.OverallTotal, 1e-9)
}

func TestExtractSerialPrefixedRows(t *testing.T) {
	e, err := New(grammar.Swiggy())
	require.NoError(t, err)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: "Bundl Technologies Private Limited\n" +
			"Order ID: 198765432101\n" +
			"1. Chicken Biryani plate 2 209.00 0.00 209.00 199.05\n" +
			"2. Coke NOS 1 40.00 0.00 40.00 38.10\n" +
			"Invoice Total ₹ 237.15"},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 1)

	inv := res.Invoices[0]
	assert.Equal(t, "SWIGGY", inv.Merchant)
	assert.Equal(t, "198765432101", inv.OrderID)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Chicken Biryani", inv.Items[0].Name)
	assert.Equal(t, "Coke", inv.Items[1].Name)
	require.NotNil(t, inv.Items[0].Qty)
	assert.Equal(t, 2, *inv.Items[0].Qty)

	require.NotNil(t, inv.DeclaredTotal)
	assert.InDelta(t, 237.15, *inv.DeclaredTotal, 1e-9)
	require.NotNil(t, inv.ComputedTotal)
	assert.InDelta(t, 237.15, *inv.ComputedTotal, 1e-9)
	assert.False(t, inv.Discrepancy)
}

func TestExtractDashedQuantityRows(t *testing.T) {
	e, err := New(grammar.Eatclub())
	require.NoError(t, err)
	prov := &document.MemoryProvider{Docs: []*document.MemoryPage{
		{PageText: "EatClub Brands Private Limited\n" +
			"Tracking ID : TRK12345\n" +
			"Invoice No : EC/2026/0042\n" +
			"Ordered At : 05-02-2026\n" +
			"Product Details\n" +
			"Description Qty Rate Amount\n" +
			"Golden Corn Pizza [Regular 7\"] - 2 Pc 195.00 390.00\n" +
			"Garlic Breadsticks - 1 Pc 99.00 99.00\n" +
			"Sub Total : 489.00\n" +
			"Invoice Total : 489.00"},
	}}

	res, err := e.Extract(context.Background(), prov)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Invoices, 1)

	inv := res.Invoices[0]
	assert.Equal(t, "EATCLUB", inv.Merchant)
	assert.Equal(t, "EC/2026/0042", inv.InvoiceNumber)
	assert.Equal(t, "TRK12345", inv.OrderID)
	assert.Equal(t, "2026-02-05", inv.Date)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Golden Corn Pizza [Regular 7\"]", inv.Items[0].Name,
		"the column header above the first row never bleeds into the name")
	assert.Equal(t, "Garlic Breadsticks", inv.Items[1].Name)

	require.NotNil(t, inv.DeclaredTotal)
	assert.InDelta(t, 489, *inv.DeclaredTotal, 1e-9)
	assert.False(t, inv.Discrepancy)
}

func TestReconcilePriorityAndIdempotence(t *testing.T) {
	rich := invoice.LineItem{Name: "Lemon", HSN: "7031010", Qty: invoice.Int(2), Rate: invoice.Float(10), Total: invoice.Float(21)}
	poor := invoice.LineItem{Name: "lemon", HSN: "7031010", Qty: invoice.Int(2), Total: invoice.Float(21)}
	other := invoice.LineItem{Name: "Onion", HSN: "7031020", Qty: invoice.Int(1), Total: invoice.Float(29.40)}

	merged := Reconcile(
		[]invoice.LineItem{rich},
		[]invoice.LineItem{poor, other},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "Lemon", merged[0].Name, "the first stream's candidate wins")
	assert.NotNil(t, merged[0].Rate)
	assert.Equal(t, "Onion", merged[1].Name)

	again := Reconcile(merged)
	assert.Equal(t, merged, again)
}

func TestDeclaredTotalRupeesFallback(t *testing.T) {
	e := blinkitEngine(t)
	got := e.declaredTotal("items\n128.00\nOne Hundred Twenty Eight Rupees Only")
	require.NotNil(t, got)
	assert.InDelta(t, 128, *got, 1e-9)

	assert.Nil(t, e.declaredTotal("no totals anywhere"))
}

func TestBuiltinFamiliesBuild(t *testing.T) {
	for name, d := range grammar.Families() {
		_, err := New(d)
		assert.NoError(t, err, "family %s", name)
	}
}

func TestSumTotalsAndDiscrepancy(t *testing.T) {
	items := []invoice.LineItem{
		{Total: invoice.Float(21)},
		{Total: nil}, // unparsed total does not poison the sum
		{Total: invoice.Float(9.5)},
	}
	got := sumTotals(items)
	require.NotNil(t, got)
	assert.InDelta(t, 30.5, *got, 1e-9)

	assert.Nil(t, sumTotals(nil))

	assert.False(t, discrepant(invoice.Float(30.5), invoice.Float(30.5)))
	assert.True(t, discrepant(invoice.Float(31), invoice.Float(30.5)))
	assert.False(t, discrepant(nil, invoice.Float(30.5)))
}
