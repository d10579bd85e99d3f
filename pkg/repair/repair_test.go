package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

func TestTotalTaxableConfusion(t *testing.T) {
	r := TotalTaxableConfusion(5)

	it := invoice.LineItem{
		Name:    "Paneer",
		Taxable: invoice.Float(50),
		CGSTAmt: invoice.Float(0),
		SGSTAmt: invoice.Float(0),
		Total:   invoice.Float(0.04),
	}
	assert.True(t, r.Apply(&it))
	require.NotNil(t, it.Total)
	assert.InDelta(t, 50, *it.Total, 1e-9)

	assert.False(t, r.Apply(&it), "a repaired item does not fire again")
	assert.InDelta(t, 50, *it.Total, 1e-9)
}

func TestTotalTaxableConfusionDoesNotFire(t *testing.T) {
	r := TotalTaxableConfusion(5)

	taxed := invoice.LineItem{Taxable: invoice.Float(50), CGSTAmt: invoice.Float(1.25), SGSTAmt: invoice.Float(1.25), Total: invoice.Float(0.04)}
	assert.False(t, r.Apply(&taxed), "non-zero tax amounts mean the small total is real")

	cheap := invoice.LineItem{Taxable: invoice.Float(2), CGSTAmt: invoice.Float(0), SGSTAmt: invoice.Float(0), Total: invoice.Float(2)}
	assert.True(t, r.Apply(&cheap))
	assert.InDelta(t, 2, *cheap.Total, 1e-9, "a genuinely cheap zero-tax item keeps its value")

	missing := invoice.LineItem{Total: invoice.Float(0.04)}
	assert.False(t, r.Apply(&missing), "no taxable value to restore from")
}

func TestBrandRepair(t *testing.T) {
	r := Brand(grammar.BrandRepair{Prefix: "Kinnaur", Prepend: "Apple ", Append: " pcs"})

	it := invoice.LineItem{Name: "Kinnaur (4"}
	assert.True(t, r.Apply(&it))
	assert.Equal(t, "Apple Kinnaur (4 pcs", it.Name)

	assert.False(t, r.Apply(&it), "the repaired name no longer starts with the trigger")

	other := invoice.LineItem{Name: "Lemon"}
	assert.False(t, r.Apply(&other))
	assert.Equal(t, "Lemon", other.Name)
}

func TestApplyRunsAllRules(t *testing.T) {
	d := grammar.Zepto()
	items := []invoice.LineItem{
		{Name: "Kinnaur", Taxable: invoice.Float(160), CGSTAmt: invoice.Float(0), SGSTAmt: invoice.Float(0), Total: invoice.Float(0.04)},
	}
	items = Apply(items, RulesFor(d))
	require.NotNil(t, items[0].Total)
	assert.InDelta(t, 160, *items[0].Total, 1e-9)
	assert.Equal(t, "Apple Kinnaur pcs", items[0].Name)
}
