package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"21.00", Float(21)},
		{"1,234.50", Float(1234.5)},
		{"1,234.5", Float(1234.5)},
		{"1234.50", Float(1234.5)},
		{"₹ 99", Float(99)},
		{"₹1,000", Float(1000)},
		{" 0.50 ", Float(0.5)},
		{"0", Float(0)},
		{"-5", nil},
		{"abc", nil},
		{"", nil},
		{"₹", nil},
	}
	for _, tt := range tests {
		got := ParseMoney(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "ParseMoney(%q)", tt.in)
			continue
		}
		require.NotNil(t, got, "ParseMoney(%q)", tt.in)
		assert.InDelta(t, *tt.want, *got, 1e-9, "ParseMoney(%q)", tt.in)
	}
}

func TestParsePercent(t *testing.T) {
	got := ParsePercent("2.5%")
	require.NotNil(t, got)
	assert.InDelta(t, 2.5, *got, 1e-9)

	got = ParsePercent("0")
	require.NotNil(t, got)
	assert.Zero(t, *got)

	assert.Nil(t, ParsePercent("x%"))
	assert.Nil(t, ParsePercent(""))
}

func TestParseQty(t *testing.T) {
	got := ParseQty("2.0")
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)

	got = ParseQty("3")
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)

	assert.Nil(t, ParseQty(""))
	assert.Nil(t, ParseQty("two"))
}

func TestParseSerial(t *testing.T) {
	got := ParseSerial("12")
	require.NotNil(t, got)
	assert.Equal(t, 12, *got)

	assert.Nil(t, ParseSerial("1a"))
	assert.Nil(t, ParseSerial(""))
}

func TestKeyCollapsesEquivalentCandidates(t *testing.T) {
	a := LineItem{Name: "Lemon", HSN: "7031010", Qty: Int(2), Total: Float(21)}
	b := LineItem{Name: "  LEMON ", HSN: "7031010", Qty: Int(2), Total: Float(21), Sr: Int(9), Rate: Float(10)}
	assert.Equal(t, a.Key(), b.Key(), "serial and rate must not affect identity")

	c := LineItem{Name: "Lemon", HSN: "7031010", Qty: Int(3), Total: Float(21)}
	assert.NotEqual(t, a.Key(), c.Key(), "quantity is part of identity")

	d := LineItem{Name: "Lemon", HSN: "7031010", Qty: Int(2)}
	assert.NotEqual(t, a.Key(), d.Key(), "missing total is distinct from a present one")
}
