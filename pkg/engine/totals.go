package engine

import (
	"regexp"
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

var bareAmount = regexp.MustCompile(`^₹?\s*[0-9,]+(?:\.[0-9]{1,2})?$`)

// declaredTotal recovers the invoice's own stated total from the text
// blob: the family's total patterns first, then (when the family
// enables it) the amount printed just above the "amount in words"
// line.
func (e *Engine) declaredTotal(text string) *float64 {
	for _, re := range e.declaredRE {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := invoice.ParseMoney(m[1]); v != nil {
				return v
			}
		}
	}
	if e.desc.RupeesFallback {
		return rupeesFallback(text)
	}
	return nil
}

// rupeesFallback scans for a line containing "rupees" (the amount in
// words) and walks upward to the nearest line that is a bare amount.
func rupeesFallback(text string) *float64 {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if !strings.Contains(strings.ToLower(ln), "rupees") {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-6; j-- {
			t := strings.TrimSpace(lines[j])
			if t == "" {
				continue
			}
			if bareAmount.MatchString(t) {
				return invoice.ParseMoney(t)
			}
			break
		}
	}
	return nil
}

// sumTotals adds up the item totals, skipping items whose total never
// parsed. Nil when no item carries a total.
func sumTotals(items []invoice.LineItem) *float64 {
	var sum float64
	found := false
	for _, it := range items {
		if it.Total == nil {
			continue
		}
		sum += *it.Total
		found = true
	}
	if !found {
		return nil
	}
	return invoice.Float(invoice.Round2(sum))
}

// discrepant reports a declared total that disagrees with the item
// sum beyond rounding noise.
func discrepant(declared, computed *float64) bool {
	if declared == nil || computed == nil {
		return false
	}
	d := *declared - *computed
	if d < 0 {
		d = -d
	}
	return d > 0.005
}
