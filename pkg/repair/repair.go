// Package repair applies ordered corrective rules for known rendering
// defects to extracted line items. Rules are pure functions of one
// item, idempotent, and have non-overlapping trigger conditions; new
// defects get new rules, existing rules never change meaning.
package repair

import (
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

// Rule is one named correction. Apply mutates the item in place and
// reports whether it fired.
type Rule struct {
	Name  string
	Apply func(*invoice.LineItem) bool
}

// TotalTaxableConfusion corrects a rendering defect where the total
// column silently re-used a fragment of an adjacent zero-tax column:
// a present total below the threshold, with a present taxable value
// and both tax amounts zero, is replaced by the taxable value.
func TotalTaxableConfusion(threshold float64) Rule {
	if threshold <= 0 {
		threshold = 5
	}
	return Rule{
		Name: "total_taxable_confusion",
		Apply: func(it *invoice.LineItem) bool {
			if it.Total == nil || it.Taxable == nil {
				return false
			}
			if *it.Total >= threshold {
				return false
			}
			if amtOrZero(it.CGSTAmt) != 0 || amtOrZero(it.SGSTAmt) != 0 {
				return false
			}
			v := *it.Taxable
			it.Total = invoice.Float(v)
			return true
		},
	}
}

// Brand restores a known truncated brand name: items whose name
// begins with the trigger prefix get the missing brand prefix and
// unit suffix reattached.
func Brand(br grammar.BrandRepair) Rule {
	return Rule{
		Name: "brand_" + strings.ToLower(br.Prefix),
		Apply: func(it *invoice.LineItem) bool {
			// Firing re-prefixes the name, so the trigger can never
			// match the repaired form: idempotent by construction.
			if br.Prefix == "" || !strings.HasPrefix(strings.ToLower(it.Name), strings.ToLower(br.Prefix)) {
				return false
			}
			it.Name = br.Prepend + it.Name + br.Append
			return true
		},
	}
}

// RulesFor builds the rule set of a template family.
func RulesFor(d *grammar.Descriptor) []Rule {
	rules := []Rule{TotalTaxableConfusion(d.TotalConfusionThreshold)}
	for _, br := range d.BrandRepairs {
		rules = append(rules, Brand(br))
	}
	return rules
}

// Apply runs every rule over every item, in order.
func Apply(items []invoice.LineItem, rules []Rule) []invoice.LineItem {
	for i := range items {
		for _, r := range rules {
			r.Apply(&items[i])
		}
	}
	return items
}

func amtOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
