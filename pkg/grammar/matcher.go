package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

// Matcher is one compiled line grammar. The ordered field specs are
// interpreted into a single pattern; matching a line binds each
// captured token to its line-item field, degrading unparseable tokens
// to unknown instead of failing the match.
type Matcher struct {
	re     *regexp.Regexp
	fields []FieldSpec
}

// Compile interprets an ordered field list into a matcher.
func Compile(fields []FieldSpec) (*Matcher, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("cannot compile an empty grammar")
	}
	var b strings.Builder
	b.WriteString(`\b`)
	for i, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		group := groupPattern(f)
		sep := `\s+`
		if i == len(fields)-1 {
			sep = ""
		}
		if f.Optional {
			b.WriteString(`(?:` + group + sep + `)?`)
		} else {
			b.WriteString(group + sep)
		}
	}
	b.WriteString(`\b`)
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("grammar does not compile: %w", err)
	}
	// Field binding is positional, so a pattern field smuggling in its
	// own capture group would shift every following field.
	if re.NumSubexp() != len(fields) {
		return nil, fmt.Errorf("grammar compiles to %d capture groups for %d fields", re.NumSubexp(), len(fields))
	}
	return &Matcher{re: re, fields: fields}, nil
}

func groupPattern(f FieldSpec) string {
	switch f.Kind {
	case KindInt:
		return `(\d+)`
	case KindCode:
		return fmt.Sprintf(`(\d{%d,%d})`, f.MinLen, f.MaxLen)
	case KindDecimal:
		return `(\d+(?:\.\d{1,2})?)`
	case KindPercent:
		if f.MarkerOptional {
			return `(\d+(?:\.\d+)?)%?`
		}
		return `(\d+(?:\.\d+)?)%`
	case KindPattern:
		return `(` + f.Pattern + `)`
	default: // KindFreeText
		return `(.+?)`
	}
}

// Match attempts the grammar against one physical line. The second
// return is false when the line does not match or when the captured
// name span has no alphabetic character (rejects accidental matches
// against unrelated numeric lines).
func (m *Matcher) Match(line string) (invoice.LineItem, bool) {
	line = RepairOrphanDecimal(NormalizeLine(line))
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return invoice.LineItem{}, false
	}
	return m.bind(sub)
}

// Matches reports whether the grammar pattern occurs in the line,
// without binding fields. Used to recognize neighboring item data
// lines during name stitching.
func (m *Matcher) Matches(line string) bool {
	return m.re.MatchString(RepairOrphanDecimal(NormalizeLine(line)))
}

// MatchAll returns every non-overlapping grammar match in a line.
// Used against merged rows where several logical items were flattened
// into one string.
func (m *Matcher) MatchAll(line string) []invoice.LineItem {
	line = RepairOrphanDecimal(NormalizeLine(line))
	var items []invoice.LineItem
	for _, sub := range m.re.FindAllStringSubmatch(line, -1) {
		if it, ok := m.bind(sub); ok {
			items = append(items, it)
		}
	}
	return items
}

func (m *Matcher) bind(sub []string) (invoice.LineItem, bool) {
	var it invoice.LineItem
	var nameParts []string
	for i, f := range m.fields {
		v := strings.TrimSpace(sub[i+1])
		if v == "" {
			continue
		}
		switch f.Name {
		case "sr":
			it.Sr = invoice.ParseSerial(v)
		case "name", "name2":
			nameParts = append(nameParts, v)
		case "hsn":
			it.HSN = v
		case "qty":
			it.Qty = invoice.ParseQty(v)
		case "rate":
			it.Rate = invoice.ParseMoney(v)
		case "discount_pct":
			it.DiscountPct = invoice.ParsePercent(v)
		case "taxable":
			it.Taxable = invoice.ParseMoney(v)
		case "cgst_pct":
			it.CGSTPct = invoice.ParsePercent(v)
		case "sgst_pct":
			it.SGSTPct = invoice.ParsePercent(v)
		case "cgst_amt":
			it.CGSTAmt = invoice.ParseMoney(v)
		case "sgst_amt":
			it.SGSTAmt = invoice.ParseMoney(v)
		case "cess_pct":
			it.CessPct = invoice.ParsePercent(v)
		case "cess_amt":
			it.CessAmt = invoice.ParseMoney(v)
		case "total":
			it.Total = invoice.ParseMoney(v)
		}
	}
	raw := strings.Join(nameParts, " ")
	if !hasLetter.MatchString(raw) {
		return invoice.LineItem{}, false
	}
	it.Name = CleanName(raw)
	return it, true
}
