// Package grammar describes and interprets the line grammars of
// invoice template families. A grammar is an ordered list of typed
// field specs compiled into a single matcher; template variants are
// alternative descriptor instances, not separate hand-written
// patterns.
package grammar

import "fmt"

// FieldKind is the token type of one grammar field.
type FieldKind string

const (
	KindInt      FieldKind = "int"      // integer run of digits
	KindFreeText FieldKind = "freetext" // non-greedy free text
	KindCode     FieldKind = "code"     // fixed-width digit code (e.g. HSN)
	KindDecimal  FieldKind = "decimal"  // amount with 0-2 decimal digits
	KindPercent  FieldKind = "percent"  // decimal with a trailing "%" marker
	KindPattern  FieldKind = "pattern"  // custom token shape (Pattern)
)

// FieldSpec is one typed field of a line grammar. Fields are
// separated by required whitespace in the order given.
type FieldSpec struct {
	// Name binds the captured token to a line-item field. Recognized
	// names: sr, name, name2, hsn, qty, rate, discount_pct, taxable,
	// cgst_pct, sgst_pct, cgst_amt, sgst_amt, cess_pct, cess_amt,
	// total. Unrecognized names are matched but discarded.
	Name string    `toml:"name"`
	Kind FieldKind `toml:"kind"`

	// MinLen/MaxLen bound the digit count of a code field.
	MinLen int `toml:"min_len,omitempty"`
	MaxLen int `toml:"max_len,omitempty"`

	// Pattern is the token shape of a pattern field: a regular
	// expression without capturing groups (literal separators,
	// unit-of-measure words, serials with trailing punctuation).
	Pattern string `toml:"pattern,omitempty"`

	// Optional makes the whole field (and its separator) skippable.
	Optional bool `toml:"optional,omitempty"`

	// MarkerOptional makes the "%" marker of a percent field optional.
	MarkerOptional bool `toml:"marker_optional,omitempty"`
}

func (f FieldSpec) validate() error {
	if f.Name == "" {
		return fmt.Errorf("grammar field without a name")
	}
	switch f.Kind {
	case KindInt, KindFreeText, KindDecimal, KindPercent:
		return nil
	case KindCode:
		if f.MinLen <= 0 || f.MaxLen < f.MinLen {
			return fmt.Errorf("code field %q needs 0 < min_len <= max_len", f.Name)
		}
		return nil
	case KindPattern:
		if f.Pattern == "" {
			return fmt.Errorf("pattern field %q needs a pattern", f.Name)
		}
		return nil
	default:
		return fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
	}
}
