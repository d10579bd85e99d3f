package engine

import (
	"fmt"
	"regexp"

	"github.com/CaptainVC/hisab-kitab/pkg/invoice"
)

// compilePatterns compiles the descriptor's header-field patterns up
// front so a malformed hand-written descriptor fails at construction,
// not mid-extraction.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("header pattern %q: %w", p, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("header pattern %q: want exactly one capture group, got %d", p, re.NumSubexp())
		}
		res = append(res, re)
	}
	return res, nil
}

// firstGroup returns the first capture of the first pattern matching
// the text, empty when none match.
func firstGroup(res []*regexp.Regexp, text string) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// headerDate extracts the invoice date and normalizes it to ISO 8601.
// An unparseable date degrades to empty rather than failing.
func (e *Engine) headerDate(text string) string {
	raw := firstGroup(e.dateRE, text)
	if raw == "" {
		return ""
	}
	return invoice.ToISODate(raw)
}
