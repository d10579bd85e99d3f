package invoice

import (
	"regexp"
	"strings"
	"time"
)

var ordinalSuffix = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)

// dateLayouts are the rendering formats observed across invoice
// templates, tried in order.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02-Jan-2006",
	"2 Jan, 2006",
	"2 January, 2006",
	"02-01-2006 15:04:05",
	"2 Jan 2006",
	"2 January 2006",
}

// ToISODate normalizes a rendered date such as "13th Jan, 2026" or
// "05-02-2026" to ISO 8601 (YYYY-MM-DD). Returns "" when no known
// layout matches; the caller treats that as an unknown field.
func ToISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
