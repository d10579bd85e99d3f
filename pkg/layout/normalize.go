package layout

import (
	"regexp"
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
)

var digitGap = regexp.MustCompile(`(\d)\s+(\d)`)

// SplitCell treats a cell containing embedded line breaks as stacked
// sub-values: one entry per line, whitespace-collapsed, empties
// dropped. Renderers that merge consecutive logical rows into one
// geometric row produce such cells.
func SplitCell(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "\n") {
		part = grammar.NormalizeLine(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinDigitRuns removes whitespace the renderer injected inside a
// single numeric value ("70 31 010" -> "7031010"). Applied within one
// cell only; joining across cells is the separate fixed-width repair.
func JoinDigitRuns(s string) string {
	for i := 0; i < 4; i++ {
		next := digitGap.ReplaceAllString(s, "$1$2")
		if next == s {
			return next
		}
		s = next
	}
	return s
}

// RepairDigitSplit fixes a fixed-width code erroneously split across
// two adjacent purely-numeric cells ("040120" + "006" with width 8 ->
// "04012000" + "6"). Only the digits needed to complete the code are
// consumed from the second cell, so a following unrelated field is
// never swallowed; a second cell drained empty is dropped.
func RepairDigitSplit(cells []string, width int) []string {
	if width <= 2 {
		return cells
	}
	i := 0
	for i < len(cells)-1 {
		a, b := cells[i], cells[i+1]
		if isDigits(a) && len(a) >= width-2 && len(a) < width && isDigits(b) && len(b) >= 1 && len(b) <= 3 {
			need := width - len(a)
			if need > 0 && need <= len(b) {
				cells[i] = a + b[:need]
				cells[i+1] = b[need:]
				if cells[i+1] == "" {
					cells = append(cells[:i+1], cells[i+2:]...)
					continue
				}
			}
		}
		i++
	}
	return cells
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
