package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	hasLetter     = regexp.MustCompile(`[A-Za-z]`)
	orphanDecimal = regexp.MustCompile(`(^|[^0-9])\.([0-9])`)

	// Word-merge passes for names the text layer shattered into short
	// fragments ("Le mon" -> "Lemon"). Applied to a fixed point with a
	// small cap so an already-clean name is never mangled further.
	nameMerges = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Za-z]{1,2}) ([a-z]{2,})\b`),
		regexp.MustCompile(`\b([A-Za-z]{1,3}) ([a-z]{1,3})\b`),
		regexp.MustCompile(`\b([a-z]{2,4}) ([a-z]{2,4})\b`),
	}
)

const nameMergeCap = 5

// NormalizeLine collapses internal whitespace runs and trims.
func NormalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RepairOrphanDecimal rewrites a value that lost its leading digit,
// ".5" -> "0.5".
func RepairOrphanDecimal(s string) string {
	return orphanDecimal.ReplaceAllString(s, "${1}0.${2}")
}

// CleanName normalizes a captured name span: whitespace collapse,
// stray separator trim, then iterative merging of adjacent short
// alphabetic fragments that are almost certainly one broken word.
func CleanName(s string) string {
	name := strings.Trim(NormalizeLine(s), " -")
	for i := 0; i < nameMergeCap; i++ {
		next := name
		for _, re := range nameMerges {
			next = re.ReplaceAllString(next, "$1$2")
		}
		if next == name {
			break
		}
		name = next
	}
	return name
}

// ContainsCode reports whether s contains a standalone digit run of
// the given width range (an HSN/tax-code-shaped token).
func ContainsCode(s string, minLen, maxLen int) bool {
	re := codeRun(minLen, maxLen)
	return re.MatchString(s)
}

// Pages are processed concurrently, so the compiled-pattern cache is
// guarded.
var (
	codeRunMu    sync.Mutex
	codeRunCache = map[[2]int]*regexp.Regexp{}
)

func codeRun(minLen, maxLen int) *regexp.Regexp {
	key := [2]int{minLen, maxLen}
	codeRunMu.Lock()
	defer codeRunMu.Unlock()
	if re, ok := codeRunCache[key]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`\b\d{%d,%d}\b`, minLen, maxLen))
	codeRunCache[key] = re
	return re
}
