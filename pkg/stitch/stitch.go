// Package stitch reassembles item display names that the renderer
// split across the lines surrounding the item's data line.
package stitch

import (
	"regexp"
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
)

const (
	maxLookback    = 4 // name fragments collected above the item line
	maxLookahead   = 3 // pack-size fragments collected below it
	maxFragmentLen = 40
)

var (
	hasLetter  = regexp.MustCompile(`[A-Za-z]`)
	hasDigit   = regexp.MustCompile(`\d`)
	bareNumber = regexp.MustCompile(`^\d+(?:\.\d+)?%?$`)
	signedDec  = regexp.MustCompile(`^[+\-]?\s*\d+\.\d{2}$`)
)

// Stitcher classifies the neighbors of an item line and assembles the
// full display name. Its vocabulary (denylists, pack tokens, section
// stop markers) comes from the template-family descriptor; IsItem
// recognizes other item data lines so the downward walk never crosses
// into the next item.
type Stitcher struct {
	desc   *grammar.Descriptor
	isItem func(string) bool
}

// New builds a stitcher for one template family. isItem may be nil
// when the family has no line grammar.
func New(d *grammar.Descriptor, isItem func(string) bool) *Stitcher {
	if isItem == nil {
		isItem = func(string) bool { return false }
	}
	return &Stitcher{desc: d, isItem: isItem}
}

// Assemble returns the full display name for the item matched at
// lines[idx]: the name fragments found walking upward (in reading
// order), then the grammar-matched base name, then the pack-size
// fragments found walking downward. sectionStart bounds the upward
// walk at the beginning of the items section.
func (s *Stitcher) Assemble(lines []string, idx, sectionStart int, base string) string {
	var prefix []string
	for j := idx - 1; j >= sectionStart && len(prefix) < maxLookback; j-- {
		t := strings.TrimSpace(lines[j])
		if t == "" {
			continue
		}
		if s.isPackFragment(t) || s.isHeaderOrAddress(t) || s.IsNoise(t) {
			break
		}
		if s.isNameFragment(t) {
			prefix = append(prefix, t)
		}
	}

	var suffix []string
	for k := idx + 1; k < len(lines) && len(suffix) < maxLookahead; k++ {
		t := strings.TrimSpace(lines[k])
		if t == "" {
			continue
		}
		if s.isItem(t) || s.isStopLine(t) || s.isHeaderOrAddress(t) {
			break
		}
		if bareNumber.MatchString(t) || signedDec.MatchString(t) {
			continue
		}
		if s.isPackFragment(t) {
			suffix = append(suffix, t)
		}
	}

	parts := make([]string, 0, len(prefix)+1+len(suffix))
	for i := len(prefix) - 1; i >= 0; i-- {
		parts = append(parts, prefix[i])
	}
	parts = append(parts, base)
	parts = append(parts, suffix...)
	return strings.Trim(grammar.NormalizeLine(strings.Join(parts, " ")), " -")
}

// IsNoise reports lines that can never be part of a product name: a
// lone number, percentage, signed decimal, or a column-header token.
func (s *Stitcher) IsNoise(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return true
	}
	if bareNumber.MatchString(t) || signedDec.MatchString(t) {
		return true
	}
	low := strings.ToLower(t)
	for _, tok := range s.desc.NoiseTokens {
		if low == tok {
			return true
		}
	}
	return false
}

func (s *Stitcher) isHeaderOrAddress(t string) bool {
	low := strings.ToLower(t)
	for _, k := range s.desc.HeaderDenylist {
		if strings.Contains(low, k) {
			return true
		}
	}
	for _, k := range s.desc.AddressDenylist {
		if strings.Contains(low, k) {
			return true
		}
	}
	return strings.Contains(t, ":")
}

// isNameFragment: alphabetic, no digits, not address-like, and short
// enough to be a product-name line.
func (s *Stitcher) isNameFragment(t string) bool {
	if !hasLetter.MatchString(t) || hasDigit.MatchString(t) {
		return false
	}
	if len(t) > maxFragmentLen {
		return false
	}
	return true
}

// isPackFragment: sizing tokens, units, or a parenthesis ("(4 pcs)",
// "(500 g)").
func (s *Stitcher) isPackFragment(t string) bool {
	low := strings.ToLower(t)
	for _, tok := range s.desc.PackTokens {
		if tok != "" && strings.Contains(low, tok) {
			return true
		}
	}
	return false
}

func (s *Stitcher) isStopLine(t string) bool {
	low := strings.ToLower(t)
	for _, m := range s.desc.StopMarkers {
		if m != "" && strings.Contains(low, m) {
			return true
		}
	}
	return false
}
