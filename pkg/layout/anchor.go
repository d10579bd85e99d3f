// Package layout locates item tables on a page from word geometry and
// turns raw extracted tables into line-item candidates, repairing the
// cell damage the upstream renderer is known to introduce.
package layout

import (
	"strings"

	"github.com/CaptainVC/hisab-kitab/pkg/document"
	"github.com/CaptainVC/hisab-kitab/pkg/grammar"
)

// Words on the same visual row may differ slightly in top coordinate.
const rowTolerance = 3.0

// LocateRegion finds the vertical interval bounding the item table by
// matching the anchor's header token and, when present, its footer
// token. The second return is false when no header anchor exists on
// the page; the page then contributes no table-path candidates.
func LocateRegion(words []document.Word, pageHeight float64, a grammar.Anchor) (document.Region, bool) {
	headerTop, ok := findHeader(words, a)
	if !ok {
		return document.Region{}, false
	}

	y0 := headerTop - a.TopMargin
	if y0 < 0 {
		y0 = 0
	}

	y1 := headerTop + a.FallbackHeight
	if footerTop, found := findFooter(words, headerTop, a); found {
		y1 = footerTop + a.BottomMargin
	}
	if y1 > pageHeight {
		y1 = pageHeight
	}

	return document.Region{Y0: y0, Y1: y1}, true
}

func findHeader(words []document.Word, a grammar.Anchor) (float64, bool) {
	for _, w := range words {
		if !tokenIn(w.Text, a.Headers) {
			continue
		}
		if a.HeaderMaxX > 0 && w.X0 > a.HeaderMaxX {
			continue
		}
		if len(a.PairTokens) == 0 {
			return w.Top, true
		}
		// The header label is two tokens ("Sr." + "No"); require the
		// second on the same visual row, to the right.
		for _, w2 := range words {
			if tokenIn(w2.Text, a.PairTokens) && abs(w2.Top-w.Top) < rowTolerance && w2.X0 > w.X0 {
				top := w.Top
				if w2.Top < top {
					top = w2.Top
				}
				return top, true
			}
		}
	}
	return 0, false
}

// findFooter locates the footer/total row. The minimum-gap constraint
// guards against matching the label inside the table header itself.
func findFooter(words []document.Word, headerTop float64, a grammar.Anchor) (float64, bool) {
	if len(a.FooterPair) == 2 {
		for _, w := range words {
			if !strings.EqualFold(w.Text, a.FooterPair[0]) || w.Top <= headerTop+a.FooterMinGap {
				continue
			}
			for _, w2 := range words {
				if strings.EqualFold(w2.Text, a.FooterPair[1]) && abs(w2.Top-w.Top) < rowTolerance && w2.X0 > w.X0 {
					return w.Top, true
				}
			}
		}
	}

	if a.FooterLeft != "" {
		maxX := a.FooterLeftMaxX
		if maxX <= 0 {
			maxX = 100
		}
		// Take the lowest qualifying row: trailing "Total" rows are
		// the authoritative ones in multi-total layouts.
		found := false
		top := 0.0
		for _, w := range words {
			if strings.EqualFold(w.Text, a.FooterLeft) && w.X0 < maxX && w.Top > headerTop+a.FooterMinGap {
				if !found || w.Top > top {
					top = w.Top
					found = true
				}
			}
		}
		if found {
			return top, true
		}
	}

	return 0, false
}

func tokenIn(text string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(text, s) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
