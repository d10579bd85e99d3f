package engine

import "github.com/CaptainVC/hisab-kitab/pkg/invoice"

// Reconcile merges candidate streams into one ordered item list. The
// first candidate carrying a given identity key wins and keeps its
// position; later candidates with the same key are dropped. Streams
// are passed in extraction-path priority order (grid table, text
// table, line grammar), so the richest candidate survives. Running
// the output through Reconcile again returns it unchanged.
func Reconcile(streams ...[]invoice.LineItem) []invoice.LineItem {
	seen := make(map[string]struct{})
	var out []invoice.LineItem
	for _, stream := range streams {
		for _, it := range stream {
			k := it.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
