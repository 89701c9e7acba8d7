package tui

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// matchRows returns the indexes of candidates fuzzily matching query, in
// their original order. An empty query matches everything.
func matchRows(query string, candidates []string) []int {
	out := make([]int, 0, len(candidates))
	if query == "" {
		for i := range candidates {
			out = append(out, i)
		}
		return out
	}
	for _, m := range fuzzy.Find(query, candidates) {
		out = append(out, m.Index)
	}
	sort.Ints(out)
	return out
}
