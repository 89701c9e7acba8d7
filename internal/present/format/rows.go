package format

import (
	"strings"

	"github.com/mithrel/mdtree/pkg/api"
)

// Row is one node of a flattened tree, in document order.
type Row struct {
	Depth   int    `json:"depth"`
	Type    string `json:"type"`
	From    int    `json:"from"`
	To      int    `json:"to"`
	Content string `json:"content"`
}

// Flatten lists root and its descendants depth first.
func Flatten(root *api.Node) []Row {
	var rows []Row
	api.Walk(root, func(n *api.Node, depth int) bool {
		rows = append(rows, Row{Depth: depth, Type: n.Type, From: n.From, To: n.To, Content: n.Content})
		return true
	})
	return rows
}

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// Snippet escapes s and shortens it to width runes.
func Snippet(s string, width int) string {
	s = esc(s)
	r := []rune(s)
	if width > 0 && len(r) > width {
		return string(r[:max(width-1, 0)]) + "…"
	}
	return s
}
