// Package normalize turns a concrete syntax tree into the simplified node
// tree consumed by the renderer. Container nodes get the plain text between
// their children back as synthetic Text nodes; punctuation tokens inside
// containers are dropped.
package normalize

import (
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Containers are the node types whose syntax tree omits the text between
// their children.
var Containers = map[string]bool{
	syntax.Paragraph:      true,
	syntax.Emphasis:       true,
	syntax.StrongEmphasis: true,
	syntax.Link:           true,
	syntax.LinkLabel:      true,
	syntax.Strikethrough:  true,
	syntax.ListItem:       true,
	syntax.TaskListItem:   true,
	syntax.Blockquote:     true,
	syntax.TableCell:      true,
	syntax.TableHeader:    true,
	syntax.Table:          true,
	syntax.TableRow:       true,
}

// Marks are punctuation tokens skipped inside containers.
var Marks = map[string]bool{
	syntax.TaskMarker:        true,
	syntax.QuoteMark:         true,
	syntax.StrikethroughMark: true,
	syntax.TableDelimiter:    true,
	syntax.HeaderMark:        true,
	syntax.TableDelimiterRow: true,
	syntax.LinkMark:          true,
	syntax.EmphasisMark:      true,
}

// Normalize converts n and its subtree. Offsets outside source are clamped.
func Normalize(n syntax.Node, source string) *api.Node {
	if n == nil {
		return nil
	}
	from, to := clamp(n.From(), n.To(), len(source))
	out := &api.Node{
		Type:    n.Name(),
		From:    from,
		To:      to,
		Content: source[from:to],
	}
	if !Containers[out.Type] {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			out.Children = append(out.Children, Normalize(c, source))
		}
		return out
	}

	lastEnd := from
	c := n.FirstChild()
	if out.Type == syntax.ListItem || out.Type == syntax.TaskListItem {
		if c != nil && c.Name() == syntax.ListMark {
			lastEnd = max(lastEnd, c.To())
			c = c.NextSibling()
		}
		if out.Type == syntax.TaskListItem && c != nil && c.Name() == syntax.TaskMarker {
			lastEnd = max(lastEnd, c.To())
			c = c.NextSibling()
		}
	}
	for ; c != nil; c = c.NextSibling() {
		cf, ct := clamp(c.From(), c.To(), len(source))
		out.Children = appendGap(out.Children, source, lastEnd, cf)
		if !Marks[c.Name()] {
			out.Children = append(out.Children, Normalize(c, source))
		}
		lastEnd = max(lastEnd, ct)
	}
	out.Children = appendGap(out.Children, source, lastEnd, to)
	return out
}

// appendGap adds a Text node for source[from:to] unless the span is empty.
func appendGap(children []*api.Node, source string, from, to int) []*api.Node {
	if to <= from {
		return children
	}
	return append(children, &api.Node{
		Type:    api.TextType,
		From:    from,
		To:      to,
		Content: source[from:to],
	})
}

func clamp(from, to, n int) (int, int) {
	from = min(max(from, 0), n)
	to = min(max(to, from), n)
	return from, to
}
