package api

// TextType is the synthetic type given to plain-text runs that the normalizer
// reconstructs between recognized children.
const TextType = "Text"

// Node is a normalized Markdown node. Content is always source[From:To],
// including for container nodes whose text is also spread across children.
type Node struct {
	Type     string  `json:"type"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Content  string  `json:"content"`
	Children []*Node `json:"children,omitempty"`
}

// IsText reports whether n is a reconstructed text run.
func (n *Node) IsText() bool { return n != nil && n.Type == TextType }

// Len returns the width of the node's source span.
func (n *Node) Len() int { return n.To - n.From }

// ChildrenOfType returns the direct children whose type is typ.
func (n *Node) ChildrenOfType(typ string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfType returns the first direct child of the given type or nil.
func (n *Node) FirstChildOfType(typ string) *Node {
	for _, c := range n.Children {
		if c.Type == typ {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}
