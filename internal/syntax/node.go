// Package syntax is the boundary to the Markdown parser. It exposes a
// concrete syntax tree of named nodes with byte offsets, in which marker
// tokens (list bullets, emphasis delimiters, link brackets, table pipes) are
// nodes of their own and plain text between them is not.
package syntax

// Node is a read-only concrete syntax tree node. FirstChild and NextSibling
// return nil at the end of a chain.
type Node interface {
	Name() string
	From() int
	To() int
	FirstChild() Node
	NextSibling() Node
}

type node struct {
	name     string
	from, to int
	children []*node
	next     *node
}

func (n *node) Name() string { return n.name }
func (n *node) From() int    { return n.from }
func (n *node) To() int      { return n.to }

func (n *node) FirstChild() Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *node) NextSibling() Node {
	if n.next == nil {
		return nil
	}
	return n.next
}

// link wires sibling pointers for n and its subtree.
func (n *node) link() {
	for i, c := range n.children {
		if i+1 < len(n.children) {
			c.next = n.children[i+1]
		} else {
			c.next = nil
		}
		c.link()
	}
}

// Build assembles a synthetic tree, mostly for tests and for callers that
// bring their own tokenizer. Children are copied.
func Build(name string, from, to int, children ...Node) Node {
	n := &node{name: name, from: from, to: to}
	for _, c := range children {
		if c == nil {
			continue
		}
		n.children = append(n.children, adopt(c))
	}
	n.link()
	return n
}

func adopt(in Node) *node {
	out := &node{name: in.Name(), from: in.From(), to: in.To()}
	for c := in.FirstChild(); c != nil; c = c.NextSibling() {
		out.children = append(out.children, adopt(c))
	}
	return out
}

// Children collects the direct children of n.
func Children(n Node) []Node {
	var out []Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// Walk visits n and its descendants depth-first.
func Walk(n Node, fn func(n Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int)) {
	if n == nil {
		return
	}
	fn(n, depth)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, depth+1, fn)
	}
}
