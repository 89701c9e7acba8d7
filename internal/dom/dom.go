// Package dom is the element tree produced by rendering: elements, text,
// raw markup and fragments, serialized to HTML with golang.org/x/net/html.
package dom

import (
	"strings"
)

// Kind tags a Node.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	RawNode
	FragmentNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case RawNode:
		return "raw"
	case FragmentNode:
		return "fragment"
	}
	return "unknown"
}

// Attr is an element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is one unit of rendered output. Data is the tag name for elements and
// the literal text or markup otherwise. Fragments group children without a
// wrapper.
type Node struct {
	Kind     Kind
	Data     string
	Attrs    []Attr
	Children []*Node
}

// El builds an element. Nil children are dropped so renderers can return
// nil for absent output.
func El(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Data: tag, Attrs: attrs, Children: compact(children)}
}

// Text builds an escaped text node.
func Text(s string) *Node { return &Node{Kind: TextNode, Data: s} }

// Raw builds a node whose markup is written verbatim.
func Raw(markup string) *Node { return &Node{Kind: RawNode, Data: markup} }

// Fragment groups nodes without a wrapper element.
func Fragment(children ...*Node) *Node {
	return &Node{Kind: FragmentNode, Children: compact(children)}
}

// A is shorthand for an attribute.
func A(key, val string) Attr { return Attr{Key: key, Val: val} }

func compact(in []*Node) []*Node {
	out := in[:0:0]
	for _, c := range in {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the text below n. Raw markup is not included.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.text(&b)
	return b.String()
}

func (n *Node) text(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == TextNode {
		b.WriteString(n.Data)
		return
	}
	for _, c := range n.Children {
		c.text(b)
	}
}

// Find returns the first element with the given tag in depth-first order.
func (n *Node) Find(tag string) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == ElementNode && n.Data == tag {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(tag); f != nil {
			return f
		}
	}
	return nil
}
