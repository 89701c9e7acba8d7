package dom

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes n as HTML. Fragments are flattened into their parent.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	for _, h := range toHTML(n) {
		if err := html.Render(w, h); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

// HTML returns n serialized as a string.
func (n *Node) HTML() (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) []*html.Node {
	switch n.Kind {
	case TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case RawNode:
		return []*html.Node{{Type: html.RawNode, Data: n.Data}}
	case FragmentNode:
		var out []*html.Node
		for _, c := range n.Children {
			out = append(out, toHTML(c)...)
		}
		return out
	}
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: atom.Lookup([]byte(n.Data)),
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		for _, h := range toHTML(c) {
			el.AppendChild(h)
		}
	}
	return []*html.Node{el}
}
