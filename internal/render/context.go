package render

import (
	"github.com/mithrel/mdtree/internal/dom"
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Context is handed to every renderer. It exposes the node being rendered,
// its ancestors, and callbacks into the dispatcher for descending.
type Context struct {
	d     *Dispatcher
	stack *Stack
}

// Node returns the node being rendered.
func (c *Context) Node() *api.Node { return c.stack.Top() }

// Parent returns the node's parent or nil at the root.
func (c *Context) Parent() *api.Node { return c.stack.At(1) }

// Ancestor returns the i-th ancestor; Ancestor(0) is Node().
func (c *Context) Ancestor(i int) *api.Node { return c.stack.At(i) }

// Stack returns the ancestor stack, current node first.
func (c *Context) Stack() *Stack { return c.stack }

// Render renders n as a child of the current node.
func (c *Context) Render(n *api.Node) (*dom.Node, error) {
	return c.d.render(n, c.stack)
}

// RenderNodes renders each node in order, dropping absent output.
func (c *Context) RenderNodes(nodes []*api.Node) ([]*dom.Node, error) {
	out := make([]*dom.Node, 0, len(nodes))
	for _, n := range nodes {
		r, err := c.Render(n)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// RenderChildren renders every child of the current node.
func (c *Context) RenderChildren() ([]*dom.Node, error) {
	return c.RenderNodes(c.Node().Children)
}

// Within returns a context with n pushed but not rendered, for renderers
// that consume a child's structure themselves.
func (c *Context) Within(n *api.Node) *Context {
	return &Context{d: c.d, stack: c.stack.Push(n)}
}

// Reference resolves a link label against the document's definitions.
func (c *Context) Reference(label string) (syntax.Reference, bool) {
	return c.d.refs.Lookup(label)
}

// Raw returns markup for raw HTML, sanitized when a policy is configured.
func (c *Context) Raw(markup string) *dom.Node {
	if c.d.sanitizer != nil {
		markup = c.d.sanitizer.Sanitize(markup)
	}
	return dom.Raw(markup)
}
