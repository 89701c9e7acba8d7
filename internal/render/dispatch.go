// Package render maps normalized Markdown nodes to dom elements. Each node
// type resolves to a renderer: a caller override if one is registered, else
// the built-in default for its Kind. Unknown types abort the render.
package render

import (
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mithrel/mdtree/internal/dom"
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Func renders the current node of c. A nil node means no output.
type Func func(c *Context) (*dom.Node, error)

// Overrides replaces default renderers by node type name.
type Overrides map[string]Func

// ErrNoRenderer is matched by every NoRendererError.
var ErrNoRenderer = errors.New("no renderer")

// NoRendererError reports a node type with neither an override nor a
// default renderer.
type NoRendererError struct {
	Type string
}

func (e *NoRendererError) Error() string { return fmt.Sprintf("no renderer for %q", e.Type) }

func (e *NoRendererError) Unwrap() error { return ErrNoRenderer }

// Dispatcher renders trees. It is cheap to build; construct one per render.
type Dispatcher struct {
	overrides Overrides
	refs      syntax.References
	sanitizer *bluemonday.Policy
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReferences supplies link reference definitions for reference links.
func WithReferences(refs syntax.References) Option {
	return func(d *Dispatcher) { d.refs = refs }
}

// WithSanitizer filters raw HTML through p.
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(d *Dispatcher) { d.sanitizer = p }
}

// New returns a Dispatcher consulting overrides before the defaults.
func New(overrides Overrides, opts ...Option) *Dispatcher {
	d := &Dispatcher{overrides: overrides}
	for _, fn := range opts {
		fn(d)
	}
	return d
}

// Render renders root with an empty ancestor stack.
func (d *Dispatcher) Render(root *api.Node) (*dom.Node, error) {
	if root == nil {
		return nil, nil
	}
	return d.render(root, nil)
}

func (d *Dispatcher) render(n *api.Node, parent *Stack) (*dom.Node, error) {
	fn := d.resolve(n.Type)
	if fn == nil {
		return nil, &NoRendererError{Type: n.Type}
	}
	return fn(&Context{d: d, stack: parent.Push(n)})
}

// resolve looks up the renderer for typ: override, then default.
func (d *Dispatcher) resolve(typ string) Func {
	if fn, ok := d.overrides[typ]; ok && fn != nil {
		return fn
	}
	return Default(KindOf(typ))
}
