// Package markdown is the render entry point: parse, normalize, dispatch.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mithrel/mdtree/internal/dom"
	"github.com/mithrel/mdtree/internal/normalize"
	"github.com/mithrel/mdtree/internal/render"
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Document is a parsed and normalized source.
type Document struct {
	Syntax *syntax.Tree
	Root   *api.Node
}

// Markdown renders Markdown sources. The normalized tree of the last source
// is memoized, so re-rendering unchanged content skips parsing.
type Markdown struct {
	parser    *syntax.Parser
	memo      *normalize.Memo[*Document]
	sanitizer *bluemonday.Policy
}

// Option configures Markdown.
type Option func(*Markdown)

// WithSanitizer filters raw HTML in the source through p.
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(m *Markdown) { m.sanitizer = p }
}

// New returns a Markdown using p for parsing.
func New(p *syntax.Parser, opts ...Option) *Markdown {
	m := &Markdown{parser: p}
	for _, fn := range opts {
		fn(m)
	}
	m.memo = normalize.NewMemo(m.build)
	return m
}

func (m *Markdown) build(content string) *Document {
	tree := m.parser.Parse(content)
	return &Document{Syntax: tree, Root: normalize.Normalize(tree.Top, content)}
}

// Parse returns the document for content and whether it was memoized.
func (m *Markdown) Parse(content string) (*Document, bool) {
	return m.memo.Get(content)
}

// Tree returns the normalized tree of content.
func (m *Markdown) Tree(content string) *api.Node {
	doc, _ := m.Parse(content)
	return doc.Root
}

// Render renders content, consulting overrides before the default renderers.
// A node type with no renderer fails the whole render.
func (m *Markdown) Render(content string, overrides render.Overrides) (*dom.Node, error) {
	doc, _ := m.Parse(content)
	opts := []render.Option{render.WithReferences(doc.Syntax.References)}
	if m.sanitizer != nil {
		opts = append(opts, render.WithSanitizer(m.sanitizer))
	}
	return render.New(overrides, opts...).Render(doc.Root)
}

// RenderHTML renders content to an HTML string.
func (m *Markdown) RenderHTML(content string, overrides render.Overrides) (string, error) {
	out, err := m.Render(content, overrides)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := dom.Render(&buf, out); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fingerprint identifies the parser and render options, so cached output
// from a different configuration is never reused.
func (m *Markdown) Fingerprint() string {
	fp := m.parser.Fingerprint()
	if m.sanitizer != nil {
		fp += "+sanitize"
	}
	return fp
}

// CacheKey is the render cache key for content.
func (m *Markdown) CacheKey(content string) string {
	return api.Digest(content, m.Fingerprint())
}
