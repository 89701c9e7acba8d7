package syntax

import (
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Tree is the result of parsing one source document.
type Tree struct {
	Top        Node
	Source     string
	References References
}

// Reference is a link reference definition such as `[label]: /url "title"`.
type Reference struct {
	Label       string
	Destination string
	Title       string
}

// References maps normalized labels to their definitions.
type References map[string]Reference

// Lookup resolves a link label (with or without surrounding brackets) the
// way CommonMark matches labels: case-folded with collapsed whitespace.
func (r References) Lookup(label string) (Reference, bool) {
	if len(r) == 0 {
		return Reference{}, false
	}
	if len(label) >= 2 && label[0] == '[' && label[len(label)-1] == ']' {
		label = label[1 : len(label)-1]
	}
	ref, ok := r[ReferenceKey(label)]
	return ref, ok
}

// ReferenceKey normalizes a link label for lookups.
func ReferenceKey(label string) string {
	return util.ToLinkReference([]byte(label))
}

type options struct {
	tables        bool
	strikethrough bool
	taskList      bool
}

// Option configures a Parser.
type Option func(*options)

// WithTables toggles GFM tables.
func WithTables(on bool) Option { return func(o *options) { o.tables = on } }

// WithStrikethrough toggles GFM ~~strikethrough~~.
func WithStrikethrough(on bool) Option { return func(o *options) { o.strikethrough = on } }

// WithTaskList toggles GFM task list items.
func WithTaskList(on bool) Option { return func(o *options) { o.taskList = on } }

// Parser turns Markdown source into a Tree. It is built once and injected
// wherever parsing is needed; every extension is enabled by default.
type Parser struct {
	mu   sync.Mutex
	md   goldmark.Markdown
	opts options
}

// NewParser constructs a Parser.
func NewParser(opts ...Option) *Parser {
	o := options{tables: true, strikethrough: true, taskList: true}
	for _, fn := range opts {
		fn(&o)
	}
	var exts []goldmark.Extender
	if o.tables {
		exts = append(exts, extension.Table)
	}
	if o.strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if o.taskList {
		exts = append(exts, extension.TaskList)
	}
	return &Parser{
		md:   goldmark.New(goldmark.WithExtensions(exts...)),
		opts: o,
	}
}

// Fingerprint identifies the enabled grammar extensions, for cache keys.
func (p *Parser) Fingerprint() string {
	b := []byte("gfm:")
	for _, on := range []bool{p.opts.tables, p.opts.strikethrough, p.opts.taskList} {
		if on {
			b = append(b, '1')
		} else {
			b = append(b, '0')
		}
	}
	return string(b)
}

// Parse parses source. It never fails: malformed constructs are resolved by
// the CommonMark recovery rules.
func (p *Parser) Parse(source string) *Tree {
	src := []byte(source)
	pc := parser.NewContext()

	p.mu.Lock()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	p.mu.Unlock()

	refs := References{}
	for _, r := range pc.References() {
		label := string(r.Label())
		refs[ReferenceKey(label)] = Reference{
			Label:       label,
			Destination: string(r.Destination()),
			Title:       string(r.Title()),
		}
	}

	c := &converter{src: src}
	top := c.document(doc)
	return &Tree{Top: top, Source: source, References: refs}
}
