package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

var (
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	spanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	guideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// WritePrettyTree draws the tree with box guides and colored node types.
func WritePrettyTree(w io.Writer, root *api.Node) error {
	var b strings.Builder
	var draw func(n *api.Node, prefix string, last, top bool)
	draw = func(n *api.Node, prefix string, last, top bool) {
		branch, next := "", ""
		if !top {
			branch, next = "├── ", "│   "
			if last {
				branch, next = "└── ", "    "
			}
		}
		label := typeStyle.Render(n.Type)
		if n.IsText() {
			label = textStyle.Render(fmt.Sprintf("%q", n.Content))
		}
		b.WriteString(guideStyle.Render(prefix+branch) + label + " " +
			spanStyle.Render(fmt.Sprintf("[%d,%d)", n.From, n.To)) + "\n")
		for i, c := range n.Children {
			draw(c, prefix+next, i == len(n.Children)-1, false)
		}
	}
	draw(root, "", true, true)
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePreview renders Markdown source for the terminal using glamour.
func WritePreview(w io.Writer, source, style string, width int) error {
	if style == "" {
		style = "dracula"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(source)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// WriteSyntaxTree dumps the parser's concrete syntax tree, before gap text
// is reconstructed.
func WriteSyntaxTree(w io.Writer, tree *syntax.Tree) error {
	var b strings.Builder
	syntax.Walk(tree.Top, func(n syntax.Node, depth int) {
		fmt.Fprintf(&b, "%s%s [%d,%d) %s\n", strings.Repeat("  ", depth), n.Name(), n.From(), n.To(),
			Snippet(tree.Source[n.From():n.To()], 40))
	})
	_, err := io.WriteString(w, b.String())
	return err
}
