package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"text escaped", Text("a < b & c"), "a &lt; b &amp; c"},
		{"raw verbatim", Raw("<b>x</b>"), "<b>x</b>"},
		{"element with attrs", El("a", []Attr{A("href", "u"), A("title", `say "hi"`)}, Text("t")),
			`<a href="u" title="say &#34;hi&#34;">t</a>`},
		{"void element", El("br", nil), "<br/>"},
		{"fragment flattened", El("p", nil, Fragment(Text("a"), El("em", nil, Text("b")))), "<p>a<em>b</em></p>"},
		{"nil children dropped", El("div", nil, nil, Text("x"), nil), "<div>x</div>"},
		{"empty fragment", Fragment(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.HTML()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderNil(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, nil))
	assert.Empty(t, b.String())
}

func TestTextContentAndFind(t *testing.T) {
	n := El("div", nil,
		El("p", nil, Text("hello "), El("em", []Attr{A("class", "x")}, Text("world"))),
		Raw("<i>skip</i>"),
	)
	assert.Equal(t, "hello world", n.TextContent())
	em := n.Find("em")
	require.NotNil(t, em)
	v, ok := em.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Nil(t, n.Find("table"))
	assert.Equal(t, "fragment", FragmentNode.String())
}
