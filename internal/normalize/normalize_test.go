package normalize

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeListItemSynthetic(t *testing.T) {
	src := "- foo"
	cst := syntax.Build(syntax.Document, 0, 5,
		syntax.Build(syntax.BulletList, 0, 5,
			syntax.Build(syntax.ListItem, 0, 5,
				syntax.Build(syntax.ListMark, 0, 1),
				syntax.Build(syntax.Paragraph, 2, 5),
			),
		),
	)
	root := Normalize(cst, src)
	item := root.Children[0].Children[0]
	require.Equal(t, syntax.ListItem, item.Type)

	// " " gap, then the paragraph; no node for the marker.
	require.Len(t, item.Children, 2)
	assert.Equal(t, api.TextType, item.Children[0].Type)
	assert.Equal(t, " ", item.Children[0].Content)
	para := item.Children[1]
	assert.Equal(t, syntax.Paragraph, para.Type)
	require.Len(t, para.Children, 1)
	assert.Equal(t, "foo", para.Children[0].Content)
	for _, c := range item.Children {
		assert.NotEqual(t, syntax.ListMark, c.Type)
	}
}

func TestNormalizeTaskListItemSkipsMarker(t *testing.T) {
	src := "- [x] done"
	cst := syntax.Build(syntax.TaskListItem, 0, 10,
		syntax.Build(syntax.ListMark, 0, 1),
		syntax.Build(syntax.TaskMarker, 2, 5),
		syntax.Build(syntax.Paragraph, 6, 10),
	)
	item := Normalize(cst, src)
	require.Len(t, item.Children, 2)
	assert.Equal(t, " ", item.Children[0].Content)
	assert.Equal(t, 5, item.Children[0].From)
	assert.Equal(t, "done", item.Children[1].Content)
}

func TestNormalizeSkipsMarks(t *testing.T) {
	src := "a *b* c"
	cst := syntax.Build(syntax.Paragraph, 0, 7,
		syntax.Build(syntax.Emphasis, 2, 5,
			syntax.Build(syntax.EmphasisMark, 2, 3),
			syntax.Build(syntax.EmphasisMark, 4, 5),
		),
	)
	p := Normalize(cst, src)
	require.Len(t, p.Children, 3)
	assert.Equal(t, "a ", p.Children[0].Content)
	assert.Equal(t, " c", p.Children[2].Content)
	em := p.Children[1]
	require.Len(t, em.Children, 1)
	assert.Equal(t, "b", em.Children[0].Content)
	assert.Equal(t, "*b*", em.Content)
}

func TestNormalizeNonContainerKeepsChildren(t *testing.T) {
	src := "# Hi"
	cst := syntax.Build(syntax.ATXHeading(1), 0, 4, syntax.Build(syntax.HeaderMark, 0, 1))
	h := Normalize(cst, src)
	require.Len(t, h.Children, 1)
	assert.Equal(t, syntax.HeaderMark, h.Children[0].Type)
	assert.Equal(t, "# Hi", h.Content)
}

func TestNormalizeClampsOffsets(t *testing.T) {
	src := "abc"
	cst := syntax.Build(syntax.Paragraph, -2, 10, syntax.Build(syntax.Emphasis, 1, 40))
	p := Normalize(cst, src)
	assert.Equal(t, 0, p.From)
	assert.Equal(t, 3, p.To)
	assert.Equal(t, "abc", p.Content)
	require.Len(t, p.Children, 2)
	assert.Equal(t, "a", p.Children[0].Content)
	assert.Equal(t, "bc", p.Children[1].Content)
}

func TestNormalizeOverlapProducesNoGap(t *testing.T) {
	src := "abcdef"
	cst := syntax.Build(syntax.Paragraph, 0, 6,
		syntax.Build(syntax.Emphasis, 0, 4),
		syntax.Build(syntax.Strikethrough, 2, 6),
	)
	p := Normalize(cst, src)
	require.Len(t, p.Children, 2)
	assert.Equal(t, syntax.Emphasis, p.Children[0].Type)
	assert.Equal(t, syntax.Strikethrough, p.Children[1].Type)
}

var corpus = []string{
	"# Heading 1",
	"*italic*",
	"- Item 1\n- Item 2",
	"`code`",
	"[text](url)",
	"| a | b |\n|---|---|\n| 1 | 2 |",
	"> quote with **strong** and ~~del~~\n> second line",
	"1. one\n2. two\n   - [ ] nested task\n   - [x] done",
	"Text with &copy; and \\* escaped and <span>html</span>.",
	"Hard  \nbreak and a [ref][r].\n\n[r]: /ref",
	"```go\nfunc main() {}\n```",
	"Setext\n------\n\n***\n\n    indented",
}

func TestNormalizeParsedProperties(t *testing.T) {
	p := syntax.NewParser()
	for _, src := range corpus {
		tree := p.Parse(src)
		root := Normalize(tree.Top, src)
		api.Walk(root, func(n *api.Node, _ int) bool {
			assert.Equal(t, src[n.From:n.To], n.Content, "%q: content of %s", src, n.Type)
			if n.IsText() {
				assert.Less(t, n.From, n.To, "%q: zero-length Text", src)
				assert.Empty(t, n.Children)
			}
			return true
		})
		checkReconstruction(t, src, tree.Top, root)
	}
}

// checkReconstruction walks the syntax tree alongside its normalized form and
// asserts that every container's content is exactly its children's content
// interleaved with the marker tokens that were dropped.
func checkReconstruction(t assert.TestingT, src string, cst syntax.Node, n *api.Node) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	var kept []*api.Node
	for _, c := range n.Children {
		if !c.IsText() {
			kept = append(kept, c)
		}
	}

	type piece struct {
		from int
		text string
	}
	var pieces []piece
	i := 0
	for c := cst.FirstChild(); c != nil; c = c.NextSibling() {
		if Containers[n.Type] && isDropped(c.Name()) {
			pieces = append(pieces, piece{c.From(), src[c.From():c.To()]})
			continue
		}
		if !assert.Less(t, i, len(kept), "%q: %s lost child %s", src, n.Type, c.Name()) {
			return
		}
		assert.Equal(t, c.Name(), kept[i].Type, "%q: child order under %s", src, n.Type)
		checkReconstruction(t, src, c, kept[i])
		i++
	}
	assert.Len(t, kept, i, "%q: %s has extra children", src, n.Type)
	if !Containers[n.Type] {
		return
	}

	for _, c := range n.Children {
		pieces = append(pieces, piece{c.From, c.Content})
	}
	sort.SliceStable(pieces, func(a, b int) bool { return pieces[a].from < pieces[b].from })
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.text)
	}
	assert.Equal(t, n.Content, b.String(), "%q: reconstruction of %s", src, n.Type)
}

func isDropped(name string) bool {
	return Marks[name] || name == syntax.ListMark || name == syntax.TaskMarker
}

func TestReconstructionDetectsMissingGap(t *testing.T) {
	src := "a *b* c"
	cst := syntax.Build(syntax.Paragraph, 0, 7,
		syntax.Build(syntax.Emphasis, 2, 5,
			syntax.Build(syntax.EmphasisMark, 2, 3),
			syntax.Build(syntax.EmphasisMark, 4, 5),
		),
	)
	p := Normalize(cst, src)
	p.Children = p.Children[1:]

	rec := &failRecorder{}
	checkReconstruction(rec, src, cst, p)
	assert.True(t, rec.failed, "dropping the leading text run must break reconstruction")
}

type failRecorder struct{ failed bool }

func (r *failRecorder) Errorf(string, ...any) { r.failed = true }

func TestNormalizeIdempotent(t *testing.T) {
	p := syntax.NewParser()
	for _, src := range corpus {
		tree := p.Parse(src)
		a := Normalize(tree.Top, src)
		b := Normalize(tree.Top, src)
		assert.Equal(t, a.Hash(), b.Hash(), src)
		assert.Equal(t, a, b, src)
	}
}

func TestNormalizeListMarkerStripped(t *testing.T) {
	src := "- foo"
	root := Normalize(syntax.NewParser().Parse(src).Top, src)
	var item *api.Node
	api.Walk(root, func(n *api.Node, _ int) bool {
		if n.Type == syntax.ListItem {
			item = n
			return false
		}
		return true
	})
	require.NotNil(t, item)
	var visible strings.Builder
	api.Walk(item, func(n *api.Node, _ int) bool {
		assert.NotEqual(t, syntax.ListMark, n.Type)
		if n.IsText() && n != item.Children[0] {
			visible.WriteString(n.Content)
		}
		return true
	})
	assert.Equal(t, "foo", visible.String())
}

func TestMemo(t *testing.T) {
	calls := 0
	m := NewMemo(func(src string) *api.Node {
		calls++
		return &api.Node{Type: syntax.Document, To: len(src), Content: src}
	})
	a, hit := m.Get("x")
	assert.False(t, hit)
	b, hit := m.Get("x")
	assert.True(t, hit)
	assert.Same(t, a, b)
	_, hit = m.Get("y")
	assert.False(t, hit)
	_, hit = m.Get("x")
	assert.False(t, hit, "single entry: x was evicted by y")
	assert.Equal(t, 3, calls)
	m.Reset()
	_, hit = m.Get("x")
	assert.False(t, hit)
}

func TestMemoBuildsOutsideLock(t *testing.T) {
	release := make(chan struct{})
	m := NewMemo(func(src string) string {
		if src == "slow" {
			<-release
		}
		return src
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, _ := m.Get("slow")
		assert.Equal(t, "slow", v)
	}()

	// A slow build for one source must not block a different source.
	fast := make(chan string, 1)
	go func() {
		v, _ := m.Get("fast")
		fast <- v
	}()
	select {
	case v := <-fast:
		assert.Equal(t, "fast", v)
	case <-time.After(2 * time.Second):
		t.Fatal("Get blocked behind another build")
	}
	close(release)
	<-done

	v, hit := m.Get("slow")
	assert.True(t, hit)
	assert.Equal(t, "slow", v)
}
