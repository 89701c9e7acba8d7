package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mithrel/mdtree/internal/dom"
	"github.com/mithrel/mdtree/internal/render"
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func query(t *testing.T, m *Markdown, src string) *goquery.Document {
	t.Helper()
	out, err := m.RenderHTML(src, nil)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestScenarios(t *testing.T) {
	m := New(syntax.NewParser())

	t.Run("heading", func(t *testing.T) {
		doc := query(t, m, "# Heading 1")
		assert.Equal(t, 1, doc.Find("h1").Length())
		assert.Equal(t, "Heading 1", doc.Find("h1").Text())
	})

	t.Run("emphasis in paragraph", func(t *testing.T) {
		doc := query(t, m, "*italic*")
		em := doc.Find("p > em")
		assert.Equal(t, 1, em.Length())
		assert.Equal(t, "italic", em.Text())
	})

	t.Run("list", func(t *testing.T) {
		doc := query(t, m, "- Item 1\n- Item 2")
		items := doc.Find("ul > li")
		require.Equal(t, 2, items.Length())
		assert.Equal(t, "Item 1", items.Eq(0).Text())
		assert.Equal(t, "Item 2", items.Eq(1).Text())
	})

	t.Run("inline code", func(t *testing.T) {
		doc := query(t, m, "`code`")
		assert.Equal(t, "code", doc.Find("code").Text())
	})

	t.Run("link", func(t *testing.T) {
		doc := query(t, m, "[text](url)")
		a := doc.Find("a")
		require.Equal(t, 1, a.Length())
		assert.Equal(t, "text", a.Text())
		href, _ := a.Attr("href")
		assert.Equal(t, "url", href)
		rel, _ := a.Attr("rel")
		assert.Equal(t, "noopener noreferrer", rel)
	})

	t.Run("table", func(t *testing.T) {
		doc := query(t, m, "| Name | Age |\n|------|-----|\n| Ann  | 31  |")
		head := doc.Find("table > thead > tr > th")
		require.Equal(t, 2, head.Length())
		assert.Equal(t, "Name", head.Eq(0).Text())
		assert.Equal(t, "Age", head.Eq(1).Text())
		cells := doc.Find("table > tbody > tr > td")
		require.Equal(t, 2, cells.Length())
		assert.Equal(t, "Ann", cells.Eq(0).Text())
		assert.Equal(t, "31", cells.Eq(1).Text())
	})
}

func TestRenderMoreConstructs(t *testing.T) {
	m := New(syntax.NewParser())

	doc := query(t, m, "> quote")
	assert.Equal(t, "quote", doc.Find("blockquote > p").Text())

	doc = query(t, m, "~~gone~~ **bold**")
	assert.Equal(t, "gone", doc.Find("del").Text())
	assert.Equal(t, "bold", doc.Find("strong").Text())

	doc = query(t, m, "a  \nb")
	assert.Equal(t, 1, doc.Find("p > br").Length())

	doc = query(t, m, "[docs][d]\n\n[d]: https://example.com")
	href, _ := doc.Find("a").Attr("href")
	assert.Equal(t, "https://example.com", href)

	doc = query(t, m, "- [x] done\n- [ ] todo")
	tasks := doc.Find("li.task-list-item")
	require.Equal(t, 2, tasks.Length())
	_, checked := tasks.Eq(0).Find("input").Attr("checked")
	assert.True(t, checked)
	_, checked = tasks.Eq(1).Find("input").Attr("checked")
	assert.False(t, checked)
	assert.Equal(t, "todo", strings.TrimSpace(tasks.Eq(1).Text()))

	doc = query(t, m, `Text &copy; \*`)
	assert.Equal(t, "Text © *", doc.Find("p").Text())

	doc = query(t, m, "<https://example.com>")
	href, _ = doc.Find("a").Attr("href")
	assert.Equal(t, "https://example.com", href)

	doc = query(t, m, "![alt](img.png)")
	src, _ := doc.Find("img").Attr("src")
	alt, _ := doc.Find("img").Attr("alt")
	assert.Equal(t, "img.png", src)
	assert.Equal(t, "alt", alt)

	doc = query(t, m, "```go\nfmt.Println()\n```")
	code := doc.Find("pre > code.language-go")
	assert.Equal(t, "fmt.Println()\n", code.Text())

	doc = query(t, m, "3. three\n4. four")
	start, _ := doc.Find("ol").Attr("start")
	assert.Equal(t, "3", start)
}

func TestRenderEmptyContainersDropMarkers(t *testing.T) {
	m := New(syntax.NewParser())

	doc := query(t, m, "- a\n-\n- b")
	items := doc.Find("ul > li")
	require.Equal(t, 3, items.Length())
	assert.Equal(t, "a", items.Eq(0).Text())
	assert.Empty(t, items.Eq(1).Text())
	assert.Equal(t, "b", items.Eq(2).Text())

	doc = query(t, m, ">")
	require.Equal(t, 1, doc.Find("blockquote").Length())
	assert.Empty(t, doc.Find("blockquote").Text())

	out, err := m.RenderHTML("1.\n2. two", nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "1.")
}

func TestRenderOverrides(t *testing.T) {
	m := New(syntax.NewParser())
	out, err := m.RenderHTML("*a* and *b*", render.Overrides{
		syntax.Emphasis: func(c *render.Context) (*dom.Node, error) {
			return dom.El("mark", nil, dom.Text(strings.ToUpper(c.Node().Content))), nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "<div><p><mark>*A*</mark> and <mark>*B*</mark></p></div>", out)
}

func TestRenderUnknownTypeFails(t *testing.T) {
	m := New(syntax.NewParser())
	_, err := m.Render("text", render.Overrides{
		syntax.Paragraph: func(c *render.Context) (*dom.Node, error) {
			return c.Render(&api.Node{Type: "TotallyUnknownType"})
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, render.ErrNoRenderer))
	assert.Contains(t, err.Error(), "TotallyUnknownType")
}

func TestSanitize(t *testing.T) {
	m := New(syntax.NewParser(), WithSanitizer(bluemonday.UGCPolicy()))
	out, err := m.RenderHTML("<script>alert(1)</script>\n\nok", nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "ok")
}

func TestParseMemoized(t *testing.T) {
	m := New(syntax.NewParser())
	a, hit := m.Parse("# x")
	assert.False(t, hit)
	b, hit := m.Parse("# x")
	assert.True(t, hit)
	assert.Same(t, a, b)
	assert.Equal(t, syntax.Document, m.Tree("# x").Type)
}

func TestCacheKey(t *testing.T) {
	plain := New(syntax.NewParser())
	clean := New(syntax.NewParser(), WithSanitizer(bluemonday.UGCPolicy()))
	noTables := New(syntax.NewParser(syntax.WithTables(false)))

	assert.Equal(t, "gfm:111+sanitize", clean.Fingerprint())
	assert.Equal(t, plain.CacheKey("# a"), plain.CacheKey("# a"))
	assert.NotEqual(t, plain.CacheKey("# a"), plain.CacheKey("# b"))
	assert.NotEqual(t, plain.CacheKey("# a"), clean.CacheKey("# a"))
	assert.NotEqual(t, plain.CacheKey("# a"), noTables.CacheKey("# a"))
}
