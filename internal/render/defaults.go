package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mithrel/mdtree/internal/dom"
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Default returns the built-in renderer for k, or nil for KindUnknown.
func Default(k Kind) Func {
	switch k {
	case KindText:
		return renderText
	case KindDocument:
		return container("div")
	case KindParagraph:
		return container("p")
	case KindATXHeading1, KindATXHeading2, KindATXHeading3,
		KindATXHeading4, KindATXHeading5, KindATXHeading6,
		KindSetextHeading1, KindSetextHeading2:
		return heading(k)
	case KindHorizontalRule:
		return element("hr")
	case KindHardBreak, KindLineBreak:
		return element("br")
	case KindCodeBlock:
		return renderCodeBlock
	case KindFencedCode:
		return renderFencedCode
	case KindInlineCode:
		return renderInlineCode
	case KindCodeText:
		return renderContent
	case KindEmphasis:
		return container("em")
	case KindStrongEmphasis:
		return container("strong")
	case KindStrikethrough:
		return container("del")
	case KindTask:
		return children("span", dom.A("class", "task"))
	case KindSuperscript:
		return children("sup")
	case KindSubscript:
		return children("sub")
	case KindLink:
		return renderLink
	case KindImage:
		return renderImage
	case KindAutolink:
		return renderAutolink
	case KindLinkLabel:
		return renderFragment
	case KindBulletList:
		return children("ul")
	case KindOrderedList:
		return renderOrderedList
	case KindListItem:
		return children("li")
	case KindTaskListItem:
		return renderTaskListItem
	case KindBlockquote:
		return children("blockquote", dom.A("style", blockquoteStyle))
	case KindTable:
		return renderTable
	case KindTableCell:
		return renderTableCell
	case KindEntity:
		return renderEntity
	case KindEscape:
		return renderEscape
	case KindHTMLBlock, KindHTMLTag:
		return renderRaw
	case KindHeaderMark, KindQuoteMark, KindLinkMark, KindEmphasisMark,
		KindCodeMark, KindStrikethroughMark, KindTableDelimiter,
		KindTableDelimiterRow, KindTaskMarker, KindListMark,
		KindSuperscriptMark, KindSubscriptMark, KindCodeInfo, KindURL,
		KindLinkTitle, KindLinkReference, KindTableHeader, KindTableRow:
		return noop
	}
	return nil
}

const blockquoteStyle = "border-left: 4px solid #ccc; margin-left: 0; padding-left: 1em"

func noop(*Context) (*dom.Node, error) { return nil, nil }

func renderContent(c *Context) (*dom.Node, error) {
	return dom.Text(c.Node().Content), nil
}

func renderText(c *Context) (*dom.Node, error) {
	if p := c.Parent(); p != nil && p.Type == syntax.ListItem {
		return nil, nil
	}
	return dom.Text(c.Node().Content), nil
}

func renderFragment(c *Context) (*dom.Node, error) {
	kids, err := c.RenderChildren()
	if err != nil {
		return nil, err
	}
	return dom.Fragment(kids...), nil
}

func element(tag string) Func {
	return func(*Context) (*dom.Node, error) { return dom.El(tag, nil), nil }
}

// container wraps the rendered children in tag, falling back to the node's
// leaf text when it has no children.
func container(tag string, attrs ...dom.Attr) Func {
	return func(c *Context) (*dom.Node, error) {
		n := c.Node()
		if len(n.Children) == 0 {
			return dom.El(tag, attrs, dom.Text(leafText(n))), nil
		}
		kids, err := c.RenderChildren()
		if err != nil {
			return nil, err
		}
		return dom.El(tag, attrs, kids...), nil
	}
}

// children wraps the rendered children in tag. A node without children
// renders as an empty element.
func children(tag string, attrs ...dom.Attr) Func {
	return func(c *Context) (*dom.Node, error) {
		kids, err := c.RenderChildren()
		if err != nil {
			return nil, err
		}
		return dom.El(tag, attrs, kids...), nil
	}
}

// leafText is the text shown for a node whose children were not parsed.
func leafText(n *api.Node) string {
	switch KindOf(n.Type) {
	case KindEmphasis, KindStrongEmphasis:
		return strings.Trim(n.Content, "*_")
	case KindStrikethrough:
		return strings.Trim(n.Content, "~")
	case KindTableCell:
		return strings.TrimSpace(n.Content)
	}
	return n.Content
}

func heading(k Kind) Func {
	tag := "h" + strconv.Itoa(k.headingLevel())
	setext := k == KindSetextHeading1 || k == KindSetextHeading2
	return func(c *Context) (*dom.Node, error) {
		n := c.Node()
		var from, to int
		if setext {
			from, to = setextRange(n)
		} else {
			from, to = atxRange(n)
		}
		kids, err := inlineRange(c, from, to)
		if err != nil {
			return nil, err
		}
		return dom.El(tag, nil, kids...), nil
	}
}

// atxRange returns the source offsets of an ATX heading's text: past the
// opening '#' run and before an optional closing sequence.
func atxRange(n *api.Node) (int, int) {
	s := n.Content
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for i < len(s) && s[i] == '#' {
		i++
	}
	j := len(s)
	for j > i && isBlank(s[j-1]) {
		j--
	}
	k := j
	for k > i && s[k-1] == '#' {
		k--
	}
	if k < j && (k == i || s[k-1] == ' ' || s[k-1] == '\t') {
		j = k
	}
	for i < j && isBlank(s[i]) {
		i++
	}
	for j > i && isBlank(s[j-1]) {
		j--
	}
	return n.From + i, n.From + j
}

// setextRange returns the offsets of a setext heading's text, every line but
// the underline.
func setextRange(n *api.Node) (int, int) {
	s := strings.TrimRight(n.Content, " \t\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, " \t\r\n")
	return n.From, n.From + len(s)
}

// inlineRange renders the content between from and to, interleaving source
// text with the node's children that fall inside the range.
func inlineRange(c *Context, from, to int) ([]*dom.Node, error) {
	n := c.Node()
	var out []*dom.Node
	pos := from
	for _, ch := range n.Children {
		if ch.From < from || ch.To > to {
			continue
		}
		if ch.From > pos {
			out = append(out, dom.Text(n.Content[pos-n.From:ch.From-n.From]))
		}
		r, err := c.Render(ch)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, r)
		}
		pos = max(pos, ch.To)
	}
	if to > pos {
		out = append(out, dom.Text(n.Content[pos-n.From:to-n.From]))
	}
	return out, nil
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func renderCodeBlock(c *Context) (*dom.Node, error) {
	lines := strings.Split(c.Node().Content, "\n")
	for i, l := range lines {
		lines[i] = dedent(l, 4)
	}
	return dom.El("pre", nil, dom.El("code", nil, dom.Text(strings.Join(lines, "\n")+"\n"))), nil
}

// dedent strips up to cols columns of leading indentation. Tabs advance to
// the next multiple of four.
func dedent(line string, cols int) string {
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return line[i:]
		}
		if col >= cols {
			return line[i+1:]
		}
	}
	return ""
}

func renderFencedCode(c *Context) (*dom.Node, error) {
	n := c.Node()
	var attrs []dom.Attr
	if info := n.FirstChildOfType(syntax.CodeInfo); info != nil {
		if f := strings.Fields(info.Content); len(f) > 0 {
			attrs = append(attrs, dom.A("class", "language-"+f[0]))
		}
	}
	var code string
	if texts := n.ChildrenOfType(syntax.CodeText); len(texts) > 0 {
		var b strings.Builder
		for _, t := range texts {
			b.WriteString(t.Content)
		}
		code = b.String()
	} else {
		code = stripFences(n.Content)
	}
	return dom.El("pre", nil, dom.El("code", attrs, dom.Text(code))), nil
}

// stripFences drops the opening fence line and a closing fence line.
func stripFences(s string) string {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return ""
	}
	body := s[i+1:]
	if j := strings.LastIndexByte(body, '\n'); j >= 0 {
		last := strings.TrimSpace(body[j+1:])
		if strings.HasPrefix(last, "```") || strings.HasPrefix(last, "~~~") {
			return body[:j+1]
		}
	} else if t := strings.TrimSpace(body); strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~") {
		return ""
	}
	return body
}

func renderInlineCode(c *Context) (*dom.Node, error) {
	return dom.El("code", nil, dom.Text(codeSpanText(c.Node().Content))), nil
}

// codeSpanText strips the backtick runs and one padding space from each side.
func codeSpanText(s string) string {
	k := 0
	for k < len(s) && s[k] == '`' {
		k++
	}
	e := len(s)
	for e > k && s[e-1] == '`' && len(s)-e < k {
		e--
	}
	s = strings.ReplaceAll(s[k:e], "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// labelChildren returns the children of a link before its destination.
func labelChildren(n *api.Node) []*api.Node {
	for i, ch := range n.Children {
		switch ch.Type {
		case syntax.URL, syntax.LinkLabel, syntax.LinkTitle:
			return n.Children[:i]
		}
	}
	return n.Children
}

// destination resolves the URL and title of a link or image from its URL
// child, its reference label, or its own text as a shortcut reference.
func destination(c *Context, label string) (href, title string, ok bool) {
	n := c.Node()
	if t := n.FirstChildOfType(syntax.LinkTitle); t != nil {
		title = unquote(t.Content)
	}
	if u := n.FirstChildOfType(syntax.URL); u != nil {
		return strings.TrimSuffix(strings.TrimPrefix(u.Content, "<"), ">"), title, true
	}
	if l := n.FirstChildOfType(syntax.LinkLabel); l != nil {
		label = l.Content
	}
	if ref, found := c.Reference(label); found {
		return ref.Destination, ref.Title, true
	}
	return "", title, false
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func renderLink(c *Context) (*dom.Node, error) {
	n := c.Node()
	label := strings.TrimSuffix(n.Content, "[]")
	href, title, ok := destination(c, label)
	if !ok || href == "" {
		href = "#"
	}
	attrs := []dom.Attr{
		dom.A("href", href),
		dom.A("target", "_blank"),
		dom.A("rel", "noopener noreferrer"),
	}
	if title != "" {
		attrs = append(attrs, dom.A("title", title))
	}
	kids, err := c.RenderNodes(labelChildren(n))
	if err != nil {
		return nil, err
	}
	if len(kids) == 0 && len(n.Children) == 0 {
		kids = append(kids, dom.Text(label))
	}
	return dom.El("a", attrs, kids...), nil
}

var imageAlt = regexp.MustCompile(`^!\[([^\]]*)\]`)

func renderImage(c *Context) (*dom.Node, error) {
	n := c.Node()
	var alt, label string
	if m := imageAlt.FindStringSubmatch(n.Content); m != nil {
		alt = m[1]
		label = "[" + m[1] + "]"
	}
	src, title, _ := destination(c, label)
	attrs := []dom.Attr{dom.A("src", src), dom.A("alt", alt)}
	if title != "" {
		attrs = append(attrs, dom.A("title", title))
	}
	return dom.El("img", attrs), nil
}

func renderAutolink(c *Context) (*dom.Node, error) {
	url := strings.TrimSuffix(strings.TrimPrefix(c.Node().Content, "<"), ">")
	href := url
	if strings.Contains(url, "@") && !strings.Contains(url, ":") {
		href = "mailto:" + url
	}
	return dom.El("a", []dom.Attr{
		dom.A("href", href),
		dom.A("target", "_blank"),
		dom.A("rel", "noopener noreferrer"),
	}, dom.Text(url)), nil
}

func renderOrderedList(c *Context) (*dom.Node, error) {
	n := c.Node()
	var attrs []dom.Attr
	if len(n.Children) > 0 {
		if start := itemNumber(n.Children[0].Content); start >= 0 && start != 1 {
			attrs = append(attrs, dom.A("start", strconv.Itoa(start)))
		}
	}
	kids, err := c.RenderChildren()
	if err != nil {
		return nil, err
	}
	return dom.El("ol", attrs, kids...), nil
}

// itemNumber parses the number of an ordered list item, or -1.
func itemNumber(s string) int {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	v, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1
	}
	return v
}

var taskState = regexp.MustCompile(`^\s*(?:[-+*]|\d+[.)])\s+\[([ xX])\]`)

func renderTaskListItem(c *Context) (*dom.Node, error) {
	n := c.Node()
	box := []dom.Attr{dom.A("type", "checkbox"), dom.A("disabled", "")}
	if m := taskState.FindStringSubmatch(n.Content); m != nil && m[1] != " " {
		box = append(box, dom.A("checked", ""))
	}
	kids := []*dom.Node{dom.El("input", box)}
	for _, ch := range n.Children {
		if ch.IsText() && strings.TrimSpace(ch.Content) == "" {
			continue
		}
		r, err := c.Render(ch)
		if err != nil {
			return nil, err
		}
		kids = append(kids, r)
	}
	return dom.El("li", []dom.Attr{dom.A("class", "task-list-item")}, kids...), nil
}

func renderTable(c *Context) (*dom.Node, error) {
	n := c.Node()
	var head, body []*dom.Node
	for _, row := range n.Children {
		var cells []*dom.Node
		switch row.Type {
		case syntax.TableHeader, syntax.TableRow:
			var err error
			if cells, err = c.Within(row).RenderNodes(row.ChildrenOfType(syntax.TableCell)); err != nil {
				return nil, err
			}
		default:
			continue
		}
		tr := dom.El("tr", nil, cells...)
		if row.Type == syntax.TableHeader {
			head = append(head, tr)
		} else {
			body = append(body, tr)
		}
	}
	var sections []*dom.Node
	if len(head) > 0 {
		sections = append(sections, dom.El("thead", nil, head...))
	}
	if len(body) > 0 {
		sections = append(sections, dom.El("tbody", nil, body...))
	}
	return dom.El("table", nil, sections...), nil
}

func renderTableCell(c *Context) (*dom.Node, error) {
	n := c.Node()
	tag := "td"
	row := c.Parent()
	if row != nil && row.Type == syntax.TableHeader {
		tag = "th"
	}
	var attrs []dom.Attr
	if row != nil {
		if align := cellAlign(c.Ancestor(2), row, n); align != "" {
			attrs = append(attrs, dom.A("style", "text-align: "+align))
		}
	}
	return container(tag, attrs...)(c)
}

// cellAlign reads the column alignment of cell from the table's delimiter
// row, the second line of the table.
func cellAlign(table, row, cell *api.Node) string {
	if table == nil {
		return ""
	}
	col := -1
	for i, c := range row.ChildrenOfType(syntax.TableCell) {
		if c == cell {
			col = i
			break
		}
	}
	lines := strings.SplitN(table.Content, "\n", 3)
	if col < 0 || len(lines) < 2 {
		return ""
	}
	delim := strings.Trim(strings.TrimLeft(lines[1], " \t>"), " \t\r")
	delim = strings.TrimSuffix(strings.TrimPrefix(delim, "|"), "|")
	cols := strings.Split(delim, "|")
	if col >= len(cols) {
		return ""
	}
	d := strings.TrimSpace(cols[col])
	left, right := strings.HasPrefix(d, ":"), strings.HasSuffix(d, ":")
	switch {
	case left && right:
		return "center"
	case right:
		return "right"
	case left:
		return "left"
	}
	return ""
}

var entities = map[string]string{
	"&amp;":   "&",
	"&lt;":    "<",
	"&gt;":    ">",
	"&quot;":  `"`,
	"&apos;":  "'",
	"&nbsp;":  "\u00a0",
	"&copy;":  "©",
	"&reg;":   "®",
	"&trade;": "™",
}

func renderEntity(c *Context) (*dom.Node, error) {
	s := c.Node().Content
	if v, ok := entities[s]; ok {
		return dom.Text(v), nil
	}
	return dom.Text(s), nil
}

func renderEscape(c *Context) (*dom.Node, error) {
	return dom.Text(strings.TrimPrefix(c.Node().Content, `\`)), nil
}

func renderRaw(c *Context) (*dom.Node, error) {
	return c.Raw(c.Node().Content), nil
}
