package syntax

import (
	"slices"
	"sort"

	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// converter rebuilds goldmark's AST as a concrete syntax tree. goldmark keeps
// byte segments for text and block lines but not for delimiters or
// containers, so spans are recovered by scanning the source forward from a
// cursor that trails the previously converted node.
type converter struct {
	src   []byte
	marks []*node
	// limit bounds inline scans to the enclosing block's content.
	limit int
}

func newNode(name string, from, to int) *node {
	if to < from {
		to = from
	}
	return &node{name: name, from: from, to: to}
}

func (c *converter) document(doc gast.Node) *node {
	root := newNode(Document, 0, len(c.src))
	c.blocks(doc, root, 0, 0)
	for _, m := range c.marks {
		insertMark(root, m)
	}
	sortTree(root)
	root.link()
	return root
}

// blocks converts the block children of parent into out and returns the end
// of the last converted block.
func (c *converter) blocks(parent gast.Node, out *node, cursor, depth int) int {
	for ch := parent.FirstChild(); ch != nil; ch = ch.NextSibling() {
		n := c.block(ch, cursor, depth)
		if n == nil {
			continue
		}
		out.children = append(out.children, n)
		if n.to > cursor {
			cursor = n.to
		}
	}
	return cursor
}

func (c *converter) block(n gast.Node, cursor, depth int) *node {
	switch v := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		return c.paragraph(v)
	case *gast.Heading:
		return c.heading(v, cursor)
	case *gast.ThematicBreak:
		p := skipPrefix(c.src, cursor)
		return newNode(HorizontalRule, p, trimRight(c.src, p, lineEnd(c.src, p)))
	case *gast.CodeBlock:
		return c.codeBlock(v)
	case *gast.FencedCodeBlock:
		return c.fencedCode(v, cursor)
	case *gast.Blockquote:
		return c.blockquote(v, cursor, depth)
	case *gast.List:
		name := BulletList
		if v.IsOrdered() {
			name = OrderedList
		}
		l := newNode(name, cursor, cursor)
		end := c.blocks(v, l, cursor, depth)
		if len(l.children) > 0 {
			l.from = l.children[0].from
		}
		l.to = max(end, l.from)
		return l
	case *gast.ListItem:
		return c.listItem(v, cursor, depth)
	case *gast.HTMLBlock:
		lines := v.Lines()
		if lines.Len() == 0 {
			return nil
		}
		from := lines.At(0).Start
		stop := lines.At(lines.Len() - 1).Stop
		if v.HasClosure() {
			stop = v.ClosureLine.Stop
		}
		return newNode(HTMLBlock, from, trimRight(c.src, from, stop))
	case *extast.Table:
		return c.table(v, cursor)
	default:
		// Blocks from grammar extensions we do not model keep their kind
		// name so the renderer can report them.
		out := newNode(n.Kind().String(), cursor, cursor)
		if lines := n.Lines(); lines.Len() > 0 {
			out.from = lines.At(0).Start
			out.to = trimRight(c.src, out.from, lines.At(lines.Len()-1).Stop)
		}
		end := c.blocks(n, out, out.from, depth)
		out.to = max(out.to, end)
		return out
	}
}

func (c *converter) paragraph(n gast.Node) *node {
	lines := n.Lines()
	if lines.Len() == 0 {
		return nil
	}
	from := lines.At(0).Start
	to := trimRight(c.src, from, lines.At(lines.Len()-1).Stop)
	p := newNode(Paragraph, from, to)
	c.inlineBlock(n, p, from, to)
	return p
}

func (c *converter) heading(v *gast.Heading, cursor int) *node {
	lines := v.Lines()
	if lines.Len() == 0 {
		// Empty ATX heading such as "#" or "### ###".
		p := skipPrefix(c.src, cursor)
		run := runLen(c.src, p, '#')
		h := newNode(ATXHeading(v.Level), p, trimRight(c.src, p, lineEnd(c.src, p)))
		if run > 0 {
			h.children = append(h.children, newNode(HeaderMark, p, p+run))
		}
		return h
	}

	first := lines.At(0).Start
	i := first
	for i > 0 && isSpace(c.src[i-1]) {
		i--
	}
	hashEnd := i
	for i > 0 && c.src[i-1] == '#' {
		i--
	}
	if hashEnd-i == v.Level {
		lineTo := trimRight(c.src, i, lineEnd(c.src, i))
		h := newNode(ATXHeading(v.Level), i, lineTo)
		h.children = append(h.children, newNode(HeaderMark, i, hashEnd))
		last := lines.At(0).Stop
		c.inlineBlock(v, h, first, last)
		j := skipSpace(c.src, last)
		if j < lineTo && c.src[j] == '#' && j+runLen(c.src, j, '#') == lineTo {
			h.children = append(h.children, newNode(HeaderMark, j, lineTo))
		}
		return h
	}

	// Setext: content lines followed by an underline of '=' or '-'.
	last := trimRight(c.src, first, lines.At(lines.Len()-1).Stop)
	u := skipLinePrefix(c.src, nextLine(c.src, last))
	to := last
	var mark *node
	if u < len(c.src) && (c.src[u] == '=' || c.src[u] == '-') {
		mark = newNode(HeaderMark, u, u+runLen(c.src, u, c.src[u]))
		to = trimRight(c.src, u, lineEnd(c.src, u))
	}
	h := newNode(SetextHeading(v.Level), first, to)
	c.inlineBlock(v, h, first, last)
	if mark != nil {
		h.children = append(h.children, mark)
	}
	return h
}

func (c *converter) codeBlock(v *gast.CodeBlock) *node {
	lines := v.Lines()
	if lines.Len() == 0 {
		return nil
	}
	from := lines.At(0).Start
	ls := lineStart(c.src, from)
	for k := 0; k < 4 && from > ls && isSpace(c.src[from-1]); k++ {
		from--
	}
	return newNode(CodeBlock, from, trimRight(c.src, from, lines.At(lines.Len()-1).Stop))
}

func (c *converter) fencedCode(v *gast.FencedCodeBlock, cursor int) *node {
	p := skipPrefix(c.src, cursor)
	if p >= len(c.src) || (c.src[p] != '`' && c.src[p] != '~') {
		if q := indexAny(c.src, p, len(c.src), "`~"); q >= 0 {
			p = q
		}
	}
	fence := byte('`')
	if p < len(c.src) {
		fence = c.src[p]
	}
	k := runLen(c.src, p, fence)
	fc := newNode(FencedCode, p, p+k)
	fc.children = append(fc.children, newNode(CodeMark, p, p+k))
	if v.Info != nil {
		seg := v.Info.Segment
		fc.children = append(fc.children, newNode(CodeInfo, seg.Start, seg.Stop))
	}

	end := trimRight(c.src, p, lineEnd(c.src, p))
	closeAt := nextLine(c.src, end)
	lines := v.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		fc.children = append(fc.children, newNode(CodeText, seg.Start, seg.Stop))
		end = seg.Stop
		closeAt = seg.Stop
	}
	q := skipLinePrefix(c.src, closeAt)
	if k > 0 && q < len(c.src) && c.src[q] == fence && runLen(c.src, q, fence) >= k {
		r := runLen(c.src, q, fence)
		fc.children = append(fc.children, newNode(CodeMark, q, q+r))
		fc.to = q + r
	} else {
		// Unterminated fences run to the end of their content.
		fc.to = max(end, fc.to)
	}
	return fc
}

func (c *converter) blockquote(v *gast.Blockquote, cursor, depth int) *node {
	p := skipLineSpace(c.src, cursor)
	if p >= len(c.src) || c.src[p] != '>' {
		if q := indexByte(c.src, p, len(c.src), '>'); q >= 0 {
			p = q
		}
	}
	bq := newNode(Blockquote, p, p+1)
	end := c.blocks(v, bq, p+1, depth+1)
	bq.to = max(end, bq.to)
	c.quoteMarks(p, bq.to, depth)
	return bq
}

// quoteMarks records the '>' of every line of a blockquote at the given
// nesting depth. Lazy continuation lines have none.
func (c *converter) quoteMarks(from, to, depth int) {
	c.marks = append(c.marks, newNode(QuoteMark, from, from+1))
	for ls := nextLine(c.src, from); ls < to; {
		q := skipSpace(c.src, ls)
		for d := 0; d < depth && q < len(c.src) && c.src[q] == '>'; d++ {
			q = skipSpace(c.src, q+1)
		}
		if q < to && c.src[q] == '>' {
			c.marks = append(c.marks, newNode(QuoteMark, q, q+1))
		}
		next := nextLine(c.src, ls)
		if next <= ls {
			break
		}
		ls = next
	}
}

func (c *converter) listItem(v *gast.ListItem, cursor, depth int) *node {
	p := skipPrefix(c.src, cursor)
	me := p
	if p < len(c.src) {
		switch c.src[p] {
		case '-', '+', '*':
			me = p + 1
		default:
			for me < len(c.src) && c.src[me] >= '0' && c.src[me] <= '9' {
				me++
			}
			if me < len(c.src) && (c.src[me] == '.' || c.src[me] == ')') {
				me++
			}
		}
	}
	li := newNode(ListItem, p, me)
	li.children = append(li.children, newNode(ListMark, p, me))
	end := c.blocks(v, li, me, depth)
	li.to = max(end, me)
	promoteTask(c.src, li)
	return li
}

// promoteTask lifts a task checkbox out of an item's first paragraph so the
// item reads ListMark, TaskMarker, content.
func promoteTask(src []byte, li *node) {
	if len(li.children) < 2 {
		return
	}
	para := li.children[1]
	if para.name != Paragraph || len(para.children) == 0 || para.children[0].name != TaskMarker {
		return
	}
	tm := para.children[0]
	para.children = para.children[1:]
	para.from = min(skipSpace(src, tm.to), para.to)
	li.name = TaskListItem
	li.children = slices.Insert(li.children, 1, tm)
}

func (c *converter) table(v *extast.Table, cursor int) *node {
	t := newNode(Table, cursor, cursor)
	seenHeader := false
	for ch := v.FirstChild(); ch != nil; ch = ch.NextSibling() {
		name := TableRow
		if _, ok := ch.(*extast.TableHeader); ok {
			name = TableHeader
		}
		row := c.tableRow(ch, name, cursor)
		t.children = append(t.children, row)
		cursor = row.to
		if name == TableHeader && !seenHeader {
			seenHeader = true
			d := skipLinePrefix(c.src, nextLine(c.src, row.to))
			if dto := trimRight(c.src, d, lineEnd(c.src, d)); dto > d {
				t.children = append(t.children, newNode(TableDelimiterRow, d, dto))
				cursor = dto
			}
		}
	}
	if len(t.children) > 0 {
		t.from = t.children[0].from
		t.to = t.children[len(t.children)-1].to
	}
	return t
}

func (c *converter) tableRow(row gast.Node, name string, cursor int) *node {
	rowFrom := -1
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if lines := cell.Lines(); lines.Len() > 0 {
			rowFrom = skipLinePrefix(c.src, lineStart(c.src, lines.At(0).Start))
			break
		}
	}
	if rowFrom < 0 {
		rowFrom = skipPrefix(c.src, cursor)
	}
	rowTo := trimRight(c.src, rowFrom, lineEnd(c.src, rowFrom))
	r := newNode(name, rowFrom, rowTo)

	var cells []*node
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		var cn *node
		if lines := cell.Lines(); lines.Len() > 0 {
			seg := lines.At(0)
			cn = newNode(TableCell, seg.Start, seg.Stop)
			c.inlineBlock(cell, cn, seg.Start, seg.Stop)
		} else {
			// Cells padded in by the parser have no source text.
			cn = newNode(TableCell, rowTo, rowTo)
		}
		cells = append(cells, cn)
	}
	r.children = append(r.children, cells...)

	for i := rowFrom; i < rowTo; i++ {
		if c.src[i] != '|' || (i > rowFrom && c.src[i-1] == '\\') || within(cells, i) {
			continue
		}
		r.children = append(r.children, newNode(TableDelimiter, i, i+1))
	}
	sortChildren(r)
	return r
}

func within(nodes []*node, pos int) bool {
	for _, n := range nodes {
		if n.from <= pos && pos < n.to {
			return true
		}
	}
	return false
}

// skipLinePrefix moves past indentation and blockquote markers on one line.
func skipLinePrefix(src []byte, pos int) int {
	for pos < len(src) && (isSpace(src[pos]) || src[pos] == '>') {
		pos++
	}
	return pos
}

// insertMark places m inside the deepest node whose span contains it.
func insertMark(parent *node, m *node) {
	for _, ch := range parent.children {
		if ch.from <= m.from && m.to <= ch.to && ch.to > ch.from && !leafTokens[ch.name] {
			insertMark(ch, m)
			return
		}
	}
	i := sort.Search(len(parent.children), func(i int) bool {
		return parent.children[i].from >= m.from
	})
	parent.children = slices.Insert(parent.children, i, m)
}

func sortChildren(n *node) {
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].from < n.children[j].from
	})
}

func sortTree(n *node) {
	sortChildren(n)
	for _, c := range n.children {
		sortTree(c)
	}
}
