package syntax

import (
	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// inlineBlock converts the inline children of a leaf block whose content
// spans [from, to).
func (c *converter) inlineBlock(n gast.Node, out *node, from, to int) int {
	saved := c.limit
	c.limit = to
	end := c.inlines(n, out, from)
	c.limit = saved
	return end
}

func (c *converter) inlines(n gast.Node, out *node, cursor int) int {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		cursor = c.inline(ch, out, cursor)
	}
	return cursor
}

func (c *converter) inline(n gast.Node, out *node, cursor int) int {
	switch v := n.(type) {
	case *gast.Text:
		return c.text(v, out, cursor)
	case *gast.String:
		return cursor
	case *gast.CodeSpan:
		return c.codeSpan(v, out, cursor)
	case *gast.Emphasis:
		return c.emphasis(v, out, cursor)
	case *gast.Link:
		return c.link(v, Link, "[", out, cursor)
	case *gast.Image:
		return c.link(v, Image, "![", out, cursor)
	case *gast.AutoLink:
		return c.autolink(out, cursor)
	case *gast.RawHTML:
		segs := v.Segments
		if segs.Len() == 0 {
			return cursor
		}
		tag := newNode(HTMLTag, segs.At(0).Start, segs.At(segs.Len()-1).Stop)
		out.children = append(out.children, tag)
		return max(cursor, tag.to)
	case *extast.Strikethrough:
		return c.strikethrough(v, out, cursor)
	case *extast.TaskCheckBox:
		p := indexByte(c.src, cursor, c.limit, '[')
		if p < 0 {
			p = cursor
		}
		out.children = append(out.children, newNode(TaskMarker, p, p+3))
		return p + 3
	default:
		return c.inlines(n, out, cursor)
	}
}

func (c *converter) text(v *gast.Text, out *node, cursor int) int {
	seg := v.Segment
	c.scanText(out, seg.Start, seg.Stop)
	end := max(cursor, seg.Stop)
	if v.HardLineBreak() {
		to := lineEnd(c.src, seg.Stop)
		if to < len(c.src) {
			to++
		}
		out.children = append(out.children, newNode(HardBreak, seg.Stop, to))
		end = to
	}
	return end
}

// scanText records backslash escapes and character references inside a
// text segment.
func (c *converter) scanText(out *node, from, to int) {
	for i := from; i < to && i < len(c.src); i++ {
		switch c.src[i] {
		case '\\':
			if i+1 < to && isASCIIPunct(c.src[i+1]) {
				out.children = append(out.children, newNode(Escape, i, i+2))
				i++
			}
		case '&':
			if l := matchEntity(c.src, i, to); l > 0 {
				out.children = append(out.children, newNode(Entity, i, i+l))
				i += l - 1
			}
		}
	}
}

func (c *converter) codeSpan(v *gast.CodeSpan, out *node, cursor int) int {
	p := indexByte(c.src, cursor, c.limit, '`')
	if p < 0 {
		p = cursor
	}
	k := max(runLen(c.src, p, '`'), 1)
	inner := p + k
	if t, ok := v.LastChild().(*gast.Text); ok && t.Segment.Stop > inner {
		inner = t.Segment.Stop
	}
	q := findRun(c.src, inner, c.limit, '`', k)
	if q < 0 {
		q = inner
	}
	ic := newNode(InlineCode, p, q+k)
	ic.children = append(ic.children,
		newNode(CodeMark, p, p+k),
		newNode(CodeMark, q, q+k),
	)
	out.children = append(out.children, ic)
	return ic.to
}

func (c *converter) emphasis(v *gast.Emphasis, out *node, cursor int) int {
	p := indexAny(c.src, cursor, c.limit, "*_")
	if p < 0 {
		p = cursor
	}
	delim := byte('*')
	if p < len(c.src) {
		delim = c.src[p]
	}
	name := Emphasis
	if v.Level >= 2 {
		name = StrongEmphasis
	}
	e := newNode(name, p, p+v.Level)
	e.children = append(e.children, newNode(EmphasisMark, p, p+v.Level))
	end := c.inlines(v, e, p+v.Level)
	q := indexByte(c.src, end, c.limit, delim)
	if q < 0 {
		q = end
	}
	e.children = append(e.children, newNode(EmphasisMark, q, q+v.Level))
	e.to = q + v.Level
	out.children = append(out.children, e)
	return e.to
}

func (c *converter) strikethrough(v *extast.Strikethrough, out *node, cursor int) int {
	p := indexByte(c.src, cursor, c.limit, '~')
	if p < 0 {
		p = cursor
	}
	k := min(max(runLen(c.src, p, '~'), 1), 2)
	s := newNode(Strikethrough, p, p+k)
	s.children = append(s.children, newNode(StrikethroughMark, p, p+k))
	end := c.inlines(v, s, p+k)
	q := findRun(c.src, end, c.limit, '~', k)
	if q < 0 {
		if q = indexByte(c.src, end, c.limit, '~'); q < 0 {
			q = end
		}
	}
	s.children = append(s.children, newNode(StrikethroughMark, q, q+k))
	s.to = q + k
	out.children = append(out.children, s)
	return s.to
}

// link converts an inline link or image: opener, label content, closing
// bracket, then an optional (destination "title") or [reference].
func (c *converter) link(n gast.Node, name, opener string, out *node, cursor int) int {
	p := indexString(c.src, cursor, c.limit, opener)
	if p < 0 {
		p = cursor
	}
	l := newNode(name, p, p+len(opener))
	l.children = append(l.children, newNode(LinkMark, p, p+len(opener)))
	end := c.inlines(n, l, p+len(opener))
	out.children = append(out.children, l)

	q := indexByte(c.src, end, c.limit, ']')
	if q < 0 {
		l.to = max(end, l.to)
		return l.to
	}
	l.children = append(l.children, newNode(LinkMark, q, q+1))
	r := q + 1
	l.to = r
	if r >= c.limit {
		return l.to
	}

	switch c.src[r] {
	case '(':
		l.children = append(l.children, newNode(LinkMark, r, r+1))
		s := skipLineSpace(c.src, r+1)
		e := scanDestination(c.src, s, c.limit)
		if e > s {
			l.children = append(l.children, newNode(URL, s, e))
		}
		t := skipLineSpace(c.src, e)
		if te := scanTitle(c.src, t, c.limit); te > t {
			l.children = append(l.children, newNode(LinkTitle, t, te))
			t = skipLineSpace(c.src, te)
		}
		if t < c.limit && c.src[t] == ')' {
			l.children = append(l.children, newNode(LinkMark, t, t+1))
			t++
		}
		l.to = t
	case '[':
		e := indexByte(c.src, r+1, c.limit, ']')
		if e < 0 {
			break
		}
		if e == r+1 {
			// Collapsed reference: [label][]
			l.children = append(l.children,
				newNode(LinkMark, r, r+1),
				newNode(LinkMark, e, e+1),
			)
		} else {
			l.children = append(l.children, newNode(LinkLabel, r, e+1))
		}
		l.to = e + 1
	}
	return l.to
}

func (c *converter) autolink(out *node, cursor int) int {
	p := indexByte(c.src, cursor, c.limit, '<')
	if p < 0 {
		return cursor
	}
	e := indexByte(c.src, p, c.limit, '>')
	if e < 0 {
		e = max(c.limit-1, p+1)
	}
	a := newNode(Autolink, p, e+1)
	a.children = append(a.children,
		newNode(LinkMark, p, p+1),
		newNode(URL, p+1, e),
		newNode(LinkMark, e, e+1),
	)
	out.children = append(out.children, a)
	return a.to
}
