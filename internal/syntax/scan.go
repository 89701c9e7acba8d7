package syntax

import "regexp"

// Source scanning helpers. All of them clamp to the source bounds and report
// -1 when a search fails.

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isLineSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset of the newline ending the line containing pos,
// or len(src) on the last line.
func lineEnd(src []byte, pos int) int {
	if pos < 0 {
		pos = 0
	}
	for pos < len(src) && src[pos] != '\n' {
		pos++
	}
	return pos
}

// nextLine returns the offset of the line following pos, or len(src).
func nextLine(src []byte, pos int) int {
	e := lineEnd(src, pos)
	if e < len(src) {
		return e + 1
	}
	return e
}

func skipSpace(src []byte, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

func skipLineSpace(src []byte, pos int) int {
	for pos < len(src) && isLineSpace(src[pos]) {
		pos++
	}
	return pos
}

// skipPrefix moves past whitespace, line breaks and blockquote markers: the
// container prefixes that may precede a block's first byte.
func skipPrefix(src []byte, pos int) int {
	for pos < len(src) && (isLineSpace(src[pos]) || src[pos] == '>') {
		pos++
	}
	return pos
}

// trimRight moves to back over trailing whitespace and line breaks, never
// past from.
func trimRight(src []byte, from, to int) int {
	if to > len(src) {
		to = len(src)
	}
	for to > from && isLineSpace(src[to-1]) {
		to--
	}
	return to
}

// trimEOL drops a single trailing line break.
func trimEOL(src []byte, from, to int) int {
	if to > len(src) {
		to = len(src)
	}
	if to > from && src[to-1] == '\n' {
		to--
	}
	if to > from && src[to-1] == '\r' {
		to--
	}
	return to
}

func indexByte(src []byte, pos, limit int, c byte) int {
	if limit > len(src) {
		limit = len(src)
	}
	for i := max(pos, 0); i < limit; i++ {
		if src[i] == c {
			return i
		}
	}
	return -1
}

func indexAny(src []byte, pos, limit int, chars string) int {
	if limit > len(src) {
		limit = len(src)
	}
	for i := max(pos, 0); i < limit; i++ {
		for j := 0; j < len(chars); j++ {
			if src[i] == chars[j] {
				return i
			}
		}
	}
	return -1
}

func indexString(src []byte, pos, limit int, s string) int {
	if limit > len(src) {
		limit = len(src)
	}
	for i := max(pos, 0); i+len(s) <= limit; i++ {
		if string(src[i:i+len(s)]) == s {
			return i
		}
	}
	return -1
}

// runLen counts consecutive c bytes starting at pos.
func runLen(src []byte, pos int, c byte) int {
	n := 0
	for pos+n < len(src) && src[pos+n] == c {
		n++
	}
	return n
}

// findRun returns the start of the first run of exactly n c bytes at or
// after pos.
func findRun(src []byte, pos, limit int, c byte, n int) int {
	if limit > len(src) {
		limit = len(src)
	}
	for i := max(pos, 0); i < limit; {
		if src[i] != c {
			i++
			continue
		}
		l := runLen(src[:limit], i, c)
		if l == n {
			return i
		}
		i += l
	}
	return -1
}

// isASCIIPunct reports whether c may be backslash-escaped.
func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

var entityPattern = regexp.MustCompile(`^&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)

// matchEntity returns the length of a character reference at src[pos:limit].
func matchEntity(src []byte, pos, limit int) int {
	if limit > len(src) {
		limit = len(src)
	}
	if pos >= limit {
		return 0
	}
	loc := entityPattern.FindIndex(src[pos:limit])
	if loc == nil {
		return 0
	}
	return loc[1]
}

// scanDestination returns the end of an inline link destination starting at
// pos: either <...> or a run of non-space bytes with balanced parentheses.
func scanDestination(src []byte, pos, limit int) int {
	if limit > len(src) {
		limit = len(src)
	}
	if pos >= limit {
		return pos
	}
	if src[pos] == '<' {
		for i := pos + 1; i < limit; i++ {
			switch src[i] {
			case '\\':
				i++
			case '>':
				return i + 1
			case '\n':
				return pos
			}
		}
		return pos
	}
	depth := 0
	i := pos
	for ; i < limit; i++ {
		c := src[i]
		if c == '\\' && i+1 < limit && isASCIIPunct(src[i+1]) {
			i++
			continue
		}
		if c <= ' ' {
			break
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		}
	}
	return i
}

// scanTitle returns the end of a link title opening at pos, or pos when
// there is none.
func scanTitle(src []byte, pos, limit int) int {
	if limit > len(src) {
		limit = len(src)
	}
	if pos >= limit {
		return pos
	}
	closer := src[pos]
	switch closer {
	case '"', '\'':
	case '(':
		closer = ')'
	default:
		return pos
	}
	for i := pos + 1; i < limit; i++ {
		if src[i] == '\\' {
			i++
			continue
		}
		if src[i] == closer {
			return i + 1
		}
	}
	return pos
}
