package syntax

import "strconv"

// Grammar node names produced by Parser. They are the vocabulary shared by
// the normalizer's container and skip sets and the renderer table.
const (
	Document = "Document"

	Paragraph      = "Paragraph"
	HorizontalRule = "HorizontalRule"
	HTMLBlock      = "HTMLBlock"
	LinkReference  = "LinkReference"

	ATXHeading1    = "ATXHeading1"
	ATXHeading2    = "ATXHeading2"
	ATXHeading3    = "ATXHeading3"
	ATXHeading4    = "ATXHeading4"
	ATXHeading5    = "ATXHeading5"
	ATXHeading6    = "ATXHeading6"
	SetextHeading1 = "SetextHeading1"
	SetextHeading2 = "SetextHeading2"
	HeaderMark     = "HeaderMark"

	CodeBlock  = "CodeBlock"
	FencedCode = "FencedCode"
	InlineCode = "InlineCode"
	CodeMark   = "CodeMark"
	CodeInfo   = "CodeInfo"
	CodeText   = "CodeText"

	Blockquote = "Blockquote"
	QuoteMark  = "QuoteMark"

	BulletList   = "BulletList"
	OrderedList  = "OrderedList"
	ListItem     = "ListItem"
	TaskListItem = "TaskListItem"
	ListMark     = "ListMark"
	Task         = "Task"
	TaskMarker   = "TaskMarker"

	Table             = "Table"
	TableHeader       = "TableHeader"
	TableRow          = "TableRow"
	TableCell         = "TableCell"
	TableDelimiter    = "TableDelimiter"
	TableDelimiterRow = "TableDelimiterRow"

	Emphasis          = "Emphasis"
	StrongEmphasis    = "StrongEmphasis"
	EmphasisMark      = "EmphasisMark"
	Strikethrough     = "Strikethrough"
	StrikethroughMark = "StrikethroughMark"
	Superscript       = "Superscript"
	SuperscriptMark   = "SuperscriptMark"
	Subscript         = "Subscript"
	SubscriptMark     = "SubscriptMark"

	Link      = "Link"
	Image     = "Image"
	Autolink  = "Autolink"
	LinkMark  = "LinkMark"
	LinkLabel = "LinkLabel"
	LinkTitle = "LinkTitle"
	URL       = "URL"

	HTMLTag   = "HTMLTag"
	Entity    = "Entity"
	Escape    = "Escape"
	HardBreak = "HardBreak"
	LineBreak = "LineBreak"
)

// ATXHeading returns the ATX heading name for level 1-6.
func ATXHeading(level int) string {
	return "ATXHeading" + strconv.Itoa(clampLevel(level, 6))
}

// SetextHeading returns the setext heading name for level 1-2.
func SetextHeading(level int) string {
	return "SetextHeading" + strconv.Itoa(clampLevel(level, 2))
}

func clampLevel(level, max int) int {
	if level < 1 {
		return 1
	}
	if level > max {
		return max
	}
	return level
}

// leafTokens never host quote marks found inside their span.
var leafTokens = map[string]bool{
	HeaderMark: true, CodeMark: true, CodeInfo: true, CodeText: true,
	QuoteMark: true, ListMark: true, TaskMarker: true,
	TableDelimiter: true, TableDelimiterRow: true,
	EmphasisMark: true, StrikethroughMark: true,
	LinkMark: true, LinkTitle: true, URL: true,
	Entity: true, Escape: true, HardBreak: true,
}
