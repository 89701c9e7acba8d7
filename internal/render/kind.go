package render

import (
	"github.com/mithrel/mdtree/internal/syntax"
	"github.com/mithrel/mdtree/pkg/api"
)

// Kind is the closed set of node types the default table knows about.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindDocument
	KindParagraph
	KindATXHeading1
	KindATXHeading2
	KindATXHeading3
	KindATXHeading4
	KindATXHeading5
	KindATXHeading6
	KindSetextHeading1
	KindSetextHeading2
	KindHeaderMark
	KindHorizontalRule
	KindCodeBlock
	KindFencedCode
	KindInlineCode
	KindCodeMark
	KindCodeInfo
	KindCodeText
	KindBlockquote
	KindQuoteMark
	KindBulletList
	KindOrderedList
	KindListItem
	KindTaskListItem
	KindListMark
	KindTask
	KindTaskMarker
	KindTable
	KindTableHeader
	KindTableRow
	KindTableCell
	KindTableDelimiter
	KindTableDelimiterRow
	KindEmphasis
	KindStrongEmphasis
	KindEmphasisMark
	KindStrikethrough
	KindStrikethroughMark
	KindSuperscript
	KindSuperscriptMark
	KindSubscript
	KindSubscriptMark
	KindLink
	KindImage
	KindAutolink
	KindLinkMark
	KindLinkLabel
	KindLinkTitle
	KindLinkReference
	KindURL
	KindHTMLBlock
	KindHTMLTag
	KindEntity
	KindEscape
	KindHardBreak
	KindLineBreak

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:           "",
	KindText:              api.TextType,
	KindDocument:          syntax.Document,
	KindParagraph:         syntax.Paragraph,
	KindATXHeading1:       syntax.ATXHeading1,
	KindATXHeading2:       syntax.ATXHeading2,
	KindATXHeading3:       syntax.ATXHeading3,
	KindATXHeading4:       syntax.ATXHeading4,
	KindATXHeading5:       syntax.ATXHeading5,
	KindATXHeading6:       syntax.ATXHeading6,
	KindSetextHeading1:    syntax.SetextHeading1,
	KindSetextHeading2:    syntax.SetextHeading2,
	KindHeaderMark:        syntax.HeaderMark,
	KindHorizontalRule:    syntax.HorizontalRule,
	KindCodeBlock:         syntax.CodeBlock,
	KindFencedCode:        syntax.FencedCode,
	KindInlineCode:        syntax.InlineCode,
	KindCodeMark:          syntax.CodeMark,
	KindCodeInfo:          syntax.CodeInfo,
	KindCodeText:          syntax.CodeText,
	KindBlockquote:        syntax.Blockquote,
	KindQuoteMark:         syntax.QuoteMark,
	KindBulletList:        syntax.BulletList,
	KindOrderedList:       syntax.OrderedList,
	KindListItem:          syntax.ListItem,
	KindTaskListItem:      syntax.TaskListItem,
	KindListMark:          syntax.ListMark,
	KindTask:              syntax.Task,
	KindTaskMarker:        syntax.TaskMarker,
	KindTable:             syntax.Table,
	KindTableHeader:       syntax.TableHeader,
	KindTableRow:          syntax.TableRow,
	KindTableCell:         syntax.TableCell,
	KindTableDelimiter:    syntax.TableDelimiter,
	KindTableDelimiterRow: syntax.TableDelimiterRow,
	KindEmphasis:          syntax.Emphasis,
	KindStrongEmphasis:    syntax.StrongEmphasis,
	KindEmphasisMark:      syntax.EmphasisMark,
	KindStrikethrough:     syntax.Strikethrough,
	KindStrikethroughMark: syntax.StrikethroughMark,
	KindSuperscript:       syntax.Superscript,
	KindSuperscriptMark:   syntax.SuperscriptMark,
	KindSubscript:         syntax.Subscript,
	KindSubscriptMark:     syntax.SubscriptMark,
	KindLink:              syntax.Link,
	KindImage:             syntax.Image,
	KindAutolink:          syntax.Autolink,
	KindLinkMark:          syntax.LinkMark,
	KindLinkLabel:         syntax.LinkLabel,
	KindLinkTitle:         syntax.LinkTitle,
	KindLinkReference:     syntax.LinkReference,
	KindURL:               syntax.URL,
	KindHTMLBlock:         syntax.HTMLBlock,
	KindHTMLTag:           syntax.HTMLTag,
	KindEntity:            syntax.Entity,
	KindEscape:            syntax.Escape,
	KindHardBreak:         syntax.HardBreak,
	KindLineBreak:         syntax.LineBreak,
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindText; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// KindOf maps a node type name to its Kind, or KindUnknown.
func KindOf(typ string) Kind { return kindByName[typ] }

// Kinds lists every known kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindText; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k <= KindUnknown || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// headingLevel returns 1-6 for heading kinds and 0 otherwise.
func (k Kind) headingLevel() int {
	switch {
	case k >= KindATXHeading1 && k <= KindATXHeading6:
		return int(k-KindATXHeading1) + 1
	case k == KindSetextHeading1:
		return 1
	case k == KindSetextHeading2:
		return 2
	}
	return 0
}
