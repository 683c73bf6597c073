/*
Package parser turns Creole markup into a concrete parse tree.

The parser is line oriented for blocks and character driven for inline
content: a table of callbacks keyed by the first byte of a construct decides
whether a construct starts at the current offset. A callback that consumes
nothing leaves the byte to be read as ordinary text, which is how unterminated
constructs degrade to literal text instead of failing the parse.
*/
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
)

// Kind identifies the grammar production a Node was recognised as
type Kind int

const (
	KindCreole Kind = iota
	KindHeading
	KindParagraph
	KindInline
	KindText
	KindBold
	KindItalic
	KindStrike
	KindLinebreak
	KindHRule
	KindLink
	KindImage
	KindWikiWord
	KindAttachment
	KindRawLink
	KindInlineNoWiki
	KindInlineCode
	KindInlineHTML
	KindNoWiki
	KindCode
	KindHTML
	KindOrderedList
	KindUnorderedList
	KindListItem
	KindTable
	KindRow
	KindHeaderCell
	KindCell
	KindMacro
	KindMacroNoArgs
)

var kindNames = [...]string{
	KindCreole:        "creole",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindInline:        "inline",
	KindText:          "text",
	KindBold:          "bold",
	KindItalic:        "italic",
	KindStrike:        "strike",
	KindLinebreak:     "linebreak",
	KindHRule:         "hrule",
	KindLink:          "link",
	KindImage:         "image",
	KindWikiWord:      "wikiword",
	KindAttachment:    "attachment",
	KindRawLink:       "rawlink",
	KindInlineNoWiki:  "preformat",
	KindInlineCode:    "inlinecode",
	KindInlineHTML:    "inlinehtml",
	KindNoWiki:        "nowiki",
	KindCode:          "code",
	KindHTML:          "html",
	KindOrderedList:   "olist",
	KindUnorderedList: "ulist",
	KindListItem:      "item",
	KindTable:         "table",
	KindRow:           "row",
	KindHeaderCell:    "th",
	KindCell:          "td",
	KindMacro:         "macro",
	KindMacroNoArgs:   "macro-noargs",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is a node of the parse tree. Which fields are meaningful depends on
// Kind.
type Node struct {
	Kind Kind
	// Text holds literal text, code, raw HTML, a URL, a word link or a
	// macro name.
	Text string
	// Target and Title are the parts of bracketed links and images.
	Target   string
	Title    string
	HasTitle bool
	// Prefix is the '=' run of a heading.
	Prefix string
	// Level is the depth of a list item, starting at 1.
	Level int
	Lang  ast.Language
	// Args is the raw argument text of a macro.
	Args string
	// Closed is set on formatting nodes whose end token was seen.
	Closed   bool
	Children []*Node
}

// String renders the subtree as an s-expression, for tests and debugging
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b)
	return b.String()
}

func (n *Node) dump(b *strings.Builder) {
	b.WriteString("(")
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case KindText, KindWikiWord, KindAttachment, KindRawLink, KindInlineNoWiki, KindNoWiki,
		KindInlineHTML, KindHTML, KindMacroNoArgs:
		fmt.Fprintf(b, " %q", n.Text)
	case KindInlineCode, KindCode:
		fmt.Fprintf(b, " %s %q", n.Lang, n.Text)
	case KindLink, KindImage:
		fmt.Fprintf(b, " %q", n.Target)
		if n.HasTitle {
			fmt.Fprintf(b, " %q", n.Title)
		}
	case KindHeading:
		fmt.Fprintf(b, " %q", n.Prefix)
	case KindListItem:
		fmt.Fprintf(b, " %d", n.Level)
	case KindMacro:
		fmt.Fprintf(b, " %q %q", n.Text, n.Args)
	case KindBold, KindItalic, KindStrike:
		if !n.Closed {
			b.WriteString(" unclosed")
		}
	}
	for _, c := range n.Children {
		b.WriteString(" ")
		c.dump(b)
	}
	b.WriteString(")")
}

// for each character that may start an inline construct
type inlineParser func(p *Parser, data string, offset int) (int, *Node)

// Parser holds the inline callback table and the formatting state of the
// inline run being parsed. A Parser is not safe for concurrent use; Parse
// creates a fresh one per call.
type Parser struct {
	inlineCallback [256]inlineParser
	active         format
}

// New creates a Creole parser
func New() *Parser {
	p := Parser{}

	p.inlineCallback['['] = leftBracket
	p.inlineCallback['{'] = leftBrace
	p.inlineCallback['<'] = leftAngle
	p.inlineCallback['\\'] = linebreak
	p.inlineCallback['~'] = escape
	for c := 'a'; c <= 'z'; c++ {
		p.inlineCallback[c] = lowerWord
	}
	for c := 'A'; c <= 'Z'; c++ {
		p.inlineCallback[c] = upperWord
	}

	return &p
}

// Parse parses markup with a fresh parser
func Parse(text string) *Node {
	return New().Parse(text)
}

// Parse parses a whole page into a KindCreole tree
func (p *Parser) Parse(text string) *Node {
	// the scanners only understand '\n' and rely on every line being
	// terminated, including the last one
	data := NormalizeNewlines(text)
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	root := &Node{Kind: KindCreole}
	p.Block(root, data)
	return root
}

// NormalizeNewlines converts CRLF and CR line endings to LF
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isAlnum(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
