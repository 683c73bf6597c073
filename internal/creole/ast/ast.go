// Package ast defines the node tree produced from a Creole parse tree.
//
// The set of node kinds is closed: every concrete type implements the
// unexported node method, so renderers can switch over them exhaustively.
// Trees are built once and never mutated afterwards.
package ast

// MaxListDepth is the deepest list nesting the grammar recognises
const MaxListDepth = 10

// Node is a node of the abstract syntax tree
type Node interface {
	// Children returns the owned child nodes in document order
	Children() []Node
	// IsBlock reports whether the node occupies a block-level position
	IsBlock() bool
	// CanContainBlock reports whether block nodes may appear as children
	CanContainBlock() bool

	node()
}

// Language is a syntax-highlighting hint carried by code nodes
type Language int

const (
	NoLanguage Language = iota
	CPlusPlus
	Java
	XHTML
	XML
)

var languageTags = map[Language]string{
	CPlusPlus: "c++",
	Java:      "java",
	XHTML:     "xhtml",
	XML:       "xml",
}

// String returns the fence tag for the language, or "" for NoLanguage
func (l Language) String() string {
	return languageTags[l]
}

// LanguageFromTag maps a fence tag such as "java" to its Language
func LanguageFromTag(tag string) (Language, bool) {
	for lang, t := range languageTags {
		if t == tag {
			return lang, true
		}
	}
	return NoLanguage, false
}

type branch struct {
	children []Node
}

func (b *branch) Children() []Node { return b.children }

type leaf struct{}

func (leaf) Children() []Node { return nil }

// Page is the root of a rendered document
type Page struct{ branch }

func NewPage(blocks ...Node) *Page { return &Page{branch{blocks}} }

func (*Page) IsBlock() bool         { return true }
func (*Page) CanContainBlock() bool { return true }
func (*Page) node()                 {}

// Paragraph is a block of inline content
type Paragraph struct{ branch }

func NewParagraph(content *Inline) *Paragraph { return &Paragraph{branch{[]Node{content}}} }

// Inline returns the paragraph's inline content
func (p *Paragraph) Inline() *Inline { return p.children[0].(*Inline) }

func (*Paragraph) IsBlock() bool         { return true }
func (*Paragraph) CanContainBlock() bool { return false }
func (*Paragraph) node()                 {}

// Heading is a level 1-5 heading over inline content
type Heading struct {
	branch
	Level int
}

func NewHeading(level int, content Node) *Heading {
	return &Heading{branch: branch{[]Node{content}}, Level: level}
}

func (*Heading) IsBlock() bool         { return true }
func (*Heading) CanContainBlock() bool { return false }
func (*Heading) node()                 {}

// Inline is a sequence of inline chunks
type Inline struct{ branch }

func NewInline(chunks ...Node) *Inline { return &Inline{branch{chunks}} }

func (*Inline) IsBlock() bool         { return false }
func (*Inline) CanContainBlock() bool { return false }
func (*Inline) node()                 {}

// Text is a leaf of literal text. Escaped text is HTML-escaped on output;
// unescaped text is raw passthrough.
type Text struct {
	leaf
	Text    string
	Escaped bool
}

// Plaintext returns escaped text
func Plaintext(s string) *Text { return &Text{Text: s, Escaped: true} }

// Raw returns text emitted verbatim
func Raw(s string) *Text { return &Text{Text: s} }

func (*Text) IsBlock() bool         { return false }
func (*Text) CanContainBlock() bool { return false }
func (*Text) node()                 {}

// Bold wraps inline content
type Bold struct{ branch }

func NewBold(content Node) *Bold { return &Bold{branch{[]Node{content}}} }

func (*Bold) IsBlock() bool         { return false }
func (*Bold) CanContainBlock() bool { return false }
func (*Bold) node()                 {}

// Italic wraps inline content
type Italic struct{ branch }

func NewItalic(content Node) *Italic { return &Italic{branch{[]Node{content}}} }

func (*Italic) IsBlock() bool         { return false }
func (*Italic) CanContainBlock() bool { return false }
func (*Italic) node()                 {}

// Strikethrough wraps inline content
type Strikethrough struct{ branch }

func NewStrikethrough(content Node) *Strikethrough {
	return &Strikethrough{branch{[]Node{content}}}
}

func (*Strikethrough) IsBlock() bool         { return false }
func (*Strikethrough) CanContainBlock() bool { return false }
func (*Strikethrough) node()                 {}

type Linebreak struct{ leaf }

func (*Linebreak) IsBlock() bool         { return false }
func (*Linebreak) CanContainBlock() bool { return false }
func (*Linebreak) node()                 {}

type HorizontalRule struct{ leaf }

func (*HorizontalRule) IsBlock() bool         { return true }
func (*HorizontalRule) CanContainBlock() bool { return false }
func (*HorizontalRule) node()                 {}

// Link refers to a page, attachment or URI. Resolution happens at render
// time against the render context.
type Link struct {
	leaf
	Target string
	Title  string
}

func NewLink(target, title string) *Link { return &Link{Target: target, Title: title} }

func (*Link) IsBlock() bool         { return false }
func (*Link) CanContainBlock() bool { return false }
func (*Link) node()                 {}

// Image has the same shape as Link but renders as an image
type Image struct {
	leaf
	Target string
	Title  string
}

func NewImage(target, title string) *Image { return &Image{Target: target, Title: title} }

func (*Image) IsBlock() bool         { return false }
func (*Image) CanContainBlock() bool { return false }
func (*Image) node()                 {}

// Code is a block of verbatim text
type Code struct {
	leaf
	Text     string
	Language Language
}

func NewCode(text string, lang Language) *Code { return &Code{Text: text, Language: lang} }

func (*Code) IsBlock() bool         { return true }
func (*Code) CanContainBlock() bool { return false }
func (*Code) node()                 {}

// InlineCode is verbatim text inside a line
type InlineCode struct {
	leaf
	Text     string
	Language Language
}

func NewInlineCode(text string, lang Language) *InlineCode {
	return &InlineCode{Text: text, Language: lang}
}

// ToBlock returns the block form of the code
func (c *InlineCode) ToBlock() *Code { return NewCode(c.Text, c.Language) }

func (*InlineCode) IsBlock() bool         { return false }
func (*InlineCode) CanContainBlock() bool { return false }
func (*InlineCode) node()                 {}

type OrderedList struct{ branch }

func NewOrderedList(items ...*ListItem) *OrderedList { return &OrderedList{branch{itemNodes(items)}} }

func (*OrderedList) IsBlock() bool         { return true }
func (*OrderedList) CanContainBlock() bool { return true }
func (*OrderedList) node()                 {}

type UnorderedList struct{ branch }

func NewUnorderedList(items ...*ListItem) *UnorderedList {
	return &UnorderedList{branch{itemNodes(items)}}
}

func (*UnorderedList) IsBlock() bool         { return true }
func (*UnorderedList) CanContainBlock() bool { return true }
func (*UnorderedList) node()                 {}

func itemNodes(items []*ListItem) []Node {
	nodes := make([]Node, len(items))
	for i, item := range items {
		nodes[i] = item
	}
	return nodes
}

// ListItem holds inline content optionally followed by nested lists
type ListItem struct{ branch }

func NewListItem(content *Inline, nested ...Node) *ListItem {
	return &ListItem{branch{append([]Node{content}, nested...)}}
}

func (*ListItem) IsBlock() bool         { return false }
func (*ListItem) CanContainBlock() bool { return true }
func (*ListItem) node()                 {}

type Table struct{ branch }

func NewTable(rows ...*TableRow) *Table {
	nodes := make([]Node, len(rows))
	for i, row := range rows {
		nodes[i] = row
	}
	return &Table{branch{nodes}}
}

func (*Table) IsBlock() bool         { return true }
func (*Table) CanContainBlock() bool { return true }
func (*Table) node()                 {}

// TableRow holds TableCell and TableHeaderCell children
type TableRow struct{ branch }

func NewTableRow(cells ...Node) *TableRow { return &TableRow{branch{cells}} }

func (*TableRow) IsBlock() bool         { return true }
func (*TableRow) CanContainBlock() bool { return true }
func (*TableRow) node()                 {}

type TableCell struct{ branch }

func NewTableCell(content Node) *TableCell { return &TableCell{branch{[]Node{content}}} }

func (*TableCell) IsBlock() bool         { return true }
func (*TableCell) CanContainBlock() bool { return true }
func (*TableCell) node()                 {}

type TableHeaderCell struct{ branch }

func NewTableHeaderCell(content Node) *TableHeaderCell {
	return &TableHeaderCell{branch{[]Node{content}}}
}

func (*TableHeaderCell) IsBlock() bool         { return true }
func (*TableHeaderCell) CanContainBlock() bool { return true }
func (*TableHeaderCell) node()                 {}

// Macro is a deferred macro invocation. Args is the raw argument text.
type Macro struct {
	leaf
	Name  string
	Args  string
	Block bool
}

func NewMacro(name, args string) *Macro { return &Macro{Name: name, Args: args} }

// ToBlock returns a copy of the macro standing as its own block
func (m *Macro) ToBlock() *Macro { return &Macro{Name: m.Name, Args: m.Args, Block: true} }

// Source returns the markup the macro was written as
func (m *Macro) Source() string { return "<<" + m.Name + " " + m.Args + ">>" }

func (m *Macro) IsBlock() bool       { return m.Block }
func (*Macro) CanContainBlock() bool { return false }
func (*Macro) node()                {}
