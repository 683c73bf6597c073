package builder

import (
	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/creole/parser"
)

func (v *visitor) block(n *parser.Node) ast.Node {
	switch n.Kind {
	case parser.KindHeading:
		if len(n.Children) == 0 {
			return ast.Plaintext(n.Prefix)
		}
		return ast.NewHeading(len(n.Prefix), v.inline(n.Children[0]))
	case parser.KindParagraph:
		return ast.NewParagraph(v.inline(n.Children[0]))
	case parser.KindHRule:
		return &ast.HorizontalRule{}
	case parser.KindNoWiki, parser.KindCode:
		return ast.NewCode(n.Text, n.Lang)
	case parser.KindHTML:
		return ast.Raw(n.Text)
	case parser.KindOrderedList, parser.KindUnorderedList:
		return v.list(n)
	case parser.KindTable:
		return v.table(n)
	}
	return ast.Plaintext(n.Text)
}

// list builds one level of a list; nested lists recurse a level down
func (v *visitor) list(n *parser.Node) ast.Node {
	items := make([]*ast.ListItem, 0, len(n.Children))
	for _, item := range n.Children {
		var nested []ast.Node
		for _, child := range item.Children[1:] {
			nested = append(nested, v.list(child))
		}
		items = append(items, ast.NewListItem(v.inline(item.Children[0]), nested...))
	}
	if n.Kind == parser.KindOrderedList {
		return ast.NewOrderedList(items...)
	}
	return ast.NewUnorderedList(items...)
}

func (v *visitor) table(n *parser.Node) ast.Node {
	rows := make([]*ast.TableRow, 0, len(n.Children))
	for _, row := range n.Children {
		cells := make([]ast.Node, 0, len(row.Children))
		for _, cell := range row.Children {
			// empty cells keep their place with empty text
			var content ast.Node = ast.Plaintext("")
			if len(cell.Children) > 0 {
				content = v.inline(cell.Children[0])
			}
			if cell.Kind == parser.KindHeaderCell {
				cells = append(cells, ast.NewTableHeaderCell(content))
			} else {
				cells = append(cells, ast.NewTableCell(content))
			}
		}
		rows = append(rows, ast.NewTableRow(cells...))
	}
	return ast.NewTable(rows...)
}

func (v *visitor) inline(n *parser.Node) *ast.Inline {
	var chunks []ast.Node
	for _, child := range n.Children {
		for _, chunk := range v.chunk(child) {
			chunks = appendChunk(chunks, chunk)
		}
	}
	return ast.NewInline(chunks...)
}

var delimiters = map[parser.Kind]string{
	parser.KindBold:   "**",
	parser.KindItalic: "//",
	parser.KindStrike: "--",
}

// chunk builds one inline production. Unclosed formatting yields its
// delimiter as text followed by its content.
func (v *visitor) chunk(n *parser.Node) []ast.Node {
	switch n.Kind {
	case parser.KindText:
		return one(ast.Plaintext(n.Text))
	case parser.KindBold, parser.KindItalic, parser.KindStrike:
		content := v.inline(n.Children[0])
		if !n.Closed {
			return append([]ast.Node{ast.Plaintext(delimiters[n.Kind])}, content.Children()...)
		}
		switch n.Kind {
		case parser.KindBold:
			return one(ast.NewBold(content))
		case parser.KindItalic:
			return one(ast.NewItalic(content))
		}
		return one(ast.NewStrikethrough(content))
	case parser.KindLinebreak:
		return one(&ast.Linebreak{})
	case parser.KindLink, parser.KindImage:
		title := n.Title
		if !n.HasTitle {
			title = n.Target
		}
		if n.Kind == parser.KindImage {
			return one(ast.NewImage(n.Target, title))
		}
		return one(ast.NewLink(n.Target, title))
	case parser.KindWikiWord, parser.KindRawLink:
		return one(ast.NewLink(n.Text, n.Text))
	case parser.KindAttachment:
		if v.hasAttachment(n.Text) {
			return one(ast.NewLink(n.Text, n.Text))
		}
		return one(ast.Plaintext(n.Text))
	case parser.KindInlineNoWiki, parser.KindInlineCode:
		return one(ast.NewInlineCode(n.Text, n.Lang))
	case parser.KindInlineHTML:
		return one(ast.Raw(n.Text))
	case parser.KindMacro:
		return one(ast.NewMacro(n.Text, n.Args))
	case parser.KindMacroNoArgs:
		// without arguments it is not an invocation
		return one(ast.Plaintext("<<" + n.Text + ">>"))
	}
	return one(ast.Plaintext(n.Text))
}

func one(n ast.Node) []ast.Node {
	return []ast.Node{n}
}

// hasAttachment treats lookup errors as absence
func (v *visitor) hasAttachment(name string) bool {
	if v.attachments == nil {
		return false
	}
	ok, err := v.attachments.AttachmentExists(v.page.Reference, name)
	return err == nil && ok
}
