package render

import (
	"regexp"
	"strings"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/links"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/macro"
)

// MarkdownOptions are the collaborators of the Markdown renderer
type MarkdownOptions struct {
	Macros *macro.Registry
	Logger *logger.Logger
}

// Markdown renders trees to Obsidian-flavoured Markdown: wiki links stay
// [[links]], external links become inline links and code keeps its
// language on the fence.
type Markdown struct {
	macros *macro.Registry
	log    *logger.Logger
}

func NewMarkdown(opts MarkdownOptions) *Markdown {
	r := &Markdown{macros: opts.Macros, log: opts.Logger}
	if r.log == nil {
		r.log = logger.Discard()
	}
	return r
}

func (r *Markdown) ContentType() string {
	return ContentTypeMarkdown
}

func (r *Markdown) Render(ctx Context, n ast.Node) string {
	if p, ok := n.(*ast.Page); ok {
		out := strings.TrimSpace(r.blocks(ctx, p))
		if out == "" {
			return ""
		}
		return out + "\n"
	}
	return r.node(ctx, n, 0)
}

func (r *Markdown) blocks(ctx Context, n ast.Node) string {
	parts := make([]string, 0, len(n.Children()))
	for _, child := range n.Children() {
		if s := r.node(ctx, child, 0); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r *Markdown) inline(ctx Context, n ast.Node) string {
	var b strings.Builder
	for _, child := range n.Children() {
		b.WriteString(r.node(ctx, child, 0))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"~", `\~`,
	"#", `\#`,
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// a line starting with "1." would become an ordered list item
var orderedMarkerRe = regexp.MustCompile(`(?m)^(\s*\d+)\.`)

func escapeMarkdown(s string) string {
	return orderedMarkerRe.ReplaceAllString(markdownEscaper.Replace(s), `${1}\.`)
}

var fenceLanguages = map[ast.Language]string{
	ast.CPlusPlus: "cpp",
	ast.Java:      "java",
	ast.XHTML:     "html",
	ast.XML:       "xml",
}

// node renders n; indent is the list nesting depth
func (r *Markdown) node(ctx Context, n ast.Node, indent int) string {
	switch n := n.(type) {
	case *ast.Page:
		return r.blocks(ctx, n)
	case *ast.Inline, *ast.Paragraph:
		return r.inline(ctx, n)
	case *ast.Heading:
		return strings.Repeat("#", n.Level) + " " + r.inline(ctx, n)
	case *ast.Text:
		if n.Escaped {
			return escapeMarkdown(n.Text)
		}
		return n.Text
	case *ast.Bold:
		return "**" + r.inline(ctx, n) + "**"
	case *ast.Italic:
		return "*" + r.inline(ctx, n) + "*"
	case *ast.Strikethrough:
		return "~~" + r.inline(ctx, n) + "~~"
	case *ast.Linebreak:
		return "<br>"
	case *ast.HorizontalRule:
		return "---"
	case *ast.Link:
		return mdLink(n.Target, n.Title, "")
	case *ast.Image:
		return mdLink(n.Target, n.Title, "!")
	case *ast.Code:
		return fence(n.Text, fenceLanguages[n.Language])
	case *ast.InlineCode:
		return codeSpan(n.Text)
	case *ast.OrderedList, *ast.UnorderedList:
		return r.list(ctx, n, indent)
	case *ast.ListItem:
		return r.item(ctx, n, "- ", indent)
	case *ast.Table:
		return r.table(ctx, n)
	case *ast.TableRow, *ast.TableCell, *ast.TableHeaderCell:
		return r.inline(ctx, n)
	case *ast.Macro:
		return r.macro(ctx, n)
	}
	return ""
}

func mdLink(target, title, bang string) string {
	parts := links.Split(target, title)
	if parts.IsURI() {
		return bang + "[" + markdownEscaper.Replace(parts.Text) + "](" + parts.URI + ")"
	}
	if title == "" || title == target {
		return bang + "[[" + target + "]]"
	}
	return bang + "[[" + target + "|" + title + "]]"
}

func fence(text, lang string) string {
	marker := "```"
	for strings.Contains(text, marker) {
		marker += "`"
	}
	return marker + lang + "\n" + text + "\n" + marker
}

func codeSpan(text string) string {
	if strings.Contains(text, "`") {
		return "`` " + text + " ``"
	}
	return "`" + text + "`"
}

func (r *Markdown) list(ctx Context, n ast.Node, indent int) string {
	_, ordered := n.(*ast.OrderedList)
	lines := make([]string, 0, len(n.Children()))
	for _, child := range n.Children() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if ordered {
			marker = "1. "
		}
		lines = append(lines, r.item(ctx, item, marker, indent))
	}
	return strings.Join(lines, "\n")
}

func (r *Markdown) item(ctx Context, n *ast.ListItem, marker string, indent int) string {
	pad := strings.Repeat("  ", indent)
	var b strings.Builder
	for i, child := range n.Children() {
		if i == 0 {
			text := r.node(ctx, child, indent)
			b.WriteString(pad + marker + strings.ReplaceAll(text, "\n", "\n"+pad+"  "))
			continue
		}
		b.WriteString("\n" + r.node(ctx, child, indent+1))
	}
	return b.String()
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", "<br>")

func (r *Markdown) table(ctx Context, n *ast.Table) string {
	var rows [][]string
	width := 0
	for _, row := range n.Children() {
		var cells []string
		for _, cell := range row.Children() {
			cells = append(cells, cellEscaper.Replace(strings.TrimSpace(r.inline(ctx, cell))))
		}
		width = max(width, len(cells))
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	line := func(cells []string) string {
		for len(cells) < width {
			cells = append(cells, "")
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}

	// pipe tables need a header row; the first row serves as one
	out := []string{line(rows[0]), line(repeat("---", width))}
	for _, row := range rows[1:] {
		out = append(out, line(row))
	}
	return strings.Join(out, "\n")
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func (r *Markdown) macro(ctx Context, n *ast.Macro) string {
	m, ok := r.macros.Lookup(n.Name)
	if !ok {
		if n.Block {
			return fence(n.Source(), "")
		}
		return codeSpan(n.Source())
	}

	out, err := expand(ctx, m, n)
	if err != nil {
		r.log.MacroFailed(ctx.Page.Name, n.Name, err)
		return markdownEscaper.Replace(MacroFailure)
	}

	if m.ResultFormat() == macro.Preformatted {
		if n.Block {
			return fence(out, "")
		}
		return codeSpan(out)
	}
	if ctx.Markup == nil {
		return markdownEscaper.Replace(out)
	}
	return r.node(ctx.nested(), reparse(ctx, n, out), 0)
}
