package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/links"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/macro"
)

// classAttr is carried by every element the renderer emits itself. Links
// and images get their markup from the handlers instead.
const classAttr = "class='wiki-content'"

// HTMLOptions are the collaborators of the HTML renderer. Any of them may
// be nil.
type HTMLOptions struct {
	LinkHandler  links.Handler
	ImageHandler links.Handler
	Macros       *macro.Registry
	Highlighter  Highlighter
	// SanitizeRaw passes raw HTML through a user-content policy
	SanitizeRaw bool
	Logger      *logger.Logger
}

// HTML renders trees to HTML fragments. It holds no per-render state and
// is safe for concurrent use if its collaborators are.
type HTML struct {
	opts   HTMLOptions
	policy *bluemonday.Policy
	log    *logger.Logger
}

func NewHTML(opts HTMLOptions) *HTML {
	r := &HTML{opts: opts, log: opts.Logger}
	if r.log == nil {
		r.log = logger.Discard()
	}
	if opts.SanitizeRaw {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

var inert = NewHTML(HTMLOptions{})

// InnerHTML renders a subtree with no collaborators: links fall back to
// their text and macros to their source.
func InnerHTML(n ast.Node) string {
	return inert.Render(Context{}, n)
}

func (r *HTML) ContentType() string {
	return ContentTypeHTML
}

func (r *HTML) Render(ctx Context, n ast.Node) string {
	switch n := n.(type) {
	case *ast.Page, *ast.Inline:
		return r.children(ctx, n)
	case *ast.Paragraph:
		return r.tagged(ctx, "p", n)
	case *ast.Heading:
		return r.tagged(ctx, "h"+strconv.Itoa(n.Level), n)
	case *ast.Text:
		return r.text(n)
	case *ast.Bold:
		return r.tagged(ctx, "strong", n)
	case *ast.Italic:
		return r.tagged(ctx, "em", n)
	case *ast.Strikethrough:
		return r.tagged(ctx, "strike", n)
	case *ast.Linebreak:
		return r.tagged(ctx, "br", n)
	case *ast.HorizontalRule:
		return r.tagged(ctx, "hr", n)
	case *ast.Link:
		return r.link(ctx, n)
	case *ast.Image:
		return r.image(ctx, n)
	case *ast.Code:
		return "<pre " + classAttr + ">" + r.highlight(ctx, n.Text, n.Language) + "</pre>"
	case *ast.InlineCode:
		return "<code " + classAttr + ">" + r.highlight(ctx, n.Text, n.Language) + "</code>"
	case *ast.OrderedList:
		return r.tagged(ctx, "ol", n)
	case *ast.UnorderedList:
		return r.tagged(ctx, "ul", n)
	case *ast.ListItem:
		return r.tagged(ctx, "li", n)
	case *ast.Table:
		return r.tagged(ctx, "table", n)
	case *ast.TableRow:
		return r.tagged(ctx, "tr", n)
	case *ast.TableCell:
		return r.cell(ctx, "td", n)
	case *ast.TableHeaderCell:
		return r.cell(ctx, "th", n)
	case *ast.Macro:
		return r.macro(ctx, n)
	}
	return ""
}

func (r *HTML) children(ctx Context, n ast.Node) string {
	var b strings.Builder
	for _, child := range n.Children() {
		b.WriteString(r.Render(ctx, child))
	}
	return b.String()
}

func wrap(tag, inner string) string {
	if inner == "" {
		return "<" + tag + " " + classAttr + " />"
	}
	return "<" + tag + " " + classAttr + ">" + inner + "</" + tag + ">"
}

func (r *HTML) tagged(ctx Context, tag string, n ast.Node) string {
	return wrap(tag, r.children(ctx, n))
}

func (r *HTML) text(n *ast.Text) string {
	if n.Escaped {
		return html.EscapeString(n.Text)
	}
	if r.policy != nil {
		return r.policy.Sanitize(n.Text)
	}
	return n.Text
}

func (r *HTML) link(ctx Context, n *ast.Link) string {
	parts := links.Split(n.Target, n.Title)
	text := html.EscapeString(parts.Text)

	out, err := r.handle(ctx, r.opts.LinkHandler, text, parts)
	if err == nil {
		return out
	}
	r.log.LinkFallback(ctx.Page.Name, n.Target, err)

	// keep email links usable when nothing could resolve them
	if strings.HasPrefix(n.Target, "mailto:") {
		title := n.Title
		if title == "" {
			title = n.Target
		}
		return fmt.Sprintf("<a href='%s'>%s</a>", html.EscapeString(n.Target), html.EscapeString(title))
	}
	return text
}

func (r *HTML) image(ctx Context, n *ast.Image) string {
	parts := links.Split(n.Target, n.Title)
	text := html.EscapeString(parts.Text)

	out, err := r.handle(ctx, r.opts.ImageHandler, text, parts)
	if err != nil {
		r.log.LinkFallback(ctx.Page.Name, n.Target, err)
		return text
	}
	return out
}

func (r *HTML) handle(ctx Context, h links.Handler, text string, parts links.Parts) (string, error) {
	if h == nil {
		return "", fmt.Errorf("no handler for %q", parts.Text)
	}
	return safely(func() (string, error) {
		return h.Handle(ctx.Page, text, parts, links.OrIdentity(ctx.Filter))
	})
}

// highlight is best effort: any failure falls back to escaped text
func (r *HTML) highlight(ctx Context, code string, lang ast.Language) string {
	if lang == ast.NoLanguage || r.opts.Highlighter == nil {
		return html.EscapeString(code)
	}
	out, err := safely(func() (string, error) {
		return r.opts.Highlighter.Highlight(code, lang)
	})
	if err != nil {
		r.log.HighlightFallback(ctx.Page.Name, lang.String(), err)
		out = html.EscapeString(code)
	}
	out = strings.ReplaceAll(out, "&nbsp;", " ")
	return strings.ReplaceAll(out, "<br />", "\n")
}

func (r *HTML) cell(ctx Context, tag string, n ast.Node) string {
	if !ctx.enabled(TableAlignment) {
		return r.tagged(ctx, tag, n)
	}
	args, align, err := alignment(ctx.Directives)
	if err != nil {
		r.log.DirectiveError(TableAlignment, args, err)
		return r.tagged(ctx, tag, n)
	}
	return fmt.Sprintf("<%s %s style='vertical-align:%s'>%s</%s>", tag, classAttr, align, r.children(ctx, n), tag)
}

func (r *HTML) macro(ctx Context, n *ast.Macro) string {
	tag := "code"
	if n.Block {
		tag = "pre"
	}

	m, ok := r.opts.Macros.Lookup(n.Name)
	if !ok {
		return "<" + tag + " " + classAttr + ">" + html.EscapeString(n.Source()) + "</" + tag + ">"
	}

	out, err := expand(ctx, m, n)
	if err != nil {
		r.log.MacroFailed(ctx.Page.Name, n.Name, err)
		return html.EscapeString(MacroFailure)
	}

	if m.ResultFormat() == macro.Preformatted {
		return "<" + tag + " " + classAttr + ">" + html.EscapeString(out) + "</" + tag + ">"
	}
	if ctx.Markup == nil {
		return html.EscapeString(out)
	}
	return r.Render(ctx.nested(), reparse(ctx, n, out))
}

// expand runs a macro, refusing once expansion has nested too deeply
func expand(ctx Context, m macro.Macro, n *ast.Macro) (string, error) {
	if ctx.depth >= MaxMacroDepth {
		return "", fmt.Errorf("macro expansion nested deeper than %d", MaxMacroDepth)
	}
	return safely(func() (string, error) {
		return m.Handle(ctx.Page, n.Args)
	})
}

// reparse builds wiki macro output. Output of an inline macro that is a
// single paragraph is unwrapped to its inline content.
func reparse(ctx Context, n *ast.Macro, out string) ast.Node {
	doc := ctx.Markup.Build(ctx.Page, out)
	if !n.Block {
		if blocks := doc.Children(); len(blocks) == 1 {
			if p, ok := blocks[0].(*ast.Paragraph); ok {
				return p.Inline()
			}
		}
	}
	return doc
}
