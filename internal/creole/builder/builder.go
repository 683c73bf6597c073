// Package builder rewrites a Creole parse tree into an ast tree.
//
// Besides the one-to-one mapping of productions to nodes, the builder
// merges adjacent text, degrades unclosed formatting to literal text,
// hoists inline code and macros at the edges of paragraphs out into blocks
// of their own and drops paragraphs that render as nothing.
package builder

import (
	"strings"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/creole/parser"
	"github.com/gerunddev/creolewiki/internal/creole/render"
	"github.com/gerunddev/creolewiki/internal/page"
)

// Builder turns markup into trees. It holds no per-build state and is safe
// for concurrent use if the attachment checker is.
type Builder struct {
	attachments page.AttachmentChecker
}

// New creates a builder. attachments may be nil, in which case no
// attachment reference becomes a link.
func New(attachments page.AttachmentChecker) *Builder {
	return &Builder{attachments: attachments}
}

// Build parses and builds text as the content of p
func (b *Builder) Build(p page.Info, text string) *ast.Page {
	return b.BuildTree(p, parser.Parse(text))
}

// BuildTree builds an already parsed tree
func (b *Builder) BuildTree(p page.Info, root *parser.Node) *ast.Page {
	v := &visitor{page: p, attachments: b.attachments}
	return v.creole(root)
}

type visitor struct {
	page        page.Info
	attachments page.AttachmentChecker
}

func (v *visitor) creole(root *parser.Node) *ast.Page {
	var blocks []ast.Node
	for _, child := range root.Children {
		n := v.block(child)
		if p, ok := n.(*ast.Paragraph); ok {
			blocks = append(blocks, hoist(p)...)
			continue
		}
		blocks = append(blocks, n)
	}

	var kept []ast.Node
	for _, block := range blocks {
		if p, ok := block.(*ast.Paragraph); ok && isBlank(p) {
			continue
		}
		kept = appendChunk(kept, block)
	}
	return ast.NewPage(kept...)
}

// isBlank reports whether a paragraph renders as whitespace only
func isBlank(p *ast.Paragraph) bool {
	return strings.TrimSpace(render.InnerHTML(p.Inline())) == ""
}

// hoist splits leading and trailing inline code and macros off a
// paragraph. The leading run is extracted directly. For the trailing run
// the residual paragraph is reversed, extracted the same way and the
// result reversed back, so both edges share one routine.
func hoist(p *ast.Paragraph) []ast.Node {
	head := expand(p, false)
	if len(head) == 0 {
		return head
	}
	last, ok := head[len(head)-1].(*ast.Paragraph)
	if !ok {
		return head
	}
	head = head[:len(head)-1]

	chunks := reversed(last.Inline().Children())
	tail := expand(ast.NewParagraph(ast.NewInline(chunks...)), true)
	return append(head, reversed(tail)...)
}

// expand extracts the leading hoistable chunks of p as blocks, followed
// by a paragraph of whatever is left. Whitespace between hoisted chunks is
// dropped. When the chunks of p are in reverse order, the residual
// paragraph is put back in document order.
func expand(p *ast.Paragraph, isReversed bool) []ast.Node {
	chunks := p.Inline().Children()
	var blocks []ast.Node

	i := 0
scan:
	for i < len(chunks) {
		j := i
		for j < len(chunks) && isWhitespace(chunks[j]) {
			j++
		}
		if j == len(chunks) {
			break
		}
		switch c := chunks[j].(type) {
		case *ast.InlineCode:
			blocks = append(blocks, c.ToBlock())
		case *ast.Macro:
			blocks = append(blocks, c.ToBlock())
		default:
			break scan
		}
		i = j + 1
	}

	if i == 0 && !isReversed {
		return []ast.Node{p}
	}
	rest := chunks[i:]
	if len(rest) == 0 {
		return blocks
	}
	if isReversed {
		rest = reversed(rest)
	}
	return append(blocks, ast.NewParagraph(ast.NewInline(rest...)))
}

func isWhitespace(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	return ok && t.Escaped && strings.TrimSpace(t.Text) == ""
}

func reversed(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}

// appendChunk appends n, merging it into a preceding escaped text node
func appendChunk(nodes []ast.Node, n ast.Node) []ast.Node {
	if len(nodes) > 0 {
		prev, ok := nodes[len(nodes)-1].(*ast.Text)
		next, ok2 := n.(*ast.Text)
		if ok && ok2 && prev.Escaped && next.Escaped {
			nodes[len(nodes)-1] = ast.Plaintext(prev.Text + next.Text)
			return nodes
		}
	}
	return append(nodes, n)
}
