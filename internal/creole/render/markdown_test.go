package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/page"
)

func TestMarkdown(t *testing.T) {
	text := func(s string) *ast.Inline { return ast.NewInline(ast.Plaintext(s)) }

	doc := ast.NewPage(
		ast.NewHeading(2, text("Intro")),
		para(
			ast.Plaintext("see "),
			ast.NewLink("FrontPage", "home"),
			ast.Plaintext(", "),
			ast.NewLink("http://example.com", "example"),
			ast.Plaintext(" and "),
			ast.NewBold(text("bold_text")),
			&ast.Linebreak{},
			ast.NewItalic(text("it")),
		),
		ast.NewCode("int x;", ast.Java),
		ast.NewUnorderedList(
			ast.NewListItem(text("a"), ast.NewOrderedList(ast.NewListItem(text("b")))),
			ast.NewListItem(text("c")),
		),
		ast.NewTable(
			ast.NewTableRow(ast.NewTableHeaderCell(text("k")), ast.NewTableHeaderCell(text("v"))),
			ast.NewTableRow(ast.NewTableCell(text("a|b")), ast.NewTableCell(text(""))),
		),
		&ast.HorizontalRule{},
		ast.NewMacro("nope", "x").ToBlock(),
	)

	want := "## Intro\n\n" +
		"see [[FrontPage|home]], [example](http://example.com) and **bold\\_text**<br>*it*\n\n" +
		"```java\nint x;\n```\n\n" +
		"- a\n  1. b\n- c\n\n" +
		"| k | v |\n| --- | --- |\n| a\\|b |  |\n\n" +
		"---\n\n" +
		"```\n<<nope x>>\n```\n"

	got := NewMarkdown(MarkdownOptions{}).Render(Context{}, doc)
	assert.Equal(t, want, got)
}

func TestMarkdownMacros(t *testing.T) {
	r := NewMarkdown(MarkdownOptions{Macros: testMacros()})
	ctx := Context{Page: page.Info{Reference: page.Ref("Home")}, Markup: boldMarkup()}

	assert.Equal(t, "`x`", r.Render(ctx, ast.NewMacro("echo", "x")))
	assert.Equal(t, "**hi**", r.Render(ctx, ast.NewMacro("shout", "hi")))
	assert.Equal(t, `\[macro failed\]`, r.Render(ctx, ast.NewMacro("boom", "x")))
	assert.Equal(t, "`<<nope x>>`", r.Render(ctx, ast.NewMacro("nope", "x")))
}

func TestMarkdownImages(t *testing.T) {
	r := NewMarkdown(MarkdownOptions{})
	assert.Equal(t, "![[logo.png]]", r.Render(Context{}, ast.NewImage("logo.png", "")))
	assert.Equal(t, "![Logo](http://example.com/l.png)", r.Render(Context{}, ast.NewImage("http://example.com/l.png", "Logo")))
	assert.Equal(t, "", r.Render(Context{}, ast.NewPage()))
}

func TestMarkdownEscapesText(t *testing.T) {
	r := NewMarkdown(MarkdownOptions{})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"html tags", "a <b>x</b>", "a &lt;b&gt;x&lt;/b&gt;"},
		{"entity", "&nbsp;", "&amp;nbsp;"},
		{"heading marker", "# not a heading", `\# not a heading`},
		{"ordered marker", "1. not a list\n22. nor this", `1\. not a list` + "\n" + `22\. nor this`},
		{"number mid line", "version 1.2", "version 1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(Context{}, ast.NewInline(ast.Plaintext(tt.text)))
			assert.Equal(t, tt.want, got)
		})
	}

	// raw text is left alone
	assert.Equal(t, "<b>x</b>", r.Render(Context{}, ast.NewInline(ast.Raw("<b>x</b>"))))
}
