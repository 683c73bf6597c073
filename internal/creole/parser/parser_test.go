package parser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain paragraph",
			input: "hello",
			want:  `(creole (paragraph (inline (text "hello"))))`,
		},
		{
			name:  "heading with trailing equals",
			input: "== Title ==\n",
			want:  `(creole (heading "==" (inline (text "Title"))))`,
		},
		{
			name:  "bare heading prefix",
			input: "==\n",
			want:  `(creole (heading "=="))`,
		},
		{
			name:  "six equals is not a heading",
			input: "====== x\n",
			want:  `(creole (paragraph (inline (text "====== x"))))`,
		},
		{
			name:  "unclosed bold",
			input: "**bold\n",
			want:  `(creole (paragraph (inline (bold unclosed (inline (text "bold"))))))`,
		},
		{
			name:  "closed bold",
			input: "**a** b\n",
			want:  `(creole (paragraph (inline (bold (inline (text "a"))) (text " b"))))`,
		},
		{
			name:  "italic closed by enclosing bold",
			input: "**a //b** c\n",
			want:  `(creole (paragraph (inline (bold (inline (text "a ") (italic unclosed (inline (text "b"))))) (text " c"))))`,
		},
		{
			name:  "colon slash slash is not italic",
			input: "a://b\n",
			want:  `(creole (paragraph (inline (text "a://b"))))`,
		},
		{
			name:  "strikethrough",
			input: "--gone--\n",
			want:  `(creole (paragraph (inline (strike (inline (text "gone"))))))`,
		},
		{
			name:  "inline nowiki then text",
			input: "{{{code}}}rest\n",
			want:  `(creole (paragraph (inline (preformat "code") (text "rest"))))`,
		},
		{
			name:  "nowiki closes on last three braces",
			input: "{{{if (a) {b}}}}\n",
			want:  `(creole (paragraph (inline (preformat "if (a) {b}"))))`,
		},
		{
			name:  "unterminated nowiki is text",
			input: "{{{open\n",
			want:  `(creole (paragraph (inline (text "{{{open"))))`,
		},
		{
			name:  "titled link",
			input: "see [[Foo|the foo]]\n",
			want:  `(creole (paragraph (inline (text "see ") (link "Foo" "the foo"))))`,
		},
		{
			name:  "image",
			input: "{{pic.png|A picture}}\n",
			want:  `(creole (paragraph (inline (image "pic.png" "A picture"))))`,
		},
		{
			name:  "macro without arguments",
			input: "<<foo>>\n",
			want:  `(creole (paragraph (inline (macro-noargs "foo"))))`,
		},
		{
			name:  "macro with arguments",
			input: "<<foo bar baz>>\n",
			want:  `(creole (paragraph (inline (macro "foo" "bar baz"))))`,
		},
		{
			name:  "macro with colon separator",
			input: "<<attr:status>>\n",
			want:  `(creole (paragraph (inline (macro "attr" "status"))))`,
		},
		{
			name:  "macro with blank arguments is text",
			input: "<<foo  >>\n",
			want:  `(creole (paragraph (inline (text "<<foo  >>"))))`,
		},
		{
			name:  "double angle text",
			input: "a << b\n",
			want:  `(creole (paragraph (inline (text "a << b"))))`,
		},
		{
			name:  "raw url drops trailing punctuation",
			input: "go to http://example.com/a.\n",
			want:  `(creole (paragraph (inline (text "go to ") (rawlink "http://example.com/a") (text "."))))`,
		},
		{
			name:  "wiki word",
			input: "See FrontPage now\n",
			want:  `(creole (paragraph (inline (text "See ") (wikiword "FrontPage") (text " now"))))`,
		},
		{
			name:  "interwiki word",
			input: "c2:WikiWikiWeb\n",
			want:  `(creole (paragraph (inline (wikiword "c2:WikiWikiWeb"))))`,
		},
		{
			name:  "attachment",
			input: "get Report2.pdf\n",
			want:  `(creole (paragraph (inline (text "get ") (attachment "Report2.pdf"))))`,
		},
		{
			name:  "escaped wiki word",
			input: "~FrontPage\n",
			want:  `(creole (paragraph (inline (text "F") (text "rontPage"))))`,
		},
		{
			name:  "linebreak",
			input: "a\\\\b\n",
			want:  `(creole (paragraph (inline (text "a") (linebreak) (text "b"))))`,
		},
		{
			name:  "horizontal rule",
			input: "----\n",
			want:  `(creole (hrule))`,
		},
		{
			name:  "nested unordered list",
			input: "* a\n** b\n* c\n",
			want:  `(creole (ulist (item 1 (inline (text "a")) (ulist (item 2 (inline (text "b"))))) (item 1 (inline (text "c")))))`,
		},
		{
			name:  "ordered list",
			input: "# one\n# two\n",
			want:  `(creole (olist (item 1 (inline (text "one"))) (item 1 (inline (text "two")))))`,
		},
		{
			name:  "mixed nested kinds",
			input: "* a\n*# b\n",
			want:  `(creole (ulist (item 1 (inline (text "a")) (olist (item 2 (inline (text "b")))))))`,
		},
		{
			name:  "list kind change ends the list",
			input: "* a\n# b\n",
			want:  `(creole (ulist (item 1 (inline (text "a")))) (olist (item 1 (inline (text "b")))))`,
		},
		{
			name:  "list item continuation",
			input: "* a\ncontinued\n",
			want:  `(creole (ulist (item 1 (inline (text "a\ncontinued")))))`,
		},
		{
			name:  "bold at paragraph start is not a list",
			input: "**bold** text\n",
			want:  `(creole (paragraph (inline (bold (inline (text "bold"))) (text " text"))))`,
		},
		{
			name:  "table with header and empty cell",
			input: "|=a|b|\n|c||\n",
			want:  `(creole (table (row (th (inline (text "a"))) (td (inline (text "b")))) (row (td (inline (text "c"))) (td))))`,
		},
		{
			name:  "table cell keeps link pipe",
			input: "|[[Foo|bar]]|x\n",
			want:  `(creole (table (row (td (inline (link "Foo" "bar"))) (td (inline (text "x"))))))`,
		},
		{
			name:  "nowiki block",
			input: "{{{\nline1\n**x**\n}}}\n",
			want:  `(creole (nowiki "line1\n**x**"))`,
		},
		{
			name:  "java block",
			input: "[<java>]\nint x;\n[</java>]\n",
			want:  `(creole (code java "int x;"))`,
		},
		{
			name:  "inline java",
			input: "use [<java>]int x;[</java>] here\n",
			want:  `(creole (paragraph (inline (text "use ") (inlinecode java "int x;") (text " here"))))`,
		},
		{
			name:  "html block",
			input: "[<html>]\n<b>hi</b>\n[</html>]\n",
			want:  `(creole (html "<b>hi</b>"))`,
		},
		{
			name:  "paragraph ends at heading",
			input: "text\n= H\n",
			want:  `(creole (paragraph (inline (text "text"))) (heading "=" (inline (text "H"))))`,
		},
		{
			name:  "blank line separates paragraphs",
			input: "a\nb\n\nc\n",
			want:  `(creole (paragraph (inline (text "a\nb"))) (paragraph (inline (text "c"))))`,
		},
		{
			name:  "crlf line endings",
			input: "a\r\nb",
			want:  `(creole (paragraph (inline (text "a\nb"))))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input).String()
			if got != tt.want {
				t.Errorf("Parse(%q)\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestListDepthLimit(t *testing.T) {
	var lines []string
	for depth := 1; depth <= 11; depth++ {
		lines = append(lines, strings.Repeat("*", depth)+" item")
	}
	root := Parse(strings.Join(lines, "\n"))

	if len(root.Children) != 1 {
		t.Fatalf("expected one list block, got %d", len(root.Children))
	}

	depth := 0
	list := root.Children[0]
	var last *Node
	for list != nil {
		depth++
		last = list.Children[len(list.Children)-1]
		list = nil
		if len(last.Children) > 1 {
			list = last.Children[len(last.Children)-1]
		}
	}
	if depth != 10 {
		t.Errorf("expected 10 nested lists, got %d", depth)
	}
	if last.Level != 10 {
		t.Errorf("expected deepest item at level 10, got %d", last.Level)
	}
	want := `(inline (text "* item"))`
	if got := last.Children[0].String(); got != want {
		t.Errorf("deepest item content = %s, want %s", got, want)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"\n", 1},
		{"  \t\nx", 4},
		{"x\n", 0},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.input); got != tt.want {
			t.Errorf("IsEmpty(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
