// Package highlight renders code blocks as syntax-highlighted HTML
package highlight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
)

// DefaultStyle is used when no style is configured
const DefaultStyle = "monokai"

// ErrUnsupportedLanguage is returned for languages with no lexer
var ErrUnsupportedLanguage = errors.New("unsupported language")

var lexerNames = map[ast.Language]string{
	ast.CPlusPlus: "cpp",
	ast.Java:      "java",
	ast.XHTML:     "html",
	ast.XML:       "xml",
}

// Highlighter turns code into HTML spans with inline styles. The output
// has no surrounding pre element; the caller supplies the wrapper.
// Safe for concurrent use.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a highlighter using the named chroma style
func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight renders code in the given language
func (h *Highlighter) Highlight(code string, lang ast.Language) (string, error) {
	name, ok := lexerNames[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang.String())
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang.String())
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s: %w", lang, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("failed to format %s: %w", lang, err)
	}
	return buf.String(), nil
}
