// Package render walks a built tree and produces output for one target
// format. Each target is a single exhaustive type switch over the ast node
// kinds. Collaborator failures are turned into fallback output where they
// happen; Render itself never fails.
package render

import (
	"errors"
	"fmt"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/links"
	"github.com/gerunddev/creolewiki/internal/page"
)

const (
	// MacroFailure is rendered in place of a macro that failed
	MacroFailure = "[macro failed]"
	// MaxMacroDepth bounds how deeply macro output may expand further macros
	MaxMacroDepth = 8
	// TableAlignment is the directive that sets vertical alignment of table cells
	TableAlignment = "table-alignment"
)

// Content types of the render targets
const (
	ContentTypeHTML     = "text/html; charset=utf-8"
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
)

// Renderer produces output in one target format
type Renderer interface {
	Render(ctx Context, n ast.Node) string
	ContentType() string
}

// Markup builds markup text into a tree. It lets macro output be parsed
// again while rendering.
type Markup interface {
	Build(p page.Info, text string) *ast.Page
}

// Highlighter renders code as highlighted HTML. The result must not carry
// its own pre element.
type Highlighter interface {
	Highlight(code string, lang ast.Language) (string, error)
}

// Directives are per-request presentation toggles
type Directives interface {
	Enabled(name string) bool
	Args(name string) ([]string, error)
}

// DirectiveSet is a map of enabled directives to their arguments
type DirectiveSet map[string][]string

func (d DirectiveSet) Enabled(name string) bool {
	_, ok := d[name]
	return ok
}

func (d DirectiveSet) Args(name string) ([]string, error) {
	args, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("directive %s is not enabled", name)
	}
	return args, nil
}

// Context is what a render pass knows about the page being rendered
type Context struct {
	Page       page.Info
	Filter     links.URLOutputFilter
	Directives Directives
	// Markup re-parses macro output. Without it, wiki macro output is
	// rendered as plain text.
	Markup Markup

	depth int
}

func (c Context) enabled(name string) bool {
	return c.Directives != nil && c.Directives.Enabled(name)
}

func (c Context) nested() Context {
	c.depth++
	return c
}

var errNoArgument = errors.New("missing argument")

var alignments = map[string]bool{
	"top":         true,
	"middle":      true,
	"bottom":      true,
	"baseline":    true,
	"text-top":    true,
	"text-bottom": true,
}

// alignment reads the table alignment directive
func alignment(d Directives) ([]string, string, error) {
	args, err := d.Args(TableAlignment)
	if err != nil {
		return nil, "", err
	}
	if len(args) == 0 {
		return args, "", errNoArgument
	}
	if !alignments[args[0]] {
		return args, "", fmt.Errorf("unknown alignment %q", args[0])
	}
	return args, args[0], nil
}

// safely runs a collaborator, turning a panic into an error
func safely(fn func() (string, error)) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
