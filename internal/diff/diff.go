// Package diff compares two renderings of wiki pages
package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/creolewiki/internal/creole"
	"github.com/gerunddev/creolewiki/internal/page"
)

// Format represents which rendering is compared
type Format int

const (
	// FormatHTML diffs the HTML renderings (default)
	FormatHTML Format = iota
	// FormatMarkdown diffs the Markdown renderings
	FormatMarkdown
	// FormatSource diffs the markup itself
	FormatSource
)

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "source", "creole":
		return FormatSource, nil
	}
	return FormatHTML, fmt.Errorf("unsupported diff format: %s", name)
}

// Side is one page of a comparison with the label it is shown under
type Side struct {
	Label string
	Page  page.Info
}

// Generate renders both sides and returns their unified diff, formatted
// for the terminal. An empty string means the renderings are equal.
func Generate(r *creole.Renderer, old, new Side, format Format) (string, error) {
	oldText, err := text(r, old.Page, format)
	if err != nil {
		return "", err
	}
	newText, err := text(r, new.Page, format)
	if err != nil {
		return "", err
	}

	unified := Unified(old.Label, new.Label, oldText, newText)
	if unified == "" {
		return "", nil
	}
	return Render(unified), nil
}

func text(r *creole.Renderer, p page.Info, format Format) (string, error) {
	switch format {
	case FormatHTML:
		return lines(r.Render(p, nil).Content), nil
	case FormatMarkdown:
		return r.RenderMarkdown(p).Content, nil
	case FormatSource:
		return p.Content, nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// Unified returns the unified diff of two texts, or "" when they are equal
func Unified(oldLabel, newLabel, oldText, newText string) string {
	edits := myers.ComputeEdits(span.URIFromPath(oldLabel), oldText, newText)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(oldLabel, newLabel, oldText, edits))
}

// Render wraps a unified diff in a diff code fence and renders it with
// Glamour. The plain fenced diff is returned if rendering fails.
func Render(unified string) string {
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown
	}

	return rendered
}

// lines puts every tag on its own line so that diffs of single-line HTML
// stay readable
func lines(html string) string {
	if html == "" {
		return ""
	}
	return strings.ReplaceAll(html, "><", ">\n<") + "\n"
}
