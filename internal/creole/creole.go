// Package creole renders wiki pages. It wires the parser, builder and
// renderers to a page store, the link resolvers and the macro registry.
package creole

import (
	"fmt"
	"time"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
	"github.com/gerunddev/creolewiki/internal/creole/builder"
	"github.com/gerunddev/creolewiki/internal/creole/render"
	"github.com/gerunddev/creolewiki/internal/highlight"
	"github.com/gerunddev/creolewiki/internal/links"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/macro"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/store"
)

// Options configure a Renderer
type Options struct {
	// Store supplies pages, existence checks and attachments. Nil means an
	// empty in-memory store.
	Store page.Store
	// BaseURL is the root that internal page URLs are built under
	BaseURL  string
	WikiName string
	// InterWiki maps wiki names to URL formats holding one %s
	InterWiki map[string]string
	// Macros are registered after the built-ins and replace those with the
	// same name
	Macros         []macro.Macro
	HighlightStyle string
	// Directives apply to every page unless the page sets them itself
	Directives  map[string][]string
	SanitizeRaw bool
	Logger      *logger.Logger
}

// RenderedPage is the output of rendering a single page
type RenderedPage struct {
	Name        string
	Content     string
	ContentType string
}

// Renderer renders pages of one wiki. It is safe for concurrent use.
type Renderer struct {
	store      page.Store
	resolution *links.ResolutionContext
	builder    *builder.Builder
	macros     *macro.Registry
	html       *render.HTML
	markdown   *render.Markdown
	directives map[string][]string
	log        *logger.Logger
}

func New(opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}

	internal := &links.InternalLinker{Base: opts.BaseURL, Wiki: opts.WikiName}
	interWiki := links.NewInterWikiLinker(opts.InterWiki)
	resolution := links.NewResolutionContext(internal, interWiki, links.NewConfiguration(internal, interWiki), st)

	macros := macro.NewRegistry(append(macro.Builtins(st), opts.Macros...)...)

	return &Renderer{
		store:      st,
		resolution: resolution,
		builder:    builder.New(st),
		macros:     macros,
		html: render.NewHTML(render.HTMLOptions{
			LinkHandler:  &links.LinkHandler{Context: resolution},
			ImageHandler: &links.ImageHandler{Context: resolution},
			Macros:       macros,
			Highlighter:  highlight.New(opts.HighlightStyle),
			SanitizeRaw:  opts.SanitizeRaw,
			Logger:       log,
		}),
		markdown: render.NewMarkdown(render.MarkdownOptions{
			Macros: macros,
			Logger: log,
		}),
		directives: opts.Directives,
		log:        log,
	}
}

// Build builds text as the content of p. It lets wiki macro output be
// parsed again while rendering.
func (r *Renderer) Build(p page.Info, text string) *ast.Page {
	return r.builder.Build(p, text)
}

// Parse builds the tree of a page's content
func (r *Renderer) Parse(p page.Info) *ast.Page {
	return r.Build(p, p.Content)
}

// Render renders a page to HTML. filter may be nil.
func (r *Renderer) Render(p page.Info, filter links.URLOutputFilter) RenderedPage {
	return r.renderWith(r.html, p, filter)
}

// RenderMarkdown renders a page to Markdown
func (r *Renderer) RenderMarkdown(p page.Info) RenderedPage {
	return r.renderWith(r.markdown, p, nil)
}

func (r *Renderer) renderWith(target render.Renderer, p page.Info, filter links.URLOutputFilter) RenderedPage {
	start := time.Now()
	ctx := render.Context{
		Page:       p,
		Filter:     links.OrIdentity(filter),
		Directives: r.pageDirectives(p),
		Markup:     r,
	}
	content := target.Render(ctx, r.Parse(p))
	r.log.PageRendered(p.Name, target.ContentType(), time.Since(start))

	return RenderedPage{
		Name:        p.Name,
		Content:     content,
		ContentType: target.ContentType(),
	}
}

// RenderPage fetches a page from the store and renders it to HTML
func (r *Renderer) RenderPage(ref page.Reference, revision int64, filter links.URLOutputFilter) (RenderedPage, error) {
	p, err := r.store.Get(ref, revision)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("failed to get page %s: %w", ref.Name, err)
	}
	return r.Render(p, filter), nil
}

// pageDirectives overlays the page's own directives on the defaults
func (r *Renderer) pageDirectives(p page.Info) render.DirectiveSet {
	set := make(render.DirectiveSet, len(r.directives)+len(p.Directives))
	for name, args := range r.directives {
		set[name] = args
	}
	for name, args := range p.Directives {
		set[name] = args
	}
	return set
}

// ResolvedLink is a link of a page together with where it points
type ResolvedLink struct {
	Target string
	Title  string
	URL    string
	Class  string
	Err    error
}

// Links lists the links of a page in document order with their
// resolution. Links that fail to resolve carry the error.
func (r *Renderer) Links(p page.Info) []ResolvedLink {
	var resolved []ResolvedLink
	for _, l := range ast.Links(r.Parse(p)) {
		target, err := r.resolution.Locate(p.Reference, links.Split(l.Target, l.Title))
		resolved = append(resolved, ResolvedLink{
			Target: l.Target,
			Title:  l.Title,
			URL:    target.URL,
			Class:  target.Class,
			Err:    err,
		})
	}
	return resolved
}

// Macros returns the registered macros
func (r *Renderer) Macros() *macro.Registry {
	return r.macros
}

// Resolution returns the context links are resolved in
func (r *Renderer) Resolution() *links.ResolutionContext {
	return r.resolution
}

// Store returns the page store the renderer reads from
func (r *Renderer) Store() page.Store {
	return r.store
}
