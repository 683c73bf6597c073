package links

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/gerunddev/creolewiki/internal/page"
)

// Handler turns link parts into markup. escapedText is already HTML-escaped.
// Implementations must be safe for concurrent use.
type Handler interface {
	Handle(p page.Info, escapedText string, parts Parts, filter URLOutputFilter) (string, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(p page.Info, escapedText string, parts Parts, filter URLOutputFilter) (string, error)

func (f HandlerFunc) Handle(p page.Info, escapedText string, parts Parts, filter URLOutputFilter) (string, error) {
	return f(p, escapedText, parts, filter)
}

// CSS classes of resolved links
const (
	ClassExternal   = "external"
	ClassInterWiki  = "inter-wiki"
	ClassExisting   = "existing-page"
	ClassNew        = "new-page"
	ClassAttachment = "attachment"
)

// ErrImageTarget is returned for images that point at a page
var ErrImageTarget = errors.New("image target must be a URI or an attachment")

// Target is a resolved link destination
type Target struct {
	URL   string
	Class string
}

// Locate resolves parts relative to the page p
func (c *ResolutionContext) Locate(p page.Reference, parts Parts) (Target, error) {
	ctx := c.Derive(p)
	switch {
	case parts.IsURI():
		return Target{URL: parts.URI, Class: ClassExternal}, nil

	case parts.IsInterWiki():
		if ctx.interWiki == nil {
			return Target{}, fmt.Errorf("%w: %s", ErrUnknownWiki, parts.Wiki)
		}
		uri, err := ctx.interWiki.URI(parts.Wiki, parts.Page, parts.Fragment)
		if err != nil {
			return Target{}, err
		}
		return Target{URL: uri, Class: ClassInterWiki}, nil

	case parts.IsAttachment():
		uri, err := ctx.ResolveAttachment(parts.Page, parts.Attachment)
		if err != nil {
			return Target{}, err
		}
		return Target{URL: uri, Class: ClassAttachment}, nil
	}

	uri, err := ctx.Resolve("", parts.Page, parts.Revision)
	if err != nil {
		return Target{}, err
	}
	if parts.Fragment != "" {
		uri += "#" + parts.Fragment
	}

	class := ClassNew
	if exists, err := ctx.Exists(parts.Ref(p)); err == nil && exists {
		class = ClassExisting
	}
	return Target{URL: uri, Class: class}, nil
}

// LinkHandler renders anchors for links
type LinkHandler struct {
	Context *ResolutionContext
}

func (h *LinkHandler) Handle(p page.Info, escapedText string, parts Parts, filter URLOutputFilter) (string, error) {
	target, err := h.Context.Locate(p.Reference, parts)
	if err != nil {
		return "", err
	}
	href := html.EscapeString(OrIdentity(filter).FilterURL(target.URL))
	return fmt.Sprintf("<a class='%s' href='%s'>%s</a>", target.Class, href, escapedText), nil
}

// ImageHandler renders img tags for images
type ImageHandler struct {
	Context *ResolutionContext
}

func (h *ImageHandler) Handle(p page.Info, escapedText string, parts Parts, filter URLOutputFilter) (string, error) {
	if !parts.IsURI() && !parts.IsAttachment() {
		return "", ErrImageTarget
	}
	target, err := h.Context.Locate(p.Reference, parts)
	if err != nil {
		return "", err
	}
	src := html.EscapeString(OrIdentity(filter).FilterURL(target.URL))
	return fmt.Sprintf("<img class='%s' src='%s' alt='%s' />", target.Class, src, escapedText), nil
}
