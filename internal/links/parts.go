package links

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gerunddev/creolewiki/internal/page"
)

// Parts is the parsed form of a link target
type Parts struct {
	// Text is what the link displays: the title, or the target without one
	Text       string
	URI        string
	Wiki       string
	Page       string
	Attachment string
	Fragment   string
	// Revision is page.HeadRevision unless the target pins one
	Revision int64
}

// IsURI reports whether the target is an absolute URI
func (p Parts) IsURI() bool { return p.URI != "" }

// IsInterWiki reports whether the target names another wiki
func (p Parts) IsInterWiki() bool { return p.Wiki != "" }

// IsAttachment reports whether the target is an attachment
func (p Parts) IsAttachment() bool { return p.Attachment != "" }

// Ref returns the page the target refers to, falling back to current
func (p Parts) Ref(current page.Reference) page.Reference {
	if p.Page == "" {
		return current
	}
	return page.Ref(p.Page)
}

var (
	uriRe        = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	wikiNameRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	attachmentRe = regexp.MustCompile(`^[^/\s]+\.[a-z0-9]+$`)
)

const revisionParam = "?revision="

// Split parses a link target of the form
//
//	scheme://... | mailto:... | [wiki:]page[/attachment][#fragment][?revision=N]
//
// A bare "name.ext" target is an attachment on the current page.
func Split(target, title string) Parts {
	parts := Parts{Text: title, Revision: page.HeadRevision}
	if parts.Text == "" {
		parts.Text = target
	}

	if uriRe.MatchString(target) || strings.HasPrefix(target, "mailto:") {
		parts.URI = target
		return parts
	}

	rest := target
	if i := strings.LastIndex(rest, revisionParam); i >= 0 {
		if rev, err := strconv.ParseInt(rest[i+len(revisionParam):], 10, 64); err == nil {
			parts.Revision = rev
			rest = rest[:i]
		}
	}
	rest, parts.Fragment, _ = strings.Cut(rest, "#")

	if name, after, ok := strings.Cut(rest, ":"); ok && wikiNameRe.MatchString(name) {
		parts.Wiki = name
		rest = after
	}

	switch {
	case strings.Contains(rest, "/"):
		parts.Page, parts.Attachment, _ = strings.Cut(rest, "/")
	case parts.Wiki == "" && attachmentRe.MatchString(rest):
		parts.Attachment = rest
	default:
		parts.Page = rest
	}
	return parts
}
