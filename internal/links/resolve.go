package links

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gerunddev/creolewiki/internal/page"
)

var (
	// ErrUnknownWiki is returned when an interwiki name is not configured
	ErrUnknownWiki = errors.New("unknown wiki")
	// ErrNoPage is returned when a link names no page and the context has none bound
	ErrNoPage = errors.New("no context page to resolve against")
)

// InternalLinker builds URLs for pages of this wiki. Query, if set, is
// added to every page URL.
type InternalLinker struct {
	Base  string
	Wiki  string
	Query string
}

func (l *InternalLinker) prefix() string {
	base := strings.TrimSuffix(l.Base, "/") + "/pages/"
	if l.Wiki != "" {
		base += url.PathEscape(l.Wiki) + "/"
	}
	return base
}

// URI returns the URL of a page
func (l *InternalLinker) URI(ref page.Reference) string {
	uri := l.prefix() + url.PathEscape(ref.Name)
	if l.Query != "" {
		uri += "?" + l.Query
	}
	return uri
}

// AttachmentURI returns the URL of an attachment on a page
func (l *InternalLinker) AttachmentURI(ref page.Reference, name string) string {
	return l.prefix() + url.PathEscape(ref.Name) + "/attachments/" + url.PathEscape(name)
}

// InterWikiLinker resolves pages of other wikis from URL formats. Each
// format holds one %s for the page name.
type InterWikiLinker struct {
	wikis map[string]string
}

// NewInterWikiLinker copies the wiki name to URL format map
func NewInterWikiLinker(wikis map[string]string) *InterWikiLinker {
	l := &InterWikiLinker{wikis: make(map[string]string, len(wikis))}
	for name, format := range wikis {
		l.wikis[name] = format
	}
	return l
}

// URI returns the URL of a page on another wiki
func (l *InterWikiLinker) URI(wiki, pageName, fragment string) (string, error) {
	format, ok := l.wikis[wiki]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownWiki, wiki)
	}
	uri := strings.Replace(format, "%s", url.QueryEscape(pageName), 1)
	if fragment != "" {
		uri += "#" + url.PathEscape(fragment)
	}
	return uri, nil
}

// Wikis returns the configured wiki names in sorted order
func (l *InterWikiLinker) Wikis() []string {
	names := make([]string, 0, len(l.wikis))
	for name := range l.wikis {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configuration owns the linkers of a wiki
type Configuration struct {
	internal  *InternalLinker
	interWiki *InterWikiLinker
}

func NewConfiguration(internal *InternalLinker, interWiki *InterWikiLinker) *Configuration {
	return &Configuration{internal: internal, interWiki: interWiki}
}

func (c *Configuration) InternalLinker() *InternalLinker   { return c.internal }
func (c *Configuration) InterWikiLinker() *InterWikiLinker { return c.interWiki }

// ResolutionContext resolves link targets relative to a bound page. It is
// immutable: Derive returns a new context.
type ResolutionContext struct {
	internal  *InternalLinker
	interWiki *InterWikiLinker
	config    *Configuration
	store     page.Store
	page      page.Reference
}

// NewResolutionContext creates a context with no bound page. An interwiki
// linker may only be given together with the configuration that owns it;
// anything else is a programming error and panics.
func NewResolutionContext(internal *InternalLinker, interWiki *InterWikiLinker, cfg *Configuration, store page.Store) *ResolutionContext {
	if interWiki != nil && (cfg == nil || cfg.InterWikiLinker() != interWiki) {
		panic("links: interwiki linker must match the configuration's interwiki linker")
	}
	return &ResolutionContext{
		internal:  internal,
		interWiki: interWiki,
		config:    cfg,
		store:     store,
	}
}

// Page returns the bound page, if any
func (c *ResolutionContext) Page() (page.Reference, bool) {
	return c.page, !c.page.IsZero()
}

// Configuration returns the configuration the context was built with
func (c *ResolutionContext) Configuration() *Configuration {
	return c.config
}

// Derive returns a copy of the context bound to ref
func (c *ResolutionContext) Derive(ref page.Reference) *ResolutionContext {
	derived := *c
	derived.page = ref
	return &derived
}

// Resolve returns the URL of a page. A non-empty wiki is resolved by the
// interwiki linker. Otherwise an empty pageName means the bound page, and
// a revision >= 0 is added to the query.
func (c *ResolutionContext) Resolve(wiki, pageName string, revision int64) (string, error) {
	if wiki != "" {
		if c.interWiki == nil {
			return "", fmt.Errorf("%w: %s", ErrUnknownWiki, wiki)
		}
		return c.interWiki.URI(wiki, pageName, "")
	}

	ref, err := c.ref(pageName)
	if err != nil {
		return "", err
	}
	target := c.internal.URI(ref)
	if revision < 0 {
		return target, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("failed to parse page url: %w", err)
	}
	if u.RawQuery != "" {
		u.RawQuery += "&"
	}
	u.RawQuery += "revision=" + strconv.FormatInt(revision, 10)
	return u.String(), nil
}

// ResolveAttachment returns the URL of an attachment. An empty pageName
// means the bound page.
func (c *ResolutionContext) ResolveAttachment(pageName, name string) (string, error) {
	ref, err := c.ref(pageName)
	if err != nil {
		return "", err
	}
	return c.internal.AttachmentURI(ref, name), nil
}

func (c *ResolutionContext) ref(pageName string) (page.Reference, error) {
	if pageName != "" {
		return page.Ref(pageName), nil
	}
	if c.page.IsZero() {
		return page.Reference{}, ErrNoPage
	}
	return c.page, nil
}

// Exists reports whether a page exists in the store
func (c *ResolutionContext) Exists(ref page.Reference) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	return c.store.Exists(ref)
}

// ParseInterWikiLinks reads interwiki definitions, one "name format" pair
// per line. List bullets, blank lines and lines without a %s are skipped.
func ParseInterWikiLinks(text string) map[string]string {
	wikis := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*#"))
		fields := strings.Fields(line)
		if len(fields) != 2 || !strings.Contains(fields[1], "%s") {
			continue
		}
		wikis[fields[0]] = fields[1]
	}
	return wikis
}
