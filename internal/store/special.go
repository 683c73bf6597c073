package store

import (
	"errors"
	"sort"

	"github.com/gerunddev/creolewiki/internal/page"
)

// Names of pages every wiki has
const (
	FrontPage            = "FrontPage"
	ConfigSideBar        = "ConfigSideBar"
	ConfigInterWikiLinks = "ConfigInterWikiLinks"
)

// DefaultSpecialPages is the content served for special pages the backing
// store does not have
var DefaultSpecialPages = map[string]string{
	FrontPage: "= Welcome\n\nThis is the front page of the wiki. Edit it to get started.\n\n" +
		"All pages:\n\n<<pages *>>\n",
	ConfigSideBar: "* [[FrontPage]]\n",
	ConfigInterWikiLinks: "c2 http://c2.com/cgi/wiki?%s\n" +
		"wikipedia http://en.wikipedia.org/wiki/%s\n",
}

// SpecialPages supplies default content for special pages missing from
// the store it wraps
type SpecialPages struct {
	page.Store
	defaults map[string]string
}

// WithSpecialPages wraps s. A nil defaults map means DefaultSpecialPages.
func WithSpecialPages(s page.Store, defaults map[string]string) *SpecialPages {
	if defaults == nil {
		defaults = DefaultSpecialPages
	}
	return &SpecialPages{Store: s, defaults: defaults}
}

func (s *SpecialPages) List() ([]page.Reference, error) {
	refs, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		seen[ref.Name] = true
	}
	for name := range s.defaults {
		if !seen[name] {
			refs = append(refs, page.Ref(name))
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (s *SpecialPages) Get(ref page.Reference, revision int64) (page.Info, error) {
	info, err := s.Store.Get(ref, revision)
	if err == nil || !errors.Is(err, page.ErrNotFound) || revision >= 0 {
		return info, err
	}
	content, ok := s.defaults[ref.Name]
	if !ok {
		return info, err
	}
	return page.Info{Reference: ref, Content: content, Revision: page.HeadRevision}, nil
}

func (s *SpecialPages) Exists(ref page.Reference) (bool, error) {
	if _, ok := s.defaults[ref.Name]; ok {
		return true, nil
	}
	return s.Store.Exists(ref)
}
