package links

import "strings"

// URLOutputFilter post-processes a resolved URL for the current output,
// for example to carry a session id
type URLOutputFilter interface {
	FilterURL(uri string) string
}

// FilterFunc adapts a function to URLOutputFilter
type FilterFunc func(uri string) string

func (f FilterFunc) FilterURL(uri string) string { return f(uri) }

// IdentityFilter returns URLs unchanged
type IdentityFilter struct{}

func (IdentityFilter) FilterURL(uri string) string { return uri }

// SessionFilter injects ";jsessionid=<ID>" into the path of a URL, before
// any query or fragment
type SessionFilter struct {
	ID string
}

func (f SessionFilter) FilterURL(uri string) string {
	if f.ID == "" {
		return uri
	}
	cut := len(uri)
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		cut = i
	}
	return uri[:cut] + ";jsessionid=" + f.ID + uri[cut:]
}

// OrIdentity returns f, or IdentityFilter if f is nil
func OrIdentity(f URLOutputFilter) URLOutputFilter {
	if f == nil {
		return IdentityFilter{}
	}
	return f
}
