package page

import (
	"errors"
	"sort"
)

// HeadRevision asks a store for the latest revision of a page
const HeadRevision int64 = -1

// ErrNotFound is returned by stores when a page does not exist
var ErrNotFound = errors.New("page not found")

// Reference identifies a page within a wiki
type Reference struct {
	Name string
}

// Ref is shorthand for Reference{Name: name}
func Ref(name string) Reference {
	return Reference{Name: name}
}

func (r Reference) String() string {
	return r.Name
}

// IsZero reports whether the reference names no page
func (r Reference) IsZero() bool {
	return r.Name == ""
}

// Info is a page's raw content plus its identity metadata
type Info struct {
	Reference
	Content    string
	Revision   int64
	Attributes map[string]string
	// Directives are render-time toggles keyed by name, with their arguments
	Directives map[string][]string
}

// Attribute returns a page attribute
func (i Info) Attribute(name string) (string, bool) {
	v, ok := i.Attributes[name]
	return v, ok
}

// AttributeNames returns the attribute names in sorted order
func (i Info) AttributeNames() []string {
	names := make([]string, 0, len(i.Attributes))
	for name := range i.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachmentChecker reports whether an attachment exists on a page
type AttachmentChecker interface {
	AttachmentExists(ref Reference, name string) (bool, error)
}

// Store is the read-only view of page storage the renderer depends on.
// Implementations must tolerate concurrent calls.
type Store interface {
	AttachmentChecker
	List() ([]Reference, error)
	Get(ref Reference, revision int64) (Info, error)
	Exists(ref Reference) (bool, error)
}
