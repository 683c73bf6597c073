// Package macro defines the named capabilities invoked from markup as
// <<name arguments>>.
package macro

import (
	"sort"

	"github.com/gerunddev/creolewiki/internal/page"
)

// ResultFormat says how a macro's output is treated by the renderer
type ResultFormat int

const (
	// Wiki output is parsed as markup and rendered in place
	Wiki ResultFormat = iota
	// Preformatted output is escaped and wrapped verbatim
	Preformatted
)

func (f ResultFormat) String() string {
	switch f {
	case Wiki:
		return "wiki"
	case Preformatted:
		return "preformatted"
	}
	return "unknown"
}

// Macro is a named capability run at render time. Handle receives the raw
// argument text exactly as written. Implementations must be safe for
// concurrent use.
type Macro interface {
	Name() string
	ResultFormat() ResultFormat
	Handle(p page.Info, args string) (string, error)
}

// HandlerFunc is the signature of a macro body
type HandlerFunc func(p page.Info, args string) (string, error)

type funcMacro struct {
	name   string
	format ResultFormat
	fn     HandlerFunc
}

// New creates a macro from a function
func New(name string, format ResultFormat, fn HandlerFunc) Macro {
	return &funcMacro{name: name, format: format, fn: fn}
}

func (m *funcMacro) Name() string               { return m.name }
func (m *funcMacro) ResultFormat() ResultFormat { return m.format }
func (m *funcMacro) Handle(p page.Info, args string) (string, error) {
	return m.fn(p, args)
}

// Registry maps names to macros. It is read-only once built.
type Registry struct {
	macros map[string]Macro
}

// NewRegistry builds a registry. A later macro replaces an earlier one
// with the same name.
func NewRegistry(macros ...Macro) *Registry {
	r := &Registry{macros: make(map[string]Macro, len(macros))}
	for _, m := range macros {
		if m != nil {
			r.macros[m.Name()] = m
		}
	}
	return r
}

// Lookup returns the macro registered under name. A nil registry has none.
func (r *Registry) Lookup(name string) (Macro, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.macros[name]
	return m, ok
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.macros))
	for name := range r.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered macros sorted by name
func (r *Registry) All() []Macro {
	names := r.Names()
	macros := make([]Macro, len(names))
	for i, name := range names {
		macros[i] = r.macros[name]
	}
	return macros
}
