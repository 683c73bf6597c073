package macro

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gerunddev/creolewiki/internal/page"
)

// Attr outputs a page attribute, named by its argument, verbatim
func Attr() Macro {
	return New("attr", Preformatted, func(p page.Info, args string) (string, error) {
		name := strings.TrimSpace(args)
		if name == "" {
			return "", errors.New("attr: no attribute named")
		}
		value, ok := p.Attribute(name)
		if !ok {
			return "", fmt.Errorf("attr: %s has no attribute %q", p.Name, name)
		}
		return value, nil
	})
}

// Pages lists the pages of store whose names start with the argument text.
// A trailing "*" is ignored, so "<<pages *>>" lists every page.
func Pages(store page.Store) Macro {
	return New("pages", Wiki, func(_ page.Info, args string) (string, error) {
		if store == nil {
			return "", errors.New("pages: no page store")
		}
		refs, err := store.List()
		if err != nil {
			return "", fmt.Errorf("failed to list pages: %w", err)
		}

		prefix := strings.TrimSuffix(strings.TrimSpace(args), "*")
		var names []string
		for _, ref := range refs {
			if strings.HasPrefix(ref.Name, prefix) {
				names = append(names, ref.Name)
			}
		}
		sort.Strings(names)

		var b strings.Builder
		for _, name := range names {
			fmt.Fprintf(&b, "* [[%s]]\n", name)
		}
		return b.String(), nil
	})
}

// Builtins returns the macros every wiki gets
func Builtins(store page.Store) []Macro {
	return []Macro{PlantUML(), Attr(), Pages(store)}
}
