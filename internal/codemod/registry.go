package codemod

import (
	"fmt"
	"slices"
)

// Registry maps codemod ids to instances. It is constructed once at startup
// and read-only afterward; codemods are applied in registration order so
// runs are reproducible.
type Registry struct {
	byName map[string]*Codemod
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Codemod)}
}

// Register adds a codemod. Registering two codemods with the same name is
// a programming error.
func (r *Registry) Register(c *Codemod) error {
	name := c.Name()
	if name == "" {
		return fmt.Errorf("registry: codemod has no name")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("registry: codemod %q already registered", name)
	}
	r.byName[name] = c
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for static default sets built at startup.
func (r *Registry) MustRegister(cs ...*Codemod) *Registry {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

// IDs returns the full id of every registered codemod, in registration
// order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].ID())
	}
	return out
}

// Select returns the codemods to run, in registration order.
//
// With both lists empty it returns the full default set. With exclude given
// it returns every codemod whose name is not excluded; with include given,
// only codemods whose name is included. At most one of the two lists is
// populated (validated upstream). Names match the short codemod name, not
// the full id. Unknown names in either list are silently ignored; this is
// documented policy, not an oversight.
func (r *Registry) Select(include, exclude []string) []*Codemod {
	out := make([]*Codemod, 0, len(r.order))
	for _, name := range r.order {
		switch {
		case len(exclude) > 0:
			if slices.Contains(exclude, name) {
				continue
			}
		case len(include) > 0:
			if !slices.Contains(include, name) {
				continue
			}
		}
		out = append(out, r.byName[name])
	}
	return out
}

// Describe returns the description records for the selected codemods.
// Pure read access, no side effects.
func (r *Registry) Describe(include, exclude []string) []Description {
	selected := r.Select(include, exclude)
	out := make([]Description, 0, len(selected))
	for _, c := range selected {
		out = append(out, c.Describe())
	}
	return out
}
