package scrape

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps source names to adapters. Registration is the fail-fast
// point for configuration errors: a misconfigured source never gets
// scheduled.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return &SourceError{Kind: FailConfiguration, Err: fmt.Errorf("nil adapter")}
	}
	name := a.Name()
	if err := a.Site().Validate(); err != nil {
		return err
	}
	if _, dup := r.adapters[name]; dup {
		return &SourceError{Source: name, Kind: FailConfiguration, Err: fmt.Errorf("source %q registered twice", name)}
	}
	r.adapters[name] = a
	r.order = append(r.order, name)
	return nil
}

// Get looks up one source by name. The error for an unknown name lists
// what is registered, so an operator typo is obvious.
func (r *Registry) Get(name string) (Adapter, error) {
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownSource, name, strings.Join(r.Names(), ", "))
}

// Names returns all registered source names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.adapters[n])
	}
	return out
}
