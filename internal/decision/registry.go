// internal/decision/registry.go
package decision

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/solatis/ambrosia/internal/types"
)

// Factory builds a predicate from the source text following its prefix,
// e.g. "script:" predicates compiled from JavaScript.
type Factory func(source string) (Predicate, error)

// Registry maps delegate names to predicates. Registration happens at
// startup; lookups are safe from any goroutine.
type Registry struct {
	mu        sync.RWMutex
	named     map[string]Predicate
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		named:     make(map[string]Predicate),
		factories: make(map[string]Factory),
	}
}

// Register binds name to fn, replacing any earlier binding.
func (r *Registry) Register(name string, fn Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.named[name] = fn
}

// RegisterFactory handles every name of the form "<prefix>:<source>".
func (r *Registry) RegisterFactory(prefix string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[prefix] = f
}

// Lookup resolves name to a predicate.
func (r *Registry) Lookup(name string) (Predicate, error) {
	r.mu.RLock()
	fn, ok := r.named[name]
	var factory Factory
	var source string
	if !ok {
		if prefix, rest, found := strings.Cut(name, ":"); found {
			factory, source = r.factories[prefix], rest
		}
	}
	r.mu.RUnlock()

	if ok {
		return fn, nil
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPredicate, name)
	}
	fn, err := factory(source)
	if err != nil {
		return nil, fmt.Errorf("predicate %q: %w", name, err)
	}
	return fn, nil
}

// Names returns the registered predicate names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.named))
	for n := range r.named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
