package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind is a plugin category.
type Kind string

// The supported plugin kinds.
const (
	KindCrawler  Kind = "crawler"
	KindParser   Kind = "parser"
	KindNotifier Kind = "notifier"
	KindStorage  Kind = "storage"
)

// Kinds returns all supported kinds.
func Kinds() []Kind {
	return []Kind{KindCrawler, KindParser, KindNotifier, KindStorage}
}

func (k Kind) valid() bool {
	switch k {
	case KindCrawler, KindParser, KindNotifier, KindStorage:
		return true
	}
	return false
}

// ErrNotRegistered indicates a lookup for a (kind, name) pair with no
// registered factory.
var ErrNotRegistered = errors.New("plugin: not registered")

// Factory creates a plugin instance from configuration.
type Factory func(cfg map[string]any) (any, error)

// Registry manages plugin factories keyed by kind and name.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]map[string]Factory
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]map[string]Factory)}
}

// Register adds a factory under (kind, name). Registering the same pair
// twice is an error.
func (r *Registry) Register(kind Kind, name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return errors.New("plugin: invalid registration")
	}
	if !kind.valid() {
		return fmt.Errorf("plugin: unknown kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byName := r.factories[kind]
	if byName == nil {
		byName = make(map[string]Factory)
		r.factories[kind] = byName
	}
	if _, exists := byName[name]; exists {
		return fmt.Errorf("plugin: %s %q already registered", kind, name)
	}
	byName[name] = factory
	return nil
}

// Create instantiates a plugin by kind and name.
func (r *Registry) Create(kind Kind, name string, cfg map[string]any) (any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("plugin: name is required")
	}

	r.mu.RLock()
	factory, ok := r.factories[kind][name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrNotRegistered, kind, name)
	}

	return factory(cfg)
}

// List returns the registered names for a kind, sorted.
func (r *Registry) List(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories[kind]))
	for name := range r.factories[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAll returns every registered name grouped by kind.
func (r *Registry) ListAll() map[Kind][]string {
	out := make(map[Kind][]string, len(Kinds()))
	for _, kind := range Kinds() {
		out[kind] = r.List(kind)
	}
	return out
}

// Count returns the total number of registered factories.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, byName := range r.factories {
		n += len(byName)
	}
	return n
}

// Resolve creates a plugin and asserts it to T.
func Resolve[T any](r *Registry, kind Kind, name string, cfg map[string]any) (T, error) {
	var zero T

	v, err := r.Create(kind, name, cfg)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("plugin: %s %q is %T, not the requested type", kind, name, v)
	}
	return typed, nil
}

// DefaultRegistry is the process-wide registry extensions register into.
var DefaultRegistry = NewRegistry()
