package schema

import (
	"fmt"
	"slices"
	"sync"

	"github.com/syssam/sqlweave"
)

// Provider resolves entity metadata by entity name.
type Provider interface {
	Entity(name string) (*EntityInfo, bool)
}

// Registry is an in-memory Provider. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*EntityInfo
}

// NewRegistry returns a registry holding the given entities.
func NewRegistry(entities ...*EntityInfo) (*Registry, error) {
	r := &Registry{entities: make(map[string]*EntityInfo)}
	for _, e := range entities {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an entity. Registering the same name twice is an error.
func (r *Registry) Register(e *EntityInfo) error {
	if e == nil {
		return &sqlweave.BuilderError{Op: "schema.Register", Message: "nil entity"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[e.Name]; ok {
		return &sqlweave.BuilderError{Op: "schema.Register", Message: fmt.Sprintf("entity %q already registered", e.Name)}
	}
	r.entities[e.Name] = e
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(e *EntityInfo) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Entity implements Provider.
func (r *Registry) Entity(name string) (*EntityInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

// Names returns the registered entity names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var _ Provider = (*Registry)(nil)
