package convert

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/sqlweave"
)

// Registry maps (source, destination) type pairs to converters.
//
// A registry may sit on top of a parent registry: lookups check this layer
// before the parent, which is how dialects overlay the shared base registry.
// Lookups that miss are resolved through the supertype/interface search of
// the source type and memoized in the layer the lookup started from.
//
// Registry is safe for concurrent use.
type Registry struct {
	parent *Registry
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[Key]*Converter
	ifaces  []reflect.Type // interface source types, registration order
	supers  map[reflect.Type]supertype

	group    singleflight.Group
	searches atomic.Int64
}

type supertype struct {
	typ     reflect.Type
	project func(any) any
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report replaced converters.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry returns an empty registry layered on top of parent. A nil
// parent creates a root registry.
func NewRegistry(parent *Registry, opts ...Option) *Registry {
	r := &Registry{
		parent:  parent,
		logger:  slog.Default(),
		entries: make(map[Key]*Converter),
		supers:  make(map[reflect.Type]supertype),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parent returns the registry this one is layered on, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Register inserts or replaces the converter for (src, dst).
func (r *Registry) Register(src, dst reflect.Type, fn Func) *Converter {
	c := NewConverter(src, dst, fn)
	r.add(c)
	return c
}

// Add inserts or replaces c in this layer.
func (r *Registry) Add(c *Converter) {
	cp := *c
	cp.derived = false
	r.add(&cp)
}

func (r *Registry) add(c *Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := c.Key()
	if old, ok := r.entries[k]; ok && !old.derived {
		r.logger.Debug("convert: replacing converter", "key", k.String())
	}
	if c.Source.Kind() == reflect.Interface && !slices.Contains(r.ifaces, c.Source) {
		r.ifaces = append(r.ifaces, c.Source)
	}
	r.entries[k] = c
}

// RegisterFunc registers a typed conversion function for (S, D).
func RegisterFunc[S, D any](r *Registry, fn func(S) (D, error)) *Converter {
	src, dst := reflect.TypeFor[S](), reflect.TypeFor[D]()
	return r.Register(src, dst, func(v any) (any, error) {
		s, ok := v.(S)
		if !ok {
			return nil, fmt.Errorf("convert: %s: unexpected source value %T", Key{src, dst}, v)
		}
		return fn(s)
	})
}

// DeclareSupertype declares super as the supertype of sub. The project
// function maps a sub value to its super value before the super's converter
// runs. Declared supertypes take precedence over the structural ones.
func (r *Registry) DeclareSupertype(sub, super reflect.Type, project func(any) any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supers[sub] = supertype{typ: super, project: project}
}

// Has reports whether this layer holds a direct entry for (src, dst),
// including memoized entries.
func (r *Registry) Has(src, dst reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[Key{src, dst}]
	return ok
}

// Len returns the number of entries held in this layer.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Searches returns how many supertype/interface searches this layer has run.
func (r *Registry) Searches() int64 { return r.searches.Load() }

// Lookup returns the converter for (src, dst). Exact entries are checked
// first in this layer and then in the parents. On a miss, the interfaces
// implemented by src are tried in registration order, then the supertype of
// src, repeating until a type has no supertype. A converter found this way
// is stored under (src, dst) so the next lookup is direct.
func (r *Registry) Lookup(src, dst reflect.Type) (*Converter, bool) {
	if c, ok := r.exact(src, dst); ok {
		return c, true
	}
	v, _, _ := r.group.Do(flightKey(src, dst), func() (any, error) {
		if c, ok := r.exact(src, dst); ok {
			return c, nil
		}
		r.searches.Add(1)
		found, project := r.search(src, dst)
		if found == nil {
			return nil, nil
		}
		c := &Converter{Source: src, Dest: dst, derived: true, fn: found.fn}
		if project != nil {
			fn := found.fn
			c.fn = func(v any) (any, error) {
				pv := project(v)
				if pv == nil {
					return nil, nil
				}
				return fn(pv)
			}
		}
		r.mu.Lock()
		if _, ok := r.entries[c.Key()]; !ok {
			r.entries[c.Key()] = c
		}
		r.mu.Unlock()
		return c, nil
	})
	c, _ := v.(*Converter)
	return c, c != nil
}

// exact checks this layer, then the parents' registered (non-derived) entries.
func (r *Registry) exact(src, dst reflect.Type) (*Converter, bool) {
	k := Key{src, dst}
	for l := r; l != nil; l = l.parent {
		l.mu.RLock()
		c, ok := l.entries[k]
		l.mu.RUnlock()
		if ok && (l == r || !c.derived) {
			return c, true
		}
	}
	return nil, false
}

func (r *Registry) search(src, dst reflect.Type) (*Converter, func(any) any) {
	var project func(any) any
	for cur := src; ; {
		for _, iface := range r.interfaces() {
			if iface == cur || !cur.Implements(iface) {
				continue
			}
			// *T inherits the methods of T; let the dereference find them.
			if cur.Kind() == reflect.Pointer && cur.Elem().Implements(iface) {
				continue
			}
			if c, ok := r.exact(iface, dst); ok {
				return c, project
			}
		}
		st, ok := r.supertype(cur)
		if !ok {
			return nil, nil
		}
		project = chainProjection(project, st.project)
		if c, ok := r.exact(st.typ, dst); ok {
			return c, project
		}
		cur = st.typ
	}
}

// interfaces returns the interface source types of all layers, overlays first.
func (r *Registry) interfaces() []reflect.Type {
	var out []reflect.Type
	for l := r; l != nil; l = l.parent {
		l.mu.RLock()
		out = append(out, l.ifaces...)
		l.mu.RUnlock()
	}
	return out
}

func (r *Registry) supertype(t reflect.Type) (supertype, bool) {
	for l := r; l != nil; l = l.parent {
		l.mu.RLock()
		st, ok := l.supers[t]
		l.mu.RUnlock()
		if ok {
			return st, true
		}
	}
	return structuralSupertype(t)
}

// Convert converts v to dst. A nil v (or nil pointer) converts to nil, and a
// value that already is a dst is returned unchanged.
func (r *Registry) Convert(v any, dst reflect.Type) (any, error) {
	if isNil(v) {
		return nil, nil
	}
	t := reflect.TypeOf(v)
	if t == dst || (dst.Kind() == reflect.Interface && t.Implements(dst)) {
		return v, nil
	}
	c, ok := r.Lookup(t, dst)
	if !ok {
		return nil, sqlweave.NewConversionError(t.String(), dst.String(), v)
	}
	return c.fn(v)
}

// Literal converts v into its SQL literal form. Nil values render as Null.
func (r *Registry) Literal(v any) (Literal, error) {
	out, err := r.Convert(v, LiteralType)
	if err != nil {
		return Literal{}, err
	}
	if out == nil {
		return Null, nil
	}
	return out.(Literal), nil
}

// Chain builds a converter first.Source -> dst by looking up the
// first.Dest -> dst converter in the registry.
func (r *Registry) Chain(first *Converter, dst reflect.Type) (*Converter, error) {
	next, ok := r.Lookup(first.Dest, dst)
	if !ok {
		return nil, sqlweave.NewConversionError(first.Dest.String(), dst.String(), nil)
	}
	return Compose(first, next.fn, dst), nil
}

// To converts v into a D using r.
func To[D any](r *Registry, v any) (D, error) {
	var zero D
	out, err := r.Convert(v, reflect.TypeFor[D]())
	if err != nil || out == nil {
		return zero, err
	}
	return out.(D), nil
}

// flightKey identifies a lookup by type identity. Type names are not unique:
// function-local types share their package path and name.
func flightKey(src, dst reflect.Type) string {
	return fmt.Sprintf("%p|%p", src, dst)
}

func chainProjection(prev, next func(any) any) func(any) any {
	switch {
	case prev == nil:
		return next
	case next == nil:
		return prev
	default:
		return func(v any) any { return next(prev(v)) }
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
