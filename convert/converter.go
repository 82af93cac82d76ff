package convert

import (
	"fmt"
	"reflect"
)

// Func is a pure conversion function.
type Func func(any) (any, error)

// Key identifies a converter by its ordered (source, destination) type pair.
type Key struct {
	Source reflect.Type
	Dest   reflect.Type
}

// String returns "source -> dest".
func (k Key) String() string {
	return fmt.Sprintf("%s -> %s", typeName(k.Source), typeName(k.Dest))
}

// Converter converts values of Source into values of Dest. Converters are
// immutable and compare equal when their type pairs match, regardless of the
// function they wrap.
type Converter struct {
	Source reflect.Type
	Dest   reflect.Type
	fn     Func
	// derived marks converters memoized from a hierarchy search. Parent
	// layers never serve derived entries to overlays.
	derived bool
}

// NewConverter returns a converter for the given pair.
func NewConverter(src, dst reflect.Type, fn Func) *Converter {
	return &Converter{Source: src, Dest: dst, fn: fn}
}

// Key returns the converter's type pair.
func (c *Converter) Key() Key { return Key{Source: c.Source, Dest: c.Dest} }

// Equal reports whether both converters are keyed by the same type pair.
func (c *Converter) Equal(other *Converter) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Key() == other.Key()
}

// Apply runs the conversion function.
func (c *Converter) Apply(v any) (any, error) {
	return c.fn(v)
}

// Derived reports whether the converter was discovered through the
// supertype/interface search rather than registered directly.
func (c *Converter) Derived() bool { return c.derived }

// String returns the converter key.
func (c *Converter) String() string { return c.Key().String() }

// Compose builds a converter A->C from an A->B converter and a B->C function.
func Compose(first *Converter, next Func, dst reflect.Type) *Converter {
	return &Converter{
		Source: first.Source,
		Dest:   dst,
		fn: func(v any) (any, error) {
			mid, err := first.fn(v)
			if err != nil {
				return nil, err
			}
			if mid == nil {
				return nil, nil
			}
			return next(mid)
		},
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
