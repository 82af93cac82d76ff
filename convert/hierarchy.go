package convert

import "reflect"

// predeclared maps basic kinds to their predeclared Go types.
var predeclared = map[reflect.Kind]reflect.Type{
	reflect.Bool:       reflect.TypeFor[bool](),
	reflect.Int:        reflect.TypeFor[int](),
	reflect.Int8:       reflect.TypeFor[int8](),
	reflect.Int16:      reflect.TypeFor[int16](),
	reflect.Int32:      reflect.TypeFor[int32](),
	reflect.Int64:      reflect.TypeFor[int64](),
	reflect.Uint:       reflect.TypeFor[uint](),
	reflect.Uint8:      reflect.TypeFor[uint8](),
	reflect.Uint16:     reflect.TypeFor[uint16](),
	reflect.Uint32:     reflect.TypeFor[uint32](),
	reflect.Uint64:     reflect.TypeFor[uint64](),
	reflect.Float32:    reflect.TypeFor[float32](),
	reflect.Float64:    reflect.TypeFor[float64](),
	reflect.String:     reflect.TypeFor[string](),
	reflect.Complex64:  reflect.TypeFor[complex64](),
	reflect.Complex128: reflect.TypeFor[complex128](),
}

var bytesType = reflect.TypeFor[[]byte]()

// structuralSupertype derives the supertype of t from its shape:
//
//   - *T has supertype T (the value is dereferenced),
//   - a defined type over a basic kind (type Status string) has the
//     predeclared type of that kind as supertype,
//   - a defined byte slice (json.RawMessage) has []byte as supertype.
//
// Everything else has no supertype.
func structuralSupertype(t reflect.Type) (supertype, bool) {
	if t.Kind() == reflect.Pointer {
		return supertype{
			typ: t.Elem(),
			project: func(v any) any {
				if isNil(v) {
					return nil
				}
				return reflect.ValueOf(v).Elem().Interface()
			},
		}, true
	}
	if base, ok := predeclared[t.Kind()]; ok && t != base {
		return convertTo(base), true
	}
	if t.Kind() == reflect.Slice && t != bytesType && t.ConvertibleTo(bytesType) {
		return convertTo(bytesType), true
	}
	return supertype{}, false
}

func convertTo(base reflect.Type) supertype {
	return supertype{
		typ: base,
		project: func(v any) any {
			if v == nil {
				return nil
			}
			return reflect.ValueOf(v).Convert(base).Interface()
		},
	}
}

// Supertypes returns the supertype chain of t as seen by r, nearest first.
func (r *Registry) Supertypes(t reflect.Type) []reflect.Type {
	var out []reflect.Type
	for cur := t; ; {
		st, ok := r.supertype(cur)
		if !ok {
			return out
		}
		out = append(out, st.typ)
		cur = st.typ
	}
}
