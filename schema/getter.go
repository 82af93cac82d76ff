package schema

import (
	"reflect"
	"strings"
)

// fieldValue reads prop from a struct (exported field, matched exactly and
// then case-insensitively), a pointer to one, or a map keyed by string.
func fieldValue(entity any, prop string) (any, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(prop)
		if !f.IsValid() {
			f = v.FieldByNameFunc(func(name string) bool {
				return strings.EqualFold(name, prop) || strings.EqualFold(name, PropertyName(prop))
			})
		}
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(prop).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	default:
		return nil, false
	}
}
