package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitranim/refut"

	"github.com/syssam/sqlweave"
)

// FromStruct returns an entity builder whose fields are derived from the
// struct type of v (a struct, a pointer to one, or a slice of either).
// Every field tagged with `db:"column"` becomes a column; untagged fields
// and `db:"-"` are skipped. Embedded structs contribute their fields.
//
// The `sqlweave` tag holds comma-separated column options: key, readonly,
// noselect, noinsert and noupdate.
//
//	type User struct {
//		ID   int64  `db:"id" sqlweave:"key,noinsert"`
//		Name string `db:"name"`
//	}
//
//	info := schema.FromStruct("User", User{}).MustDescriptor()
func FromStruct(name string, v any) *EntityBuilder {
	b := Entity(name)
	rtype := refut.RtypeDeref(reflect.TypeOf(v))
	if rtype != nil && rtype.Kind() == reflect.Slice {
		rtype = refut.RtypeDeref(rtype.Elem())
	}
	if rtype == nil || rtype.Kind() != reflect.Struct {
		b.err = &sqlweave.BuilderError{Op: "schema.FromStruct", Message: fmt.Sprintf("%s: expected struct, got %v", name, rtype)}
		return b
	}
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, path []int) error {
		column := refut.TagIdent(sfield.Tag.Get("db"))
		if column == "" {
			return nil
		}
		f := Field(sfield.Name).Column(column).Getter(indexGetter(rtype, path))
		if err := applyOptions(f, sfield.Tag.Get("sqlweave")); err != nil {
			return fmt.Errorf("%s.%s: %w", name, sfield.Name, err)
		}
		b.Fields(f)
		return nil
	})
	if err != nil {
		b.err = &sqlweave.BuilderError{Op: "schema.FromStruct", Message: err.Error()}
	}
	return b
}

func applyOptions(f *FieldBuilder, tag string) error {
	if tag == "" {
		return nil
	}
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "":
		case "key":
			f.Key()
		case "readonly":
			f.ReadOnly()
		case "noselect":
			f.NoSelect()
		case "noinsert":
			f.NoInsert()
		case "noupdate":
			f.NoUpdate()
		default:
			return fmt.Errorf("unknown column option %q", opt)
		}
	}
	return nil
}

// indexGetter reads the field at path off values of rtype. Nil embedded
// pointers along the path report the property as missing.
func indexGetter(rtype reflect.Type, path []int) func(any) (any, bool) {
	path = append([]int(nil), path...)
	return func(entity any) (any, bool) {
		v := reflect.ValueOf(entity)
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, false
			}
			v = v.Elem()
		}
		if !v.IsValid() {
			return nil, false
		}
		if v.Type() != rtype {
			return fieldValue(entity, rtype.FieldByIndex(path).Name)
		}
		f, err := v.FieldByIndexErr(path)
		if err != nil || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
}
