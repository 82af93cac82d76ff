package schema

import (
	"fmt"

	"github.com/syssam/sqlweave"
)

// FieldBuilder is the builder for entity columns.
type FieldBuilder struct {
	desc *ColumnInfo
}

// Field returns a new column builder for the given property. The column
// name defaults to the snake-cased property name, and the column takes
// part in SELECT, INSERT and UPDATE statements.
//
//	schema.Field("ID").Key().NoInsert()
//	schema.Field("Email").Column("email_address")
func Field(prop string) *FieldBuilder {
	return &FieldBuilder{desc: &ColumnInfo{
		Property: prop,
		Name:     ColumnName(prop),
		Select:   true,
		Insert:   true,
		Update:   true,
	}}
}

// Column sets the column name.
func (b *FieldBuilder) Column(name string) *FieldBuilder {
	b.desc.Name = name
	return b
}

// Alias sets the result-set alias of the column.
func (b *FieldBuilder) Alias(alias string) *FieldBuilder {
	b.desc.Alias = alias
	return b
}

// Key marks the column as part of the primary key.
func (b *FieldBuilder) Key() *FieldBuilder {
	b.desc.Key = true
	return b
}

// ReadOnly excludes the column from INSERT and UPDATE statements.
func (b *FieldBuilder) ReadOnly() *FieldBuilder {
	b.desc.Insert = false
	b.desc.Update = false
	return b
}

// NoSelect excludes the column from SELECT statements.
func (b *FieldBuilder) NoSelect() *FieldBuilder {
	b.desc.Select = false
	return b
}

// NoInsert excludes the column from INSERT statements, for example for
// auto-increment keys.
func (b *FieldBuilder) NoInsert() *FieldBuilder {
	b.desc.Insert = false
	return b
}

// NoUpdate excludes the column from UPDATE statements.
func (b *FieldBuilder) NoUpdate() *FieldBuilder {
	b.desc.Update = false
	return b
}

// SelectExpr replaces the column reference in SELECT statements.
func (b *FieldBuilder) SelectExpr(text string, args ...any) *FieldBuilder {
	b.desc.SelectExpr = Tmpl(text, args...)
	return b
}

// InsertExpr replaces the inserted value.
func (b *FieldBuilder) InsertExpr(text string, args ...any) *FieldBuilder {
	b.desc.InsertExpr = Tmpl(text, args...)
	return b
}

// UpdateExpr replaces the assigned value in UPDATE statements.
func (b *FieldBuilder) UpdateExpr(text string, args ...any) *FieldBuilder {
	b.desc.UpdateExpr = Tmpl(text, args...)
	return b
}

// Getter sets the function reading the property off an entity.
func (b *FieldBuilder) Getter(fn func(entity any) (any, bool)) *FieldBuilder {
	b.desc.Get = fn
	return b
}

// Annotations adds annotations to the column.
func (b *FieldBuilder) Annotations(annotations ...Annotation) *FieldBuilder {
	b.desc.Annotations = merge(b.desc.Annotations, annotations...)
	return b
}

// Descriptor returns the column descriptor.
func (b *FieldBuilder) Descriptor() *ColumnInfo {
	return b.desc
}

// EntityBuilder is the builder for entity metadata.
type EntityBuilder struct {
	name        string
	table       string
	mixins      []Mixin
	fields      []*FieldBuilder
	annotations []Annotation
	err         error
}

// Entity returns a new entity builder. The table name defaults to the
// pluralized snake-cased entity name.
//
//	schema.Entity("User").Fields(
//		schema.Field("ID").Key(),
//		schema.Field("Name"),
//	)
func Entity(name string) *EntityBuilder {
	return &EntityBuilder{name: name}
}

// Table sets the table name.
func (b *EntityBuilder) Table(name string) *EntityBuilder {
	b.table = name
	return b
}

// Mixin adds the fields of the given mixins ahead of the entity's own fields.
func (b *EntityBuilder) Mixin(mixins ...Mixin) *EntityBuilder {
	b.mixins = append(b.mixins, mixins...)
	return b
}

// Fields adds columns to the entity.
func (b *EntityBuilder) Fields(fields ...*FieldBuilder) *EntityBuilder {
	b.fields = append(b.fields, fields...)
	return b
}

// Annotations adds annotations to the entity.
func (b *EntityBuilder) Annotations(annotations ...Annotation) *EntityBuilder {
	b.annotations = merge(b.annotations, annotations...)
	return b
}

// Descriptor builds the entity metadata. Property names must be non-empty
// and unique.
func (b *EntityBuilder) Descriptor() (*EntityInfo, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, &sqlweave.BuilderError{Op: "schema.Entity", Message: "missing entity name"}
	}
	info := &EntityInfo{
		Name:        b.name,
		Table:       b.table,
		Annotations: b.annotations,
	}
	if info.Table == "" {
		info.Table = TableName(b.name)
	}
	var fields []*FieldBuilder
	for _, m := range b.mixins {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, b.fields...)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == nil {
			return nil, &sqlweave.BuilderError{Op: "schema.Entity", Message: fmt.Sprintf("%s: nil field", b.name)}
		}
		c := *f.desc
		switch {
		case c.Property == "":
			return nil, &sqlweave.BuilderError{Op: "schema.Entity", Message: fmt.Sprintf("%s: empty property name", b.name)}
		case seen[c.Property]:
			return nil, &sqlweave.BuilderError{Op: "schema.Entity", Message: fmt.Sprintf("%s: duplicate property %q", b.name, c.Property)}
		}
		seen[c.Property] = true
		info.Columns = append(info.Columns, &c)
	}
	info.index()
	return info, nil
}

// MustDescriptor is like Descriptor but panics on error.
func (b *EntityBuilder) MustDescriptor() *EntityInfo {
	info, err := b.Descriptor()
	if err != nil {
		panic(err)
	}
	return info
}
