// Package mixin provides reusable column sets for entity metadata.
//
// A mixin is added to an entity with EntityBuilder.Mixin; its fields come
// ahead of the entity's own fields:
//
//	schema.Entity("User").
//	    Mixin(mixin.ID{}, mixin.Time{}).
//	    Fields(schema.Field("Name"))
//
// To create a custom mixin, embed Schema and override Fields:
//
//	type Audit struct{ mixin.Schema }
//
//	func (Audit) Fields() []*schema.FieldBuilder {
//	    return []*schema.FieldBuilder{
//	        schema.Field("CreatedBy").NoUpdate(),
//	        schema.Field("UpdatedBy"),
//	    }
//	}
package mixin

import "github.com/syssam/sqlweave/schema"

// Schema is the default implementation for the schema.Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []*schema.FieldBuilder { return nil }

var _ schema.Mixin = (*Schema)(nil)

// ID adds an auto-increment "ID" key column named "id". The column is left
// out of INSERT statements.
type ID struct {
	Schema
}

// Fields returns the id field.
func (ID) Fields() []*schema.FieldBuilder {
	return []*schema.FieldBuilder{
		schema.Field("ID").Column("id").Key().NoInsert(),
	}
}

// Time adds created_at and updated_at columns. created_at is never written
// by UPDATE statements.
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []*schema.FieldBuilder {
	return []*schema.FieldBuilder{
		schema.Field("CreatedAt").
			NoUpdate().
			Annotations(schema.Comment("Timestamp when the entity was created")),
		schema.Field("UpdatedAt").
			Annotations(schema.Comment("Timestamp when the entity was last updated")),
	}
}

// SoftDelete adds a nullable deleted_at column.
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []*schema.FieldBuilder {
	return []*schema.FieldBuilder{
		schema.Field("DeletedAt").
			Annotations(schema.Comment("Timestamp when the entity was soft deleted (nil means not deleted)")),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []*schema.FieldBuilder {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// AnnotateFields wraps a mixin and adds annotations to all its fields.
func AnnotateFields(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []*schema.FieldBuilder {
	fields := a.Mixin.Fields()
	for _, f := range fields {
		f.Annotations(a.annotations...)
	}
	return fields
}
