// Package schema describes how entities map to tables.
//
// Entity metadata is plain data: an EntityInfo holds the table name and an
// ordered list of ColumnInfo values, each carrying the property name, the
// column name, key membership and the statements the column takes part in.
// The SQL renderers read it and never inspect entity types themselves,
// except to read property values off a live entity.
//
// # Quick Start
//
//	user := schema.Entity("User").
//	    Mixin(mixin.ID{}).
//	    Fields(
//	        schema.Field("Email").Column("email_address"),
//	        schema.Field("Name"),
//	        schema.Field("CreatedAt").NoUpdate(),
//	    ).
//	    MustDescriptor()
//
//	user.Table                  // "users"
//	user.KeyColumns()[0].Name   // "id"
//
// # Naming
//
// Table names default to the pluralized snake case of the entity name and
// column names to the snake case of the property name:
//
//	schema.TableName("OrderItem")   // "order_items"
//	schema.ColumnName("CreatedAt")  // "created_at"
//
// # Providers
//
// A Provider resolves entities by name. Registry is the in-memory one:
//
//	reg, err := schema.NewRegistry(user, order)
//	info, ok := reg.Entity("User")
package schema
