// Package sqlweave renders SQL statements for entities described by
// metadata, converting Go values into dialect-specific literals.
//
// The engine is split into packages:
//
//   - convert holds the converter registry: typed conversions between Go
//     types, resolved through supertypes and interfaces, ending in SQL
//     literals.
//   - schema describes entities: tables, columns, keys and the column
//     expressions used in SELECT, INSERT and UPDATE.
//   - dialect/sql builds expressions, conditions and queries, and renders
//     them for PostgreSQL, MySQL, SQLite, SQL Server or ANSI SQL. It also
//     wraps database/sql drivers to execute the rendered statements.
//   - config loads renderer settings from YAML files.
//
// A short example:
//
//	users := schema.Entity("User").Fields(
//		schema.Field("ID").Key(),
//		schema.Field("Name"),
//	).MustDescriptor()
//
//	q := sql.Select(users).As("u").Where(sql.String("Name").HasPrefix("A"))
//	st, err := sql.Build(sql.Postgres(), sql.SelectKind, q)
//	// SELECT u.id, u.name FROM users u WHERE u.name LIKE 'A%' ESCAPE '!'
//
// This package holds the errors shared by all packages.
package sqlweave
