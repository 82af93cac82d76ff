// Package sql renders SQL statements from entity metadata and executes them
// through database/sql.
//
// This package holds the expression and condition component tree, the clause
// state of a statement (Query) and one renderer per dialect (Database). A
// render walks the tree, writes SQL text and collects the bind parameters in
// the order their ? placeholders appear.
//
// # Expressions
//
// Expressions are templates whose placeholders resolve against the Scope they
// are rendered in:
//
//	sql.Expr("{Name} = {}", "a8m")          // name = 'a8m'
//	sql.Expr("{u.Name} = {o.Customer}")     // u.name = o.customer
//	sql.Expr("{#ID} = {}", 7)               // value of the bound entity's ID
//
// Values become literals through the dialect's converter registry. Values too
// long for a literal become ? parameters.
//
// # Conditions
//
// Conditions compose with And, Or and Not. Empty conditions are identities and
// single-child groups collapse:
//
//	sql.And(sql.Empty, c)                   // c
//	sql.Not(sql.Not(c))                     // c
//	sql.Or(a, b).Render(...)                // a OR b
//
// # Queries
//
// A Query holds the clause state of one statement and is the Scope its
// expressions render against:
//
//	q := sql.Select(users).As("u").
//	    InnerJoin(orders, "o", sql.Expr("{o.UserID} = {u.ID}")).
//	    Where(sql.Expr("{o.Total} > {}", 100)).
//	    OrderBy(sql.NewOrderBy().Add("{u.Name}").Asc()).
//	    Limit(10)
//	st, err := sql.Build(sql.Postgres(), sql.SelectKind, q)
//
// # Dialects
//
// Standard, Postgres, MySQL, SQLite and SQLServer differ in literal
// spelling, pagination, row locking and the shape of joined UPDATE and DELETE
// statements. Combinations a dialect cannot express fail with a
// sqlweave.UnsupportedFeatureError.
//
// # Execution
//
// Driver wraps a *sql.DB and rebinds ? placeholders to the driver's style
// ($1 for PostgreSQL, @p1 for SQL Server) before executing:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	res, err := drv.ExecStatement(ctx, st)
package sql
