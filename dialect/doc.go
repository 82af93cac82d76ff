// Package dialect names the SQL dialects sqlweave renders for and defines the
// driver interfaces the dialect/sql call-through implements.
//
// # Dialect Constants
//
//	dialect.Standard  = "standard"
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.SQLite    = "sqlite"
//	dialect.SQLServer = "sqlserver"
//
// # Detection
//
// Detect maps a data source name to its dialect, validating URL forms with
// the parser of the matching driver:
//
//	name, err := dialect.Detect("postgres://app@localhost/app?sslmode=disable")
//	// name == dialect.Postgres
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Tx extends ExecQuerier with Commit and Rollback. NopTx wraps a Driver in a
// Tx whose Commit and Rollback do nothing.
package dialect
