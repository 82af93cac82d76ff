package dialect

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// ErrUnknownDSN is returned by Detect when no dialect accepts the data
// source name.
var ErrUnknownDSN = errors.New("dialect: unrecognized data source name")

// keyValueRe matches the key=value form of PostgreSQL connection strings.
var keyValueRe = regexp.MustCompile(`^\s*[a-z_]+\s*=`)

var sqliteExt = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}

// Detect returns the dialect of a data source name:
//
//	postgres://u:p@host/db, host=... dbname=...   Postgres
//	sqlserver://u:p@host?database=db, server=...; SQLServer
//	file:app.db, app.sqlite, :memory:            SQLite
//	u:p@tcp(host:3306)/db, mysql://...           MySQL
//
// URL forms are validated with the parser of the matching driver.
func Detect(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", ErrUnknownDSN
	}
	if scheme, rest, ok := strings.Cut(dsn, "://"); ok {
		switch strings.ToLower(scheme) {
		case "postgres", "postgresql":
			if _, err := pq.ParseURL(dsn); err != nil {
				return "", fmt.Errorf("dialect: parse postgres url: %w", err)
			}
			return Postgres, nil
		case "sqlserver":
			if _, err := msdsn.Parse(dsn); err != nil {
				return "", fmt.Errorf("dialect: parse sqlserver url: %w", err)
			}
			return SQLServer, nil
		case "mysql":
			if _, err := mysql.ParseDSN(rest); err != nil {
				return "", fmt.Errorf("dialect: parse mysql dsn: %w", err)
			}
			return MySQL, nil
		case "sqlite", "sqlite3", "file":
			return SQLite, nil
		default:
			return "", fmt.Errorf("%w: scheme %q", ErrUnknownDSN, scheme)
		}
	}
	lower := strings.ToLower(dsn)
	switch {
	case lower == ":memory:" || strings.HasPrefix(lower, "file:"):
		return SQLite, nil
	case sqliteExt[filepath.Ext(strings.SplitN(lower, "?", 2)[0])]:
		return SQLite, nil
	case strings.Contains(dsn, ";") && keyValueRe.MatchString(lower):
		if _, err := msdsn.Parse(dsn); err != nil {
			return "", fmt.Errorf("dialect: parse sqlserver dsn: %w", err)
		}
		return SQLServer, nil
	case keyValueRe.MatchString(lower):
		return Postgres, nil
	}
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnknownDSN, err)
	}
	return MySQL, nil
}
