package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/syssam/sqlweave"
)

// ConstraintKind is the kind of a violated database constraint.
type ConstraintKind int

// Constraint kinds.
const (
	NoConstraint ConstraintKind = iota
	UniqueConstraint
	ForeignKeyConstraint
	CheckConstraint
)

// String returns the constraint kind name.
func (k ConstraintKind) String() string {
	switch k {
	case UniqueConstraint:
		return "unique"
	case ForeignKeyConstraint:
		return "foreign key"
	case CheckConstraint:
		return "check"
	default:
		return "none"
	}
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// SQL Server error numbers for constraint violations.
const (
	mssqlUniqueIndex      = 2601
	mssqlUniqueConstraint = 2627
	mssqlConstraint       = 547 // FOREIGN KEY and CHECK share the number
)

// mssqlError is implemented by go-mssqldb errors.
type mssqlError interface {
	SQLErrorNumber() int32
	SQLErrorMessage() string
}

// sqlStateError is implemented by errors providing SQLSTATE codes.
type sqlStateError interface {
	SQLState() string
}

// Constraint classifies err as a constraint violation reported by one of
// the supported drivers.
func Constraint(err error) ConstraintKind {
	if err == nil {
		return NoConstraint
	}
	var (
		pqErr     *pq.Error
		pgxErr    *pgconn.PgError
		mysqlErr  *mysql.MySQLError
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pqErr):
		return pgConstraint(string(pqErr.Code))
	case errors.As(err, &pgxErr):
		return pgConstraint(pgxErr.Code)
	case errors.As(err, &mysqlErr):
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return UniqueConstraint
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return ForeignKeyConstraint
		case mysqlCheckConstraintViolate:
			return CheckConstraint
		}
		return NoConstraint
	case errors.As(err, &sqliteErr):
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return UniqueConstraint
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ForeignKeyConstraint
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return CheckConstraint
		}
		return NoConstraint
	}
	if e, ok := asError[mssqlError](err); ok {
		switch e.SQLErrorNumber() {
		case mssqlUniqueIndex, mssqlUniqueConstraint:
			return UniqueConstraint
		case mssqlConstraint:
			if strings.Contains(e.SQLErrorMessage(), "CHECK") {
				return CheckConstraint
			}
			return ForeignKeyConstraint
		}
		return NoConstraint
	}
	if e, ok := asError[sqlStateError](err); ok {
		if k := pgConstraint(e.SQLState()); k != NoConstraint {
			return k
		}
	}
	// Fallback to string matching for drivers that don't expose codes.
	msg := err.Error()
	switch {
	case containsAny(msg, "Error 1062", "violates unique constraint", "UNIQUE constraint failed"):
		return UniqueConstraint
	case containsAny(msg, "Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"):
		return ForeignKeyConstraint
	case containsAny(msg, "Error 3819", "violates check constraint", "CHECK constraint failed"):
		return CheckConstraint
	}
	return NoConstraint
}

func pgConstraint(code string) ConstraintKind {
	switch code {
	case pgUniqueViolation:
		return UniqueConstraint
	case pgForeignKeyViolation:
		return ForeignKeyConstraint
	case pgCheckViolation:
		return CheckConstraint
	default:
		return NoConstraint
	}
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool { return Constraint(err) == UniqueConstraint }

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool { return Constraint(err) == ForeignKeyConstraint }

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool { return Constraint(err) == CheckConstraint }

// constraintError wraps driver constraint violations in a
// sqlweave.ConstraintError and returns other errors unchanged.
func constraintError(err error) error {
	if k := Constraint(err); k != NoConstraint && !sqlweave.IsConstraintError(err) {
		return sqlweave.NewConstraintError(k.String()+" constraint violated", err)
	}
	return err
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
