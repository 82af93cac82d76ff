package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave"
)

type stateError string

func (e stateError) Error() string    { return "state " + string(e) }
func (e stateError) SQLState() string { return string(e) }

func TestConstraint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConstraintKind
	}{
		{"Nil", nil, NoConstraint},
		{"PostgresUnique", &pq.Error{Code: "23505"}, UniqueConstraint},
		{"PostgresForeignKey", &pq.Error{Code: "23503"}, ForeignKeyConstraint},
		{"PostgresCheck", fmt.Errorf("insert: %w", &pq.Error{Code: "23514"}), CheckConstraint},
		{"PostgresOther", &pq.Error{Code: "42P01"}, NoConstraint},
		{"PgxUnique", &pgconn.PgError{Code: "23505"}, UniqueConstraint},
		{"PgxForeignKey", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "23503"}), ForeignKeyConstraint},
		{"MySQLUnique", &mysql.MySQLError{Number: 1062}, UniqueConstraint},
		{"MySQLForeignKey", &mysql.MySQLError{Number: 1452}, ForeignKeyConstraint},
		{"MySQLParentRow", &mysql.MySQLError{Number: 1451}, ForeignKeyConstraint},
		{"MySQLCheck", &mysql.MySQLError{Number: 3819}, CheckConstraint},
		{"MySQLOther", &mysql.MySQLError{Number: 1045}, NoConstraint},
		{"SQLServerUnique", mssql.Error{Number: 2627}, UniqueConstraint},
		{"SQLServerUniqueIndex", fmt.Errorf("exec: %w", mssql.Error{Number: 2601}), UniqueConstraint},
		{"SQLServerForeignKey", mssql.Error{Number: 547, Message: "conflicted with the FOREIGN KEY constraint"}, ForeignKeyConstraint},
		{"SQLServerCheck", mssql.Error{Number: 547, Message: "conflicted with the CHECK constraint"}, CheckConstraint},
		{"SQLState", stateError("23505"), UniqueConstraint},
		{"SQLiteMessage", errors.New("UNIQUE constraint failed: users.name"), UniqueConstraint},
		{"ForeignKeyMessage", errors.New("FOREIGN KEY constraint failed"), ForeignKeyConstraint},
		{"CheckMessage", errors.New(`new row violates check constraint "age"`), CheckConstraint},
		{"Other", errors.New("connection refused"), NoConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Constraint(tt.err))
			assert.Equal(t, tt.want == UniqueConstraint, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.want == ForeignKeyConstraint, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.want == CheckConstraint, IsCheckConstraintError(tt.err))
		})
	}
}

func TestConstraintKind_String(t *testing.T) {
	assert.Equal(t, "none", NoConstraint.String())
	assert.Equal(t, "unique", UniqueConstraint.String())
	assert.Equal(t, "foreign key", ForeignKeyConstraint.String())
	assert.Equal(t, "check", CheckConstraint.String())
}

func TestConstraintError(t *testing.T) {
	cause := &pq.Error{Code: "23505"}
	err := constraintError(cause)
	require.True(t, sqlweave.IsConstraintError(err))
	assert.Contains(t, err.Error(), "unique constraint violated")
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Same(t, cause, pqErr)

	// Already wrapped errors and other errors are returned unchanged.
	assert.Equal(t, err, constraintError(err))
	other := errors.New("boom")
	assert.Same(t, other, constraintError(other))
	assert.NoError(t, constraintError(nil))
}
