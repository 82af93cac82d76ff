package sql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/dialect"
)

func openSQLite(t *testing.T) *Driver {
	t.Helper()
	drv, err := Open(dialect.SQLite, ":memory:", WithLogger(quiet()))
	require.NoError(t, err)
	// Every connection to :memory: is a new database.
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })
	return drv
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	require.Equal(t, dialect.SQLite, drv.Dialect())
	require.NoError(t, drv.Exec(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		age INTEGER NOT NULL
	)`, []any{}, nil))

	users := usersInfo(t)
	d := drv.Database()
	exec := func(kind Kind, q *Query) Result {
		t.Helper()
		st, err := Build(d, kind, q)
		require.NoError(t, err)
		res, err := drv.ExecStatement(ctx, st)
		require.NoError(t, err)
		return res
	}
	selectUsers := func(q *Query) []user {
		t.Helper()
		st, err := Build(d, SelectKind, q)
		require.NoError(t, err)
		rows, err := drv.QueryStatement(ctx, st)
		require.NoError(t, err)
		defer rows.Close()
		var out []user
		for rows.Next() {
			var u user
			require.NoError(t, rows.Scan(&u.ID, &u.Name, &u.Age))
			out = append(out, u)
		}
		require.NoError(t, rows.Err())
		return out
	}

	for _, u := range []*user{{ID: 1, Name: "Ariel", Age: 30}, {ID: 2, Name: "it's me", Age: 41}} {
		exec(InsertKind, Select(users).Bind(u))
	}
	assert.Equal(t, []user{{1, "Ariel", 30}, {2, "it's me", 41}},
		selectUsers(Select(users).OrderBy(NewOrderBy().Add("{ID}"))))

	res := exec(UpdateKind, Select(users).Bind(&user{ID: 1, Name: "Ariel", Age: 31}))
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got := selectUsers(Select(users).As("u").Where(IntField("Age").GT(30)).OrderBy(NewOrderBy().Add("{Name}").Desc()).Limit(10))
	assert.Equal(t, []user{{2, "it's me", 41}, {1, "Ariel", 31}}, got)

	got = selectUsers(Select(users).Where(String("Name").Contains("'")).Offset(0))
	assert.Equal(t, []user{{2, "it's me", 41}}, got)

	// Values above the literal threshold are bound as parameters.
	long := Select(users).Bind(&user{ID: 3, Name: "a very long name indeed", Age: 5})
	st, err := Build(SQLite(WithMaxStringLiteral(4)), InsertKind, long)
	require.NoError(t, err)
	assert.Equal(t, []any{"a very long name indeed"}, st.Args)
	_, err = drv.ExecStatement(ctx, st)
	require.NoError(t, err)

	st, err = Build(d, InsertKind, Select(users).Bind(&user{ID: 4, Name: "Ariel", Age: 1}))
	require.NoError(t, err)
	_, err = drv.ExecStatement(ctx, st)
	require.Error(t, err)
	assert.True(t, IsUniqueConstraintError(err))
	assert.True(t, sqlweave.IsConstraintError(err))

	exec(DeleteKind, Select(users).Bind(&user{ID: 2}))
	exec(DeleteKind, Select(users).Where(IntField("Age").LT(10)))
	assert.Equal(t, []user{{1, "Ariel", 31}}, selectUsers(Select(users)))
}
