package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/schema"
)

func itemInfo(t *testing.T) *schema.EntityInfo {
	t.Helper()
	return schema.Entity("Item").Fields(
		schema.Field("id").Key(),
		schema.Field("dept"),
		schema.Field("name"),
	).MustDescriptor()
}

func TestExpression_Render(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	users, orders := usersInfo(t), ordersInfo(t)
	scope := NewScope(users, "u", nil).Join("o", orders)

	tests := []struct {
		name     string
		expr     *Expression
		wantText string
		wantArgs []any
	}{
		{
			name:     "column",
			expr:     Expr("{Name} = {}", "a8m"),
			wantText: "u.name = 'a8m'",
		},
		{
			name:     "joined alias",
			expr:     Expr("{o.UserID} = {u.ID}"),
			wantText: "o.user_id = u.id",
		},
		{
			name:     "joined result alias",
			expr:     Expr("{o_UserID}"),
			wantText: "o_user_id",
		},
		{
			name:     "joined result alias and column",
			expr:     Expr("{o_ID} / {o.ID}"),
			wantText: "o_id / o.id",
		},
		{
			name:     "whitespace in braces",
			expr:     Expr("{ Age } > { }", 18),
			wantText: "u.age > 18",
		},
		{
			name:     "escaped braces",
			expr:     Expr(`\{Name\} = {}`, 1),
			wantText: "{Name} = 1",
		},
		{
			name:     "raw",
			expr:     Raw(`a{b}\c`),
			wantText: `a{b}\c`,
		},
		{
			name:     "null",
			expr:     Expr("{Name} IS {}", nil),
			wantText: "u.name IS NULL",
		},
		{
			name:     "nested condition",
			expr:     Expr("NOT ({})", NewOr(Expr("a = 1"), Expr("b = {}", 2))),
			wantText: "NOT (a = 1 OR b = 2)",
		},
		{
			name:     "unclosed brace",
			expr:     Expr("a = {Name"),
			wantText: "a = {Name",
		},
		{
			name:     "trailing backslash",
			expr:     Expr(`a\`),
			wantText: `a\`,
		},
		{
			name:     "empty",
			expr:     Expr(""),
			wantText: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, args := render(t, d, scope, tt.expr)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestExpression_ColumnAndValue(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	text, args := render(t, d, NewScope(itemInfo(t), "", nil), Expr("{id}={}", 5))
	assert.Equal(t, "id=5", text)
	assert.Empty(t, args)
}

func TestExpression_LongValuesBecomeParameters(t *testing.T) {
	d := Standard(WithLogger(quiet()), WithMaxStringLiteral(4))
	text, args := render(t, d, nil, Expr("{} = {} AND {} = {}", "long value", 1, "abc", "another long value"))
	assert.Equal(t, "? = 1 AND 'abc' = ?", text)
	assert.Equal(t, []any{"long value", "another long value"}, args)
	assert.Equal(t, len(args), countPlaceholders(text))
}

func TestExpression_Degradation(t *testing.T) {
	logger, buf := capture()
	d := Standard(WithLogger(logger))
	scope := NewScope(usersInfo(t), "", nil)

	text, args := render(t, d, scope, Expr("a = {} AND b = {}", 1))
	assert.Equal(t, "a = 1 AND b = {***}", text)
	assert.Empty(t, args)
	assert.Contains(t, buf.String(), "missing expression argument")

	buf.Reset()
	text, _ = render(t, d, scope, Expr("{Nope} = 1"))
	assert.Equal(t, "{Nope} = 1", text)
	assert.Contains(t, buf.String(), "unresolved expression reference")
	assert.Contains(t, buf.String(), "Nope")

	buf.Reset()
	text, _ = render(t, d, NewScope(usersInfo(t), "", &user{ID: 1}), Expr("{#Nope} = 1"))
	assert.Equal(t, "{#Nope} = 1", text)
	assert.Contains(t, buf.String(), "unresolved entity property")
}

func TestExpression_EntityProperty(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	info := usersInfo(t)

	text, args := render(t, d, NewScope(info, "", &user{ID: 7, Name: "it's"}), Expr("{ID} = {#ID} AND {Name} = {#Name}"))
	assert.Equal(t, "id = 7 AND name = 'it''s'", text)
	assert.Empty(t, args)

	var out []any
	_, err := Expr("{ID} = {#ID}").Render(d, NewScope(info, "", nil), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlweave.ErrIllegalState)
}

func TestExpression_MissingConverter(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	var args []any
	_, err := Expr("{}", struct{ A int }{1}).Render(d, nil, &args)
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlweave.ErrMissingConverter)
}

func TestExpression_Idempotent(t *testing.T) {
	d := Postgres(WithLogger(quiet()), WithMaxStringLiteral(2))
	e := Expr("{Name} = {} OR {Age} > {}", "abc", 3)
	scope := NewScope(usersInfo(t), "u", nil)
	text1, args1 := render(t, d, scope, e)
	text2, args2 := render(t, d, scope, e)
	assert.Equal(t, text1, text2)
	assert.Equal(t, args1, args2)
	assert.Equal(t, "u.name = ? OR u.age > 3", text1)
	assert.Equal(t, []any{"abc"}, args1)
}

func TestExpression_Equal(t *testing.T) {
	assert.True(t, Expr("a = {}", 1).Equal(Expr("a = {}", 1)))
	assert.False(t, Expr("a = {}", 1).Equal(Expr("a = {}", 2)))
	assert.True(t, Expr("").Equal(EmptyExpr))
	assert.True(t, EmptyExpr.IsEmpty())
	assert.Same(t, EmptyExpr, Expr(""))
	assert.Equal(t, "a = {}", Expr("a = {}", 1).String())
	e := Expr("{}", 1)
	args := e.Args()
	args[0] = 2
	assert.Equal(t, []any{1}, e.Args())
}

// countPlaceholders counts ? outside of quoted strings.
func countPlaceholders(s string) int {
	n := 0
	rebind(s, func(int) string { n++; return "?" })
	return n
}
