package sql

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/syssam/sqlweave/schema"
)

type status string

func TestPredicates(t *testing.T) {
	accounts := schema.Entity("Account").Fields(
		schema.Field("ID").Key(),
		schema.Field("Name"),
		schema.Field("Age"),
		schema.Field("Active"),
		schema.Field("Status"),
		schema.Field("Balance"),
	).MustDescriptor()
	scope := NewScope(accounts, "a", nil)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	var (
		age     = IntField("Age")
		name    = String("Name")
		active  = Bool("Active")
		state   = Enum[status]("Status")
		balance = DecimalField("Balance")
		key     = UUIDField("ID")
	)

	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{"EQ", age.EQ(18), "a.age = 18"},
		{"NEQ", age.NEQ(18), "a.age <> 18"},
		{"GT", age.GT(18), "a.age > 18"},
		{"GTE", age.GTE(18), "a.age >= 18"},
		{"LT", age.LT(18), "a.age < 18"},
		{"LTE", age.LTE(18), "a.age <= 18"},
		{"EQNil", Field[*int]("Age").EQ(nil), "a.age IS NULL"},
		{"NEQNil", Field[*string]("Name").NEQ(nil), "a.name IS NOT NULL"},
		{"In", age.In(1, 2, 3), "a.age IN (1, 2, 3)"},
		{"InEmpty", age.In(), "1 = 0"},
		{"NotIn", age.NotIn(4), "a.age NOT IN (4)"},
		{"NotInEmpty", age.NotIn(), "0 = 0"},
		{"Between", age.Between(1, 5), "a.age BETWEEN 1 AND 5"},
		{"IsNull", age.IsNull(), "a.age IS NULL"},
		{"NotNull", age.NotNull(), "a.age IS NOT NULL"},
		{"Contains", name.Contains("50%_off!"), "a.name LIKE '%50!%!_off!!%' ESCAPE '!'"},
		{"ContainsFold", name.ContainsFold("AB"), "LOWER(a.name) LIKE '%ab%' ESCAPE '!'"},
		{"HasPrefix", name.HasPrefix("[x"), "a.name LIKE '![x%' ESCAPE '!'"},
		{"HasSuffix", name.HasSuffix("z"), "a.name LIKE '%z' ESCAPE '!'"},
		{"EqualFold", name.EqualFold("Ariel"), "LOWER(a.name) = 'ariel'"},
		{"IsTrue", active.IsTrue(), "a.active = TRUE"},
		{"IsFalse", active.IsFalse(), "a.active = FALSE"},
		{"Enum", state.EQ("open"), "a.status = 'open'"},
		{"Decimal", balance.GT(decimal.RequireFromString("10.25")), "a.balance > 10.25"},
		{"UUID", key.EQ(id), "a.id = '6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{"Compound", And(age.GTE(18), Or(name.HasPrefix("A"), active.IsTrue())),
			"a.age >= 18 AND (a.name LIKE 'A%' ESCAPE '!' OR a.active = TRUE)"},
		{"Not", Not(state.In("open", "held")), "NOT(a.status IN ('open', 'held'))"},
	}
	d := Standard(WithLogger(quiet()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, args := render(t, d, scope, tt.cond)
			assert.Equal(t, tt.want, text)
			assert.Empty(t, args)
		})
	}
}

func TestPredicates_Dialect(t *testing.T) {
	users := usersInfo(t)
	text, _ := render(t, SQLite(), NewScope(users, "", nil), Bool("Name").IsTrue())
	assert.Equal(t, "name = 1", text)
	text, _ = render(t, SQLServer(), NewScope(users, "u", nil), String("Name").HasPrefix("é"))
	assert.Equal(t, "u.name LIKE N'é%' ESCAPE '!'", text)
	assert.Equal(t, "Age", IntField("Age").Name())
}
