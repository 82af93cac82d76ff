package sql

import (
	"fmt"
	"slices"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/schema"
)

// JoinKind is the kind of a join.
type JoinKind int

// Join kinds.
const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
)

var joinSQL = [...]string{
	InnerJoin: "INNER JOIN",
	LeftJoin:  "LEFT JOIN",
	RightJoin: "RIGHT JOIN",
	FullJoin:  "FULL JOIN",
}

// String returns the SQL keywords of the join.
func (k JoinKind) String() string { return joinSQL[k] }

// Join is a joined entity.
type Join struct {
	Kind  JoinKind
	Info  *schema.EntityInfo
	Alias string
	On    Condition
}

// LockMode is the row lock requested by a SELECT.
type LockMode int

// Lock modes.
const (
	LockNone LockMode = iota
	LockUpdate
	LockShare
)

// LockWait is the wait policy of a row lock.
type LockWait int

// Lock wait policies.
const (
	WaitDefault LockWait = iota
	WaitNoWait
	WaitSkipLocked
)

// Assignment is one "column = value" of an UPDATE or INSERT.
type Assignment struct {
	// Property is the property name, or a column name when the entity has
	// no such property.
	Property string
	Value    *Expression
}

// Query holds the clause state of one statement and is the Scope its
// expressions render against. Builder methods modify and return the
// receiver; use Clone to branch.
type Query struct {
	info     *schema.EntityInfo
	table    string
	alias    string
	value    any
	columns  []*Expression
	distinct bool
	joins    []*Join
	where    Condition
	groupBy  *GroupBy
	having   Condition
	orderBy  *OrderBy
	limit    *int
	offset   *int
	lock     LockMode
	wait     LockWait
	sets     []Assignment
	parent   Scope
}

// Select returns a query over the given entity.
func Select(info *schema.EntityInfo) *Query {
	if info == nil {
		panic(&sqlweave.BuilderError{Op: "sql.Select", Message: "nil entity info"})
	}
	return &Query{info: info, where: Empty, having: Empty}
}

// From returns a query over a table without entity metadata.
func From(table string) *Query {
	return &Query{table: table, where: Empty, having: Empty}
}

// QueryFor returns a query over the entity registered under name.
func QueryFor(p schema.Provider, name string) (*Query, error) {
	info, ok := p.Entity(name)
	if !ok {
		return nil, &sqlweave.BuilderError{Op: "sql.QueryFor", Message: fmt.Sprintf("unknown entity %q", name)}
	}
	return Select(info), nil
}

// As sets the table alias.
func (q *Query) As(alias string) *Query {
	q.alias = alias
	return q
}

// Bind sets the live entity value used by {#Prop}, INSERT values and the
// default key condition of UPDATE and DELETE.
func (q *Query) Bind(v any) *Query {
	q.value = v
	return q
}

// Columns sets the selected columns, replacing the entity's columns.
func (q *Query) Columns(exprs ...*Expression) *Query {
	q.columns = append(q.columns[:0:0], exprs...)
	return q
}

// Distinct adds DISTINCT to the SELECT.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

// Join adds a join.
func (q *Query) Join(kind JoinKind, info *schema.EntityInfo, alias string, on Condition) *Query {
	if info == nil {
		panic(&sqlweave.BuilderError{Op: "sql.Join", Message: "nil entity info"})
	}
	if alias == "" {
		panic(&sqlweave.BuilderError{Op: "sql.Join", Message: "joins need an alias"})
	}
	if on == nil {
		on = Empty
	}
	q.joins = append(q.joins, &Join{Kind: kind, Info: info, Alias: alias, On: on})
	return q
}

// InnerJoin adds an INNER JOIN.
func (q *Query) InnerJoin(info *schema.EntityInfo, alias string, on Condition) *Query {
	return q.Join(InnerJoin, info, alias, on)
}

// LeftJoin adds a LEFT JOIN.
func (q *Query) LeftJoin(info *schema.EntityInfo, alias string, on Condition) *Query {
	return q.Join(LeftJoin, info, alias, on)
}

// RightJoin adds a RIGHT JOIN.
func (q *Query) RightJoin(info *schema.EntityInfo, alias string, on Condition) *Query {
	return q.Join(RightJoin, info, alias, on)
}

// FullJoin adds a FULL JOIN.
func (q *Query) FullJoin(info *schema.EntityInfo, alias string, on Condition) *Query {
	return q.Join(FullJoin, info, alias, on)
}

// Where ANDs c onto the WHERE condition.
func (q *Query) Where(c Condition) *Query {
	q.where = And(q.where, c)
	return q
}

// Having ANDs c onto the HAVING condition.
func (q *Query) Having(c Condition) *Query {
	q.having = And(q.having, c)
	return q
}

// GroupBy sets the GROUP BY clause.
func (q *Query) GroupBy(g *GroupBy) *Query {
	q.groupBy = g
	return q
}

// OrderBy sets the ORDER BY clause.
func (q *Query) OrderBy(o *OrderBy) *Query {
	q.orderBy = o
	return q
}

// Limit sets the row limit.
func (q *Query) Limit(n int) *Query {
	if n < 0 {
		panic(&sqlweave.BuilderError{Op: "sql.Limit", Message: fmt.Sprintf("negative limit %d", n)})
	}
	q.limit = &n
	return q
}

// Offset sets the number of skipped rows.
func (q *Query) Offset(n int) *Query {
	if n < 0 {
		panic(&sqlweave.BuilderError{Op: "sql.Offset", Message: fmt.Sprintf("negative offset %d", n)})
	}
	q.offset = &n
	return q
}

// ForUpdate locks the selected rows for update.
func (q *Query) ForUpdate() *Query {
	q.lock = LockUpdate
	return q
}

// ForShare locks the selected rows in share mode.
func (q *Query) ForShare() *Query {
	q.lock = LockShare
	return q
}

// NoWait makes the lock fail instead of waiting.
func (q *Query) NoWait() *Query {
	q.wait = WaitNoWait
	return q
}

// SkipLocked skips rows locked by others.
func (q *Query) SkipLocked() *Query {
	q.wait = WaitSkipLocked
	return q
}

// Set adds an explicit assignment of value to the property. Explicit
// assignments replace the entity's columns in INSERT and UPDATE.
func (q *Query) Set(prop string, value any) *Query {
	return q.SetExpr(prop, "{}", value)
}

// SetExpr adds an explicit assignment of Expr(template, args...).
func (q *Query) SetExpr(prop, template string, args ...any) *Query {
	q.sets = append(q.sets, Assignment{Property: prop, Value: Expr(template, args...)})
	return q
}

// Clone returns a deep copy of the clause lists. Conditions and
// expressions are immutable and shared.
func (q *Query) Clone() *Query {
	c := *q
	c.columns = slices.Clone(q.columns)
	c.joins = slices.Clone(q.joins)
	c.sets = slices.Clone(q.sets)
	c.groupBy = q.groupBy.Clone()
	c.orderBy = q.orderBy.Clone()
	if q.limit != nil {
		n := *q.limit
		c.limit = &n
	}
	if q.offset != nil {
		n := *q.offset
		c.offset = &n
	}
	return &c
}

// Table returns the table name.
func (q *Query) Table() string {
	if q.table != "" || q.info == nil {
		return q.table
	}
	return q.info.Table
}

// Joins returns the joins.
func (q *Query) Joins() []*Join { return slices.Clone(q.joins) }

// WhereCondition returns the WHERE condition.
func (q *Query) WhereCondition() Condition { return q.where }

// Alias implements Scope.
func (q *Query) Alias() string { return q.alias }

// Entity implements Scope.
func (q *Query) Entity() *schema.EntityInfo { return q.info }

// Value implements Scope.
func (q *Query) Value() any { return q.value }

// Resolve implements Scope. It checks the query's own alias, then the
// joins, then the enclosing query.
func (q *Query) Resolve(alias string) (*schema.EntityInfo, bool) {
	if alias == "" {
		return nil, false
	}
	if alias == q.alias && q.info != nil {
		return q.info, true
	}
	for _, j := range q.joins {
		if j.Alias == alias {
			return j.Info, true
		}
	}
	if q.parent != nil {
		return q.parent.Resolve(alias)
	}
	return nil, false
}

var _ Scope = (*Query)(nil)
