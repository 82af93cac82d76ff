package sql

import (
	"strings"

	"github.com/syssam/sqlweave"
)

// SubqueryCondition renders "<left> (<subselect>) <right>". At most one of
// left and right is set.
type SubqueryCondition struct {
	left, right *Expression
	inner       *Query
}

// NewSubqueryCondition returns a subquery condition. The inner query is
// copied, its WHERE defaults to All, and it is linked to outer so it can
// reference the outer aliases.
func NewSubqueryCondition(left *Expression, outer Scope, inner *Query, right *Expression) (*SubqueryCondition, error) {
	if inner == nil {
		return nil, &sqlweave.BuilderError{Op: "sql.NewSubqueryCondition", Message: "nil inner query"}
	}
	if left == nil {
		left = EmptyExpr
	}
	if right == nil {
		right = EmptyExpr
	}
	if !left.IsEmpty() && !right.IsEmpty() {
		return nil, &sqlweave.BuilderError{
			Op:      "sql.NewSubqueryCondition",
			Message: "only one of the left and right expressions may be set",
		}
	}
	q := inner.Clone()
	if q.where.IsEmpty() {
		q.where = All
	}
	if outer != nil {
		q.parent = outer
	}
	return &SubqueryCondition{left: left, right: right, inner: q}, nil
}

func mustSubquery(c *SubqueryCondition, err error) *SubqueryCondition {
	if err != nil {
		panic(err)
	}
	return c
}

// Exists returns "EXISTS (<inner>)".
func Exists(outer Scope, inner *Query) *SubqueryCondition {
	return mustSubquery(NewSubqueryCondition(Raw("EXISTS"), outer, inner, nil))
}

// NotExists returns "NOT EXISTS (<inner>)".
func NotExists(outer Scope, inner *Query) *SubqueryCondition {
	return mustSubquery(NewSubqueryCondition(Raw("NOT EXISTS"), outer, inner, nil))
}

// InSubquery returns "<template> IN (<inner>)".
//
//	sql.InSubquery(q, orders.Columns(sql.Expr("{UserID}")), "{ID}")
func InSubquery(outer Scope, inner *Query, template string, args ...any) *SubqueryCondition {
	return mustSubquery(NewSubqueryCondition(Expr(template+" IN", args...), outer, inner, nil))
}

// Inner returns the inner query.
func (c *SubqueryCondition) Inner() *Query { return c.inner }

// IsEmpty implements Condition.
func (*SubqueryCondition) IsEmpty() bool { return false }

// Render implements Condition.
func (c *SubqueryCondition) Render(d Database, s Scope, args *[]any) (string, error) {
	inner := c.inner
	if inner.parent == nil && s != nil {
		inner = inner.Clone()
		inner.parent = s
	}
	parts := make([]string, 0, 3)
	left, err := c.left.Render(d, s, args)
	if err != nil {
		return "", err
	}
	if left != "" {
		parts = append(parts, left)
	}
	sub, err := d.SubSelectSQL(inner, args)
	if err != nil {
		return "", err
	}
	parts = append(parts, "("+sub+")")
	right, err := c.right.Render(d, s, args)
	if err != nil {
		return "", err
	}
	if right != "" {
		parts = append(parts, right)
	}
	return strings.Join(parts, " "), nil
}

var _ Condition = (*SubqueryCondition)(nil)
