package sql

import (
	"slices"
	"strings"

	"github.com/syssam/sqlweave"
)

// GroupBy is an ordered list of grouping expressions. It is a builder and
// must not be mutated concurrently.
type GroupBy struct {
	elems []*Expression
}

// NewGroupBy returns a GROUP BY clause over the given expressions.
func NewGroupBy(exprs ...*Expression) *GroupBy {
	g := &GroupBy{}
	for _, e := range exprs {
		g.AddExpr(e)
	}
	return g
}

// Add appends Expr(template, args...).
func (g *GroupBy) Add(template string, args ...any) *GroupBy {
	return g.AddExpr(Expr(template, args...))
}

// AddExpr appends e. It panics if e is nil.
func (g *GroupBy) AddExpr(e *Expression) *GroupBy {
	if e == nil {
		panic(&sqlweave.BuilderError{Op: "sql.GroupBy", Message: "nil expression"})
	}
	g.elems = append(g.elems, e)
	return g
}

// Elements returns a copy of the expressions.
func (g *GroupBy) Elements() []*Expression { return slices.Clone(g.elems) }

// IsEmpty reports whether the clause has no expressions.
func (g *GroupBy) IsEmpty() bool { return g == nil || len(g.elems) == 0 }

// Render returns "GROUP BY a, b", or "" for an empty clause.
func (g *GroupBy) Render(d Database, s Scope, args *[]any) (string, error) {
	if g.IsEmpty() {
		return "", nil
	}
	parts, err := renderAll(d, s, args, g.elems)
	if err != nil {
		return "", err
	}
	return "GROUP BY " + strings.Join(parts, ", "), nil
}

// Clone returns a copy with its own element list.
func (g *GroupBy) Clone() *GroupBy {
	if g == nil {
		return nil
	}
	return &GroupBy{elems: slices.Clone(g.elems)}
}

// Equal reports whether both clauses hold equal expressions.
func (g *GroupBy) Equal(other *GroupBy) bool {
	if g.IsEmpty() || other.IsEmpty() {
		return g.IsEmpty() == other.IsEmpty()
	}
	return slices.EqualFunc(g.elems, other.elems, (*Expression).Equal)
}

// Direction is the sort direction of an ORDER BY element.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

// String returns ASC or DESC.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderElement is an expression with a sort direction.
type OrderElement struct {
	Expr *Expression
	Dir  Direction
}

// OrderBy is an ordered list of sort elements. It is a builder and must
// not be mutated concurrently.
type OrderBy struct {
	elems []OrderElement
}

// NewOrderBy returns an empty ORDER BY clause.
func NewOrderBy() *OrderBy { return &OrderBy{} }

// Add appends Expr(template, args...) in ascending order.
func (o *OrderBy) Add(template string, args ...any) *OrderBy {
	return o.AddElement(OrderElement{Expr: Expr(template, args...)})
}

// AddElement appends e. It panics if e has no expression.
func (o *OrderBy) AddElement(e OrderElement) *OrderBy {
	if e.Expr == nil {
		panic(&sqlweave.BuilderError{Op: "sql.OrderBy", Message: "nil expression"})
	}
	o.elems = append(o.elems, e)
	return o
}

// SetDirection sets the direction of the last added element.
func (o *OrderBy) SetDirection(dir Direction) error {
	if len(o.elems) == 0 {
		return &sqlweave.IllegalStateError{Op: "sql.OrderBy." + dir.String(), Message: "no element to apply a direction to"}
	}
	o.elems[len(o.elems)-1].Dir = dir
	return nil
}

// Asc marks the last added element ascending. It panics if there is none.
func (o *OrderBy) Asc() *OrderBy {
	if err := o.SetDirection(Asc); err != nil {
		panic(err)
	}
	return o
}

// Desc marks the last added element descending. It panics if there is none.
func (o *OrderBy) Desc() *OrderBy {
	if err := o.SetDirection(Desc); err != nil {
		panic(err)
	}
	return o
}

// Elements returns a copy of the elements.
func (o *OrderBy) Elements() []OrderElement { return slices.Clone(o.elems) }

// IsEmpty reports whether the clause has no elements.
func (o *OrderBy) IsEmpty() bool { return o == nil || len(o.elems) == 0 }

// Render returns "ORDER BY a ASC, b DESC", or "" for an empty clause.
func (o *OrderBy) Render(d Database, s Scope, args *[]any) (string, error) {
	if o.IsEmpty() {
		return "", nil
	}
	parts := make([]string, 0, len(o.elems))
	for _, e := range o.elems {
		text, err := e.Expr.Render(d, s, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, text+" "+e.Dir.String())
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// Clone returns a copy with its own element list.
func (o *OrderBy) Clone() *OrderBy {
	if o == nil {
		return nil
	}
	return &OrderBy{elems: slices.Clone(o.elems)}
}

// Equal reports whether both clauses hold equal elements.
func (o *OrderBy) Equal(other *OrderBy) bool {
	if o.IsEmpty() || other.IsEmpty() {
		return o.IsEmpty() == other.IsEmpty()
	}
	return slices.EqualFunc(o.elems, other.elems, func(a, b OrderElement) bool {
		return a.Dir == b.Dir && a.Expr.Equal(b.Expr)
	})
}

func renderAll(d Database, s Scope, args *[]any, exprs []*Expression) ([]string, error) {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		text, err := e.Render(d, s, args)
		if err != nil {
			return nil, err
		}
		parts = append(parts, text)
	}
	return parts, nil
}
