package sql

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/syssam/sqlweave"
)

// Condition is a boolean SQL fragment usable in WHERE, ON and HAVING.
// Conditions are immutable once built.
type Condition interface {
	// IsEmpty reports whether the condition renders nothing.
	IsEmpty() bool
	// Render renders the condition, appending bind parameters to args in
	// textual order.
	Render(d Database, s Scope, args *[]any) (string, error)
}

var (
	// Empty is the identity of And and Or. It renders to "".
	Empty Condition = &LogicalCondition{op: OpAnd}
	// All matches every row.
	All Condition = Raw("0 = 0")
)

// Op is the operator of a LogicalCondition.
type Op int

// Logical operators.
const (
	OpAnd Op = iota
	OpOr
)

var opSQL = [...]string{
	OpAnd: " AND ",
	OpOr:  " OR ",
}

// String returns the SQL keyword of the operator.
func (o Op) String() string {
	return strings.TrimSpace(opSQL[o])
}

// LogicalCondition is an n-ary AND or OR node. Children with the same
// operator are spliced in place and empty children are dropped at
// construction.
type LogicalCondition struct {
	op       Op
	children []Condition
}

// NewAnd returns an AND node over conds. It panics if a condition is nil.
func NewAnd(conds ...Condition) *LogicalCondition {
	return newLogical(OpAnd, slices.Values(conds))
}

// NewOr returns an OR node over conds. It panics if a condition is nil.
func NewOr(conds ...Condition) *LogicalCondition {
	return newLogical(OpOr, slices.Values(conds))
}

// AndOf returns an AND node over a sequence of conditions.
func AndOf(seq iter.Seq[Condition]) *LogicalCondition {
	return newLogical(OpAnd, seq)
}

// OrOf returns an OR node over a sequence of conditions.
func OrOf(seq iter.Seq[Condition]) *LogicalCondition {
	return newLogical(OpOr, seq)
}

func newLogical(op Op, seq iter.Seq[Condition]) *LogicalCondition {
	if seq == nil {
		panic(&sqlweave.BuilderError{Op: "sql." + op.title(), Message: "nil condition sequence"})
	}
	l := &LogicalCondition{op: op}
	i := 0
	for c := range seq {
		mustCondition("sql."+op.title(), i, c)
		i++
		if lc, ok := c.(*LogicalCondition); ok && lc.op == op {
			l.children = append(l.children, lc.children...)
			continue
		}
		if !c.IsEmpty() {
			l.children = append(l.children, c)
		}
	}
	return l
}

func (o Op) title() string {
	if o == OpOr {
		return "Or"
	}
	return "And"
}

func mustCondition(op string, i int, c Condition) {
	if c == nil || isNilValue(c) {
		panic(&sqlweave.BuilderError{Op: op, Message: fmt.Sprintf("nil condition at index %d", i)})
	}
}

// Op returns the operator of the node.
func (l *LogicalCondition) Op() Op { return l.op }

// Children returns a copy of the children.
func (l *LogicalCondition) Children() []Condition {
	return slices.Clone(l.children)
}

// IsEmpty implements Condition.
func (l *LogicalCondition) IsEmpty() bool { return len(l.children) == 0 }

// Optimized returns Empty for a node without children, the only child for
// a node with one, and the node itself otherwise.
func (l *LogicalCondition) Optimized() Condition {
	switch len(l.children) {
	case 0:
		return Empty
	case 1:
		return l.children[0]
	default:
		return l
	}
}

// Render implements Condition. An OR child of an AND node is wrapped in
// parentheses.
func (l *LogicalCondition) Render(d Database, s Scope, args *[]any) (string, error) {
	parts := make([]string, 0, len(l.children))
	for _, c := range l.children {
		text, err := c.Render(d, s, args)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		if or, ok := c.(*LogicalCondition); ok && l.op == OpAnd && or.op == OpOr && len(or.children) > 1 {
			text = "(" + text + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, opSQL[l.op]), nil
}

// And combines conditions with AND. Empty operands are ignored, so
// And(c, Empty) returns c itself.
func And(c Condition, more ...Condition) Condition {
	return combine(OpAnd, append([]Condition{c}, more...))
}

// Or combines conditions with OR. Empty operands are ignored, so
// Or(c, Empty) returns c itself.
func Or(c Condition, more ...Condition) Condition {
	return combine(OpOr, append([]Condition{c}, more...))
}

func combine(op Op, conds []Condition) Condition {
	kept := conds[:0:0]
	for i, c := range conds {
		mustCondition("sql."+op.title(), i, c)
		if !c.IsEmpty() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return newLogical(op, slices.Values(kept)).Optimized()
}

// NotCondition negates its child.
type NotCondition struct {
	child Condition
}

// NewNot returns the negation of c. It panics if c is nil.
func NewNot(c Condition) *NotCondition {
	mustCondition("sql.Not", 0, c)
	return &NotCondition{child: c}
}

// Not returns the optimized negation of c.
func Not(c Condition) Condition {
	return NewNot(c).Optimized()
}

// Child returns the negated condition.
func (n *NotCondition) Child() Condition { return n.child }

// Optimized removes a double negation.
func (n *NotCondition) Optimized() Condition {
	if inner, ok := n.child.(*NotCondition); ok {
		return inner.child
	}
	return n
}

// IsEmpty implements Condition.
func (n *NotCondition) IsEmpty() bool { return n.child.IsEmpty() }

// Render implements Condition.
func (n *NotCondition) Render(d Database, s Scope, args *[]any) (string, error) {
	text, err := n.child.Render(d, s, args)
	if err != nil || text == "" {
		return "", err
	}
	return "NOT(" + text + ")", nil
}

var (
	_ Condition = (*LogicalCondition)(nil)
	_ Condition = (*NotCondition)(nil)
)
