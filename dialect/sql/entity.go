package sql

import (
	"fmt"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/schema"
)

// EntityCondition matches the row of one entity by its key columns.
type EntityCondition struct {
	info   *schema.EntityInfo
	entity any
	keys   []*schema.ColumnInfo
}

// NewEntityCondition returns the key condition of entity. It fails if the
// entity has no key columns.
func NewEntityCondition(info *schema.EntityInfo, entity any) (*EntityCondition, error) {
	if info == nil {
		return nil, &sqlweave.BuilderError{Op: "sql.NewEntityCondition", Message: "nil entity info"}
	}
	keys := info.KeyColumns()
	if len(keys) == 0 {
		return nil, sqlweave.NewEntityConditionError(info.Name)
	}
	return &EntityCondition{info: info, entity: entity, keys: keys}, nil
}

// IsEmpty implements Condition.
func (*EntityCondition) IsEmpty() bool { return false }

// Entity returns the matched entity value.
func (c *EntityCondition) Entity() any { return c.entity }

// Render implements Condition. A nil key value renders as IS NULL.
func (c *EntityCondition) Render(d Database, s Scope, args *[]any) (string, error) {
	if s == nil {
		s = noScope{}
	}
	conds := make([]Condition, 0, len(c.keys))
	for _, k := range c.keys {
		v, ok := k.Value(c.entity)
		if !ok {
			return "", fmt.Errorf("dialect/sql: entity %s: cannot read key %s: %w",
				c.info.Name, k.Property, sqlweave.ErrInvalidEntityCondition)
		}
		col := escapeTemplate(qualify(s.Alias(), k.Name))
		if isNilValue(v) {
			conds = append(conds, Expr(col+" IS NULL"))
			continue
		}
		conds = append(conds, Expr(col+" = {}", v))
	}
	return NewAnd(conds...).Render(d, s, args)
}

var _ Condition = (*EntityCondition)(nil)
