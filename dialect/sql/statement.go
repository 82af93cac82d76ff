package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/schema"
)

// SelectSQL implements Database.
//
//	SELECT [DISTINCT] cols FROM t [a] [joins] [WHERE] [GROUP BY] [HAVING]
//	       [ORDER BY] [pagination] [lock]
func (b *base) SelectSQL(q *Query, args *[]any) (string, error) {
	return b.selectSQL(q, args, false)
}

// SubSelectSQL implements Database. Without explicit columns it selects *,
// and row locks are not rendered.
func (b *base) SubSelectSQL(q *Query, args *[]any) (string, error) {
	return b.selectSQL(q, args, true)
}

func (b *base) selectSQL(q *Query, args *[]any, sub bool) (string, error) {
	if q == nil {
		return "", &sqlweave.BuilderError{Op: "sql.SelectSQL", Message: "nil query"}
	}
	var (
		sb   strings.Builder
		lock string
		hint string
	)
	if !sub {
		var err error
		if lock, err = b.rules.lock(b.name, q); err != nil {
			return "", err
		}
		if b.rules.hint != nil {
			if hint, err = b.rules.hint(q); err != nil {
				return "", err
			}
		}
	}
	sb.WriteString("SELECT ")
	if q.distinct {
		sb.WriteString("DISTINCT ")
	}
	cols, err := b.selectColumns(q, args, sub)
	if err != nil {
		return "", err
	}
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(tableRef(q, " "))
	sb.WriteString(hint)
	if err := b.writeJoins(&sb, q, args); err != nil {
		return "", err
	}
	if err := writeClause(&sb, b, q, args, " WHERE ", q.where); err != nil {
		return "", err
	}
	if err := writeClause(&sb, b, q, args, " ", q.groupBy); err != nil {
		return "", err
	}
	if err := writeClause(&sb, b, q, args, " HAVING ", q.having); err != nil {
		return "", err
	}
	paged := q.limit != nil || q.offset != nil
	switch {
	case !q.orderBy.IsEmpty():
		if err := writeClause(&sb, b, q, args, " ", q.orderBy); err != nil {
			return "", err
		}
	case paged && !b.rules.offsetLimit:
		// OFFSET ... FETCH requires an ORDER BY.
		sb.WriteString(" ORDER BY (SELECT NULL)")
	}
	if paged {
		sb.WriteString(b.rules.paginate(q))
	}
	sb.WriteString(lock)
	return sb.String(), nil
}

func (b *base) selectColumns(q *Query, args *[]any, sub bool) (string, error) {
	if len(q.columns) > 0 {
		cols, err := renderAll(b, q, args, q.columns)
		if err != nil {
			return "", err
		}
		return strings.Join(cols, ", "), nil
	}
	if sub || q.info == nil {
		return "*", nil
	}
	cols, err := b.entityColumns(args, q.info, q.alias, q, false)
	if err != nil {
		return "", err
	}
	for _, j := range q.joins {
		scope := NewScope(j.Info, j.Alias, nil).Within(q)
		more, err := b.entityColumns(args, j.Info, j.Alias, scope, true)
		if err != nil {
			return "", err
		}
		cols = append(cols, more...)
	}
	if len(cols) == 0 {
		return "*", nil
	}
	return strings.Join(cols, ", "), nil
}

// entityColumns lists the SELECT columns of info under alias. Columns of
// joined entities are emitted under their joined alias ("o.total AS
// o_total") so that {o_Total} references resolve against the result set.
func (b *base) entityColumns(args *[]any, info *schema.EntityInfo, alias string, s Scope, joined bool) ([]string, error) {
	columns := info.SelectColumns()
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		as := c.ResultAlias()
		if joined {
			as = joinedAlias(alias, c)
		}
		if c.SelectExpr != nil {
			text, err := Expr(c.SelectExpr.Text, c.SelectExpr.Args...).Render(b, s, args)
			if err != nil {
				return nil, err
			}
			cols = append(cols, text+" AS "+as)
			continue
		}
		col := qualify(alias, c.Name)
		if as != c.Name {
			col += " AS " + as
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (b *base) writeJoins(sb *strings.Builder, q *Query, args *[]any) error {
	for _, j := range q.joins {
		if j.Kind == FullJoin && !b.rules.fullJoin {
			return b.unsupported(j.Kind.String())
		}
		sb.WriteString(" " + j.Kind.String() + " " + j.Info.Table + " " + j.Alias)
		on, err := j.On.Render(b, q, args)
		if err != nil {
			return err
		}
		if on == "" {
			on = "0 = 0"
		}
		sb.WriteString(" ON " + on)
	}
	return nil
}

// renderer is anything with the Render signature of conditions and clauses.
type renderer interface {
	Render(d Database, s Scope, args *[]any) (string, error)
}

// writeClause renders r and writes it after prefix, or nothing when r
// renders to "".
func writeClause(sb *strings.Builder, d Database, s Scope, args *[]any, prefix string, r renderer) error {
	text, err := r.Render(d, s, args)
	if err != nil || text == "" {
		return err
	}
	sb.WriteString(prefix)
	sb.WriteString(text)
	return nil
}

func tableRef(q *Query, sep string) string {
	if q.alias == "" {
		return q.Table()
	}
	return q.Table() + sep + q.alias
}

// InsertSQL implements Database. Explicit assignments are used when set,
// otherwise the insertable columns of the bound entity.
func (b *base) InsertSQL(q *Query, args *[]any) (string, error) {
	if q == nil {
		return "", &sqlweave.BuilderError{Op: "sql.InsertSQL", Message: "nil query"}
	}
	if err := b.checkWrite(q, InsertKind); err != nil {
		return "", err
	}
	// INSERT has no table alias to qualify with.
	ins := q.Clone()
	ins.alias = ""
	var cols, vals []string
	if len(ins.sets) > 0 {
		for _, a := range ins.sets {
			v, err := a.Value.Render(b, ins, args)
			if err != nil {
				return "", err
			}
			cols = append(cols, b.column(ins, a.Property, false))
			vals = append(vals, v)
		}
	} else {
		if ins.info == nil || ins.value == nil {
			return "", &sqlweave.BuilderError{Op: "sql.InsertSQL", Message: "no assignments and no bound entity"}
		}
		for _, c := range ins.info.InsertColumns() {
			var (
				v   string
				err error
			)
			if c.InsertExpr != nil {
				v, err = Expr(c.InsertExpr.Text, c.InsertExpr.Args...).Render(b, ins, args)
			} else {
				v, err = b.columnValue(ins, c.Property, args)
			}
			if err != nil {
				return "", err
			}
			cols = append(cols, c.Name)
			vals = append(vals, v)
		}
	}
	if len(cols) == 0 {
		return "", &sqlweave.BuilderError{Op: "sql.InsertSQL", Message: "no columns to insert"}
	}
	return "INSERT INTO " + ins.Table() + " (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.Join(vals, ", ") + ")", nil
}

// UpdateSQL implements Database. Without a WHERE condition, an update of a
// bound entity matches the entity by its key columns.
func (b *base) UpdateSQL(q *Query, args *[]any) (string, error) {
	if q == nil {
		return "", &sqlweave.BuilderError{Op: "sql.UpdateSQL", Message: "nil query"}
	}
	if err := b.checkWrite(q, UpdateKind); err != nil {
		return "", err
	}
	where, err := keyCondition(q)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	switch {
	case len(q.joins) == 0 && (q.alias == "" || b.rules.updateJoin != joinTarget):
		sb.WriteString("UPDATE " + tableRef(q, " AS ") + " SET ")
		if err := b.writeSets(&sb, q, args, false); err != nil {
			return "", err
		}
		if err := writeClause(&sb, b, q, args, " WHERE ", where); err != nil {
			return "", err
		}
		if err := b.writeLimit(&sb, q, args); err != nil {
			return "", err
		}
	case b.rules.updateJoin == joinFrom:
		sb.WriteString("UPDATE " + tableRef(q, " AS ") + " SET ")
		if err := b.writeSets(&sb, q, args, false); err != nil {
			return "", err
		}
		if err := b.writeUsing(&sb, q, args, " FROM ", where); err != nil {
			return "", err
		}
	case b.rules.updateJoin == joinInline:
		sb.WriteString("UPDATE " + tableRef(q, " "))
		if err := b.writeJoins(&sb, q, args); err != nil {
			return "", err
		}
		sb.WriteString(" SET ")
		if err := b.writeSets(&sb, q, args, true); err != nil {
			return "", err
		}
		if err := writeClause(&sb, b, q, args, " WHERE ", where); err != nil {
			return "", err
		}
	case b.rules.updateJoin == joinTarget:
		sb.WriteString("UPDATE " + target(q) + " SET ")
		if err := b.writeSets(&sb, q, args, false); err != nil {
			return "", err
		}
		sb.WriteString(" FROM " + tableRef(q, " "))
		if err := b.writeJoins(&sb, q, args); err != nil {
			return "", err
		}
		if err := writeClause(&sb, b, q, args, " WHERE ", where); err != nil {
			return "", err
		}
	default:
		return "", b.unsupported("UPDATE with joins")
	}
	return sb.String(), nil
}

// DeleteSQL implements Database. Without a WHERE condition, a delete of a
// bound entity matches the entity by its key columns.
func (b *base) DeleteSQL(q *Query, args *[]any) (string, error) {
	if q == nil {
		return "", &sqlweave.BuilderError{Op: "sql.DeleteSQL", Message: "nil query"}
	}
	if err := b.checkWrite(q, DeleteKind); err != nil {
		return "", err
	}
	where, err := keyCondition(q)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	switch {
	case len(q.joins) == 0:
		if q.alias != "" && b.rules.deleteTarget {
			sb.WriteString("DELETE " + q.alias + " FROM " + tableRef(q, " "))
		} else {
			sb.WriteString("DELETE FROM " + tableRef(q, " AS "))
		}
		if err := writeClause(&sb, b, q, args, " WHERE ", where); err != nil {
			return "", err
		}
		if err := b.writeLimit(&sb, q, args); err != nil {
			return "", err
		}
	case b.rules.deleteJoin == joinFrom:
		sb.WriteString("DELETE FROM " + tableRef(q, " AS "))
		if err := b.writeUsing(&sb, q, args, " USING ", where); err != nil {
			return "", err
		}
	case b.rules.deleteJoin == joinInline:
		sb.WriteString("DELETE " + target(q) + " FROM " + tableRef(q, " "))
		if err := b.writeJoins(&sb, q, args); err != nil {
			return "", err
		}
		if err := writeClause(&sb, b, q, args, " WHERE ", where); err != nil {
			return "", err
		}
	default:
		return "", b.unsupported("DELETE with joins")
	}
	return sb.String(), nil
}

// checkWrite rejects the clauses a write statement cannot carry.
func (b *base) checkWrite(q *Query, kind Kind) error {
	op := "sql.Build(" + kind.String() + ")"
	switch {
	case q.lock != LockNone || q.wait != WaitDefault:
		return b.unsupported(kind.String() + " " + q.lock.String())
	case !q.groupBy.IsEmpty() || !q.having.IsEmpty():
		return &sqlweave.BuilderError{Op: op, Message: "GROUP BY and HAVING need a SELECT"}
	case len(q.columns) > 0 || q.distinct:
		return &sqlweave.BuilderError{Op: op, Message: "column list and DISTINCT need a SELECT"}
	}
	paged := q.limit != nil || q.offset != nil || !q.orderBy.IsEmpty()
	switch kind {
	case InsertKind:
		if len(q.joins) > 0 || !q.where.IsEmpty() || paged {
			return &sqlweave.BuilderError{Op: op, Message: "INSERT takes no joins, WHERE, ORDER BY or LIMIT"}
		}
	default:
		if paged && (!b.rules.writeLimit || len(q.joins) > 0 || q.offset != nil) {
			return b.unsupported(kind.String() + " with ORDER BY or LIMIT")
		}
	}
	return nil
}

// writeSets writes the assignments of an UPDATE.
func (b *base) writeSets(sb *strings.Builder, q *Query, args *[]any, qualified bool) error {
	var sets []string
	if len(q.sets) > 0 {
		for _, a := range q.sets {
			v, err := a.Value.Render(b, q, args)
			if err != nil {
				return err
			}
			sets = append(sets, b.column(q, a.Property, qualified)+" = "+v)
		}
	} else {
		if q.info == nil || q.value == nil {
			return &sqlweave.BuilderError{Op: "sql.UpdateSQL", Message: "no assignments and no bound entity"}
		}
		for _, c := range q.info.UpdateColumns() {
			var (
				v   string
				err error
			)
			if c.UpdateExpr != nil {
				v, err = Expr(c.UpdateExpr.Text, c.UpdateExpr.Args...).Render(b, q, args)
			} else {
				v, err = b.columnValue(q, c.Property, args)
			}
			if err != nil {
				return err
			}
			col := c.Name
			if qualified {
				col = qualify(q.alias, col)
			}
			sets = append(sets, col+" = "+v)
		}
	}
	if len(sets) == 0 {
		return &sqlweave.BuilderError{Op: "sql.UpdateSQL", Message: "no columns to update"}
	}
	sb.WriteString(strings.Join(sets, ", "))
	return nil
}

// writeUsing writes the joined tables as a comma list after keyword and
// moves the ON conditions into the WHERE clause.
func (b *base) writeUsing(sb *strings.Builder, q *Query, args *[]any, keyword string, where Condition) error {
	tables := make([]string, 0, len(q.joins))
	conds := make([]Condition, 0, len(q.joins)+1)
	for _, j := range q.joins {
		if j.Kind != InnerJoin {
			return b.unsupported(j.Kind.String() + " in " + strings.TrimSpace(keyword))
		}
		tables = append(tables, j.Info.Table+" "+j.Alias)
		conds = append(conds, j.On)
	}
	sb.WriteString(keyword + strings.Join(tables, ", "))
	return writeClause(sb, b, q, args, " WHERE ", NewAnd(append(conds, where)...))
}

// writeLimit writes ORDER BY and LIMIT of a single-table write.
func (b *base) writeLimit(sb *strings.Builder, q *Query, args *[]any) error {
	if err := writeClause(sb, b, q, args, " ", q.orderBy); err != nil {
		return err
	}
	if q.limit != nil {
		fmt.Fprintf(sb, " LIMIT %d", *q.limit)
	}
	return nil
}

// column returns the column assigned by an explicit assignment.
func (b *base) column(q *Query, prop string, qualified bool) string {
	name := prop
	if c, ok := q.info.Column(prop); ok {
		name = c.Name
	}
	if qualified {
		return qualify(q.alias, name)
	}
	return name
}

func (b *base) columnValue(q *Query, prop string, args *[]any) (string, error) {
	v, ok := q.info.Value(q.value, prop)
	if !ok {
		return "", fmt.Errorf("dialect/sql: entity %s: cannot read property %s", q.info.Name, prop)
	}
	return literal(b, v, args)
}

// keyCondition returns the WHERE condition of an UPDATE or DELETE. An empty
// WHERE with a bound entity becomes the entity's key condition.
func keyCondition(q *Query) (Condition, error) {
	if !q.where.IsEmpty() || q.value == nil || q.info == nil {
		return q.where, nil
	}
	c, err := NewEntityCondition(q.info, q.value)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func target(q *Query) string {
	if q.alias != "" {
		return q.alias
	}
	return q.Table()
}
