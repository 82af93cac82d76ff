package schema

// ColumnInfo describes how one entity property maps to a column.
type ColumnInfo struct {
	// Property is the entity property name used in expression templates.
	Property string
	// Name is the column name, Alias the name used for the column in result
	// sets (defaults to Name).
	Name  string
	Alias string
	// Key marks primary key membership.
	Key bool
	// Select, Insert and Update tell whether the column takes part in the
	// corresponding statement.
	Select, Insert, Update bool
	// Override expressions replacing the plain column reference or value.
	SelectExpr, InsertExpr, UpdateExpr *Template
	// Get reads the property off a live entity. When nil, exported struct
	// fields and map keys are looked up by property name.
	Get         func(entity any) (any, bool)
	Annotations []Annotation
}

// Value reads the column's property from entity.
func (c *ColumnInfo) Value(entity any) (any, bool) {
	if c.Get != nil {
		return c.Get(entity)
	}
	return fieldValue(entity, c.Property)
}

// ResultAlias returns the result-set alias of the column.
func (c *ColumnInfo) ResultAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// EntityInfo is the table mapping of one entity type.
type EntityInfo struct {
	Name        string
	Table       string
	Columns     []*ColumnInfo
	Annotations []Annotation

	byProp map[string]*ColumnInfo
}

// Column returns the column mapped to the given property.
func (e *EntityInfo) Column(prop string) (*ColumnInfo, bool) {
	if e == nil {
		return nil, false
	}
	if e.byProp != nil {
		c, ok := e.byProp[prop]
		return c, ok
	}
	for _, c := range e.Columns {
		if c.Property == prop {
			return c, true
		}
	}
	return nil, false
}

// KeyColumns returns the primary key columns in declaration order.
func (e *EntityInfo) KeyColumns() []*ColumnInfo {
	return e.filter(func(c *ColumnInfo) bool { return c.Key })
}

// SelectColumns returns the columns read by SELECT statements.
func (e *EntityInfo) SelectColumns() []*ColumnInfo {
	return e.filter(func(c *ColumnInfo) bool { return c.Select })
}

// InsertColumns returns the columns written by INSERT statements.
func (e *EntityInfo) InsertColumns() []*ColumnInfo {
	return e.filter(func(c *ColumnInfo) bool { return c.Insert })
}

// UpdateColumns returns the non-key columns written by UPDATE statements.
func (e *EntityInfo) UpdateColumns() []*ColumnInfo {
	return e.filter(func(c *ColumnInfo) bool { return c.Update && !c.Key })
}

// Value reads the property prop from entity.
func (e *EntityInfo) Value(entity any, prop string) (any, bool) {
	c, ok := e.Column(prop)
	if !ok {
		return fieldValue(entity, prop)
	}
	return c.Value(entity)
}

// Comment returns the text of the entity's comment annotation, if any.
func (e *EntityInfo) Comment() string {
	for _, a := range e.Annotations {
		if c, ok := a.(*CommentAnnotation); ok {
			return c.Text
		}
	}
	return ""
}

func (e *EntityInfo) filter(keep func(*ColumnInfo) bool) []*ColumnInfo {
	if e == nil {
		return nil
	}
	var out []*ColumnInfo
	for _, c := range e.Columns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (e *EntityInfo) index() {
	e.byProp = make(map[string]*ColumnInfo, len(e.Columns))
	for _, c := range e.Columns {
		e.byProp[c.Property] = c
	}
}
