package sql

import (
	"strings"

	"github.com/syssam/sqlweave/schema"
)

// Scope is what expressions render against: the current entity, its table
// alias, the live entity value and the other aliases visible from it.
type Scope interface {
	// Alias returns the table alias of the current entity, or "".
	Alias() string
	// Entity returns the metadata of the current entity, or nil.
	Entity() *schema.EntityInfo
	// Value returns the live entity value used by {#Prop}, or nil.
	Value() any
	// Resolve returns the entity metadata bound to a table alias.
	Resolve(alias string) (*schema.EntityInfo, bool)
}

// StaticScope is a standalone Scope for rendering expressions outside of
// a query.
type StaticScope struct {
	alias   string
	info    *schema.EntityInfo
	value   any
	aliases map[string]*schema.EntityInfo
	parent  Scope
}

// NewScope returns a scope for the given entity, alias and entity value.
func NewScope(info *schema.EntityInfo, alias string, value any) *StaticScope {
	s := &StaticScope{alias: alias, info: info, value: value, aliases: map[string]*schema.EntityInfo{}}
	if alias != "" && info != nil {
		s.aliases[alias] = info
	}
	return s
}

// Join binds another entity to an alias.
func (s *StaticScope) Join(alias string, info *schema.EntityInfo) *StaticScope {
	s.aliases[alias] = info
	return s
}

// Within links the scope to an enclosing scope.
func (s *StaticScope) Within(parent Scope) *StaticScope {
	s.parent = parent
	return s
}

// Alias implements Scope.
func (s *StaticScope) Alias() string { return s.alias }

// Entity implements Scope.
func (s *StaticScope) Entity() *schema.EntityInfo { return s.info }

// Value implements Scope.
func (s *StaticScope) Value() any { return s.value }

// Resolve implements Scope.
func (s *StaticScope) Resolve(alias string) (*schema.EntityInfo, bool) {
	if info, ok := s.aliases[alias]; ok {
		return info, true
	}
	if s.parent != nil {
		return s.parent.Resolve(alias)
	}
	return nil, false
}

type noScope struct{}

func (noScope) Alias() string                             { return "" }
func (noScope) Entity() *schema.EntityInfo                { return nil }
func (noScope) Value() any                                { return nil }
func (noScope) Resolve(string) (*schema.EntityInfo, bool) { return nil, false }

// resolveColumn resolves a column reference token. The property of the
// current entity wins, then "alias.Prop" (column name), then "alias_Prop"
// (the result alias of a joined column, see joinedAlias).
func resolveColumn(s Scope, token string) (string, bool) {
	if c, ok := s.Entity().Column(token); ok {
		return qualify(s.Alias(), c.Name), true
	}
	if alias, prop, ok := strings.Cut(token, "."); ok {
		if info, ok := s.Resolve(alias); ok {
			if c, ok := info.Column(prop); ok {
				return qualify(alias, c.Name), true
			}
		}
	}
	for i := strings.IndexByte(token, '_'); i > 0; {
		alias, prop := token[:i], token[i+1:]
		if info, ok := s.Resolve(alias); ok {
			if c, ok := info.Column(prop); ok {
				return joinedAlias(alias, c), true
			}
		}
		j := strings.IndexByte(token[i+1:], '_')
		if j < 0 {
			break
		}
		i += j + 1
	}
	return "", false
}

// joinedAlias is the result alias of column c of the entity joined as
// alias. Default SELECT lists emit joined columns under it.
func joinedAlias(alias string, c *schema.ColumnInfo) string {
	return alias + "_" + c.ResultAlias()
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

var (
	_ Scope = (*StaticScope)(nil)
	_ Scope = noScope{}
)
