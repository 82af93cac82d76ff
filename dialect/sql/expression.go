package sql

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/syssam/sqlweave"
)

// Expression is a SQL fragment template with positional arguments.
//
// Placeholders in the template:
//
//	{}            next positional argument, converted to a literal
//	{#Prop}       value of the property Prop of the scope's entity
//	{Prop}        column of the property Prop of the scope's entity
//	{a.Prop}      column of the property Prop of the entity aliased a
//	{a_Prop}      result alias of that column
//
// A backslash escapes the character that follows it. Expressions are
// immutable and may be rendered many times.
type Expression struct {
	template string
	args     []any
}

// EmptyExpr is the empty expression. It renders to "".
var EmptyExpr = &Expression{}

// Expr returns a new expression.
func Expr(template string, args ...any) *Expression {
	if template == "" && len(args) == 0 {
		return EmptyExpr
	}
	return &Expression{template: template, args: args}
}

// Raw returns an expression emitting text verbatim. Braces and
// backslashes in text lose their special meaning.
func Raw(text string) *Expression {
	return Expr(escapeTemplate(text))
}

// IsEmpty reports whether the template is empty.
func (e *Expression) IsEmpty() bool { return e == nil || e.template == "" }

// Template returns the template text.
func (e *Expression) Template() string { return e.template }

// Args returns a copy of the positional arguments.
func (e *Expression) Args() []any {
	return append([]any(nil), e.args...)
}

// Equal reports whether both expressions have the same template and
// arguments.
func (e *Expression) Equal(other *Expression) bool {
	if e.IsEmpty() || other.IsEmpty() {
		return e.IsEmpty() == other.IsEmpty()
	}
	return e.template == other.template && reflect.DeepEqual(e.args, other.args)
}

// String returns the template.
func (e *Expression) String() string { return e.template }

// Render renders the expression, appending bind parameters to args.
//
// Render degrades instead of failing on template problems: a {} without
// an argument left renders as {***}, a reference that resolves to nothing
// is emitted unchanged. Both are logged as warnings. Conversion errors and
// {#Prop} without an entity value are returned.
func (e *Expression) Render(d Database, s Scope, args *[]any) (string, error) {
	if e.IsEmpty() {
		return "", nil
	}
	if s == nil {
		s = noScope{}
	}
	var (
		b       strings.Builder
		tok     strings.Builder
		next    int
		inBrace bool
		escaped bool
		started bool
		hash    bool
	)
	b.Grow(len(e.template))
	for _, r := range e.template {
		switch {
		case escaped:
			escaped = false
			if inBrace {
				tok.WriteRune(r)
				started = true
			} else {
				b.WriteRune(r)
			}
		case r == '\\':
			escaped = true
		case !inBrace:
			if r == '{' {
				inBrace, started, hash = true, false, false
				tok.Reset()
			} else {
				b.WriteRune(r)
			}
		case r == '}':
			inBrace = false
			token := strings.TrimRightFunc(tok.String(), unicode.IsSpace)
			var err error
			switch {
			case hash:
				err = e.writeProperty(d, s, &b, token, args)
			case token == "":
				if next >= len(e.args) {
					d.Logger().Warn("sql: missing expression argument",
						"template", e.template, "index", next)
					b.WriteString("{***}")
					continue
				}
				err = writeValue(d, s, &b, e.args[next], args)
				next++
			default:
				col, ok := resolveColumn(s, token)
				if !ok {
					d.Logger().Warn("sql: unresolved expression reference",
						"template", e.template, "token", token)
					b.WriteString("{" + token + "}")
					continue
				}
				b.WriteString(col)
			}
			if err != nil {
				return "", err
			}
		case !started && unicode.IsSpace(r):
		case !started && !hash && r == '#':
			hash = true
		default:
			started = true
			tok.WriteRune(r)
		}
	}
	switch {
	case inBrace:
		b.WriteByte('{')
		if hash {
			b.WriteByte('#')
		}
		b.WriteString(tok.String())
	case escaped:
		b.WriteByte('\\')
	}
	return b.String(), nil
}

func (e *Expression) writeProperty(d Database, s Scope, b *strings.Builder, prop string, args *[]any) error {
	if prop == "" {
		d.Logger().Warn("sql: empty entity reference", "template", e.template)
		b.WriteString("{#}")
		return nil
	}
	entity := s.Value()
	if entity == nil {
		return &sqlweave.IllegalStateError{
			Op:      fmt.Sprintf("render {#%s}", prop),
			Message: "no entity value in scope",
		}
	}
	v, ok := s.Entity().Value(entity, prop)
	if !ok {
		d.Logger().Warn("sql: unresolved entity property",
			"template", e.template, "token", "#"+prop)
		b.WriteString("{#" + prop + "}")
		return nil
	}
	return writeValue(d, s, b, v, args)
}

// writeValue writes v as a literal. Nested expressions and conditions are
// rendered in place against the same scope.
func writeValue(d Database, s Scope, b *strings.Builder, v any, args *[]any) error {
	if c, ok := v.(Condition); ok && !isNilValue(v) {
		text, err := c.Render(d, s, args)
		if err != nil {
			return err
		}
		b.WriteString(text)
		return nil
	}
	lit, err := d.Registry().Literal(v)
	if err != nil {
		return fmt.Errorf("dialect/sql: render value: %w", err)
	}
	b.WriteString(lit.Content)
	*args = append(*args, lit.Params...)
	return nil
}

// literal converts v with the dialect registry and appends its parameters.
func literal(d Database, v any, args *[]any) (string, error) {
	lit, err := d.Registry().Literal(v)
	if err != nil {
		return "", fmt.Errorf("dialect/sql: render value: %w", err)
	}
	*args = append(*args, lit.Params...)
	return lit.Content, nil
}

// escapeTemplate escapes the characters with a meaning in templates.
func escapeTemplate(s string) string {
	if !strings.ContainsAny(s, `{}\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '{' || r == '}' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

var _ Condition = (*Expression)(nil)
