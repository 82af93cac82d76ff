package convert

import (
	"reflect"
	"strings"
)

// Placeholder is the content of a literal that stands for a bind parameter.
const Placeholder = "?"

// Literal is rendered SQL text plus the bind parameters it references. It is
// the destination type of every "value to SQL" conversion.
//
// A literal whose Content is exactly Placeholder carries exactly one
// parameter; other literals usually carry none.
type Literal struct {
	Content string
	Params  []any
}

// LiteralType is the reflect.Type of Literal, used as the destination key
// for SQL text conversions.
var LiteralType = reflect.TypeFor[Literal]()

// Null is the literal for SQL NULL.
var Null = Literal{Content: "NULL"}

// Raw returns a literal that is emitted verbatim.
func Raw(text string) Literal {
	return Literal{Content: text}
}

// Param returns a literal that binds v as a parameter.
func Param(v any) Literal {
	return Literal{Content: Placeholder, Params: []any{v}}
}

// IsParam reports whether the literal is a single bind parameter.
func (l Literal) IsParam() bool {
	return l.Content == Placeholder && len(l.Params) == 1
}

// IsNull reports whether the literal renders SQL NULL.
func (l Literal) IsNull() bool {
	return strings.EqualFold(l.Content, Null.Content) && len(l.Params) == 0
}

// String returns the literal content.
func (l Literal) String() string { return l.Content }
