package sql

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field is a typed entity property that provides predicate methods.
// Predicates render through the scope they are used in, so the property
// resolves to the column of the current entity and its alias.
//
// Usage:
//
//	var Age = sql.Field[int]("Age")
//	q.Where(Age.GTE(18))
//	q.Where(sql.And(Age.LT(65), Name.HasPrefix("A")))
type Field[T any] string

// Name returns the property name.
func (f Field[T]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Field[T]) EQ(v T) *Expression { return compare(string(f), "=", v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Field[T]) NEQ(v T) *Expression { return compare(string(f), "<>", v) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f Field[T]) GT(v T) *Expression { return compare(string(f), ">", v) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f Field[T]) GTE(v T) *Expression { return compare(string(f), ">=", v) }

// LT returns a predicate that checks if the field is less than the given value.
func (f Field[T]) LT(v T) *Expression { return compare(string(f), "<", v) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f Field[T]) LTE(v T) *Expression { return compare(string(f), "<=", v) }

// In returns a predicate that checks if the field value is in the given list.
// An empty list matches nothing.
func (f Field[T]) In(vs ...T) *Expression { return in(string(f), "IN", vs) }

// NotIn returns a predicate that checks if the field value is not in the
// given list. An empty list matches everything.
func (f Field[T]) NotIn(vs ...T) *Expression { return in(string(f), "NOT IN", vs) }

// Between returns a predicate that checks if the field is within [lo, hi].
func (f Field[T]) Between(lo, hi T) *Expression {
	return Expr(ref(string(f))+" BETWEEN {} AND {}", lo, hi)
}

// IsNull returns a predicate that checks if the field is NULL.
func (f Field[T]) IsNull() *Expression { return Expr(ref(string(f)) + " IS NULL") }

// NotNull returns a predicate that checks if the field is not NULL.
func (f Field[T]) NotNull() *Expression { return Expr(ref(string(f)) + " IS NOT NULL") }

// Common field types.
type (
	IntField     = Field[int]
	Int64Field   = Field[int64]
	Float64Field = Field[float64]
	TimeField    = Field[time.Time]
	UUIDField    = Field[uuid.UUID]
	DecimalField = Field[decimal.Decimal]
)

// StringField is a string property with pattern predicates.
type StringField struct{ Field[string] }

// String returns a StringField for the property.
func String(prop string) StringField { return StringField{Field[string](prop)} }

// Contains returns a predicate that checks if the field contains the given substring.
func (f StringField) Contains(v string) *Expression {
	return like(ref(f.Name()), "%"+escapeLike(v)+"%")
}

// ContainsFold returns a predicate that checks if the field contains the given substring (case-insensitive).
func (f StringField) ContainsFold(v string) *Expression {
	return like("LOWER("+ref(f.Name())+")", "%"+escapeLike(strings.ToLower(v))+"%")
}

// HasPrefix returns a predicate that checks if the field starts with the given prefix.
func (f StringField) HasPrefix(v string) *Expression {
	return like(ref(f.Name()), escapeLike(v)+"%")
}

// HasSuffix returns a predicate that checks if the field ends with the given suffix.
func (f StringField) HasSuffix(v string) *Expression {
	return like(ref(f.Name()), "%"+escapeLike(v))
}

// EqualFold returns a predicate that checks if the field equals the given value (case-insensitive).
func (f StringField) EqualFold(v string) *Expression {
	return Expr("LOWER("+ref(f.Name())+") = {}", strings.ToLower(v))
}

// BoolField is a boolean property.
type BoolField struct{ Field[bool] }

// Bool returns a BoolField for the property.
func Bool(prop string) BoolField { return BoolField{Field[bool](prop)} }

// IsTrue returns a predicate that checks if the field is true.
func (f BoolField) IsTrue() *Expression { return f.EQ(true) }

// IsFalse returns a predicate that checks if the field is false.
func (f BoolField) IsFalse() *Expression { return f.EQ(false) }

// EnumField is a property holding a string enum.
type EnumField[T ~string] struct{ Field[T] }

// Enum returns an EnumField for the property.
func Enum[T ~string](prop string) EnumField[T] { return EnumField[T]{Field[T](prop)} }

// ref returns the template reference of a property.
func ref(prop string) string {
	return "{" + escapeTemplate(prop) + "}"
}

func compare(prop, op string, v any) *Expression {
	if isNilValue(v) {
		switch op {
		case "=":
			return Expr(ref(prop) + " IS NULL")
		case "<>":
			return Expr(ref(prop) + " IS NOT NULL")
		}
	}
	return Expr(ref(prop)+" "+op+" {}", v)
}

func in[T any](prop, op string, vs []T) *Expression {
	if len(vs) == 0 {
		if op == "IN" {
			return Raw("1 = 0")
		}
		return Raw("0 = 0")
	}
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = v
	}
	return Expr(ref(prop)+" "+op+" ("+strings.Repeat("{}, ", len(vs)-1)+"{})", args...)
}

func like(lhs, pattern string) *Expression {
	return Expr(lhs+" LIKE {} ESCAPE '!'", pattern)
}

// escapeLike escapes the LIKE wildcards of s with '!'.
func escapeLike(s string) string {
	if !strings.ContainsAny(s, "!%_[") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '!', '%', '_', '[':
			b.WriteByte('!')
		}
		b.WriteRune(r)
	}
	return b.String()
}
