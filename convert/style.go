package convert

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// EscapeMode selects how string literals are escaped.
type EscapeMode int

const (
	// EscapeStandard doubles single quotes and nothing else.
	EscapeStandard EscapeMode = iota
	// EscapeBackslash doubles single quotes and writes backslash sequences
	// for backslashes and control characters (MySQL).
	EscapeBackslash
	// EscapeExtended writes an E'' string with backslash sequences when the
	// value holds control characters or backslashes, and a standard string
	// otherwise (PostgreSQL).
	EscapeExtended
)

// BytesFormat selects the spelling of binary literals.
type BytesFormat int

const (
	BytesHexX  BytesFormat = iota // X'0a1b'
	BytesHex0x                    // 0x0A1B
	BytesBytea                    // '\x0a1b'::bytea
)

// Default literal length thresholds. Longer values are bound as parameters.
const (
	DefaultMaxString = 1024
	DefaultMaxBinary = 512
)

// LiteralStyle describes how a dialect spells literal values. The zero value
// is not useful; start from DefaultStyle.
type LiteralStyle struct {
	True, False string
	Escape      EscapeMode
	// National prefixes string literals with N (SQL Server).
	National bool
	Bytes    BytesFormat
	// TimeLayout is the time.Format layout for timestamps, TimePrefix is
	// written before the quoted value (e.g. "TIMESTAMP ").
	TimeLayout string
	TimePrefix string
	DatePrefix string
	// MaxString and MaxBinary are the lengths (runes and bytes) above which
	// values are bound as parameters. Zero or less disables the threshold.
	MaxString int
	MaxBinary int
}

// DefaultStyle is the ANSI spelling installed in the base registry.
var DefaultStyle = LiteralStyle{
	True:       "TRUE",
	False:      "FALSE",
	Escape:     EscapeStandard,
	Bytes:      BytesHexX,
	TimeLayout: "2006-01-02 15:04:05.999999999",
	TimePrefix: "TIMESTAMP ",
	DatePrefix: "DATE ",
	MaxString:  DefaultMaxString,
	MaxBinary:  DefaultMaxBinary,
}

// Bool returns the boolean literal.
func (s LiteralStyle) Bool(b bool) Literal {
	if b {
		return Raw(s.True)
	}
	return Raw(s.False)
}

// String returns the quoted string literal, or a parameter when the value
// is too long or cannot be written inline.
func (s LiteralStyle) String(v string) Literal {
	if s.MaxString > 0 && utf8.RuneCountInString(v) > s.MaxString {
		return Param(v)
	}
	if !utf8.ValidString(v) {
		return Param(v)
	}
	var b strings.Builder
	b.Grow(len(v) + 3)
	switch s.Escape {
	case EscapeBackslash:
		s.prefix(&b)
		b.WriteByte('\'')
		for _, r := range v {
			switch r {
			case 0:
				b.WriteString(`\0`)
			case '\'':
				b.WriteString(`''`)
			case '\\':
				b.WriteString(`\\`)
			case '\b':
				b.WriteString(`\b`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case 0x1a:
				b.WriteString(`\Z`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\'')
	case EscapeExtended:
		if strings.ContainsRune(v, 0) {
			return Param(v)
		}
		if !strings.ContainsFunc(v, needsExtended) {
			s.standard(&b, v)
			break
		}
		b.WriteString("E'")
		for _, r := range v {
			switch r {
			case '\'':
				b.WriteString(`''`)
			case '\\':
				b.WriteString(`\\`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				if isControl(r) {
					fmt.Fprintf(&b, `\x%02x`, r)
				} else {
					b.WriteRune(r)
				}
			}
		}
		b.WriteByte('\'')
	default:
		if strings.ContainsRune(v, 0) {
			return Param(v)
		}
		s.standard(&b, v)
	}
	return Raw(b.String())
}

func (s LiteralStyle) standard(b *strings.Builder, v string) {
	s.prefix(b)
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(v, "'", "''"))
	b.WriteByte('\'')
}

func (s LiteralStyle) prefix(b *strings.Builder) {
	if s.National {
		b.WriteByte('N')
	}
}

// Binary returns the hex literal of v, or a parameter above MaxBinary.
func (s LiteralStyle) Binary(v []byte) Literal {
	if s.MaxBinary > 0 && len(v) > s.MaxBinary {
		return Param(v)
	}
	switch s.Bytes {
	case BytesHex0x:
		return Raw("0x" + strings.ToUpper(hex.EncodeToString(v)))
	case BytesBytea:
		return Raw(`'\x` + hex.EncodeToString(v) + `'::bytea`)
	default:
		return Raw("X'" + hex.EncodeToString(v) + "'")
	}
}

// Time returns the timestamp literal.
func (s LiteralStyle) Time(t time.Time) Literal {
	return Raw(s.TimePrefix + "'" + t.Format(s.TimeLayout) + "'")
}

// Date returns the date literal.
func (s LiteralStyle) Date(d civil.Date) Literal {
	return Raw(s.DatePrefix + "'" + d.String() + "'")
}

var (
	valuerType   = reflect.TypeFor[driver.Valuer]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

// Install registers the style-dependent literal converters into r. The
// driver.Valuer converter resolves the produced value through r itself, so
// an overlay keeps its own spelling for wrapped values.
func (s LiteralStyle) Install(r *Registry) {
	RegisterFunc(r, func(v bool) (Literal, error) { return s.Bool(v), nil })
	RegisterFunc(r, func(v string) (Literal, error) { return s.String(v), nil })
	RegisterFunc(r, func(v []byte) (Literal, error) { return s.Binary(v), nil })
	RegisterFunc(r, func(v time.Time) (Literal, error) { return s.Time(v), nil })
	RegisterFunc(r, func(v civil.Date) (Literal, error) { return s.Date(v), nil })
	RegisterFunc(r, func(v uuid.UUID) (Literal, error) { return s.String(v.String()), nil })
	r.Register(valuerType, LiteralType, func(v any) (any, error) {
		val, err := v.(driver.Valuer).Value()
		if err != nil {
			return nil, fmt.Errorf("convert: driver.Valuer %T: %w", v, err)
		}
		if val == nil {
			return Null, nil
		}
		if reflect.TypeOf(val) == reflect.TypeOf(v) {
			return nil, fmt.Errorf("convert: driver.Valuer %T returned itself", v)
		}
		return r.Literal(val)
	})
	r.Register(stringerType, LiteralType, func(v any) (any, error) {
		return s.String(v.(fmt.Stringer).String()), nil
	})
}

func needsExtended(r rune) bool {
	return r == '\\' || isControl(r)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
