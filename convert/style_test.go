package convert

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

func (c color) String() string {
	if c == 0 {
		return "red"
	}
	return "blue"
}

func TestLiteralStyle_String(t *testing.T) {
	mysql := DefaultStyle
	mysql.Escape = EscapeBackslash
	pg := DefaultStyle
	pg.Escape = EscapeExtended
	mssql := DefaultStyle
	mssql.National = true
	short := DefaultStyle
	short.MaxString = 3

	tests := []struct {
		name  string
		style LiteralStyle
		in    string
		want  string
		param bool
	}{
		{name: "standard", style: DefaultStyle, in: "it's", want: "'it''s'"},
		{name: "standard/backslash", style: DefaultStyle, in: `a\b`, want: `'a\b'`},
		{name: "standard/nul", style: DefaultStyle, in: "a\x00b", param: true},
		{name: "mysql", style: mysql, in: "it's\n\\", want: `'it''s\n\\'`},
		{name: "mysql/nul", style: mysql, in: "a\x00\x1a", want: `'a\0\Z'`},
		{name: "postgres/plain", style: pg, in: "it's", want: "'it''s'"},
		{name: "postgres/extended", style: pg, in: "a\tb\\c", want: `E'a\tb\\c'`},
		{name: "postgres/control", style: pg, in: "a\x01", want: `E'a\x01'`},
		{name: "postgres/nul", style: pg, in: "\x00", param: true},
		{name: "national", style: mssql, in: "héllo", want: "N'héllo'"},
		{name: "threshold", style: short, in: "abcd", param: true},
		{name: "threshold/runes", style: short, in: "héé", want: "'héé'"},
		{name: "invalid utf8", style: DefaultStyle, in: "\xff", param: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := tt.style.String(tt.in)
			if tt.param {
				assert.True(t, lit.IsParam())
				assert.Equal(t, []any{tt.in}, lit.Params)
				return
			}
			assert.Equal(t, tt.want, lit.Content)
			assert.Empty(t, lit.Params)
		})
	}
}

func TestLiteralStyle_Binary(t *testing.T) {
	in := []byte{0x0a, 0xff}
	s := DefaultStyle
	assert.Equal(t, "X'0aff'", s.Binary(in).Content)
	s.Bytes = BytesHex0x
	assert.Equal(t, "0x0AFF", s.Binary(in).Content)
	s.Bytes = BytesBytea
	assert.Equal(t, `'\x0aff'::bytea`, s.Binary(in).Content)
	s.MaxBinary = 1
	assert.True(t, s.Binary(in).IsParam())
}

func TestLiteralStyle_Time(t *testing.T) {
	ts := time.Date(2024, 3, 9, 10, 11, 12, 500000000, time.UTC)
	assert.Equal(t, "TIMESTAMP '2024-03-09 10:11:12.5'", DefaultStyle.Time(ts).Content)
	pg := DefaultStyle
	pg.TimePrefix = "TIMESTAMPTZ "
	pg.TimeLayout = "2006-01-02 15:04:05.999999-07:00"
	assert.Equal(t, "TIMESTAMPTZ '2024-03-09 10:11:12.5+00:00'", pg.Time(ts).Content)
	assert.Equal(t, "DATE '2024-03-09'", DefaultStyle.Date(civil.DateOf(ts)).Content)
}

func TestBase_Literals(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "int", in: 42, want: "42"},
		{name: "int8", in: int8(-3), want: "-3"},
		{name: "uint", in: uint(7), want: "7"},
		{name: "uint64", in: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "float32", in: float32(0.25), want: "0.25"},
		{name: "bool", in: true, want: "TRUE"},
		{name: "decimal", in: decimal.RequireFromString("12.25"), want: "12.25"},
		{name: "duration", in: time.Second, want: "1000000000"},
		{name: "uuid", in: id, want: "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{name: "stringer", in: color(1), want: "'blue'"},
		{name: "valuer", in: sql.NullString{String: "a", Valid: true}, want: "'a'"},
		{name: "valuer/null", in: sql.NullInt64{}, want: "NULL"},
		{name: "valuer/int", in: sql.NullInt64{Int64: 9, Valid: true}, want: "9"},
		{name: "nil", in: nil, want: "NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := Base().Literal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lit.Content)
			if tt.in != nil && tt.want != "NULL" {
				assert.False(t, lit.IsNull())
			}
		})
	}
}

func TestBase_FloatSpecials(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		lit, err := Base().Literal(f)
		require.NoError(t, err)
		assert.True(t, lit.IsParam())
	}
}
