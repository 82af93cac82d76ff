package schema_test

import (
	"errors"
	"testing"
	"time"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Audit struct {
	CreatedAt time.Time `db:"created_at" sqlweave:"noupdate"`
	Version   int       `db:"version"`
}

type article struct {
	ID     int64  `db:"id" sqlweave:"key,noinsert"`
	Title  string `db:"title"`
	Body   string `db:"content"`
	Rank   int    `db:"rank" sqlweave:"readonly"`
	Hidden string `db:"hidden" sqlweave:"noselect"`
	Temp   string `db:"-"`
	Notes  string
	Audit
}

func TestFromStruct(t *testing.T) {
	info, err := schema.FromStruct("Article", &article{}).Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "articles", info.Table)

	names := func(cols []*schema.ColumnInfo) []string {
		var out []string
		for _, c := range cols {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"id", "title", "content", "rank", "hidden", "created_at", "version"}, names(info.Columns))
	assert.Equal(t, []string{"id"}, names(info.KeyColumns()))
	assert.Equal(t, []string{"id", "title", "content", "rank", "created_at", "version"}, names(info.SelectColumns()))
	assert.Equal(t, []string{"title", "content", "hidden", "created_at", "version"}, names(info.InsertColumns()))
	assert.Equal(t, []string{"title", "content", "hidden", "version"}, names(info.UpdateColumns()))

	body, ok := info.Column("Body")
	require.True(t, ok)
	assert.Equal(t, "content", body.Name)
}

func TestFromStruct_Values(t *testing.T) {
	info := schema.FromStruct("Article", []article{}).MustDescriptor()
	a := article{ID: 3, Title: "hello", Audit: Audit{Version: 2}}

	v, ok := info.Value(a, "ID")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	v, ok = info.Value(&a, "Version")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = info.Value(map[string]any{"Title": "map"}, "Title")
	require.True(t, ok)
	assert.Equal(t, "map", v)

	var nilArticle *article
	_, ok = info.Value(nilArticle, "ID")
	assert.False(t, ok)
	_, ok = info.Value(nil, "ID")
	assert.False(t, ok)
}

func TestFromStruct_Errors(t *testing.T) {
	type badOption struct {
		ID int64 `db:"id" sqlweave:"primary"`
	}
	tests := []struct {
		name string
		v    any
	}{
		{name: "nil", v: nil},
		{name: "int", v: 42},
		{name: "unknown option", v: badOption{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.FromStruct("Bad", tt.v).Descriptor()
			require.Error(t, err)
			assert.True(t, errors.Is(err, sqlweave.ErrInvalidBuilder))
		})
	}
}
