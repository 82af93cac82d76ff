package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave"
)

func TestGroupBy(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	scope := NewScope(itemInfo(t), "", nil)

	text, _ := render(t, d, scope, NewGroupBy().Add("{dept}"))
	assert.Equal(t, "GROUP BY dept", text)

	text, _ = render(t, d, scope, NewGroupBy())
	assert.Equal(t, "", text)

	text, _ = render(t, d, NewScope(itemInfo(t), "i", nil), NewGroupBy(Expr("{dept}"), Expr("{name}")))
	assert.Equal(t, "GROUP BY i.dept, i.name", text)

	g := NewGroupBy().Add("{dept}")
	c := g.Clone().Add("{name}")
	assert.Len(t, g.Elements(), 1)
	assert.Len(t, c.Elements(), 2)
	assert.False(t, g.Equal(c))
	assert.True(t, g.Equal(NewGroupBy().Add("{dept}")))
	assert.True(t, (*GroupBy)(nil).IsEmpty())
}

func TestOrderBy(t *testing.T) {
	d := Standard(WithLogger(quiet()))
	scope := NewScope(itemInfo(t), "", nil)

	text, _ := render(t, d, scope, NewOrderBy().Add("{name}").Desc())
	assert.Equal(t, "ORDER BY name DESC", text)

	text, _ = render(t, d, scope, NewOrderBy().Add("{dept}").Add("{name}").Desc().Add("{id}").Asc())
	assert.Equal(t, "ORDER BY dept ASC, name DESC, id ASC", text)

	text, _ = render(t, d, scope, NewOrderBy())
	assert.Equal(t, "", text)

	o := NewOrderBy().Add("{name}")
	c := o.Clone().Desc()
	assert.Equal(t, Asc, o.Elements()[0].Dir)
	assert.Equal(t, Desc, c.Elements()[0].Dir)
	assert.False(t, o.Equal(c))
	assert.True(t, o.Equal(NewOrderBy().AddElement(OrderElement{Expr: Expr("{name}")})))
}

func TestOrderBy_DirectionWithoutElement(t *testing.T) {
	err := NewOrderBy().SetDirection(Desc)
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlweave.ErrIllegalState)

	assert.Panics(t, func() { NewOrderBy().Asc() })
	assert.Panics(t, func() { NewOrderBy().AddElement(OrderElement{}) })
}
