package sql

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave/schema"
)

type user struct {
	ID   int
	Name string
	Age  int
}

type order struct {
	ID     int
	UserID int
	Total  float64
}

func usersInfo(t testing.TB) *schema.EntityInfo {
	t.Helper()
	info, err := schema.Entity("User").Fields(
		schema.Field("ID").Key(),
		schema.Field("Name"),
		schema.Field("Age"),
	).Descriptor()
	require.NoError(t, err)
	return info
}

func ordersInfo(t testing.TB) *schema.EntityInfo {
	t.Helper()
	info, err := schema.Entity("Order").Fields(
		schema.Field("ID").Key(),
		schema.Field("UserID"),
		schema.Field("Total"),
	).Descriptor()
	require.NoError(t, err)
	return info
}

// quiet returns a logger discarding everything.
func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capture returns a logger writing warnings to the returned buffer.
func capture() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})), &buf
}

// render renders c against s and returns the text and parameters.
func render(t *testing.T, d Database, s Scope, c Condition) (string, []any) {
	t.Helper()
	var args []any
	text, err := c.Render(d, s, &args)
	require.NoError(t, err)
	return text, args
}
