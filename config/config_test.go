package config

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlweave/dialect"
	"github.com/syssam/sqlweave/dialect/sql"
)

func TestParse(t *testing.T) {
	t.Setenv("SQLWEAVE_TEST_DSN", "postgres://app@localhost/app?sslmode=disable")
	tests := []struct {
		name    string
		input   string
		want    *Config
		dialect string
		wantErr string
	}{
		{
			name:    "Dialect",
			input:   "dialect: mysql\nmax_string_literal: 64\n",
			want:    &Config{Dialect: dialect.MySQL, MaxStringLiteral: 64},
			dialect: dialect.MySQL,
		},
		{
			name:    "DetectedFromDSN",
			input:   "dsn: ${SQLWEAVE_TEST_DSN}\nlog_level: debug\n",
			want:    &Config{DSN: "postgres://app@localhost/app?sslmode=disable", LogLevel: "debug"},
			dialect: dialect.Postgres,
		},
		{
			name:    "SQLiteFile",
			input:   "dsn: /var/lib/app/data.db\n",
			want:    &Config{DSN: "/var/lib/app/data.db"},
			dialect: dialect.SQLite,
		},
		{name: "Empty", input: "", wantErr: "dialect or dsn is required"},
		{name: "UnknownDialect", input: "dialect: oracle\n", wantErr: `unknown dialect "oracle"`},
		{name: "UnknownKey", input: "dialect: sqlite\nmax_rows: 3\n", wantErr: "field max_rows not found"},
		{name: "NegativeLimit", input: "dialect: sqlite\nmax_binary_literal: -1\n", wantErr: "must not be negative"},
		{name: "BadLevel", input: "dialect: sqlite\nlog_level: loud\n", wantErr: "log_level"},
		{name: "UndetectableDSN", input: "dsn: 'what is this'\n", wantErr: "invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			name, err := c.DialectName()
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, name)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, (&Config{Dialect: "db2"}).Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, (&Config{Dialect: dialect.SQLite, LogLevel: "nope"}).Validate(), ErrInvalidConfig)
	assert.NoError(t, (&Config{Dialect: dialect.Standard}).Validate())
}

func TestConfig_Database(t *testing.T) {
	c := &Config{Dialect: dialect.SQLServer, MaxStringLiteral: 3}
	d, err := c.Database(sql.WithLogger(discard()))
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLServer, d.Name())

	var args []any
	text, err := sql.Expr("{} = {}", "abcd", "abc").Render(d, nil, &args)
	require.NoError(t, err)
	assert.Equal(t, "? = N'abc'", text)
	assert.Equal(t, []any{"abcd"}, args)

	_, err = (&Config{DSN: "nonsense"}).Database()
	assert.Error(t, err)
}

func TestConfig_Open(t *testing.T) {
	drv, err := (&Config{DSN: ":memory:"}).Open()
	require.NoError(t, err)
	defer drv.Close()
	assert.Equal(t, dialect.SQLite, drv.Dialect())
	assert.Equal(t, dialect.SQLite, drv.Database().Name())
	require.NoError(t, drv.DB().Ping())

	_, err = (&Config{Dialect: dialect.Standard}).Open()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	l, err := (&Config{Dialect: dialect.SQLite, LogLevel: "warn"}).Logger(&buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: postgres\n"), 0o600))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, c.Dialect)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("dialect: [\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sqlweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: postgres\n"), 0o600))

	type result struct {
		c   *Config
		err error
	}
	results := make(chan result, 8)
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Watch(ctx, path, func(c *Config, err error) {
			select {
			case results <- result{c, err}:
			case <-ctx.Done():
			}
		}, WithDebounce(50*time.Millisecond), WithWatchLogger(discard()))
	})

	// Writes can produce several events; wait for the expected outcome.
	waitFor := func(ok func(result) bool) result {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case r := <-results:
				if ok(r) {
					return r
				}
			case <-timeout:
				t.Fatal("timed out waiting for configuration")
				return result{}
			}
		}
	}
	hasDialect := func(name string) func(result) bool {
		return func(r result) bool { return r.err == nil && r.c.Dialect == name }
	}
	waitFor(hasDialect(dialect.Postgres))

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("dialect: mysql\n"), 0o600))
	waitFor(hasDialect(dialect.MySQL))

	require.NoError(t, os.WriteFile(path, []byte("dialect: oracle\n"), 0o600))
	r := waitFor(func(r result) bool { return r.err != nil })
	assert.ErrorIs(t, r.err, ErrInvalidConfig)
	assert.Nil(t, r.c)

	cancel()
	require.NoError(t, g.Wait())
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "c.yaml"), func(*Config, error) {})
	assert.Error(t, err)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
