// Package config loads renderer configuration from YAML files.
//
//	dialect: postgres
//	dsn: postgres://app@localhost/app?sslmode=disable
//	max_string_literal: 256
//	log_level: warn
//
// Environment variables in the file are expanded before parsing, so a DSN
// can be written as ${DATABASE_URL}.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlweave/dialect"
	"github.com/syssam/sqlweave/dialect/sql"
)

// ErrInvalidConfig is returned for configurations failing validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes how statements are rendered.
type Config struct {
	// Dialect is one of the dialect names. When empty, it is detected
	// from DSN.
	Dialect string `yaml:"dialect,omitempty"`
	// DSN is the data source name of the database.
	DSN string `yaml:"dsn,omitempty"`
	// MaxStringLiteral and MaxBinaryLiteral override the lengths above
	// which values are bound as parameters. Zero keeps the defaults.
	MaxStringLiteral int `yaml:"max_string_literal,omitempty"`
	MaxBinaryLiteral int `yaml:"max_binary_literal,omitempty"`
	// LogLevel is the slog level name of the renderer logger ("debug",
	// "info", "warn", "error"). Empty means info.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.Dialect == "" && c.DSN == "":
		return fmt.Errorf("%w: dialect or dsn is required", ErrInvalidConfig)
	case c.Dialect != "" && !slices.Contains(dialect.Names(), c.Dialect):
		return fmt.Errorf("%w: unknown dialect %q", ErrInvalidConfig, c.Dialect)
	case c.MaxStringLiteral < 0 || c.MaxBinaryLiteral < 0:
		return fmt.Errorf("%w: literal thresholds must not be negative", ErrInvalidConfig)
	}
	if c.Dialect == "" {
		if _, err := dialect.Detect(c.DSN); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// DialectName returns the configured dialect, or the one detected from
// the DSN.
func (c *Config) DialectName() (string, error) {
	if c.Dialect != "" {
		return c.Dialect, nil
	}
	return dialect.Detect(c.DSN)
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return l, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	l, err := c.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// Database returns the renderer described by the configuration. The
// given options are applied after the configured ones.
func (c *Config) Database(opts ...sql.Option) (sql.Database, error) {
	name, err := c.DialectName()
	if err != nil {
		return nil, err
	}
	return sql.OpenDatabase(name, c.options(opts)...)
}

// Open opens a driver for the configured DSN.
func (c *Config) Open(opts ...sql.Option) (*sql.Driver, error) {
	name, err := c.DialectName()
	if err != nil {
		return nil, err
	}
	if name == dialect.Standard {
		return nil, fmt.Errorf("%w: the standard dialect has no driver", ErrInvalidConfig)
	}
	return sql.Open(name, c.DSN, c.options(opts)...)
}

func (c *Config) options(extra []sql.Option) []sql.Option {
	var opts []sql.Option
	if c.MaxStringLiteral > 0 {
		opts = append(opts, sql.WithMaxStringLiteral(c.MaxStringLiteral))
	}
	if c.MaxBinaryLiteral > 0 {
		opts = append(opts, sql.WithMaxBinaryLiteral(c.MaxBinaryLiteral))
	}
	return append(opts, extra...)
}
