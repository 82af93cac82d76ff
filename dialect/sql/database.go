package sql

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/syssam/sqlweave"
	"github.com/syssam/sqlweave/convert"
	"github.com/syssam/sqlweave/dialect"
)

// Database renders statements for one SQL dialect. Every method appends
// bind parameters to args in the order their ? placeholders appear in the
// returned text.
type Database interface {
	// Name returns the dialect name (see package dialect).
	Name() string
	// Registry returns the dialect's converter registry, layered on the
	// base registry.
	Registry() *convert.Registry
	// Logger returns the logger used for degraded renders.
	Logger() *slog.Logger
	// SupportsOffsetLimit reports whether LIMIT/OFFSET clauses are used.
	// Dialects returning false paginate with their own syntax.
	SupportsOffsetLimit() bool

	SelectSQL(q *Query, args *[]any) (string, error)
	SubSelectSQL(q *Query, args *[]any) (string, error)
	InsertSQL(q *Query, args *[]any) (string, error)
	UpdateSQL(q *Query, args *[]any) (string, error)
	DeleteSQL(q *Query, args *[]any) (string, error)

	// Rebind rewrites ? placeholders into the driver's placeholder style.
	Rebind(query string) string
}

// Kind is the kind of a statement.
type Kind int

// Statement kinds.
const (
	SelectKind Kind = iota
	InsertKind
	UpdateKind
	DeleteKind
)

// String returns the statement keyword.
func (k Kind) String() string {
	switch k {
	case SelectKind:
		return "SELECT"
	case InsertKind:
		return "INSERT"
	case UpdateKind:
		return "UPDATE"
	case DeleteKind:
		return "DELETE"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Statement is a rendered statement and its bind parameters.
type Statement struct {
	Kind Kind
	SQL  string
	Args []any
}

// Build renders q as a statement of the given kind.
//
//	st, err := sql.Build(sql.Postgres(), sql.SelectKind, q)
//	rows, err := db.QueryContext(ctx, st.SQL, st.Args...)
func Build(d Database, kind Kind, q *Query) (Statement, error) {
	var (
		args []any
		text string
		err  error
	)
	switch kind {
	case SelectKind:
		text, err = d.SelectSQL(q, &args)
	case InsertKind:
		text, err = d.InsertSQL(q, &args)
	case UpdateKind:
		text, err = d.UpdateSQL(q, &args)
	case DeleteKind:
		text, err = d.DeleteSQL(q, &args)
	default:
		return Statement{}, &sqlweave.BuilderError{Op: "sql.Build", Message: "unknown statement " + kind.String()}
	}
	if err != nil {
		return Statement{}, err
	}
	return Statement{Kind: kind, SQL: text, Args: args}, nil
}

// Option configures a Database.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	parent    *convert.Registry
	maxString *int
	maxBinary *int
}

// WithLogger sets the logger of the database. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxStringLiteral sets the length in runes above which strings are
// bound as parameters. Zero disables the threshold.
func WithMaxStringLiteral(n int) Option {
	return func(o *options) {
		o.maxString = &n
	}
}

// WithMaxBinaryLiteral sets the length in bytes above which binary values
// are bound as parameters. Zero disables the threshold.
func WithMaxBinaryLiteral(n int) Option {
	return func(o *options) {
		o.maxBinary = &n
	}
}

// WithRegistry sets the registry the dialect overlay is layered on.
// Defaults to convert.Base().
func WithRegistry(r *convert.Registry) Option {
	return func(o *options) {
		o.parent = r
	}
}

// OpenDatabase returns the renderer of the named dialect.
func OpenDatabase(name string, opts ...Option) (Database, error) {
	switch name {
	case dialect.Standard:
		return Standard(opts...), nil
	case dialect.Postgres:
		return Postgres(opts...), nil
	case dialect.MySQL:
		return MySQL(opts...), nil
	case dialect.SQLite:
		return SQLite(opts...), nil
	case dialect.SQLServer:
		return SQLServer(opts...), nil
	default:
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
}

// joinStyle is how a dialect expresses joins in UPDATE and DELETE.
type joinStyle int

const (
	joinUnsupported joinStyle = iota
	// UPDATE t a SET ... FROM j b WHERE on / DELETE FROM t AS a USING j b WHERE on
	joinFrom
	// UPDATE t a INNER JOIN j b ON on SET ... / DELETE a FROM t a INNER JOIN j b ON on
	joinInline
	// UPDATE a SET ... FROM t a INNER JOIN j b ON on
	joinTarget
)

// rules holds the dialect-specific parts of statement rendering.
type rules struct {
	offsetLimit bool
	fullJoin    bool
	updateJoin  joinStyle
	deleteJoin  joinStyle
	// deleteTarget renders DELETE a FROM t a for aliased single-table deletes.
	deleteTarget bool
	// writeLimit allows ORDER BY and LIMIT in single-table UPDATE and DELETE.
	writeLimit bool
	paginate   func(q *Query) string
	lock       func(name string, q *Query) (string, error)
	hint       func(q *Query) (string, error)
	bind       func(n int) string
}

// base implements Database on top of a rules table.
type base struct {
	name     string
	registry *convert.Registry
	logger   *slog.Logger
	rules    rules
}

func newBase(name string, style convert.LiteralStyle, r rules, opts []Option) *base {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parent == nil {
		o.parent = convert.Base()
	}
	if o.maxString != nil {
		style.MaxString = *o.maxString
	}
	if o.maxBinary != nil {
		style.MaxBinary = *o.maxBinary
	}
	reg := convert.NewRegistry(o.parent, convert.WithLogger(o.logger))
	style.Install(reg)
	return &base{name: name, registry: reg, logger: o.logger, rules: r}
}

func (b *base) Name() string                { return b.name }
func (b *base) Registry() *convert.Registry { return b.registry }
func (b *base) Logger() *slog.Logger        { return b.logger }
func (b *base) SupportsOffsetLimit() bool   { return b.rules.offsetLimit }
func (b *base) String() string              { return "sql.Database(" + b.name + ")" }

func (b *base) unsupported(feature string) error {
	return sqlweave.NewUnsupportedFeatureError(b.name, feature)
}

// Rebind implements Database.
func (b *base) Rebind(query string) string {
	if b.rules.bind == nil {
		return query
	}
	out, err := rebind(query, b.rules.bind)
	if err != nil {
		b.logger.Warn("sql: placeholders not rebound", "query", query, "error", err)
		return query
	}
	return out
}

var _ Database = (*base)(nil)

// limitOffset renders " LIMIT n OFFSET m". noLimit is the LIMIT value used
// when only an offset is set, or "" to emit a bare OFFSET.
func limitOffset(noLimit string) func(q *Query) string {
	return func(q *Query) string {
		var b strings.Builder
		switch {
		case q.limit != nil:
			b.WriteString(" LIMIT " + strconv.Itoa(*q.limit))
		case q.offset != nil && noLimit != "":
			b.WriteString(" LIMIT " + noLimit)
		}
		if q.offset != nil {
			b.WriteString(" OFFSET " + strconv.Itoa(*q.offset))
		}
		return b.String()
	}
}

// String returns the SQL keywords of the wait policy.
func (w LockWait) String() string {
	switch w {
	case WaitNoWait:
		return "NOWAIT"
	case WaitSkipLocked:
		return "SKIP LOCKED"
	default:
		return ""
	}
}

// String returns the SQL keywords of the lock mode.
func (m LockMode) String() string {
	switch m {
	case LockUpdate:
		return "FOR UPDATE"
	case LockShare:
		return "FOR SHARE"
	default:
		return ""
	}
}

func checkLock(q *Query) error {
	if q.lock == LockNone && q.wait != WaitDefault {
		return &sqlweave.IllegalStateError{Op: q.wait.String(), Message: "requires FOR UPDATE or FOR SHARE"}
	}
	return nil
}

// rowLock renders FOR UPDATE/FOR SHARE with an optional wait policy.
func rowLock(_ string, q *Query) (string, error) {
	if err := checkLock(q); err != nil || q.lock == LockNone {
		return "", err
	}
	clause := " " + q.lock.String()
	if q.wait != WaitDefault {
		clause += " " + q.wait.String()
	}
	return clause, nil
}

// updateLockOnly renders FOR UPDATE and rejects everything else.
func updateLockOnly(name string, q *Query) (string, error) {
	if err := checkLock(q); err != nil || q.lock == LockNone {
		return "", err
	}
	if q.lock != LockUpdate {
		return "", sqlweave.NewUnsupportedFeatureError(name, q.lock.String())
	}
	if q.wait != WaitDefault {
		return "", sqlweave.NewUnsupportedFeatureError(name, q.wait.String())
	}
	return " FOR UPDATE", nil
}

// noLock rejects any row lock.
func noLock(name string, q *Query) (string, error) {
	if err := checkLock(q); err != nil || q.lock == LockNone {
		return "", err
	}
	return "", sqlweave.NewUnsupportedFeatureError(name, q.lock.String())
}
