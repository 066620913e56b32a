package sql

import (
	"context"

	"github.com/querykit/querykit/dialect"
)

// Connection binds a dialect.Driver to the grammar and processor of its
// dialect and hands out builders. It is safe for concurrent use; the
// builders it creates are not.
type Connection struct {
	driver    dialect.Driver
	grammar   Grammar
	processor Processor
	database  string
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithDatabase records the database name, used to qualify tables in
// cross-database sub-queries.
func WithDatabase(name string) ConnectionOption {
	return func(c *Connection) { c.database = name }
}

// WithTablePrefix prefixes every compiled table name.
func WithTablePrefix(prefix string) ConnectionOption {
	return func(c *Connection) { c.grammar.SetTablePrefix(prefix) }
}

// WithGrammar overrides the dialect-derived grammar.
func WithGrammar(g Grammar) ConnectionOption {
	return func(c *Connection) { c.grammar = g }
}

// WithProcessor overrides the dialect-derived processor.
func WithProcessor(p Processor) ConnectionOption {
	return func(c *Connection) { c.processor = p }
}

// NewConnection wraps a driver, deriving grammar and processor from its
// dialect.
func NewConnection(drv dialect.Driver, opts ...ConnectionOption) *Connection {
	c := &Connection{
		driver:    drv,
		grammar:   NewGrammar(drv.Dialect()),
		processor: NewProcessor(drv.Dialect()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect name of the wrapped driver.
func (c *Connection) Dialect() string { return c.driver.Dialect() }

// Database returns the configured database name, if any.
func (c *Connection) Database() string { return c.database }

// Driver returns the wrapped driver.
func (c *Connection) Driver() dialect.Driver { return c.driver }

// Grammar returns the connection's grammar.
func (c *Connection) Grammar() Grammar { return c.grammar }

// Query returns an empty builder bound to this connection.
func (c *Connection) Query() *Builder {
	return NewBuilder(c)
}

// Table returns a builder targeting the given table.
func (c *Connection) Table(name string) *Builder {
	return c.Query().From(name)
}

// Raw returns a literal SQL expression.
func (c *Connection) Raw(sql string) *Expr {
	return Raw(sql)
}

// Select runs a compiled query and returns its rows.
func (c *Connection) Select(ctx context.Context, query string, args []any) (*Rows, error) {
	rows := &Rows{}
	if err := c.driver.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Statement executes a compiled statement, discarding the result.
func (c *Connection) Statement(ctx context.Context, query string, args []any) error {
	return c.driver.Exec(ctx, query, args, nil)
}

// AffectingStatement executes a compiled statement and returns the number
// of affected rows.
func (c *Connection) AffectingStatement(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	if err := c.driver.Exec(ctx, query, args, &affected); err != nil {
		return 0, err
	}
	return affected, nil
}

// Exec executes a compiled statement and returns the driver result.
func (c *Connection) Exec(ctx context.Context, query string, args []any) (Result, error) {
	var res Result
	if err := c.driver.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Tx starts a transaction and returns a connection view running on it.
// The returned rollback/commit handle controls the transaction; the
// connection's builders execute inside it.
func (c *Connection) Tx(ctx context.Context) (*Connection, dialect.Tx, error) {
	tx, err := c.driver.Tx(ctx)
	if err != nil {
		return nil, nil, err
	}
	txc := &Connection{
		driver:    txDriver{tx: tx, dialect: c.driver.Dialect()},
		grammar:   c.grammar,
		processor: c.processor,
		database:  c.database,
	}
	return txc, tx, nil
}

// txDriver lets a transaction stand in as a driver for builders scoped to
// it. Tx hands back the transaction itself and Close is a no-op, since
// the transaction owns the connection lifecycle.
type txDriver struct {
	tx      dialect.Tx
	dialect string
}

func (d txDriver) Exec(ctx context.Context, query string, args, v any) error {
	return d.tx.Exec(ctx, query, args, v)
}

func (d txDriver) Query(ctx context.Context, query string, args, v any) error {
	return d.tx.Query(ctx, query, args, v)
}

func (d txDriver) Tx(context.Context) (dialect.Tx, error) { return d.tx, nil }

func (d txDriver) Close() error { return nil }

func (d txDriver) Dialect() string { return d.dialect }
