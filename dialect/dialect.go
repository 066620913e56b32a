package dialect

import (
	"context"
)

// Dialect names the builder and its grammars understand.
const (
	// Generic is the ANSI baseline grammar used when no concrete engine
	// is targeted.
	Generic = "generic"
	// MySQL covers MySQL and MariaDB.
	MySQL = "mysql"
	// Postgres covers PostgreSQL.
	Postgres = "postgres"
	// SQLite covers SQLite and compatible embedded engines.
	SQLite = "sqlite"
	// SQLServer covers Microsoft SQL Server.
	SQLServer = "sqlserver"
)

// ExecQuerier is the minimal interface for executing statements and
// running queries. It is implemented by both Driver and Tx.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. The args
	// argument must be of type []any, and v (when non-nil) receives the
	// driver result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows. The args argument must be
	// of type []any, and v receives the returned rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the persistence-layer interface consumed by the query builder's
// execution boundary.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transaction created by a Driver. A transaction is itself an
// ExecQuerier scoped to a single connection.
type Tx interface {
	ExecQuerier
	// Commit commits the transaction.
	Commit() error
	// Rollback discards the transaction.
	Rollback() error
}
