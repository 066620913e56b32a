// Package dialect defines the database dialect abstraction for querykit.
//
// It names the supported SQL dialects and declares the interfaces through
// which compiled queries reach a database, allowing the query builder to
// target multiple engines from a single clause model.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Generic   = "generic"   // ANSI baseline
//	dialect.MySQL     = "mysql"     // MySQL / MariaDB
//	dialect.Postgres  = "postgres"  // PostgreSQL
//	dialect.SQLite    = "sqlite"    // SQLite
//	dialect.SQLServer = "sqlserver" // Microsoft SQL Server
//
// # Driver Interface
//
// Driver is the execution boundary: building and compiling a query is pure
// and synchronous, and only a Driver call touches the network.
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The dialect/sql sub-package provides the standard implementation on top
// of database/sql, together with the query builder and the per-dialect
// grammar compilers.
//
// # Usage
//
//	import (
//	    "github.com/querykit/querykit/dialect"
//	    "github.com/querykit/querykit/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	conn := sql.NewConnection(drv)
//	users, err := conn.Table("users").WhereEq("active", true).Get(ctx)
package dialect
