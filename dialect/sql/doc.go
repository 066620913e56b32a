// Package sql provides a fluent, dialect-agnostic SQL query builder and
// the standard dialect.Driver implementation on top of database/sql.
//
// # Building queries
//
// A Builder accumulates a mutable clause model and compiles it on demand.
// Builders come from a Connection for execution, or from Dialect for
// offline compilation:
//
//	sql, args, err := sql.Dialect(dialect.Postgres).
//	    From("users").
//	    Select("id", "name").
//	    WhereEq("active", true).
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    ToSQL()
//
// Bindings are collected into category buckets (select, from, join,
// where, groupBy, having, order, union, unionOrder) and flattened in that
// fixed order, so they always line up with the compiled placeholders no
// matter the order of the fluent calls.
//
// # Executing queries
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	conn := sql.NewConnection(drv)
//	rows, err := conn.Table("users").WhereEq("active", true).Get(ctx)
//
// Fluent calls never return errors; misuse is accumulated on the builder
// and surfaced by ToSQL and every terminal operation.
//
// Session variables can be attached to a context with WithVar; they are
// set on the session before the statement runs and reset afterwards:
//
//	ctx = sql.WithVar(ctx, "app.tenant", tenantID)
//	rows, err := conn.Table("orders").Get(ctx)
//
// # Dialects
//
// Each dialect has a Grammar that renders the shared clause model into
// engine-specific SQL: identifier quoting, placeholders, pagination,
// locks, upserts, JSON selectors and date parts all vary per grammar,
// while the builder API stays identical.
//
// Raw marks trusted literal SQL that is injected verbatim and never
// parameterized:
//
//	conn.Table("orders").Select(sql.Raw("count(*) as total"))
package sql
