package sql

import (
	"fmt"
	"strings"
)

// Queryable is the closed set of values that can stand in for a sub-query:
// a Func callback that receives a fresh builder, an already-built *Builder,
// or a literal *Expr. Nothing else implements it.
type Queryable interface {
	queryable()
}

// Func builds a sub-query in place. The callback receives a fresh builder
// bound to the same connection and grammar as its parent.
type Func func(*Builder)

func (Func) queryable() {}

// subQuery is a resolved sub-query stored inside a clause: either a builder
// compiled at grammar time, or literal SQL.
type subQuery struct {
	query *Builder
	raw   string
}

func (s subQuery) clone() subQuery {
	if s.query != nil {
		s.query = s.query.Clone()
	}
	return s
}

// compile renders the sub-query with the given grammar. Placeholders stay in
// neutral `?` form; the outermost statement rewrites them once.
func (s subQuery) compile(g Grammar) (string, error) {
	if s.query != nil {
		return g.CompileSelect(s.query)
	}
	return s.raw, nil
}

// resolveSub turns a Queryable into a clause-ready subQuery plus the
// bindings it contributes, resolving Func callbacks against a fresh builder.
func (b *Builder) resolveSub(op string, q Queryable) (subQuery, []any, error) {
	switch q := q.(type) {
	case Func:
		sub := b.forSubQuery()
		q(sub)
		return subQuery{query: sub}, sub.GetBindings(), sub.Err()
	case *Builder:
		if err := b.prependDatabaseIfCrossDatabase(q); err != nil {
			return subQuery{}, nil, err
		}
		return subQuery{query: q}, q.GetBindings(), q.Err()
	case *Expr:
		return subQuery{raw: q.String()}, nil, nil
	default:
		return subQuery{}, nil, querykitInvalidArgument(op, "unsupported sub-query type %T", q)
	}
}

// createSub resolves a Queryable to its SQL text and bindings, for callers
// that inline the sub-query immediately (selectSub, fromSub, joinSub).
func (b *Builder) createSub(op string, q Queryable) (string, []any, error) {
	sub, args, err := b.resolveSub(op, q)
	if err != nil {
		return "", nil, err
	}
	sql, err := sub.compile(b.grammar)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

// prependDatabaseIfCrossDatabase qualifies the sub-query's table with its
// connection's database name when it targets a different database on the
// same driver family.
func (b *Builder) prependDatabaseIfCrossDatabase(sub *Builder) error {
	if b.conn == nil || sub.conn == nil || sub.conn == b.conn {
		return nil
	}
	if sub.conn.Database() == b.conn.Database() {
		return nil
	}
	if b.conn.Dialect() != sub.conn.Dialect() {
		return querykitInvalidArgument("SubQuery", "cannot mix %s and %s connections in one query", b.conn.Dialect(), sub.conn.Dialect())
	}
	table, ok := sub.from.(string)
	if !ok {
		return nil
	}
	db := sub.conn.Database()
	if db == "" || strings.Contains(table, ".") {
		return nil
	}
	sub.from = fmt.Sprintf("%s.%s", db, table)
	return nil
}
