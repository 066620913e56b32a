package sql

// Expr marks a string as literal SQL. Wrapped values are injected into the
// compiled query verbatim: they are never quoted and never registered as
// bindings. Expr values are immutable and compared by identity.
type Expr struct {
	sql string
}

// Raw returns a new literal SQL expression.
//
// The string is trusted: callers must never interpolate user input into it.
func Raw(sql string) *Expr {
	return &Expr{sql: sql}
}

// String returns the literal SQL carried by the expression.
func (e *Expr) String() string { return e.sql }

// queryable marks Expr as a literal sub-query: it resolves to its SQL text
// with no bindings.
func (e *Expr) queryable() {}

// rawSQL returns the literal text of v if it is an Expr.
func rawSQL(v any) (string, bool) {
	e, ok := v.(*Expr)
	if !ok {
		return "", false
	}
	return e.sql, true
}
