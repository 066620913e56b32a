package sql

import (
	"fmt"
	"strings"

	"github.com/querykit/querykit/dialect"
)

// MySQLGrammar compiles for MySQL and MariaDB: backtick identifiers,
// `insert ignore`, `on duplicate key update` upserts, and order/limit
// support on update and delete.
type MySQLGrammar struct {
	grammarBase
}

// NewMySQLGrammar returns the MySQL grammar.
func NewMySQLGrammar() *MySQLGrammar {
	g := &MySQLGrammar{}
	g.dialect = dialect.MySQL
	g.self = g
	return g
}

func (g *MySQLGrammar) Operators() []string {
	return []string{"sounds like"}
}

func (g *MySQLGrammar) WrapValue(value string) string {
	if value == "*" {
		return value
	}
	return "`" + strings.ReplaceAll(value, "`", "``") + "`"
}

// wrapJSONSelector renders `col->a.b` as
// json_unquote(json_extract(`col`, '$."a"."b"')).
func (g *MySQLGrammar) wrapJSONSelector(column string) (string, error) {
	field, path := splitJSONSelector(column)
	col, err := g.Wrap(field)
	if err != nil {
		return "", err
	}
	return "json_unquote(json_extract(" + col + ", " + path + "))", nil
}

func (g *MySQLGrammar) compileJSONBoolean(w *whereJSONBoolean) (string, error) {
	field, path := splitJSONSelector(w.column)
	col, err := g.Wrap(field)
	if err != nil {
		return "", err
	}
	value := "false"
	if w.value {
		value = "true"
	}
	return "json_extract(" + col + ", " + path + ") = " + value, nil
}

// splitJSONSelector splits "col->a->b" (or "col->a.b") into the column and
// a quoted JSON path literal '$."a"."b"'.
func splitJSONSelector(column string) (field, path string) {
	parts := strings.Split(column, "->")
	field = parts[0]
	var segs []string
	for _, p := range parts[1:] {
		for _, s := range strings.Split(p, ".") {
			segs = append(segs, `"`+s+`"`)
		}
	}
	return field, "'$." + strings.Join(segs, ".") + "'"
}

func (g *MySQLGrammar) compileFulltext(w *whereFulltext) (string, error) {
	cols := g.columnizeStrings(w.columns)
	mode := " in natural language mode"
	if strings.EqualFold(w.options.Mode, "boolean") {
		mode = " in boolean mode"
	}
	expansion := ""
	if w.options.Expanded && mode != " in boolean mode" {
		expansion = " with query expansion"
	}
	return "match (" + cols + ") against (?" + mode + expansion + ")", nil
}

func (g *MySQLGrammar) compileLock(b *Builder) (string, error) {
	switch l := b.lock.(type) {
	case nil:
		return "", nil
	case string:
		return l, nil
	case bool:
		if l {
			return "for update", nil
		}
		return "lock in share mode", nil
	default:
		return "", querykitInvalidArgument("Lock", "invalid lock value %T", b.lock)
	}
}

func (g *MySQLGrammar) CompileInsertOrIgnore(b *Builder, rows []Row) (string, []any, error) {
	sql, args, err := g.CompileInsert(b, rows)
	if err != nil {
		return "", nil, err
	}
	return "insert ignore" + strings.TrimPrefix(sql, "insert"), args, nil
}

func (g *MySQLGrammar) CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error) {
	sql, args, err := g.CompileInsert(b, rows)
	if err != nil {
		return "", nil, err
	}
	assignments := make([]string, len(update))
	for i, c := range update {
		col := g.WrapValue(c)
		assignments[i] = col + " = values(" + col + ")"
	}
	return sql + " on duplicate key update " + strings.Join(assignments, ", "), args, nil
}

// compileUpdateWithoutJoins honors order by and limit, which MySQL allows
// on single-table updates.
func (g *MySQLGrammar) compileUpdateWithoutJoins(b *Builder, table, columns, where string) (string, error) {
	sql := strings.TrimSpace("update " + table + " set " + columns + " " + where)
	if o, err := g.compileOrders(b.orders); err != nil {
		return "", err
	} else if o != "" {
		sql += " " + o
	}
	if b.limit >= 0 {
		sql += fmt.Sprintf(" limit %d", b.limit)
	}
	return sql, nil
}

func (g *MySQLGrammar) compileDeleteWithoutJoins(b *Builder, table, where string) (string, error) {
	sql := strings.TrimSpace("delete from " + table + " " + where)
	if o, err := g.compileOrders(b.orders); err != nil {
		return "", err
	} else if o != "" {
		sql += " " + o
	}
	if b.limit >= 0 {
		sql += fmt.Sprintf(" limit %d", b.limit)
	}
	return sql, nil
}

func (g *MySQLGrammar) CompileRandom(seed string) string {
	if seed == "" {
		return "rand()"
	}
	return "rand(" + seed + ")"
}
