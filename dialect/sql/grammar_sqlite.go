package sql

import (
	"fmt"
	"strings"

	"github.com/querykit/querykit"
	"github.com/querykit/querykit/dialect"
)

// SQLiteGrammar compiles for SQLite: `insert or ignore`, `on conflict`
// upserts, strftime-based date parts, rowid-based update/delete with
// joins, and a two-statement truncate that resets the autoincrement
// sequence.
type SQLiteGrammar struct {
	grammarBase
}

// NewSQLiteGrammar returns the SQLite grammar.
func NewSQLiteGrammar() *SQLiteGrammar {
	g := &SQLiteGrammar{}
	g.dialect = dialect.SQLite
	g.self = g
	return g
}

func (g *SQLiteGrammar) Operators() []string {
	return []string{"glob", "not glob", "match", "not match"}
}

// compileLock returns nothing: SQLite locking is connection-level, so row
// lock requests are silently dropped.
func (g *SQLiteGrammar) compileLock(b *Builder) (string, error) {
	if s, ok := b.lock.(string); ok {
		return s, nil
	}
	return "", nil
}

// compileLimitOffset emits `limit -1` before a bare offset, which SQLite
// requires.
func (g *SQLiteGrammar) compileLimitOffset(b *Builder) (string, error) {
	if b.offset >= 0 && b.limit < 0 {
		return fmt.Sprintf("limit -1 offset %d", b.offset), nil
	}
	return g.grammarBase.compileLimitOffset(b)
}

// wrapUnion lifts each side into a plain select, since SQLite rejects
// parenthesized union members.
func (g *SQLiteGrammar) wrapUnion(sql string) string {
	return "select * from (" + sql + ")"
}

func (g *SQLiteGrammar) dateBasedWhere(w *whereDateBased) (string, error) {
	col, err := g.Wrap(w.column)
	if err != nil {
		return "", err
	}
	formats := map[string]string{
		"date":  "%Y-%m-%d",
		"day":   "%d",
		"month": "%m",
		"year":  "%Y",
		"time":  "%H:%M:%S",
	}
	return "strftime('" + formats[w.kind] + "', " + col + ") " + w.operator + " cast(" + g.parameter(w.value) + " as text)", nil
}

func (g *SQLiteGrammar) wrapJSONSelector(column string) (string, error) {
	field, path := splitJSONSelector(column)
	col, err := g.Wrap(field)
	if err != nil {
		return "", err
	}
	return "json_extract(" + col + ", " + path + ")", nil
}

func (g *SQLiteGrammar) compileJSONBoolean(w *whereJSONBoolean) (string, error) {
	sel, err := g.wrapJSONSelector(w.column)
	if err != nil {
		return "", err
	}
	value := "false"
	if w.value {
		value = "true"
	}
	return sel + " = " + value, nil
}

func (g *SQLiteGrammar) CompileInsertOrIgnore(b *Builder, rows []Row) (string, []any, error) {
	sql, args, err := g.CompileInsert(b, rows)
	if err != nil {
		return "", nil, err
	}
	return "insert or ignore" + strings.TrimPrefix(sql, "insert"), args, nil
}

func (g *SQLiteGrammar) CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error) {
	sql, args, err := g.CompileInsert(b, rows)
	if err != nil {
		return "", nil, err
	}
	assignments := make([]string, len(update))
	for i, c := range update {
		assignments[i] = g.WrapValue(c) + " = " + `"excluded".` + g.WrapValue(c)
	}
	return sql + " on conflict (" + g.columnizeStrings(uniqueBy) + ") do update set " + strings.Join(assignments, ", "), args, nil
}

func (g *SQLiteGrammar) compileUpdateWithJoins(b *Builder, table, columns, where string) (string, error) {
	sub, err := g.joinRowPointerSelect(b, table, where, "rowid")
	if err != nil {
		return "", err
	}
	return "update " + table + " set " + columns + " where " + g.WrapValue("rowid") + " in (" + sub + ")", nil
}

// compileUpdateWithoutJoins routes limited updates through the rowid
// sub-select as well, since SQLite updates take no limit of their own.
func (g *SQLiteGrammar) compileUpdateWithoutJoins(b *Builder, table, columns, where string) (string, error) {
	if b.limit < 0 {
		return g.grammarBase.compileUpdateWithoutJoins(b, table, columns, where)
	}
	sub, err := g.limitedRowPointerSelect(b, table, where)
	if err != nil {
		return "", err
	}
	return "update " + table + " set " + columns + " where " + g.WrapValue("rowid") + " in (" + sub + ")", nil
}

func (g *SQLiteGrammar) compileDeleteWithJoins(b *Builder, table, where string) (string, error) {
	sub, err := g.joinRowPointerSelect(b, table, where, "rowid")
	if err != nil {
		return "", err
	}
	return "delete from " + table + " where " + g.WrapValue("rowid") + " in (" + sub + ")", nil
}

func (g *SQLiteGrammar) compileDeleteWithoutJoins(b *Builder, table, where string) (string, error) {
	if b.limit < 0 {
		return g.grammarBase.compileDeleteWithoutJoins(b, table, where)
	}
	sub, err := g.limitedRowPointerSelect(b, table, where)
	if err != nil {
		return "", err
	}
	return "delete from " + table + " where " + g.WrapValue("rowid") + " in (" + sub + ")", nil
}

// limitedRowPointerSelect builds the rowid sub-select of a limited write,
// carrying the query's order and limit.
func (g *SQLiteGrammar) limitedRowPointerSelect(b *Builder, table, where string) (string, error) {
	sub := "select " + table + "." + g.WrapValue("rowid") + " from " + table
	if where != "" {
		sub += " " + where
	}
	if o, err := g.compileOrders(b.orders); err != nil {
		return "", err
	} else if o != "" {
		sub += " " + o
	}
	sub += fmt.Sprintf(" limit %d", b.limit)
	return sub, nil
}

func (g *SQLiteGrammar) PrepareBindingsForUpdate(b *Builder, values Row) []any {
	args := updateValueBindings(values)
	for _, k := range bindingOrder {
		if k == bindSelect {
			continue
		}
		args = append(args, b.bindings[k]...)
	}
	return args
}

// CompileTruncate empties the table and resets its autoincrement counter.
func (g *SQLiteGrammar) CompileTruncate(b *Builder) ([]Statement, error) {
	if b.from == nil {
		return nil, querykit.NewMissingClauseError("Truncate", "from")
	}
	table, _ := b.from.(string)
	return []Statement{
		{SQL: "delete from sqlite_sequence where name = ?", Bindings: []any{g.tablePrefix + table}},
		{SQL: "delete from " + g.WrapTable(b.from)},
	}, nil
}
