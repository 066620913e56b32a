package sql

import (
	"fmt"
	"strings"

	"github.com/querykit/querykit/dialect"
)

// SQLServerGrammar compiles for Microsoft SQL Server: bracket identifiers,
// `top` / `offset ... fetch` pagination, table hints for locks, `merge`
// upserts, and from-join syntax for joined writes.
type SQLServerGrammar struct {
	grammarBase
}

// NewSQLServerGrammar returns the SQL Server grammar.
func NewSQLServerGrammar() *SQLServerGrammar {
	g := &SQLServerGrammar{}
	g.dialect = dialect.SQLServer
	g.self = g
	return g
}

func (g *SQLServerGrammar) Operators() []string {
	return []string{"!<", "!>"}
}

func (g *SQLServerGrammar) WrapValue(value string) string {
	if value == "*" {
		return value
	}
	return "[" + strings.ReplaceAll(value, "]", "]]") + "]"
}

// compileColumns renders the limit as `top` when no offset is involved.
func (g *SQLServerGrammar) compileColumns(b *Builder) (string, error) {
	sql, err := g.grammarBase.compileColumns(b)
	if err != nil {
		return "", err
	}
	if b.aggregate == nil && b.limit >= 0 && b.offset < 0 {
		prefix := "select "
		if b.distinct {
			prefix = "select distinct "
		}
		sql = prefix + fmt.Sprintf("top %d ", b.limit) + strings.TrimPrefix(sql, prefix)
	}
	return sql, nil
}

// compileFrom appends lock table hints, which SQL Server expresses on the
// table reference rather than at the end of the statement.
func (g *SQLServerGrammar) compileFrom(b *Builder) (string, error) {
	from, err := g.grammarBase.compileFrom(b)
	if err != nil || from == "" {
		return from, err
	}
	switch l := b.lock.(type) {
	case bool:
		if l {
			return from + " with(rowlock,updlock,holdlock)", nil
		}
		return from + " with(rowlock,holdlock)", nil
	case string:
		return from + " " + l, nil
	}
	return from, nil
}

func (g *SQLServerGrammar) compileLock(b *Builder) (string, error) {
	return "", nil
}

// compileLimitOffset renders `offset ... fetch`, injecting a constant
// ordering when the query carries none, since SQL Server requires an
// order by before offset.
func (g *SQLServerGrammar) compileLimitOffset(b *Builder) (string, error) {
	if b.offset < 0 {
		return "", nil
	}
	sql := ""
	if len(b.orders) == 0 {
		sql = "order by (select 0) "
	}
	sql += fmt.Sprintf("offset %d rows", b.offset)
	if b.limit >= 0 {
		sql += fmt.Sprintf(" fetch next %d rows only", b.limit)
	}
	return sql, nil
}

func (g *SQLServerGrammar) compileUnionTrailing(b *Builder) (string, error) {
	var parts []string
	if o, err := g.compileOrders(b.unionOrders); err != nil {
		return "", err
	} else if o != "" {
		parts = append(parts, o)
	}
	if b.unionOffset >= 0 {
		if len(b.unionOrders) == 0 {
			parts = append(parts, "order by (select 0)")
		}
		parts = append(parts, fmt.Sprintf("offset %d rows", b.unionOffset))
		if b.unionLimit >= 0 {
			parts = append(parts, fmt.Sprintf("fetch next %d rows only", b.unionLimit))
		}
	} else if b.unionLimit >= 0 {
		if len(b.unionOrders) == 0 {
			parts = append(parts, "order by (select 0)")
		}
		parts = append(parts, fmt.Sprintf("offset 0 rows fetch next %d rows only", b.unionLimit))
	}
	return strings.Join(parts, " "), nil
}

func (g *SQLServerGrammar) wrapUnion(sql string) string {
	return "select * from (" + sql + ") as " + g.WrapValue("temp_table")
}

// CompileExists selects a constant under a top 1, since SQL Server has no
// boolean exists projection.
func (g *SQLServerGrammar) CompileExists(b *Builder) (string, error) {
	inner := b.Clone()
	inner.columns = []any{Raw("1 as " + g.WrapValue("exists"))}
	inner.limit = 1
	return g.CompileSelect(inner)
}

func (g *SQLServerGrammar) dateBasedWhere(w *whereDateBased) (string, error) {
	col, err := g.Wrap(w.column)
	if err != nil {
		return "", err
	}
	switch w.kind {
	case "date":
		return "cast(" + col + " as date) " + w.operator + " " + g.parameter(w.value), nil
	case "time":
		return "cast(" + col + " as time) " + w.operator + " " + g.parameter(w.value), nil
	default:
		return "datepart(" + w.kind + ", " + col + ") " + w.operator + " " + g.parameter(w.value), nil
	}
}

func (g *SQLServerGrammar) wrapJSONSelector(column string) (string, error) {
	field, path := splitJSONSelector(column)
	col, err := g.Wrap(field)
	if err != nil {
		return "", err
	}
	return "json_value(" + col + ", " + path + ")", nil
}

func (g *SQLServerGrammar) compileJSONBoolean(w *whereJSONBoolean) (string, error) {
	sel, err := g.wrapJSONSelector(w.column)
	if err != nil {
		return "", err
	}
	value := "'false'"
	if w.value {
		value = "'true'"
	}
	return sel + " = " + value, nil
}

// CompileUpsert renders a merge statement with the rows as an inline
// values source.
func (g *SQLServerGrammar) CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error) {
	if b.from == nil {
		return "", nil, querykitInvalidArgument("Upsert", "no table set")
	}
	table := g.WrapTable(b.from)
	columns, columnsSQL, valuesSQL, args, err := g.insertCore(rows)
	if err != nil {
		return "", nil, err
	}
	source := g.WrapValue("source")
	on := make([]string, len(uniqueBy))
	for i, c := range uniqueBy {
		on[i] = table + "." + g.WrapValue(c) + " = " + source + "." + g.WrapValue(c)
	}
	assignments := make([]string, len(update))
	for i, c := range update {
		assignments[i] = g.WrapValue(c) + " = " + source + "." + g.WrapValue(c)
	}
	insertColumns := make([]string, len(columns))
	for i, c := range columns {
		insertColumns[i] = source + "." + g.WrapValue(c)
	}
	sql := "merge " + table +
		" using (values " + valuesSQL + ") as " + source + " (" + columnsSQL + ")" +
		" on " + strings.Join(on, " and ") +
		" when matched then update set " + strings.Join(assignments, ", ") +
		" when not matched then insert (" + columnsSQL + ") values (" + strings.Join(insertColumns, ", ") + ");"
	return sql, args, nil
}

func (g *SQLServerGrammar) compileUpdateWithJoins(b *Builder, table, columns, where string) (string, error) {
	joins, err := g.compileJoins(b)
	if err != nil {
		return "", err
	}
	sql := "update " + g.deleteAlias(b) + " set " + columns + " from " + table + " " + joins
	if where != "" {
		sql += " " + where
	}
	return sql, nil
}

func (g *SQLServerGrammar) compileDeleteWithJoins(b *Builder, table, where string) (string, error) {
	joins, err := g.compileJoins(b)
	if err != nil {
		return "", err
	}
	sql := "delete " + g.deleteAlias(b) + " from " + table + " " + joins
	if where != "" {
		sql += " " + where
	}
	return sql, nil
}

func (g *SQLServerGrammar) PrepareBindingsForUpdate(b *Builder, values Row) []any {
	args := updateValueBindings(values)
	for _, k := range bindingOrder {
		if k == bindSelect {
			continue
		}
		args = append(args, b.bindings[k]...)
	}
	return args
}

func (g *SQLServerGrammar) CompileRandom(seed string) string {
	return "newid()"
}
