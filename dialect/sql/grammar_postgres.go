package sql

import (
	"strconv"
	"strings"

	"github.com/querykit/querykit"
	"github.com/querykit/querykit/dialect"
)

// PostgresGrammar compiles for PostgreSQL: $N placeholders, `distinct on`,
// `on conflict` upserts, `returning` for generated keys, and ctid-based
// update/delete with joins.
type PostgresGrammar struct {
	grammarBase
}

// NewPostgresGrammar returns the PostgreSQL grammar.
func NewPostgresGrammar() *PostgresGrammar {
	g := &PostgresGrammar{}
	g.dialect = dialect.Postgres
	g.self = g
	return g
}

func (g *PostgresGrammar) Operators() []string {
	return []string{
		"@>", "<@", "&&", "||", "#-",
		"is distinct from", "is not distinct from",
	}
}

func (g *PostgresGrammar) BitwiseOperators() []string {
	return []string{"~", "#", "<<=", ">>="}
}

// compileWhereBitwise casts the bitwise result to bool, since Postgres
// does not treat integers as conditions.
func (g *PostgresGrammar) compileWhereBitwise(w *whereBitwise) (string, error) {
	col, err := g.Wrap(w.column)
	if err != nil {
		return "", err
	}
	return "(" + col + " " + w.operator + " " + g.parameter(w.value) + ")::bool", nil
}

func (g *PostgresGrammar) havingBitwiseFragment(col string, h *havingBitwise) (string, error) {
	return "(" + col + " " + h.operator + " " + g.parameter(h.value) + ")::bool", nil
}

func (g *PostgresGrammar) compileColumns(b *Builder) (string, error) {
	if b.aggregate != nil {
		return g.compileAggregate(b)
	}
	sel := "select "
	if b.distinct {
		if len(b.distinctColumns) > 0 {
			cols, err := g.columnize(b.distinctColumns)
			if err != nil {
				return "", err
			}
			sel = "select distinct on (" + cols + ") "
		} else {
			sel = "select distinct "
		}
	}
	columns := b.columns
	if len(columns) == 0 {
		columns = []any{"*"}
	}
	cols, err := g.columnize(columns)
	if err != nil {
		return "", err
	}
	return sel + cols, nil
}

// wrapJSONSelector renders `col->a->b` with -> traversal and a final ->>
// text extraction.
func (g *PostgresGrammar) wrapJSONSelector(column string) (string, error) {
	field, segs := splitJSONPathSegments(column)
	col, err := g.Wrap(field)
	if err != nil {
		return "", err
	}
	for i, s := range segs {
		op := "->"
		if i == len(segs)-1 {
			op = "->>"
		}
		col += op + "'" + s + "'"
	}
	return col, nil
}

func (g *PostgresGrammar) compileJSONBoolean(w *whereJSONBoolean) (string, error) {
	sel, err := g.wrapJSONSelector(w.column)
	if err != nil {
		return "", err
	}
	value := "false"
	if w.value {
		value = "true"
	}
	return "(" + sel + ")::boolean = " + value, nil
}

// splitJSONPathSegments splits "col->a->b" (or "col->a.b") into the column
// and its path segments.
func splitJSONPathSegments(column string) (field string, segs []string) {
	parts := strings.Split(column, "->")
	field = parts[0]
	for _, p := range parts[1:] {
		segs = append(segs, strings.Split(p, ".")...)
	}
	return field, segs
}

func (g *PostgresGrammar) dateBasedWhere(w *whereDateBased) (string, error) {
	col, err := g.Wrap(w.column)
	if err != nil {
		return "", err
	}
	switch w.kind {
	case "date":
		return col + "::date " + w.operator + " " + g.parameter(w.value), nil
	case "time":
		return col + "::time " + w.operator + " " + g.parameter(w.value), nil
	default:
		return "extract(" + w.kind + " from " + col + ") " + w.operator + " " + g.parameter(w.value), nil
	}
}

func (g *PostgresGrammar) compileFulltext(w *whereFulltext) (string, error) {
	language := w.options.Language
	if language == "" {
		language = "english"
	}
	wrapped := make([]string, len(w.columns))
	for i, c := range w.columns {
		col, err := g.Wrap(c)
		if err != nil {
			return "", err
		}
		wrapped[i] = col
	}
	vector := strings.Join(wrapped, " || ' ' || ")
	return "to_tsvector('" + language + "', " + vector + ") @@ plainto_tsquery('" + language + "', ?)", nil
}

func (g *PostgresGrammar) CompileInsertOrIgnore(b *Builder, rows []Row) (string, []any, error) {
	sql, args, err := g.CompileInsert(b, rows)
	if err != nil {
		return "", nil, err
	}
	return sql + " on conflict do nothing", args, nil
}

func (g *PostgresGrammar) CompileInsertGetID(b *Builder, row Row, sequence string) (string, []any, error) {
	var (
		sql  string
		args []any
		err  error
	)
	if len(row) == 0 {
		sql, args, err = g.CompileInsert(b, nil)
	} else {
		sql, args, err = g.CompileInsert(b, []Row{row})
	}
	if err != nil {
		return "", nil, err
	}
	return sql + " returning " + g.WrapValue(sequence), args, nil
}

func (g *PostgresGrammar) CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error) {
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

// compileUpdateWithJoins restricts the update through a ctid sub-select,
// since Postgres updates cannot carry join clauses directly.
func (g *PostgresGrammar) compileUpdateWithJoins(b *Builder, table, columns, where string) (string, error) {
	sub, err := g.joinRowPointerSelect(b, table, where, "ctid")
	if err != nil {
		return "", err
	}
	return "update " + table + " set " + columns + " where " + g.WrapValue("ctid") + " in (" + sub + ")", nil
}

func (g *PostgresGrammar) compileDeleteWithJoins(b *Builder, table, where string) (string, error) {
	sub, err := g.joinRowPointerSelect(b, table, where, "ctid")
	if err != nil {
		return "", err
	}
	return "delete from " + table + " where " + g.WrapValue("ctid") + " in (" + sub + ")", nil
}

// joinRowPointerSelect builds the inner select of a join-restricted write:
// `select <table>.<pointer> from <table> <joins> <where>`.
func (g *grammarBase) joinRowPointerSelect(b *Builder, table, where, pointer string) (string, error) {
	joins, err := g.compileJoins(b)
	if err != nil {
		return "", err
	}
	sub := "select " + table + "." + g.self.WrapValue(pointer) + " from " + table
	if joins != "" {
		sub += " " + joins
	}
	if where != "" {
		sub += " " + where
	}
	return sub, nil
}

func (g *PostgresGrammar) PrepareBindingsForUpdate(b *Builder, values Row) []any {
	args := updateValueBindings(values)
	for _, k := range bindingOrder {
		if k == bindSelect {
			continue
		}
		args = append(args, b.bindings[k]...)
	}
	return args
}

func (g *PostgresGrammar) CompileTruncate(b *Builder) ([]Statement, error) {
	if b.from == nil {
		return nil, querykit.NewMissingClauseError("Truncate", "from")
	}
	return []Statement{{SQL: "truncate " + g.WrapTable(b.from) + " restart identity cascade"}}, nil
}

// ReplacePlaceholders rewrites neutral `?` placeholders to $1..$n,
// skipping string literals and quoted identifiers.
func (g *PostgresGrammar) ReplacePlaceholders(sql string) string {
	var out strings.Builder
	out.Grow(len(sql) + 8)
	n := 0
	var inSingle, inDouble bool
	for _, r := range sql {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '?' && !inSingle && !inDouble:
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
