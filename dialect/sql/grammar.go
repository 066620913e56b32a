package sql

import (
	"fmt"
	"strings"

	"github.com/querykit/querykit"
	"github.com/querykit/querykit/dialect"
)

// Statement is one compiled SQL statement with the bindings it owns.
// Operations that compile to multiple statements (Truncate on SQLite)
// return a slice of them.
type Statement struct {
	SQL      string
	Bindings []any
}

// Grammar compiles a builder's clause model into dialect-specific SQL.
// Compilation is pure: it reads the builder and never mutates it, so a
// grammar value is safe for concurrent use.
//
// All compile methods emit neutral `?` placeholders; ReplacePlaceholders
// rewrites a complete statement into the dialect's native placeholder
// syntax exactly once.
type Grammar interface {
	Dialect() string
	TablePrefix() string
	SetTablePrefix(prefix string)

	// Operators and BitwiseOperators extend the baseline operator
	// whitelists.
	Operators() []string
	BitwiseOperators() []string

	// Wrap quotes a column reference, resolving aliases, table
	// qualification and JSON selectors.
	Wrap(value any) (string, error)
	// WrapValue quotes a single identifier segment.
	WrapValue(value string) string
	// WrapTable quotes a table reference, applying the table prefix.
	WrapTable(table any) string

	CompileSelect(b *Builder) (string, error)
	CompileExists(b *Builder) (string, error)
	CompileInsert(b *Builder, rows []Row) (string, []any, error)
	CompileInsertOrIgnore(b *Builder, rows []Row) (string, []any, error)
	CompileInsertGetID(b *Builder, row Row, sequence string) (string, []any, error)
	CompileInsertUsing(b *Builder, columns []string, sub string) (string, error)
	CompileUpdate(b *Builder, values Row) (string, error)
	PrepareBindingsForUpdate(b *Builder, values Row) []any
	CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error)
	CompileDelete(b *Builder) (string, error)
	PrepareBindingsForDelete(b *Builder) []any
	CompileTruncate(b *Builder) ([]Statement, error)
	CompileRandom(seed string) string
	ReplacePlaceholders(sql string) string

	// Overridable fragments. Concrete grammars embed grammarBase and
	// shadow the fragments their dialect renders differently; the base
	// dispatches through its back-reference so overrides win.
	compileColumns(b *Builder) (string, error)
	compileFrom(b *Builder) (string, error)
	compileLimitOffset(b *Builder) (string, error)
	compileUnionTrailing(b *Builder) (string, error)
	compileLock(b *Builder) (string, error)
	wrapUnion(sql string) string
	wrapJSONSelector(column string) (string, error)
	compileJSONBoolean(w *whereJSONBoolean) (string, error)
	dateBasedWhere(w *whereDateBased) (string, error)
	compileFulltext(w *whereFulltext) (string, error)
	compileWhereBitwise(w *whereBitwise) (string, error)
	havingBitwiseFragment(col string, h *havingBitwise) (string, error)
	compileUpdateWithJoins(b *Builder, table, columns, where string) (string, error)
	compileUpdateWithoutJoins(b *Builder, table, columns, where string) (string, error)
	compileDeleteWithJoins(b *Builder, table, where string) (string, error)
	compileDeleteWithoutJoins(b *Builder, table, where string) (string, error)
}

// NewGrammar returns the grammar for the named dialect. Unknown names fall
// back to the generic ANSI grammar.
func NewGrammar(name string) Grammar {
	switch name {
	case dialect.MySQL:
		return NewMySQLGrammar()
	case dialect.Postgres:
		return NewPostgresGrammar()
	case dialect.SQLite:
		return NewSQLiteGrammar()
	case dialect.SQLServer:
		return NewSQLServerGrammar()
	default:
		return NewGenericGrammar()
	}
}

// GenericGrammar is the ANSI baseline: double-quoted identifiers, `?`
// placeholders, and no engine-specific extensions. Features without an
// ANSI rendering (upsert, JSON selectors, full-text) fail with an
// unsupported-feature error.
type GenericGrammar struct {
	grammarBase
}

// NewGenericGrammar returns the ANSI baseline grammar.
func NewGenericGrammar() *GenericGrammar {
	g := &GenericGrammar{}
	g.dialect = dialect.Generic
	g.self = g
	return g
}

// grammarBase carries the dialect-independent compilation logic. The self
// field points at the concrete grammar so that base code picks up
// fragment overrides.
type grammarBase struct {
	dialect     string
	tablePrefix string
	self        Grammar
}

func (g *grammarBase) Dialect() string              { return g.dialect }
func (g *grammarBase) TablePrefix() string          { return g.tablePrefix }
func (g *grammarBase) SetTablePrefix(prefix string) { g.tablePrefix = prefix }
func (g *grammarBase) Operators() []string          { return nil }
func (g *grammarBase) BitwiseOperators() []string   { return nil }

// ---------------------------------------------------------------------------
// Identifier quoting

func (g *grammarBase) WrapValue(value string) string {
	if value == "*" {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func (g *grammarBase) Wrap(value any) (string, error) {
	if raw, ok := rawSQL(value); ok {
		return raw, nil
	}
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	if i := strings.Index(strings.ToLower(s), " as "); i >= 0 {
		col, err := g.self.Wrap(s[:i])
		if err != nil {
			return "", err
		}
		return col + " as " + g.self.WrapValue(s[i+4:]), nil
	}
	if strings.Contains(s, "->") {
		return g.self.wrapJSONSelector(s)
	}
	return g.wrapSegments(s), nil
}

func (g *grammarBase) wrapSegments(s string) string {
	segments := strings.Split(s, ".")
	parts := make([]string, len(segments))
	for i, seg := range segments {
		if i == 0 && len(segments) > 1 {
			parts[i] = g.self.WrapTable(seg)
		} else {
			parts[i] = g.self.WrapValue(seg)
		}
	}
	return strings.Join(parts, ".")
}

func (g *grammarBase) WrapTable(table any) string {
	if raw, ok := rawSQL(table); ok {
		return raw
	}
	s, ok := table.(string)
	if !ok {
		s = fmt.Sprint(table)
	}
	if i := strings.Index(strings.ToLower(s), " as "); i >= 0 {
		return g.wrapTableName(s[:i]) + " as " + g.self.WrapValue(g.tablePrefix+s[i+4:])
	}
	return g.wrapTableName(s)
}

// wrapTableName quotes a possibly schema-qualified table name, prefixing
// the final segment.
func (g *grammarBase) wrapTableName(s string) string {
	segments := strings.Split(s, ".")
	segments[len(segments)-1] = g.tablePrefix + segments[len(segments)-1]
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = g.self.WrapValue(seg)
	}
	return strings.Join(parts, ".")
}

// columnize wraps and comma-joins a column list.
func (g *grammarBase) columnize(columns []any) (string, error) {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		w, err := g.self.Wrap(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, ", "), nil
}

func (g *grammarBase) columnizeStrings(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = g.self.WrapValue(c)
	}
	return strings.Join(parts, ", ")
}

// parameter renders a bound value: literal expressions inline, everything
// else a neutral placeholder.
func (g *grammarBase) parameter(value any) string {
	if raw, ok := rawSQL(value); ok {
		return raw
	}
	return "?"
}

func (g *grammarBase) parameterize(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = g.parameter(v)
	}
	return strings.Join(parts, ", ")
}

// ---------------------------------------------------------------------------
// Select compilation

func (g *grammarBase) CompileSelect(b *Builder) (string, error) {
	if len(b.unions) > 0 && b.aggregate != nil {
		return g.compileUnionAggregate(b)
	}
	parts := make([]string, 0, 10)
	appendPart := func(s string, err error) error {
		if err != nil {
			return err
		}
		if s != "" {
			parts = append(parts, s)
		}
		return nil
	}
	if err := appendPart(g.self.compileColumns(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.self.compileFrom(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.compileJoins(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.compileWheres(b, "where")); err != nil {
		return "", err
	}
	if err := appendPart(g.compileGroups(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.compileHavings(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.compileOrders(b.orders)); err != nil {
		return "", err
	}
	if err := appendPart(g.self.compileLimitOffset(b)); err != nil {
		return "", err
	}
	if err := appendPart(g.self.compileLock(b)); err != nil {
		return "", err
	}
	sql := strings.Join(parts, " ")
	if len(b.unions) == 0 {
		return sql, nil
	}
	sql = g.self.wrapUnion(sql)
	for _, u := range b.unions {
		frag, err := g.compileUnion(u)
		if err != nil {
			return "", err
		}
		sql += frag
	}
	trailing, err := g.self.compileUnionTrailing(b)
	if err != nil {
		return "", err
	}
	if trailing != "" {
		sql += " " + trailing
	}
	return sql, nil
}

func (g *grammarBase) compileColumns(b *Builder) (string, error) {
	if b.aggregate != nil {
		return g.compileAggregate(b)
	}
	sel := "select "
	if b.distinct {
		sel = "select distinct "
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

func (g *grammarBase) compileAggregate(b *Builder) (string, error) {
	column, err := g.columnize(b.aggregate.columns)
	if err != nil {
		return "", err
	}
	if b.distinct && column != "*" {
		column = "distinct " + column
	}
	return "select " + b.aggregate.fn + "(" + column + ") as aggregate", nil
}

func (g *grammarBase) compileFrom(b *Builder) (string, error) {
	if b.from == nil {
		return "", nil
	}
	return "from " + g.self.WrapTable(b.from), nil
}

func (g *grammarBase) compileJoins(b *Builder) (string, error) {
	if len(b.joins) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(b.joins))
	for _, j := range b.joins {
		table := g.self.WrapTable(j.table)
		if j.joinType == "cross" && len(j.wheres) == 0 {
			parts = append(parts, "cross join "+table)
			continue
		}
		on, err := g.compileWhereList(j.Builder)
		if err != nil {
			return "", err
		}
		if on == "" {
			return "", querykit.NewMissingClauseError("Join", "on")
		}
		parts = append(parts, j.joinType+" join "+table+" on "+on)
	}
	return strings.Join(parts, " "), nil
}

// ---------------------------------------------------------------------------
// Where compilation

func (g *grammarBase) compileWheres(b *Builder, keyword string) (string, error) {
	list, err := g.compileWhereList(b)
	if err != nil || list == "" {
		return "", err
	}
	return keyword + " " + list, nil
}

func (g *grammarBase) compileWhereList(b *Builder) (string, error) {
	parts := make([]string, 0, len(b.wheres))
	for _, w := range b.wheres {
		frag, err := g.compileWhere(w)
		if err != nil {
			return "", err
		}
		if frag == "" {
			continue
		}
		parts = append(parts, whereConjunction(w)+" "+frag)
	}
	return removeLeadingBoolean(strings.Join(parts, " ")), nil
}

func whereConjunction(w whereClause) string {
	switch w := w.(type) {
	case *whereBasic:
		return w.boolean
	case *whereBitwise:
		return w.boolean
	case *whereColumn:
		return w.boolean
	case *whereNested:
		return w.boolean
	case *whereSub:
		return w.boolean
	case *whereExists:
		return w.boolean
	case *whereIn:
		return w.boolean
	case *whereInSub:
		return w.boolean
	case *whereNull:
		return w.boolean
	case *whereBetween:
		return w.boolean
	case *whereBetweenColumns:
		return w.boolean
	case *whereRaw:
		return w.boolean
	case *whereDateBased:
		return w.boolean
	case *whereJSONBoolean:
		return w.boolean
	case *whereFulltext:
		return w.boolean
	default:
		return "and"
	}
}

// removeLeadingBoolean strips the conjunction of the first condition. A
// leading "and not"/"or not" keeps its "not".
func removeLeadingBoolean(s string) string {
	if strings.HasPrefix(s, "and ") {
		return s[4:]
	}
	if strings.HasPrefix(s, "or ") {
		return s[3:]
	}
	return s
}

func (g *grammarBase) compileWhere(w whereClause) (string, error) {
	switch w := w.(type) {
	case *whereRaw:
		return w.sql, nil
	case *whereBasic:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		return col + " " + w.operator + " " + g.parameter(w.value), nil
	case *whereBitwise:
		return g.self.compileWhereBitwise(w)
	case *whereColumn:
		first, err := g.self.Wrap(w.first)
		if err != nil {
			return "", err
		}
		second, err := g.self.Wrap(w.second)
		if err != nil {
			return "", err
		}
		return first + " " + w.operator + " " + second, nil
	case *whereNested:
		inner, err := g.compileWhereList(w.query)
		if err != nil || inner == "" {
			return "", err
		}
		return "(" + inner + ")", nil
	case *whereSub:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		sub, err := w.query.compile(g.self)
		if err != nil {
			return "", err
		}
		return col + " " + w.operator + " (" + sub + ")", nil
	case *whereExists:
		sub, err := w.query.compile(g.self)
		if err != nil {
			return "", err
		}
		if w.not {
			return "not exists (" + sub + ")", nil
		}
		return "exists (" + sub + ")", nil
	case *whereIn:
		return g.compileWhereIn(w)
	case *whereInSub:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		sub, err := w.query.compile(g.self)
		if err != nil {
			return "", err
		}
		if w.not {
			return col + " not in (" + sub + ")", nil
		}
		return col + " in (" + sub + ")", nil
	case *whereNull:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		if w.not {
			return col + " is not null", nil
		}
		return col + " is null", nil
	case *whereBetween:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		between := " between "
		if w.not {
			between = " not between "
		}
		return col + between + g.parameter(w.from) + " and " + g.parameter(w.to), nil
	case *whereBetweenColumns:
		col, err := g.self.Wrap(w.column)
		if err != nil {
			return "", err
		}
		first, err := g.self.Wrap(w.first)
		if err != nil {
			return "", err
		}
		second, err := g.self.Wrap(w.second)
		if err != nil {
			return "", err
		}
		between := " between "
		if w.not {
			between = " not between "
		}
		return col + between + first + " and " + second, nil
	case *whereDateBased:
		return g.self.dateBasedWhere(w)
	case *whereJSONBoolean:
		return g.self.compileJSONBoolean(w)
	case *whereFulltext:
		return g.self.compileFulltext(w)
	default:
		return "", fmt.Errorf("querykit: unknown where clause %T", w)
	}
}

// compileWhereIn renders membership in a literal list. The empty list is
// decided at compile time: `in ()` is not SQL, so it degenerates to a
// constant predicate.
func (g *grammarBase) compileWhereIn(w *whereIn) (string, error) {
	if len(w.values) == 0 {
		if w.not {
			return "1 = 1", nil
		}
		return "0 = 1", nil
	}
	col, err := g.self.Wrap(w.column)
	if err != nil {
		return "", err
	}
	if w.not {
		return col + " not in (" + g.parameterize(w.values) + ")", nil
	}
	return col + " in (" + g.parameterize(w.values) + ")", nil
}

func (g *grammarBase) compileWhereBitwise(w *whereBitwise) (string, error) {
	col, err := g.self.Wrap(w.column)
	if err != nil {
		return "", err
	}
	return col + " " + w.operator + " " + g.parameter(w.value), nil
}

func (g *grammarBase) dateBasedWhere(w *whereDateBased) (string, error) {
	col, err := g.self.Wrap(w.column)
	if err != nil {
		return "", err
	}
	return w.kind + "(" + col + ") " + w.operator + " " + g.parameter(w.value), nil
}

func (g *grammarBase) wrapJSONSelector(column string) (string, error) {
	return "", querykit.NewUnsupportedFeatureError(g.dialect, "json operations")
}

func (g *grammarBase) compileJSONBoolean(w *whereJSONBoolean) (string, error) {
	return "", querykit.NewUnsupportedFeatureError(g.dialect, "json operations")
}

func (g *grammarBase) compileFulltext(w *whereFulltext) (string, error) {
	return "", querykit.NewUnsupportedFeatureError(g.dialect, "full-text search")
}

// ---------------------------------------------------------------------------
// Group / Having / Order

func (g *grammarBase) compileGroups(b *Builder) (string, error) {
	if len(b.groups) == 0 {
		return "", nil
	}
	cols, err := g.columnize(b.groups)
	if err != nil {
		return "", err
	}
	return "group by " + cols, nil
}

func (g *grammarBase) compileHavings(b *Builder) (string, error) {
	if len(b.havings) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(b.havings))
	for _, h := range b.havings {
		frag, conj, err := g.compileHaving(h)
		if err != nil {
			return "", err
		}
		if frag == "" {
			continue
		}
		parts = append(parts, conj+" "+frag)
	}
	list := removeLeadingBoolean(strings.Join(parts, " "))
	if list == "" {
		return "", nil
	}
	return "having " + list, nil
}

func (g *grammarBase) compileHaving(h havingClause) (frag, conj string, err error) {
	switch h := h.(type) {
	case *havingRaw:
		return h.sql, h.boolean, nil
	case *havingExpr:
		return h.expr.String(), h.boolean, nil
	case *havingBasic:
		col, err := g.self.Wrap(h.column)
		if err != nil {
			return "", "", err
		}
		return col + " " + h.operator + " " + g.parameter(h.value), h.boolean, nil
	case *havingBitwise:
		col, err := g.self.Wrap(h.column)
		if err != nil {
			return "", "", err
		}
		frag, err := g.self.havingBitwiseFragment(col, h)
		return frag, h.boolean, err
	case *havingNull:
		col, err := g.self.Wrap(h.column)
		if err != nil {
			return "", "", err
		}
		if h.not {
			return col + " is not null", h.boolean, nil
		}
		return col + " is null", h.boolean, nil
	case *havingBetween:
		col, err := g.self.Wrap(h.column)
		if err != nil {
			return "", "", err
		}
		between := " between "
		if h.not {
			between = " not between "
		}
		return col + between + g.parameter(h.from) + " and " + g.parameter(h.to), h.boolean, nil
	case *havingNested:
		inner, err := g.compileHavings(h.query)
		if err != nil {
			return "", "", err
		}
		inner = strings.TrimPrefix(inner, "having ")
		if inner == "" {
			return "", h.boolean, nil
		}
		return "(" + inner + ")", h.boolean, nil
	default:
		return "", "", fmt.Errorf("querykit: unknown having clause %T", h)
	}
}

func (g *grammarBase) havingBitwiseFragment(col string, h *havingBitwise) (string, error) {
	return col + " " + h.operator + " " + g.parameter(h.value), nil
}

func (g *grammarBase) compileOrders(orders []orderClause) (string, error) {
	if len(orders) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		switch o := o.(type) {
		case *orderRaw:
			parts = append(parts, o.sql)
		case *orderBasic:
			col, err := g.self.Wrap(o.column)
			if err != nil {
				return "", err
			}
			parts = append(parts, col+" "+o.direction)
		}
	}
	return "order by " + strings.Join(parts, ", "), nil
}

// ---------------------------------------------------------------------------
// Limit / Offset / Lock / Union

func (g *grammarBase) compileLimitOffset(b *Builder) (string, error) {
	var parts []string
	if b.limit >= 0 {
		parts = append(parts, fmt.Sprintf("limit %d", b.limit))
	}
	if b.offset >= 0 {
		parts = append(parts, fmt.Sprintf("offset %d", b.offset))
	}
	return strings.Join(parts, " "), nil
}

func (g *grammarBase) compileLock(b *Builder) (string, error) {
	switch l := b.lock.(type) {
	case nil:
		return "", nil
	case string:
		return l, nil
	case bool:
		if l {
			return "for update", nil
		}
		return "for share", nil
	default:
		return "", querykitInvalidArgument("Lock", "invalid lock value %T", b.lock)
	}
}

func (g *grammarBase) wrapUnion(sql string) string {
	return "(" + sql + ")"
}

func (g *grammarBase) compileUnion(u union) (string, error) {
	conj := " union "
	if u.all {
		conj = " union all "
	}
	sub, err := g.self.CompileSelect(u.query)
	if err != nil {
		return "", err
	}
	return conj + g.self.wrapUnion(sub), nil
}

func (g *grammarBase) compileUnionTrailing(b *Builder) (string, error) {
	var parts []string
	if o, err := g.compileOrders(b.unionOrders); err != nil {
		return "", err
	} else if o != "" {
		parts = append(parts, o)
	}
	if b.unionLimit >= 0 {
		parts = append(parts, fmt.Sprintf("limit %d", b.unionLimit))
	}
	if b.unionOffset >= 0 {
		parts = append(parts, fmt.Sprintf("offset %d", b.unionOffset))
	}
	return strings.Join(parts, " "), nil
}

// compileUnionAggregate wraps the full union in a derived table and
// aggregates over it.
func (g *grammarBase) compileUnionAggregate(b *Builder) (string, error) {
	agg, err := g.compileAggregate(b)
	if err != nil {
		return "", err
	}
	inner := b.Clone()
	inner.aggregate = nil
	innerSQL, err := g.self.CompileSelect(inner)
	if err != nil {
		return "", err
	}
	return agg + " from (" + innerSQL + ") as " + g.self.WrapValue("temp_table"), nil
}

// ---------------------------------------------------------------------------
// Exists

func (g *grammarBase) CompileExists(b *Builder) (string, error) {
	sql, err := g.self.CompileSelect(b)
	if err != nil {
		return "", err
	}
	return "select exists(" + sql + ") as " + g.self.WrapValue("exists"), nil
}

// ---------------------------------------------------------------------------
// Insert

// insertCore compiles the shared "(columns) values (...), (...)" tail of
// an insert, collecting bindings row by row in sorted column order.
func (g *grammarBase) insertCore(rows []Row) (columns []string, columnsSQL, valuesSQL string, args []any, err error) {
	columns = rows[0].sortedKeys()
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, "", "", nil, querykitInvalidArgument("Insert", "row %d does not share the columns of row 0", i)
		}
		for _, c := range columns {
			if _, ok := row[c]; !ok {
				return nil, "", "", nil, querykitInvalidArgument("Insert", "row %d is missing column %q", i, c)
			}
		}
	}
	rowSQL := make([]string, len(rows))
	for i, row := range rows {
		params := make([]string, len(columns))
		for j, c := range columns {
			v := row[c]
			params[j] = g.parameter(v)
			if _, ok := v.(*Expr); !ok {
				args = append(args, v)
			}
		}
		rowSQL[i] = "(" + strings.Join(params, ", ") + ")"
	}
	wrapped := make([]string, len(columns))
	for i, c := range columns {
		w, err := g.self.Wrap(c)
		if err != nil {
			return nil, "", "", nil, err
		}
		wrapped[i] = w
	}
	return columns, strings.Join(wrapped, ", "), strings.Join(rowSQL, ", "), args, nil
}

func (g *grammarBase) CompileInsert(b *Builder, rows []Row) (string, []any, error) {
	if b.from == nil {
		return "", nil, querykit.NewMissingClauseError("Insert", "from")
	}
	table := g.self.WrapTable(b.from)
	if len(rows) == 0 {
		return "insert into " + table + " default values", nil, nil
	}
	_, columnsSQL, valuesSQL, args, err := g.insertCore(rows)
	if err != nil {
		return "", nil, err
	}
	return "insert into " + table + " (" + columnsSQL + ") values " + valuesSQL, args, nil
}

func (g *grammarBase) CompileInsertOrIgnore(b *Builder, rows []Row) (string, []any, error) {
	return "", nil, querykit.NewUnsupportedFeatureError(g.dialect, "insert or ignore")
}

func (g *grammarBase) CompileInsertGetID(b *Builder, row Row, sequence string) (string, []any, error) {
	if len(row) == 0 {
		return g.self.CompileInsert(b, nil)
	}
	return g.self.CompileInsert(b, []Row{row})
}

func (g *grammarBase) CompileInsertUsing(b *Builder, columns []string, sub string) (string, error) {
	if b.from == nil {
		return "", querykit.NewMissingClauseError("InsertUsing", "from")
	}
	table := g.self.WrapTable(b.from)
	if len(columns) == 0 {
		return "insert into " + table + " " + sub, nil
	}
	return "insert into " + table + " (" + g.columnizeStrings(columns) + ") " + sub, nil
}

// ---------------------------------------------------------------------------
// Update

func (g *grammarBase) compileUpdateColumns(values Row) (string, error) {
	parts := make([]string, 0, len(values))
	for _, k := range values.sortedKeys() {
		col, err := g.self.Wrap(k)
		if err != nil {
			return "", err
		}
		parts = append(parts, col+" = "+g.parameter(values[k]))
	}
	return strings.Join(parts, ", "), nil
}

func (g *grammarBase) CompileUpdate(b *Builder, values Row) (string, error) {
	if b.from == nil {
		return "", querykit.NewMissingClauseError("Update", "from")
	}
	if len(values) == 0 {
		return "", querykitInvalidArgument("Update", "no columns to update")
	}
	table := g.self.WrapTable(b.from)
	columns, err := g.compileUpdateColumns(values)
	if err != nil {
		return "", err
	}
	where, err := g.compileWheres(b, "where")
	if err != nil {
		return "", err
	}
	if len(b.joins) > 0 {
		return g.self.compileUpdateWithJoins(b, table, columns, where)
	}
	return g.self.compileUpdateWithoutJoins(b, table, columns, where)
}

func (g *grammarBase) compileUpdateWithoutJoins(b *Builder, table, columns, where string) (string, error) {
	return strings.TrimSpace("update " + table + " set " + columns + " " + where), nil
}

func (g *grammarBase) compileUpdateWithJoins(b *Builder, table, columns, where string) (string, error) {
	joins, err := g.compileJoins(b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace("update " + table + " " + joins + " set " + columns + " " + where), nil
}

// PrepareBindingsForUpdate orders bindings to match the compiled update:
// join bindings, then the sorted assignment values, then every remaining
// category except select.
func (g *grammarBase) PrepareBindingsForUpdate(b *Builder, values Row) []any {
	args := append([]any(nil), b.bindings[bindJoin]...)
	args = append(args, updateValueBindings(values)...)
	for _, k := range bindingOrder {
		if k == bindSelect || k == bindJoin {
			continue
		}
		args = append(args, b.bindings[k]...)
	}
	return args
}

func updateValueBindings(values Row) []any {
	var args []any
	for _, k := range values.sortedKeys() {
		v := values[k]
		if _, ok := v.(*Expr); ok {
			continue
		}
		args = append(args, v)
	}
	return args
}

// ---------------------------------------------------------------------------
// Upsert

func (g *grammarBase) CompileUpsert(b *Builder, rows []Row, uniqueBy, update []string) (string, []any, error) {
	return "", nil, querykit.NewUnsupportedFeatureError(g.dialect, "upsert")
}

// ---------------------------------------------------------------------------
// Delete

func (g *grammarBase) CompileDelete(b *Builder) (string, error) {
	if b.from == nil {
		return "", querykit.NewMissingClauseError("Delete", "from")
	}
	table := g.self.WrapTable(b.from)
	where, err := g.compileWheres(b, "where")
	if err != nil {
		return "", err
	}
	if len(b.joins) > 0 {
		return g.self.compileDeleteWithJoins(b, table, where)
	}
	return g.self.compileDeleteWithoutJoins(b, table, where)
}

func (g *grammarBase) compileDeleteWithoutJoins(b *Builder, table, where string) (string, error) {
	return strings.TrimSpace("delete from " + table + " " + where), nil
}

func (g *grammarBase) compileDeleteWithJoins(b *Builder, table, where string) (string, error) {
	joins, err := g.compileJoins(b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace("delete " + g.deleteAlias(b) + " from " + table + " " + joins + " " + where), nil
}

// deleteAlias names the deletion target in a joined delete: the alias when
// the table is aliased, the table itself otherwise.
func (g *grammarBase) deleteAlias(b *Builder) string {
	s, ok := b.from.(string)
	if !ok {
		return g.self.WrapTable(b.from)
	}
	if i := strings.Index(strings.ToLower(s), " as "); i >= 0 {
		return g.self.WrapValue(s[i+4:])
	}
	return g.self.WrapTable(s)
}

// PrepareBindingsForDelete flattens every category except select.
func (g *grammarBase) PrepareBindingsForDelete(b *Builder) []any {
	var args []any
	for _, k := range bindingOrder {
		if k == bindSelect {
			continue
		}
		args = append(args, b.bindings[k]...)
	}
	return args
}

// ---------------------------------------------------------------------------
// Truncate / Random / Placeholders

func (g *grammarBase) CompileTruncate(b *Builder) ([]Statement, error) {
	if b.from == nil {
		return nil, querykit.NewMissingClauseError("Truncate", "from")
	}
	return []Statement{{SQL: "truncate table " + g.self.WrapTable(b.from)}}, nil
}

func (g *grammarBase) CompileRandom(seed string) string {
	return "random()"
}

func (g *grammarBase) ReplacePlaceholders(sql string) string {
	return sql
}
