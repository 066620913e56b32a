package sql

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/querykit/querykit"
)

// Row is a single result row or a set of column assignments, keyed by
// column name. Compilers iterate rows in sorted key order so that the same
// Row always produces the same SQL.
type Row map[string]any

// sortedKeys returns the row's column names in sorted order.
func (r Row) sortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sqlOperators is the baseline comparison operator whitelist shared by all
// dialects. Grammars may extend it.
var sqlOperators = []string{
	"=", "<", ">", "<=", ">=", "<>", "!=", "<=>",
	"like", "like binary", "not like", "ilike",
	"&", "|", "^", "<<", ">>", "&~", "is", "is not",
	"rlike", "not rlike", "regexp", "not regexp",
	"~", "~*", "!~", "!~*", "similar to", "not similar to",
	"not ilike", "~~*", "!~~*",
}

// sqlBitwiseOperators is the baseline set of operators compiled through the
// bitwise path.
var sqlBitwiseOperators = []string{"&", "|", "^", "<<", ">>", "&~"}

var errNoConnection = errors.New("querykit: builder is not bound to a connection")

// Builder assembles a single SQL statement through a fluent interface. It
// is a mutable clause model: every fluent call appends to or replaces part
// of the model and returns the same builder. Compilation via ToSQL (or any
// terminal operation) is a pure function of the accumulated state.
//
// A Builder is not safe for concurrent mutation. Clone produces a fully
// independent copy for concurrent variants of a base query.
type Builder struct {
	conn      *Connection
	grammar   Grammar
	processor Processor

	bindings bindings
	columns  []any
	distinct bool
	// distinctColumns holds the column list of a `distinct on` projection
	// (Postgres only).
	distinctColumns []any
	from            any
	joins           []*JoinClause
	wheres          []whereClause
	groups          []any
	havings         []havingClause
	orders          []orderClause
	// limit and offset use -1 as "unset".
	limit       int
	offset      int
	unions      []union
	unionLimit  int
	unionOffset int
	unionOrders []orderClause
	// lock is nil (no lock), bool (true for update, false shared) or a
	// literal lock string.
	lock      any
	aggregate *aggregateClause

	beforeQuery []func(*Builder)

	// errs accumulates misuse reported by fluent calls; it is surfaced by
	// Err, ToSQL and every terminal operation.
	errs []error
}

// NewBuilder returns an empty builder bound to conn's grammar, processor
// and execution boundary.
func NewBuilder(conn *Connection) *Builder {
	return &Builder{
		conn:        conn,
		grammar:     conn.grammar,
		processor:   conn.processor,
		bindings:    newBindings(),
		limit:       -1,
		offset:      -1,
		unionLimit:  -1,
		unionOffset: -1,
	}
}

// Dialect returns an unbound builder for the named dialect. It compiles SQL
// and collects bindings but cannot execute; terminal operations fail until
// the builder is created through a Connection.
func Dialect(name string) *Builder {
	return &Builder{
		grammar:     NewGrammar(name),
		processor:   NewProcessor(name),
		bindings:    newBindings(),
		limit:       -1,
		offset:      -1,
		unionLimit:  -1,
		unionOffset: -1,
	}
}

// newQuery returns an empty builder sharing this builder's connection,
// grammar and processor.
func (b *Builder) newQuery() *Builder {
	return &Builder{
		conn:        b.conn,
		grammar:     b.grammar,
		processor:   b.processor,
		bindings:    newBindings(),
		limit:       -1,
		offset:      -1,
		unionLimit:  -1,
		unionOffset: -1,
	}
}

// forSubQuery returns a fresh builder for resolving a Func sub-query.
func (b *Builder) forSubQuery() *Builder { return b.newQuery() }

// forNestedWhere returns a fresh builder scoped to the same table, used to
// collect a nested condition group.
func (b *Builder) forNestedWhere() *Builder {
	nb := b.newQuery()
	nb.from = b.from
	return nb
}

// Grammar returns the grammar this builder compiles with.
func (b *Builder) Grammar() Grammar { return b.grammar }

// Err returns the accumulated misuse errors, or nil.
func (b *Builder) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	return errors.Join(b.errs...)
}

func (b *Builder) addError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func querykitInvalidArgument(op, format string, args ...any) error {
	return querykit.NewInvalidArgumentError(op, format, args...)
}

// addBinding appends values to a binding category, silently dropping
// literal expressions.
func (b *Builder) addBinding(kind string, values ...any) *Builder {
	if !b.bindings.valid(kind) {
		return b.addError(querykitInvalidArgument("AddBinding", "invalid binding type: %s", kind))
	}
	b.bindings.add(kind, values...)
	return b
}

// AddBinding registers values under the named binding category. Most
// callers never need it; raw fragments register their own bindings.
func (b *Builder) AddBinding(kind string, values ...any) *Builder {
	return b.addBinding(kind, values...)
}

// GetBindings returns all bindings flattened in category order:
// select, from, join, where, groupBy, having, order, union, unionOrder.
func (b *Builder) GetBindings() []any {
	return b.bindings.flatten()
}

// RawBindings returns a copy of the binding bag keyed by category.
func (b *Builder) RawBindings() map[string][]any {
	return b.bindings.clone()
}

// ---------------------------------------------------------------------------
// Select / From

// Select replaces the select list. Columns are strings or *Expr literals.
// Any previously registered select bindings are discarded.
func (b *Builder) Select(columns ...any) *Builder {
	b.columns = nil
	b.bindings[bindSelect] = nil
	return b.AddSelect(columns...)
}

// AddSelect appends columns to the select list.
func (b *Builder) AddSelect(columns ...any) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// SelectRaw appends a literal projection with optional bindings.
func (b *Builder) SelectRaw(sql string, bindings ...any) *Builder {
	b.AddSelect(Raw(sql))
	return b.addBinding(bindSelect, bindings...)
}

// SelectSub appends a sub-query projection under the given alias.
func (b *Builder) SelectSub(q Queryable, as string) *Builder {
	sql, args, err := b.createSub("SelectSub", q)
	if err != nil {
		return b.addError(err)
	}
	b.AddSelect(Raw("(" + sql + ") as " + b.grammar.WrapValue(as)))
	return b.addBinding(bindSelect, args...)
}

// Distinct marks the projection distinct. With columns it becomes a
// `distinct on (...)` projection on dialects that support it.
func (b *Builder) Distinct(columns ...any) *Builder {
	b.distinct = true
	b.distinctColumns = columns
	return b
}

// From sets the target table, optionally aliased.
func (b *Builder) From(table string, as ...string) *Builder {
	if len(as) > 0 && as[0] != "" {
		b.from = table + " as " + as[0]
		return b
	}
	b.from = table
	return b
}

// Table is an alias for From.
func (b *Builder) Table(table string) *Builder { return b.From(table) }

// FromRaw sets the target table to a literal fragment with optional
// bindings.
func (b *Builder) FromRaw(sql string, bindings ...any) *Builder {
	b.from = Raw(sql)
	return b.addBinding(bindFrom, bindings...)
}

// FromSub selects from a sub-query under the given alias.
func (b *Builder) FromSub(q Queryable, as string) *Builder {
	sql, args, err := b.createSub("FromSub", q)
	if err != nil {
		return b.addError(err)
	}
	b.from = Raw("(" + sql + ") as " + b.grammar.WrapTable(as))
	return b.addBinding(bindFrom, args...)
}

// ---------------------------------------------------------------------------
// Where

// Where adds an `and`-conjoined condition comparing column against value
// with the given operator. An operator outside the dialect's whitelist is
// reinterpreted as the value of an equality comparison, so
// Where("votes", ">", 100) and Where("name", "John", nil) both work.
func (b *Builder) Where(column any, operator string, value any) *Builder {
	return b.where(column, operator, value, "and")
}

// OrWhere is Where with `or` conjunction.
func (b *Builder) OrWhere(column any, operator string, value any) *Builder {
	return b.where(column, operator, value, "or")
}

// WhereEq adds an `and`-conjoined equality condition.
func (b *Builder) WhereEq(column any, value any) *Builder {
	return b.where(column, "=", value, "and")
}

// OrWhereEq adds an `or`-conjoined equality condition.
func (b *Builder) OrWhereEq(column any, value any) *Builder {
	return b.where(column, "=", value, "or")
}

// WhereNot adds a negated condition group: the comparison is wrapped in a
// nested group compiled under `not`.
func (b *Builder) WhereNot(fn Func) *Builder {
	return b.whereNested(fn, "and not")
}

// OrWhereNot is WhereNot with `or` conjunction.
func (b *Builder) OrWhereNot(fn Func) *Builder {
	return b.whereNested(fn, "or not")
}

func (b *Builder) where(column any, operator string, value any, boolean string) *Builder {
	if fn, ok := column.(Func); ok {
		return b.whereNested(fn, boolean)
	}
	op := strings.ToLower(strings.TrimSpace(operator))
	if value == nil && b.validOperator(op) && op != "=" && op != "<>" && op != "!=" {
		return b.addError(querykitInvalidArgument("Where", "illegal operator and value combination: %q with nil", operator))
	}
	if !b.validOperator(op) {
		value, op = operator, "="
	}
	if value == nil {
		return b.whereNullBool(column, boolean, op != "=")
	}
	if q, ok := value.(Queryable); ok {
		if _, raw := q.(*Expr); !raw {
			return b.whereSubBool(column, op, q, boolean)
		}
	}
	value = flattenScalar(value)
	if col, ok := column.(string); ok && strings.Contains(col, "->") {
		if bv, ok := value.(bool); ok {
			b.wheres = append(b.wheres, &whereJSONBoolean{column: col, value: bv, boolean: boolean})
			return b
		}
	}
	if b.isBitwiseOperator(op) {
		b.wheres = append(b.wheres, &whereBitwise{column: column, operator: op, value: value, boolean: boolean})
		return b.addBinding(bindWhere, value)
	}
	b.wheres = append(b.wheres, &whereBasic{column: column, operator: op, value: value, boolean: boolean})
	return b.addBinding(bindWhere, value)
}

// validOperator reports whether op is in the baseline whitelist or the
// grammar's extension of it.
func (b *Builder) validOperator(op string) bool {
	for _, o := range sqlOperators {
		if o == op {
			return true
		}
	}
	for _, o := range b.grammar.Operators() {
		if o == op {
			return true
		}
	}
	return false
}

func (b *Builder) isBitwiseOperator(op string) bool {
	for _, o := range sqlBitwiseOperators {
		if o == op {
			return true
		}
	}
	for _, o := range b.grammar.BitwiseOperators() {
		if o == op {
			return true
		}
	}
	return false
}

// flattenScalar reduces a slice value to its first element. Basic
// comparisons bind a single value; membership tests go through WhereIn.
func flattenScalar(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.([]byte); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	if rv.Len() == 0 {
		return nil
	}
	return rv.Index(0).Interface()
}

// WhereColumn adds an `and`-conjoined comparison between two columns. No
// binding is registered.
func (b *Builder) WhereColumn(first any, operator string, second any) *Builder {
	return b.whereColumnBool(first, operator, second, "and")
}

// OrWhereColumn is WhereColumn with `or` conjunction.
func (b *Builder) OrWhereColumn(first any, operator string, second any) *Builder {
	return b.whereColumnBool(first, operator, second, "or")
}

func (b *Builder) whereColumnBool(first any, operator string, second any, boolean string) *Builder {
	op := strings.ToLower(strings.TrimSpace(operator))
	if !b.validOperator(op) {
		return b.addError(querykitInvalidArgument("WhereColumn", "invalid operator %q", operator))
	}
	b.wheres = append(b.wheres, &whereColumn{first: first, operator: op, second: second, boolean: boolean})
	return b
}

// WhereRaw adds a literal condition with optional bindings.
func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	b.wheres = append(b.wheres, &whereRaw{sql: sql, boolean: "and"})
	return b.addBinding(bindWhere, bindings...)
}

// OrWhereRaw is WhereRaw with `or` conjunction.
func (b *Builder) OrWhereRaw(sql string, bindings ...any) *Builder {
	b.wheres = append(b.wheres, &whereRaw{sql: sql, boolean: "or"})
	return b.addBinding(bindWhere, bindings...)
}

// WhereIn adds a membership test against a literal value list. An empty
// list compiles to a constant-false condition. Values must be scalars;
// nested slices are rejected.
func (b *Builder) WhereIn(column any, values ...any) *Builder {
	return b.whereInBool(column, values, "and", false)
}

// OrWhereIn is WhereIn with `or` conjunction.
func (b *Builder) OrWhereIn(column any, values ...any) *Builder {
	return b.whereInBool(column, values, "or", false)
}

// WhereNotIn adds a negated membership test. An empty list compiles to a
// constant-true condition.
func (b *Builder) WhereNotIn(column any, values ...any) *Builder {
	return b.whereInBool(column, values, "and", true)
}

// OrWhereNotIn is WhereNotIn with `or` conjunction.
func (b *Builder) OrWhereNotIn(column any, values ...any) *Builder {
	return b.whereInBool(column, values, "or", true)
}

func (b *Builder) whereInBool(column any, values []any, boolean string, not bool) *Builder {
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, ok := v.([]byte); ok {
			continue
		}
		if k := reflect.ValueOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
			return b.addError(querykitInvalidArgument("WhereIn", "nested slices are not allowed in value lists"))
		}
	}
	b.wheres = append(b.wheres, &whereIn{column: column, values: values, boolean: boolean, not: not})
	return b.addBinding(bindWhere, values...)
}

// WhereInQuery adds a membership test against a sub-query.
func (b *Builder) WhereInQuery(column any, q Queryable) *Builder {
	return b.whereInQueryBool(column, q, "and", false)
}

// WhereNotInQuery adds a negated membership test against a sub-query.
func (b *Builder) WhereNotInQuery(column any, q Queryable) *Builder {
	return b.whereInQueryBool(column, q, "and", true)
}

// OrWhereInQuery is WhereInQuery with `or` conjunction.
func (b *Builder) OrWhereInQuery(column any, q Queryable) *Builder {
	return b.whereInQueryBool(column, q, "or", false)
}

func (b *Builder) whereInQueryBool(column any, q Queryable, boolean string, not bool) *Builder {
	sub, args, err := b.resolveSub("WhereInQuery", q)
	if err != nil {
		return b.addError(err)
	}
	b.wheres = append(b.wheres, &whereInSub{column: column, query: sub, boolean: boolean, not: not})
	return b.addBinding(bindWhere, args...)
}

// WhereNull adds an `is null` test for each given column.
func (b *Builder) WhereNull(columns ...any) *Builder {
	for _, c := range columns {
		b.whereNullBool(c, "and", false)
	}
	return b
}

// OrWhereNull is WhereNull with `or` conjunction.
func (b *Builder) OrWhereNull(columns ...any) *Builder {
	for _, c := range columns {
		b.whereNullBool(c, "or", false)
	}
	return b
}

// WhereNotNull adds an `is not null` test for each given column.
func (b *Builder) WhereNotNull(columns ...any) *Builder {
	for _, c := range columns {
		b.whereNullBool(c, "and", true)
	}
	return b
}

// OrWhereNotNull is WhereNotNull with `or` conjunction.
func (b *Builder) OrWhereNotNull(columns ...any) *Builder {
	for _, c := range columns {
		b.whereNullBool(c, "or", true)
	}
	return b
}

func (b *Builder) whereNullBool(column any, boolean string, not bool) *Builder {
	b.wheres = append(b.wheres, &whereNull{column: column, boolean: boolean, not: not})
	return b
}

// WhereBetween adds a range test. The bounds register two bindings in
// order.
func (b *Builder) WhereBetween(column any, from, to any) *Builder {
	return b.whereBetweenBool(column, from, to, "and", false)
}

// OrWhereBetween is WhereBetween with `or` conjunction.
func (b *Builder) OrWhereBetween(column any, from, to any) *Builder {
	return b.whereBetweenBool(column, from, to, "or", false)
}

// WhereNotBetween adds a negated range test.
func (b *Builder) WhereNotBetween(column any, from, to any) *Builder {
	return b.whereBetweenBool(column, from, to, "and", true)
}

// OrWhereNotBetween is WhereNotBetween with `or` conjunction.
func (b *Builder) OrWhereNotBetween(column any, from, to any) *Builder {
	return b.whereBetweenBool(column, from, to, "or", true)
}

func (b *Builder) whereBetweenBool(column any, from, to any, boolean string, not bool) *Builder {
	from, to = flattenScalar(from), flattenScalar(to)
	b.wheres = append(b.wheres, &whereBetween{column: column, from: from, to: to, boolean: boolean, not: not})
	return b.addBinding(bindWhere, from, to)
}

// WhereBetweenColumns adds a range test whose bounds are columns.
func (b *Builder) WhereBetweenColumns(column any, first, second string) *Builder {
	b.wheres = append(b.wheres, &whereBetweenColumns{column: column, first: first, second: second, boolean: "and"})
	return b
}

// WhereNotBetweenColumns adds a negated column-bounded range test.
func (b *Builder) WhereNotBetweenColumns(column any, first, second string) *Builder {
	b.wheres = append(b.wheres, &whereBetweenColumns{column: column, first: first, second: second, boolean: "and", not: true})
	return b
}

// WhereExists adds an existence test for a sub-query.
func (b *Builder) WhereExists(q Queryable) *Builder {
	return b.whereExistsBool(q, "and", false)
}

// OrWhereExists is WhereExists with `or` conjunction.
func (b *Builder) OrWhereExists(q Queryable) *Builder {
	return b.whereExistsBool(q, "or", false)
}

// WhereNotExists adds a negated existence test.
func (b *Builder) WhereNotExists(q Queryable) *Builder {
	return b.whereExistsBool(q, "and", true)
}

// OrWhereNotExists is WhereNotExists with `or` conjunction.
func (b *Builder) OrWhereNotExists(q Queryable) *Builder {
	return b.whereExistsBool(q, "or", true)
}

func (b *Builder) whereExistsBool(q Queryable, boolean string, not bool) *Builder {
	sub, args, err := b.resolveSub("WhereExists", q)
	if err != nil {
		return b.addError(err)
	}
	b.wheres = append(b.wheres, &whereExists{query: sub, boolean: boolean, not: not})
	return b.addBinding(bindWhere, args...)
}

// WhereNested collects the conditions added by fn into a parenthesized
// group. A group that ends up empty contributes nothing.
func (b *Builder) WhereNested(fn Func) *Builder {
	return b.whereNested(fn, "and")
}

// OrWhereNested is WhereNested with `or` conjunction.
func (b *Builder) OrWhereNested(fn Func) *Builder {
	return b.whereNested(fn, "or")
}

func (b *Builder) whereNested(fn Func, boolean string) *Builder {
	sub := b.forNestedWhere()
	fn(sub)
	return b.addNestedWhereQuery(sub, boolean)
}

func (b *Builder) addNestedWhereQuery(sub *Builder, boolean string) *Builder {
	b.errs = append(b.errs, sub.errs...)
	if len(sub.wheres) == 0 {
		return b
	}
	b.wheres = append(b.wheres, &whereNested{query: sub, boolean: boolean})
	return b.addBinding(bindWhere, sub.bindings[bindWhere]...)
}

// whereSubBool compares a column against a scalar sub-query.
func (b *Builder) whereSubBool(column any, operator string, q Queryable, boolean string) *Builder {
	sub, args, err := b.resolveSub("Where", q)
	if err != nil {
		return b.addError(err)
	}
	b.wheres = append(b.wheres, &whereSub{column: column, operator: operator, query: sub, boolean: boolean})
	return b.addBinding(bindWhere, args...)
}

// WhereMap adds one equality condition per map entry, grouped in a nested
// clause. Entries are applied in sorted key order.
func (b *Builder) WhereMap(values map[string]any) *Builder {
	return b.whereMapBool(values, "and")
}

// OrWhereMap is WhereMap with `or` conjunction.
func (b *Builder) OrWhereMap(values map[string]any) *Builder {
	return b.whereMapBool(values, "or")
}

func (b *Builder) whereMapBool(values map[string]any, boolean string) *Builder {
	if len(values) == 0 {
		return b
	}
	return b.whereNested(func(q *Builder) {
		for _, k := range Row(values).sortedKeys() {
			q.WhereEq(k, values[k])
		}
	}, boolean)
}

// WhereDate compares the date part of a column. time.Time values are bound
// as "2006-01-02" strings.
func (b *Builder) WhereDate(column any, operator string, value any) *Builder {
	return b.whereDate("date", column, operator, value, "and")
}

// OrWhereDate is WhereDate with `or` conjunction.
func (b *Builder) OrWhereDate(column any, operator string, value any) *Builder {
	return b.whereDate("date", column, operator, value, "or")
}

// WhereDay compares the day-of-month part of a column.
func (b *Builder) WhereDay(column any, operator string, value any) *Builder {
	return b.whereDate("day", column, operator, value, "and")
}

// WhereMonth compares the month part of a column.
func (b *Builder) WhereMonth(column any, operator string, value any) *Builder {
	return b.whereDate("month", column, operator, value, "and")
}

// WhereYear compares the year part of a column.
func (b *Builder) WhereYear(column any, operator string, value any) *Builder {
	return b.whereDate("year", column, operator, value, "and")
}

// WhereTime compares the time-of-day part of a column. time.Time values
// are bound as "15:04:05" strings.
func (b *Builder) WhereTime(column any, operator string, value any) *Builder {
	return b.whereDate("time", column, operator, value, "and")
}

func (b *Builder) whereDate(kind string, column any, operator string, value any, boolean string) *Builder {
	op := strings.ToLower(strings.TrimSpace(operator))
	if !b.validOperator(op) {
		value, op = operator, "="
	}
	value = formatDateBasedValue(kind, value)
	b.wheres = append(b.wheres, &whereDateBased{kind: kind, column: column, operator: op, value: value, boolean: boolean})
	return b.addBinding(bindWhere, value)
}

// formatDateBasedValue normalizes date-part comparison values: time.Time
// is reduced to the relevant part, and day/month are zero-padded to the
// two digits every dialect's date-part extraction yields as text.
func formatDateBasedValue(kind string, value any) any {
	if t, ok := value.(time.Time); ok {
		switch kind {
		case "date":
			return t.Format("2006-01-02")
		case "time":
			return t.Format("15:04:05")
		case "day":
			value = t.Day()
		case "month":
			value = int(t.Month())
		case "year":
			return t.Year()
		}
	}
	if kind == "day" || kind == "month" {
		if n, ok := value.(int); ok {
			return fmt.Sprintf("%02d", n)
		}
	}
	return value
}

// WhereFulltext adds a full-text match with default options.
func (b *Builder) WhereFulltext(columns []string, value string) *Builder {
	return b.WhereFulltextWith(columns, value, FulltextOptions{})
}

// WhereFulltextWith adds a full-text match with explicit options.
func (b *Builder) WhereFulltextWith(columns []string, value string, opts FulltextOptions) *Builder {
	if len(columns) == 0 {
		return b.addError(querykitInvalidArgument("WhereFulltext", "at least one column is required"))
	}
	b.wheres = append(b.wheres, &whereFulltext{columns: columns, value: value, options: opts, boolean: "and"})
	return b.addBinding(bindWhere, value)
}

// ---------------------------------------------------------------------------
// Group / Having

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...any) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

// GroupByRaw appends a literal grouping fragment with optional bindings.
func (b *Builder) GroupByRaw(sql string, bindings ...any) *Builder {
	b.groups = append(b.groups, Raw(sql))
	return b.addBinding(bindGroupBy, bindings...)
}

// Having adds an `and`-conjoined condition on grouped rows. Operator
// coercion follows Where.
func (b *Builder) Having(column any, operator string, value any) *Builder {
	return b.having(column, operator, value, "and")
}

// OrHaving is Having with `or` conjunction.
func (b *Builder) OrHaving(column any, operator string, value any) *Builder {
	return b.having(column, operator, value, "or")
}

// HavingEq adds an `and`-conjoined equality condition on grouped rows.
func (b *Builder) HavingEq(column any, value any) *Builder {
	return b.having(column, "=", value, "and")
}

func (b *Builder) having(column any, operator string, value any, boolean string) *Builder {
	if fn, ok := column.(Func); ok {
		return b.havingNestedBool(fn, boolean)
	}
	if e, ok := column.(*Expr); ok && operator == "" && value == nil {
		b.havings = append(b.havings, &havingExpr{expr: e, boolean: boolean})
		return b
	}
	op := strings.ToLower(strings.TrimSpace(operator))
	if value == nil && b.validOperator(op) && op != "=" && op != "<>" && op != "!=" {
		return b.addError(querykitInvalidArgument("Having", "illegal operator and value combination: %q with nil", operator))
	}
	if !b.validOperator(op) {
		value, op = operator, "="
	}
	if value == nil {
		b.havings = append(b.havings, &havingNull{column: column, boolean: boolean, not: op != "="})
		return b
	}
	value = flattenScalar(value)
	if b.isBitwiseOperator(op) {
		b.havings = append(b.havings, &havingBitwise{column: column, operator: op, value: value, boolean: boolean})
		return b.addBinding(bindHaving, value)
	}
	b.havings = append(b.havings, &havingBasic{column: column, operator: op, value: value, boolean: boolean})
	return b.addBinding(bindHaving, value)
}

// HavingExpr adds a literal expression as a standalone having condition.
func (b *Builder) HavingExpr(e *Expr) *Builder {
	b.havings = append(b.havings, &havingExpr{expr: e, boolean: "and"})
	return b
}

// HavingNull adds an `is null` test on grouped rows.
func (b *Builder) HavingNull(column any) *Builder {
	b.havings = append(b.havings, &havingNull{column: column, boolean: "and"})
	return b
}

// HavingNotNull adds an `is not null` test on grouped rows.
func (b *Builder) HavingNotNull(column any) *Builder {
	b.havings = append(b.havings, &havingNull{column: column, boolean: "and", not: true})
	return b
}

// HavingBetween adds a range test on grouped rows.
func (b *Builder) HavingBetween(column any, from, to any) *Builder {
	return b.havingBetweenBool(column, from, to, "and", false)
}

// HavingNotBetween adds a negated range test on grouped rows.
func (b *Builder) HavingNotBetween(column any, from, to any) *Builder {
	return b.havingBetweenBool(column, from, to, "and", true)
}

func (b *Builder) havingBetweenBool(column any, from, to any, boolean string, not bool) *Builder {
	from, to = flattenScalar(from), flattenScalar(to)
	b.havings = append(b.havings, &havingBetween{column: column, from: from, to: to, boolean: boolean, not: not})
	return b.addBinding(bindHaving, from, to)
}

// HavingNested collects the conditions added by fn into a parenthesized
// having group.
func (b *Builder) HavingNested(fn Func) *Builder {
	return b.havingNestedBool(fn, "and")
}

func (b *Builder) havingNestedBool(fn Func, boolean string) *Builder {
	sub := b.forNestedWhere()
	fn(sub)
	b.errs = append(b.errs, sub.errs...)
	if len(sub.havings) == 0 {
		return b
	}
	b.havings = append(b.havings, &havingNested{query: sub, boolean: boolean})
	return b.addBinding(bindHaving, sub.bindings[bindHaving]...)
}

// HavingRaw adds a literal having condition with optional bindings.
func (b *Builder) HavingRaw(sql string, bindings ...any) *Builder {
	b.havings = append(b.havings, &havingRaw{sql: sql, boolean: "and"})
	return b.addBinding(bindHaving, bindings...)
}

// OrHavingRaw is HavingRaw with `or` conjunction.
func (b *Builder) OrHavingRaw(sql string, bindings ...any) *Builder {
	b.havings = append(b.havings, &havingRaw{sql: sql, boolean: "or"})
	return b.addBinding(bindHaving, bindings...)
}

// ---------------------------------------------------------------------------
// Order / Limit / Offset

// OrderBy appends an ascending ordering on the column; an optional
// explicit direction ("asc" or "desc") overrides it. A Queryable column is
// compiled to a scalar sub-query ordering term.
func (b *Builder) OrderBy(column any, direction ...string) *Builder {
	dir := "asc"
	if len(direction) > 0 && direction[0] != "" {
		dir = strings.ToLower(direction[0])
	}
	if dir != "asc" && dir != "desc" {
		return b.addError(querykitInvalidArgument("OrderBy", "order direction must be asc or desc, got %q", direction[0]))
	}
	kind := bindOrder
	if len(b.unions) > 0 {
		kind = bindUnionOrder
	}
	if q, ok := column.(Queryable); ok {
		if _, raw := q.(*Expr); !raw {
			sql, args, err := b.createSub("OrderBy", q)
			if err != nil {
				return b.addError(err)
			}
			column = Raw("(" + sql + ")")
			b.addBinding(kind, args...)
		}
	}
	o := &orderBasic{column: column, direction: dir}
	if kind == bindUnionOrder {
		b.unionOrders = append(b.unionOrders, o)
	} else {
		b.orders = append(b.orders, o)
	}
	return b
}

// OrderByDesc appends a descending ordering on the column.
func (b *Builder) OrderByDesc(column any) *Builder {
	return b.OrderBy(column, "desc")
}

// OrderByRaw appends a literal ordering fragment with optional bindings.
func (b *Builder) OrderByRaw(sql string, bindings ...any) *Builder {
	o := &orderRaw{sql: sql}
	if len(b.unions) > 0 {
		b.unionOrders = append(b.unionOrders, o)
		return b.addBinding(bindUnionOrder, bindings...)
	}
	b.orders = append(b.orders, o)
	return b.addBinding(bindOrder, bindings...)
}

// Latest orders by the given column (default "created_at") descending.
func (b *Builder) Latest(column ...string) *Builder {
	return b.OrderBy(latestColumn(column), "desc")
}

// Oldest orders by the given column (default "created_at") ascending.
func (b *Builder) Oldest(column ...string) *Builder {
	return b.OrderBy(latestColumn(column), "asc")
}

func latestColumn(column []string) string {
	if len(column) > 0 && column[0] != "" {
		return column[0]
	}
	return "created_at"
}

// InRandomOrder orders results randomly, with an optional dialect-specific
// seed.
func (b *Builder) InRandomOrder(seed ...string) *Builder {
	s := ""
	if len(seed) > 0 {
		s = seed[0]
	}
	return b.OrderByRaw(b.grammar.CompileRandom(s))
}

// Reorder discards all accumulated orderings and their bindings.
func (b *Builder) Reorder() *Builder {
	b.orders = nil
	b.unionOrders = nil
	b.bindings[bindOrder] = nil
	b.bindings[bindUnionOrder] = nil
	return b
}

// Limit caps the number of returned rows. Negative values are ignored.
// After a union is attached, the cap applies to the combined result.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		return b
	}
	if len(b.unions) > 0 {
		b.unionLimit = n
	} else {
		b.limit = n
	}
	return b
}

// Offset skips the first n rows, clamped at zero. After a union is
// attached, the offset applies to the combined result.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		n = 0
	}
	if len(b.unions) > 0 {
		b.unionOffset = n
	} else {
		b.offset = n
	}
	return b
}

// ForPage sets limit and offset for 1-based page numbering.
func (b *Builder) ForPage(page, perPage int) *Builder {
	if page < 1 {
		page = 1
	}
	return b.Offset((page - 1) * perPage).Limit(perPage)
}

// ---------------------------------------------------------------------------
// Union / Lock

// Union attaches q with duplicate-eliminating union semantics.
func (b *Builder) Union(q Queryable) *Builder {
	return b.union(q, false)
}

// UnionAll attaches q keeping duplicates.
func (b *Builder) UnionAll(q Queryable) *Builder {
	return b.union(q, true)
}

func (b *Builder) union(q Queryable, all bool) *Builder {
	var sub *Builder
	switch q := q.(type) {
	case Func:
		sub = b.forSubQuery()
		q(sub)
	case *Builder:
		sub = q
	default:
		return b.addError(querykitInvalidArgument("Union", "union requires a builder or callback, got %T", q))
	}
	b.errs = append(b.errs, sub.errs...)
	b.unions = append(b.unions, union{query: sub, all: all})
	return b.addBinding(bindUnion, sub.GetBindings()...)
}

// LockForUpdate requests an exclusive row lock on selected rows.
func (b *Builder) LockForUpdate() *Builder {
	b.lock = true
	return b
}

// SharedLock requests a shared row lock on selected rows.
func (b *Builder) SharedLock() *Builder {
	b.lock = false
	return b
}

// LockRaw appends a literal locking fragment.
func (b *Builder) LockRaw(sql string) *Builder {
	b.lock = sql
	return b
}

// ---------------------------------------------------------------------------
// Hooks

// BeforeQuery registers a callback invoked once, immediately before the
// builder is first compiled. Callbacks run in registration order and may
// mutate the builder; they are drained before running so a callback adding
// clauses cannot re-trigger the hook.
func (b *Builder) BeforeQuery(fn func(*Builder)) *Builder {
	b.beforeQuery = append(b.beforeQuery, fn)
	return b
}

func (b *Builder) applyBeforeQuery() {
	callbacks := b.beforeQuery
	b.beforeQuery = nil
	for _, fn := range callbacks {
		fn(b)
	}
}

// ---------------------------------------------------------------------------
// Compilation

// ToSQL compiles the builder into its SQL text and flattened bindings. It
// runs pending BeforeQuery hooks first and reports any accumulated misuse
// errors instead of compiling.
func (b *Builder) ToSQL() (string, []any, error) {
	b.applyBeforeQuery()
	if err := b.Err(); err != nil {
		return "", nil, err
	}
	sql, err := b.grammar.CompileSelect(b)
	if err != nil {
		return "", nil, err
	}
	return b.grammar.ReplacePlaceholders(sql), b.GetBindings(), nil
}

// ---------------------------------------------------------------------------
// Cloning

// Clone returns a deep copy of the builder. Clause lists, nested builders
// and the binding bag are copied; the copy shares only the connection,
// grammar and processor. Mutating either builder never affects the other.
func (b *Builder) Clone() *Builder {
	nb := b.newQuery()
	nb.bindings = b.bindings.clone()
	nb.columns = append([]any(nil), b.columns...)
	nb.distinct = b.distinct
	nb.distinctColumns = append([]any(nil), b.distinctColumns...)
	nb.from = b.from
	for _, j := range b.joins {
		nb.joins = append(nb.joins, j.clone())
	}
	for _, w := range b.wheres {
		nb.wheres = append(nb.wheres, w.cloneWhere())
	}
	nb.groups = append([]any(nil), b.groups...)
	for _, h := range b.havings {
		nb.havings = append(nb.havings, h.cloneHaving())
	}
	for _, o := range b.orders {
		nb.orders = append(nb.orders, o.cloneOrder())
	}
	nb.limit = b.limit
	nb.offset = b.offset
	for _, u := range b.unions {
		nb.unions = append(nb.unions, u.clone())
	}
	nb.unionLimit = b.unionLimit
	nb.unionOffset = b.unionOffset
	for _, o := range b.unionOrders {
		nb.unionOrders = append(nb.unionOrders, o.cloneOrder())
	}
	nb.lock = b.lock
	nb.aggregate = b.aggregate.clone()
	nb.beforeQuery = append(make([]func(*Builder), 0, len(b.beforeQuery)), b.beforeQuery...)
	nb.errs = append([]error(nil), b.errs...)
	return nb
}

// CloneWithout returns a deep copy with the named properties reset.
// Recognized names: "columns", "distinct", "from", "joins", "wheres",
// "groups", "havings", "orders", "limit", "offset", "unions", "unionOrders",
// "lock", "aggregate".
func (b *Builder) CloneWithout(properties ...string) *Builder {
	nb := b.Clone()
	for _, p := range properties {
		switch p {
		case "columns":
			nb.columns = nil
		case "distinct":
			nb.distinct = false
			nb.distinctColumns = nil
		case "from":
			nb.from = nil
		case "joins":
			nb.joins = nil
		case "wheres":
			nb.wheres = nil
		case "groups":
			nb.groups = nil
		case "havings":
			nb.havings = nil
		case "orders":
			nb.orders = nil
			nb.unionOrders = nil
		case "limit":
			nb.limit = -1
			nb.unionLimit = -1
		case "offset":
			nb.offset = -1
			nb.unionOffset = -1
		case "unions":
			nb.unions = nil
		case "unionOrders":
			nb.unionOrders = nil
		case "lock":
			nb.lock = nil
		case "aggregate":
			nb.aggregate = nil
		default:
			nb.addError(querykitInvalidArgument("CloneWithout", "unknown property %q", p))
		}
	}
	return nb
}

// CloneWithoutBindings returns a deep copy with the named binding
// categories emptied.
func (b *Builder) CloneWithoutBindings(kinds ...string) *Builder {
	nb := b.Clone()
	for _, k := range kinds {
		if !nb.bindings.valid(k) {
			nb.addError(querykitInvalidArgument("CloneWithoutBindings", "invalid binding type: %s", k))
			continue
		}
		nb.bindings[k] = nil
	}
	return nb
}

// ---------------------------------------------------------------------------
// Read operations

// Get executes the query and returns all matching rows. Optional columns
// apply only when no select list was set.
func (b *Builder) Get(ctx context.Context, columns ...any) ([]Row, error) {
	original := b.columns
	if len(columns) > 0 && original == nil {
		b.columns = columns
	}
	rows, err := b.runSelect(ctx)
	b.columns = original
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return b.processor.ProcessSelect(b, rows)
}

func (b *Builder) runSelect(ctx context.Context) (*Rows, error) {
	sql, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	if b.conn == nil {
		return nil, errNoConnection
	}
	return b.conn.Select(ctx, sql, args)
}

// First executes the query with a limit of one and returns the row, or nil
// when nothing matches. The receiver is not mutated.
func (b *Builder) First(ctx context.Context, columns ...any) (Row, error) {
	rows, err := b.Clone().Limit(1).Get(ctx, columns...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Find returns the first row whose "id" column equals id.
func (b *Builder) Find(ctx context.Context, id any) (Row, error) {
	return b.Clone().WhereEq("id", id).First(ctx)
}

// Value returns a single column of the first matching row, or nil when
// nothing matches.
func (b *Builder) Value(ctx context.Context, column string) (any, error) {
	row, err := b.First(ctx, column)
	if err != nil || row == nil {
		return nil, err
	}
	return row[stripColumnAlias(column)], nil
}

// Pluck returns the values of a single column across all matching rows.
func (b *Builder) Pluck(ctx context.Context, column string) ([]any, error) {
	rows, err := b.Get(ctx, column)
	if err != nil {
		return nil, err
	}
	key := stripColumnAlias(column)
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[key])
	}
	return out, nil
}

// stripColumnAlias reduces a projection term to the key it produces in a
// result row: the alias when present, otherwise the unqualified column.
func stripColumnAlias(column string) string {
	if i := strings.LastIndex(strings.ToLower(column), " as "); i >= 0 {
		return column[i+4:]
	}
	if i := strings.LastIndex(column, "."); i >= 0 {
		return column[i+1:]
	}
	return column
}

// Exists reports whether the query matches at least one row.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	b.applyBeforeQuery()
	if err := b.Err(); err != nil {
		return false, err
	}
	sql, err := b.grammar.CompileExists(b)
	if err != nil {
		return false, err
	}
	if b.conn == nil {
		return false, errNoConnection
	}
	rows, err := b.conn.Select(ctx, b.grammar.ReplacePlaceholders(sql), b.GetBindings())
	if err != nil {
		return false, err
	}
	defer rows.Close()
	results, err := b.processor.ProcessSelect(b, rows)
	if err != nil {
		return false, err
	}
	if len(results) == 0 {
		return false, nil
	}
	return toBool(results[0]["exists"]), nil
}

// DoesntExist is the negation of Exists.
func (b *Builder) DoesntExist(ctx context.Context) (bool, error) {
	exists, err := b.Exists(ctx)
	return !exists, err
}

// ---------------------------------------------------------------------------
// Aggregates

// Aggregate executes the query with its projection replaced by the named
// aggregate function and returns the raw aggregate value. Limit and offset
// are stripped, and so is ordering on ungrouped queries, where it cannot
// affect the single-row result; unions and havings are preserved by
// wrapping.
func (b *Builder) Aggregate(ctx context.Context, fn string, columns ...any) (any, error) {
	c := b.Clone()
	if len(c.groups) == 0 {
		c.orders = nil
		c.bindings[bindOrder] = nil
	}
	c.limit = -1
	c.offset = -1
	if len(c.unions) == 0 && len(c.havings) == 0 {
		c.columns = nil
		c.bindings[bindSelect] = nil
	}
	if len(columns) == 0 {
		columns = []any{"*"}
	}
	c.aggregate = &aggregateClause{fn: fn, columns: columns}
	rows, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0]["aggregate"], nil
}

// Count returns the number of matching rows.
func (b *Builder) Count(ctx context.Context, columns ...any) (int64, error) {
	v, err := b.Aggregate(ctx, "count", columns...)
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

// Sum returns the sum of the column across matching rows, zero when no
// rows match.
func (b *Builder) Sum(ctx context.Context, column any) (any, error) {
	v, err := b.Aggregate(ctx, "sum", column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return int64(0), nil
	}
	return v, nil
}

// Min returns the minimum value of the column across matching rows.
func (b *Builder) Min(ctx context.Context, column any) (any, error) {
	return b.Aggregate(ctx, "min", column)
}

// Max returns the maximum value of the column across matching rows.
func (b *Builder) Max(ctx context.Context, column any) (any, error) {
	return b.Aggregate(ctx, "max", column)
}

// Avg returns the average value of the column across matching rows.
func (b *Builder) Avg(ctx context.Context, column any) (any, error) {
	return b.Aggregate(ctx, "avg", column)
}

// ---------------------------------------------------------------------------
// Write operations

// Insert inserts one or more rows. All rows must share the same columns.
// Inserting zero rows is a no-op.
func (b *Builder) Insert(ctx context.Context, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := b.prepareWrite(); err != nil {
		return err
	}
	sql, args, err := b.grammar.CompileInsert(b, rows)
	if err != nil {
		return err
	}
	if b.conn == nil {
		return errNoConnection
	}
	return b.conn.Statement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// InsertGetID inserts a single row and returns the generated key of the
// given sequence column (default "id").
func (b *Builder) InsertGetID(ctx context.Context, row Row, sequence ...string) (int64, error) {
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	seq := "id"
	if len(sequence) > 0 && sequence[0] != "" {
		seq = sequence[0]
	}
	sql, args, err := b.grammar.CompileInsertGetID(b, row, seq)
	if err != nil {
		return 0, err
	}
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.processor.ProcessInsertGetID(ctx, b, b.grammar.ReplacePlaceholders(sql), args, seq)
}

// InsertOrIgnore inserts rows, skipping those that would violate a unique
// constraint. It returns the number of rows actually inserted.
func (b *Builder) InsertOrIgnore(ctx context.Context, rows ...Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	sql, args, err := b.grammar.CompileInsertOrIgnore(b, rows)
	if err != nil {
		return 0, err
	}
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.conn.AffectingStatement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// InsertUsing inserts the result of a sub-query into the given columns and
// returns the number of inserted rows.
func (b *Builder) InsertUsing(ctx context.Context, columns []string, q Queryable) (int64, error) {
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	subSQL, args, err := b.createSub("InsertUsing", q)
	if err != nil {
		return 0, err
	}
	sql, err := b.grammar.CompileInsertUsing(b, columns, subSQL)
	if err != nil {
		return 0, err
	}
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.conn.AffectingStatement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// Update applies the column assignments to all matching rows and returns
// the number of affected rows. Expr values are compiled inline.
func (b *Builder) Update(ctx context.Context, values Row) (int64, error) {
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	sql, err := b.grammar.CompileUpdate(b, values)
	if err != nil {
		return 0, err
	}
	args := b.grammar.PrepareBindingsForUpdate(b, values)
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.conn.AffectingStatement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// UpdateOrInsert updates the first row matching attributes with values, or
// inserts the union of both maps when no row matches. It reports whether
// the table was left containing a matching row.
func (b *Builder) UpdateOrInsert(ctx context.Context, attributes, values Row) (bool, error) {
	b.WhereMap(attributes)
	exists, err := b.Exists(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		merged := make(Row, len(attributes)+len(values))
		for k, v := range attributes {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}
		err := b.Insert(ctx, merged)
		return err == nil, err
	}
	if len(values) == 0 {
		return true, nil
	}
	_, err = b.Limit(1).Update(ctx, values)
	return err == nil, err
}

// Upsert inserts rows, updating the named columns of rows that collide on
// uniqueBy. With no update columns, every inserted column is updated. It
// returns the number of affected rows.
func (b *Builder) Upsert(ctx context.Context, rows []Row, uniqueBy []string, update ...string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(uniqueBy) == 0 {
		return 0, querykitInvalidArgument("Upsert", "at least one unique column is required")
	}
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	if len(update) == 0 {
		update = rows[0].sortedKeys()
	}
	sql, args, err := b.grammar.CompileUpsert(b, rows, uniqueBy, update)
	if err != nil {
		return 0, err
	}
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.conn.AffectingStatement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// Increment adds amount to a numeric column on all matching rows,
// optionally assigning extra columns in the same statement.
func (b *Builder) Increment(ctx context.Context, column string, amount any, extra ...Row) (int64, error) {
	return b.incrementEach(ctx, map[string]any{column: amount}, "+", extra...)
}

// Decrement subtracts amount from a numeric column on all matching rows.
func (b *Builder) Decrement(ctx context.Context, column string, amount any, extra ...Row) (int64, error) {
	return b.incrementEach(ctx, map[string]any{column: amount}, "-", extra...)
}

// IncrementEach adds each amount to its column in a single statement.
func (b *Builder) IncrementEach(ctx context.Context, amounts map[string]any, extra ...Row) (int64, error) {
	return b.incrementEach(ctx, amounts, "+", extra...)
}

// DecrementEach subtracts each amount from its column in a single
// statement.
func (b *Builder) DecrementEach(ctx context.Context, amounts map[string]any, extra ...Row) (int64, error) {
	return b.incrementEach(ctx, amounts, "-", extra...)
}

func (b *Builder) incrementEach(ctx context.Context, amounts map[string]any, op string, extra ...Row) (int64, error) {
	values := make(Row, len(amounts))
	for column, amount := range amounts {
		if !isNumeric(amount) {
			return 0, querykitInvalidArgument("Increment", "non-numeric amount for column %q", column)
		}
		wrapped, err := b.grammar.Wrap(column)
		if err != nil {
			return 0, err
		}
		values[column] = Raw(fmt.Sprintf("%s %s %v", wrapped, op, amount))
	}
	for _, e := range extra {
		for k, v := range e {
			values[k] = v
		}
	}
	return b.Update(ctx, values)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Delete removes all matching rows and returns the number removed. An
// optional id adds an equality condition on the "id" column first.
func (b *Builder) Delete(ctx context.Context, id ...any) (int64, error) {
	if len(id) > 0 {
		b.WhereEq("id", id[0])
	}
	if err := b.prepareWrite(); err != nil {
		return 0, err
	}
	sql, err := b.grammar.CompileDelete(b)
	if err != nil {
		return 0, err
	}
	args := b.grammar.PrepareBindingsForDelete(b)
	if b.conn == nil {
		return 0, errNoConnection
	}
	return b.conn.AffectingStatement(ctx, b.grammar.ReplacePlaceholders(sql), args)
}

// Truncate empties the table, resetting any auto-increment sequence the
// dialect maintains. Some dialects compile to more than one statement.
func (b *Builder) Truncate(ctx context.Context) error {
	if err := b.prepareWrite(); err != nil {
		return err
	}
	stmts, err := b.grammar.CompileTruncate(b)
	if err != nil {
		return err
	}
	if b.conn == nil {
		return errNoConnection
	}
	for _, stmt := range stmts {
		if err := b.conn.Statement(ctx, b.grammar.ReplacePlaceholders(stmt.SQL), stmt.Bindings); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) prepareWrite() error {
	b.applyBeforeQuery()
	return b.Err()
}

// ---------------------------------------------------------------------------
// Conversions

func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		var n int64
		_, err := fmt.Sscan(string(v), &n)
		return n, err
	case string:
		var n int64
		_, err := fmt.Sscan(v, &n)
		return n, err
	default:
		return 0, fmt.Errorf("querykit: cannot convert %T to int64", v)
	}
}

func toBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return len(v) > 0 && v[0] != '0'
	case string:
		return v != "" && v != "0" && v != "false"
	default:
		return v != nil
	}
}

// queryable marks Builder as usable wherever a sub-query is accepted.
func (*Builder) queryable() {}
