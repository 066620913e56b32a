package sql

// The clause model is a set of closed sum types: each where, having, order
// and union variant is a distinct struct implementing a marker interface,
// and the grammar compilers switch over them exhaustively. Adding a variant
// means touching every grammar, which is intentional.

// whereClause is a single entry of a builder's where list.
type whereClause interface {
	isWhere()
	cloneWhere() whereClause
}

// whereBasic is `<column> <operator> <value>`.
type whereBasic struct {
	column   any // string or *Expr
	operator string
	value    any
	boolean  string // "and" or "or"
}

// whereBitwise is a basic comparison whose operator is bitwise. Postgres
// casts the result to bool.
type whereBitwise struct {
	column   any
	operator string
	value    any
	boolean  string
}

// whereColumn compares two columns.
type whereColumn struct {
	first    any
	operator string
	second   any
	boolean  string
}

// whereNested is a parenthesized group of conditions.
type whereNested struct {
	query   *Builder
	boolean string
}

// whereSub compares a column against a scalar sub-query.
type whereSub struct {
	column   any
	operator string
	query    subQuery
	boolean  string
}

// whereExists tests a sub-query for row existence.
type whereExists struct {
	query   subQuery
	boolean string
	not     bool
}

// whereIn tests membership in a literal value list.
type whereIn struct {
	column  any
	values  []any
	boolean string
	not     bool
}

// whereInSub tests membership in a sub-query result.
type whereInSub struct {
	column  any
	query   subQuery
	boolean string
	not     bool
}

// whereNull tests a column for null.
type whereNull struct {
	column  any
	boolean string
	not     bool
}

// whereBetween tests a column against a value range.
type whereBetween struct {
	column  any
	from    any
	to      any
	boolean string
	not     bool
}

// whereBetweenColumns tests a column against a range given by two columns.
type whereBetweenColumns struct {
	column  any
	first   string
	second  string
	boolean string
	not     bool
}

// whereRaw injects a literal condition.
type whereRaw struct {
	sql     string
	boolean string
}

// whereDateBased compares a date part of a column. kind is one of "date",
// "day", "month", "year" and "time".
type whereDateBased struct {
	kind     string
	column   any
	operator string
	value    any
	boolean  string
}

// whereJSONBoolean compares a JSON path selector against a boolean literal.
type whereJSONBoolean struct {
	column  string
	value   bool
	boolean string
}

// whereFulltext is a full-text match over one or more columns.
type whereFulltext struct {
	columns []string
	value   string
	options FulltextOptions
	boolean string
}

// FulltextOptions tunes full-text matching on dialects that support it.
type FulltextOptions struct {
	// Mode selects the match mode on MySQL ("boolean" or natural language
	// when empty) and is ignored elsewhere.
	Mode string
	// Expanded enables query expansion on MySQL.
	Expanded bool
	// Language names the text search configuration on Postgres. Defaults
	// to "english".
	Language string
}

func (*whereBasic) isWhere()          {}
func (*whereBitwise) isWhere()        {}
func (*whereColumn) isWhere()         {}
func (*whereNested) isWhere()         {}
func (*whereSub) isWhere()            {}
func (*whereExists) isWhere()         {}
func (*whereIn) isWhere()             {}
func (*whereInSub) isWhere()          {}
func (*whereNull) isWhere()           {}
func (*whereBetween) isWhere()        {}
func (*whereBetweenColumns) isWhere() {}
func (*whereRaw) isWhere()            {}
func (*whereDateBased) isWhere()      {}
func (*whereJSONBoolean) isWhere()    {}
func (*whereFulltext) isWhere()       {}

func (w *whereBasic) cloneWhere() whereClause   { c := *w; return &c }
func (w *whereBitwise) cloneWhere() whereClause { c := *w; return &c }
func (w *whereColumn) cloneWhere() whereClause  { c := *w; return &c }
func (w *whereNested) cloneWhere() whereClause {
	c := *w
	c.query = w.query.Clone()
	return &c
}
func (w *whereSub) cloneWhere() whereClause {
	c := *w
	c.query = w.query.clone()
	return &c
}
func (w *whereExists) cloneWhere() whereClause {
	c := *w
	c.query = w.query.clone()
	return &c
}
func (w *whereIn) cloneWhere() whereClause {
	c := *w
	c.values = append([]any(nil), w.values...)
	return &c
}
func (w *whereInSub) cloneWhere() whereClause {
	c := *w
	c.query = w.query.clone()
	return &c
}
func (w *whereNull) cloneWhere() whereClause           { c := *w; return &c }
func (w *whereBetween) cloneWhere() whereClause        { c := *w; return &c }
func (w *whereBetweenColumns) cloneWhere() whereClause { c := *w; return &c }
func (w *whereRaw) cloneWhere() whereClause            { c := *w; return &c }
func (w *whereDateBased) cloneWhere() whereClause      { c := *w; return &c }
func (w *whereJSONBoolean) cloneWhere() whereClause    { c := *w; return &c }
func (w *whereFulltext) cloneWhere() whereClause {
	c := *w
	c.columns = append([]string(nil), w.columns...)
	return &c
}

// havingClause is a single entry of a builder's having list.
type havingClause interface {
	isHaving()
	cloneHaving() havingClause
}

// havingBasic is `<column> <operator> <value>`.
type havingBasic struct {
	column   any
	operator string
	value    any
	boolean  string
}

// havingBitwise is a basic having whose operator is bitwise.
type havingBitwise struct {
	column   any
	operator string
	value    any
	boolean  string
}

// havingNull tests an aggregate column for null.
type havingNull struct {
	column  any
	boolean string
	not     bool
}

// havingBetween tests an aggregate column against a range.
type havingBetween struct {
	column  any
	from    any
	to      any
	boolean string
	not     bool
}

// havingNested is a parenthesized group of having conditions.
type havingNested struct {
	query   *Builder
	boolean string
}

// havingRaw injects a literal condition.
type havingRaw struct {
	sql     string
	boolean string
}

// havingExpr emits a literal expression as a standalone condition.
type havingExpr struct {
	expr    *Expr
	boolean string
}

func (*havingBasic) isHaving()   {}
func (*havingBitwise) isHaving() {}
func (*havingNull) isHaving()    {}
func (*havingBetween) isHaving() {}
func (*havingNested) isHaving()  {}
func (*havingRaw) isHaving()     {}
func (*havingExpr) isHaving()    {}

func (h *havingBasic) cloneHaving() havingClause   { c := *h; return &c }
func (h *havingBitwise) cloneHaving() havingClause { c := *h; return &c }
func (h *havingNull) cloneHaving() havingClause    { c := *h; return &c }
func (h *havingBetween) cloneHaving() havingClause { c := *h; return &c }
func (h *havingNested) cloneHaving() havingClause {
	c := *h
	c.query = h.query.Clone()
	return &c
}
func (h *havingRaw) cloneHaving() havingClause  { c := *h; return &c }
func (h *havingExpr) cloneHaving() havingClause { c := *h; return &c }

// orderClause is a single entry of a builder's order list.
type orderClause interface {
	isOrder()
	cloneOrder() orderClause
}

// orderBasic orders by a column in a direction ("asc" or "desc").
type orderBasic struct {
	column    any
	direction string
}

// orderRaw injects a literal ordering fragment.
type orderRaw struct {
	sql string
}

func (*orderBasic) isOrder() {}
func (*orderRaw) isOrder()   {}

func (o *orderBasic) cloneOrder() orderClause { c := *o; return &c }
func (o *orderRaw) cloneOrder() orderClause   { c := *o; return &c }

// union attaches another query with union or union all semantics.
type union struct {
	query *Builder
	all   bool
}

func (u union) clone() union {
	u.query = u.query.Clone()
	return u
}

// aggregateClause replaces the select list with an aggregate projection.
type aggregateClause struct {
	fn      string
	columns []any
}

func (a *aggregateClause) clone() *aggregateClause {
	if a == nil {
		return nil
	}
	c := *a
	c.columns = append([]any(nil), a.columns...)
	return &c
}
