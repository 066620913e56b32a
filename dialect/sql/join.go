package sql

// JoinClause is a join under construction. It embeds a Builder so that the
// full where vocabulary is available for join conditions; On and OrOn are
// sugar for the common column comparison.
type JoinClause struct {
	*Builder

	// joinType is "inner", "left", "right" or "cross".
	joinType string
	// table is the joined table: a string, or an *Expr for sub-query joins.
	table any
}

func newJoinClause(parent *Builder, joinType string, table any) *JoinClause {
	return &JoinClause{
		Builder:  parent.newQuery(),
		joinType: joinType,
		table:    table,
	}
}

// On adds an `and`-conjoined column comparison to the join condition.
func (j *JoinClause) On(first, operator, second string) *JoinClause {
	j.WhereColumn(first, operator, second)
	return j
}

// OrOn adds an `or`-conjoined column comparison to the join condition.
func (j *JoinClause) OrOn(first, operator, second string) *JoinClause {
	j.OrWhereColumn(first, operator, second)
	return j
}

func (j *JoinClause) clone() *JoinClause {
	return &JoinClause{
		Builder:  j.Builder.Clone(),
		joinType: j.joinType,
		table:    j.table,
	}
}

// Join adds an inner join constrained by a single column comparison.
func (b *Builder) Join(table any, first, operator, second string) *Builder {
	return b.join("inner", table, func(j *JoinClause) { j.On(first, operator, second) })
}

// JoinOn adds an inner join whose condition is built by fn.
func (b *Builder) JoinOn(table any, fn func(*JoinClause)) *Builder {
	return b.join("inner", table, fn)
}

// LeftJoin adds a left join constrained by a single column comparison.
func (b *Builder) LeftJoin(table any, first, operator, second string) *Builder {
	return b.join("left", table, func(j *JoinClause) { j.On(first, operator, second) })
}

// LeftJoinOn adds a left join whose condition is built by fn.
func (b *Builder) LeftJoinOn(table any, fn func(*JoinClause)) *Builder {
	return b.join("left", table, fn)
}

// RightJoin adds a right join constrained by a single column comparison.
func (b *Builder) RightJoin(table any, first, operator, second string) *Builder {
	return b.join("right", table, func(j *JoinClause) { j.On(first, operator, second) })
}

// RightJoinOn adds a right join whose condition is built by fn.
func (b *Builder) RightJoinOn(table any, fn func(*JoinClause)) *Builder {
	return b.join("right", table, fn)
}

// CrossJoin adds an unconstrained cross join.
func (b *Builder) CrossJoin(table any) *Builder {
	return b.join("cross", table, nil)
}

// JoinSub inner-joins a sub-query under the given alias.
func (b *Builder) JoinSub(q Queryable, as, first, operator, second string) *Builder {
	return b.joinSub("inner", q, as, func(j *JoinClause) { j.On(first, operator, second) })
}

// JoinSubOn inner-joins a sub-query under the given alias with a condition
// built by fn.
func (b *Builder) JoinSubOn(q Queryable, as string, fn func(*JoinClause)) *Builder {
	return b.joinSub("inner", q, as, fn)
}

// LeftJoinSub left-joins a sub-query under the given alias.
func (b *Builder) LeftJoinSub(q Queryable, as, first, operator, second string) *Builder {
	return b.joinSub("left", q, as, func(j *JoinClause) { j.On(first, operator, second) })
}

func (b *Builder) join(joinType string, table any, fn func(*JoinClause)) *Builder {
	j := newJoinClause(b, joinType, table)
	if fn != nil {
		fn(j)
	}
	return b.addJoin(j)
}

func (b *Builder) joinSub(joinType string, q Queryable, as string, fn func(*JoinClause)) *Builder {
	sql, args, err := b.createSub("JoinSub", q)
	if err != nil {
		return b.addError(err)
	}
	b.addBinding(bindJoin, args...)
	table := Raw("(" + sql + ") as " + b.grammar.WrapTable(as))
	return b.join(joinType, table, fn)
}

func (b *Builder) addJoin(j *JoinClause) *Builder {
	b.joins = append(b.joins, j)
	b.addBinding(bindJoin, j.GetBindings()...)
	b.errs = append(b.errs, j.errs...)
	return b
}
