package sql

// Binding categories. Every bound value belongs to exactly one category, and
// the flattened binding list always follows this order regardless of the
// order in which builder methods were called, so that bindings line up with
// the placeholders of the compiled statement.
const (
	bindSelect     = "select"
	bindFrom       = "from"
	bindJoin       = "join"
	bindWhere      = "where"
	bindGroupBy    = "groupBy"
	bindHaving     = "having"
	bindOrder      = "order"
	bindUnion      = "union"
	bindUnionOrder = "unionOrder"
)

// bindingOrder fixes the flattening order of the binding categories.
var bindingOrder = []string{
	bindSelect,
	bindFrom,
	bindJoin,
	bindWhere,
	bindGroupBy,
	bindHaving,
	bindOrder,
	bindUnion,
	bindUnionOrder,
}

// bindings is the category-ordered binding bag of a builder.
type bindings map[string][]any

func newBindings() bindings {
	b := make(bindings, len(bindingOrder))
	for _, k := range bindingOrder {
		b[k] = nil
	}
	return b
}

// valid reports whether kind names a known binding category.
func (b bindings) valid(kind string) bool {
	_, ok := b[kind]
	return ok
}

// add appends values to the given category. Literal SQL expressions are
// filtered out: an Expr contributes text to the statement, never a binding.
func (b bindings) add(kind string, values ...any) {
	for _, v := range values {
		if _, ok := v.(*Expr); ok {
			continue
		}
		b[kind] = append(b[kind], v)
	}
}

// flatten returns all bindings as a single list in category order.
func (b bindings) flatten() []any {
	var out []any
	for _, k := range bindingOrder {
		out = append(out, b[k]...)
	}
	return out
}

// clone returns a deep copy of the bag. The category slices are copied; the
// bound values themselves are shared, as they are treated as immutable once
// bound.
func (b bindings) clone() bindings {
	out := make(bindings, len(b))
	for k, vs := range b {
		if vs == nil {
			out[k] = nil
			continue
		}
		cp := make([]any, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}
