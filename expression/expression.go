package expression

// Expression is a node of a parsed, type-checked expression tree.
//
// The type of a node is fixed when it is parsed. Evaluate returns a value
// belonging to that type (or null when the node's output is not guaranteed
// to be defined) or a [*RuntimeError]. Nodes are immutable and may be
// evaluated concurrently with distinct evaluation contexts.
type Expression interface {
	Type() Type
	Evaluate(ctx *EvaluationContext) (any, error)
	Children() []Expression
	OutputDefined() bool

	sealed()
}

// typed carries the static type shared by every node and seals the
// [Expression] interface to this package.
type typed struct {
	typ Type
}

func (t typed) Type() Type { return t.typ }

func (typed) sealed() {}

// evaluateAll evaluates each expression in order, stopping at the first
// error.
func evaluateAll(ctx *EvaluationContext, exprs []Expression) ([]any, error) {
	out := make([]any, len(exprs))

	for i, e := range exprs {
		v, err := e.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// allOutputDefined reports whether every expression has a defined output.
func allOutputDefined(exprs ...Expression) bool {
	for _, e := range exprs {
		if !e.OutputDefined() {
			return false
		}
	}

	return true
}

// Walk calls fn for e and then, depth first, for each of its descendants.
func Walk(e Expression, fn func(Expression)) {
	fn(e)

	for _, c := range e.Children() {
		Walk(c, fn)
	}
}
