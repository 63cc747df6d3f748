package expression

import "strconv"

// Literal is a constant value.
type Literal struct {
	Value any
	typed
}

// NewLiteral returns a literal of the inferred type of v.
func NewLiteral(v any) *Literal {
	return &Literal{typed: typed{TypeOf(v)}, Value: v}
}

func parseLiteral(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("'literal' expression requires exactly one argument, but found " +
			strconv.Itoa(len(args)-1) + " instead.")
	}

	if !IsValue(args[1]) {
		return ctx.fail("invalid value")
	}

	t := TypeOf(args[1])

	// An empty array takes its item type from the context when it can.
	if t.Kind == KindArray && t.N == 0 && ctx.expected != nil &&
		ctx.expected.Kind == KindArray && (!ctx.expected.HasN || ctx.expected.N == 0) {
		t = *ctx.expected
	}

	return &Literal{typed: typed{t}, Value: args[1]}
}

func (e *Literal) Evaluate(*EvaluationContext) (any, error) { return e.Value, nil }

func (e *Literal) Children() []Expression { return nil }

func (e *Literal) OutputDefined() bool { return true }
