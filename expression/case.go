package expression

import "strconv"

type caseBranch struct {
	test   Expression
	result Expression
}

// Case evaluates the result of the first branch whose test is true, or a
// fallback. Later branches are not evaluated.
type Case struct {
	otherwise Expression
	branches  []caseBranch
	typed
}

func parseCase(args []any, ctx *ParsingContext) Expression {
	if len(args) < 4 {
		return ctx.fail("Expected at least 3 arguments, but found only " + strconv.Itoa(len(args)-1) + ".")
	}

	if len(args)%2 != 0 {
		return ctx.fail("Expected an odd number of arguments.")
	}

	var outputType *Type
	if ctx.expected != nil && ctx.expected.Kind != KindValue {
		outputType = ctx.expected
	}

	var branches []caseBranch

	for i := 1; i < len(args)-1; i += 2 {
		test := ctx.parseArg(args[i], i, expect(BooleanType))
		if test == nil {
			return nil
		}

		result := ctx.parseArg(args[i+1], i+1, outputType)
		if result == nil {
			return nil
		}

		branches = append(branches, caseBranch{test: test, result: result})

		if outputType == nil {
			outputType = expect(result.Type())
		}
	}

	last := len(args) - 1

	otherwise := ctx.parseArg(args[last], last, outputType)
	if otherwise == nil {
		return nil
	}

	return &Case{typed: typed{*outputType}, branches: branches, otherwise: otherwise}
}

func (e *Case) Evaluate(ctx *EvaluationContext) (any, error) {
	for _, b := range e.branches {
		ok, err := b.test.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		if truthy(ok) {
			return b.result.Evaluate(ctx)
		}
	}

	return e.otherwise.Evaluate(ctx)
}

func (e *Case) Children() []Expression {
	out := make([]Expression, 0, 2*len(e.branches)+1)
	for _, b := range e.branches {
		out = append(out, b.test, b.result)
	}

	return append(out, e.otherwise)
}

func (e *Case) OutputDefined() bool {
	for _, b := range e.branches {
		if !b.result.OutputDefined() {
			return false
		}
	}

	return e.otherwise.OutputDefined()
}
