package expression

import (
	"strconv"
	"unicode/utf8"
)

// Length returns the number of items in an array or code points in a
// string.
type Length struct {
	input Expression
	typed
}

func parseLength(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("Expected 1 argument, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	input := ctx.parseArg(args[1], 1, nil)
	if input == nil {
		return nil
	}

	switch input.Type().Kind {
	case KindArray, KindString, KindValue:
	default:
		return ctx.fail("Expected argument of type string or array, but found " +
			input.Type().String() + " instead.")
	}

	return &Length{typed: typed{NumberType}, input: input}
}

func (e *Length) Evaluate(ctx *EvaluationContext) (any, error) {
	v, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []any:
		return float64(len(v)), nil
	}

	return nil, NewRuntimeError("Expected value to be of type string or array, but found " +
		TypeOf(v).String() + " instead.")
}

func (e *Length) Children() []Expression { return []Expression{e.input} }

func (e *Length) OutputDefined() bool { return false }
