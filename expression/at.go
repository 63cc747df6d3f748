package expression

import (
	"math"
	"strconv"

	"github.com/ardnew/windstyle/pkg/num"
)

// At retrieves an item of an array by index.
type At struct {
	index Expression
	input Expression
	typed
}

func parseAt(args []any, ctx *ParsingContext) Expression {
	if len(args) != 3 {
		return ctx.fail("Expected 2 arguments, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	item := ValueType
	if ctx.expected != nil {
		item = *ctx.expected
	}

	index := ctx.parseArg(args[1], 1, expect(NumberType))
	input := ctx.parseArg(args[2], 2, expect(Array(item)))

	if index == nil || input == nil {
		return nil
	}

	return &At{typed: typed{input.Type().item()}, index: index, input: input}
}

func (e *At) Evaluate(ctx *EvaluationContext) (any, error) {
	iv, err := e.index.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	av, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	index := asNumber(iv)
	arr, _ := av.([]any)

	switch {
	case index < 0:
		return nil, NewRuntimeError("Array index out of bounds: " + num.Format(index) + " < 0.")
	case index >= float64(len(arr)):
		return nil, NewRuntimeError("Array index out of bounds: " + num.Format(index) +
			" > " + strconv.Itoa(len(arr)-1) + ".")
	case index != math.Floor(index):
		return nil, NewRuntimeError("Array index must be an integer, but found " +
			num.Format(index) + " instead.")
	}

	return arr[int(index)], nil
}

func (e *At) Children() []Expression { return []Expression{e.index, e.input} }

func (e *At) OutputDefined() bool { return false }
