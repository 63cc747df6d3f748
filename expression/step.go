package expression

import (
	"math"
	"strconv"
)

var negInf = math.Inf(-1)

// findStop returns the index of the last stop less than or equal to input,
// or 0 if there is none.
func findStop(stops []float64, input float64) (int, error) {
	last := len(stops) - 1
	lo, hi := 0, last

	for lo <= hi {
		i := (lo + hi) / 2

		switch cur := stops[i]; {
		case cur <= input:
			if i == last || input < stops[i+1] {
				return i, nil
			}

			lo = i + 1
		case cur > input:
			hi = i - 1
		default:
			return 0, NewRuntimeError("Input is not a number.")
		}
	}

	return 0, nil
}

// stops holds the ascending input labels of a piecewise expression and the
// output expression at each.
type stops struct {
	labels  []float64
	outputs []Expression
}

// parseStops parses label/output pairs starting at args[first]. The label
// of the first pair is implicitly negative infinity when implicitFirst is
// set, as for "step".
func parseStops(
	ctx *ParsingContext,
	op string,
	args []any,
	first int,
	implicitFirst bool,
	outputType *Type,
) (stops, *Type, bool) {
	var s stops

	for i := first; i < len(args); i += 2 {
		label, ok := args[i].(float64)

		if implicitFirst && i == first {
			label, ok = negInf, true
		}

		if !ok {
			ctx.fail(`Input/output pairs for "`+op+`" expressions must be defined using literal `+
				`numeric values (not computed expressions) for the input values.`, i)

			return s, nil, false
		}

		if n := len(s.labels); n > 0 && s.labels[n-1] >= label {
			ctx.fail(`Input/output pairs for "`+op+`" expressions must be arranged with input `+
				`values in strictly ascending order.`, i)

			return s, nil, false
		}

		parsed := ctx.parseArg(args[i+1], i+1, outputType)
		if parsed == nil {
			return s, nil, false
		}

		if outputType == nil {
			outputType = expect(parsed.Type())
		}

		s.labels = append(s.labels, label)
		s.outputs = append(s.outputs, parsed)
	}

	return s, outputType, true
}

// locate returns the index of the stop governing input. When exact is
// false the input lies strictly between stops i and i+1.
func (s stops) locate(input float64) (i int, exact bool, err error) {
	n := len(s.labels)

	switch {
	case n == 1 || input <= s.labels[0]:
		return 0, true, nil
	case input >= s.labels[n-1]:
		return n - 1, true, nil
	}

	i, err = findStop(s.labels, input)

	return i, false, err
}

// Step selects the output of the last stop whose label is less than or
// equal to the input.
type Step struct {
	input Expression
	stops
	typed
}

func parseStep(args []any, ctx *ParsingContext) Expression {
	if len(args)-1 < 4 {
		return ctx.fail("Expected at least 4 arguments, but found only " + strconv.Itoa(len(args)-1) + ".")
	}

	if (len(args)-1)%2 != 0 {
		return ctx.fail("Expected an even number of arguments.")
	}

	input := ctx.parseArg(args[1], 1, expect(NumberType))
	if input == nil {
		return nil
	}

	var outputType *Type
	if ctx.expected != nil && ctx.expected.Kind != KindValue {
		outputType = ctx.expected
	}

	s, outputType, ok := parseStops(ctx, "step", args, 1, true, outputType)
	if !ok {
		return nil
	}

	return &Step{typed: typed{*outputType}, input: input, stops: s}
}

func (e *Step) Evaluate(ctx *EvaluationContext) (any, error) {
	if len(e.labels) == 1 {
		return e.outputs[0].Evaluate(ctx)
	}

	v, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	i, _, err := e.locate(asNumber(v))
	if err != nil {
		return nil, err
	}

	return e.outputs[i].Evaluate(ctx)
}

func (e *Step) Children() []Expression {
	return append([]Expression{e.input}, e.outputs...)
}

func (e *Step) OutputDefined() bool { return allOutputDefined(e.outputs...) }
