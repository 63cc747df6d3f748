package expression

import (
	"math"
	"strconv"

	"github.com/ardnew/windstyle/pkg/num"
)

// Match selects the output whose label equals the input, or a fallback.
// Labels are unique strings or safe integers of a single type.
type Match struct {
	input     Expression
	otherwise Expression
	cases     map[string]int
	outputs   []Expression
	inputType Type
	typed
}

func labelKey(v any) string {
	if f, ok := v.(float64); ok {
		return num.Format(f)
	}

	s, _ := v.(string)

	return s
}

func parseMatch(args []any, ctx *ParsingContext) Expression {
	if len(args) < 5 {
		return ctx.fail("Expected at least 4 arguments, but found only " + strconv.Itoa(len(args)-1) + ".")
	}

	if len(args)%2 != 1 {
		return ctx.fail("Expected an even number of arguments.")
	}

	var (
		inputType  *Type
		outputType *Type
		cases      = map[string]int{}
		outputs    []Expression
	)

	if ctx.expected != nil && ctx.expected.Kind != KindValue {
		outputType = ctx.expected
	}

	for i := 2; i < len(args)-1; i += 2 {
		labels, ok := args[i].([]any)
		if !ok {
			labels = []any{args[i]}
		}

		labelCtx := ctx.concat(i, nil, nil)
		if len(labels) == 0 {
			return labelCtx.fail("Expected at least one branch label.")
		}

		for _, label := range labels {
			f, isNum := label.(float64)
			_, isStr := label.(string)

			switch {
			case !isNum && !isStr:
				return labelCtx.fail("Branch labels must be numbers or strings.")
			case isNum && math.Abs(f) > num.MaxSafeInteger:
				return labelCtx.fail("Branch labels must be integers no larger than " +
					strconv.Itoa(num.MaxSafeInteger) + ".")
			case isNum && math.Floor(f) != f:
				return labelCtx.fail("Numeric branch labels must be integer values.")
			case inputType == nil:
				inputType = expect(TypeOf(label))
			case labelCtx.checkSubtype(*inputType, TypeOf(label)) != "":
				return nil
			}

			key := labelKey(label)
			if _, dup := cases[key]; dup {
				return labelCtx.fail("Branch labels must be unique.")
			}

			cases[key] = len(outputs)
		}

		result := ctx.parseArg(args[i+1], i, outputType)
		if result == nil {
			return nil
		}

		if outputType == nil {
			outputType = expect(result.Type())
		}

		outputs = append(outputs, result)
	}

	input := ctx.parseArg(args[1], 1, expect(ValueType))
	if input == nil {
		return nil
	}

	last := len(args) - 1

	otherwise := ctx.parseArg(args[last], last, outputType)
	if otherwise == nil {
		return nil
	}

	if input.Type().Kind != KindValue &&
		ctx.concat(1, nil, nil).checkSubtype(*inputType, input.Type()) != "" {
		return nil
	}

	return &Match{
		typed:     typed{*outputType},
		inputType: *inputType,
		input:     input,
		cases:     cases,
		outputs:   outputs,
		otherwise: otherwise,
	}
}

func (e *Match) Evaluate(ctx *EvaluationContext) (any, error) {
	v, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	if TypeOf(v).Kind == e.inputType.Kind {
		if i, ok := e.cases[labelKey(v)]; ok {
			return e.outputs[i].Evaluate(ctx)
		}
	}

	return e.otherwise.Evaluate(ctx)
}

func (e *Match) Children() []Expression {
	out := make([]Expression, 0, len(e.outputs)+2)
	out = append(out, e.input)
	out = append(out, e.outputs...)

	return append(out, e.otherwise)
}

func (e *Match) OutputDefined() bool {
	return allOutputDefined(e.outputs...) && e.otherwise.OutputDefined()
}
