package expression

import (
	"math"

	"github.com/ardnew/windstyle/color"
)

var assertionTypes = map[string]Type{
	"string":  StringType,
	"number":  NumberType,
	"boolean": BooleanType,
	"object":  ObjectType,
}

// Assertion returns the first of its arguments whose runtime type is a
// subtype of its own type, failing if none is.
type Assertion struct {
	args []Expression
	typed
}

func parseAssertion(args []any, ctx *ParsingContext) Expression {
	if len(args) < 2 {
		return ctx.fail("Expected at least one argument.")
	}

	var (
		t Type
		i = 1
	)

	if name := args[0].(string); name == "array" {
		item := ValueType

		if len(args) > 2 {
			s, ok := args[1].(string)
			if _, known := assertionTypes[s]; !ok || !known || s == "object" {
				return ctx.fail(`The item type argument of "array" must be one of string, number, boolean`, 1)
			}

			item = assertionTypes[s]
			i++
		}

		t = Array(item)

		if len(args) > 3 {
			if args[2] != nil {
				n, ok := args[2].(float64)
				if !ok || n < 0 || n != math.Floor(n) {
					return ctx.fail(`The length argument to "array" must be a positive integer literal`, 2)
				}

				t = ArrayN(item, int(n))
			}

			i++
		}
	} else {
		t = assertionTypes[name]
	}

	parsed := make([]Expression, 0, len(args)-i)

	for ; i < len(args); i++ {
		input := ctx.parseArg(args[i], i, expect(ValueType))
		if input == nil {
			return nil
		}

		parsed = append(parsed, input)
	}

	return &Assertion{typed: typed{t}, args: parsed}
}

func (e *Assertion) Evaluate(ctx *EvaluationContext) (any, error) {
	for i, arg := range e.args {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		if IsSubtype(e.typ, TypeOf(v)) == "" {
			return v, nil
		}

		if i == len(e.args)-1 {
			return nil, NewRuntimeError("Expected value to be of type " + e.typ.String() +
				", but found " + TypeOf(v).String() + " instead.")
		}
	}

	return nil, NewRuntimeError("Expected at least one argument.")
}

func (e *Assertion) Children() []Expression { return e.args }

func (e *Assertion) OutputDefined() bool { return allOutputDefined(e.args...) }

var coercionTypes = map[string]Type{
	"to-boolean": BooleanType,
	"to-color":   ColorType,
	"to-number":  NumberType,
	"to-string":  StringType,
}

// Coercion converts the first of its arguments that can be converted to its
// type. Coercions to color, number, padding, and anchor collections try each
// argument in turn.
type Coercion struct {
	args []Expression
	typed
}

func parseCoercion(args []any, ctx *ParsingContext) Expression {
	if len(args) < 2 {
		return ctx.fail("Expected at least one argument.")
	}

	name := args[0].(string)
	if (name == "to-boolean" || name == "to-string") && len(args) != 2 {
		return ctx.fail("Expected one argument.")
	}

	parsed := make([]Expression, 0, len(args)-1)

	for i := 1; i < len(args); i++ {
		input := ctx.parseArg(args[i], i, expect(ValueType))
		if input == nil {
			return nil
		}

		parsed = append(parsed, input)
	}

	return &Coercion{typed: typed{coercionTypes[name]}, args: parsed}
}

// quoted renders v for a coercion failure message: strings verbatim,
// everything else as JSON.
func quoted(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return encodeJSON(v)
}

func (e *Coercion) Evaluate(ctx *EvaluationContext) (any, error) {
	switch e.typ.Kind {
	case KindBoolean:
		v, err := e.args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		return truthy(v), nil

	case KindColor:
		return e.color(ctx)

	case KindPadding:
		return coerceEach(ctx, e.args, "padding", func(v any) (any, bool) {
			p, ok := ParsePadding(v)

			return p, ok
		})

	case KindVariableAnchorOffset:
		return coerceEach(ctx, e.args, "variableAnchorOffsetCollection", func(v any) (any, bool) {
			c, ok := ParseVariableAnchorOffsetCollection(v)

			return c, ok
		})

	case KindProjectionDefinition:
		return coerceEach(ctx, e.args, "projectionDefinition", func(v any) (any, bool) {
			p, ok := ParseProjectionDefinition(v)

			return p, ok
		})

	case KindNumber:
		var v any

		for _, arg := range e.args {
			var err error

			if v, err = arg.Evaluate(ctx); err != nil {
				return nil, err
			}

			if v == nil {
				return 0.0, nil
			}

			if n := toNumber(v); !math.IsNaN(n) {
				return n, nil
			}
		}

		return nil, NewRuntimeError("Could not convert " + encodeJSON(v) + " to number.")
	}

	v, err := e.args[0].Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	switch e.typ.Kind {
	case KindFormatted:
		return FormattedFromString(ValueToString(v)), nil
	case KindResolvedImage:
		if img, ok := ResolvedImageFromString(ValueToString(v)); ok {
			return img, nil
		}

		return nil, nil
	}

	return ValueToString(v), nil
}

func (e *Coercion) color(ctx *EvaluationContext) (any, error) {
	var (
		v   any
		msg string
	)

	for _, arg := range e.args {
		var err error

		if v, err = arg.Evaluate(ctx); err != nil {
			return nil, err
		}

		msg = ""

		switch v := v.(type) {
		case *color.Color:
			return v, nil

		case string:
			if c, ok := ctx.ParseColor(v); ok {
				return c, nil
			}

		case []any:
			if len(v) < 3 || len(v) > 4 {
				msg = "Invalid rgba value " + encodeJSON(v) +
					": expected an array containing either three or four numeric values."
			} else {
				msg = color.ValidateRGBA(v[0], v[1], v[2], v[3:]...)
			}

			if msg == "" {
				a := 1.0
				if len(v) == 4 {
					a = v[3].(float64)
				}

				return color.New(
					v[0].(float64)/255, v[1].(float64)/255, v[2].(float64)/255, a,
				), nil
			}
		}
	}

	if msg == "" {
		msg = "Could not parse color from value '" + quoted(v) + "'"
	}

	return nil, NewRuntimeError(msg)
}

// coerceEach returns the first argument value that parse accepts.
func coerceEach(
	ctx *EvaluationContext,
	args []Expression,
	name string,
	parse func(any) (any, bool),
) (any, error) {
	var v any

	for _, arg := range args {
		var err error

		if v, err = arg.Evaluate(ctx); err != nil {
			return nil, err
		}

		if out, ok := parse(v); ok {
			return out, nil
		}
	}

	return nil, NewRuntimeError("Could not parse " + name + " from value '" + quoted(v) + "'")
}

func (e *Coercion) Children() []Expression { return e.args }

func (e *Coercion) OutputDefined() bool { return allOutputDefined(e.args...) }
