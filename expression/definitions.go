package expression

import (
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/pkg/num"
)

var specialForms = map[string]parseFunc{
	"==":              parseComparison,
	"!=":              parseComparison,
	">":               parseComparison,
	"<":               parseComparison,
	">=":              parseComparison,
	"<=":              parseComparison,
	"array":           parseAssertion,
	"at":              parseAt,
	"boolean":         parseAssertion,
	"case":            parseCase,
	"coalesce":        parseCoalesce,
	"collator":        parseCollator,
	"format":          parseFormat,
	"image":           parseImage,
	"in":              parseIn,
	"index-of":        parseIndexOf,
	"interpolate":     parseInterpolate,
	"interpolate-hcl": parseInterpolate,
	"interpolate-lab": parseInterpolate,
	"length":          parseLength,
	"let":             parseLet,
	"literal":         parseLiteral,
	"match":           parseMatch,
	"number":          parseAssertion,
	"number-format":   parseNumberFormat,
	"object":          parseAssertion,
	"slice":           parseSlice,
	"step":            parseStep,
	"string":          parseAssertion,
	"to-boolean":      parseCoercion,
	"to-color":        parseCoercion,
	"to-number":       parseCoercion,
	"to-string":       parseCoercion,
	"var":             parseVar,
	"within":          parseWithin,
	"distance":        parseDistance,
}

// registry maps every operator name to its parser.
var registry = sync.OnceValue(func() map[string]parseFunc {
	r := make(map[string]parseFunc, len(specialForms)+len(definitions()))

	for name, fn := range specialForms {
		r[name] = fn
	}

	for name := range definitions() {
		r[name] = parseCompound
	}

	return r
})

// Operators returns the names of all operators in sorted order.
func Operators() []string {
	names := make([]string, 0, len(registry()))
	for name := range registry() {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func fixed(typ Type, params []Type, eval evalFunc) definition {
	return definition{typ: typ, overloads: []signature{{params: params, eval: eval}}}
}

func variadic(typ, rest Type, eval evalFunc) definition {
	return definition{typ: typ, overloads: []signature{{rest: &rest, eval: eval}}}
}

func overloaded(typ Type, sigs ...signature) definition {
	return definition{typ: typ, overloads: sigs}
}

func evalNumber(ctx *EvaluationContext, e Expression) (float64, error) {
	v, err := e.Evaluate(ctx)

	return asNumber(v), err
}

func evalString(ctx *EvaluationContext, e Expression) (string, error) {
	v, err := e.Evaluate(ctx)
	s, _ := v.(string)

	return s, err
}

func evalBool(ctx *EvaluationContext, e Expression) (bool, error) {
	v, err := e.Evaluate(ctx)

	return truthy(v), err
}

func unary(fn func(float64) float64) definition {
	return fixed(NumberType, []Type{NumberType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
		x, err := evalNumber(ctx, args[0])
		if err != nil {
			return nil, err
		}

		return fn(x), nil
	})
}

func binary(fn func(a, b float64) float64) definition {
	return fixed(NumberType, []Type{NumberType, NumberType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
		a, err := evalNumber(ctx, args[0])
		if err != nil {
			return nil, err
		}

		b, err := evalNumber(ctx, args[1])
		if err != nil {
			return nil, err
		}

		return fn(a, b), nil
	})
}

func constant(v float64) definition {
	return fixed(NumberType, nil, func(*EvaluationContext, []Expression) (any, error) { return v, nil })
}

func fold(init float64, fn func(acc, x float64) float64) definition {
	return variadic(NumberType, NumberType, func(ctx *EvaluationContext, args []Expression) (any, error) {
		acc := init

		for _, arg := range args {
			x, err := evalNumber(ctx, arg)
			if err != nil {
				return nil, err
			}

			acc = fn(acc, x)
		}

		return acc, nil
	})
}

func rgba(ctx *EvaluationContext, args []Expression) (any, error) {
	vals, err := evaluateAll(ctx, args)
	if err != nil {
		return nil, err
	}

	alpha := any(1.0)
	if len(vals) == 4 {
		alpha = vals[3]
	}

	if msg := color.ValidateRGBA(vals[0], vals[1], vals[2], alpha); msg != "" {
		return nil, NewRuntimeError(msg)
	}

	return color.FromStraight(
		vals[0].(float64)/255, vals[1].(float64)/255, vals[2].(float64)/255, alpha.(float64),
	), nil
}

func property(obj map[string]any, key string) any {
	return obj[key]
}

func globals(ctx *EvaluationContext) *Globals {
	if ctx.Globals == nil {
		return &Globals{}
	}

	return ctx.Globals
}

func orZero(v any) any {
	if !truthy(v) {
		return 0.0
	}

	return v
}

// literalValue returns the value of a literal argument. Legacy filters
// are only ever built with literal arguments.
func literalValue(e Expression) any {
	if lit, ok := e.(*Literal); ok {
		return lit.Value
	}

	return nil
}

// legacyOrder compares a and b with op when they share a native type.
func legacyOrder(op string, a, b any) bool {
	cmp, ok := orderOf(a, b)
	if !ok {
		return false
	}

	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	}

	return cmp >= 0
}

// orderOf compares two numbers or two strings. It reports false for
// operands of different types or unordered numbers.
func orderOf(a, b any) (int, bool) {
	switch a := a.(type) {
	case float64:
		b, ok := b.(float64)
		if !ok || math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}

		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}

		return 0, true
	case string:
		b, ok := b.(string)
		if !ok {
			return 0, false
		}

		return strings.Compare(a, b), true
	}

	return 0, false
}

func filterProperty(op string) definition {
	return fixed(BooleanType, []Type{StringType, ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
		key, _ := literalValue(args[0]).(string)

		a, ok := ctx.Properties()[key]
		if !ok {
			return false, nil
		}

		return legacyOrder(op, a, literalValue(args[1])), nil
	})
}

func filterID(op string) definition {
	return fixed(BooleanType, []Type{ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
		return legacyOrder(op, ctx.ID(), literalValue(args[0])), nil
	})
}

func containsStrict(haystack []any, needle any) bool {
	for _, v := range haystack {
		if strictEqual(v, needle) {
			return true
		}
	}

	return false
}

// binarySearch reports whether v occurs in the ascending slice a.
func binarySearch(v any, a []any) bool {
	i, j := 0, len(a)-1

	for i <= j {
		m := (i + j) >> 1

		if strictEqual(a[m], v) {
			return true
		}

		if cmp, ok := orderOf(a[m], v); ok && cmp > 0 {
			j = m - 1
		} else {
			i = m + 1
		}
	}

	return false
}

// definitions maps each builtin function to its overloads.
var definitions = sync.OnceValue(func() map[string]definition {
	return map[string]definition{
		"error": fixed(ErrorType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			msg, err := evalString(ctx, args[0])
			if err != nil {
				return nil, err
			}

			return nil, NewRuntimeError(msg)
		}),
		"typeof": fixed(StringType, []Type{ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			v, err := args[0].Evaluate(ctx)
			if err != nil {
				return nil, err
			}

			return TypeOf(v).String(), nil
		}),
		"to-rgba": fixed(ArrayN(NumberType, 4), []Type{ColorType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			v, err := args[0].Evaluate(ctx)
			if err != nil {
				return nil, err
			}

			c, ok := v.(*color.Color)
			if !ok {
				return nil, NewRuntimeError("Expected value to be of type color, but found " +
					TypeOf(v).String() + " instead.")
			}

			rgb := c.RGB()

			return []any{rgb[0] * 255, rgb[1] * 255, rgb[2] * 255, rgb[3]}, nil
		}),
		"rgb":  fixed(ColorType, []Type{NumberType, NumberType, NumberType}, rgba),
		"rgba": fixed(ColorType, []Type{NumberType, NumberType, NumberType, NumberType}, rgba),
		"has": overloaded(BooleanType,
			signature{params: []Type{StringType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				key, err := evalString(ctx, args[0])
				_, ok := ctx.Properties()[key]

				return ok, err
			}},
			signature{params: []Type{StringType, ObjectType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				key, err := evalString(ctx, args[0])
				if err != nil {
					return nil, err
				}

				obj, err := args[1].Evaluate(ctx)
				m, _ := obj.(map[string]any)
				_, ok := m[key]

				return ok, err
			}},
		),
		"get": overloaded(ValueType,
			signature{params: []Type{StringType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				key, err := evalString(ctx, args[0])
				if err != nil {
					return nil, err
				}

				return property(ctx.Properties(), key), nil
			}},
			signature{params: []Type{StringType, ObjectType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				key, err := evalString(ctx, args[0])
				if err != nil {
					return nil, err
				}

				obj, err := args[1].Evaluate(ctx)
				if err != nil {
					return nil, err
				}

				m, _ := obj.(map[string]any)

				return property(m, key), nil
			}},
		),
		"feature-state": fixed(ValueType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			key, err := evalString(ctx, args[0])
			if err != nil {
				return nil, err
			}

			return property(ctx.state(), key), nil
		}),
		"properties": fixed(ObjectType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return ctx.Properties(), nil
		}),
		"geometry-type": fixed(StringType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return ctx.GeometryType(), nil
		}),
		"id": fixed(ValueType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return ctx.ID(), nil
		}),
		"zoom": fixed(NumberType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return globals(ctx).Zoom, nil
		}),
		"heatmap-density": fixed(NumberType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return orZero(globals(ctx).HeatmapDensity), nil
		}),
		"line-progress": fixed(NumberType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return orZero(globals(ctx).LineProgress), nil
		}),
		"accumulated": fixed(ValueType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return globals(ctx).Accumulated, nil
		}),
		"+": fold(0, func(acc, x float64) float64 { return acc + x }),
		"*": fold(1, func(acc, x float64) float64 { return acc * x }),
		"-": overloaded(NumberType,
			signature{params: []Type{NumberType, NumberType}, eval: binary(func(a, b float64) float64 { return a - b }).overloads[0].eval},
			signature{params: []Type{NumberType}, eval: unary(func(a float64) float64 { return -a }).overloads[0].eval},
		),
		"/":     binary(func(a, b float64) float64 { return a / b }),
		"%":     binary(math.Mod),
		"ln2":   constant(math.Ln2),
		"pi":    constant(math.Pi),
		"e":     constant(math.E),
		"^":     binary(math.Pow),
		"sqrt":  unary(math.Sqrt),
		"log10": unary(func(x float64) float64 { return math.Log(x) / math.Ln10 }),
		"ln":    unary(math.Log),
		"log2":  unary(func(x float64) float64 { return math.Log(x) / math.Ln2 }),
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"asin":  unary(math.Asin),
		"acos":  unary(math.Acos),
		"atan":  unary(math.Atan),
		"min":   fold(math.Inf(1), math.Min),
		"max":   fold(math.Inf(-1), math.Max),
		"abs":   unary(math.Abs),
		"round": unary(num.Round),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),

		"filter-==": fixed(BooleanType, []Type{StringType, ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			key, _ := literalValue(args[0]).(string)
			a, ok := ctx.Properties()[key]

			return ok && strictEqual(a, literalValue(args[1])), nil
		}),
		"filter-id-==": fixed(BooleanType, []Type{ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			return strictEqual(ctx.ID(), literalValue(args[0])), nil
		}),
		"filter-type-==": fixed(BooleanType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			return strictEqual(ctx.GeometryDollarType(), literalValue(args[0])), nil
		}),
		"filter-<":     filterProperty("<"),
		"filter-id-<":  filterID("<"),
		"filter->":     filterProperty(">"),
		"filter-id->":  filterID(">"),
		"filter-<=":    filterProperty("<="),
		"filter-id-<=": filterID("<="),
		"filter->=":    filterProperty(">="),
		"filter-id->=": filterID(">="),
		"filter-has": fixed(BooleanType, []Type{ValueType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			key, _ := literalValue(args[0]).(string)
			_, ok := ctx.Properties()[key]

			return ok, nil
		}),
		"filter-has-id": fixed(BooleanType, nil, func(ctx *EvaluationContext, _ []Expression) (any, error) {
			return ctx.ID() != nil, nil
		}),
		"filter-type-in": fixed(BooleanType, []Type{Array(StringType)}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			types, _ := literalValue(args[0]).([]any)

			return containsStrict(types, ctx.GeometryDollarType()), nil
		}),
		"filter-id-in": fixed(BooleanType, []Type{Array(ValueType)}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			ids, _ := literalValue(args[0]).([]any)

			return containsStrict(ids, ctx.ID()), nil
		}),
		"filter-in-small": fixed(BooleanType, []Type{StringType, Array(ValueType)}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			key, _ := literalValue(args[0]).(string)
			values, _ := literalValue(args[1]).([]any)
			v, ok := ctx.Properties()[key]

			return ok && containsStrict(values, v), nil
		}),
		"filter-in-large": fixed(BooleanType, []Type{StringType, Array(ValueType)}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			key, _ := literalValue(args[0]).(string)
			values, _ := literalValue(args[1]).([]any)
			v, ok := ctx.Properties()[key]

			return ok && binarySearch(v, values), nil
		}),

		"all": overloaded(BooleanType,
			signature{params: []Type{BooleanType, BooleanType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				a, err := evalBool(ctx, args[0])
				if err != nil || !a {
					return false, err
				}

				return evalBool(ctx, args[1])
			}},
			signature{rest: expect(BooleanType), eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				for _, arg := range args {
					ok, err := evalBool(ctx, arg)
					if err != nil || !ok {
						return false, err
					}
				}

				return true, nil
			}},
		),
		"any": overloaded(BooleanType,
			signature{params: []Type{BooleanType, BooleanType}, eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				a, err := evalBool(ctx, args[0])
				if err != nil || a {
					return a, err
				}

				return evalBool(ctx, args[1])
			}},
			signature{rest: expect(BooleanType), eval: func(ctx *EvaluationContext, args []Expression) (any, error) {
				for _, arg := range args {
					ok, err := evalBool(ctx, arg)
					if err != nil || ok {
						return ok, err
					}
				}

				return false, nil
			}},
		),
		"!": fixed(BooleanType, []Type{BooleanType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			b, err := evalBool(ctx, args[0])

			return !b, err
		}),
		"is-supported-script": fixed(BooleanType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			hook := globals(ctx).IsSupportedScript
			if hook == nil {
				return true, nil
			}

			s, err := evalString(ctx, args[0])
			if err != nil {
				return nil, err
			}

			return hook(s), nil
		}),
		"upcase": fixed(StringType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			s, err := evalString(ctx, args[0])

			return cases.Upper(language.Und).String(s), err
		}),
		"downcase": fixed(StringType, []Type{StringType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			s, err := evalString(ctx, args[0])

			return cases.Lower(language.Und).String(s), err
		}),
		"concat": variadic(StringType, ValueType, func(ctx *EvaluationContext, args []Expression) (any, error) {
			var sb strings.Builder

			for _, arg := range args {
				v, err := arg.Evaluate(ctx)
				if err != nil {
					return nil, err
				}

				sb.WriteString(ValueToString(v))
			}

			return sb.String(), nil
		}),
		"resolved-locale": fixed(StringType, []Type{CollatorType}, func(ctx *EvaluationContext, args []Expression) (any, error) {
			v, err := args[0].Evaluate(ctx)
			if err != nil {
				return nil, err
			}

			c, ok := v.(*Collator)
			if !ok {
				return nil, NewRuntimeError("Expected value to be of type collator, but found " +
					TypeOf(v).String() + " instead.")
			}

			return c.ResolvedLocale(), nil
		}),
	}
})
