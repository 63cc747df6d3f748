package expression

import (
	"math"
	"strconv"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/pkg/num"
)

// InterpolationKind is the curve used between two stops.
type InterpolationKind int

// Interpolation curves.
const (
	Linear InterpolationKind = iota
	Exponential
	CubicBezier
)

func (k InterpolationKind) String() string {
	switch k {
	case Exponential:
		return "exponential"
	case CubicBezier:
		return "cubic-bezier"
	default:
		return "linear"
	}
}

// Interpolation describes how the progress between two stops is computed.
type Interpolation struct {
	ControlPoints [4]float64
	Base          float64
	Kind          InterpolationKind
}

// Factor returns the interpolation progress of input between lower and
// upper, normally in [0, 1].
func (ip Interpolation) Factor(input, lower, upper float64) float64 {
	switch ip.Kind {
	case Exponential:
		return exponentialFactor(input, ip.Base, lower, upper)
	case CubicBezier:
		c := ip.ControlPoints

		return newUnitBezier(c[0], c[1], c[2], c[3]).solve(exponentialFactor(input, 1, lower, upper))
	}

	return exponentialFactor(input, 1, lower, upper)
}

// exponentialFactor returns the progress of input between lower and upper on
// an exponential curve with the given base. Base 1 is linear.
func exponentialFactor(input, base, lower, upper float64) float64 {
	difference := upper - lower
	progress := input - lower

	switch {
	case difference == 0:
		return 0
	case base == 1:
		return progress / difference
	}

	return (math.Pow(base, progress) - 1) / (math.Pow(base, difference) - 1)
}

// Interpolate blends the outputs of the two stops around its input.
type Interpolate struct {
	input         Expression
	operator      string
	interpolation Interpolation
	stops
	typed
}

func parseInterpolation(v any, ctx *ParsingContext) (Interpolation, bool) {
	spec, ok := v.([]any)
	if !ok || len(spec) == 0 {
		ctx.fail("Expected an interpolation type expression.", 1)

		return Interpolation{}, false
	}

	switch spec[0] {
	case "linear":
		return Interpolation{Kind: Linear}, true

	case "exponential":
		var base any
		if len(spec) > 1 {
			base = spec[1]
		}

		b, ok := base.(float64)
		if !ok {
			ctx.fail("Exponential interpolation requires a numeric base.", 1, 1)

			return Interpolation{}, false
		}

		return Interpolation{Kind: Exponential, Base: b}, true

	case "cubic-bezier":
		ip := Interpolation{Kind: CubicBezier}
		valid := len(spec) == 5

		for i := 1; valid && i < 5; i++ {
			f, ok := spec[i].(float64)
			valid = ok && f >= 0 && f <= 1
			ip.ControlPoints[i-1] = f
		}

		if !valid {
			ctx.fail("Cubic bezier interpolation requires four numeric arguments with values between 0 and 1.", 1)

			return Interpolation{}, false
		}

		return ip, true
	}

	ctx.fail("Unknown interpolation type "+primitiveString(spec[0]), 1, 0)

	return Interpolation{}, false
}

var interpolatableTypes = []Type{
	NumberType,
	ProjectionDefinitionType,
	ColorType,
	PaddingType,
	VariableAnchorOffsetType,
	Array(NumberType),
}

func parseInterpolate(args []any, ctx *ParsingContext) Expression {
	op := args[0].(string)

	var spec any
	if len(args) > 1 {
		spec = args[1]
	}

	ip, ok := parseInterpolation(spec, ctx)
	if !ok {
		return nil
	}

	if len(args)-1 < 4 {
		return ctx.fail("Expected at least 4 arguments, but found only " + strconv.Itoa(len(args)-1) + ".")
	}

	if (len(args)-1)%2 != 0 {
		return ctx.fail("Expected an even number of arguments.")
	}

	input := ctx.parseArg(args[2], 2, expect(NumberType))
	if input == nil {
		return nil
	}

	var outputType *Type

	switch {
	case op == "interpolate-hcl" || op == "interpolate-lab":
		outputType = expect(ColorType)
	case ctx.expected != nil && ctx.expected.Kind != KindValue:
		outputType = ctx.expected
	}

	s, outputType, ok := parseStops(ctx, "interpolate", args, 3, false, outputType)
	if !ok {
		return nil
	}

	interpolatable := false
	for _, t := range interpolatableTypes {
		interpolatable = interpolatable || verifyType(*outputType, t)
	}

	if !interpolatable {
		return ctx.fail("Type " + outputType.String() + " is not interpolatable.")
	}

	return &Interpolate{
		typed:         typed{*outputType},
		operator:      op,
		interpolation: ip,
		input:         input,
		stops:         s,
	}
}

// Interpolation returns the curve between stops.
func (e *Interpolate) Interpolation() Interpolation { return e.interpolation }

// Labels returns the stop inputs.
func (e *Interpolate) Labels() []float64 { return e.labels }

func (e *Interpolate) Evaluate(ctx *EvaluationContext) (any, error) {
	if len(e.labels) == 1 {
		return e.outputs[0].Evaluate(ctx)
	}

	v, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	value := asNumber(v)

	i, exact, err := e.locate(value)
	if err != nil {
		return nil, err
	}

	if exact {
		return e.outputs[i].Evaluate(ctx)
	}

	t := e.interpolation.Factor(value, e.labels[i], e.labels[i+1])

	lower, err := e.outputs[i].Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	upper, err := e.outputs[i+1].Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	switch e.operator {
	case "interpolate-hcl":
		return interpolateColors(lower, upper, t, color.SpaceHCL)
	case "interpolate-lab":
		return interpolateColors(lower, upper, t, color.SpaceLAB)
	}

	return interpolateValues(e.typ.Kind, lower, upper, t)
}

// interpolateValues blends two values of an interpolatable kind.
func interpolateValues(kind Kind, lower, upper any, t float64) (any, error) {
	switch kind {
	case KindNumber:
		return num.Lerp(asNumber(lower), asNumber(upper), t), nil
	case KindColor:
		return interpolateColors(lower, upper, t, color.SpaceRGB)
	case KindPadding:
		a, aok := lower.(*Padding)
		b, bok := upper.(*Padding)

		if aok && bok {
			return InterpolatePadding(a, b, t), nil
		}
	case KindVariableAnchorOffset:
		a, aok := lower.(*VariableAnchorOffsetCollection)
		b, bok := upper.(*VariableAnchorOffsetCollection)

		if aok && bok {
			return InterpolateVariableAnchorOffset(a, b, t)
		}
	case KindProjectionDefinition:
		a, aok := lower.(*ProjectionDefinition)
		b, bok := upper.(*ProjectionDefinition)

		if aok && bok {
			return InterpolateProjection(a, b, t), nil
		}
	case KindArray:
		a, aok := lower.([]any)
		b, bok := upper.([]any)

		if aok && bok && len(a) == len(b) {
			out := make([]any, len(a))
			for i := range a {
				out[i] = num.Lerp(asNumber(a[i]), asNumber(b[i]), t)
			}

			return out, nil
		}
	}

	return nil, NewRuntimeError("Cannot interpolate between " + ValueToString(lower) +
		" and " + ValueToString(upper) + ".")
}

func interpolateColors(lower, upper any, t float64, space color.Space) (any, error) {
	a, aok := lower.(*color.Color)
	b, bok := upper.(*color.Color)

	if !aok || !bok {
		return nil, NewRuntimeError("Cannot interpolate between " + ValueToString(lower) +
			" and " + ValueToString(upper) + ".")
	}

	return color.Interpolate(a, b, t, space), nil
}

func (e *Interpolate) Children() []Expression {
	return append([]Expression{e.input}, e.outputs...)
}

func (e *Interpolate) OutputDefined() bool { return allOutputDefined(e.outputs...) }
