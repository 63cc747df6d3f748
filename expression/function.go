package expression

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/log"
	"github.com/ardnew/windstyle/metrics"
	"github.com/ardnew/windstyle/pkg/num"
)

// Legacy stop function types.
const (
	FunctionExponential = "exponential"
	FunctionInterval    = "interval"
	FunctionCategorical = "categorical"
	FunctionIdentity    = "identity"
)

type stop struct {
	input  any
	output any
}

// stopFunction maps one input, either zoom or a feature property, through
// a list of stops.
type stopFunction struct {
	spec     *PropertySpec
	def      any
	hashed   map[string]any
	typ      string
	property string
	keyType  string
	space    color.Space
	stops    []stop
	labels   []float64
	base     float64
}

// fallback returns the function default, or the property default when the
// function has none.
func (f *stopFunction) fallback() any {
	if f.def != nil {
		return f.def
	}

	return f.spec.DefaultValue()
}

func (f *stopFunction) evaluate(input any) (any, error) {
	switch f.typ {
	case FunctionCategorical:
		if nativeType(input) == f.keyType {
			if v, ok := f.hashed[primitiveString(input)]; ok && v != nil {
				return v, nil
			}
		}

		return f.fallback(), nil

	case FunctionIdentity:
		if v := f.identity(input); v != nil {
			return v, nil
		}

		return f.fallback(), nil
	}

	x, ok := input.(float64)
	if !ok {
		return f.fallback(), nil
	}

	n := len(f.stops)

	switch {
	case n == 1 || x <= f.labels[0]:
		return f.stops[0].output, nil
	case x >= f.labels[n-1]:
		return f.stops[n-1].output, nil
	}

	i, err := findStop(f.labels, x)
	if err != nil {
		return nil, err
	}

	if f.typ == FunctionInterval {
		return f.stops[i].output, nil
	}

	t := exponentialFactor(x, f.base, f.labels[i], f.labels[i+1])

	return interpolateStops(f.spec.Type, f.stops[i].output, f.stops[i+1].output, t, f.space)
}

// identity converts a property value into the type of the property, or
// returns nil if it cannot.
func (f *stopFunction) identity(input any) any {
	switch f.spec.Type {
	case "color":
		if s, ok := input.(string); ok {
			if c, ok := color.Parse(s); ok {
				return c
			}
		}
	case "formatted":
		if input != nil {
			return FormattedFromString(ValueToString(input))
		}
	case "resolvedImage":
		if input != nil {
			if img, ok := ResolvedImageFromString(ValueToString(input)); ok {
				return img
			}
		}
	case "padding":
		if p, ok := ParsePadding(input); ok {
			return p
		}
	default:
		if input == nil {
			return nil
		}

		if nativeType(input) == f.spec.Type {
			return input
		}

		if s, ok := input.(string); ok && f.spec.Type == "enum" && slices.Contains(f.spec.Values, s) {
			return input
		}
	}

	return nil
}

// evaluateFeature evaluates the function on the feature property it reads.
func (f *stopFunction) evaluateFeature(in *EvaluationContext) (any, error) {
	v, ok := in.Properties()[f.property]
	if !ok {
		return f.fallback(), nil
	}

	return f.evaluate(v)
}

// interpolateStops blends two stop outputs according to the type of the
// property. Types that do not interpolate keep the lower output.
func interpolateStops(specType string, lower, upper any, t float64, space color.Space) (any, error) {
	switch specType {
	case "color":
		a, aok := lower.(*color.Color)
		b, bok := upper.(*color.Color)

		if aok && bok {
			return color.Interpolate(a, b, t, space), nil
		}
	case "number":
		a, aok := lower.(float64)
		b, bok := upper.(float64)

		if aok && bok {
			return num.Lerp(a, b, t), nil
		}
	case "padding":
		return interpolateValues(KindPadding, lower, upper, t)
	case "variableAnchorOffsetCollection":
		return interpolateValues(KindVariableAnchorOffset, lower, upper, t)
	case "array":
		return interpolateValues(KindArray, lower, upper, t)
	}

	return lower, nil
}

// LegacyFunction is a property value written as a stop function object.
type LegacyFunction struct {
	fn            *stopFunction
	interpolation *Interpolation
	logger        log.Logger
	warned        warnings
	inner         []*stopFunction
	zoomStops     []float64
	base          float64
	kind          PropertyKind
}

// CreateFunction builds a property value from the legacy function object
// params, such as {"stops": [[0, "red"], [10, "blue"]]}.
//
// Stop inputs that are objects with "zoom" and "value" members make a
// composite function; a "property" member makes a source function; and a
// function with neither is a camera function of zoom.
func CreateFunction(params map[string]any, spec *PropertySpec, opts ...Option) (*LegacyFunction, error) {
	o := applyOptions(opts...)

	if spec == nil {
		spec = &PropertySpec{}
	}

	typ, _ := params["type"].(string)
	if typ == "" {
		typ = FunctionInterval
		if spec.supportsInterpolation() {
			typ = FunctionExponential
		}
	}

	switch typ {
	case FunctionExponential, FunctionInterval, FunctionCategorical, FunctionIdentity:
	default:
		return nil, ErrUnknownFunctionType.Wrap(NewError(strconv.Quote(typ)))
	}

	var space color.Space

	if cs, ok := params["colorSpace"]; ok && cs != nil {
		s, _ := cs.(string)
		space = color.Space(s)

		if !space.Valid() {
			return nil, ErrUnknownColorSpace.Wrap(NewError(strconv.Quote(primitiveString(cs))))
		}
	}

	stops, err := readStops(params["stops"], typ)
	if err != nil {
		return nil, err
	}

	base := 1.0
	if b, ok := params["base"].(float64); ok {
		base = b
	}

	def := params["default"]

	if spec.Type == "color" || spec.Type == "padding" {
		parse := parseStopOutput(spec.Type)

		for i := range stops {
			stops[i].output = parse(stops[i].output)
		}

		if def == nil {
			def = spec.Default
		}

		def = parse(def)
	}

	property, hasProperty := params["property"].(string)
	_, zoomAndFeature := firstInput(stops).(map[string]any)

	lf := &LegacyFunction{logger: o.logger, base: base}

	newFn := func(stops []stop) (*stopFunction, error) {
		return newStopFunction(spec, typ, property, def, space, base, stops)
	}

	switch {
	case zoomAndFeature:
		lf.kind = PropertyComposite
		lf.interpolation = &Interpolation{Kind: Linear}

		groups, err := groupByZoom(stops)
		if err != nil {
			return nil, err
		}

		for _, g := range groups {
			fn, err := newFn(g.stops)
			if err != nil {
				return nil, err
			}

			lf.zoomStops = append(lf.zoomStops, g.zoom)
			lf.inner = append(lf.inner, fn)
		}

		// The first zoom's function supplies the spec, color space, and
		// fallback shared by all of them.
		lf.fn = lf.inner[0]

	case hasProperty:
		lf.kind = PropertySource

		if lf.fn, err = newFn(stops); err != nil {
			return nil, err
		}

	default:
		lf.kind = PropertyCamera

		if typ == FunctionExponential {
			lf.interpolation = &Interpolation{Kind: Exponential, Base: base}
		}

		if lf.fn, err = newFn(stops); err != nil {
			return nil, err
		}

		lf.zoomStops = make([]float64, len(stops))
		for i, s := range stops {
			lf.zoomStops[i], _ = s.input.(float64)
		}
	}

	return lf, nil
}

func firstInput(stops []stop) any {
	if len(stops) == 0 {
		return nil
	}

	return stops[0].input
}

func readStops(raw any, typ string) ([]stop, error) {
	if raw == nil {
		if typ == FunctionIdentity {
			return nil, nil
		}

		return nil, ErrSpec.Wrap(NewError("function has no stops"))
	}

	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, ErrSpec.Wrap(NewError("stops must be a non-empty array"))
	}

	stops := make([]stop, len(list))

	for i, s := range list {
		pair, ok := s.([]any)
		if !ok || len(pair) != 2 {
			return nil, ErrSpec.Wrap(NewError("stop must be an [input, output] pair")).
				With(slog.Int("stop", i))
		}

		stops[i] = stop{input: pair[0], output: pair[1]}
	}

	return stops, nil
}

func parseStopOutput(specType string) func(any) any {
	return func(v any) any {
		switch specType {
		case "color":
			if s, ok := v.(string); ok {
				if c, ok := color.Parse(s); ok {
					return c
				}
			}

			if c, ok := v.(*color.Color); ok {
				return c
			}
		case "padding":
			if p, ok := ParsePadding(v); ok {
				return p
			}
		}

		return nil
	}
}

type zoomGroup struct {
	stops []stop
	zoom  float64
}

// groupByZoom splits composite stops {zoom, value} into per-zoom lists of
// property stops, in order of first appearance.
func groupByZoom(stops []stop) ([]zoomGroup, error) {
	var groups []zoomGroup

	index := map[float64]int{}

	for i, s := range stops {
		in, _ := s.input.(map[string]any)

		zoom, ok := in["zoom"].(float64)
		if !ok {
			return nil, ErrSpec.Wrap(NewError("composite stop has no numeric zoom")).
				With(slog.Int("stop", i))
		}

		g, seen := index[zoom]
		if !seen {
			g = len(groups)
			index[zoom] = g
			groups = append(groups, zoomGroup{zoom: zoom})
		}

		groups[g].stops = append(groups[g].stops, stop{input: in["value"], output: s.output})
	}

	return groups, nil
}

func newStopFunction(
	spec *PropertySpec,
	typ, property string,
	def any,
	space color.Space,
	base float64,
	stops []stop,
) (*stopFunction, error) {
	f := &stopFunction{
		spec:     spec,
		def:      def,
		typ:      typ,
		property: property,
		space:    space,
		stops:    stops,
		base:     base,
	}

	switch typ {
	case FunctionCategorical:
		f.hashed = make(map[string]any, len(stops))
		for _, s := range stops {
			f.hashed[primitiveString(s.input)] = s.output
		}

		f.keyType = nativeType(stops[0].input)

	case FunctionExponential, FunctionInterval:
		f.labels = make([]float64, len(stops))

		for i, s := range stops {
			label, ok := s.input.(float64)
			if !ok {
				return nil, ErrSpec.Wrap(NewError("stop input must be a number")).
					With(slog.Int("stop", i))
			}

			f.labels[i] = label
		}
	}

	return f, nil
}

func (l *LegacyFunction) Kind() PropertyKind { return l.kind }

func (l *LegacyFunction) ZoomStops() []float64 { return l.zoomStops }

func (l *LegacyFunction) Interpolation() *Interpolation { return l.interpolation }

func (l *LegacyFunction) InterpolationFactor(input, lower, upper float64) float64 {
	if l.interpolation == nil {
		return 0
	}

	return l.interpolation.Factor(input, lower, upper)
}

func (l *LegacyFunction) IsStateDependent() bool { return false }

// EvaluateWithoutErrorHandling evaluates the function for in.
func (l *LegacyFunction) EvaluateWithoutErrorHandling(in EvaluationContext) (any, error) {
	switch l.kind {
	case PropertySource:
		return l.fn.evaluateFeature(&in)
	case PropertyCamera:
		if in.Globals == nil {
			return l.fn.fallback(), nil
		}

		return l.fn.evaluate(in.Globals.Zoom)
	}

	return l.evaluateComposite(&in)
}

func (l *LegacyFunction) evaluateComposite(in *EvaluationContext) (any, error) {
	if in.Globals == nil {
		return l.fn.fallback(), nil
	}

	zoom, z := in.Globals.Zoom, l.zoomStops
	n := len(z)

	switch {
	case n == 1 || zoom <= z[0]:
		return l.inner[0].evaluateFeature(in)
	case zoom >= z[n-1]:
		return l.inner[n-1].evaluateFeature(in)
	}

	i, err := findStop(z, zoom)
	if err != nil {
		return nil, err
	}

	lower, err := l.inner[i].evaluateFeature(in)
	if err != nil {
		return nil, err
	}

	upper, err := l.inner[i+1].evaluateFeature(in)
	if err != nil {
		return nil, err
	}

	if lower == nil || upper == nil {
		return nil, nil
	}

	t := exponentialFactor(zoom, l.base, z[i], z[i+1])

	return interpolateStops(l.fn.spec.Type, lower, upper, t, l.fn.space)
}

// Evaluate evaluates the function for in, returning the property default
// in place of a runtime error. Each distinct error is logged once.
func (l *LegacyFunction) Evaluate(ctx context.Context, in EvaluationContext) any {
	metrics.RecordEvaluation(l.kind.String())

	v, err := l.EvaluateWithoutErrorHandling(in)
	if err != nil {
		metrics.RecordEvaluationError()
		l.warned.log(ctx, l.logger, err, slog.String("function", l.kind.String()))

		return l.fn.spec.DefaultValue()
	}

	return v
}
