package expression

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/log"
	"github.com/ardnew/windstyle/metrics"
)

//go:generate go tool stringer --linecomment --type PropertyKind --output propertykind_string.go

// PropertyKind classifies a property expression by what it depends on.
type PropertyKind int

// Property expression kinds.
const (
	PropertyConstant  PropertyKind = iota // constant
	PropertySource                        // source
	PropertyCamera                        // camera
	PropertyComposite                     // composite
)

// Option configures how expressions are built.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets the logger used for trace diagnostics while parsing and
// for runtime warnings. The default logger is used otherwise.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger.Logger == nil {
		o.logger = log.Default()
	}

	return o
}

// StyleExpression is a parsed expression bound to the default value and
// enum members of its property. It is safe for concurrent use.
type StyleExpression struct {
	expression Expression
	def        any
	logger     log.Logger
	source     string
	enum       []string
	warned     warnings
	evaluator  EvaluationContext
	mu         sync.Mutex
}

// CreateExpression parses raw against the expected type of spec. A nil spec
// leaves the result type unconstrained.
func CreateExpression(raw any, spec *PropertySpec, opts ...Option) (*StyleExpression, ParsingErrors) {
	o := applyOptions(opts...)

	var expected *Type
	if spec != nil {
		expected = spec.expectedType()
	}

	ctx := newParsingContext(expected, o.logger)

	// String properties coerce their result rather than asserting it.
	ann := annotateInfer
	if spec != nil && spec.Type == "string" {
		ann = annotateCoerce
	}

	parsed := ctx.parse(raw, ann)
	if parsed == nil {
		return nil, ctx.Errors()
	}

	se := &StyleExpression{
		expression: parsed,
		logger:     o.logger,
		source:     encodeJSON(raw),
	}

	if spec != nil {
		se.def = spec.DefaultValue()

		if spec.Type == "enum" {
			se.enum = spec.Values
		}
	}

	return se, nil
}

// Expression returns the parsed expression tree.
func (s *StyleExpression) Expression() Expression { return s.expression }

// bind loads the per-call inputs into the reused evaluator. The caller
// holds s.mu.
func (s *StyleExpression) bind(in *EvaluationContext) {
	s.evaluator.reset()
	s.evaluator.Globals = in.Globals
	s.evaluator.Feature = in.Feature
	s.evaluator.FeatureState = in.FeatureState
	s.evaluator.Canonical = in.Canonical
	s.evaluator.AvailableImages = in.AvailableImages
	s.evaluator.FormattedSection = in.FormattedSection
}

// EvaluateWithoutErrorHandling evaluates the expression and returns its
// raw result or runtime error.
func (s *StyleExpression) EvaluateWithoutErrorHandling(in EvaluationContext) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bind(&in)

	return s.expression.Evaluate(&s.evaluator)
}

// Evaluate evaluates the expression. A null or NaN result, and any runtime
// error, yields the property default instead. Each distinct error message
// is logged once per expression.
func (s *StyleExpression) Evaluate(ctx context.Context, in EvaluationContext) any {
	v, err := s.EvaluateWithoutErrorHandling(in)
	if err == nil {
		if isMissing(v) {
			return s.def
		}

		if err = s.checkEnum(v); err == nil {
			return v
		}
	}

	metrics.RecordEvaluationError()
	s.warn(ctx, err)

	return s.def
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}

	f, ok := v.(float64)

	return ok && math.IsNaN(f)
}

func (s *StyleExpression) checkEnum(v any) error {
	if s.enum == nil {
		return nil
	}

	if str, ok := v.(string); ok && slices.Contains(s.enum, str) {
		return nil
	}

	quoted := make([]string, len(s.enum))
	for i, e := range s.enum {
		quoted[i] = encodeJSON(e)
	}

	return NewRuntimeError("Expected value to be one of " + strings.Join(quoted, ", ") +
		", but found " + encodeJSON(v) + " instead.")
}

func (s *StyleExpression) warn(ctx context.Context, err error) {
	s.warned.log(ctx, s.logger, err, slog.String("expression", s.source))
}

// warnings logs each distinct runtime error message once.
type warnings struct {
	seen sync.Map
}

func (w *warnings) log(ctx context.Context, logger log.Logger, err error, attrs ...slog.Attr) {
	msg := err.Error()

	if _, seen := w.seen.LoadOrStore(msg, struct{}{}); seen {
		return
	}

	logger.WarnContext(ctx, msg, attrs...)
}

// PropertyExpression is a compiled property value, either an expression
// or a legacy stop function.
type PropertyExpression interface {
	// Kind reports whether the value depends on zoom, on the feature, on
	// both, or on neither.
	Kind() PropertyKind

	// Evaluate returns the value for in, falling back to the property
	// default on failure.
	Evaluate(ctx context.Context, in EvaluationContext) any
	EvaluateWithoutErrorHandling(in EvaluationContext) (any, error)

	// ZoomStops returns the zoom levels of the zoom curve of camera and
	// composite expressions, and nil otherwise.
	ZoomStops() []float64

	// Interpolation returns the curve between zoom stops, or nil when the
	// value steps between them.
	Interpolation() *Interpolation

	// InterpolationFactor returns the progress of zoom input between two
	// zoom stops, or 0 when the value steps between them.
	InterpolationFactor(input, lower, upper float64) float64

	// IsStateDependent reports whether the value reads feature state.
	IsStateDependent() bool
}

// ZoomConstantExpression is a constant or source property expression.
type ZoomConstantExpression struct {
	*StyleExpression
	kind           PropertyKind
	stateDependent bool
}

func newZoomConstant(kind PropertyKind, se *StyleExpression) *ZoomConstantExpression {
	return &ZoomConstantExpression{
		StyleExpression: se,
		kind:            kind,
		stateDependent:  kind != PropertyConstant && !IsStateConstant(se.expression),
	}
}

func (e *ZoomConstantExpression) Kind() PropertyKind { return e.kind }

func (e *ZoomConstantExpression) Evaluate(ctx context.Context, in EvaluationContext) any {
	metrics.RecordEvaluation(e.kind.String())

	return e.StyleExpression.Evaluate(ctx, in)
}

func (e *ZoomConstantExpression) ZoomStops() []float64 { return nil }

func (e *ZoomConstantExpression) Interpolation() *Interpolation { return nil }

func (e *ZoomConstantExpression) InterpolationFactor(_, _, _ float64) float64 { return 0 }

func (e *ZoomConstantExpression) IsStateDependent() bool { return e.stateDependent }

// ZoomDependentExpression is a camera or composite property expression.
type ZoomDependentExpression struct {
	*StyleExpression
	interpolation  *Interpolation
	zoomStops      []float64
	kind           PropertyKind
	stateDependent bool
}

func (e *ZoomDependentExpression) Kind() PropertyKind { return e.kind }

func (e *ZoomDependentExpression) Evaluate(ctx context.Context, in EvaluationContext) any {
	metrics.RecordEvaluation(e.kind.String())

	return e.StyleExpression.Evaluate(ctx, in)
}

func (e *ZoomDependentExpression) ZoomStops() []float64 { return e.zoomStops }

func (e *ZoomDependentExpression) Interpolation() *Interpolation { return e.interpolation }

func (e *ZoomDependentExpression) InterpolationFactor(input, lower, upper float64) float64 {
	if e.interpolation == nil {
		return 0
	}

	return e.interpolation.Factor(input, lower, upper)
}

func (e *ZoomDependentExpression) IsStateDependent() bool { return e.stateDependent }

const zoomCurvePlacement = `"zoom" expression may only be used as input to a top-level "step" or "interpolate" expression.`

// CreatePropertyExpression parses raw as the value of a property described
// by spec and classifies it by its dependencies.
func CreatePropertyExpression(raw any, spec *PropertySpec, opts ...Option) (PropertyExpression, ParsingErrors) {
	pe, errs := createPropertyExpression(raw, spec, opts...)
	metrics.RecordCompile(errs == nil)

	return pe, errs
}

func createPropertyExpression(raw any, spec *PropertySpec, opts ...Option) (PropertyExpression, ParsingErrors) {
	if spec == nil {
		spec = &PropertySpec{}
	}

	se, errs := CreateExpression(raw, spec, opts...)
	if errs != nil {
		return nil, errs
	}

	parsed := se.expression
	fail := func(msg string) (PropertyExpression, ParsingErrors) {
		return nil, ParsingErrors{{Message: msg}}
	}

	featureConstant := IsFeatureConstant(parsed)
	if !featureConstant && !spec.supportsPropertyExpression() {
		return fail("data expressions not supported")
	}

	zoomConstant := IsGlobalPropertyConstant(parsed, "zoom")
	if !zoomConstant && !spec.supportsZoomExpression() {
		return fail("zoom expressions not supported")
	}

	curve, curveErr := findZoomCurve(parsed)

	switch {
	case curveErr != nil:
		return nil, ParsingErrors{*curveErr}
	case curve == nil && !zoomConstant:
		return fail(zoomCurvePlacement)
	}

	interp, isInterpolate := curve.(*Interpolate)
	if isInterpolate && !spec.supportsInterpolation() {
		return fail(`"interpolate" expressions cannot be used with this property`)
	}

	se.logger.Trace("classify expression",
		slog.Bool("feature_constant", featureConstant),
		slog.Bool("zoom_constant", zoomConstant),
		slog.String("expression", se.source),
	)

	if curve == nil {
		if featureConstant {
			return newZoomConstant(PropertyConstant, se), nil
		}

		return newZoomConstant(PropertySource, se), nil
	}

	zd := &ZoomDependentExpression{StyleExpression: se, kind: PropertyComposite}
	if featureConstant {
		zd.kind = PropertyCamera
	}

	switch c := curve.(type) {
	case *Step:
		// The first step output has the implicit label -Inf, which is not
		// a zoom level.
		zd.zoomStops = slices.DeleteFunc(slices.Clone(c.labels), func(z float64) bool {
			return math.IsInf(z, -1)
		})
	case *Interpolate:
		zd.zoomStops = slices.Clone(c.labels)
	}

	if isInterpolate {
		ip := interp.interpolation
		zd.interpolation = &ip
	}

	zd.stateDependent = zd.kind != PropertyCamera && !IsStateConstant(parsed)

	return zd, nil
}

// isZoomInput reports whether e is the ["zoom"] expression.
func isZoomInput(e Expression) bool {
	c, ok := e.(*CompoundExpression)

	return ok && c.Name == "zoom"
}

// findZoomCurve returns the step or interpolate expression whose input is
// ["zoom"], if any. The curve may be wrapped in let or coalesce
// expressions; any other use of zoom is an error.
func findZoomCurve(e Expression) (Expression, *ParsingError) {
	var result Expression

	switch n := e.(type) {
	case *Let:
		r, err := findZoomCurve(n.result)
		if err != nil {
			return nil, err
		}

		result = r
	case *Coalesce:
		for _, arg := range n.args {
			r, err := findZoomCurve(arg)
			if err != nil {
				return nil, err
			}

			if r != nil {
				result = r

				break
			}
		}
	case *Step:
		if isZoomInput(n.input) {
			result = n
		}
	case *Interpolate:
		if isZoomInput(n.input) {
			result = n
		}
	}

	var failure *ParsingError

	for _, child := range e.Children() {
		r, err := findZoomCurve(child)

		switch {
		case err != nil:
			failure = err
		case r == nil:
		case result == nil && failure == nil:
			failure = &ParsingError{Message: zoomCurvePlacement}
		case failure != nil || r != result:
			failure = &ParsingError{
				Message: `Only one zoom-based "step" or "interpolate" subexpression may be used in an expression.`,
			}
		}
	}

	if failure != nil {
		return nil, failure
	}

	return result, nil
}

// IsExpression reports whether v is an array whose first element names a
// known operator.
func IsExpression(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}

	op, ok := arr[0].(string)
	if !ok {
		return false
	}

	_, ok = registry()[op]

	return ok
}

// IsFunction reports whether v is an object, the form of a legacy stop
// function.
func IsFunction(v any) bool {
	_, ok := v.(map[string]any)

	return ok
}

// constantProperty is a property value that is not an expression.
type constantProperty struct {
	value any
}

func (c constantProperty) Kind() PropertyKind { return PropertyConstant }

func (c constantProperty) Evaluate(context.Context, EvaluationContext) any { return c.value }

func (c constantProperty) EvaluateWithoutErrorHandling(EvaluationContext) (any, error) {
	return c.value, nil
}

func (c constantProperty) ZoomStops() []float64 { return nil }

func (c constantProperty) Interpolation() *Interpolation { return nil }

func (c constantProperty) InterpolationFactor(_, _, _ float64) float64 { return 0 }

func (c constantProperty) IsStateDependent() bool { return false }

// NormalizePropertyExpression converts any property value, whether a
// legacy function, an expression, or a constant, into a
// [PropertyExpression].
func NormalizePropertyExpression(value any, spec *PropertySpec, opts ...Option) (PropertyExpression, error) {
	if spec == nil {
		spec = &PropertySpec{}
	}

	switch {
	case IsFunction(value):
		fn, err := CreateFunction(value.(map[string]any), spec, opts...)
		if err != nil {
			return nil, err
		}

		return fn, nil

	case IsExpression(value):
		pe, errs := CreatePropertyExpression(value, spec, opts...)
		if errs != nil {
			return nil, ErrParse.Wrap(errs)
		}

		return pe, nil
	}

	constant := value

	switch spec.Type {
	case "color":
		if s, ok := value.(string); ok {
			constant = nil
			if c, ok := color.Parse(s); ok {
				constant = c
			}
		}
	case "padding":
		switch value.(type) {
		case float64, []any:
			constant = nil
			if p, ok := ParsePadding(value); ok {
				constant = p
			}
		}
	case "variableAnchorOffsetCollection":
		if _, ok := value.([]any); ok {
			constant = nil
			if c, ok := ParseVariableAnchorOffsetCollection(value); ok {
				constant = c
			}
		}
	case "projectionDefinition":
		if _, ok := value.(string); ok {
			constant = nil
			if p, ok := ParseProjectionDefinition(value); ok {
				constant = p
			}
		}
	}

	return constantProperty{value: constant}, nil
}

// IsExpressionFilter reports whether filter is written in expression
// syntax rather than the legacy filter syntax.
func IsExpressionFilter(filter any) bool {
	if _, ok := filter.(bool); ok {
		return true
	}

	arr, ok := filter.([]any)
	if !ok || len(arr) == 0 {
		return false
	}

	isArray := func(i int) bool {
		_, ok := arr[i].([]any)

		return ok
	}

	switch arr[0] {
	case "has":
		return len(arr) >= 2 && arr[1] != "$id" && arr[1] != "$type"

	case "in":
		if len(arr) < 3 {
			return false
		}

		_, isString := arr[1].(string)

		return !isString || isArray(2)

	case "!in", "!has", "none":
		return false

	case "==", "!=", ">", ">=", "<", "<=":
		return len(arr) != 3 || isArray(1) || isArray(2)

	case "any", "all":
		for _, f := range arr[1:] {
			if _, isBool := f.(bool); !isBool && !IsExpressionFilter(f) {
				return false
			}
		}

		return true
	}

	return true
}
