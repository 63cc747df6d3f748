package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/windstyle/expression"
)

// ErrInvalidExpression is returned by check when any document fails to
// compile.
var ErrInvalidExpression = NewError("invalid expression")

// Check compiles expression documents and reports how each one depends on
// its inputs.
type Check struct {
	Target target `embed:""`

	Expression string `arg:"" help:"Expression document (JSON or YAML); defaults to the --source files" optional:""`
	Output     string `default:"text" enum:"text,json,yaml" help:"Output format"                             short:"o"`
}

// Report describes a compiled property expression, or the errors that
// prevented it from compiling.
type Report struct {
	Interpolation  *expression.Interpolation
	Source         string
	Kind           string
	Errors         []string
	ZoomStops      []float64
	StateDependent bool
}

// NewReport compiles data against spec and describes the result.
func NewReport(ctx context.Context, name string, data []byte, spec *expression.PropertySpec) Report {
	r := Report{Source: name}

	pe, err := expression.Compile(ctx, bytes.NewReader(data), spec)
	if err != nil {
		r.Errors = errorList(err)

		return r
	}

	r.Kind = pe.Kind().String()
	r.ZoomStops = pe.ZoomStops()
	r.Interpolation = pe.Interpolation()
	r.StateDependent = pe.IsStateDependent()

	return r
}

// errorList splits parsing errors into one entry per error.
func errorList(err error) []string {
	var errs expression.ParsingErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}

	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}

	return out
}

// Value returns r as encodable data.
func (r Report) Value() map[string]any {
	m := map[string]any{"source": r.Source}

	if len(r.Errors) > 0 {
		errs := make([]any, len(r.Errors))
		for i, e := range r.Errors {
			errs[i] = e
		}

		m["errors"] = errs

		return m
	}

	m["kind"] = r.Kind
	m["state_dependent"] = r.StateDependent

	if len(r.ZoomStops) > 0 {
		stops := make([]any, len(r.ZoomStops))
		for i, z := range r.ZoomStops {
			stops[i] = z
		}

		m["zoom_stops"] = stops
	}

	if ip := r.Interpolation; ip != nil {
		m["interpolation"] = interpolationName(ip)
	}

	return m
}

func interpolationName(ip *expression.Interpolation) string {
	switch ip.Kind {
	case expression.Exponential:
		return fmt.Sprintf("%s(%g)", ip.Kind, ip.Base)
	case expression.CubicBezier:
		c := ip.ControlPoints

		return fmt.Sprintf("%s(%g, %g, %g, %g)", ip.Kind, c[0], c[1], c[2], c[3])
	}

	return ip.Kind.String()
}

// String renders r as a single line.
func (r Report) String() string {
	if len(r.Errors) > 0 {
		return r.Source + ": " + strings.Join(r.Errors, "; ")
	}

	part := []string{r.Kind}

	if len(r.ZoomStops) > 0 {
		part = append(part, fmt.Sprintf("zoom stops %v", r.ZoomStops))
	}

	if r.Interpolation != nil {
		part = append(part, interpolationName(r.Interpolation))
	}

	if r.StateDependent {
		part = append(part, "state-dependent")
	}

	return r.Source + ": " + strings.Join(part, ", ")
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := c.Target.load(ctx)
	if err != nil {
		return err
	}

	docs, err := documents(ctx, c.Expression)
	if err != nil {
		return err
	}

	return c.report(ctx, stdout(ctx), spec, docs)
}

func (c *Check) report(
	ctx context.Context,
	w io.Writer,
	spec *expression.PropertySpec,
	docs []document,
) error {
	invalid := 0

	for _, doc := range docs {
		r := NewReport(ctx, doc.name, doc.data, spec)
		if len(r.Errors) > 0 {
			invalid++
		}

		var err error
		if c.Output == formatText {
			err = writeText(w, "%s", r)
		} else {
			err = writeValue(ctx, w, c.Output, r.Value())
		}

		if err != nil {
			return err
		}
	}

	if invalid > 0 {
		return ErrInvalidExpression.With(
			slog.Int("invalid", invalid),
			slog.Int("documents", len(docs)),
		)
	}

	return nil
}
