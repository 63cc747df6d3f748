package expression

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/log"
)

func mustFunction(tb testing.TB, src string, spec *PropertySpec) *LegacyFunction {
	tb.Helper()

	params, ok := wire(tb, src).(map[string]any)
	if !ok {
		tb.Fatalf("%s is not an object", src)
	}

	fn, err := CreateFunction(params, spec, quiet())
	if err != nil {
		tb.Fatalf("CreateFunction(%s) error = %v", src, err)
	}

	return fn
}

func TestCameraFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"base": 2, "stops": [[0, 0], [10, 1023]]}`, BuiltinSpecs()["particle-size"])

	if fn.Kind() != PropertyCamera {
		t.Errorf("Kind() = %v, want camera", fn.Kind())
	}

	if diff := cmp.Diff([]float64{0, 10}, fn.ZoomStops()); diff != "" {
		t.Errorf("ZoomStops() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(&Interpolation{Kind: Exponential, Base: 2}, fn.Interpolation()); diff != "" {
		t.Errorf("Interpolation() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		zoom float64
		want float64
	}{
		{-3, 0},
		{0, 0},
		{5, 31},
		{10, 1023},
		{12, 1023},
	}

	for _, tt := range tests {
		got := fn.Evaluate(t.Context(), EvaluationContext{Globals: &Globals{Zoom: tt.zoom}})
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("Evaluate(zoom=%v) mismatch (-want +got):\n%s", tt.zoom, diff)
		}
	}
}

func TestIntervalFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"type": "interval", "stops": [[0, "a"], [5, "b"], [10, "c"]]}`,
		&PropertySpec{Type: "string"})

	if fn.Interpolation() != nil {
		t.Errorf("Interpolation() = %v, want nil", fn.Interpolation())
	}

	for zoom, want := range map[float64]string{-1: "a", 4.9: "a", 5: "b", 9: "b", 10: "c", 20: "c"} {
		got := fn.Evaluate(t.Context(), EvaluationContext{Globals: &Globals{Zoom: zoom}})
		if got != want {
			t.Errorf("Evaluate(zoom=%v) = %v, want %v", zoom, got, want)
		}
	}
}

func TestCategoricalFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t,
		`{"type": "categorical", "property": "k", "stops": [["a", 1], ["b", 2]], "default": 9}`,
		&PropertySpec{Type: "number", Default: 0.0})

	if fn.Kind() != PropertySource {
		t.Errorf("Kind() = %v, want source", fn.Kind())
	}

	tests := []struct {
		name  string
		props map[string]any
		want  any
	}{
		{"first", map[string]any{"k": "a"}, 1.0},
		{"second", map[string]any{"k": "b"}, 2.0},
		{"unmatched", map[string]any{"k": "z"}, 9.0},
		{"other type", map[string]any{"k": 1.0}, 9.0},
		{"missing", map[string]any{}, 9.0},
	}

	for _, tt := range tests {
		if got := fn.Evaluate(t.Context(), withProperties(tt.props)); got != tt.want {
			t.Errorf("%s: Evaluate() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIdentityFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"type": "identity", "property": "c"}`, BuiltinSpecs()["particle-color"])

	tests := []struct {
		name  string
		value any
		want  *color.Color
	}{
		{"color", "red", color.Red},
		{"not a color", 5.0, color.White},
		{"unparsable", "nope", color.White},
	}

	for _, tt := range tests {
		got := fn.Evaluate(t.Context(), withProperties(map[string]any{"c": tt.value}))

		c, ok := got.(*color.Color)
		if !ok {
			t.Fatalf("%s: Evaluate() = %T, want *color.Color", tt.name, got)
		}

		if c.String() != tt.want.String() {
			t.Errorf("%s: Evaluate() = %s, want %s", tt.name, c, tt.want)
		}
	}
}

func TestCompositeFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"property": "v", "stops": [`+
		`[{"zoom": 0, "value": 0}, 0], [{"zoom": 0, "value": 10}, 10], `+
		`[{"zoom": 10, "value": 0}, 0], [{"zoom": 10, "value": 10}, 100]]}`,
		BuiltinSpecs()["particle-size"])

	if fn.Kind() != PropertyComposite {
		t.Errorf("Kind() = %v, want composite", fn.Kind())
	}

	if diff := cmp.Diff([]float64{0, 10}, fn.ZoomStops()); diff != "" {
		t.Errorf("ZoomStops() mismatch (-want +got):\n%s", diff)
	}

	if got := fn.InterpolationFactor(5, 0, 10); got != 0.5 {
		t.Errorf("InterpolationFactor(5, 0, 10) = %v, want 0.5", got)
	}

	tests := []struct {
		zoom, v float64
		want    float64
	}{
		{0, 5, 5},
		{10, 5, 50},
		{5, 5, 27.5},
		{5, 10, 55},
		{15, 2, 20},
	}

	for _, tt := range tests {
		got := fn.Evaluate(t.Context(), EvaluationContext{
			Globals: &Globals{Zoom: tt.zoom},
			Feature: &Feature{Properties: map[string]any{"v": tt.v}},
		})
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("Evaluate(zoom=%v, v=%v) mismatch (-want +got):\n%s", tt.zoom, tt.v, diff)
		}
	}
}

func TestColorFunction(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"stops": [[0, "black"], [10, "white"]]}`, BuiltinSpecs()["particle-color"])

	got := fn.Evaluate(t.Context(), EvaluationContext{Globals: &Globals{Zoom: 5}})

	c, ok := got.(*color.Color)
	if !ok {
		t.Fatalf("Evaluate() = %T, want *color.Color", got)
	}

	if want := "rgba(128,128,128,1)"; c.String() != want {
		t.Errorf("Evaluate() = %s, want %s", c, want)
	}
}

func TestFunctionRuntimeError(t *testing.T) {
	t.Parallel()

	fn := mustFunction(t, `{"stops": [[0, 1], [10, 3]]}`, BuiltinSpecs()["particle-size"])

	_, err := fn.EvaluateWithoutErrorHandling(EvaluationContext{Globals: &Globals{Zoom: math.NaN()}})
	if err == nil || err.Error() != "Input is not a number." {
		t.Errorf("EvaluateWithoutErrorHandling(zoom=NaN) error = %v", err)
	}

	if got := fn.Evaluate(t.Context(), EvaluationContext{Globals: &Globals{Zoom: math.NaN()}}); got != 2.0 {
		t.Errorf("Evaluate(zoom=NaN) = %v, want the property default 2", got)
	}
}

func TestFunctionWarnsOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithFormat(log.FormatJSON), log.WithPretty(false))

	params, ok := wire(t, `{"type": "exponential", "property": "v", "stops": [[0, 1], [10, 3]]}`).(map[string]any)
	if !ok {
		t.Fatal("function source is not an object")
	}

	fn, err := CreateFunction(params, BuiltinSpecs()["particle-size"], WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	evaluate := func(v any) any {
		return fn.Evaluate(t.Context(), withProperties(map[string]any{"v": v}))
	}

	if got := evaluate(5.0); got != 2.0 {
		t.Errorf("Evaluate(5) = %v, want 2", got)
	}

	if buf.Len() != 0 {
		t.Fatalf("valid input logged a warning: %s", buf.String())
	}

	for range 3 {
		evaluate(math.NaN())
	}

	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("repeated failure logged %d warnings, want 1:\n%s", n, buf.String())
	}
}

func TestCreateFunctionErrors(t *testing.T) {
	t.Parallel()

	spec := BuiltinSpecs()["particle-size"]

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown type", `{"type": "cosine", "stops": [[0, 1]]}`, ErrUnknownFunctionType},
		{"unknown color space", `{"colorSpace": "hsv", "stops": [[0, 1]]}`, ErrUnknownColorSpace},
		{"no stops", `{"type": "interval"}`, ErrSpec},
		{"empty stops", `{"stops": []}`, ErrSpec},
		{"malformed stop", `{"stops": [[0, 1, 2]]}`, ErrSpec},
		{"non-numeric label", `{"type": "interval", "stops": [["a", 1]]}`, ErrSpec},
		{"composite without zoom", `{"property": "v", "stops": [[{"value": 1}, 1]]}`, ErrSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := CreateFunction(wire(t, tt.src).(map[string]any), spec, quiet())
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateFunction(%s) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}
