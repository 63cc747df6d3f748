package expression

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/geometry"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	props := map[string]any{
		"x":     5.0,
		"name":  "Main Street",
		"kind":  "b",
		"empty": nil,
		"list":  []any{"a", "b", "c"},
	}

	tests := []struct {
		name string
		src  string
		want any
	}{
		{"sum", `["+", 1, 2, ["get", "x"]]`, 8.0},
		{"sum with exponent", `["+", 1e3, 1]`, 1001.0},
		{"difference", `["-", 10, ["get", "x"]]`, 5.0},
		{"negation", `["-", ["get", "x"]]`, -5.0},
		{"product", `["*", 2, ["get", "x"]]`, 10.0},
		{"quotient", `["/", ["get", "x"], 4]`, 1.25},
		{"remainder", `["%", ["get", "x"], 3]`, 2.0},
		{"power", `["^", 2, ["get", "x"]]`, 32.0},
		{"round half up", `["round", 2.5]`, 3.0},
		{"round half away from zero", `["round", -2.5]`, -3.0},
		{"minimum", `["min", 3, ["get", "x"], 1]`, 1.0},
		{"maximum", `["max", 3, ["get", "x"], 1]`, 5.0},
		{"concat", `["concat", "a", 1, true, ["get", "x"]]`, "a1true5"},
		{"upcase", `["upcase", ["get", "name"]]`, "MAIN STREET"},
		{"downcase", `["downcase", ["get", "name"]]`, "main street"},
		{"typeof", `["typeof", ["get", "name"]]`, "string"},
		{"typeof null", `["typeof", ["get", "missing"]]`, "null"},
		{"get missing", `["get", "missing"]`, nil},
		{"get from object", `["get", "a", ["literal", {"a": 7}]]`, 7.0},
		{"has", `["has", "empty"]`, true},
		{"has not", `["has", "missing"]`, false},
		{"to-number", `["to-number", "12.5"]`, 12.5},
		{"to-number fallback", `["to-number", "abc", 3]`, 3.0},
		{"to-string", `["to-string", ["get", "x"]]`, "5"},
		{"to-string null", `["to-string", ["get", "missing"]]`, ""},
		{"to-boolean", `["to-boolean", ["get", "name"]]`, true},
		{"to-boolean zero", `["to-boolean", 0]`, false},
		{"to-rgba", `["to-rgba", "red"]`, []any{255.0, 0.0, 0.0, 1.0}},
		{"not", `["!", ["has", "x"]]`, false},
		{"all", `["all", true, ["==", ["get", "x"], 5], ["has", "name"]]`, true},
		{"any", `["any", false, ["==", ["get", "x"], 4]]`, false},
		{"equal mixed types", `["==", ["get", "x"], "5"]`, false},
		{"not equal", `["!=", ["get", "kind"], "a"]`, true},
		{"less than", `["<", ["get", "x"], 6]`, true},
		{"string order", `[">=", ["get", "kind"], "a"]`, true},
		{"case first", `["case", ["==", ["get", "x"], 5], "five", "other"]`, "five"},
		{"case fallback", `["case", ["==", ["get", "x"], 4], "four", false, "never", "other"]`, "other"},
		{"match single label", `["match", ["get", "kind"], "a", 1, "b", 2, 0]`, 2.0},
		{"match label list", `["match", ["get", "kind"], ["a", "b"], 1, 0]`, 1.0},
		{"match number", `["match", ["get", "x"], 5, "five", "other"]`, "five"},
		{"match fallback", `["match", ["get", "x"], [1, 2], "small", "other"]`, "other"},
		{"match wrong input type", `["match", ["get", "kind"], 1, "one", "other"]`, "other"},
		{"step below first", `["step", ["get", "x"], "low", 10, "high"]`, "low"},
		{"step at label", `["step", ["get", "x"], "a", 5, "b", 10, "c"]`, "b"},
		{"step between labels", `["step", ["get", "x"], "a", 1, "b", 4, "c", 7, "d"]`, "c"},
		{"step above last", `["step", ["get", "x"], "a", 1, "b"]`, "b"},
		{"linear", `["interpolate", ["linear"], ["get", "x"], 0, 0, 10, 100]`, 50.0},
		{"linear clamps low", `["interpolate", ["linear"], ["get", "x"], 6, 0, 10, 100]`, 0.0},
		{"linear clamps high", `["interpolate", ["linear"], ["get", "x"], 0, 0, 2, 100]`, 100.0},
		{"exponential", `["interpolate", ["exponential", 2], ["get", "x"], 0, 0, 10, 1023]`, 31.0},
		{"bezier identity", `["interpolate", ["cubic-bezier", 0, 0, 1, 1], ["get", "x"], 0, 0, 10, 100]`, 50.0},
		{
			"interpolate arrays",
			`["interpolate", ["linear"], ["get", "x"], 0, ["literal", [0, 10]], 10, ["literal", [10, 30]]]`,
			[]any{5.0, 20.0},
		},
		{"let", `["let", "y", ["*", ["get", "x"], 2], ["+", ["var", "y"], 1]]`, 11.0},
		{"nested let shadows", `["let", "a", 1, ["let", "a", 2, ["var", "a"]]]`, 2.0},
		{"coalesce", `["coalesce", ["get", "missing"], ["get", "empty"], ["get", "name"]]`, "Main Street"},
		{"coalesce all null", `["coalesce", ["get", "missing"], ["get", "empty"]]`, nil},
		{"at", `["at", 1, ["get", "list"]]`, "b"},
		{"in string", `["in", "Main", ["get", "name"]]`, true},
		{"in array", `["in", "d", ["get", "list"]]`, false},
		{"index-of", `["index-of", "Street", ["get", "name"]]`, 5.0},
		{"index-of from", `["index-of", "b", ["get", "list"], 2]`, -1.0},
		{"index-of code points", `["index-of", "é", "café au lait"]`, 3.0},
		{"slice string", `["slice", ["get", "name"], 0, 4]`, "Main"},
		{"slice negative", `["slice", ["get", "name"], -6]`, "Street"},
		{"slice array", `["slice", ["get", "list"], 1]`, []any{"b", "c"}},
		{"length string", `["length", "café"]`, 4.0},
		{"length array", `["length", ["get", "list"]]`, 3.0},
		{
			"case-insensitive collator",
			`["==", "a", ["get", "kind"], ["collator", {"case-sensitive": false}]]`,
			false,
		},
		{
			"collator ignores case",
			`["==", "B", ["get", "kind"], ["collator", {"case-sensitive": false}]]`,
			true,
		},
		{
			"collator observes case",
			`["==", "B", ["get", "kind"], ["collator", {"case-sensitive": true}]]`,
			false,
		},
		{
			"number-format",
			`["number-format", ["get", "x"], {"min-fraction-digits": 2}]`,
			"5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			se := mustCreate(t, tt.src, nil)

			got, err := se.EvaluateWithoutErrorHandling(withProperties(props))
			if err != nil {
				t.Fatalf("EvaluateWithoutErrorHandling() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestEvaluateRuntimeErrors(t *testing.T) {
	t.Parallel()

	props := map[string]any{
		"x":    5.0,
		"s":    "text",
		"list": []any{1.0, 2.0},
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"error", `["error", "boom"]`, "boom"},
		{"assertion", `["number", ["get", "s"]]`, "Expected value to be of type number, but found string instead."},
		{"index past end", `["at", 3, ["get", "list"]]`, "Array index out of bounds: 3 > 1."},
		{"negative index", `["at", -1, ["get", "list"]]`, "Array index out of bounds: -1 < 0."},
		{"fractional index", `["at", 0.5, ["get", "list"]]`, "Array index must be an integer, but found 0.5 instead."},
		{"bad color", `["to-color", ["get", "s"]]`, `Could not parse color from value 'text'`},
		{"rgb range", `["rgb", ["get", "x"], 300, 0]`, "'r', 'g', and 'b' must be between 0 and 255."},
		{"length of number", `["length", ["get", "x"]]`, "Expected value to be of type string or array, but found number instead."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			se := mustCreate(t, tt.src, nil)

			_, err := se.EvaluateWithoutErrorHandling(withProperties(props))
			if err == nil {
				t.Fatalf("EvaluateWithoutErrorHandling(%s) error = nil, want %q", tt.src, tt.want)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestEvaluateGlobals(t *testing.T) {
	t.Parallel()

	se := mustCreate(t, `["interpolate", ["linear"], ["zoom"], 0, 0, 10, ["heatmap-density"]]`, nil)

	got, err := se.EvaluateWithoutErrorHandling(EvaluationContext{
		Globals: &Globals{Zoom: 5, HeatmapDensity: 40.0},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got != 20.0 {
		t.Errorf("result = %v, want 20", got)
	}

	// A missing Globals reads as zoom 0.
	got, err = se.EvaluateWithoutErrorHandling(EvaluationContext{})
	if err != nil {
		t.Fatal(err)
	}

	if got != 0.0 {
		t.Errorf("result without globals = %v, want 0", got)
	}
}

func TestEvaluateFeatureState(t *testing.T) {
	t.Parallel()

	se := mustCreate(t, `["coalesce", ["feature-state", "hover"], false]`, nil)

	got, err := se.EvaluateWithoutErrorHandling(EvaluationContext{
		Feature:      &Feature{},
		FeatureState: map[string]any{"hover": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got != true {
		t.Errorf("hover = %v, want true", got)
	}
}

func TestEvaluateColorInterpolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{`["interpolate", ["linear"], ["get", "t"], 0, "black", 1, "white"]`, "rgba(128,128,128,1)"},
		{`["interpolate", ["linear"], ["get", "t"], 0, "rgba(255,0,0,0)", 1, "rgba(255,0,0,1)"]`, "rgba(255,0,0,0.5)"},
	}

	for _, tt := range tests {
		se := mustCreate(t, tt.src, &PropertySpec{Type: "color"})

		got, err := se.EvaluateWithoutErrorHandling(withProperties(map[string]any{"t": 0.5}))
		if err != nil {
			t.Fatal(err)
		}

		c, ok := got.(*color.Color)
		if !ok {
			t.Fatalf("result = %T, want *color.Color", got)
		}

		if c.String() != tt.want {
			t.Errorf("%s = %s, want %s", tt.src, c, tt.want)
		}
	}
}

func TestEvaluateImages(t *testing.T) {
	t.Parallel()

	se := mustCreate(t, `["coalesce", ["image", "a"], ["image", "b"]]`, nil)

	got, err := se.EvaluateWithoutErrorHandling(EvaluationContext{AvailableImages: []string{"b"}})
	if err != nil {
		t.Fatal(err)
	}

	want := &ResolvedImage{Name: "b", Available: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("available image mismatch (-want +got):\n%s", diff)
	}

	// With neither image available the first one is requested.
	got, err = se.EvaluateWithoutErrorHandling(EvaluationContext{AvailableImages: []string{"c"}})
	if err != nil {
		t.Fatal(err)
	}

	want = &ResolvedImage{Name: "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requested image mismatch (-want +got):\n%s", diff)
	}

	// A trailing argument that is not an image leaves nothing requested.
	se = mustCreate(t, `["coalesce", ["image", "a"], ["get", "nope"]]`, nil)

	got, err = se.EvaluateWithoutErrorHandling(EvaluationContext{
		Feature:         &Feature{Properties: map[string]any{}},
		AvailableImages: []string{"c"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got != nil {
		t.Errorf("trailing null = %#v, want nil", got)
	}
}

func TestInterpolationFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   Interpolation
		in   float64
		want float64
	}{
		{"linear", Interpolation{Kind: Linear}, 2.5, 0.25},
		{"exponential", Interpolation{Kind: Exponential, Base: 2}, 5, 31.0 / 1023},
		{"exponential base one", Interpolation{Kind: Exponential, Base: 1}, 5, 0.5},
		{"symmetric bezier", Interpolation{Kind: CubicBezier, ControlPoints: [4]float64{0.42, 0, 0.58, 1}}, 5, 0.5},
	}

	for _, tt := range tests {
		got := tt.ip.Factor(tt.in, 0, 10)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s: Factor(%v, 0, 10) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}

	if got := (Interpolation{Kind: Linear}).Factor(3, 2, 2); got != 0 {
		t.Errorf("Factor over an empty range = %v, want 0", got)
	}
}

// tilePoints projects longitude/latitude pairs to tile-local points of the
// root tile.
func tilePoints(lngLats ...geometry.Position) []geometry.Point {
	pts := make([]geometry.Point, len(lngLats))
	for i, ll := range lngLats {
		p := geometry.ToTile(ll, geometry.TileID{})
		pts[i] = geometry.Point{X: p[0], Y: p[1]}
	}

	return pts
}

func TestEvaluateWithin(t *testing.T) {
	t.Parallel()

	se := mustCreate(t, `["within", {"type": "Polygon", "coordinates": [[[-10, -10], [10, -10], [10, 10], [-10, 10], [-10, -10]]]}]`, nil)

	root := &geometry.TileID{}

	tests := []struct {
		name string
		ctx  EvaluationContext
		want bool
	}{
		{
			name: "point inside",
			ctx: EvaluationContext{
				Canonical: root,
				Feature: &Feature{
					Type:     geometry.PointType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{0, 0})},
				},
			},
			want: true,
		},
		{
			name: "point outside",
			ctx: EvaluationContext{
				Canonical: root,
				Feature: &Feature{
					Type:     geometry.PointType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{50, 0})},
				},
			},
		},
		{
			name: "line inside",
			ctx: EvaluationContext{
				Canonical: root,
				Feature: &Feature{
					Type:     geometry.LineStringType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{-5, 0}, geometry.Position{5, 0})},
				},
			},
			want: true,
		},
		{
			name: "polygon feature",
			ctx: EvaluationContext{
				Canonical: root,
				Feature: &Feature{
					Type: geometry.PolygonType,
					Geometry: [][]geometry.Point{tilePoints(
						geometry.Position{-1, -1}, geometry.Position{1, -1},
						geometry.Position{1, 1}, geometry.Position{-1, -1},
					)},
				},
			},
		},
		{
			name: "no canonical tile",
			ctx: EvaluationContext{
				Feature: &Feature{
					Type:     geometry.PointType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{0, 0})},
				},
			},
		},
		{
			name: "no geometry",
			ctx: EvaluationContext{
				Canonical: root,
				Feature:   &Feature{Type: geometry.PointType},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := se.EvaluateWithoutErrorHandling(tt.ctx)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("within mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateDistance(t *testing.T) {
	t.Parallel()

	root := &geometry.TileID{}
	square := func(lng, lat float64) [][]geometry.Point {
		return [][]geometry.Point{tilePoints(
			geometry.Position{lng, lat}, geometry.Position{lng + 1, lat},
			geometry.Position{lng + 1, lat + 1}, geometry.Position{lng, lat + 1},
			geometry.Position{lng, lat},
		)}
	}

	far := `["distance", {"type": "Polygon", "coordinates": [[[11, 0], [12, 0], [12, 1], [11, 1], [11, 0]]]}]`
	point := `["distance", {"type": "Point", "coordinates": [1, 0]}]`

	// The gap between the squares runs along longitude, so any latitude in
	// the squares gives nearly the same width.
	gap := geometry.NewRuler(0).Distance(geometry.Position{1, 0.5}, geometry.Position{11, 0.5})
	step := geometry.NewRuler(0).Distance(geometry.Position{0, 0}, geometry.Position{1, 0})

	tests := []struct {
		name string
		src  string
		ctx  EvaluationContext
		want float64
	}{
		{
			name: "disjoint squares",
			src:  far,
			ctx: EvaluationContext{
				Canonical: root,
				Feature:   &Feature{Type: geometry.PolygonType, Geometry: square(0, 0)},
			},
			want: gap,
		},
		{
			name: "overlapping squares",
			src: `["distance", {"type": "Polygon", "coordinates": [[[0.5, 0.5], [1.5, 0.5], [1.5, 1.5], [0.5, 1.5], [0.5, 0.5]]]}]`,
			ctx: EvaluationContext{
				Canonical: root,
				Feature:   &Feature{Type: geometry.PolygonType, Geometry: square(0, 0)},
			},
			want: 0,
		},
		{
			name: "point to point",
			src:  point,
			ctx: EvaluationContext{
				Canonical: root,
				Feature: &Feature{
					Type:     geometry.PointType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{0, 0})},
				},
			},
			want: step,
		},
		{
			name: "no canonical tile",
			src:  point,
			ctx: EvaluationContext{
				Feature: &Feature{
					Type:     geometry.PointType,
					Geometry: [][]geometry.Point{tilePoints(geometry.Position{0, 0})},
				},
			},
			want: math.NaN(),
		},
		{
			name: "no geometry",
			src:  point,
			ctx:  EvaluationContext{Canonical: root, Feature: &Feature{Type: geometry.PointType}},
			want: math.NaN(),
		},
		{
			name: "unknown geometry type",
			src:  point,
			ctx: EvaluationContext{
				Canonical: root,
				Feature:   &Feature{Geometry: [][]geometry.Point{tilePoints(geometry.Position{0, 0})}},
			},
			want: math.NaN(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mustCreate(t, tt.src, nil).EvaluateWithoutErrorHandling(tt.ctx)
			if err != nil {
				t.Fatal(err)
			}

			d, ok := got.(float64)
			if !ok {
				t.Fatalf("result = %T, want float64", got)
			}

			switch {
			case math.IsNaN(tt.want):
				if !math.IsNaN(d) {
					t.Errorf("distance = %v, want NaN", d)
				}
			case tt.want == 0:
				if d != 0 {
					t.Errorf("distance = %v, want 0", d)
				}
			case math.Abs(d-tt.want)/tt.want > 0.01:
				t.Errorf("distance = %v, want about %v", d, tt.want)
			}
		})
	}
}
