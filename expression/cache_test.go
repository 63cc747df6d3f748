package expression

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompile(t *testing.T) {
	specs := BuiltinSpecs()
	src := `["interpolate", ["linear"], ["zoom"], 0, 0.25, 12, 0.5]`

	compile := func(spec *PropertySpec) PropertyExpression {
		t.Helper()

		pe, err := Compile(t.Context(), strings.NewReader(src), spec, quiet())
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}

		return pe
	}

	first := compile(specs["particle-speed"])

	if got := first.Evaluate(t.Context(), EvaluationContext{Globals: &Globals{Zoom: 6}}); got != 0.375 {
		t.Errorf("Evaluate(zoom=6) = %v, want 0.375", got)
	}

	if again := compile(specs["particle-speed"]); again != first {
		t.Error("compiling the same document twice did not reuse the cached expression")
	}

	if other := compile(specs["particle-size"]); other == first {
		t.Error("a different spec reused the cached expression")
	}

	ClearCache()

	if fresh := compile(specs["particle-speed"]); fresh == first {
		t.Error("ClearCache() did not drop the cached expression")
	}
}

// TestCompileEviction is not parallel: it fills the shared cache.
func TestCompileEviction(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	spec := BuiltinSpecs()["particle-speed"]

	compile := func(src string) PropertyExpression {
		t.Helper()

		pe, err := Compile(t.Context(), strings.NewReader(src), spec, quiet())
		if err != nil {
			t.Fatalf("Compile(%s) error = %v", src, err)
		}

		return pe
	}

	filler := func(from, to int) {
		t.Helper()

		for i := from; i < to; i++ {
			compile(strconv.Itoa(i + 1000))
		}
	}

	const src = `["interpolate", ["linear"], ["zoom"], 0, 0.25, 12, 0.5]`

	kept := compile(src)
	filler(0, CacheCapacity-1)

	if again := compile(src); again != kept {
		t.Fatal("expression evicted before the cache was full")
	}

	// The reuse above made it the most recently used entry.
	filler(CacheCapacity-1, CacheCapacity)

	if again := compile(src); again != kept {
		t.Fatal("most recently used expression was evicted")
	}

	filler(CacheCapacity, 2*CacheCapacity)

	if again := compile(src); again == kept {
		t.Error("least recently used expression was not evicted")
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		source, spec string
		other        [2]string
	}{
		{"swapped", "a", "b", [2]string{"b", "a"}},
		{"shifted boundary", "ab", "c", [2]string{"a", "bc"}},
		{"equal halves", "x", "x", [2]string{"y", "y"}},
		{"empty source", "", "ab", [2]string{"ab", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := cacheKey([]byte(tt.source), []byte(tt.spec))
			b := cacheKey([]byte(tt.other[0]), []byte(tt.other[1]))

			if a == b {
				t.Errorf("cacheKey(%q, %q) = cacheKey(%q, %q)", tt.source, tt.spec, tt.other[0], tt.other[1])
			}
		})
	}

	if a, b := cacheKey([]byte("a"), []byte("b")), cacheKey([]byte("a"), []byte("b")); a != b {
		t.Error("cacheKey is not deterministic")
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	spec := BuiltinSpecs()["particle-speed"]

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"malformed document", `["get", `, ErrDecode},
		{"invalid expression", `["get", "speed"]`, ErrParse},
		{"invalid function", `{"type": "cosine", "stops": [[0, 1]]}`, ErrUnknownFunctionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for range 2 {
				_, err := Compile(t.Context(), strings.NewReader(tt.src), spec, quiet())
				if !errors.Is(err, tt.want) {
					t.Fatalf("Compile(%s) error = %v, want %v", tt.src, err, tt.want)
				}
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want any
	}{
		{
			name: "json",
			src:  `["interpolate", ["linear"], ["zoom"], 0, "red", 10, {"a": [1, 2.5]}]`,
			want: []any{
				"interpolate", []any{"linear"}, []any{"zoom"},
				0.0, "red", 10.0, map[string]any{"a": []any{1.0, 2.5}},
			},
		},
		{
			name: "yaml block",
			src:  "- step\n- [zoom]\n- 1\n- 5\n- -2\n",
			want: []any{"step", []any{"zoom"}, 1.0, 5.0, -2.0},
		},
		{
			name: "yaml mapping",
			src:  "stops:\n  - [0, white]\n  - [10, black]\nbase: 1.5\n",
			want: map[string]any{
				"stops": []any{[]any{0.0, "white"}, []any{10.0, "black"}},
				"base":  1.5,
			},
		},
		{
			name: "exponents",
			src:  `[1e20, 1E3, 1.5e-3, -2e2, 1e+2, 1.0, 10]`,
			want: []any{1e20, 1e3, 1.5e-3, -2e2, 1e2, 1.0, 10.0},
		},
		{
			name: "yaml exponents",
			src:  "speed: 2e1\nlabel: '1e3'\nname: \"4E2\"\nid: 1e3x\n",
			want: map[string]any{"speed": 20.0, "label": "1e3", "name": "4E2", "id": "1e3x"},
		},
		{name: "exponent scalar", src: `-25e-1`, want: -2.5},
		{name: "scalar", src: `"red"`, want: "red"},
		{name: "boolean", src: `true`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode([]byte(tt.src))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Decode([]byte(`{"a": [1,`)); !errors.Is(err, ErrDecode) {
		t.Errorf("Decode(malformed) error = %v, want ErrDecode", err)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := map[any]any{
		1:     int32(2),
		"arr": []any{uint8(3), float32(0.5), int64(-4)},
		"obj": map[string]any{"n": uint64(7)},
	}

	want := map[string]any{
		"1":   2.0,
		"arr": []any{3.0, 0.5, -4.0},
		"obj": map[string]any{"n": 7.0},
	}

	if diff := cmp.Diff(want, Normalize(in)); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSpec(t *testing.T) {
	t.Parallel()

	doc := `
type: number
default: 3
minimum: 0
property-type: data-constant
transition: true
expression:
  interpolated: true
  parameters: [zoom]
`

	got, err := LoadSpec(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadSpec() error = %v", err)
	}

	want := &PropertySpec{
		Type:         "number",
		Default:      3.0,
		Minimum:      ptr(0.0),
		PropertyType: DataConstant,
		Transition:   true,
		Expression:   &ExpressionSpec{Interpolated: true, Parameters: []string{"zoom"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSpec() mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadSpec(strings.NewReader("default: 1\n")); !errors.Is(err, ErrSpec) {
		t.Errorf("LoadSpec(no type) error = %v, want ErrSpec", err)
	}
}

func TestBuiltinSpecs(t *testing.T) {
	t.Parallel()

	specs := BuiltinSpecs()

	for _, name := range []string{"particle-color", "particle-speed", "particle-size", "particle-trail"} {
		if specs[name] == nil {
			t.Errorf("BuiltinSpecs() is missing %q", name)
		}
	}

	delete(specs, "particle-color")

	if BuiltinSpecs()["particle-color"] == nil {
		t.Error("deleting from the returned map changed the builtin specs")
	}

	if d := specs["particle-trail"].DefaultValue(); d != 0.005 {
		t.Errorf("particle-trail default = %v, want 0.005", d)
	}
}
