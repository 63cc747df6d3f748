package repl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  callInfo
	}{
		{"operator_name", `["rg`, callInfo{argIndex: -1}},
		{"complete_name", `["rgb"`, callInfo{name: "rgb", argIndex: -1, inCall: true}},
		{"first_argument", `["rgb", 1`, callInfo{name: "rgb", argIndex: 0, inCall: true}},
		{"third_argument", `["rgb", 1, 2, `, callInfo{name: "rgb", argIndex: 2, inCall: true}},
		{"nested_call", `["+", 1, ["get", `, callInfo{name: "get", argIndex: 0, inCall: true}},
		{"closed_nested_call", `["+", ["zoom"], `, callInfo{name: "+", argIndex: 1, inCall: true}},
		{"comma_in_string", `["concat", "a,b", `, callInfo{name: "concat", argIndex: 1, inCall: true}},
		{"bracket_in_string", `["concat", "[", `, callInfo{name: "concat", argIndex: 1, inCall: true}},
		{"escaped_quote", `["concat", "\"[", `, callInfo{name: "concat", argIndex: 1, inCall: true}},
		{"yaml_flow", "[rgb, 1, ", callInfo{name: "rgb", argIndex: 1, inCall: true}},
		{"inside_object", `["literal", {"a": 1, `, callInfo{name: "literal", argIndex: 0, inCall: true}},
		{"unknown_operator", `["nope", 1, `, callInfo{argIndex: -1}},
		{"plain_array", `[1, 2, `, callInfo{argIndex: -1}},
		{"closed", `["rgb", 1, 2, 3]`, callInfo{argIndex: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := detectCall(tt.input, len(tt.input))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(callInfo{})); diff != "" {
				t.Errorf("detectCall(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sig  string
		want overload
	}{
		{"() -> number", overload{result: "number"}},
		{"(string) -> value", overload{result: "value", params: []string{"string"}}},
		{"(number, number) -> number", overload{result: "number", params: []string{"number", "number"}}},
		{"(number...) -> number", overload{result: "number", params: []string{"number"}, variadic: true}},
		{
			"(array<number, 4>, string) -> color",
			overload{result: "color", params: []string{"array<number, 4>", "string"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			t.Parallel()

			got := parseSignature(tt.sig)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(overload{})); diff != "" {
				t.Errorf("parseSignature(%q) mismatch (-want +got):\n%s", tt.sig, diff)
			}
		})
	}
}

func TestSelectOverload(t *testing.T) {
	t.Parallel()

	get := []string{"(string) -> value", "(string, object) -> value"}

	tests := []struct {
		name       string
		signatures []string
		argIndex   int
		want       []string
		ok         bool
	}{
		{"special_form", nil, 0, nil, false},
		{"first_fits", get, 0, []string{"string"}, true},
		{"second_fits", get, 1, []string{"string", "object"}, true},
		{"none_fits", get, 5, []string{"string"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := selectOverload(tt.signatures, tt.argIndex)
			if ok != tt.ok {
				t.Fatalf("selectOverload() ok = %v, want %v", ok, tt.ok)
			}

			if diff := cmp.Diff(tt.want, got.params); diff != "" {
				t.Errorf("selectOverload() params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		op         string
		signatures []string
		argIndex   int
		contains   []string
	}{
		{"special_form", "let", nil, 0, []string{"let"}},
		{
			"fixed", "rgb", []string{"(number, number, number) -> color"}, 1,
			[]string{"rgb", "number", ") -> color"},
		},
		{
			"variadic", "+", []string{"(number...) -> number"}, 3,
			[]string{"+", "number..."},
		},
		{
			"overloads", "get", []string{"(string) -> value", "(string, object) -> value"}, 0,
			[]string{"get", "string", "+1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderSignatureHint(tt.op, tt.signatures, tt.argIndex)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("renderSignatureHint(%q) = %q, missing %q", tt.op, got, want)
				}
			}
		})
	}
}
