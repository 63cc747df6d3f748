package expression

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want ParsingErrors
	}{
		{
			name: "empty array",
			src:  `[]`,
			want: ParsingErrors{{
				Message: `Expected an array with at least one element. If you wanted a literal array, use ["literal", []].`,
			}},
		},
		{
			name: "non-string operator",
			src:  `[1, 2]`,
			want: ParsingErrors{{
				Key:     "[0]",
				Message: `Expression name must be a string, but found number instead. If you wanted a literal array, use ["literal", [...]].`,
			}},
		},
		{
			name: "unknown operator",
			src:  `["nope", 1]`,
			want: ParsingErrors{{
				Key:     "[0]",
				Message: `Unknown expression "nope". If you wanted a literal array, use ["literal", [...]].`,
			}},
		},
		{
			name: "bare object",
			src:  `{"a": 1}`,
			want: ParsingErrors{{Message: `Bare objects invalid. Use ["literal", {...}] instead.`}},
		},
		{
			name: "nested bare object",
			src:  `["get", "a", {"b": 1}]`,
			want: ParsingErrors{{Key: "[2]", Message: `Bare objects invalid. Use ["literal", {...}] instead.`}},
		},
		{
			name: "literal arity",
			src:  `["literal", 1, 2]`,
			want: ParsingErrors{{Message: "'literal' expression requires exactly one argument, but found 2 instead."}},
		},
		{
			name: "no matching overload arity",
			src:  `["get", "a", "b", "c"]`,
			want: ParsingErrors{{
				Message: "Expected arguments of type (string) | (string, object), but found (string, string, string) instead.",
			}},
		},
		{
			name: "single overload argument mismatch",
			src:  `["-", "a", 1]`,
			want: ParsingErrors{{Key: "[1]", Message: "Expected number but found string instead."}},
		},
		{
			name: "let arity",
			src:  `["let", "a", 1]`,
			want: ParsingErrors{{Message: "Expected at least 3 arguments, but found 2 instead."}},
		},
		{
			name: "let variable name",
			src:  `["let", "a-b", 1, ["var", "a-b"]]`,
			want: ParsingErrors{{
				Key:     "[1]",
				Message: "Variable names must contain only alphanumeric characters or '_'.",
			}},
		},
		{
			name: "var outside let",
			src:  `["var", "x"]`,
			want: ParsingErrors{{
				Key:     "[1]",
				Message: `Unknown variable "x". Make sure "x" has been bound in an enclosing "let" expression before using it.`,
			}},
		},
		{
			name: "var of other binding",
			src:  `["let", "a", 1, ["var", "b"]]`,
			want: ParsingErrors{{
				Key:     "[3][1]",
				Message: `Unknown variable "b". Make sure "b" has been bound in an enclosing "let" expression before using it.`,
			}},
		},
		{
			name: "var arity",
			src:  `["let", "a", 1, ["var"]]`,
			want: ParsingErrors{{Key: "[3]", Message: "'var' expression requires exactly one string literal argument."}},
		},
		{
			name: "match empty label list",
			src:  `["match", ["get", "k"], [], 1, 0]`,
			want: ParsingErrors{{Key: "[2]", Message: "Expected at least one branch label."}},
		},
		{
			name: "match fractional label",
			src:  `["match", ["get", "k"], 1.5, 1, 0]`,
			want: ParsingErrors{{Key: "[2]", Message: "Numeric branch labels must be integer values."}},
		},
		{
			name: "match boolean label",
			src:  `["match", ["get", "k"], true, 1, 0]`,
			want: ParsingErrors{{Key: "[2]", Message: "Branch labels must be numbers or strings."}},
		},
		{
			name: "match unsafe integer label",
			src:  `["match", ["get", "k"], 9007199254740992, 1, 0]`,
			want: ParsingErrors{{Key: "[2]", Message: "Branch labels must be integers no larger than 9007199254740991."}},
		},
		{
			name: "match duplicate label",
			src:  `["match", ["get", "k"], "a", 1, "a", 2, 0]`,
			want: ParsingErrors{{Key: "[4]", Message: "Branch labels must be unique."}},
		},
		{
			name: "match mixed label types",
			src:  `["match", ["get", "k"], "a", 1, 2, 2, 0]`,
			want: ParsingErrors{{Key: "[4]", Message: "Expected string but found number instead."}},
		},
		{
			name: "match arity",
			src:  `["match", ["get", "k"], "a", 1]`,
			want: ParsingErrors{{Message: "Expected at least 4 arguments, but found only 3."}},
		},
		{
			name: "step arity",
			src:  `["step", ["zoom"], 0, 1]`,
			want: ParsingErrors{{Message: "Expected at least 4 arguments, but found only 3."}},
		},
		{
			name: "step odd arguments",
			src:  `["step", ["zoom"], 0, 1, 1, 2]`,
			want: ParsingErrors{{Message: "Expected an even number of arguments."}},
		},
		{
			name: "step computed label",
			src:  `["step", ["zoom"], 0, ["+", 1, 1], 1]`,
			want: ParsingErrors{{
				Key: "[3]",
				Message: `Input/output pairs for "step" expressions must be defined using literal numeric values ` +
					`(not computed expressions) for the input values.`,
			}},
		},
		{
			name: "step descending labels",
			src:  `["step", ["zoom"], 0, 2, 1, 1, 2]`,
			want: ParsingErrors{{
				Key:     "[5]",
				Message: `Input/output pairs for "step" expressions must be arranged with input values in strictly ascending order.`,
			}},
		},
		{
			name: "interpolate repeated label",
			src:  `["interpolate", ["linear"], ["zoom"], 1, 0, 1, 1]`,
			want: ParsingErrors{{
				Key:     "[5]",
				Message: `Input/output pairs for "interpolate" expressions must be arranged with input values in strictly ascending order.`,
			}},
		},
		{
			name: "interpolate unknown type",
			src:  `["interpolate", ["cosine"], ["zoom"], 0, 0, 1, 1]`,
			want: ParsingErrors{{Key: "[1][0]", Message: "Unknown interpolation type cosine"}},
		},
		{
			name: "interpolate missing base",
			src:  `["interpolate", ["exponential"], ["zoom"], 0, 0, 1, 1]`,
			want: ParsingErrors{{Key: "[1][1]", Message: "Exponential interpolation requires a numeric base."}},
		},
		{
			name: "interpolate strings",
			src:  `["interpolate", ["linear"], ["zoom"], 0, "a", 1, "b"]`,
			want: ParsingErrors{{Message: "Type string is not interpolatable."}},
		},
		{
			name: "case arity",
			src:  `["case", true]`,
			want: ParsingErrors{{Message: "Expected at least 3 arguments, but found only 1."}},
		},
		{
			name: "constant folding failure",
			src:  `["at", 5, ["literal", [1, 2]]]`,
			want: ParsingErrors{{Message: "Array index out of bounds: 5 > 1."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, errs := CreateExpression(wire(t, tt.src), nil, quiet())
			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("CreateExpression(%s) errors mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseExpectedType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		spec *PropertySpec
		want ParsingErrors
	}{
		{
			name: "number for color",
			src:  `["+", 1, 2]`,
			spec: &PropertySpec{Type: "color"},
			want: ParsingErrors{{Message: "Expected color but found number instead."}},
		},
		{
			name: "string coerced to color",
			src:  `["concat", "re", "d"]`,
			spec: &PropertySpec{Type: "color"},
		},
		{
			name: "get asserted to number",
			src:  `["get", "x"]`,
			spec: &PropertySpec{Type: "number"},
		},
		{
			name: "fixed length array",
			src:  `["literal", [1, 2, 3]]`,
			spec: &PropertySpec{Type: "array", Value: "number", Length: 2},
			want: ParsingErrors{{Message: "Expected array<number, 2> but found array<number, 3> instead."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, errs := CreateExpression(wire(t, tt.src), tt.spec, quiet())
			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFoldsConstants(t *testing.T) {
	t.Parallel()

	se := mustCreate(t, `["*", ["+", 1, 2], 4]`, nil)

	lit, ok := se.Expression().(*Literal)
	if !ok {
		t.Fatalf("Expression() = %T, want *Literal", se.Expression())
	}

	if lit.Value != 12.0 {
		t.Errorf("folded value = %v, want 12", lit.Value)
	}

	se = mustCreate(t, `["+", 1, ["get", "x"]]`, nil)
	if _, ok := se.Expression().(*Literal); ok {
		t.Error("feature-dependent expression was folded")
	}
}

func TestParsingErrorString(t *testing.T) {
	t.Parallel()

	errs := ParsingErrors{
		{Message: "first"},
		{Key: "[1][2]", Message: "second"},
	}

	if got, want := errs.Error(), "first, [1][2]: second"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOperators(t *testing.T) {
	t.Parallel()

	ops := Operators()

	if !slices.IsSorted(ops) {
		t.Error("Operators() is not sorted")
	}

	for name := range specialForms {
		if !slices.Contains(ops, name) {
			t.Errorf("Operators() is missing special form %q", name)
		}
	}

	for name := range definitions() {
		if !slices.Contains(ops, name) {
			t.Errorf("Operators() is missing builtin %q", name)
		}
	}

	for _, name := range []string{"interpolate-hcl", "number-format", "within", "to-rgba", "filter-in-large"} {
		if !slices.Contains(ops, name) {
			t.Errorf("Operators() is missing %q", name)
		}
	}
}

func TestSignatures(t *testing.T) {
	t.Parallel()

	want := []string{"(number, number) -> number", "(number) -> number"}
	if diff := cmp.Diff(want, Signatures("-")); diff != "" {
		t.Errorf("Signatures(-) mismatch (-want +got):\n%s", diff)
	}

	if got := Signatures("let"); got != nil {
		t.Errorf("Signatures(let) = %v, want nil", got)
	}
}

func TestIsExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{`["get", "x"]`, true},
		{`["interpolate", ["linear"], ["zoom"], 0, 0, 1, 1]`, true},
		{`["nope"]`, false},
		{`[1, 2]`, false},
		{`[]`, false},
		{`"red"`, false},
		{`{"stops": [[0, 1]]}`, false},
	}

	for _, tt := range tests {
		if got := IsExpression(wire(t, tt.src)); got != tt.want {
			t.Errorf("IsExpression(%s) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
