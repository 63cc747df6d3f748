package ramp

import (
	"log/slog"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/windstyle/expression"
)

// Formula is a compiled expr-lang expression that computes a runtime value,
// such as a feature property, from numeric inputs.
//
// Formulas may read any variables supplied at evaluation time. The ramp
// builder supplies i (the sample index), t (i/255), extent (the wind speed
// range), and zoom.
type Formula struct {
	program *vm.Program
	source  string
}

// Compile compiles source into a Formula.
func Compile(source string) (*Formula, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrFormulaCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &Formula{program: program, source: source}, nil
}

// String returns the source of f.
func (f *Formula) String() string { return f.source }

// Eval runs f with the variables in env and returns its result as a
// runtime value.
func (f *Formula) Eval(env map[string]any) (any, error) {
	result, err := vm.Run(f.program, env)
	if err != nil {
		return nil, ErrFormulaEvaluate.Wrap(err).
			With(slog.String("source", f.source))
	}

	return expression.Normalize(result), nil
}

// Assignment binds the result of a formula to a key, as written
// "key=formula" on the command line.
type Assignment struct {
	Formula *Formula
	Key     string
}

// ParseAssignment parses "key=formula". Only the first '=' separates the
// key, so the formula may itself contain comparisons.
func ParseAssignment(s string) (Assignment, error) {
	key, src, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)

	if !ok || key == "" {
		return Assignment{}, ErrAssignment.With(slog.String("value", s))
	}

	f, err := Compile(src)
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{Key: key, Formula: f}, nil
}

// Assign evaluates each assignment in order and returns the assigned
// values. Each formula reads env and every key assigned before it.
func Assign(env map[string]any, assignments ...Assignment) (map[string]any, error) {
	vars := maps.Clone(env)
	if vars == nil {
		vars = make(map[string]any)
	}

	out := make(map[string]any, len(assignments))

	for _, a := range assignments {
		v, err := a.Formula.Eval(vars)
		if err != nil {
			return nil, err
		}

		out[a.Key] = v
		vars[a.Key] = v
	}

	return out, nil
}
