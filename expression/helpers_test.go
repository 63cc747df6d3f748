package expression

import (
	"io"
	"testing"

	"github.com/ardnew/windstyle/log"
)

// wire decodes src, written in JSON or YAML, into an expression value.
func wire(tb testing.TB, src string) any {
	tb.Helper()

	v, err := Decode([]byte(src))
	if err != nil {
		tb.Fatalf("Decode(%q) error = %v", src, err)
	}

	return v
}

func quiet() Option { return WithLogger(log.Make(io.Discard)) }

// mustCreate parses src with no expected type.
func mustCreate(tb testing.TB, src string, spec *PropertySpec) *StyleExpression {
	tb.Helper()

	se, errs := CreateExpression(wire(tb, src), spec, quiet())
	if errs != nil {
		tb.Fatalf("CreateExpression(%s) errors = %v", src, errs)
	}

	return se
}

func withProperties(props map[string]any) EvaluationContext {
	return EvaluationContext{Feature: &Feature{Properties: props}}
}
