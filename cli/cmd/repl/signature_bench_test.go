package repl

import (
	"testing"

	"github.com/ardnew/windstyle/expression"
)

// BenchmarkDetectCall measures call detection at the end of a nested
// expression, which runs on every keystroke.
func BenchmarkDetectCall(b *testing.B) {
	input := `["interpolate", ["linear"], ["zoom"], 0, ["get", "speed"], 10, ["*", ["get", "speed"], `

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = detectCall(input, len(input))
	}
}

// BenchmarkRenderSignatureHint measures hint rendering for operators with
// one and several overloads.
func BenchmarkRenderSignatureHint(b *testing.B) {
	names := []string{"+", "get", "interpolate", "to-color", "number-format"}
	signatures := make([][]string, len(names))

	for i, name := range names {
		signatures[i] = expression.Signatures(name)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(names)
		_ = renderSignatureHint(names[j], signatures[j], 1)
	}
}
