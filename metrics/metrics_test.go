package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecord(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		value  func() float64
	}{
		{
			name:   "compile ok",
			record: func() { RecordCompile(true) },
			value:  func() float64 { return testutil.ToFloat64(compiles.WithLabelValues("ok")) },
		},
		{
			name:   "compile error",
			record: func() { RecordCompile(false) },
			value:  func() float64 { return testutil.ToFloat64(compiles.WithLabelValues("error")) },
		},
		{
			name:   "evaluation",
			record: func() { RecordEvaluation("camera") },
			value:  func() float64 { return testutil.ToFloat64(evaluations.WithLabelValues("camera")) },
		},
		{
			name:   "evaluation error",
			record: RecordEvaluationError,
			value:  func() float64 { return testutil.ToFloat64(evaluationErrors) },
		},
		{
			name:   "cache hit",
			record: func() { RecordCacheLookup(true) },
			value:  func() float64 { return testutil.ToFloat64(cacheLookups.WithLabelValues("hit")) },
		},
		{
			name:   "cache miss",
			record: func() { RecordCacheLookup(false) },
			value:  func() float64 { return testutil.ToFloat64(cacheLookups.WithLabelValues("miss")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.value()

			tt.record()
			tt.record()

			if got := tt.value() - before; got != 2 {
				t.Errorf("counter increased by %v, want 2", got)
			}
		})
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordCompile(true)

	path := filepath.Join(t.TempDir(), "windstyle.prom")

	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# TYPE windstyle_compile_total counter",
		`windstyle_compile_total{result="ok"}`,
	} {
		if !strings.Contains(string(buf), want) {
			t.Errorf("textfile is missing %q:\n%s", want, buf)
		}
	}

	if n, err := testutil.GatherAndCount(Registry(), "windstyle_compile_total"); err != nil || n == 0 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}
