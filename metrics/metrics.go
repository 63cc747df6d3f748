// Package metrics counts expression compilations, evaluations, and cache
// lookups in a private Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ardnew/windstyle/pkg"
)

var registry = prometheus.NewRegistry()

var (
	compiles = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: pkg.Name,
			Name:      "compile_total",
			Help:      "Total number of property expressions compiled",
		},
		[]string{"result"},
	)

	evaluations = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: pkg.Name,
			Name:      "evaluations_total",
			Help:      "Total number of property expression evaluations",
		},
		[]string{"kind"},
	)

	evaluationErrors = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: pkg.Name,
			Name:      "evaluation_errors_total",
			Help:      "Total number of evaluations that fell back to the default value",
		},
	)

	cacheLookups = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: pkg.Name,
			Name:      "cache_lookups_total",
			Help:      "Total number of compiled expression cache lookups",
		},
		[]string{"result"},
	)
)

// Registry returns the registry holding every collector of this package.
func Registry() *prometheus.Registry { return registry }

// RecordCompile records the outcome of compiling one property expression.
func RecordCompile(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}

	compiles.WithLabelValues(result).Inc()
}

// RecordEvaluation records one evaluation of an expression of the given
// kind ("constant", "source", "camera", or "composite").
func RecordEvaluation(kind string) {
	evaluations.WithLabelValues(kind).Inc()
}

// RecordEvaluationError records an evaluation that failed at runtime.
func RecordEvaluationError() { evaluationErrors.Inc() }

// RecordCacheLookup records a compile cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}

	cacheLookups.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current values of every collector to path in
// the text exposition format, replacing the file atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
