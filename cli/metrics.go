package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/windstyle/log"
	"github.com/ardnew/windstyle/metrics"
)

type metricsConfig struct {
	Textfile string `help:"Write compile and evaluation counters to this file on exit (Prometheus text format)." placeholder:"FILE" type:"path"`
}

func (metricsConfig) group() kong.Group {
	return kong.Group{Key: "metrics", Title: "Metrics options"}
}

// start returns a function that writes the metrics textfile, if one is
// configured.
func (f metricsConfig) start(ctx context.Context) (stop func()) {
	if f.Textfile == "" {
		return func() {}
	}

	return func() {
		if err := metrics.WriteTextfile(f.Textfile); err != nil {
			log.WarnContext(ctx, "write metrics",
				slog.String("file", f.Textfile),
				slog.Any("error", err),
			)

			return
		}

		log.DebugContext(ctx, "metrics written", slog.String("file", f.Textfile))
	}
}
