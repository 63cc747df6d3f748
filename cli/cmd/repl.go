package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/windstyle/cli/cmd/repl"
	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/log"
)

// Repl starts an interactive expression evaluator.
type Repl struct {
	Target target `embed:""`

	Zoom float64  `help:"Initial camera zoom level"               short:"z"`
	Prop []string `help:"Feature property computed by a formula" placeholder:"KEY=FORMULA" sep:"none" short:"p"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	dirs := specPathFrom(ctx)
	logger := log.Default().With(slog.String("command", "repl"))

	return repl.Run(ctx, repl.Config{
		Lookup: func(name string) (*expression.PropertySpec, error) {
			return LookupSpec(name, dirs)
		},
		Logger:   logger,
		Spec:     r.Target.Spec,
		CacheDir: cacheDir,
		Props:    r.Prop,
		Zoom:     r.Zoom,
	})
}
