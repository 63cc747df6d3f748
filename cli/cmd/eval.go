package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/log"
)

// Eval evaluates expression documents against a property spec.
type Eval struct {
	Target  target  `embed:""`
	Feature feature `embed:""`

	Expression string `arg:"" help:"Expression document (JSON or YAML); defaults to the --source files" optional:""`
	Output     string `default:"text" enum:"text,json,yaml" help:"Output format"                             short:"o"`
	Watch      bool   `help:"Re-evaluate source files when they change"                                  short:"w"`
}

// document is one expression document and the name of its source.
type document struct {
	name string
	data []byte
}

// documents returns the expression given as an argument, or else every
// source file in order.
func documents(ctx context.Context, arg string) ([]document, error) {
	if arg != "" {
		return []document{{name: "argument", data: []byte(arg)}}, nil
	}

	srcs := sourcesFrom(ctx)
	if len(srcs) == 0 {
		return nil, ErrNoSource
	}

	docs := make([]document, 0, len(srcs))

	for _, src := range srcs {
		data, err := readSource(src)
		if err != nil {
			return nil, err
		}

		docs = append(docs, document{name: src, data: data})
	}

	return docs, nil
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := e.Target.load(ctx)
	if err != nil {
		return err
	}

	in, err := e.Feature.context()
	if err != nil {
		return err
	}

	docs, err := documents(ctx, e.Expression)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, doc := range docs {
		if err := e.evaluate(ctx, w, spec, in, doc); err != nil {
			return err
		}
	}

	if !e.Watch {
		return nil
	}

	files := sourcesFrom(ctx).Files()
	if e.Expression != "" || len(files) == 0 {
		return ErrWatch.Wrap(ErrNoSource)
	}

	return watch(ctx, files, func(path string) error {
		data, err := readSource(path)
		if err != nil {
			return err
		}

		return e.evaluate(ctx, w, spec, in, document{name: path, data: data})
	})
}

func (e *Eval) evaluate(
	ctx context.Context,
	w io.Writer,
	spec *expression.PropertySpec,
	in expression.EvaluationContext,
	doc document,
) error {
	pe, err := expression.Compile(ctx, bytes.NewReader(doc.data), spec)
	if err != nil {
		return expression.WrapError(err).With(slog.String("source", doc.name))
	}

	log.DebugContext(ctx, "evaluating",
		slog.String("source", doc.name),
		slog.String("kind", pe.Kind().String()),
		slog.Float64("zoom", e.Feature.Zoom),
	)

	return writeValue(ctx, w, e.Output, pe.Evaluate(ctx, in))
}

// watch calls fn with the path of each file in paths that is written or
// replaced, until ctx is done. Errors from fn are logged, not returned.
func watch(ctx context.Context, paths []string, fn func(path string) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	// Directories are watched so that files replaced by editors on save
	// keep reporting events.
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		dirs = append(dirs, filepath.Dir(p))
	}

	slices.Sort(dirs)

	for _, dir := range slices.Compact(dirs) {
		if err := w.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	log.InfoContext(ctx, "watching", slog.Int("files", len(paths)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			if !slices.Contains(paths, filepath.Clean(ev.Name)) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			if err := fn(ev.Name); err != nil {
				log.WarnContext(ctx, "evaluation failed",
					slog.String("path", ev.Name),
					slog.Any("error", err),
				)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			return ErrWatch.Wrap(err)
		}
	}
}
