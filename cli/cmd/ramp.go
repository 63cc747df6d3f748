package cmd

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/log"
	"github.com/ardnew/windstyle/ramp"
)

// Ramp builds the particle color ramp of a color expression.
type Ramp struct {
	Target target `embed:""`

	Expression string  `arg:"" help:"Color expression document (JSON or YAML); defaults to the first --source file" optional:""`
	Zoom       float64 `help:"Camera zoom level"                                     short:"z"`
	UMin       float64 `help:"Minimum u wind component"                              name:"u-min"`
	UMax       float64 `help:"Maximum u wind component"                              name:"u-max"`
	VMin       float64 `help:"Minimum v wind component"                              name:"v-min"`
	VMax       float64 `help:"Maximum v wind component"                              name:"v-max"`
	Input      string  `help:"Formula of each sample's feature properties (reads i, t, extent, zoom)" placeholder:"FORMULA"`
	Output     string  `default:"json" enum:"json,yaml,rgba,png" help:"Output format" short:"o"`
	File       string  `help:"Write output to a file instead of stdout" short:"f" type:"path"`
}

// Run executes the ramp command.
func (r *Ramp) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	spec, err := r.Target.load(ctx)
	if err != nil {
		return err
	}

	docs, err := documents(ctx, r.Expression)
	if err != nil {
		return err
	}

	pe, err := expression.Compile(ctx, bytes.NewReader(docs[0].data), spec)
	if err != nil {
		return expression.WrapError(err).With(slog.String("source", docs[0].name))
	}

	opts := []ramp.Option{
		ramp.WithZoom(r.Zoom),
		ramp.WithWind(ramp.Wind{UMin: r.UMin, UMax: r.UMax, VMin: r.VMin, VMax: r.VMax}),
	}

	if r.Input != "" {
		f, err := ramp.Compile(r.Input)
		if err != nil {
			return err
		}

		opts = append(opts, ramp.WithInput(f))
	}

	built, err := ramp.Build(ctx, pe, opts...)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "built ramp",
		slog.String("source", docs[0].name),
		slog.String("kind", pe.Kind().String()),
		slog.Int("samples", ramp.Samples),
	)

	w := stdout(ctx)

	if r.File != "" {
		file, err := os.Create(r.File)
		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", r.File))
		}
		defer file.Close()

		w = file
	}

	return r.write(ctx, w, built)
}

func (r *Ramp) write(ctx context.Context, w io.Writer, built *ramp.Ramp) error {
	switch r.Output {
	case "rgba":
		if _, err := w.Write(built.Pix[:]); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	case "png":
		if err := png.Encode(w, built.Image()); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	samples := make([]any, ramp.Samples)

	for i := range samples {
		px := built.At(i)
		samples[i] = []any{float64(px[0]), float64(px[1]), float64(px[2]), float64(px[3])}
	}

	return writeValue(ctx, w, r.Output, map[string]any{
		"width":   float64(ramp.Width),
		"height":  float64(ramp.Height),
		"samples": samples,
	})
}
