package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/windstyle/expression"
)

// Fmt decodes an expression document and re-encodes it in the chosen format.
type Fmt struct {
	JSON JSON `cmd:"" default:"withargs" help:"Format as JSON (default)."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
}

// JSON formats an expression document as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 prints a single line" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := decodeSource(j.Source)
	if err != nil {
		return err
	}

	data, err := marshalJSON(v, j.Indent)
	if err != nil {
		return err
	}

	if _, err := stdout(ctx).Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// YAML formats an expression document as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 prints flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := decodeSource(y.Source)
	if err != nil {
		return err
	}

	data, err := marshalYAML(ctx, v, y.Indent)
	if err != nil {
		return err
	}

	if _, err := stdout(ctx).Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func decodeSource(path string) (any, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	v, err := expression.Decode(data)
	if err != nil {
		return nil, expression.WrapError(err).With(slog.String("source", path))
	}

	return v, nil
}
