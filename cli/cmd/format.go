package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/windstyle/expression"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// defaultIndent is the indent width of JSON and YAML output.
const defaultIndent = 2

// Plain converts a runtime value into data JSON and YAML encoders accept.
// Colors, images, padding, and the other domain values become their string
// form.
func Plain(v any) any {
	switch v := v.(type) {
	case nil, bool, float64, string:
		return v

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}

		return out
	}

	return expression.ValueToString(v)
}

// Text renders a runtime value for the text output format. Null is
// rendered as "null" so that it is distinguishable from the empty string.
func Text(v any) string {
	if v == nil {
		return "null"
	}

	return expression.ValueToString(v)
}

// writeValue writes v to w in the given output format, followed by a
// newline.
func writeValue(ctx context.Context, w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case formatText:
		data = []byte(Text(v) + "\n")

	case formatJSON:
		data, err = marshalJSON(v, defaultIndent)
		if err != nil {
			return err
		}

	case formatYAML:
		data, err = marshalYAML(ctx, v, defaultIndent)
		if err != nil {
			return err
		}

	default:
		return ErrInvalidFormat.With(slog.String("format", format))
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func marshalJSON(v any, indent int) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Plain(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Plain(v))
	}

	if err != nil {
		return nil, ErrJSONMarshal.Wrap(err)
	}

	return append(data, '\n'), nil
}

func marshalYAML(ctx context.Context, v any, indent int) ([]byte, error) {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, Plain(v), opts...)
	if err != nil {
		return nil, ErrYAMLMarshal.Wrap(err)
	}

	return data, nil
}

// writeText writes a formatted line to w.
func writeText(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format+"\n", args...); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
