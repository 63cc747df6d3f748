package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/log"
	"github.com/ardnew/windstyle/ramp"
)

// session is the evaluation state shared by every line of a REPL: the
// property spec expressions are typed against, the camera zoom, and the
// formulas of the feature properties.
type session struct {
	lookup   func(string) (*expression.PropertySpec, error)
	spec     *expression.PropertySpec
	logger   log.Logger
	specName string
	props    []ramp.Assignment
	zoom     float64
}

// output is the result of a control command.
type output struct {
	text  string
	clear bool
	quit  bool
}

func newSession(cfg Config) (*session, error) {
	s := &session{
		lookup: cfg.Lookup,
		logger: cfg.Logger,
		zoom:   cfg.Zoom,
	}

	if s.lookup == nil {
		s.lookup = builtinSpec
	}

	if err := s.useSpec(cfg.Spec); err != nil {
		return nil, err
	}

	for _, p := range cfg.Props {
		if err := s.set(p); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func builtinSpec(name string) (*expression.PropertySpec, error) {
	if spec, ok := expression.BuiltinSpecs()[name]; ok {
		return spec, nil
	}

	return nil, expression.ErrSpec.With(slog.String("spec", name))
}

func (s *session) useSpec(name string) error {
	if name == "" {
		name = "particle-color"
	}

	spec, err := s.lookup(name)
	if err != nil {
		return err
	}

	s.spec, s.specName = spec, name

	return nil
}

func (s *session) set(assignment string) error {
	a, err := ramp.ParseAssignment(assignment)
	if err != nil {
		return err
	}

	// Validate against the current properties before keeping it.
	if _, err := ramp.Assign(s.env(), append(slices.Clone(s.props), a)...); err != nil {
		return err
	}

	s.unset(a.Key)
	s.props = append(s.props, a)

	return nil
}

func (s *session) unset(key string) bool {
	n := len(s.props)
	s.props = slices.DeleteFunc(s.props, func(a ramp.Assignment) bool { return a.Key == key })

	return len(s.props) != n
}

func (s *session) env() map[string]any { return map[string]any{"zoom": s.zoom} }

func (s *session) context() (expression.EvaluationContext, error) {
	props, err := ramp.Assign(s.env(), s.props...)
	if err != nil {
		return expression.EvaluationContext{}, err
	}

	return expression.EvaluationContext{
		Globals: &expression.Globals{Zoom: s.zoom},
		Feature: &expression.Feature{Properties: props},
	}, nil
}

// eval evaluates one input line. Expressions report their runtime errors;
// constants and legacy functions evaluate like a property value.
func (s *session) eval(ctx context.Context, input string) (string, error) {
	raw, err := expression.Decode([]byte(input))
	if err != nil {
		return "", err
	}

	in, err := s.context()
	if err != nil {
		return "", err
	}

	opt := expression.WithLogger(s.logger)

	if expression.IsExpression(raw) {
		se, errs := expression.CreateExpression(raw, s.spec, opt)
		if errs != nil {
			return "", expression.ErrParse.Wrap(errs)
		}

		v, err := se.EvaluateWithoutErrorHandling(in)
		if err != nil {
			return "", err
		}

		return render(v), nil
	}

	pe, err := expression.NormalizePropertyExpression(raw, s.spec, opt)
	if err != nil {
		return "", err
	}

	return render(pe.Evaluate(ctx, in)), nil
}

// check validates an edited expression document and returns it as a
// single line of JSON.
func (s *session) check(data []byte) (string, error) {
	raw, err := expression.Decode(data)
	if err != nil {
		return "", err
	}

	opt := expression.WithLogger(s.logger)

	if expression.IsExpression(raw) {
		if _, errs := expression.CreateExpression(raw, s.spec, opt); errs != nil {
			return "", expression.ErrParse.Wrap(errs)
		}
	} else if _, err := expression.NormalizePropertyExpression(raw, s.spec, opt); err != nil {
		return "", err
	}

	line, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}

	return string(line), nil
}

func render(v any) string {
	if v == nil {
		return "null"
	}

	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}

	return expression.ValueToString(v)
}

// command runs one control-mode line.
func (s *session) command(input string) (output, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return output{quit: true}, nil

	case "h", "help":
		return output{text: helpMessage()}, nil

	case "c", "clear":
		return output{clear: true}, nil

	case "spec":
		if arg != "" {
			if err := s.useSpec(arg); err != nil {
				return output{}, err
			}
		}

		return output{text: s.describeSpec()}, nil

	case "zoom":
		if arg != "" {
			z, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return output{}, fmt.Errorf("%w: %q", ErrInvalidNumber, arg)
			}

			s.zoom = z
		}

		return output{text: "zoom " + strconv.FormatFloat(s.zoom, 'g', -1, 64)}, nil

	case "set":
		if arg == "" {
			return output{}, fmt.Errorf("%w: set KEY=FORMULA", ErrMissingArg)
		}

		if err := s.set(arg); err != nil {
			return output{}, err
		}

		return output{text: s.describeProps()}, nil

	case "unset":
		if arg == "" {
			return output{}, fmt.Errorf("%w: unset KEY", ErrMissingArg)
		}

		if !s.unset(arg) {
			return output{}, fmt.Errorf("%w: %s", ErrUnknownProp, arg)
		}

		return output{text: s.describeProps()}, nil

	case "p", "props":
		return output{text: s.describeProps()}, nil
	}

	return output{}, fmt.Errorf("%w: %s", ErrUnknownCmd, name)
}

func (s *session) describeSpec() string {
	spec := s.spec
	line := fmt.Sprintf("%s: %s", s.specName, spec.Type)

	if spec.PropertyType != "" {
		line += ", " + spec.PropertyType
	}

	if spec.Default != nil {
		line += ", default " + render(spec.DefaultValue())
	}

	return line
}

func (s *session) describeProps() string {
	if len(s.props) == 0 {
		return "no properties"
	}

	values, err := ramp.Assign(s.env(), s.props...)
	if err != nil {
		return err.Error()
	}

	var b strings.Builder

	for i, a := range s.props {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%s = %s  # %s", a.Key, a.Formula, render(values[a.Key]))
	}

	return b.String()
}

// propKeys returns the names of the current properties, sorted.
func (s *session) propKeys() []string {
	keys := make(map[string]struct{}, len(s.props))
	for _, a := range s.props {
		keys[a.Key] = struct{}{}
	}

	return slices.Sorted(maps.Keys(keys))
}
