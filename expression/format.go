package expression

import (
	"strings"

	"github.com/ardnew/windstyle/color"
)

type formatSection struct {
	content   Expression
	scale     Expression
	font      Expression
	textColor Expression
}

// FormatExpression builds [Formatted] text from sections of text or images,
// each optionally followed by an object of style overrides.
type FormatExpression struct {
	sections []formatSection
	typed
}

func parseFormat(args []any, ctx *ParsingContext) Expression {
	if len(args) < 2 {
		return ctx.fail("Expected at least one argument.")
	}

	if _, ok := args[1].(map[string]any); ok {
		return ctx.fail("First argument must be an image or text section.")
	}

	var (
		sections   []formatSection
		mayBeStyle bool
	)

	for i := 1; i < len(args); i++ {
		if style, ok := args[i].(map[string]any); ok && mayBeStyle {
			mayBeStyle = false
			last := &sections[len(sections)-1]

			if v := style["font-scale"]; truthy(v) {
				if last.scale = ctx.parseArg(v, 1, expect(NumberType)); last.scale == nil {
					return nil
				}
			}

			if v := style["text-font"]; truthy(v) {
				if last.font = ctx.parseArg(v, 1, expect(Array(StringType))); last.font == nil {
					return nil
				}
			}

			if v := style["text-color"]; truthy(v) {
				if last.textColor = ctx.parseArg(v, 1, expect(ColorType)); last.textColor == nil {
					return nil
				}
			}

			continue
		}

		content := ctx.parseArg(args[i], 1, expect(ValueType))
		if content == nil {
			return nil
		}

		switch content.Type().Kind {
		case KindString, KindValue, KindNull, KindResolvedImage:
		default:
			return ctx.fail("Formatted text type must be 'string', 'value', 'image' or 'null'.")
		}

		mayBeStyle = true

		sections = append(sections, formatSection{content: content})
	}

	return &FormatExpression{typed: typed{FormattedType}, sections: sections}
}

func (e *FormatExpression) Evaluate(ctx *EvaluationContext) (any, error) {
	out := &Formatted{Sections: make([]FormattedSection, 0, len(e.sections))}

	for _, s := range e.sections {
		section, err := s.evaluate(ctx)
		if err != nil {
			return nil, err
		}

		out.Sections = append(out.Sections, section)
	}

	return out, nil
}

func (s formatSection) evaluate(ctx *EvaluationContext) (FormattedSection, error) {
	v, err := s.content.Evaluate(ctx)
	if err != nil {
		return FormattedSection{}, err
	}

	if img, ok := v.(*ResolvedImage); ok {
		return FormattedSection{Image: img}, nil
	}

	section := FormattedSection{Text: ValueToString(v)}

	if s.scale != nil {
		sv, err := s.scale.Evaluate(ctx)
		if err != nil {
			return section, err
		}

		if f, ok := sv.(float64); ok {
			section.Scale = &f
		}
	}

	if s.font != nil {
		fv, err := s.font.Evaluate(ctx)
		if err != nil {
			return section, err
		}

		if fonts, ok := fv.([]any); ok {
			names := make([]string, len(fonts))
			for i, f := range fonts {
				names[i] = ValueToString(f)
			}

			stack := strings.Join(names, ",")
			section.FontStack = &stack
		}
	}

	if s.textColor != nil {
		cv, err := s.textColor.Evaluate(ctx)
		if err != nil {
			return section, err
		}

		if c, ok := cv.(*color.Color); ok {
			section.TextColor = c
		}
	}

	return section, nil
}

func (e *FormatExpression) Children() []Expression {
	var out []Expression

	for _, s := range e.sections {
		out = append(out, s.content)

		for _, opt := range []Expression{s.scale, s.font, s.textColor} {
			if opt != nil {
				out = append(out, opt)
			}
		}
	}

	return out
}

func (e *FormatExpression) OutputDefined() bool { return false }
