package expression

import "slices"

// ImageExpression resolves an image name against the images available to
// the renderer.
type ImageExpression struct {
	input Expression
	typed
}

func parseImage(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("Expected two arguments.")
	}

	name := ctx.parseArg(args[1], 1, expect(StringType))
	if name == nil {
		return ctx.fail("No image name provided.")
	}

	return &ImageExpression{typed: typed{ResolvedImageType}, input: name}
}

func (e *ImageExpression) Evaluate(ctx *EvaluationContext) (any, error) {
	v, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	name, _ := v.(string)

	img, ok := ResolvedImageFromString(name)
	if !ok {
		return nil, nil
	}

	if ctx.AvailableImages != nil {
		img.Available = slices.Contains(ctx.AvailableImages, name)
	}

	return img, nil
}

func (e *ImageExpression) Children() []Expression { return []Expression{e.input} }

func (e *ImageExpression) OutputDefined() bool { return false }
