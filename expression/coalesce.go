package expression

// Coalesce returns the first argument value that is not null. An image
// that is unavailable counts as null, but if the last argument is an
// unavailable image the first unavailable image is returned so that the
// renderer can request it.
type Coalesce struct {
	args []Expression
	typed
}

func parseCoalesce(args []any, ctx *ParsingContext) Expression {
	if len(args) < 2 {
		return ctx.fail("Expected at least one argument.")
	}

	var outputType *Type
	if ctx.expected != nil && ctx.expected.Kind != KindValue {
		outputType = ctx.expected
	}

	parsed := make([]Expression, 0, len(args)-1)

	for _, arg := range args[1:] {
		// Annotations are omitted so that a null argument does not fail an
		// assertion before the next argument is tried.
		p := ctx.parseArgWith(arg, 1+len(parsed), outputType, nil, annotateOmit)
		if p == nil {
			return nil
		}

		if outputType == nil {
			outputType = expect(p.Type())
		}

		parsed = append(parsed, p)
	}

	if ctx.expected != nil {
		for _, p := range parsed {
			if IsSubtype(*ctx.expected, p.Type()) != "" {
				return &Coalesce{typed: typed{ValueType}, args: parsed}
			}
		}
	}

	return &Coalesce{typed: typed{*outputType}, args: parsed}
}

func (e *Coalesce) Evaluate(ctx *EvaluationContext) (any, error) {
	var requested *ResolvedImage

	for i, arg := range e.args {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		if img, ok := v.(*ResolvedImage); ok && !img.Available {
			if requested == nil {
				requested = img
			}

			// Only an unavailable last argument reports the request.
			if i == len(e.args)-1 {
				return requested, nil
			}

			continue
		}

		if v != nil {
			return v, nil
		}
	}

	return nil, nil
}

func (e *Coalesce) Children() []Expression { return e.args }

func (e *Coalesce) OutputDefined() bool { return allOutputDefined(e.args...) }
