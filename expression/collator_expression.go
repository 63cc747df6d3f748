package expression

// CollatorExpression constructs a [Collator] from its options.
type CollatorExpression struct {
	caseSensitive      Expression
	diacriticSensitive Expression
	locale             Expression
	typed
}

func parseCollator(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("Expected one argument.")
	}

	opts, ok := args[1].(map[string]any)
	if !ok {
		return ctx.fail("Collator options argument must be an object.")
	}

	option := func(name string) any {
		if v, ok := opts[name]; ok {
			return v
		}

		return false
	}

	e := &CollatorExpression{typed: typed{CollatorType}}

	if e.caseSensitive = ctx.parseArg(option("case-sensitive"), 1, expect(BooleanType)); e.caseSensitive == nil {
		return nil
	}

	if e.diacriticSensitive = ctx.parseArg(option("diacritic-sensitive"), 1, expect(BooleanType)); e.diacriticSensitive == nil {
		return nil
	}

	if v := opts["locale"]; truthy(v) {
		if e.locale = ctx.parseArg(v, 1, expect(StringType)); e.locale == nil {
			return nil
		}
	}

	return e
}

func (e *CollatorExpression) Evaluate(ctx *EvaluationContext) (any, error) {
	cs, err := e.caseSensitive.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := e.diacriticSensitive.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	var locale string

	if e.locale != nil {
		lv, err := e.locale.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		locale, _ = lv.(string)
	}

	return NewCollator(truthy(cs), truthy(ds), locale), nil
}

func (e *CollatorExpression) Children() []Expression {
	if e.locale == nil {
		return []Expression{e.caseSensitive, e.diacriticSensitive}
	}

	return []Expression{e.caseSensitive, e.diacriticSensitive, e.locale}
}

func (e *CollatorExpression) OutputDefined() bool { return false }
