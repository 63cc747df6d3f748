package expression

// Comparison implements the equality and ordering operators.
//
// Equality is strict: values of different types are never equal. Ordering
// is defined for two strings or two numbers; when either operand is untyped
// at parse time, mismatched operands fail at runtime. An optional collator
// makes string comparisons locale-aware.
type Comparison struct {
	lhs      Expression
	rhs      Expression
	collator Expression
	op       string
	untyped  bool
	typed
}

func isOrderOperator(op string) bool { return op != "==" && op != "!=" }

func isComparableType(op string, t Type) bool {
	switch t.Kind {
	case KindString, KindNumber, KindValue:
		return true
	case KindBoolean, KindNull:
		return !isOrderOperator(op)
	}

	return false
}

func parseComparison(args []any, ctx *ParsingContext) Expression {
	if len(args) != 3 && len(args) != 4 {
		return ctx.fail("Expected two or three arguments.")
	}

	op := args[0].(string)

	lhs := ctx.parseArg(args[1], 1, expect(ValueType))
	if lhs == nil {
		return nil
	}

	if !isComparableType(op, lhs.Type()) {
		return ctx.concat(1, nil, nil).fail(`"` + op + `" comparisons are not supported for type '` +
			lhs.Type().String() + `'.`)
	}

	rhs := ctx.parseArg(args[2], 2, expect(ValueType))
	if rhs == nil {
		return nil
	}

	if !isComparableType(op, rhs.Type()) {
		return ctx.concat(2, nil, nil).fail(`"` + op + `" comparisons are not supported for type '` +
			rhs.Type().String() + `'.`)
	}

	lk, rk := lhs.Type().Kind, rhs.Type().Kind

	if lk != rk && lk != KindValue && rk != KindValue {
		return ctx.fail("Cannot compare types '" + lhs.Type().String() + "' and '" +
			rhs.Type().String() + "'.")
	}

	if isOrderOperator(op) {
		switch {
		case lk == KindValue && rk != KindValue:
			lhs = &Assertion{typed: typed{rhs.Type()}, args: []Expression{lhs}}
		case lk != KindValue && rk == KindValue:
			rhs = &Assertion{typed: typed{lhs.Type()}, args: []Expression{rhs}}
		}
	}

	e := &Comparison{
		typed:   typed{BooleanType},
		op:      op,
		lhs:     lhs,
		rhs:     rhs,
		untyped: lk == KindValue || rk == KindValue,
	}

	if len(args) == 4 {
		if lk != KindString && rk != KindString && lk != KindValue && rk != KindValue {
			return ctx.fail("Cannot use collator to compare non-string types.")
		}

		if e.collator = ctx.parseArg(args[3], 3, expect(CollatorType)); e.collator == nil {
			return nil
		}
	}

	return e
}

func (e *Comparison) Evaluate(ctx *EvaluationContext) (any, error) {
	a, err := e.lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	b, err := e.rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	order := isOrderOperator(e.op)

	if order && e.untyped {
		at, bt := TypeOf(a).Kind, TypeOf(b).Kind
		if at != bt || (at != KindString && at != KindNumber) {
			return nil, NewRuntimeError(`Expected arguments for "` + e.op +
				`" to be (string, string) or (number, number), but found (` +
				at.String() + ", " + bt.String() + ") instead.")
		}
	}

	if e.collator == nil {
		return e.compareBasic(a, b), nil
	}

	if !order && e.untyped {
		_, as := a.(string)
		_, bs := b.(string)

		if !as || !bs {
			return e.compareBasic(a, b), nil
		}
	}

	cv, err := e.collator.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	c, ok := cv.(*Collator)
	if !ok {
		return nil, NewRuntimeError("Expected a collator, but found " + TypeOf(cv).String() + " instead.")
	}

	return e.decide(c.Compare(primitiveString(a), primitiveString(b))), nil
}

func (e *Comparison) compareBasic(a, b any) bool {
	switch e.op {
	case "==":
		return strictEqual(a, b)
	case "!=":
		return !strictEqual(a, b)
	}

	as, aok := a.(string)
	bs, bok := b.(string)

	if aok && bok {
		switch {
		case as < bs:
			return e.decide(-1)
		case as > bs:
			return e.decide(1)
		}

		return e.decide(0)
	}

	x, y := toNumber(a), toNumber(b)

	switch e.op {
	case "<":
		return x < y
	case ">":
		return x > y
	case "<=":
		return x <= y
	}

	return x >= y
}

// decide maps a three-way comparison result to the operator's outcome.
func (e *Comparison) decide(cmp int) bool {
	switch e.op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	}

	return cmp >= 0
}

func (e *Comparison) Children() []Expression {
	if e.collator == nil {
		return []Expression{e.lhs, e.rhs}
	}

	return []Expression{e.lhs, e.rhs, e.collator}
}

func (e *Comparison) OutputDefined() bool { return true }
