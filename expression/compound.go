package expression

import (
	"log/slog"
	"strings"
)

type evalFunc func(ctx *EvaluationContext, args []Expression) (any, error)

// signature is one overload of a builtin. A non-nil rest makes the
// overload variadic over that type, and params is ignored.
type signature struct {
	rest   *Type
	eval   evalFunc
	params []Type
}

func (s signature) String() string {
	if s.rest != nil {
		return "(" + s.rest.String() + "...)"
	}

	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.String()
	}

	return "(" + strings.Join(names, ", ") + ")"
}

func (s signature) param(i int) Type {
	if s.rest != nil {
		return *s.rest
	}

	return s.params[i]
}

// definition is a builtin's result type and overloads, tried in order.
type definition struct {
	overloads []signature
	typ       Type
}

// CompoundExpression applies a builtin function to its arguments.
type CompoundExpression struct {
	eval evalFunc
	Name string
	args []Expression
	typed
}

func parseCompound(args []any, ctx *ParsingContext) Expression {
	op := args[0].(string)

	def, ok := definitions()[op]
	if !ok {
		return ctx.fail(`Unknown expression "`+op+`". If you wanted a literal array, use ["literal", [...]].`, 0)
	}

	var candidates []signature

	for _, sig := range def.overloads {
		if sig.rest != nil || len(sig.params) == len(args)-1 {
			candidates = append(candidates, sig)
		}
	}

	var sigCtx *ParsingContext

	for _, sig := range candidates {
		// Each overload is tried in isolation so that a later match is not
		// polluted by the errors of an earlier attempt.
		sigCtx = ctx.isolated()

		parsed := make([]Expression, 0, len(args)-1)

		for i := 1; i < len(args); i++ {
			p := sigCtx.parseArg(args[i], 1+len(parsed), expect(sig.param(i-1)))
			if p == nil {
				break
			}

			parsed = append(parsed, p)
		}

		if len(parsed) != len(args)-1 {
			continue
		}

		for i, arg := range parsed {
			sigCtx.concat(i+1, nil, nil).checkSubtype(sig.param(i), arg.Type())
		}

		if len(*sigCtx.errors) == 0 {
			ctx.logger.Trace("resolve overload",
				slog.String("key", ctx.key),
				slog.String("operator", op),
				slog.String("signature", sig.String()),
			)

			return &CompoundExpression{
				typed: typed{def.typ},
				Name:  op,
				eval:  sig.eval,
				args:  parsed,
			}
		}
	}

	if len(candidates) == 1 {
		*ctx.errors = append(*ctx.errors, *sigCtx.errors...)

		return nil
	}

	expected := candidates
	if len(expected) == 0 {
		expected = def.overloads
	}

	sigs := make([]string, len(expected))
	for i, sig := range expected {
		sigs[i] = sig.String()
	}

	actual := make([]string, 0, len(args)-1)

	for i := 1; i < len(args); i++ {
		p := ctx.parseArg(args[i], 1+len(actual), nil)
		if p == nil {
			return nil
		}

		actual = append(actual, p.Type().String())
	}

	return ctx.fail("Expected arguments of type " + strings.Join(sigs, " | ") +
		", but found (" + strings.Join(actual, ", ") + ") instead.")
}

func (e *CompoundExpression) Evaluate(ctx *EvaluationContext) (any, error) {
	return e.eval(ctx, e.args)
}

func (e *CompoundExpression) Children() []Expression { return e.args }

func (e *CompoundExpression) OutputDefined() bool { return false }

// Signatures returns the overloads of the builtin op rendered as
// parenthesized parameter lists, or nil if op is not a builtin.
func Signatures(op string) []string {
	def, ok := definitions()[op]
	if !ok {
		return nil
	}

	out := make([]string, len(def.overloads))
	for i, sig := range def.overloads {
		out[i] = sig.String() + " -> " + def.typ.String()
	}

	return out
}
