package expression

import "strconv"

// Let binds names to expressions for use by [Var] within its result.
type Let struct {
	result   Expression
	bindings []binding
	typed
}

func parseLet(args []any, ctx *ParsingContext) Expression {
	if len(args) < 4 {
		return ctx.fail("Expected at least 3 arguments, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	var bindings []binding

	for i := 1; i < len(args)-1; i += 2 {
		name, ok := args[i].(string)
		if !ok {
			return ctx.fail("Expected string, but found "+jsTypeof(args[i])+" instead.", i)
		}

		if !variableName.MatchString(name) {
			return ctx.fail("Variable names must contain only alphanumeric characters or '_'.", i)
		}

		value := ctx.parseArg(args[i+1], i+1, nil)
		if value == nil {
			return nil
		}

		bindings = append(bindings, binding{name: name, expr: value})
	}

	last := len(args) - 1

	result := ctx.parseArgWith(args[last], last, ctx.expected, bindings, annotateInfer)
	if result == nil {
		return nil
	}

	return &Let{typed: typed{result.Type()}, bindings: bindings, result: result}
}

func (e *Let) Evaluate(ctx *EvaluationContext) (any, error) { return e.result.Evaluate(ctx) }

func (e *Let) Children() []Expression {
	out := make([]Expression, 0, len(e.bindings)+1)
	for _, b := range e.bindings {
		out = append(out, b.expr)
	}

	return append(out, e.result)
}

func (e *Let) OutputDefined() bool { return e.result.OutputDefined() }

// Var evaluates the expression bound to a name by an enclosing [Let].
type Var struct {
	bound Expression
	Name  string
	typed
}

func parseVar(args []any, ctx *ParsingContext) Expression {
	name, ok := "", len(args) == 2
	if ok {
		name, ok = args[1].(string)
	}

	if !ok {
		return ctx.fail("'var' expression requires exactly one string literal argument.")
	}

	bound, ok := ctx.scope.get(name)
	if !ok {
		return ctx.fail(`Unknown variable "`+name+`". Make sure "`+name+
			`" has been bound in an enclosing "let" expression before using it.`, 1)
	}

	return &Var{typed: typed{bound.Type()}, Name: name, bound: bound}
}

func (e *Var) Evaluate(ctx *EvaluationContext) (any, error) { return e.bound.Evaluate(ctx) }

func (e *Var) Children() []Expression { return nil }

func (e *Var) OutputDefined() bool { return false }
