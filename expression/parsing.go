package expression

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ardnew/windstyle/log"
)

// parseFunc parses the argument list of one operator (args[0] is the
// operator name). It returns nil after recording at least one error on ctx.
type parseFunc func(args []any, ctx *ParsingContext) Expression

// annotation controls how a parsed node is adapted to the expected type.
type annotation int

const (
	annotateInfer annotation = iota
	annotateAssert
	annotateCoerce
	annotateOmit
)

// ParsingContext holds the state of parsing at one position in an
// expression tree. Child contexts share the registry and the error list of
// their parent.
type ParsingContext struct {
	registry   map[string]parseFunc
	isConstant func(Expression) bool
	scope      *Scope
	errors     *[]ParsingError
	expected   *Type
	logger     log.Logger
	key        string
	path       []int
}

func newParsingContext(expected *Type, logger log.Logger) *ParsingContext {
	return &ParsingContext{
		registry:   registry(),
		isConstant: IsExpressionConstant,
		scope:      &Scope{},
		errors:     &[]ParsingError{},
		expected:   expected,
		logger:     logger,
	}
}

// expect returns a pointer to a copy of t, for use as an expected type.
func expect(t Type) *Type { return &t }

// Errors returns the errors recorded so far.
func (c *ParsingContext) Errors() ParsingErrors {
	return ParsingErrors(*c.errors)
}

// concat returns a child context for the argument at index, with its own
// expected type and optionally extra bindings.
func (c *ParsingContext) concat(index int, expected *Type, bindings []binding) *ParsingContext {
	path := make([]int, len(c.path), len(c.path)+1)
	copy(path, c.path)
	path = append(path, index)

	scope := c.scope
	if bindings != nil {
		scope = scope.concat(bindings)
	}

	return &ParsingContext{
		registry:   c.registry,
		isConstant: c.isConstant,
		scope:      scope,
		errors:     c.errors,
		expected:   expected,
		logger:     c.logger,
		key:        c.key + "[" + strconv.Itoa(index) + "]",
		path:       path,
	}
}

// isolated returns a context at the same position with a fresh error list
// and no expected type.
func (c *ParsingContext) isolated() *ParsingContext {
	return &ParsingContext{
		registry:   c.registry,
		isConstant: c.isConstant,
		scope:      c.scope,
		errors:     &[]ParsingError{},
		logger:     c.logger,
		key:        c.key,
		path:       c.path,
	}
}

// fail records msg at the current key, extended by keys, and returns nil.
func (c *ParsingContext) fail(msg string, keys ...int) Expression {
	var sb strings.Builder

	sb.WriteString(c.key)

	for _, k := range keys {
		sb.WriteString("[" + strconv.Itoa(k) + "]")
	}

	*c.errors = append(*c.errors, ParsingError{Key: sb.String(), Message: msg})

	return nil
}

// checkSubtype records and returns the mismatch message if t is not a
// subtype of expected.
func (c *ParsingContext) checkSubtype(expected, t Type) string {
	msg := IsSubtype(expected, t)
	if msg != "" {
		c.fail(msg)
	}

	return msg
}

// parseArg parses the argument at index with the given expected type.
func (c *ParsingContext) parseArg(expr any, index int, expected *Type) Expression {
	return c.concat(index, expected, nil).parse(expr, annotateInfer)
}

// parseArgWith parses the argument at index with extra bindings and an
// explicit annotation mode.
func (c *ParsingContext) parseArgWith(
	expr any,
	index int,
	expected *Type,
	bindings []binding,
	ann annotation,
) Expression {
	return c.concat(index, expected, bindings).parse(expr, ann)
}

// parse parses expr at the current position.
func (c *ParsingContext) parse(expr any, ann annotation) Expression {
	switch expr.(type) {
	case nil, string, bool, float64:
		expr = []any{"literal", expr}
	}

	switch e := expr.(type) {
	case []any:
		return c.parseArray(e, ann)
	case map[string]any:
		return c.fail(`Bare objects invalid. Use ["literal", {...}] instead.`)
	}

	return c.fail("Expected an array, but found " + jsTypeof(expr) + " instead.")
}

func (c *ParsingContext) parseArray(expr []any, ann annotation) Expression {
	if len(expr) == 0 {
		return c.fail(`Expected an array with at least one element. If you wanted a literal array, use ["literal", []].`)
	}

	op, ok := expr[0].(string)
	if !ok {
		return c.fail("Expression name must be a string, but found "+jsTypeof(expr[0])+
			` instead. If you wanted a literal array, use ["literal", [...]].`, 0)
	}

	parse, ok := c.registry[op]
	if !ok {
		return c.fail(`Unknown expression "`+op+`". If you wanted a literal array, use ["literal", [...]].`, 0)
	}

	parsed := parse(expr, c)
	if parsed == nil {
		return nil
	}

	if c.expected != nil {
		if parsed = c.annotate(parsed, *c.expected, ann); parsed == nil {
			return nil
		}
	}

	if _, isLiteral := parsed.(*Literal); !isLiteral &&
		parsed.Type().Kind != KindResolvedImage &&
		c.isConstant(parsed) {
		v, err := parsed.Evaluate(&EvaluationContext{})
		if err != nil {
			return c.fail(err.Error())
		}

		c.logger.Trace("fold constant",
			slog.String("key", c.key),
			slog.String("operator", op),
			slog.String("type", parsed.Type().String()),
		)

		parsed = &Literal{typed: typed{parsed.Type()}, Value: v}
	}

	return parsed
}

// annotate wraps parsed in an assertion or coercion when its type is
// compatible with expected only at runtime, and otherwise checks that it
// is a static subtype.
func (c *ParsingContext) annotate(parsed Expression, expected Type, ann annotation) Expression {
	actual := parsed.Type().Kind

	wrap := func(def annotation) Expression {
		if ann == annotateInfer {
			ann = def
		}

		switch ann {
		case annotateAssert:
			return &Assertion{typed: typed{expected}, args: []Expression{parsed}}
		case annotateCoerce:
			return &Coercion{typed: typed{expected}, args: []Expression{parsed}}
		}

		return parsed
	}

	switch expected.Kind {
	case KindString, KindNumber, KindBoolean, KindObject, KindArray:
		if actual == KindValue {
			return wrap(annotateAssert)
		}
	case KindProjectionDefinition:
		if actual == KindString || actual == KindArray {
			return wrap(annotateCoerce)
		}
	case KindColor, KindFormatted, KindResolvedImage:
		if actual == KindValue || actual == KindString {
			return wrap(annotateCoerce)
		}
	case KindPadding:
		if actual == KindValue || actual == KindNumber || actual == KindArray {
			return wrap(annotateCoerce)
		}
	case KindVariableAnchorOffset:
		if actual == KindValue || actual == KindArray {
			return wrap(annotateCoerce)
		}
	}

	if c.checkSubtype(expected, parsed.Type()) != "" {
		return nil
	}

	return parsed
}

var variableName = regexp.MustCompile(`^[a-zA-Z0-9_]*$`)

// jsTypeof names the category of a wire value the way error messages
// describe it: "number", "string", "boolean", or "object".
func jsTypeof(v any) string {
	switch v.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	}

	return "object"
}
