package expression

import (
	"strconv"
	"strings"
)

var searchableTypes = []Type{BooleanType, StringType, NumberType, NullType, ValueType}

const (
	needleTypeMessage   = "Expected first argument to be of type boolean, string, number or null, but found "
	haystackTypeMessage = "Expected second argument to be of type array or string, but found "
)

// In tests whether a value occurs in an array or a substring occurs in a
// string.
type In struct {
	needle   Expression
	haystack Expression
	typed
}

func parseIn(args []any, ctx *ParsingContext) Expression {
	if len(args) != 3 {
		return ctx.fail("Expected 2 arguments, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	needle := ctx.parseArg(args[1], 1, expect(ValueType))
	haystack := ctx.parseArg(args[2], 2, expect(ValueType))

	if needle == nil || haystack == nil {
		return nil
	}

	if !isValidType(needle.Type(), searchableTypes...) {
		return ctx.fail(needleTypeMessage + needle.Type().String() + " instead")
	}

	return &In{typed: typed{BooleanType}, needle: needle, haystack: haystack}
}

func (e *In) Evaluate(ctx *EvaluationContext) (any, error) {
	needle, err := e.needle.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	haystack, err := e.haystack.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	if !truthy(haystack) {
		return false, nil
	}

	if !isNativeType(needle, "boolean", "string", "number", "null") {
		return nil, NewRuntimeError(needleTypeMessage + TypeOf(needle).String() + " instead.")
	}

	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, primitiveString(needle)), nil
	case []any:
		for _, item := range h {
			if strictEqual(item, needle) {
				return true, nil
			}
		}

		return false, nil
	}

	return nil, NewRuntimeError(haystackTypeMessage + TypeOf(haystack).String() + " instead.")
}

func (e *In) Children() []Expression { return []Expression{e.needle, e.haystack} }

func (e *In) OutputDefined() bool { return true }

// IndexOf returns the position of the first occurrence of a value in an
// array or of a substring in a string, or -1. String positions count code
// points.
type IndexOf struct {
	needle    Expression
	haystack  Expression
	fromIndex Expression
	typed
}

func parseIndexOf(args []any, ctx *ParsingContext) Expression {
	if len(args) <= 2 || len(args) >= 5 {
		return ctx.fail("Expected 3 or 4 arguments, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	needle := ctx.parseArg(args[1], 1, expect(ValueType))
	haystack := ctx.parseArg(args[2], 2, expect(ValueType))

	if needle == nil || haystack == nil {
		return nil
	}

	if !isValidType(needle.Type(), searchableTypes...) {
		return ctx.fail(needleTypeMessage + needle.Type().String() + " instead")
	}

	e := &IndexOf{typed: typed{NumberType}, needle: needle, haystack: haystack}

	if len(args) == 4 {
		if e.fromIndex = ctx.parseArg(args[3], 3, expect(NumberType)); e.fromIndex == nil {
			return nil
		}
	}

	return e
}

func (e *IndexOf) Evaluate(ctx *EvaluationContext) (any, error) {
	needle, err := e.needle.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	haystack, err := e.haystack.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	if !isNativeType(needle, "boolean", "string", "number", "null") {
		return nil, NewRuntimeError(needleTypeMessage + TypeOf(needle).String() + " instead.")
	}

	from := 0.0

	if e.fromIndex != nil {
		v, err := e.fromIndex.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		from = asNumber(v)
	}

	switch h := haystack.(type) {
	case string:
		start := 0
		if from > 0 {
			start = relativeIndex(from, len([]rune(h)))
		}

		return float64(runeIndex(h, primitiveString(needle), start)), nil

	case []any:
		for i := relativeIndex(from, len(h)); i < len(h); i++ {
			if strictEqual(h[i], needle) {
				return float64(i), nil
			}
		}

		return -1.0, nil
	}

	return nil, NewRuntimeError(haystackTypeMessage + TypeOf(haystack).String() + " instead.")
}

func (e *IndexOf) Children() []Expression {
	if e.fromIndex == nil {
		return []Expression{e.needle, e.haystack}
	}

	return []Expression{e.needle, e.haystack, e.fromIndex}
}

func (e *IndexOf) OutputDefined() bool { return false }

// Slice returns a portion of an array or string. String bounds count code
// points.
type Slice struct {
	input      Expression
	beginIndex Expression
	endIndex   Expression
	typed
}

func parseSlice(args []any, ctx *ParsingContext) Expression {
	if len(args) <= 2 || len(args) >= 5 {
		return ctx.fail("Expected 3 or 4 arguments, but found " + strconv.Itoa(len(args)-1) + " instead.")
	}

	input := ctx.parseArg(args[1], 1, expect(ValueType))
	begin := ctx.parseArg(args[2], 2, expect(NumberType))

	if input == nil || begin == nil {
		return nil
	}

	if !isValidType(input.Type(), Array(ValueType), StringType, ValueType) {
		return ctx.fail("Expected first argument to be of type array or string, but found " +
			input.Type().String() + " instead")
	}

	e := &Slice{typed: typed{input.Type()}, input: input, beginIndex: begin}

	if len(args) == 4 {
		if e.endIndex = ctx.parseArg(args[3], 3, expect(NumberType)); e.endIndex == nil {
			return nil
		}
	}

	return e
}

func (e *Slice) Evaluate(ctx *EvaluationContext) (any, error) {
	input, err := e.input.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	bv, err := e.beginIndex.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	var end *float64

	if e.endIndex != nil {
		ev, err := e.endIndex.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		f := asNumber(ev)
		end = &f
	}

	switch v := input.(type) {
	case string:
		runes := []rune(v)
		lo, hi := sliceBounds(len(runes), asNumber(bv), end)

		return string(runes[lo:hi]), nil
	case []any:
		lo, hi := sliceBounds(len(v), asNumber(bv), end)
		out := make([]any, hi-lo)
		copy(out, v[lo:hi])

		return out, nil
	}

	return nil, NewRuntimeError("Expected first argument to be of type array or string, but found " +
		TypeOf(input).String() + " instead.")
}

func (e *Slice) Children() []Expression {
	if e.endIndex == nil {
		return []Expression{e.input, e.beginIndex}
	}

	return []Expression{e.input, e.beginIndex, e.endIndex}
}

func (e *Slice) OutputDefined() bool { return false }
