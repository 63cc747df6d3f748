package expression

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/pkg/num"
)

// IsValue reports whether v belongs to the closed set of runtime values:
// nil, float64, string, bool, the domain value types, and arrays or objects
// composed of them.
func IsValue(v any) bool {
	switch v := v.(type) {
	case nil, float64, string, bool,
		*color.Color, *ProjectionDefinition, *Collator, *Formatted,
		*Padding, *VariableAnchorOffsetCollection, *ResolvedImage:
		return true
	case []any:
		for _, item := range v {
			if !IsValue(item) {
				return false
			}
		}

		return true
	case map[string]any:
		for _, item := range v {
			if !IsValue(item) {
				return false
			}
		}

		return true
	}

	return false
}

// TypeOf returns the type of a runtime value. The item type of an array is
// the common type of its elements, or value if they differ; nested arrays
// always unify to value.
func TypeOf(v any) Type {
	switch v := v.(type) {
	case nil:
		return NullType
	case string:
		return StringType
	case bool:
		return BooleanType
	case float64:
		return NumberType
	case *color.Color:
		return ColorType
	case *ProjectionDefinition:
		return ProjectionDefinitionType
	case *Collator:
		return CollatorType
	case *Formatted:
		return FormattedType
	case *Padding:
		return PaddingType
	case *VariableAnchorOffsetCollection:
		return VariableAnchorOffsetType
	case *ResolvedImage:
		return ResolvedImageType
	case []any:
		var (
			item Type
			seen bool
		)

		for _, elem := range v {
			t := TypeOf(elem)

			if !seen {
				item, seen = t, true

				continue
			}

			if t.Kind == KindArray || item.Kind == KindArray || t.Kind != item.Kind {
				item = ValueType

				break
			}
		}

		if !seen {
			item = ValueType
		}

		return ArrayN(item, len(v))
	}

	return ObjectType
}

// ValueToString renders v the way string coercion does: null is empty,
// scalars use their canonical text, domain values use their String method,
// and arrays or objects are encoded as JSON.
func ValueToString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return num.Format(v)
	case bool:
		if v {
			return "true"
		}

		return "false"
	case *color.Color:
		return v.String()
	case *ProjectionDefinition:
		return v.String()
	case *Formatted:
		return v.String()
	case *Padding:
		return v.String()
	case *VariableAnchorOffsetCollection:
		return v.String()
	case *ResolvedImage:
		return v.String()
	}

	return encodeJSON(v)
}

// encodeJSON encodes v as compact JSON without HTML escaping. Non-finite
// numbers encode as null.
func encodeJSON(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(jsonable(v)); err != nil {
		return ""
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// jsonable converts domain values into plain maps and slices so that they
// encode with the same field names they expose to style authors.
func jsonable(v any) any {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}

		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonable(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = jsonable(item)
		}

		return out
	case *color.Color:
		return map[string]any{"r": v.R, "g": v.G, "b": v.B, "a": v.A}
	case *Padding:
		return map[string]any{"values": jsonable(floatsToAny(v.Values[:]))}
	case *VariableAnchorOffsetCollection:
		return map[string]any{"values": jsonable(v.values())}
	case *ResolvedImage:
		return map[string]any{"name": v.Name, "available": v.Available}
	case *ProjectionDefinition:
		return map[string]any{"from": v.From, "to": v.To, "transition": jsonable(v.Transition)}
	case *Formatted:
		sections := make([]any, len(v.Sections))
		for i, s := range v.Sections {
			sections[i] = s.jsonable()
		}

		return map[string]any{"sections": sections}
	case *Collator:
		return map[string]any{"sensitivity": v.Sensitivity(), "locale": v.locale}
	}

	return v
}

func floatsToAny(fs []float64) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}

	return out
}

// strictEqual compares two runtime values by value for scalars and by
// identity for everything else.
func strictEqual(a, b any) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case float64:
		bf, ok := b.(float64)

		return ok && a == bf
	case string:
		bs, ok := b.(string)

		return ok && a == bs
	case bool:
		bb, ok := b.(bool)

		return ok && a == bb
	case []any, map[string]any:
		if b == nil || reflect.TypeOf(a) != reflect.TypeOf(b) {
			return false
		}

		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)

		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}

	if b == nil || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if reflect.TypeOf(a).Comparable() {
		return a == b
	}

	return false
}

// nativeType returns the name of the native category of v as used in
// legacy function validation: "null", "array", "object", "number",
// "string", or "boolean".
func nativeType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	}

	return "object"
}

// truthy reports whether v converts to true: false, 0, NaN, the empty
// string, and null are false; everything else is true.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	}

	return true
}
