package expression

import (
	"slices"
	"strings"
)

// globalProperties are the builtins whose value comes from the renderer
// rather than from the expression or the feature.
var globalProperties = []string{
	"zoom",
	"heatmap-density",
	"line-progress",
	"accumulated",
	"is-supported-script",
}

// IsExpressionConstant reports whether e can be evaluated once, without a
// feature or camera, and replaced by its value.
func IsExpressionConstant(e Expression) bool {
	switch e := e.(type) {
	case *Var:
		return IsExpressionConstant(e.bound)
	case *CompoundExpression:
		if e.Name == "error" {
			return false
		}
	case *CollatorExpression, *Within, *Distance:
		// Collation rules depend on the environment; geometry predicates
		// depend on the tile being evaluated.
		return false
	}

	_, isAssertion := e.(*Assertion)
	_, isCoercion := e.(*Coercion)
	annotation := isAssertion || isCoercion

	for _, child := range e.Children() {
		// Annotations may be inferred after their children were folded, so
		// their children are checked recursively.
		if annotation {
			if !IsExpressionConstant(child) {
				return false
			}
		} else if _, ok := child.(*Literal); !ok {
			return false
		}
	}

	return IsFeatureConstant(e) && IsGlobalPropertyConstant(e, globalProperties...)
}

// IsFeatureConstant reports whether e is independent of the feature being
// evaluated (its properties, id, geometry, and state).
func IsFeatureConstant(e Expression) bool {
	switch e := e.(type) {
	case *CompoundExpression:
		switch {
		case (e.Name == "get" || e.Name == "has") && len(e.args) == 1,
			e.Name == "feature-state",
			e.Name == "properties",
			e.Name == "geometry-type",
			e.Name == "id",
			strings.HasPrefix(e.Name, "filter-"):
			return false
		}
	case *Within, *Distance:
		return false
	}

	for _, child := range e.Children() {
		if !IsFeatureConstant(child) {
			return false
		}
	}

	return true
}

// IsStateConstant reports whether e is independent of feature state.
func IsStateConstant(e Expression) bool {
	if c, ok := e.(*CompoundExpression); ok && c.Name == "feature-state" {
		return false
	}

	for _, child := range e.Children() {
		if !IsStateConstant(child) {
			return false
		}
	}

	return true
}

// IsGlobalPropertyConstant reports whether e references none of the named
// global builtins.
func IsGlobalPropertyConstant(e Expression, names ...string) bool {
	if c, ok := e.(*CompoundExpression); ok && slices.Contains(names, c.Name) {
		return false
	}

	for _, child := range e.Children() {
		if !IsGlobalPropertyConstant(child, names...) {
			return false
		}
	}

	return true
}
