package ramp

import "github.com/ardnew/windstyle/expression"

// Errors returned by the ramp builder.
var (
	ErrFormulaCompile  = expression.NewError("failed to compile formula")
	ErrFormulaEvaluate = expression.NewError("failed to evaluate formula")
	ErrAssignment      = expression.NewError("invalid assignment (want KEY=FORMULA)")
	ErrNotColor        = expression.NewError("sample did not evaluate to a color")
)
