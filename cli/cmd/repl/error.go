package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds   = errors.New("index out of range")
	ErrEditDeclined  = errors.New("decline edit")
	ErrUnknownCmd    = errors.New("unknown command")
	ErrMissingArg    = errors.New("missing argument")
	ErrUnknownProp   = errors.New("no such property")
	ErrInvalidNumber = errors.New("invalid number")
)
