package expression

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput           = NewError("failed to read input")
	ErrDecode              = NewError("failed to decode expression")
	ErrParse               = NewError("expression parsing failed")
	ErrSpec                = NewError("invalid property specification")
	ErrUnknownColorSpace   = NewError("unknown color space")
	ErrUnknownFunctionType = NewError("unknown function type")
	ErrEvaluate            = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error joins the message and the wrapped error with ": ", omitting
// whichever is empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches sentinel errors by message so that wrapped copies created by
// [Error.Wrap] and [Error.With] still match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParsingError is a static error found while parsing an expression. Key is
// the bracketed path of argument indices to the offending node, such as
// "[2][1]", or empty for the root.
type ParsingError struct {
	Key     string
	Message string
}

func (e ParsingError) Error() string {
	if e.Key == "" {
		return e.Message
	}

	return e.Key + ": " + e.Message
}

// ParsingErrors is the list of errors reported by a failed parse.
type ParsingErrors []ParsingError

func (e ParsingErrors) Error() string {
	msgs := make([]string, len(e))
	for i, pe := range e {
		msgs[i] = pe.Error()
	}

	return strings.Join(msgs, ", ")
}

// LogValue implements slog.LogValuer.
func (e ParsingErrors) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(e))
	for i, pe := range e {
		key := pe.Key
		if key == "" {
			key = "$"
		}

		attrs[i] = slog.String(key, pe.Message)
	}

	return slog.GroupValue(attrs...)
}

// RuntimeError is a recoverable error raised while evaluating an
// expression, such as a failed type assertion or an out-of-range index.
type RuntimeError struct {
	Message string
}

// NewRuntimeError returns a RuntimeError with message msg.
func NewRuntimeError(msg string) *RuntimeError {
	return &RuntimeError{Message: msg}
}

func (e *RuntimeError) Error() string { return e.Message }
