package syntax

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Construction errors. These are returned by the Compile* functions and by
// [NewRegistry]; they never appear in an [Outcome].
var (
	ErrInvalidType            = NewError("invalid value type")
	ErrDuplicateType          = NewError("two or more value types have the same name")
	ErrTypeNotFound           = NewError("no value type with this name has been found")
	ErrInvalidArgument        = NewError("invalid argument")
	ErrUnionRefinement        = NewError("oneOf, min and max are not allowed on union types")
	ErrRefinementKind         = NewError("oneOf, min and max require a word, text, int or float type")
	ErrIncompatibleRefinement = NewError("min/max options are incompatible with oneOf")
	ErrInvalidOption          = NewError("invalid option")
	ErrDuplicateOption        = NewError("two or more options have the same name")
	ErrInvalidCommand         = NewError("invalid command")
	ErrDuplicateCommand       = NewError("two or more commands have the same name")
)

// Parse error categories. Every [ParseError] unwraps to exactly one of these.
var (
	ErrMismatch        = NewError("value type mismatch")
	ErrOneOf           = NewError("value not in allow-list")
	ErrMin             = NewError("value below minimum")
	ErrMax             = NewError("value above maximum")
	ErrCustom          = NewError("custom argument error")
	ErrFilter          = NewError("filter rejected value")
	ErrOptionFlag      = NewError("option flag mismatch")
	ErrOptionArgument  = NewError("invalid option argument")
	ErrCommandArgument = NewError("invalid command argument")
	ErrCommandNotFound = NewError("command not found")
	ErrTrailingInput   = NewError("unconsumed input")
	ErrHandler         = NewError("command handler failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
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

// Error implements the error interface.
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

// Is reports whether target is an Error with the same message, so that
// wrapped or attributed copies of a sentinel still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
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

// Wrapf creates a new Error wrapping a formatted detail message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
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

// ParseError describes why a parser rejected its input.
//
// It is ordinary data carried by a failed [Outcome]: parse failures are never
// raised as panics. Each layer (argument, option, command, router) creates its
// own ParseError and keeps the nested failure in Cause.
type ParseError struct {
	// Err is the sentinel category, e.g. [ErrMismatch] or [ErrCommandArgument].
	Err *Error
	// Msg is the human-readable message of this layer only.
	Msg string
	// Index is the byte offset in the input where the failure was detected.
	Index int
	// Target is the input starting at Index (or, for refinements, the
	// substring that was consumed before being rejected).
	Target string
	// Cause is the nested failure, if any.
	Cause error
	// Attrs holds layer-specific context such as the option name or the
	// argument position.
	Attrs []slog.Attr
}

func newParseError(
	category *Error,
	msg string,
	text string,
	index int,
) *ParseError {
	return &ParseError{
		Err:    category,
		Msg:    msg,
		Index:  index,
		Target: rest(text, index),
	}
}

// wrap returns a copy of e with cause set as its nested failure.
func (e *ParseError) wrap(cause error) *ParseError {
	c := *e
	c.Cause = cause

	return &c
}

// with returns a copy of e with additional attributes.
func (e *ParseError) with(attrs ...slog.Attr) *ParseError {
	c := *e
	c.Attrs = append(append([]slog.Attr(nil), e.Attrs...), attrs...)

	return &c
}

// Error implements the error interface.
// The message is "<msg>: <cause>" when a nested failure is present.
func (e *ParseError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}

	return e.Msg + ": " + e.Cause.Error()
}

// Unwrap exposes both the sentinel category and the nested cause to
// errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}

	return errs
}

// Innermost returns the deepest ParseError in the Cause chain, which is the
// failure closest to the offending input.
func (e *ParseError) Innermost() *ParseError {
	inner := e

	for {
		var next *ParseError
		if !errors.As(inner.Cause, &next) {
			return inner
		}

		inner = next
	}
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Attrs)+4)
	attrs = append(attrs,
		slog.String("error", e.Msg),
		slog.Int("index", e.Index),
		slog.String("target", e.Target),
	)

	if e.Cause != nil {
		attrs = append(attrs, slog.Any("cause", e.Cause))
	}

	return slog.GroupValue(append(attrs, e.Attrs...)...)
}

// AsParseError returns the outermost ParseError in err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}

	return nil, false
}
