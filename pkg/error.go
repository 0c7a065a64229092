package pkg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the cmdsyntax packages and its CLI.
// These errors can be tested using errors.Is for reliable error checking.

// ErrReadInput is returned when reading input fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = errors.New("failed to read input")

// ErrJSONMarshal is returned when JSON marshaling fails.
var ErrJSONMarshal = errors.New("JSON marshal error")

// ErrYAMLMarshal is returned when YAML marshaling fails.
var ErrYAMLMarshal = errors.New("YAML marshal error")

// ErrInvalidFormat is returned when an invalid output format is specified.
//
// This error should be wrapped with additional context that specifies the
// invalid format along with a list of valid formats.
var ErrInvalidFormat = errors.New("invalid format")

// Error is a list of independent failures reported together, such as every
// problem found while validating a manifest.
type Error []error

// MakeError constructs an Error from the given errors in order.
// Nil errors are skipped and nested Error values are flattened.
func MakeError(errs ...error) Error {
	var e Error

	return e.Wrap(errs...)
}

// MakeErrorf constructs an Error holding one formatted failure.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns the messages of all failures, one per line.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
// Nil errors are skipped and nested Error values are flattened.
func (e Error) Wrap(errs ...error) Error {
	for _, err := range errs {
		switch list := err.(type) {
		case nil:
		case Error:
			e = append(e, list...)
		default:
			e = append(e, err)
		}
	}

	return e
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Err returns the receiver as an error, or nil if it holds no failures.
func (e Error) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

// UnwrapErrors recursively unwraps an error chain and returns every error in
// it, innermost first.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
