package cmd

import "github.com/ardnew/cmdsyntax/syntax"

// Error is a command failure carrying structured logging attributes.
// Errors built from the same sentinel match with [errors.Is].
type Error = syntax.Error

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error { return syntax.NewError(msg) }

var (
	ErrMarshal     = NewError("marshal output")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrNoManifest  = NewError("no manifest given (use --manifest)")
	ErrReadLines   = NewError("read command lines")
	ErrRunLine     = NewError("command line failed")
)
