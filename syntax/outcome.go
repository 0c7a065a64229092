package syntax

// Outcome is the result of running a [Parser] at a cursor.
//
// A successful Outcome has a nil Err, carries the parsed Value, and its Cursor
// is the byte offset just past the consumed input. A failed Outcome carries a
// non-nil Err (normally a [*ParseError]) and its Cursor is the offset where
// the failure was detected.
type Outcome[T any] struct {
	Value  T
	Err    error
	Cursor int
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// ParseError returns the outcome's error as a [*ParseError], or nil if the
// outcome succeeded or failed with some other error type.
func (o Outcome[T]) ParseError() *ParseError {
	if o.Err == nil {
		return nil
	}

	pe, _ := AsParseError(o.Err)

	return pe
}

func success[T any](value T, cursor int) Outcome[T] {
	return Outcome[T]{Value: value, Cursor: cursor}
}

func failure[T any](err error, cursor int) Outcome[T] {
	return Outcome[T]{Err: err, Cursor: cursor}
}

// fail converts a failed outcome of one type into a failed outcome of
// another, keeping its error and cursor.
func fail[T, U any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{Err: o.Err, Cursor: o.Cursor}
}

// Succeed returns a successful outcome with value, ending at cursor. It is
// meant for parsers of custom value types.
func Succeed[T any](value T, cursor int) Outcome[T] {
	return success(value, cursor)
}

// Mismatch returns a failed outcome whose [*ParseError] has category
// [ErrMismatch], message msg, and the rest of text from cursor as Target.
// It is meant for parsers of custom value types.
func Mismatch[T any](msg, text string, cursor int) Outcome[T] {
	return failure[T](newParseError(ErrMismatch, msg, text, cursor), cursor)
}
