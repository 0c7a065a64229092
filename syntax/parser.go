package syntax

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser attempts to recognize a T in text starting at byte offset cursor.
//
// Parsers are pure functions: running the same parser twice with the same
// arguments yields the same [Outcome], and a failure never consumes input
// from the point of view of the caller, which is free to retry another
// alternative from the same cursor.
type Parser[T any] func(text string, cursor int) Outcome[T]

// Parse runs p after checking that cursor lies within text.
func (p Parser[T]) Parse(text string, cursor int) Outcome[T] {
	if !inRange(text, cursor) {
		return outOfRange[T](text, cursor)
	}

	return p(text, cursor)
}

func inRange(text string, cursor int) bool {
	return cursor >= 0 && cursor <= len(text)
}

func outOfRange[T any](text string, cursor int) Outcome[T] {
	return failure[T](
		newParseError(ErrMismatch, "cursor out of range", text, len(text)).
			with(slog.Int("cursor", cursor)),
		cursor,
	)
}

// MapError returns a parser that replaces the error of every failure of p
// with the result of fn. Successes pass through unchanged.
func (p Parser[T]) MapError(fn func(text string, o Outcome[T]) error) Parser[T] {
	return func(text string, cursor int) Outcome[T] {
		o := p(text, cursor)
		if o.OK() {
			return o
		}

		return failure[T](fn(text, o), o.Cursor)
	}
}

// Map returns a parser that transforms the value of every success of p.
func Map[T, U any](p Parser[T], fn func(T) U) Parser[U] {
	return func(text string, cursor int) Outcome[U] {
		o := p(text, cursor)
		if !o.OK() {
			return fail[T, U](o)
		}

		return success(fn(o.Value), o.Cursor)
	}
}

// Choice returns the ordered choice of ps: each alternative is tried from the
// same cursor, left to right, and the first success wins even when a later
// alternative would consume more input. If every alternative fails, the
// failure of the last one is returned.
func Choice[T any](ps ...Parser[T]) Parser[T] {
	return func(text string, cursor int) Outcome[T] {
		last := failure[T](
			newParseError(ErrMismatch, "no alternative to choose from", text, cursor),
			cursor,
		)

		for _, p := range ps {
			o := p(text, cursor)
			if o.OK() {
				return o
			}

			last = o
		}

		return last
	}
}

// Literal returns a parser matching exactly s at the cursor.
func Literal(s string) Parser[string] {
	return func(text string, cursor int) Outcome[string] {
		if s != "" && strings.HasPrefix(text[cursor:], s) {
			return success(s, cursor+len(s))
		}

		return failure[string](
			newParseError(ErrMismatch, "expected "+strconv.Quote(s), text, cursor),
			cursor,
		)
	}
}

// Whitespace returns a parser matching a non-empty run of whitespace.
// The value is the matched run.
func Whitespace() Parser[string] {
	return func(text string, cursor int) Outcome[string] {
		end := skipSpace(text, cursor)
		if end == cursor {
			return failure[string](
				newParseError(ErrMismatch, "expected whitespace", text, cursor),
				cursor,
			)
		}

		return success(text[cursor:end], end)
	}
}

// skipSpace returns the offset of the first non-whitespace rune at or after
// cursor.
func skipSpace(text string, cursor int) int {
	for cursor < len(text) {
		r, size := utf8.DecodeRuneInString(text[cursor:])
		if !unicode.IsSpace(r) {
			break
		}

		cursor += size
	}

	return cursor
}

// rest returns text from index, clamped to the bounds of text.
func rest(text string, index int) string {
	switch {
	case index < 0:
		return text
	case index > len(text):
		return ""
	default:
		return text[index:]
	}
}
