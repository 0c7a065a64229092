package syntax

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Names of the built-in value types.
const (
	TypeWord  = "word"
	TypeText  = "text"
	TypeInt   = "int"
	TypeFloat = "float"
)

// Builtins returns the registry of built-in value types: word, text, int and
// float, in that order. The registry is shared and immutable.
var Builtins = sync.OnceValue(
	func() *Registry {
		r, err := NewRegistry(Word(), Text(), Int(), Float())
		if err != nil {
			panic("syntax: invalid built-in registry: " + err.Error())
		}

		return r
	},
)

// Word returns the built-in word type: a non-empty run of letters, digits
// and underscores. Any other character, including '-', ends the word.
func Word() *ValueType {
	return &ValueType{
		Name:        TypeWord,
		Description: "Any sequence of letters that doesn't contain separator characters.",
		Kind:        KindWord,
		Parse: func(text string, cursor int) Outcome[any] {
			end := cursor

			for end < len(text) {
				r, size := utf8.DecodeRuneInString(text[end:])
				if !isWordRune(r) {
					break
				}

				end += size
			}

			if end == cursor {
				return failure[any](
					newParseError(ErrMismatch, "argument is not a word", text, cursor),
					cursor,
				)
			}

			return success[any](text[cursor:end], end)
		},
	}
}

// Text returns the built-in text type: a string between matching single
// quotes, double quotes or backticks, or else the non-empty remainder of the
// input. Quotes are not part of the value.
func Text() *ValueType {
	return &ValueType{
		Name:        TypeText,
		Description: "Either a string between quotes `\"`, single-quotes `'` or backticks `` ` ``, or if none, the rest of the input.",
		Kind:        KindText,
		Parse: func(text string, cursor int) Outcome[any] {
			tail := text[cursor:]
			if tail == "" {
				return failure[any](
					newParseError(ErrMismatch, "argument is not a text", text, cursor),
					cursor,
				)
			}

			switch q := tail[0]; q {
			case '\'', '"', '`':
				if end := strings.IndexByte(tail[1:], q); end >= 0 {
					return success[any](tail[1:1+end], cursor+end+2)
				}
			}

			return success[any](tail, len(text))
		},
	}
}

// Int returns the built-in int type: an optionally signed decimal integer.
// The value is an int.
func Int() *ValueType {
	return &ValueType{
		Name:        TypeInt,
		Description: "Any integer number.",
		Kind:        KindInt,
		Parse: func(text string, cursor int) Outcome[any] {
			end := scanInteger(text, cursor)
			if end > cursor {
				if n, err := strconv.Atoi(text[cursor:end]); err == nil {
					return success[any](n, end)
				}
			}

			return failure[any](
				newParseError(ErrMismatch, "argument is not an int", text, cursor),
				cursor,
			)
		},
	}
}

// Float returns the built-in float type: an optionally signed decimal number
// with an optional fractional part and an optional exponent, so that the
// shortest form printed by strconv ("1e+21") reads back. The value is a
// float64.
func Float() *ValueType {
	return &ValueType{
		Name:        TypeFloat,
		Description: "Any floating number.",
		Kind:        KindFloat,
		Parse: func(text string, cursor int) Outcome[any] {
			end := scanInteger(text, cursor)
			if end > cursor && end+1 < len(text) && text[end] == '.' {
				if frac := scanDigits(text, end+1); frac > end+1 {
					end = frac
				}
			}

			if end > cursor && end+1 < len(text) && (text[end] == 'e' || text[end] == 'E') {
				if exp := scanInteger(text, end+1); exp > end+1 {
					end = exp
				}
			}

			if end > cursor {
				if f, err := strconv.ParseFloat(text[cursor:end], 64); err == nil {
					return success[any](f, end)
				}
			}

			return failure[any](
				newParseError(ErrMismatch, "argument is not a float", text, cursor),
				cursor,
			)
		},
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanInteger returns the end offset of an optionally signed run of ASCII
// digits at cursor, or cursor if there is none.
func scanInteger(text string, cursor int) int {
	start := cursor
	if start < len(text) && (text[start] == '+' || text[start] == '-') {
		start++
	}

	end := scanDigits(text, start)
	if end == start {
		return cursor
	}

	return end
}

func scanDigits(text string, cursor int) int {
	for cursor < len(text) && text[cursor] >= '0' && text[cursor] <= '9' {
		cursor++
	}

	return cursor
}
