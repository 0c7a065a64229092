package extra

import (
	"strings"

	"github.com/ardnew/cmdsyntax/syntax"
)

var boolWords = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"false": false,
	"no":    false,
	"off":   false,
}

// Bool returns the bool type: one of true, false, yes, no, on or off, in any
// letter case. The value is a bool.
func Bool() *syntax.ValueType {
	return &syntax.ValueType{
		Name:        TypeBool,
		Description: "One of true, false, yes, no, on or off.",
		Parse: func(text string, cursor int) syntax.Outcome[any] {
			end := scan(text, cursor, isLetter)

			if b, ok := boolWords[strings.ToLower(text[cursor:end])]; ok {
				return syntax.Succeed[any](b, end)
			}

			return syntax.Mismatch[any]("argument is not a bool", text, cursor)
		},
	}
}
