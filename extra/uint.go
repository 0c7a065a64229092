package extra

import (
	"strconv"

	"github.com/ardnew/cmdsyntax/syntax"
)

// Uint returns the uint type: a run of decimal digits without sign.
// The value is a uint. Its kind is [syntax.KindInt], so it accepts the
// oneOf, min and max refinements.
func Uint() *syntax.ValueType {
	return &syntax.ValueType{
		Name:        TypeUint,
		Description: "Any unsigned integer number.",
		Kind:        syntax.KindInt,
		Parse: func(text string, cursor int) syntax.Outcome[any] {
			end := scan(text, cursor, isDigit)
			if end > cursor {
				if n, err := strconv.ParseUint(text[cursor:end], 10, strconv.IntSize); err == nil {
					return syntax.Succeed[any](uint(n), end)
				}
			}

			return syntax.Mismatch[any]("argument is not an unsigned int", text, cursor)
		},
	}
}
