package extra

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/cmdsyntax/syntax"
)

// Names of the value types defined by this package.
const (
	TypeUint      = "uint"
	TypeBool      = "bool"
	TypeTimestamp = "timestamp"
	TypePathList  = "pathlist"
)

// Types returns fresh instances of every value type of this package.
func Types() []*syntax.ValueType {
	return []*syntax.ValueType{Uint(), Bool(), TimestampType(), PathList()}
}

// Registry returns the built-in registry extended with [Types].
// The registry is shared and immutable.
var Registry = sync.OnceValues(
	func() (*syntax.Registry, error) {
		return syntax.Builtins().Extend(Types()...)
	},
)

// scan returns the end offset of the run of runes at cursor that satisfy
// keep.
func scan(text string, cursor int, keep func(rune) bool) int {
	end := cursor

	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !keep(r) {
			break
		}

		end += size
	}

	return end
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(r rune) bool { return unicode.IsLetter(r) }

func notSpace(r rune) bool { return !unicode.IsSpace(r) }
