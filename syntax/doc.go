// Package syntax implements a typed command-syntax engine: it turns one line
// of text into a structured, validated command invocation.
//
// # Value types
//
// A [ValueType] is a named [Parser] from text to a value. The built-in
// [Registry] returned by [Builtins] holds word, text, int and float:
//
//	word   a run of letters, digits and underscores
//	text   a quoted string ('...', "..." or `...`), or else the rest of the input
//	int    an optionally signed decimal integer
//	float  an optionally signed decimal number with optional fraction
//
// Custom types are added with [Registry.Extend].
//
// # Declarations
//
// Commands are declared with plain data ([CommandSpec], [OptionSpec],
// [ArgumentSpec]) and compiled once:
//
//	set, err := syntax.CompileCommandSet([]syntax.CommandSpec{{
//		Name: "greet",
//		Arguments: []syntax.ArgumentSpec{
//			{Name: "who", Type: []string{syntax.TypeWord}},
//		},
//		Options: []syntax.OptionSpec{{
//			Name:  "times",
//			Short: "t",
//			Arguments: []syntax.ArgumentSpec{
//				{Name: "n", Type: []string{syntax.TypeInt}, Min: syntax.Bound(1)},
//			},
//		}},
//	}}, nil)
//
// Every configuration problem (unknown type, refinement on a union type,
// duplicate option flag, ...) is reported by the Compile functions. Parsing
// never panics.
//
// # Parsing
//
// Options may appear before, between or after the required arguments:
//
//	res, err := set.Run(ctx, "greet -t 3 world")
//
// A failure is a [*ParseError] carrying a category sentinel (see
// [ErrMismatch] and friends), the byte offset of the failure, the remaining
// input at that offset, and the nested failure of the layer below. Use
// [errors.Is] with the sentinels and [ParseError.Innermost] to find the
// failure closest to the input.
package syntax
