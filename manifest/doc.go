// Package manifest loads declarative command sets from YAML documents and
// compiles them into a [syntax.CommandSet].
//
// A manifest lists commands with their arguments and options:
//
//	prefix: "plz:"
//	commands:
//	  - name: greet
//	    description: Say hello
//	    arguments:
//	      - name: who
//	        type: word
//	        default: world
//	        filter:
//	          expr: len(value) > 2
//	          error: name is too short
//	    options:
//	      - name: loud
//	        short: l
//	    action: '"hello " + args.who + (has(opts, "loud") ? "!" : "")'
//
// A type is a single name or a list of names forming a union type. Filter
// expressions see the parsed value as value and must yield a bool. Action
// expressions see command (the command name), args (argument name to value),
// and opts (option name to the list of its occurrences, each a map of
// argument name to value), plus the helper has(opts, name). A non-nil
// action result is printed to the configured output.
//
// Expressions are written in the expr language (github.com/expr-lang/expr)
// and compiled once, when the manifest is compiled.
package manifest
