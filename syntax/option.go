package syntax

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OptionSpec declares a named flag that may carry its own arguments.
type OptionSpec struct {
	Name        string
	Description string
	// Short is an optional single-character alias matched as "-s".
	Short     string
	Arguments []ArgumentSpec
}

// OptionResult is the value produced by one occurrence of an option.
type OptionResult struct {
	Kind      string           `json:"kind"      yaml:"kind"`
	Name      string           `json:"name"      yaml:"name"`
	Arguments []ArgumentResult `json:"arguments" yaml:"arguments"`
}

// KindOption is the Kind of every [OptionResult].
const KindOption = "option"

// Arg returns the value of the named argument of this occurrence.
func (r OptionResult) Arg(name string) (any, bool) {
	return lookupArg(r.Arguments, name)
}

// Option is a compiled [OptionSpec].
type Option struct {
	spec OptionSpec
	args []*Argument
	flag Parser[string]
}

// CompileOption builds the flag matcher and the argument sequence parser of
// spec. A nil reg means [Builtins].
//
// The option name must be non-empty and contain no whitespace, so that a
// flag match always consumes input. Short must be empty or a single
// non-whitespace character other than '-'.
func CompileOption(spec OptionSpec, reg *Registry) (*Option, error) {
	if spec.Name == "" || strings.IndexFunc(spec.Name, unicode.IsSpace) >= 0 {
		return nil, ErrInvalidOption.
			Wrapf("option name %q must be non-empty without whitespace", spec.Name)
	}

	attr := slog.String("option", spec.Name)

	if spec.Short != "" {
		r, size := utf8.DecodeRuneInString(spec.Short)
		if size != len(spec.Short) || r == '-' || unicode.IsSpace(r) {
			return nil, ErrInvalidOption.
				Wrapf("short form %q of option %q must be a single character",
					spec.Short, spec.Name).
				With(attr)
		}
	}

	args := make([]*Argument, 0, len(spec.Arguments))

	for _, as := range spec.Arguments {
		a, err := CompileArgument(as, reg)
		if err != nil {
			return nil, WrapError(err).With(attr)
		}

		args = append(args, a)
	}

	flags := []Parser[string]{Literal("--" + spec.Name)}
	if spec.Short != "" {
		flags = append(flags, Literal("-"+spec.Short))
	}

	return &Option{spec: spec, args: args, flag: Choice(flags...)}, nil
}

// MatchFlag matches "--name" or, failing that, "-short" at cursor. The value
// is the matched flag text.
func (o *Option) MatchFlag(text string, cursor int) Outcome[string] {
	m := o.flag.Parse(text, cursor)
	if !m.OK() {
		return failure[string](o.flagError(text, cursor, m.Err), cursor)
	}

	return m
}

// ParseArguments parses the option's argument sequence at cursor, assuming
// the flag itself has already been matched. Consecutive arguments must be
// separated by whitespace.
func (o *Option) ParseArguments(text string, cursor int) Outcome[OptionResult] {
	if !inRange(text, cursor) {
		return outOfRange[OptionResult](text, cursor)
	}

	res := OptionResult{
		Kind:      KindOption,
		Name:      o.spec.Name,
		Arguments: make([]ArgumentResult, 0, len(o.args)),
	}

	cur := cursor

	for i, a := range o.args {
		start := cur

		if i > 0 {
			ws := Whitespace()(text, cur)
			if !ws.OK() {
				if a.Optional() {
					res.Arguments = append(res.Arguments, a.result(a.spec.Default))

					continue
				}

				return failure[OptionResult](o.argumentError(text, cur, i, ws.Err), cur)
			}

			start = ws.Cursor
		}

		r := a.parseRequired(text, start)
		if !r.OK() {
			if a.Optional() {
				res.Arguments = append(res.Arguments, a.result(a.spec.Default))

				continue
			}

			return failure[OptionResult](o.argumentError(text, start, i, r.Err), start)
		}

		res.Arguments = append(res.Arguments, r.Value)
		cur = r.Cursor
	}

	return success(res, cur)
}

// ParseFull matches the flag, skips optional whitespace and parses the
// argument sequence as one unit.
func (o *Option) ParseFull(text string, cursor int) Outcome[OptionResult] {
	m := o.MatchFlag(text, cursor)
	if !m.OK() {
		return fail[string, OptionResult](m)
	}

	return o.ParseArguments(text, skipSpace(text, m.Cursor))
}

func (o *Option) flagError(text string, cursor int, cause error) *ParseError {
	return newParseError(ErrOptionFlag,
		fmt.Sprintf("option %q parsing failed", o.spec.Name),
		text, cursor,
	).wrap(cause).with(slog.String("option", o.spec.Name))
}

func (o *Option) argumentError(text string, cursor, i int, cause error) *ParseError {
	return newParseError(ErrOptionArgument,
		fmt.Sprintf("argument n°%d from option %q is invalid", i+1, o.spec.Name),
		text, cursor,
	).wrap(cause).with(
		slog.String("option", o.spec.Name),
		slog.Int("argument", i+1),
	)
}

// Name returns the option's name.
func (o *Option) Name() string { return o.spec.Name }

// Short returns the option's short form, or "" if it has none.
func (o *Option) Short() string { return o.spec.Short }

// Description returns the option's description.
func (o *Option) Description() string { return o.spec.Description }

// Arguments returns the option's compiled arguments in order.
func (o *Option) Arguments() []*Argument { return append([]*Argument(nil), o.args...) }

// Flags returns the literal flags matched by the option, long form first.
func (o *Option) Flags() []string {
	flags := []string{"--" + o.spec.Name}
	if o.spec.Short != "" {
		flags = append(flags, "-"+o.spec.Short)
	}

	return flags
}

// Usage returns a short synopsis such as "[--count|-c <n:int>]".
func (o *Option) Usage() string {
	var sb strings.Builder

	sb.WriteByte('[')
	sb.WriteString(strings.Join(o.Flags(), "|"))

	for _, a := range o.args {
		sb.WriteByte(' ')
		sb.WriteString(a.Usage())
	}

	sb.WriteByte(']')

	return sb.String()
}

func lookupArg(args []ArgumentResult, name string) (any, bool) {
	for _, a := range args {
		if a.Name == name {
			return a.Value, true
		}
	}

	return nil, false
}
