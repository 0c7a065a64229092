package syntax

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Handler is invoked with the result of a successful command parse.
type Handler func(ctx context.Context, res CommandResult) error

// CommandSpec declares a command: its required positional arguments, the
// options that may appear anywhere around them, and its handler.
type CommandSpec struct {
	Name        string
	Description string
	Arguments   []ArgumentSpec
	Options     []OptionSpec
	Handler     Handler
}

// CommandResult holds the values parsed for one command invocation.
//
// Arguments are in declaration order, one per required argument. Options are
// in the order they were encountered in the input, which is independent of
// their declaration order and of the positions of the arguments.
type CommandResult struct {
	Command   string           `json:"command"   yaml:"command"`
	Arguments []ArgumentResult `json:"arguments" yaml:"arguments"`
	Options   []OptionResult   `json:"options"   yaml:"options"`
	Handler   Handler          `json:"-"         yaml:"-"`
}

// Arg returns the value of the named required argument.
func (r CommandResult) Arg(name string) (any, bool) {
	return lookupArg(r.Arguments, name)
}

// Option returns the first occurrence of the named option.
func (r CommandResult) Option(name string) (OptionResult, bool) {
	for _, o := range r.Options {
		if o.Name == name {
			return o, true
		}
	}

	return OptionResult{}, false
}

// OptionCount returns the number of occurrences of the named option.
func (r CommandResult) OptionCount(name string) int {
	n := 0

	for _, o := range r.Options {
		if o.Name == name {
			n++
		}
	}

	return n
}

// Command is a compiled [CommandSpec].
type Command struct {
	spec CommandSpec
	args []*Argument
	opts []*Option
	name Parser[string]
}

// CompileCommand compiles spec and all of its arguments and options against
// reg. A nil reg means [Builtins].
func CompileCommand(spec CommandSpec, reg *Registry) (*Command, error) {
	if spec.Name == "" || strings.IndexFunc(spec.Name, unicode.IsSpace) >= 0 {
		return nil, ErrInvalidCommand.
			Wrapf("command name %q must be non-empty without whitespace", spec.Name)
	}

	attr := slog.String("command", spec.Name)

	c := &Command{
		spec: spec,
		args: make([]*Argument, 0, len(spec.Arguments)),
		opts: make([]*Option, 0, len(spec.Options)),
		name: Literal(spec.Name),
	}

	for _, as := range spec.Arguments {
		a, err := CompileArgument(as, reg)
		if err != nil {
			return nil, WrapError(err).With(attr)
		}

		c.args = append(c.args, a)
	}

	seen := make(map[string]struct{}, 2*len(spec.Options))

	for _, optSpec := range spec.Options {
		o, err := CompileOption(optSpec, reg)
		if err != nil {
			return nil, WrapError(err).With(attr)
		}

		for _, flag := range o.Flags() {
			if _, dup := seen[flag]; dup {
				return nil, ErrDuplicateOption.
					Wrapf("%s", flag).
					With(attr, slog.String("option", o.Name()))
			}

			seen[flag] = struct{}{}
		}

		c.opts = append(c.opts, o)
	}

	return c, nil
}

// MatchName matches the command's name literally at cursor.
func (c *Command) MatchName(text string, cursor int) Outcome[string] {
	return c.name.Parse(text, cursor)
}

// Parse parses the command's arguments and options at cursor. The command
// name is expected to have been consumed already.
//
// Before each required argument, and once more after the last one, any
// number of options are consumed. An option argument failure or a required
// argument failure aborts the whole parse at the point of failure.
func (c *Command) Parse(text string, cursor int) Outcome[CommandResult] {
	if !inRange(text, cursor) {
		return outOfRange[CommandResult](text, cursor)
	}

	res := CommandResult{
		Command:   c.spec.Name,
		Arguments: make([]ArgumentResult, 0, len(c.args)),
		Options:   []OptionResult{},
		Handler:   c.spec.Handler,
	}

	cur := cursor

	for k := 0; ; k++ {
		scan := c.scanOptions(text, cur, &res)
		if !scan.OK() {
			return fail[int, CommandResult](scan)
		}

		cur = scan.Value

		if k == len(c.args) {
			break
		}

		a := c.args[k]
		start := skipSpace(text, cur)

		r := a.parseRequired(text, start)
		if !r.OK() {
			if a.Optional() {
				res.Arguments = append(res.Arguments, a.result(a.spec.Default))

				continue
			}

			return failure[CommandResult](c.argumentError(text, start, k, r.Err), start)
		}

		res.Arguments = append(res.Arguments, r.Value)
		cur = r.Cursor
	}

	return success(res, cur)
}

// scanOptions consumes consecutive options starting at cursor and appends
// them to res. The value of a successful outcome is the cursor after the
// last consumed option, or cursor itself if no flag matched.
func (c *Command) scanOptions(
	text string,
	cursor int,
	res *CommandResult,
) Outcome[int] {
	cur := cursor

	for {
		start := skipSpace(text, cur)

		opt, flag := c.matchFlag(text, start)
		if opt == nil {
			return success(cur, cur)
		}

		r := opt.ParseArguments(text, skipSpace(text, flag.Cursor))
		if !r.OK() {
			return fail[OptionResult, int](r)
		}

		res.Options = append(res.Options, r.Value)
		cur = r.Cursor
	}
}

// matchFlag tries the flag of every option in declaration order.
func (c *Command) matchFlag(text string, cursor int) (*Option, Outcome[string]) {
	for _, o := range c.opts {
		if m := o.flag(text, cursor); m.OK() {
			return o, m
		}
	}

	return nil, Outcome[string]{}
}

func (c *Command) argumentError(text string, cursor, k int, cause error) *ParseError {
	return newParseError(ErrCommandArgument,
		fmt.Sprintf("argument n°%d from command %q is invalid", k+1, c.spec.Name),
		text, cursor,
	).wrap(cause).with(
		slog.String("command", c.spec.Name),
		slog.Int("argument", k+1),
	)
}

// Name returns the command's name.
func (c *Command) Name() string { return c.spec.Name }

// Description returns the command's description.
func (c *Command) Description() string { return c.spec.Description }

// Handler returns the command's handler, which may be nil.
func (c *Command) Handler() Handler { return c.spec.Handler }

// Arguments returns the command's compiled required arguments in order.
func (c *Command) Arguments() []*Argument { return append([]*Argument(nil), c.args...) }

// Options returns the command's compiled options in declaration order.
func (c *Command) Options() []*Option { return append([]*Option(nil), c.opts...) }

// Usage returns a one-line synopsis of the command.
func (c *Command) Usage() string {
	parts := make([]string, 0, 1+len(c.args)+len(c.opts))
	parts = append(parts, c.spec.Name)

	for _, a := range c.args {
		parts = append(parts, a.Usage())
	}

	for _, o := range c.opts {
		parts = append(parts, o.Usage())
	}

	return strings.Join(parts, " ")
}
