package syntax

import (
	"context"
	"iter"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cmdsyntax/log"
)

// maxSuggestions bounds the number of "did you mean" candidates attached to
// a command-not-found error.
const maxSuggestions = 3

// suggestionsKey is the attribute key holding suggested command names.
const suggestionsKey = "suggestions"

// CommandSet routes input to one of several commands by name.
type CommandSet struct {
	commands []*Command
	index    map[string]*Command
	logger   log.Logger
	strict   bool
}

// SetOption configures a [CommandSet].
type SetOption func(*CommandSet)

// WithStrict controls whether input left over after a successful command
// parse is rejected with [ErrTrailingInput]. Strict mode is the default.
func WithStrict(strict bool) SetOption {
	return func(s *CommandSet) { s.strict = strict }
}

// LogComponent is the [log.ComponentKey] value of records written by a
// [CommandSet].
const LogComponent = "syntax"

// WithLogger sets the logger used to trace routing decisions. Its records
// are tagged with [LogComponent].
func WithLogger(logger log.Logger) SetOption {
	return func(s *CommandSet) { s.logger = logger.Component(LogComponent) }
}

// NewCommandSet returns a router over commands, tried in the given order.
// Two commands with the same name are rejected with [ErrDuplicateCommand].
func NewCommandSet(commands []*Command, opts ...SetOption) (*CommandSet, error) {
	s := &CommandSet{
		commands: make([]*Command, 0, len(commands)),
		index:    make(map[string]*Command, len(commands)),
		strict:   true,
	}

	for _, c := range commands {
		if c == nil {
			return nil, ErrInvalidCommand.Wrapf("nil command")
		}

		if _, dup := s.index[c.Name()]; dup {
			return nil, ErrDuplicateCommand.
				Wrapf("%q", c.Name()).
				With(slog.String("command", c.Name()))
		}

		s.commands = append(s.commands, c)
		s.index[c.Name()] = c
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// CompileCommandSet compiles every spec against reg and returns a router
// over the results. A nil reg means [Builtins].
func CompileCommandSet(
	specs []CommandSpec,
	reg *Registry,
	opts ...SetOption,
) (*CommandSet, error) {
	commands := make([]*Command, 0, len(specs))

	for _, spec := range specs {
		c, err := CompileCommand(spec, reg)
		if err != nil {
			return nil, err
		}

		commands = append(commands, c)
	}

	return NewCommandSet(commands, opts...)
}

// Parse selects the first command whose name matches at cursor (after any
// leading whitespace) and parses the rest of the input with it.
//
// Since names are matched literally and the first match wins, a command
// whose name is a prefix of another's must be listed after it.
func (s *CommandSet) Parse(text string, cursor int) Outcome[CommandResult] {
	if !inRange(text, cursor) {
		return outOfRange[CommandResult](text, cursor)
	}

	start := skipSpace(text, cursor)

	for _, c := range s.commands {
		m := c.name(text, start)
		if !m.OK() {
			continue
		}

		if s.logger.Enabled(context.Background(), log.LevelTrace) {
			s.logger.Trace("command matched",
				slog.String("command", c.Name()),
				slog.Int("cursor", m.Cursor),
			)
		}

		r := c.Parse(text, m.Cursor)
		if !r.OK() || !s.strict {
			return r
		}

		if end := skipSpace(text, r.Cursor); end < len(text) {
			return failure[CommandResult](
				newParseError(ErrTrailingInput,
					"too many arguments: '"+text[end:]+"' is remaining",
					text, end,
				).with(slog.String("command", c.Name())),
				end,
			)
		}

		return r
	}

	word := leadingWord(text, start)

	return failure[CommandResult](
		newParseError(ErrCommandNotFound, "command not found", text, start).
			with(
				slog.String("input", word),
				slog.Any(suggestionsKey, s.Suggest(word)),
			),
		start,
	)
}

// Run parses text and invokes the selected command's handler.
//
// A parse failure is returned as is (a [*ParseError] carrying the complete
// chain of nested failures). A handler failure is wrapped in [ErrHandler].
// A command without a handler only parses.
func (s *CommandSet) Run(ctx context.Context, text string) (CommandResult, error) {
	o := s.Parse(text, 0)
	if !o.OK() {
		s.logger.DebugContext(ctx, "command rejected", slog.Any("error", o.Err))

		return o.Value, o.Err
	}

	res := o.Value

	s.logger.TraceContext(ctx, "command parsed",
		slog.String("command", res.Command),
		slog.Int("arguments", len(res.Arguments)),
		slog.Int("options", len(res.Options)),
	)

	if res.Handler == nil {
		return res, nil
	}

	if err := res.Handler(ctx, res); err != nil {
		return res, ErrHandler.Wrap(err).With(slog.String("command", res.Command))
	}

	return res, nil
}

// RunSync is like [CommandSet.Run] but reports failures to onError instead
// of returning them. A nil onError discards failures.
func (s *CommandSet) RunSync(ctx context.Context, text string, onError func(error)) {
	if _, err := s.Run(ctx, text); err != nil && onError != nil {
		onError(err)
	}
}

// Lookup returns the command with the given name.
func (s *CommandSet) Lookup(name string) (*Command, bool) {
	c, ok := s.index[name]

	return c, ok
}

// Len returns the number of commands.
func (s *CommandSet) Len() int { return len(s.commands) }

// Commands returns an iterator over the commands in routing order.
func (s *CommandSet) Commands() iter.Seq[*Command] {
	return func(yield func(*Command) bool) {
		for _, c := range s.commands {
			if !yield(c) {
				return
			}
		}
	}
}

// Names returns the command names in routing order.
func (s *CommandSet) Names() []string {
	names := make([]string, len(s.commands))
	for i, c := range s.commands {
		names[i] = c.Name()
	}

	return names
}

// Suggest returns up to three command names that fuzzily match word, best
// match first.
func (s *CommandSet) Suggest(word string) []string {
	if word == "" {
		return nil
	}

	matches := fuzzy.Find(word, s.Names())

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// Suggestions returns the command names suggested by a command-not-found
// error anywhere in err's chain.
func Suggestions(err error) []string {
	pe, ok := AsParseError(err)
	if !ok {
		return nil
	}

	for _, a := range pe.Attrs {
		if a.Key != suggestionsKey {
			continue
		}

		if names, ok := a.Value.Any().([]string); ok {
			return names
		}
	}

	return nil
}

// leadingWord returns the run of non-whitespace runes at cursor.
func leadingWord(text string, cursor int) string {
	end := cursor

	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return text[cursor:end]
}
