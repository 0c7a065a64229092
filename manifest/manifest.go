package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/pkg"
	"github.com/ardnew/cmdsyntax/syntax"
)

// StdinSource is the manifest path that means standard input.
const StdinSource = "-"

// Manifest is a declarative command set.
type Manifest struct {
	// Prefix is stripped from every line before routing. Lines without it
	// are ignored by a [Dispatcher]. Empty means no prefix.
	Prefix   string        `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Commands []CommandDecl `json:"commands"         yaml:"commands"`

	// Sources names the documents the manifest was loaded from.
	Sources []string `json:"-" yaml:"-"`
}

// CommandDecl declares one command.
type CommandDecl struct {
	Name        string         `json:"name"                  yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []ArgumentDecl `json:"arguments,omitempty"   yaml:"arguments,omitempty"`
	Options     []OptionDecl   `json:"options,omitempty"     yaml:"options,omitempty"`
	Action      string         `json:"action,omitempty"      yaml:"action,omitempty"`
}

// OptionDecl declares one option of a command.
type OptionDecl struct {
	Name        string         `json:"name"                  yaml:"name"`
	Short       string         `json:"short,omitempty"       yaml:"short,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []ArgumentDecl `json:"arguments,omitempty"   yaml:"arguments,omitempty"`
}

// ArgumentDecl declares one argument of a command or option.
type ArgumentDecl struct {
	Name        string      `json:"name"                  yaml:"name"`
	Label       string      `json:"label,omitempty"       yaml:"label,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Type        TypeList    `json:"type"                  yaml:"type"`
	Default     any         `json:"default,omitempty"     yaml:"default,omitempty"`
	Error       string      `json:"error,omitempty"       yaml:"error,omitempty"`
	Filter      *FilterDecl `json:"filter,omitempty"      yaml:"filter,omitempty"`
	OneOf       []any       `json:"oneOf,omitempty"       yaml:"oneOf,omitempty"`
	Min         *float64    `json:"min,omitempty"         yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"         yaml:"max,omitempty"`
}

// FilterDecl is a predicate expression over the parsed value.
type FilterDecl struct {
	Expr  string `json:"expr"            yaml:"expr"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// TypeList holds the type names of an argument. In YAML it is written as a
// single name or as a sequence of names.
type TypeList []string

// UnmarshalYAML implements the goccy/go-yaml InterfaceUnmarshaler.
func (t *TypeList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*t = TypeList{v}

		return nil

	case []any:
		names := make(TypeList, 0, len(v))

		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return ErrInvalidTypeValue.Wrapf("got %v", item)
			}

			names = append(names, name)
		}

		*t = names

		return nil

	default:
		return ErrInvalidTypeValue.Wrapf("got %v", raw)
	}
}

// MarshalYAML writes a single type name as a scalar.
func (t TypeList) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}

	return []string(t), nil
}

// Option configures loading and compiling a manifest.
type Option func(*options)

type options struct {
	logger  log.Logger
	output  io.Writer
	source  string
	setOpts []syntax.SetOption
}

func makeOptions(opts ...Option) options {
	o := options{output: io.Discard}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// LogComponent is the [log.ComponentKey] value of records written by the
// loader and by a [Dispatcher].
const LogComponent = "manifest"

// WithLogger sets the logger of the loader and of the compiled command set.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput sets where action results are printed. The default discards
// them.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.output = w
	}
}

// WithSource names the document being loaded in errors and logs.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithSetOptions passes options to the compiled [syntax.CommandSet].
func WithSetOptions(opts ...syntax.SetOption) Option {
	return func(o *options) { o.setOpts = append(o.setOpts, opts...) }
}

// Load decodes one YAML manifest from r and validates it.
//
// Unknown keys are rejected. Every validation problem is reported at once in
// a [pkg.Error].
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Manifest, error) {
	o := makeOptions(opts...)
	attr := slog.String("source", o.source)

	var m Manifest

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.DecodeContext(ctx, &m); err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrDecode.Wrap(err).With(attr)
	}

	if o.source != "" {
		m.Sources = []string{o.source}
	}

	if err := m.Validate(); err != nil {
		return nil, ErrInvalid.Wrap(err).With(attr)
	}

	o.logger.Component(LogComponent).DebugContext(ctx, "manifest loaded",
		attr,
		slog.Int("commands", len(m.Commands)),
		slog.String("prefix", m.Prefix),
	)

	return &m, nil
}

// LoadAll loads every manifest file at paths ("-" for standard input) and
// merges them in order. Every failure is reported at once in a [pkg.Error].
//
// Commands are concatenated. All manifests declaring a prefix must declare
// the same one.
func LoadAll(ctx context.Context, paths []string, opts ...Option) (*Manifest, error) {
	var (
		all  Manifest
		errs pkg.Error
	)

	for _, path := range paths {
		m, err := loadFile(ctx, path, opts...)
		if err != nil {
			errs = errs.Wrap(err)

			continue
		}

		if err := all.merge(m); err != nil {
			errs = errs.Wrap(err.With(slog.String("source", path)))
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := all.Validate(); err != nil {
		return nil, ErrInvalid.Wrap(err)
	}

	return &all, nil
}

func loadFile(ctx context.Context, path string, opts ...Option) (*Manifest, error) {
	if path == StdinSource {
		return Load(ctx, os.Stdin, append(opts, WithSource("stdin"))...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("source", path))
	}
	defer f.Close()

	return Load(ctx, f, append(opts, WithSource(path))...)
}

func (m *Manifest) merge(other *Manifest) *syntax.Error {
	if other.Prefix != "" {
		if m.Prefix != "" && m.Prefix != other.Prefix {
			return ErrPrefixConflict.Wrapf("%q and %q", m.Prefix, other.Prefix)
		}

		m.Prefix = other.Prefix
	}

	m.Commands = append(m.Commands, other.Commands...)
	m.Sources = append(m.Sources, other.Sources...)

	return nil
}

// Validate checks the structure of the manifest: names are present, unique
// and free of whitespace, every argument has a type, and every filter has an
// expression. Types and refinements are checked by [Manifest.Compile].
func (m *Manifest) Validate() error {
	var errs pkg.Error

	seen := make(map[string]struct{}, len(m.Commands))

	for i, c := range m.Commands {
		where := fmt.Sprintf("commands[%d]", i)

		if !validName(c.Name) {
			errs = errs.Wrap(fmt.Errorf("%s: invalid command name %q", where, c.Name))
		} else if _, dup := seen[c.Name]; dup {
			errs = errs.Wrap(fmt.Errorf("%s: duplicate command %q", where, c.Name))
		}

		seen[c.Name] = struct{}{}

		errs = errs.Wrap(validateArguments(where, c.Arguments)...)

		flags := make(map[string]struct{}, 2*len(c.Options))

		for j, o := range c.Options {
			at := fmt.Sprintf("%s.options[%d]", where, j)

			if !validName(o.Name) {
				errs = errs.Wrap(fmt.Errorf("%s: invalid option name %q", at, o.Name))
			}

			for _, flag := range []string{"--" + o.Name, "-" + o.Short} {
				if flag == "-" {
					continue
				}

				if _, dup := flags[flag]; dup {
					errs = errs.Wrap(fmt.Errorf("%s: duplicate flag %s", at, flag))
				}

				flags[flag] = struct{}{}
			}

			errs = errs.Wrap(validateArguments(at, o.Arguments)...)
		}
	}

	return errs.Err()
}

func validateArguments(where string, args []ArgumentDecl) []error {
	var errs []error

	for i, a := range args {
		at := fmt.Sprintf("%s.arguments[%d]", where, i)

		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s: argument name is empty", at))
		}

		if len(a.Type) == 0 {
			errs = append(errs, fmt.Errorf("%s: argument %q has no type", at, a.Name))
		}

		if a.Filter != nil && strings.TrimSpace(a.Filter.Expr) == "" {
			errs = append(errs, fmt.Errorf("%s: filter of %q has no expression", at, a.Name))
		}
	}

	return errs
}

func validName(name string) bool {
	return name != "" && strings.IndexFunc(name, unicode.IsSpace) < 0
}

// Encode writes m as YAML to w.
func (m *Manifest) Encode(ctx context.Context, w io.Writer) error {
	buf, err := yaml.MarshalContext(ctx, m, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("%w: %w", pkg.ErrYAMLMarshal, err)
	}

	_, err = w.Write(buf)

	return err
}
