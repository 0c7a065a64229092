package manifest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/cmdsyntax/syntax"
)

// Compile resolves every declaration of m against reg and returns a
// [Dispatcher] over the resulting command set. A nil reg means
// [syntax.Builtins].
//
// Filter and action expressions are compiled here, so a manifest that
// compiles never fails on a malformed expression at parse time.
func (m *Manifest) Compile(reg *syntax.Registry, opts ...Option) (*Dispatcher, error) {
	o := makeOptions(opts...)

	specs := make([]syntax.CommandSpec, 0, len(m.Commands))

	for _, c := range m.Commands {
		spec, err := c.compile(o)
		if err != nil {
			return nil, err
		}

		specs = append(specs, spec)
	}

	setOpts := append([]syntax.SetOption{syntax.WithLogger(o.logger)}, o.setOpts...)

	set, err := syntax.CompileCommandSet(specs, reg, setOpts...)
	if err != nil {
		return nil, err
	}

	return NewDispatcher(set, m.Prefix, WithLogger(o.logger)), nil
}

func (c CommandDecl) compile(o options) (syntax.CommandSpec, error) {
	attr := slog.String("command", c.Name)

	spec := syntax.CommandSpec{
		Name:        c.Name,
		Description: c.Description,
		Arguments:   make([]syntax.ArgumentSpec, 0, len(c.Arguments)),
		Options:     make([]syntax.OptionSpec, 0, len(c.Options)),
	}

	for _, a := range c.Arguments {
		as, err := a.compile()
		if err != nil {
			return spec, syntax.WrapError(err).With(attr)
		}

		spec.Arguments = append(spec.Arguments, as)
	}

	for _, od := range c.Options {
		specOpt := syntax.OptionSpec{
			Name:        od.Name,
			Short:       od.Short,
			Description: od.Description,
			Arguments:   make([]syntax.ArgumentSpec, 0, len(od.Arguments)),
		}

		for _, a := range od.Arguments {
			as, err := a.compile()
			if err != nil {
				return spec, syntax.WrapError(err).
					With(attr, slog.String("option", od.Name))
			}

			specOpt.Arguments = append(specOpt.Arguments, as)
		}

		spec.Options = append(spec.Options, specOpt)
	}

	if c.Action != "" {
		h, err := compileAction(c.Action, o.output)
		if err != nil {
			return spec, syntax.WrapError(err).With(attr)
		}

		spec.Handler = h
	}

	return spec, nil
}

func (a ArgumentDecl) compile() (syntax.ArgumentSpec, error) {
	spec := syntax.ArgumentSpec{
		Name:        a.Name,
		Label:       a.Label,
		Description: a.Description,
		Type:        []string(a.Type),
		Default:     normalize(a.Default),
		Error:       a.Error,
		Min:         a.Min,
		Max:         a.Max,
	}

	if len(a.OneOf) > 0 {
		spec.OneOf = make([]any, len(a.OneOf))
		for i, v := range a.OneOf {
			spec.OneOf[i] = normalize(v)
		}
	}

	if a.Filter != nil {
		pred, err := compileFilter(a.Filter.Expr)
		if err != nil {
			return spec, syntax.WrapError(err).With(slog.String("argument", a.Name))
		}

		spec.Filter = &syntax.Filter{Predicate: pred, Error: a.Filter.Error}
	}

	return spec, nil
}

func compileFilter(source string) (func(any) bool, error) {
	program, err := expr.Compile(source,
		expr.Env(map[string]any{"value": any(nil)}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrFilterExpr.Wrap(err).With(slog.String("source", source))
	}

	return func(value any) bool {
		out, err := vm.Run(program, map[string]any{"value": value})
		if err != nil {
			return false
		}

		ok, _ := out.(bool)

		return ok
	}, nil
}

func compileAction(source string, w io.Writer) (syntax.Handler, error) {
	program, err := expr.Compile(source, expr.Env(actionEnv(syntax.CommandResult{})))
	if err != nil {
		return nil, ErrActionExpr.Wrap(err).With(slog.String("source", source))
	}

	return func(_ context.Context, res syntax.CommandResult) error {
		out, err := vm.Run(program, actionEnv(res))
		if err != nil {
			return ErrAction.Wrap(err).With(slog.String("source", source))
		}

		if out == nil {
			return nil
		}

		_, err = fmt.Fprintln(w, out)

		return err
	}, nil
}

// actionEnv exposes a command result to an action expression.
func actionEnv(res syntax.CommandResult) map[string]any {
	args := make(map[string]any, len(res.Arguments))
	for _, a := range res.Arguments {
		args[a.Name] = a.Value
	}

	opts := make(map[string]any, len(res.Options))

	for _, o := range res.Options {
		occ := make(map[string]any, len(o.Arguments))
		for _, a := range o.Arguments {
			occ[a.Name] = a.Value
		}

		list, _ := opts[o.Name].([]any)
		opts[o.Name] = append(list, occ)
	}

	return map[string]any{
		"command": res.Command,
		"args":    args,
		"opts":    opts,
		"has":     hasOption,
	}
}

func hasOption(opts map[string]any, name string) bool {
	_, ok := opts[name]

	return ok
}

// normalize converts YAML integers to int so that defaults and allow-list
// entries have the same Go type as values parsed by the int type.
func normalize(v any) any {
	switch n := v.(type) {
	case uint64:
		if n <= math.MaxInt {
			return int(n)
		}
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}

		return out
	}

	return v
}
