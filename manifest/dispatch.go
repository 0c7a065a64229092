package manifest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/syntax"
)

// Dispatcher strips a constant prefix from each line and routes the rest
// through a command set.
type Dispatcher struct {
	set    *syntax.CommandSet
	prefix string
	logger log.Logger
}

// NewDispatcher returns a Dispatcher routing lines that start with prefix
// through set. An empty prefix accepts every line.
func NewDispatcher(set *syntax.CommandSet, prefix string, opts ...Option) *Dispatcher {
	o := makeOptions(opts...)

	return &Dispatcher{set: set, prefix: prefix, logger: o.logger.Component(LogComponent)}
}

// Set returns the underlying command set.
func (d *Dispatcher) Set() *syntax.CommandSet { return d.set }

// Prefix returns the dispatch prefix.
func (d *Dispatcher) Prefix() string { return d.prefix }

// Strip removes the dispatch prefix from line. It reports false if line does
// not start with the prefix.
func (d *Dispatcher) Strip(line string) (string, bool) {
	if d.prefix == "" {
		return line, true
	}

	return strings.CutPrefix(line, d.prefix)
}

// Parse strips the prefix from line and parses the remainder without running
// any handler.
func (d *Dispatcher) Parse(line string) (syntax.CommandResult, error) {
	body, ok := d.Strip(line)
	if !ok {
		return syntax.CommandResult{}, ErrNoPrefix.With(slog.String("prefix", d.prefix))
	}

	o := d.set.Parse(body, 0)
	if !o.OK() {
		return o.Value, o.Err
	}

	return o.Value, nil
}

// Dispatch strips the prefix from line and runs the selected command.
// A line without the prefix is rejected with [ErrNoPrefix] and nothing runs.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (syntax.CommandResult, error) {
	body, ok := d.Strip(line)
	if !ok {
		d.logger.TraceContext(ctx, "line ignored", slog.String("prefix", d.prefix))

		return syntax.CommandResult{}, ErrNoPrefix.With(slog.String("prefix", d.prefix))
	}

	return d.set.Run(ctx, body)
}
