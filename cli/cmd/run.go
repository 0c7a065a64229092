package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/manifest"
	"github.com/ardnew/cmdsyntax/pkg"
	"github.com/ardnew/cmdsyntax/syntax"
)

// Exec runs command lines through the actions of the loaded manifests.
type Exec struct {
	KeepGoing bool `help:"Continue with the next line after a failure" short:"k"`
	Lenient   bool `help:"Ignore input left over after a command"      short:"L"`

	Lines []string `arg:"" help:"Command lines to run (default: one per line of stdin)" name:"line" optional:""`

	in io.Reader
}

// Run executes the run command.
func (e *Exec) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	d, err := loadDispatcher(ctx, stdout(ctx), syntax.WithStrict(!e.Lenient))
	if err != nil {
		return err
	}

	var errs pkg.Error

	for n, line := range e.lines(ctx) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		_, err := d.Dispatch(ctx, line)

		switch {
		case err == nil:
			continue

		case errors.Is(err, manifest.ErrNoPrefix):
			log.TraceContext(ctx, "line skipped", slog.Int("line", n))

			continue
		}

		err = ErrRunLine.Wrap(err).With(slog.Int("line", n))
		reportLine(stderr(ctx), n, err)

		if !e.KeepGoing {
			return err
		}

		errs = errs.Wrap(err)
	}

	return errs.Err()
}

// lines yields the numbered command lines, from the arguments if any were
// given and from standard input otherwise.
func (e *Exec) lines(ctx context.Context) func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		if len(e.Lines) > 0 {
			for i, line := range e.Lines {
				if !yield(i+1, line) {
					return
				}
			}

			return
		}

		in := e.in
		if in == nil {
			in = os.Stdin
		}

		scanner := bufio.NewScanner(in)
		for n := 1; scanner.Scan(); n++ {
			if ctx.Err() != nil || !yield(n, scanner.Text()) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			log.ErrorContext(ctx, "read lines", log.Err(ErrReadLines.Wrap(err)))
		}
	}
}

// reportLine writes a failure with its position and suggestions to w.
func reportLine(w io.Writer, n int, err error) {
	fmt.Fprintf(w, "line %d: %v\n", n, err)

	pe, ok := syntax.AsParseError(err)
	if !ok {
		return
	}

	inner := pe.Innermost()
	fmt.Fprintf(w, "  at offset %d: %q\n", inner.Index, inner.Target)

	if names := syntax.Suggestions(err); len(names) > 0 {
		fmt.Fprintf(w, "  did you mean: %s?\n", strings.Join(names, ", "))
	}
}
