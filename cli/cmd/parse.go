package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/cmdsyntax/manifest"
	"github.com/ardnew/cmdsyntax/pkg"
	"github.com/ardnew/cmdsyntax/syntax"
)

// Output formats of the parse command.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Parse prints the structured result of each command line without running
// any action.
type Parse struct {
	Format    string `default:"yaml" enum:"json,yaml" help:"Output format (${enum})" short:"F"`
	Indent    int    `default:"2"                     help:"Indent width (0 for compact output)" short:"i"`
	KeepGoing bool   `help:"Continue with the next line after a failure" short:"k"`
	Lenient   bool   `help:"Ignore input left over after a command"      short:"L"`

	Lines []string `arg:"" help:"Command lines to parse (default: one per line of stdin)" name:"line" optional:""`

	in io.Reader
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	d, err := loadDispatcher(ctx, io.Discard, syntax.WithStrict(!p.Lenient))
	if err != nil {
		return err
	}

	lines := (&Exec{Lines: p.Lines, in: p.in}).lines(ctx)

	var errs pkg.Error

	for n, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		res, err := d.Parse(line)

		switch {
		case err == nil:
			if err := p.write(ctx, stdout(ctx), res); err != nil {
				return err
			}

			continue

		case errors.Is(err, manifest.ErrNoPrefix):
			continue
		}

		err = ErrRunLine.Wrap(err).With(slog.Int("line", n))
		reportLine(stderr(ctx), n, err)

		if !p.KeepGoing {
			return err
		}

		errs = errs.Wrap(err)
	}

	return errs.Err()
}

// write encodes res to w in the selected format.
func (p *Parse) write(ctx context.Context, w io.Writer, res syntax.CommandResult) error {
	var (
		data []byte
		err  error
	)

	switch p.Format {
	case FormatJSON:
		if p.Indent > 0 {
			data, err = json.MarshalIndent(res, "", strings.Repeat(" ", p.Indent))
		} else {
			data, err = json.Marshal(res)
		}

		if err != nil {
			return ErrMarshal.Wrap(fmt.Errorf("%w: %w", pkg.ErrJSONMarshal, err))
		}

		data = append(data, '\n')

	case FormatYAML:
		opt := yaml.Flow(true)
		if p.Indent > 0 {
			opt = yaml.Indent(p.Indent)
		}

		data, err = yaml.MarshalContext(ctx, res, opt)
		if err != nil {
			return ErrMarshal.Wrap(fmt.Errorf("%w: %w", pkg.ErrYAMLMarshal, err))
		}

		// Separate the documents of consecutive lines.
		data = append([]byte("---\n"), data...)

	default:
		return ErrMarshal.Wrap(fmt.Errorf("%w: %q (valid formats: %s, %s)",
			pkg.ErrInvalidFormat, p.Format, FormatJSON, FormatYAML))
	}

	_, err = w.Write(data)

	return err
}
