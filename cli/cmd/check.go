package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/cmdsyntax/extra"
	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/manifest"
	"github.com/ardnew/cmdsyntax/syntax"
)

// Check validates the loaded manifests and lists the commands they declare.
type Check struct {
	Print bool `help:"Print the merged manifest instead of the command table" short:"p"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := loadManifest(ctx)
	if err != nil {
		return err
	}

	reg, err := extra.Registry()
	if err != nil {
		return err
	}

	d, err := m.Compile(reg, manifest.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "manifests valid",
		slog.Any("sources", m.Sources),
		slog.Int("commands", d.Set().Len()),
	)

	w := stdout(ctx)

	if c.Print {
		return m.Encode(ctx, w)
	}

	writeCommands(w, d)

	return nil
}

// writeCommands renders a table of the commands routed by d.
func writeCommands(w io.Writer, d *manifest.Dispatcher) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("COMMAND", "USAGE", "DESCRIPTION")

	for c := range d.Set().Commands() {
		t.Row(d.Prefix()+c.Name(), c.Usage(), c.Description())
	}

	fmt.Fprintln(w, t.Render())
}

// Types lists the value types available to manifest arguments.
type Types struct{}

// Run executes the types command.
func (Types) Run(ctx context.Context) error {
	reg, err := extra.Registry()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(ctx), typeTable(reg).Render())

	return nil
}

func typeTable(reg *syntax.Registry) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "KIND", "DESCRIPTION")

	for vt := range reg.All() {
		t.Row(vt.Name, vt.Kind.String(), vt.Description)
	}

	return t
}
