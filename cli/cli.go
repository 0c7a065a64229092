package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cmdsyntax/cli/cmd"
	"github.com/ardnew/cmdsyntax/pkg"
)

// CLI is the top-level command-line interface for cmdsyntax.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version  kong.VersionFlag `help:"Print version and exit"`
	Manifest []string         `help:"Command manifest file(s) or '-' for stdin" name:"manifest" short:"m"`

	Run   cmd.Exec  `cmd:"" default:"withargs" help:"Run command lines through manifest actions"`
	Parse cmd.Parse `cmd:""                    help:"Print the parse result of command lines"`
	Check cmd.Check `cmd:""                    help:"Validate manifests and list their commands"`
	Types cmd.Types `cmd:""                    help:"List the available value types"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive shell"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the cmdsyntax CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports anything, whatever their
	// position on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, cmd.ConfigKey), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithManifests(ctx, cli.Manifest)

	// Finalize logger configuration with the values that have no
	// TextUnmarshaler, such as TimeLayout and Caller.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, ktx.Command())()

	return ktx.Run(ctx, &cli)
}
