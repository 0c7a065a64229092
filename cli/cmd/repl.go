package cmd

import (
	"context"
	"io"

	"github.com/ardnew/cmdsyntax/cli/cmd/repl"
	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/manifest"
	"github.com/ardnew/cmdsyntax/syntax"
)

// Repl starts an interactive shell running lines through the loaded
// manifests.
type Repl struct {
	Lenient bool `help:"Ignore input left over after a command" short:"L"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	load := func(w io.Writer) (*manifest.Dispatcher, error) {
		return loadDispatcher(ctx, w, syntax.WithStrict(!r.Lenient))
	}

	return repl.Run(ctx, load, cacheDir, log.Default())
}
