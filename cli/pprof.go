//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the selected command (${enum})" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory, one subdirectory per command"       type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// profileDir returns the directory holding the profiles of command, a kong
// command path such as "check" or "run <line> ...". Placeholders are
// dropped so that each subcommand keeps its own profiles.
func (f pprofConfig) profileDir(command string) string {
	var words []string

	for _, w := range strings.Fields(command) {
		if !strings.HasPrefix(w, "<") && !strings.HasPrefix(w, "[") && w != "..." {
			words = append(words, w)
		}
	}

	if len(words) == 0 {
		return f.Dir
	}

	return filepath.Join(f.Dir, strings.Join(words, "-"))
}

// start profiles command in the configured mode. The returned function
// stops profiling and is a no-op when profiling is disabled.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	dir := f.profileDir(command)

	p := profile.New(
		profile.WithMode(f.Mode),
		profile.WithPath(dir),
		profile.WithQuiet(true),
	)
	if !p.Enabled() {
		return func() {}
	}

	logger := log.Default().Component(profile.Tag).With(
		slog.String("mode", f.Mode),
		slog.String("dir", dir),
	)

	logger.DebugContext(ctx, "profiling started")

	profiler := p.Start()

	return func() {
		profiler.Stop()
		logger.DebugContext(ctx, "profiling stopped")
	}
}
