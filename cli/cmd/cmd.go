package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cmdsyntax/extra"
	"github.com/ardnew/cmdsyntax/log"
	"github.com/ardnew/cmdsyntax/manifest"
	"github.com/ardnew/cmdsyntax/syntax"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the kong application in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the standard error of the kong application in ctx.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

type manifestsKey struct{}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithManifests returns a new context.Context holding the manifest paths
// to load.
//
// Paths naming the same file (through symlinks, relative and absolute forms,
// or a device file for stdin) are kept once, in order of first appearance.
// All occurrences of "-" collapse into a single stdin entry placed last, so
// that regular files are read first. Paths that cannot be resolved are kept
// as given so that loading reports them.
func WithManifests(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, manifestsKey{}, uniqueManifests(paths))
}

func uniqueManifests(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	hasStdin := false

	for _, path := range paths {
		if path == manifest.StdinSource {
			hasStdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if !ok {
			unique = append(unique, path)

			continue
		}

		if stdinOK && key == stdinKey {
			hasStdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, path)
	}

	if hasStdin {
		unique = append(unique, manifest.StdinSource)
	}

	return unique
}

// resolveFileKey resolves path through symlinks and returns the identity of
// the file it names.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// manifestsFrom retrieves the manifest paths stored in ctx by
// WithManifests.
func manifestsFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(manifestsKey{}).([]string)

	return paths
}

// loadDispatcher loads and compiles the manifests in ctx with the extended
// type registry. Action output is written to w.
func loadDispatcher(
	ctx context.Context,
	w io.Writer,
	opts ...syntax.SetOption,
) (*manifest.Dispatcher, error) {
	m, err := loadManifest(ctx)
	if err != nil {
		return nil, err
	}

	reg, err := extra.Registry()
	if err != nil {
		return nil, err
	}

	return m.Compile(reg,
		manifest.WithOutput(w),
		manifest.WithLogger(log.Default()),
		manifest.WithSetOptions(opts...),
	)
}

func loadManifest(ctx context.Context) (*manifest.Manifest, error) {
	paths := manifestsFrom(ctx)
	if len(paths) == 0 {
		return nil, ErrNoManifest
	}

	return manifest.LoadAll(ctx, paths, manifest.WithLogger(log.Default()))
}
