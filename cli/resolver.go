package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cmdsyntax/log"
)

// resolve returns a [kong.ConfigurationLoader] reading the flag values
// stored under the top-level mapping key of a YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// Flag names may be written with hyphens or underscores:
//
//	config:
//	  log_level: debug
//	  log-format: json
//	  manifest: [greet.yaml, admin.yaml]
//
// Command-line flags override config file values. A malformed file is
// logged and otherwise ignored.
func resolve(ctx context.Context, key string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("key", key),
				log.Err(err),
			)

			return config{}, nil
		}

		sub, ok := doc[key].(map[string]any)
		if !ok {
			return config{}, nil
		}

		return makeConfig(sub), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// makeConfig converts decoded YAML values into the forms kong parses.
// Kong requires numbers as strings.
func makeConfig(m map[string]any) config {
	c := make(config, len(m))

	for key, val := range m {
		c[key] = flagString(val)
	}

	return c
}

func flagString(val any) any {
	switch v := val.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		list := make([]any, len(v))
		for i, e := range v {
			list[i] = flagString(e)
		}

		return list
	default:
		return val
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Let kong use the default.
	return nil, nil
}
