// Package cli contains the command line interface for cmdsyntax.
//
// # Usage
//
// Every subcommand reads the command manifests given with --manifest. The
// default subcommand runs its arguments (or each line of stdin) through the
// manifest actions:
//
//	cmdsyntax -m greet.yaml 'plz:greet bob --loud'
//	cmdsyntax -m greet.yaml parse --format json 'plz:greet bob'
//	cmdsyntax -m greet.yaml check
//	cmdsyntax -m greet.yaml repl
//
// # Configuration
//
// Flag defaults are read from the "config" mapping of the YAML file
// config.yaml in the user configuration directory. Flag names may use
// hyphens or underscores:
//
//	config:
//	  log_level: debug
//	  manifest: [/etc/cmdsyntax/greet.yaml]
//
// The init subcommand writes this file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/cmdsyntax/pprof)
package cli
