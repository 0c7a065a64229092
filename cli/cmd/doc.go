// Package cmd implements the cmdsyntax subcommands: run, parse, check,
// types, init and repl.
//
// Every subcommand reads the manifests named on the command line through
// [WithManifests] and reports failures as [Error] values.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// ConfigKey is the top-level mapping of the configuration file holding the
// flag values.
const ConfigKey = "config"
