// Package log is the structured logger shared by the command engine, the
// manifest loader and the command line. It wraps [log/slog] with a
// configuration that can be rebuilt at any time and read concurrently.
//
// A [Logger] is made from an output and functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("ms"))
//
// Every level has a plain method and a Context method. The plain ones use
// [DefaultContextProvider].
//
// # Components
//
// Each part of the program logs through its own [Logger.Component], so that
// records carry a [ComponentKey] attribute:
//
//	set, err := syntax.CompileCommandSet(specs, reg,
//		syntax.WithLogger(logger)) // component=syntax
//
// The command set traces every routing decision at [LevelTrace] and checks
// [Logger.Enabled] before building attributes on the parse path.
//
// # Handlers
//
// [FormatJSON] and [FormatText] select slog's handlers. With [WithPretty]
// the colorized handlers are used instead: groups are flattened into dotted
// keys and [slog.LogValuer] values, such as parse errors, are resolved.
//
// [WithTimeLayout] accepts the layout names of the [time] package and a few
// short aliases ("ms", "us", "ns", "none"), compared without case or
// punctuation. Other strings are used as layouts verbatim.
//
// # Default Logger
//
// The package-level functions write to a default logger, reconfigured with
// [Config] once the command line has been parsed:
//
//	log.Config(log.WithLevel(log.ParseLevel("debug")), log.WithCaller(true))
package log
