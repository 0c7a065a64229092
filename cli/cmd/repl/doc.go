// Package repl implements an interactive shell over a compiled command set.
//
// Lines typed in run mode are routed through the command set (the dispatch
// prefix is optional) and action output is printed below the input. Press
// Esc to switch to control mode, which accepts help, list, reload, clear and
// quit.
//
// Command names and option flags are completed by fuzzy matching as you
// type, and the usage of the current command is shown as a hint. History is
// kept in the cache directory across sessions.
package repl
