// Package profile provides optional runtime profiling for cmdsyntax.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time using the "pprof" build tag. Without the tag, [Modes] is empty and
// [Profiler.Start] always returns a no-op.
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace:
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the configured directory with names matching
// the mode (e.g., cpu.pprof), for analysis with go tool pprof:
//
//	go tool pprof -http=: ./cmdsyntax cpu.pprof
//
// With the tag, the package also imports [net/http/pprof], which registers
// the /debug/pprof/ handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
