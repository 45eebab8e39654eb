// Package profile provides optional runtime profiling for miltov.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag. Without the tag, [Modes] is empty and every
// [Config.Start] returns a no-op stopper.
//
// # Modes
//
// With the pprof tag the following modes are available:
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	go build -tags pprof .
//	./miltov --pprof-mode cpu run fib.milt
//	go tool pprof ./miltov ~/.cache/miltov/pprof/cpu.pprof
//
// Profiling a long interpreter run is the usual reason to enable this: the
// tree walker's hot paths (environment lookups, binary operators, call
// frames) show up directly in a CPU profile.
//
// The default output directory is the pprof subdirectory of the user cache
// directory for miltov.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
