// Package platform provides the host side of a Miltov program: the sinks that
// receive message and shout output, and the actions scripts may call.
//
// [Console] writes output for people, [Recorder] keeps it for inspection, and
// [Builtins] returns the standard action registry:
//
//   - string and number helpers backed by expr-lang builtins, such as
//     upper, lower, trim, len, abs, round, max and repeat
//   - eval, which evaluates an expr-lang expression against its arguments
//   - env, which reads a process environment variable
//   - pathprefix and pathprefixif, which edit PATH-like lists
//   - print, which forwards general expressions to a sink
//
// Actions receive and return [lang.Value]. Arguments are converted with
// [lang.Value.Native] and results with [lang.FromNative], so expr-lang
// results that Miltov cannot represent (slices, maps) arrive as their
// printed form.
package platform
