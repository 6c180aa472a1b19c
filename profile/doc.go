// Package profile provides optional runtime profiling for the defcull
// application.
//
// Profiling integrates [github.com/pkg/profile] behind the "pprof" build
// tag. When built without the tag (the default), all operations are no-ops
// with zero runtime overhead.
//
// A profiler is configured as a [Config] and started around the work to be
// measured:
//
//	ctrl := profile.Config(func() (string, string, bool) {
//		return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer ctrl.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (cpu.pprof, mem.pprof, and so on) and analyzed with
// the go tool pprof command. Use [Modes] to retrieve the list of supported
// modes programmatically.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
