// Package profile starts and stops optional runtime profiling.
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] always returns a no-op stopper, so
// callers never need to guard their calls:
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// Profiles are written by [github.com/pkg/profile] into Path, one file per
// mode (cpu.pprof, mem.pprof, and so on), and can be inspected with
// "go tool pprof". The windstyle command exposes this through its
// --pprof-mode and --pprof-dir flags when built with the tag:
//
//	go build -tags pprof .
//	./windstyle --pprof-mode cpu eval '["interpolate", ["linear"], ["zoom"], 0, "red", 10, "blue"]'
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
