package profile

import (
	"slices"
	"testing"
)

func TestStartDisabled(t *testing.T) {
	t.Parallel()

	// An empty mode never starts a profiler, with or without the build tag.
	stop := Profiler{Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() with empty mode = %T, want no-op", stop)
	}

	stop.Stop()
	stop.Stop()
}

func TestStartUnknownMode(t *testing.T) {
	t.Parallel()

	stop := Profiler{Mode: "flame", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", stop)
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	modes := Modes()
	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if slices.Contains(modes, "") {
		t.Error("Modes() contains the empty mode")
	}
}
