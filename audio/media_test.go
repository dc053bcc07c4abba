package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// fakeMedia records calls and writes placeholder output files.
type fakeMedia struct {
	mu sync.Mutex

	probe    *ProbeInfo
	probeErr error
	level    *Level
	levelErr error
	// failTransform fails the n-th Transform call (1-based); 0 never fails.
	failTransform map[int]bool
	transforms    []TransformOptions
}

func (f *fakeMedia) Probe(context.Context, string) (*ProbeInfo, error) {
	return f.probe, f.probeErr
}

func (f *fakeMedia) Level(context.Context, string) (*Level, error) {
	return f.level, f.levelErr
}

func (f *fakeMedia) Transform(_ context.Context, _, out string, opts TransformOptions) error {
	f.mu.Lock()
	f.transforms = append(f.transforms, opts)
	n := len(f.transforms)
	f.mu.Unlock()
	if f.failTransform[n] {
		return fmt.Errorf("ffmpeg transform: exit code 1: Invalid data found")
	}
	return os.WriteFile(out, []byte("encoded-audio"), 0o600)
}
