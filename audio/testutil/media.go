// Package testutil provides an in-memory audio.Media for tests that must
// not depend on ffmpeg being installed.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kbukum/scribe/audio"
)

// Media is a scripted audio.Media. Probe and Level return the configured
// values; Transform writes a small placeholder file to the output path.
type Media struct {
	mu sync.Mutex

	Info     audio.ProbeInfo
	ProbeErr error
	Loudness audio.Level
	LevelErr error
	// FailTransforms fails every Transform call when set.
	FailTransforms bool

	transforms []audio.TransformOptions
	outputs    []string
}

var _ audio.Media = (*Media)(nil)

// NewMedia returns a Media describing a healthy mono 16 kHz MP3 of the
// given duration at -18 dBFS.
func NewMedia(durationSeconds float64) *Media {
	return &Media{
		Info: audio.ProbeInfo{
			DurationSeconds: durationSeconds,
			SampleRateHz:    16000,
			Channels:        1,
			Format:          "mp3",
			HasAudio:        true,
		},
		Loudness: audio.Level{MeanDBFS: -18, PeakDBFS: -3},
	}
}

// Probe implements audio.Media.
func (m *Media) Probe(context.Context, string) (*audio.ProbeInfo, error) {
	if m.ProbeErr != nil {
		return nil, m.ProbeErr
	}
	info := m.Info
	return &info, nil
}

// Level implements audio.Media.
func (m *Media) Level(context.Context, string) (*audio.Level, error) {
	if m.LevelErr != nil {
		return nil, m.LevelErr
	}
	level := m.Loudness
	return &level, nil
}

// Transform implements audio.Media.
func (m *Media) Transform(_ context.Context, _, out string, opts audio.TransformOptions) error {
	m.mu.Lock()
	m.transforms = append(m.transforms, opts)
	fail := m.FailTransforms
	if !fail {
		m.outputs = append(m.outputs, out)
	}
	m.mu.Unlock()
	if fail {
		return fmt.Errorf("ffmpeg: exit code 1: Invalid data found when processing input")
	}
	return os.WriteFile(out, []byte("encoded-audio"), 0o600)
}

// Transforms returns the options of every Transform call so far.
func (m *Media) Transforms() []audio.TransformOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]audio.TransformOptions(nil), m.transforms...)
}

// Outputs returns the paths written by successful Transform calls.
func (m *Media) Outputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.outputs...)
}

// WriteFile creates a placeholder audio file of size bytes in dir and
// returns its path.
func WriteFile(dir, name string, size int) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := f.Truncate(int64(size)); err != nil {
		return "", err
	}
	return path, nil
}
