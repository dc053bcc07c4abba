package audio

import "context"

// ProbeInfo is the stream information reported by the media library.
type ProbeInfo struct {
	DurationSeconds float64
	SampleRateHz    int
	Channels        int
	// Format is the container name reported by the prober (e.g. "mov,mp4,m4a").
	Format   string
	HasAudio bool
}

// Level is a measured signal level.
type Level struct {
	MeanDBFS float64
	PeakDBFS float64
}

// TransformOptions describes one transcode.
type TransformOptions struct {
	Mono         bool
	SampleRateHz int
	// GainDB is applied after Filters. Zero leaves the level alone.
	GainDB float64
	// Filters are ffmpeg audio filter expressions applied in order.
	Filters     []string
	BitrateKbps int
	// Format is the output container, e.g. "mp3" or "wav".
	Format string
}

// Media is the decode/transcode capability.
type Media interface {
	// Probe reads stream information without decoding the whole file.
	Probe(ctx context.Context, path string) (*ProbeInfo, error)
	// Level measures mean and peak loudness.
	Level(ctx context.Context, path string) (*Level, error)
	// Transform writes a transcoded copy of in to out.
	Transform(ctx context.Context, in, out string, opts TransformOptions) error
}
