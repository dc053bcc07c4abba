package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/scribe/process"
)

// FFmpeg implements Media with the ffprobe and ffmpeg binaries.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
	runner  *process.Runner
}

// NewFFmpeg creates an FFmpeg media backend. Every invocation shares one
// runner, so cfg.Workers bounds concurrent transcodes process-wide.
func NewFFmpeg(cfg Config) *FFmpeg {
	return &FFmpeg{
		ffmpeg:  cfg.FFmpegPath,
		ffprobe: cfg.FFprobePath,
		runner: process.NewRunner(process.RunnerConfig{
			Name:          "ffmpeg",
			MaxConcurrent: cfg.Workers,
			Timeout:       cfg.Timeout,
		}),
	}
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe and returns the first audio stream's parameters.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	res, err := f.runner.Run(ctx, process.Command{
		Binary: f.ffprobe,
		Args:   []string{"-v", "error", "-print_format", "json", "-show_streams", "-show_format", path},
	})
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w: %s", err, res.StderrTail(300))
	}
	return parseProbe(res.Stdout)
}

func parseProbe(data []byte) (*ProbeInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ffprobe: decode output: %w", err)
	}

	info := &ProbeInfo{Format: out.Format.FormatName}
	info.DurationSeconds, _ = strconv.ParseFloat(out.Format.Duration, 64)
	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		info.HasAudio = true
		info.Channels = s.Channels
		info.SampleRateHz, _ = strconv.Atoi(s.SampleRate)
		if info.DurationSeconds == 0 {
			info.DurationSeconds, _ = strconv.ParseFloat(s.Duration, 64)
		}
		break
	}
	return info, nil
}

var (
	meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?inf|-?[\d.]+) dB`)
	maxVolumeRe  = regexp.MustCompile(`max_volume:\s*(-?inf|-?[\d.]+) dB`)
)

// Level runs the volumedetect filter and parses its report.
func (f *FFmpeg) Level(ctx context.Context, path string) (*Level, error) {
	res, err := f.runner.Run(ctx, process.Command{
		Binary: f.ffmpeg,
		Args:   []string{"-hide_banner", "-nostats", "-i", path, "-vn", "-sn", "-dn", "-af", "volumedetect", "-f", "null", "-"},
	})
	if err != nil {
		return nil, fmt.Errorf("ffmpeg volumedetect: %w: %s", err, res.StderrTail(300))
	}
	return parseVolumeDetect(string(res.Stderr))
}

func parseVolumeDetect(stderr string) (*Level, error) {
	mean := meanVolumeRe.FindStringSubmatch(stderr)
	peak := maxVolumeRe.FindStringSubmatch(stderr)
	if mean == nil || peak == nil {
		return nil, fmt.Errorf("ffmpeg volumedetect: no volume report in output")
	}
	return &Level{MeanDBFS: parseDB(mean[1]), PeakDBFS: parseDB(peak[1])}, nil
}

func parseDB(s string) float64 {
	if strings.HasSuffix(s, "inf") {
		return SilenceDBFS
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < SilenceDBFS {
		return SilenceDBFS
	}
	return v
}

// Transform transcodes in to out.
func (f *FFmpeg) Transform(ctx context.Context, in, out string, opts TransformOptions) error {
	res, err := f.runner.Run(ctx, process.Command{
		Binary: f.ffmpeg,
		Args:   transformArgs(in, out, opts),
	})
	if err != nil {
		return fmt.Errorf("ffmpeg transform: %w: %s", err, res.StderrTail(300))
	}
	return nil
}

func transformArgs(in, out string, opts TransformOptions) []string {
	args := []string{"-hide_banner", "-nostats", "-loglevel", "error", "-y", "-i", in, "-vn"}
	if opts.Mono {
		args = append(args, "-ac", "1")
	}
	if opts.SampleRateHz > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRateHz))
	}

	filters := append([]string(nil), opts.Filters...)
	if opts.GainDB != 0 {
		filters = append(filters, fmt.Sprintf("volume=%.2fdB", opts.GainDB))
	}
	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}

	switch opts.Format {
	case "mp3":
		args = append(args, "-c:a", "libmp3lame")
	case "wav":
		args = append(args, "-c:a", "pcm_s16le")
	}
	if opts.BitrateKbps > 0 && opts.Format != "wav" {
		args = append(args, "-b:a", strconv.Itoa(opts.BitrateKbps)+"k")
	}
	if opts.Format != "" {
		args = append(args, "-f", opts.Format)
	}
	return append(args, out)
}
