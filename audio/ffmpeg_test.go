package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbe(t *testing.T) {
	out := []byte(`{
	  "streams": [
	    {"codec_type": "video", "width": 640},
	    {"codec_type": "audio", "sample_rate": "44100", "channels": 2, "duration": "12.5"}
	  ],
	  "format": {"format_name": "mov,mp4,m4a,3gp", "duration": "12.512"}
	}`)
	info, err := parseProbe(out)
	require.NoError(t, err)
	assert.True(t, info.HasAudio)
	assert.Equal(t, 44100, info.SampleRateHz)
	assert.Equal(t, 2, info.Channels)
	assert.InDelta(t, 12.512, info.DurationSeconds, 1e-9)

	info, err = parseProbe([]byte(`{"streams":[{"codec_type":"video"}],"format":{"format_name":"mp4"}}`))
	require.NoError(t, err)
	assert.False(t, info.HasAudio)

	_, err = parseProbe([]byte("not json"))
	assert.Error(t, err)
}

func TestParseVolumeDetect(t *testing.T) {
	stderr := `[Parsed_volumedetect_0 @ 0x1] n_samples: 441000
[Parsed_volumedetect_0 @ 0x1] mean_volume: -27.3 dB
[Parsed_volumedetect_0 @ 0x1] max_volume: -4.0 dB`
	lvl, err := parseVolumeDetect(stderr)
	require.NoError(t, err)
	assert.Equal(t, -27.3, lvl.MeanDBFS)
	assert.Equal(t, -4.0, lvl.PeakDBFS)

	lvl, err = parseVolumeDetect("mean_volume: -inf dB\nmax_volume: -inf dB")
	require.NoError(t, err)
	assert.Equal(t, SilenceDBFS, lvl.MeanDBFS)

	_, err = parseVolumeDetect("Output file is empty")
	assert.Error(t, err)
}

func TestTransformArgs(t *testing.T) {
	args := transformArgs("in.flac", "out.mp3", TransformOptions{
		Mono: true, SampleRateHz: 16000, GainDB: 6.5, Filters: []string{"highpass=f=80"}, BitrateKbps: 96, Format: "mp3",
	})
	assert.Equal(t, []string{
		"-hide_banner", "-nostats", "-loglevel", "error", "-y", "-i", "in.flac", "-vn",
		"-ac", "1", "-ar", "16000",
		"-af", "highpass=f=80,volume=6.50dB",
		"-c:a", "libmp3lame", "-b:a", "96k", "-f", "mp3", "out.mp3",
	}, args)

	args = transformArgs("in.mp3", "out.wav", TransformOptions{Format: "wav", BitrateKbps: 128})
	assert.NotContains(t, args, "-b:a")
	assert.Contains(t, args, "pcm_s16le")
}
