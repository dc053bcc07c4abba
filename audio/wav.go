package audio

import (
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1

	// wavChunkSamples bounds the decode buffer; a long WAV is measured in
	// constant memory.
	wavChunkSamples = 1 << 14
)

// probeWAV measures an uncompressed PCM WAV file in-process. It returns
// ok=false for anything it cannot read so the caller can fall back to
// ffprobe.
func probeWAV(path string, sizeBytes int64) (desc *Descriptor, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() || dec.WavAudioFormat != wavFormatPCM || dec.BitDepth == 0 || dec.NumChans == 0 {
		return nil, false
	}
	channels := int(dec.NumChans)
	rate := int(dec.SampleRate)
	if rate <= 0 {
		return nil, false
	}

	meter := newLevelMeter(int(dec.BitDepth))
	buf := &goaudio.IntBuffer{Data: make([]int, wavChunkSamples)}
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, false
		}
		if n <= 0 {
			break
		}
		meter.add(buf.Data[:n])
	}
	mean, peak := meter.levels()

	return &Descriptor{
		Path:             path,
		DurationSeconds:  float64(meter.samples/int64(channels)) / float64(rate),
		SampleRateHz:     rate,
		Channels:         channels,
		LoudnessDBFS:     mean,
		PeakDBFS:         peak,
		LoudnessMeasured: true,
		Format:           "wav",
		SizeBytes:        sizeBytes,
	}, true
}

// levelMeter accumulates RMS and peak over integer samples.
type levelMeter struct {
	fullScale  float64
	sumSquares float64
	maxAbs     float64
	samples    int64
}

func newLevelMeter(bitDepth int) *levelMeter {
	return &levelMeter{fullScale: math.Pow(2, float64(bitDepth-1))}
}

func (m *levelMeter) add(samples []int) {
	for _, s := range samples {
		v := math.Abs(float64(s))
		m.sumSquares += v * v
		if v > m.maxAbs {
			m.maxAbs = v
		}
	}
	m.samples += int64(len(samples))
}

// levels returns RMS and peak in dBFS.
func (m *levelMeter) levels() (mean, peak float64) {
	if m.samples == 0 {
		return SilenceDBFS, SilenceDBFS
	}
	rms := math.Sqrt(m.sumSquares / float64(m.samples))
	return toDBFS(rms / m.fullScale), toDBFS(m.maxAbs / m.fullScale)
}

func toDBFS(ratio float64) float64 {
	if ratio <= 0 {
		return SilenceDBFS
	}
	return math.Max(SilenceDBFS, 20*math.Log10(ratio))
}
