package transcription_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/transcription"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Transcribe(context.Context, transcription.Request) (*transcription.Response, error) {
	return &transcription.Response{Text: "ok"}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := transcription.NewRegistry()
	reg.Register("stub", func(cfg transcription.Config) (transcription.Provider, error) {
		return stubProvider{name: cfg.Model}, nil
	})

	p, err := reg.Create(transcription.Config{Provider: "stub", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "m", p.Name())

	_, err = reg.Create(transcription.Config{Provider: "missing"})
	assert.ErrorContains(t, err, `unknown provider "missing"`)
	assert.Equal(t, []string{"stub"}, reg.Names())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"timeout", httpclient.NewTimeoutError(context.DeadlineExceeded), errors.ErrCodeCapabilityTransient},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), errors.ErrCodeCapabilityTransient},
		{"rate limit", httpclient.ClassifyStatusCode(429, nil), errors.ErrCodeCapabilityTransient},
		{"auth", httpclient.ClassifyStatusCode(401, nil), errors.ErrCodeCapabilityFatal},
		{"unknown", fmt.Errorf("boom"), errors.ErrCodeCapabilityFatal},
		{"already fatal", errors.FatalCapability("x", nil), errors.ErrCodeCapabilityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transcription.Classify("openai", tt.err)
			assert.True(t, errors.IsCode(got, tt.code), "got %v", got)
		})
	}
	assert.NoError(t, transcription.Classify("openai", nil))
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg transcription.Config
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, []float64{0.2, 0.0, 0.4, 0.3, 0.6}, cfg.Temperatures)
	assert.Equal(t, 5, cfg.MaxAttempts)

	cfg.Temperatures = []float64{0.2, 1.5}
	assert.Error(t, cfg.Validate())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", transcription.ContentType("/tmp/a.MP3"))
	assert.Equal(t, "audio/wav", transcription.ContentType("x.wav"))
	assert.Equal(t, "application/octet-stream", transcription.ContentType("x.bin"))
}
