// Package whisper implements transcription.Provider against a self-hosted
// faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/transcription"
)

const (
	// ProviderName is the registered name for the sidecar provider.
	ProviderName = "whisper"

	defaultURL   = "http://localhost:8387"
	defaultModel = "base"
)

// Provider talks to the sidecar's /transcribe endpoint.
type Provider struct {
	client *httpclient.Client
	model  string
}

// NewProvider creates a sidecar provider.
func NewProvider(cfg transcription.Config) (*Provider, error) {
	url := cfg.BaseURL
	if url == "" {
		url = defaultURL
	}
	model := cfg.Model
	if model == "" || model == "whisper-1" {
		model = defaultModel
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: url,
		Timeout: cfg.Timeout,
		Auth:    httpclient.KeyAuth(cfg.APIKey, cfg.APIKeyHeader),
		TLS:     &cfg.TLS,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client, model: model}, nil
}

// Factory returns a transcription.Factory for the registry.
func Factory() transcription.Factory {
	return func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

// Transcribe sends an audio file to the sidecar.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, transcription.Classify(ProviderName, fmt.Errorf("read audio file: %w", err))
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	fields := map[string]string{
		"model":       model,
		"temperature": strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: transcription.ContentType(req.AudioPath),
				Data:        data,
			}},
		},
	})
	if err != nil {
		return nil, transcription.Classify(ProviderName, err)
	}

	out, err := httpclient.DecodeJSON[transcription.Response](resp)
	if err != nil {
		return nil, transcription.Classify(ProviderName, err)
	}
	if out.Duration == 0 && len(out.Segments) > 0 {
		out.Duration = out.Segments[len(out.Segments)-1].End
	}
	return &out, nil
}
