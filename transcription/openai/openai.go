// Package openai implements transcription.Provider against the hosted
// Whisper API (POST /v1/audio/transcriptions).
package openai

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
	// ProviderName is the registered name for this provider.
	ProviderName = "openai"

	defaultBaseURL = "https://api.openai.com"
	endpoint       = "/v1/audio/transcriptions"
)

// Provider calls the OpenAI audio transcription endpoint.
type Provider struct {
	client *httpclient.Client
	model  string
}

// NewProvider creates a provider. The client carries no retry policy of its
// own; the adaptive driver owns retries.
func NewProvider(cfg transcription.Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL:        baseURL,
		Timeout:        cfg.Timeout,
		Auth:           httpclient.KeyAuth(cfg.APIKey, cfg.APIKeyHeader),
		TLS:            &cfg.TLS,
		CircuitBreaker: httpclient.DefaultCircuitBreakerConfig(ProviderName),
	})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client, model: cfg.Model}, nil
}

// Factory returns a transcription.Factory for the registry.
func Factory() transcription.Factory {
	return func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Transcribe uploads the audio file and returns the transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, transcription.Classify(ProviderName, fmt.Errorf("read audio file: %w", err))
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	format := req.ResponseFormat
	if format == "" {
		format = transcription.FormatVerboseJSON
	}

	fields := map[string]string{
		"model":           model,
		"response_format": format,
		"temperature":     strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   endpoint,
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: transcription.ContentType(req.AudioPath),
				Data:        data,
			}},
		},
	})
	if err != nil {
		return nil, transcription.Classify(ProviderName, err)
	}

	if format == transcription.FormatText {
		return &transcription.Response{Text: string(resp.Body), Language: req.Language}, nil
	}

	out, err := httpclient.DecodeJSON[transcription.Response](resp)
	if err != nil {
		return nil, transcription.Classify(ProviderName, err)
	}
	return &out, nil
}
