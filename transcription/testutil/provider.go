// Package testutil provides a scripted transcription.Provider for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/scribe/transcription"
)

// Reply is one scripted outcome. Err takes precedence over Text.
type Reply struct {
	Text     string
	Language string
	Err      error
}

// Provider replays Replies in order, repeating the last one once the
// script runs out.
type Provider struct {
	mu       sync.Mutex
	name     string
	replies  []Reply
	requests []transcription.Request
	// Block, when set, is waited on before each reply.
	Block chan struct{}
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider returns a Provider named "fake" with the given script.
func NewProvider(replies ...Reply) *Provider {
	return &Provider{name: "fake", replies: replies}
}

// Name implements transcription.Provider.
func (p *Provider) Name() string { return p.name }

// Transcribe implements transcription.Provider.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	p.mu.Lock()
	n := len(p.requests)
	p.requests = append(p.requests, req)
	block := p.Block
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if len(p.replies) == 0 {
		return &transcription.Response{}, nil
	}
	r := p.replies[min(n, len(p.replies)-1)]
	if r.Err != nil {
		return nil, r.Err
	}
	return &transcription.Response{Text: r.Text, Language: r.Language}, nil
}

// Calls returns the number of Transcribe calls so far.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Requests returns every request received so far.
func (p *Provider) Requests() []transcription.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]transcription.Request(nil), p.requests...)
}
