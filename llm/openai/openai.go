// Package openai implements the llm Dialect for OpenAI-compatible chat
// completion APIs (POST /v1/chat/completions).
package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/scribe/llm"
)

// DialectName is the registered name of this dialect.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm types to the OpenAI chat completions format.
type Dialect struct{}

var _ llm.Dialect = Dialect{}

func (Dialect) Name() string           { return DialectName }
func (Dialect) DefaultBaseURL() string { return "https://api.openai.com" }
func (Dialect) ChatPath() string       { return "/v1/chat/completions" }
func (Dialect) HealthPath() string     { return "/v1/models" }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []llm.Message   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      llm.Message `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

// BuildRequest maps a completion request to the chat completions body.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := req.AllMessages()
	if len(msgs) == 0 {
		return nil, errors.New("openai: at least one message is required")
	}
	body := chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return body, nil
}

// ParseResponse reads the first choice.
func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}
	choice := resp.Choices[0]
	return &llm.CompletionResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
		Usage:        resp.Usage,
	}, nil
}
