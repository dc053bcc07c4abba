// Package ollama implements the llm Dialect for Ollama's native chat API
// (POST /api/chat).
package ollama

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/scribe/llm"
)

// DialectName is the registered name of this dialect.
const DialectName = "ollama"

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm types to the Ollama chat format.
type Dialect struct{}

var _ llm.Dialect = Dialect{}

func (Dialect) Name() string           { return DialectName }
func (Dialect) DefaultBaseURL() string { return "http://localhost:11434" }
func (Dialect) ChatPath() string       { return "/api/chat" }
func (Dialect) HealthPath() string     { return "/api/tags" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// BuildRequest creates a non-streaming Ollama chat request.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	all := req.AllMessages()
	if len(all) == 0 {
		return nil, errors.New("ollama: at least one message is required")
	}
	msgs := make([]chatMessage, 0, len(all))
	for _, m := range all {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}
	body := chatRequest{
		Model:    req.Model,
		Messages: msgs,
		Options:  chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
	if req.JSON {
		body.Format = "json"
	}
	return body, nil
}

// ParseResponse maps done_reason onto the normalized finish reasons.
func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if !resp.Done {
		return nil, errors.New("ollama: incomplete response")
	}
	reason := resp.DoneReason
	if reason == "" {
		reason = llm.FinishReasonStop
	}
	return &llm.CompletionResponse{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		FinishReason: reason,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
