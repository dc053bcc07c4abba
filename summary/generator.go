package summary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kbukum/scribe/llm"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/record"
)

// Store is the persistence Enrich writes to. *record.Store implements it.
type Store interface {
	SaveSummary(ctx context.Context, sum *record.Summary) error
}

// Content is the structured summary the model is asked to produce.
type Content struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
	Category    string   `json:"category"`
}

// Result is a generated summary plus how it was obtained.
type Result struct {
	Content
	Model string
	// Structured is false when the reply was not valid JSON and Summary
	// holds the raw reply.
	Structured bool
	Truncated  bool
}

// Generator produces summaries through an llm.Completer.
type Generator struct {
	llm   llm.Completer
	store Store
	cfg   Config
	log   *logger.Logger
}

// NewGenerator creates a Generator. store may be nil when only Generate is
// used.
func NewGenerator(c llm.Completer, store Store, cfg Config, log *logger.Logger) *Generator {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Generator{llm: c, store: store, cfg: cfg, log: log.WithComponent("summary")}
}

// Generate summarizes text. language is the transcript's detected
// language; anything other than English adds a preservation note to the
// prompt. Only a failed completion is an error.
func (g *Generator) Generate(ctx context.Context, text, language string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("summary: transcript is empty")
	}

	resp, err := g.llm.Execute(ctx, llm.CompletionRequest{
		Model:        g.cfg.Model,
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: userPrompt(text, language, g.cfg.Instructions)}},
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}

	res := parse(resp.Content)
	res.Model = resp.Model
	if resp.Truncated() {
		res.Truncated = true
		res.Summary += truncationNote
		g.log.Warn("Summary truncated by token limit", map[string]interface{}{"model": resp.Model})
	}
	return res, nil
}

// parse never loses text: an unparseable reply becomes the summary as-is.
func parse(raw string) *Result {
	var c Content
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &c); err != nil {
		return &Result{Content: Content{
			Summary:     raw,
			KeyPoints:   []string{},
			ActionItems: []string{},
			Category:    CategoryUnknown,
		}}
	}
	if c.KeyPoints == nil {
		c.KeyPoints = []string{}
	}
	if c.ActionItems == nil {
		c.ActionItems = []string{}
	}
	if c.Category == "" {
		c.Category = CategoryUnknown
	}
	return &Result{Content: c, Structured: true}
}

// Enrich generates and stores the summary of t. Failures are logged and
// reported as a nil summary; they never propagate.
func (g *Generator) Enrich(ctx context.Context, t *record.Transcription) *record.Summary {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, observability.SpanSummary)
	observability.SetSpanAttribute(ctx, observability.AttrRecordingID, t.RecordingID)

	log := g.log.WithFields(map[string]interface{}{"recording_id": t.RecordingID})
	start := time.Now()

	sum, err := g.enrich(ctx, t)
	observability.EndSpan(span, err)
	if err != nil {
		log.WithError(err).Warn("Summary enrichment failed")
		return nil
	}

	log.Info("Summary generated", map[string]interface{}{
		"category":    sum.Category,
		"key_points":  len(sum.KeyPoints),
		"chars":       len(sum.Summary),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return sum
}

func (g *Generator) enrich(ctx context.Context, t *record.Transcription) (*record.Summary, error) {
	if g.store == nil {
		return nil, errors.New("summary: no store configured")
	}
	res, err := g.Generate(ctx, t.Text, t.Language)
	if err != nil {
		return nil, err
	}
	if !res.Structured {
		g.log.Warn("Summary reply was not JSON, keeping raw text", map[string]interface{}{"recording_id": t.RecordingID})
	}

	sum := &record.Summary{
		TranscriptionID: t.ID,
		Summary:         res.Summary,
		KeyPoints:       res.KeyPoints,
		ActionItems:     res.ActionItems,
		Category:        res.Category,
		Language:        t.Language,
		Model:           res.Model,
	}
	if err := g.store.SaveSummary(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}
