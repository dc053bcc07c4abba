package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/pipeline"
	"github.com/kbukum/scribe/ratelimit"
	"github.com/kbukum/scribe/record"
	"github.com/kbukum/scribe/server/middleware"
)

// Transcriber runs recordings through the pipeline. *pipeline.Service
// implements it.
type Transcriber interface {
	Run(ctx context.Context, path, recordingID string, opts pipeline.RunOptions) (*pipeline.Outcome, error)
	RunObject(ctx context.Context, key, recordingID string, opts pipeline.RunOptions) (*pipeline.Outcome, error)
	Preview(ctx context.Context, path string) (*pipeline.Preview, error)
}

// Records reads and corrects stored transcriptions. *record.Store
// implements it.
type Records interface {
	Find(ctx context.Context, recordingID string) (*record.Transcription, error)
	UpdateText(ctx context.Context, recordingID, text string) (*record.Transcription, error)
	FindSummary(ctx context.Context, recordingID string) (*record.Summary, error)
}

// API are the collaborators of the transcription routes.
type API struct {
	Transcriber Transcriber
	Records     Records
	// Limiter guards the routes that start a run. Nil means unlimited.
	Limiter ratelimit.Limiter
	// LocalPaths allows audio_path requests that name files on the
	// server's own filesystem.
	LocalPaths bool
}

type transcribeRequest struct {
	AudioPath   string `json:"audio_path"`
	ObjectKey   string `json:"object_key"`
	Language    string `json:"language" binding:"omitempty,max=16"`
	MaxAttempts int    `json:"max_attempts" binding:"gte=0,lte=10"`
}

type analyzeRequest struct {
	AudioPath string `json:"audio_path" binding:"required"`
}

type correctionRequest struct {
	Text string `json:"text" binding:"required"`
}

type transcriptionHandler struct {
	api API
	log *logger.Logger
}

// RegisterAPI registers the /v1 transcription routes.
func (s *Server) RegisterAPI(api API) {
	if api.Limiter == nil {
		api.Limiter = ratelimit.Unlimited{}
	}
	h := &transcriptionHandler{api: api, log: s.log.WithComponent("api")}
	limit := middleware.RateLimit(api.Limiter, middleware.IPBasedKey)

	v1 := s.engine.Group("/v1")
	v1.POST("/recordings/:id/transcription", limit, h.transcribe)
	v1.GET("/recordings/:id/transcription", h.get)
	v1.PATCH("/recordings/:id/transcription", h.correct)
	v1.GET("/recordings/:id/summary", h.summary)
	v1.POST("/analyze", limit, h.analyze)
}

func (h *transcriptionHandler) transcribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	req.AudioPath = strings.TrimSpace(req.AudioPath)
	req.ObjectKey = strings.TrimSpace(req.ObjectKey)
	if (req.AudioPath == "") == (req.ObjectKey == "") {
		RespondWithError(c, apperrors.InvalidInput("audio_path", "exactly one of audio_path or object_key is required"))
		return
	}

	id := c.Param("id")
	opts := pipeline.RunOptions{Language: req.Language, MaxAttempts: req.MaxAttempts}

	var (
		out *pipeline.Outcome
		err error
	)
	if req.AudioPath != "" {
		if !h.api.LocalPaths {
			RespondWithError(c, apperrors.InvalidInput("audio_path", "local paths are disabled; upload to storage and pass object_key"))
			return
		}
		out, err = h.api.Transcriber.Run(c.Request.Context(), req.AudioPath, id, opts)
	} else {
		out, err = h.api.Transcriber.RunObject(c.Request.Context(), req.ObjectKey, id, opts)
	}
	if err != nil {
		h.log.WithContext(c.Request.Context()).Warn("Transcription request failed", map[string]interface{}{
			"recording_id": id,
			"error":        err.Error(),
		})
		RespondWithError(c, err)
		return
	}

	if out.Created {
		RespondCreated(c, out)
		return
	}
	RespondOK(c, out)
}

func (h *transcriptionHandler) get(c *gin.Context) {
	t, err := h.api.Records.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, t)
}

func (h *transcriptionHandler) correct(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("text", err.Error()))
		return
	}
	t, err := h.api.Records.UpdateText(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	h.log.WithContext(c.Request.Context()).Info("Transcription corrected", map[string]interface{}{
		"recording_id": t.RecordingID,
	})
	RespondOK(c, t)
}

func (h *transcriptionHandler) summary(c *gin.Context) {
	sum, err := h.api.Records.FindSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, sum)
}

func (h *transcriptionHandler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("audio_path", err.Error()))
		return
	}
	if !h.api.LocalPaths {
		RespondWithError(c, apperrors.InvalidInput("audio_path", "local paths are disabled"))
		return
	}
	p, err := h.api.Transcriber.Preview(c.Request.Context(), req.AudioPath)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: p})
}
