package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtest "github.com/kbukum/scribe/database/testutil"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/pipeline"
	"github.com/kbukum/scribe/ratelimit"
	"github.com/kbukum/scribe/record"
	"github.com/kbukum/scribe/server"
)

type call struct {
	source      string
	recordingID string
	opts        pipeline.RunOptions
}

type fakeTranscriber struct {
	outcome *pipeline.Outcome
	preview *pipeline.Preview
	err     error
	calls   []call
}

func (f *fakeTranscriber) Run(_ context.Context, path, id string, opts pipeline.RunOptions) (*pipeline.Outcome, error) {
	f.calls = append(f.calls, call{source: "path:" + path, recordingID: id, opts: opts})
	return f.outcome, f.err
}

func (f *fakeTranscriber) RunObject(_ context.Context, key, id string, opts pipeline.RunOptions) (*pipeline.Outcome, error) {
	f.calls = append(f.calls, call{source: "object:" + key, recordingID: id, opts: opts})
	return f.outcome, f.err
}

func (f *fakeTranscriber) Preview(_ context.Context, path string) (*pipeline.Preview, error) {
	f.calls = append(f.calls, call{source: "preview:" + path})
	return f.preview, f.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code      string         `json:"code"`
		Retryable bool           `json:"retryable"`
		Details   map[string]any `json:"details"`
	} `json:"error"`
}

func newServer(t *testing.T, api server.API) *server.Server {
	t.Helper()
	s := server.New(server.Config{Host: "127.0.0.1"}, logger.NewNop())
	s.RegisterAPI(api)
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:4000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr, env
}

func TestTranscribe_CreatedAndExisting(t *testing.T) {
	rec := &record.Transcription{RecordingID: "rec-1", Text: "hello there", Quality: "high"}
	fake := &fakeTranscriber{outcome: &pipeline.Outcome{Record: rec, Created: true}}
	s := newServer(t, server.API{Transcriber: fake, LocalPaths: true})

	rr, env := do(t, s.Handler(), http.MethodPost, "/v1/recordings/rec-1/transcription",
		map[string]any{"audio_path": "/data/rec-1.m4a", "language": "de", "max_attempts": 3})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out struct {
		Record  record.Transcription `json:"record"`
		Created bool                 `json:"created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Created)
	assert.Equal(t, "rec-1", out.Record.RecordingID)
	assert.Equal(t, "hello there", out.Record.Text)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "path:/data/rec-1.m4a", fake.calls[0].source)
	assert.Equal(t, "rec-1", fake.calls[0].recordingID)
	assert.Equal(t, pipeline.RunOptions{Language: "de", MaxAttempts: 3}, fake.calls[0].opts)

	fake.outcome = &pipeline.Outcome{Record: rec, Created: false}
	rr, _ = do(t, s.Handler(), http.MethodPost, "/v1/recordings/rec-1/transcription",
		map[string]any{"audio_path": "/data/rec-1.m4a"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTranscribe_ObjectKey(t *testing.T) {
	rec := &record.Transcription{RecordingID: "rec-2", Text: "from storage"}
	fake := &fakeTranscriber{outcome: &pipeline.Outcome{Record: rec, Created: true}}
	s := newServer(t, server.API{Transcriber: fake})

	rr, _ := do(t, s.Handler(), http.MethodPost, "/v1/recordings/rec-2/transcription",
		map[string]any{"object_key": "uploads/rec-2.webm"})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "object:uploads/rec-2.webm", fake.calls[0].source)
}

func TestTranscribe_RequestValidation(t *testing.T) {
	tests := []struct {
		name       string
		localPaths bool
		body       any
	}{
		{"neither source", true, map[string]any{}},
		{"both sources", true, map[string]any{"audio_path": "/a.wav", "object_key": "a.wav"}},
		{"local paths disabled", false, map[string]any{"audio_path": "/a.wav"}},
		{"attempt cap out of range", true, map[string]any{"audio_path": "/a.wav", "max_attempts": 50}},
		{"malformed json", true, "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTranscriber{}
			s := newServer(t, server.API{Transcriber: fake, LocalPaths: tt.localPaths})

			rr, env := do(t, s.Handler(), http.MethodPost, "/v1/recordings/r/transcription", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, string(apperrors.ErrCodeInvalidInput), env.Error.Code)
			assert.Empty(t, fake.calls)
		})
	}
}

func TestTranscribe_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"too short", apperrors.AudioTooShort(2*time.Second, 5*time.Second), http.StatusUnprocessableEntity, apperrors.ErrCodeAudioTooShort, false},
		{"too long", apperrors.AudioTooLong(3*time.Hour, 2*time.Hour), http.StatusUnprocessableEntity, apperrors.ErrCodeAudioTooLong, false},
		{"unreadable", apperrors.UnreadableAudio("/a.txt", errors.New("no stream")), http.StatusUnprocessableEntity, apperrors.ErrCodeUnreadableAudio, false},
		{"all attempts failed", apperrors.AllAttemptsFailed(5, []string{"attempt 1: timeout"}), http.StatusServiceUnavailable, apperrors.ErrCodeAllAttemptsFailed, true},
		{"fatal capability", apperrors.FatalCapability("openai", errors.New("401")), http.StatusBadGateway, apperrors.ErrCodeCapabilityFatal, false},
		{"object missing", apperrors.NotFound("object", "k"), http.StatusNotFound, apperrors.ErrCodeNotFound, false},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, server.API{Transcriber: &fakeTranscriber{err: tt.err}, LocalPaths: true})

			rr, env := do(t, s.Handler(), http.MethodPost, "/v1/recordings/r/transcription",
				map[string]any{"audio_path": "/a.wav"})
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, string(tt.code), env.Error.Code)
			assert.Equal(t, tt.retryable, env.Error.Retryable)
		})
	}
}

func TestTranscribe_AllAttemptsFailedDetails(t *testing.T) {
	warnings := []string{"attempt 1: timeout", "attempt 2: timeout"}
	s := newServer(t, server.API{
		Transcriber: &fakeTranscriber{err: apperrors.AllAttemptsFailed(5, warnings)},
		LocalPaths:  true,
	})

	_, env := do(t, s.Handler(), http.MethodPost, "/v1/recordings/r/transcription",
		map[string]any{"audio_path": "/a.wav"})
	assert.EqualValues(t, 5, env.Error.Details["attempts"])
	assert.Len(t, env.Error.Details["warnings"], 2)
}

func TestTranscribe_RateLimited(t *testing.T) {
	fake := &fakeTranscriber{outcome: &pipeline.Outcome{Record: &record.Transcription{RecordingID: "r"}}}
	s := newServer(t, server.API{
		Transcriber: fake,
		LocalPaths:  true,
		Limiter:     ratelimit.NewMemory(ratelimit.Config{Limit: 1, Window: time.Minute}),
	})

	body := map[string]any{"audio_path": "/a.wav"}
	rr, _ := do(t, s.Handler(), http.MethodPost, "/v1/recordings/r/transcription", body)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := do(t, s.Handler(), http.MethodPost, "/v1/recordings/r/transcription", body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, string(apperrors.ErrCodeRateLimited), env.Error.Code)
	assert.Len(t, fake.calls, 1)
}

func TestRecordRoutes(t *testing.T) {
	ctx := context.Background()
	store := record.NewStore(dbtest.Open(t, record.Migrations()))
	s := newServer(t, server.API{Transcriber: &fakeTranscriber{}, Records: store})
	h := s.Handler()

	rr, env := do(t, h, http.MethodGet, "/v1/recordings/rec-9/transcription", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(apperrors.ErrCodeNotFound), env.Error.Code)

	tr := &record.Transcription{RecordingID: "rec-9", Text: "the original text", Quality: "high", Provider: "whisper-production", Attempts: 1}
	require.NoError(t, store.Create(ctx, tr))

	rr, env = do(t, h, http.MethodGet, "/v1/recordings/rec-9/transcription", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got record.Transcription
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "the original text", got.Text)

	rr, env = do(t, h, http.MethodPatch, "/v1/recordings/rec-9/transcription", map[string]any{"text": "the corrected text"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "the corrected text", got.Text)

	rr, _ = do(t, h, http.MethodPatch, "/v1/recordings/rec-9/transcription", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, h, http.MethodPatch, "/v1/recordings/missing/transcription", map[string]any{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/v1/recordings/rec-9/summary", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	require.NoError(t, store.SaveSummary(ctx, &record.Summary{
		TranscriptionID: tr.ID,
		Summary:         "A short call.",
		KeyPoints:       []string{"greeting"},
		ActionItems:     []string{},
		Category:        "call",
	}))
	rr, env = do(t, h, http.MethodGet, "/v1/recordings/rec-9/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sum record.Summary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, "A short call.", sum.Summary)
	assert.Equal(t, []string{"greeting"}, sum.KeyPoints)
}

func TestAnalyze(t *testing.T) {
	fake := &fakeTranscriber{preview: &pipeline.Preview{EstimatedProcessingSeconds: 30}}
	s := newServer(t, server.API{Transcriber: fake, LocalPaths: true})

	rr, env := do(t, s.Handler(), http.MethodPost, "/v1/analyze", map[string]any{"audio_path": "/a.wav"})
	require.Equal(t, http.StatusOK, rr.Code)
	var p struct {
		Estimate float64 `json:"estimated_processing_seconds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 30.0, p.Estimate)
	assert.Equal(t, "preview:/a.wav", fake.calls[0].source)

	rr, _ = do(t, s.Handler(), http.MethodPost, "/v1/analyze", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOperationalRoutes(t *testing.T) {
	m := metrics.New()
	m.RecordRun(metrics.OutcomeCreated, time.Second)

	status := observability.HealthStatusUp
	checker := func(context.Context) *observability.ServiceHealth {
		h := observability.NewServiceHealth("scribe", "test")
		h.AddComponent(observability.Health{Name: "database", Status: status})
		return h
	}

	s := server.New(server.Config{}, logger.NewNop())
	s.RegisterOperational("scribe", checker, m.Handler())
	h := s.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		return rr
	}

	assert.Equal(t, http.StatusOK, get("/healthz").Code)
	assert.Equal(t, http.StatusOK, get("/readyz").Code)

	var live struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Uptime  *int64 `json:"uptime_seconds"`
	}
	rr := get("/livez")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &live))
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, "scribe", live.Service)
	assert.NotNil(t, live.Uptime)

	var ver struct {
		Service   string `json:"service"`
		UserAgent string `json:"user_agent"`
		Build     struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	rr = get("/version")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ver))
	assert.Equal(t, "scribe", ver.Service)
	assert.True(t, strings.HasPrefix(ver.UserAgent, "scribe/"))
	assert.NotEmpty(t, ver.Build.Version)

	rr = get("/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "scribe_pipeline_runs_total")

	status = observability.HealthStatusDown
	assert.Equal(t, http.StatusServiceUnavailable, get("/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := server.New(server.Config{}, logger.NewNop())
	s.RegisterOperational("scribe", func(context.Context) *observability.ServiceHealth {
		return observability.NewServiceHealth("scribe", "test")
	}, nil)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/livez", http.NoBody))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestComponent(t *testing.T) {
	s := server.New(server.Config{Host: "127.0.0.1"}, logger.NewNop())
	s.RegisterAPI(server.API{Transcriber: &fakeTranscriber{}})
	s.RegisterOperational("scribe", func(context.Context) *observability.ServiceHealth {
		return observability.NewServiceHealth("scribe", "test")
	}, nil)

	c := server.NewComponent(s)
	assert.Equal(t, "http-server", c.Name())
	assert.Equal(t, observability.HealthStatusDown, c.CheckHealth(context.Background()).Status)

	routes := c.Routes()
	require.NotEmpty(t, routes)
	assert.Equal(t, "/v1/analyze", routes[0].Path)
	assert.Equal(t, "/version", routes[len(routes)-1].Path)
}
