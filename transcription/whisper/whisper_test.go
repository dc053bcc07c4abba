package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/transcription"
)

func TestTranscribe_Sidecar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/transcribe":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "base", r.FormValue("model"))
			assert.Equal(t, "0", r.FormValue("temperature"))
			_, _, err := r.FormFile("audio")
			assert.NoError(t, err)
			_, _ = w.Write([]byte(`{"text":"hello there","language":"en","segments":[{"start":0,"end":1.2,"text":"hello"},{"start":1.2,"end":2.5,"text":"there"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p, err := NewProvider(transcription.Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable(context.Background()))

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o600))

	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audio})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "en", resp.Language)
	assert.InDelta(t, 2.5, resp.Duration, 1e-9)
}

func TestTranscribe_UnparseableResponseIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	p, err := NewProvider(transcription.Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o600))

	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: audio})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCapabilityFatal), "got %v", err)
}
