package transcription

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/httpclient"
)

// Provider is the interface that transcription backends implement.
type Provider interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Transcribe sends audio for transcription. Errors are classified with
	// Classify so callers can tell transient from fatal failures.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Classify maps a backend failure onto the capability error taxonomy.
// Rate limits, timeouts, connection faults and 5xx responses are transient;
// authentication, malformed requests and unparseable responses are fatal.
// Errors that are already classified pass through unchanged.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsCode(err, errors.ErrCodeCapabilityTransient) || errors.IsCode(err, errors.ErrCodeCapabilityFatal) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) || httpclient.IsRetryable(err) {
		return errors.TransientCapability(provider, err)
	}
	return errors.FatalCapability(provider, err)
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpga": "audio/mpeg",
	".mpeg": "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// ContentType returns the MIME type sent with an uploaded audio file.
func ContentType(path string) string {
	if ct, ok := audioContentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}
