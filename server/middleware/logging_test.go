package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecordingFromPath(t *testing.T) {
	tests := map[string]string{
		"/v1/recordings/call-1/transcription": "call-1",
		"/v1/recordings/call-2":               "call-2",
		"/v1/analyze":                         "",
		"/recordings/call-3/summary":          "",
	}
	for path, want := range tests {
		if got := recordingFromPath(path); got != want {
			t.Errorf("recordingFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestResponseRecorder(t *testing.T) {
	rec := recordResponse(httptest.NewRecorder())
	if rec.Status() != http.StatusOK {
		t.Fatalf("untouched response should report 200, got %d", rec.Status())
	}

	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	_, _ = rec.Write([]byte("hello"))
	_, _ = rec.Write([]byte(" world"))

	if rec.Status() != http.StatusCreated {
		t.Errorf("first status wins, got %d", rec.Status())
	}
	if rec.bytes != 11 {
		t.Errorf("bytes = %d, want 11", rec.bytes)
	}
}
