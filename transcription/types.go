package transcription

// Response formats understood by Whisper-compatible backends.
const (
	FormatVerboseJSON = "verbose_json"
	FormatJSON        = "json"
	FormatText        = "text"
)

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Temperature controls decoding randomness in [0,1].
	Temperature float64 `json:"temperature"`
	// Language is an optional ISO-639-1 hint (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`
	// ResponseFormat defaults to verbose_json so the detected language is returned.
	ResponseFormat string `json:"response_format,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text string `json:"text"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds, when reported.
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
