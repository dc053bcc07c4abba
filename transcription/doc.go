// Package transcription is the boundary to speech-to-text backends.
//
// A Provider turns an audio file plus decoding parameters into text and a
// detected language. Failures are classified with Classify into transient
// (retry with the next attempt) and fatal (abort the pipeline) errors.
//
// # Backends
//
//   - transcription/openai: hosted Whisper API (/v1/audio/transcriptions)
//   - transcription/whisper: self-hosted faster-whisper sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register(openai.ProviderName, openai.Factory())
//	p, err := reg.Create(cfg)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: path, Temperature: 0.2})
package transcription
