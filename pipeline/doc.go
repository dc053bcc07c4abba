// Package pipeline runs the transcription of one recording end to end:
// analyze and condition the audio, drive the adaptive attempts, persist
// the record and, when configured, enrich it with a summary.
//
// Service.Run is idempotent per recording id. A recording that already
// has a record returns it without calling the transcription provider, and
// concurrent runs for the same id settle on a single record.
//
// Errors crossing Run are AppErrors with distinct codes: validation
// (unreadable audio, duration out of bounds), fatal provider errors, and
// ALL_ATTEMPTS_FAILED carrying the attempt count and warnings.
package pipeline
