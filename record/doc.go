// Package record persists finished transcriptions.
//
// Builder.Persist turns an adaptive.Result into a Transcription row and
// enforces one record per recording: an existing record is returned
// unchanged, and a writer that loses the uniqueness race re-reads the
// winner instead of failing. Text is stored in full. The only permitted
// update is a manual correction through Store.UpdateText.
//
// Summaries produced by the summary package hang off a transcription and
// are removed with it.
package record
