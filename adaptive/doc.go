// Package adaptive drives a transcription provider through a bounded
// schedule of attempts at different temperatures and keeps the best
// candidate, as judged by the defect detector.
//
// The production Driver characterizes and conditions the audio once, then
// walks the temperature schedule. It stops early on a clean high-scoring
// candidate, skips past transient provider failures and aborts on fatal
// ones. Every attempt's outcome is recorded in Result.Warnings.
//
// With transcription.use_production_service disabled the Driver runs the
// simple mode instead: the enhancement chain, a temperature derived from
// the audio duration and at most a few quality-driven retries.
//
//	d, err := adaptive.NewDriver(cfg.Transcription, cfg.Audio, adaptive.Deps{
//		Provider: provider,
//		Media:    audio.NewFFmpeg(cfg.Audio),
//	})
//	res, err := d.Transcribe(ctx, "/inbox/call.m4a", adaptive.Options{})
package adaptive
