// Package audio inspects and prepares recordings for transcription.
//
// The Characterizer measures a file (duration, channels, sample rate,
// loudness) without modifying it. The Conditioner decides whether the file
// needs preprocessing at all and, only when it does, folds to mono,
// resamples, normalizes very quiet audio and re-encodes at a bitrate that
// fits the upload limit. The Enhancer is the heavier denoise chain used by
// the single-attempt transcription mode.
//
// Decoding and encoding are delegated to a Media implementation; FFmpeg
// shells out to ffprobe and ffmpeg through a process.Runner, and plain PCM
// WAV files are measured in-process.
package audio
