// Package process runs external binaries such as ffmpeg and ffprobe.
//
// Commands run in their own process group so cancellation reaches every
// child. A Runner adds a per-command timeout and a concurrency cap.
package process
