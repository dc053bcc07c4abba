// Package watcher turns a directory into a transcription inbox.
//
// Every file with an accepted extension that is created in the directory
// is run through the pipeline once it has stopped changing for the settle
// period. The recording id is the file's base name without extension, so
// dropping "meeting-42.m4a" produces the transcription of "meeting-42".
// Re-dropping a file is harmless: the pipeline returns the existing record.
package watcher
