// Package ffprobe wraps the external ffprobe binary and exposes typed access
// to container and stream metadata.
//
// Inspect shells out with JSON output flags and decodes the result into a
// Result value. Helper methods answer the questions the classifier and
// notifier ask: first video/audio stream, untagged stream counts, container
// duration. Any exec, exit, or parse failure surfaces as an error; callers
// treat that as a terminal probe failure for the file.
package ffprobe
