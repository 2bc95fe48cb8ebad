package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int        `json:"index"`
	CodecName string     `json:"codec_name"`
	CodecType string     `json:"codec_type"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Channels  int        `json:"channels"`
	Tags      StreamTags `json:"tags"`
}

// StreamTags carries the per-stream metadata tags relevant to classification.
type StreamTags struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// HasLanguage reports whether the stream carries a language tag. Placeholder
// values like "und" still count as tagged; only a missing or empty tag does
// not.
func (s Stream) HasLanguage() bool {
	return s.Tags.Language != ""
}

// IsType reports whether the stream's codec type matches, case-insensitively.
func (s Stream) IsType(codecType string) bool {
	return strings.EqualFold(s.CodecType, codecType)
}

// FirstVideo returns the first video stream and whether one exists.
func (r Result) FirstVideo() (Stream, bool) {
	return r.firstOfType("video")
}

// FirstAudio returns the first audio stream and whether one exists.
func (r Result) FirstAudio() (Stream, bool) {
	return r.firstOfType("audio")
}

func (r Result) firstOfType(codecType string) (Stream, bool) {
	for _, stream := range r.Streams {
		if stream.IsType(codecType) {
			return stream, true
		}
	}
	return Stream{}, false
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countOfType("audio")
}

// SubtitleStreamCount returns the number of subtitle streams discovered.
func (r Result) SubtitleStreamCount() int {
	return r.countOfType("subtitle")
}

func (r Result) countOfType(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if stream.IsType(codecType) {
			count++
		}
	}
	return count
}

// UntaggedCount returns the number of streams of the given type lacking a
// language tag.
func (r Result) UntaggedCount(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if stream.IsType(codecType) && !stream.HasLanguage() {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}
