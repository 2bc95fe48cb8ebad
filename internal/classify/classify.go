package classify

import (
	"strings"

	"mediamon/internal/media/ffprobe"
)

// Status labels in the order they are concatenated when multiple rules fire.
const (
	StatusOK       = "OK"
	StatusReencode = "RE-ENCODE"
	StatusRemux    = "REMUX"
)

// statusSeparator joins concurrent labels. Consumers parse the stored status,
// so the literal separator must not change.
const statusSeparator = " | "

// ReencodeThresholdBytes is the size above which a file is flagged for
// re-encoding (20 GiB).
const ReencodeThresholdBytes = 20 * 1024 * 1024 * 1024

// Classify derives the status label set for a probed file. Rules are
// evaluated independently; RE-ENCODE always precedes REMUX in the output.
func Classify(result ffprobe.Result, size int64) string {
	var labels []string

	if size > ReencodeThresholdBytes {
		labels = append(labels, StatusReencode)
	}
	if result.UntaggedCount("audio") > 0 || result.UntaggedCount("subtitle") > 0 {
		labels = append(labels, StatusRemux)
	}
	if len(labels) == 0 {
		return StatusOK
	}
	return strings.Join(labels, statusSeparator)
}

// IsClean reports whether a status string represents a file needing no work.
func IsClean(status string) bool {
	return status == StatusOK
}
