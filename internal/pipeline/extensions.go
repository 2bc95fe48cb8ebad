package pipeline

import (
	"path/filepath"
	"strings"
)

// mediaExtensions is the fixed set of file suffixes accepted by the pipeline.
var mediaExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".avi": {},
	".mov": {},
	".m4v": {},
}

// HasMediaExtension reports whether path ends in a recognized media file
// extension, case-insensitively.
func HasMediaExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := mediaExtensions[ext]
	return ok
}
