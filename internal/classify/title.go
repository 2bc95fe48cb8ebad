package classify

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind distinguishes episodic content from movies for notification display.
type Kind string

const (
	KindEpisode Kind = "Episode"
	KindMovie   Kind = "Movie"
)

// episodeMarkers are matched case-insensitively against the filename stem.
var episodeMarkers = []string{"s0", "e0", "season", "episode"}

// TitleInfo carries the display metadata parsed from a file path.
type TitleInfo struct {
	Title    string
	Filename string
	Kind     Kind
}

// ParseTitle derives a display title and media kind from a file path. The
// parent directory names the title when present; otherwise the filename stem
// is used.
func ParseTitle(path string) TitleInfo {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	title := filepath.Base(filepath.Dir(path))
	if title == "." || title == string(filepath.Separator) || title == "" {
		title = stem
	}

	return TitleInfo{
		Title:    title,
		Filename: stem,
		Kind:     kindOf(stem),
	}
}

func kindOf(stem string) Kind {
	lowered := strings.ToLower(stem)
	for _, marker := range episodeMarkers {
		if strings.Contains(lowered, marker) {
			return KindEpisode
		}
	}
	return KindMovie
}

// DisplayKind renders the kind with title casing for embed fields.
func DisplayKind(kind Kind) string {
	return cases.Title(language.Und).String(strings.ToLower(string(kind)))
}
