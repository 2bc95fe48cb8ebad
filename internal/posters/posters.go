package posters

import (
	"context"
	"strings"

	"mediamon/internal/classify"
	"mediamon/internal/settings"
)

// Lookup returns a poster image URL for the given title, or an empty string
// when none is available. Lookups are skipped entirely when posters are
// disabled or no API key is configured.
func Lookup(_ context.Context, snap settings.Snapshot, _ string, _ classify.Kind) (string, error) {
	if !snap.EnablePosters || strings.TrimSpace(snap.TVDBAPIKey) == "" {
		return "", nil
	}
	// TVDB v4 requires an authenticated session; until that lands every
	// lookup reports no artwork.
	return "", nil
}
