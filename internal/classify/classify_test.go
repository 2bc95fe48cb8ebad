package classify

import (
	"testing"

	"mediamon/internal/media/ffprobe"
)

const gib = int64(1024 * 1024 * 1024)

func taggedStreams() []ffprobe.Stream {
	return []ffprobe.Stream{
		{CodecType: "video", CodecName: "h264"},
		{CodecType: "audio", Tags: ffprobe.StreamTags{Language: "eng"}},
		{CodecType: "subtitle", Tags: ffprobe.StreamTags{Language: "eng"}},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		streams []ffprobe.Stream
		size    int64
		want    string
	}{
		{
			name:    "oversized fully tagged",
			streams: taggedStreams(),
			size:    25 * gib,
			want:    "RE-ENCODE",
		},
		{
			name: "small with untagged audio",
			streams: []ffprobe.Stream{
				{CodecType: "video"},
				{CodecType: "audio"},
			},
			size: 1 * gib,
			want: "REMUX",
		},
		{
			name: "oversized with untagged subtitle",
			streams: []ffprobe.Stream{
				{CodecType: "video"},
				{CodecType: "audio", Tags: ffprobe.StreamTags{Language: "eng"}},
				{CodecType: "subtitle"},
			},
			size: 25 * gib,
			want: "RE-ENCODE | REMUX",
		},
		{
			name:    "small fully tagged",
			streams: taggedStreams(),
			size:    1 * gib,
			want:    "OK",
		},
		{
			name:    "exactly at threshold is not oversized",
			streams: taggedStreams(),
			size:    ReencodeThresholdBytes,
			want:    "OK",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(ffprobe.Result{Streams: tc.streams}, tc.size)
			if got != tc.want {
				t.Fatalf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsClean(t *testing.T) {
	if !IsClean("OK") {
		t.Fatal("OK should be clean")
	}
	if IsClean("REMUX") {
		t.Fatal("REMUX should not be clean")
	}
}

func TestParseTitle(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		title    string
		filename string
		kind     Kind
	}{
		{
			name:     "episode with season marker",
			path:     "/watch/Severance/Severance.S02E03.1080p.mkv",
			title:    "Severance",
			filename: "Severance.S02E03.1080p",
			kind:     KindEpisode,
		},
		{
			name:     "movie in named directory",
			path:     "/watch/Arrival (2016)/Arrival.2016.2160p.mkv",
			title:    "Arrival (2016)",
			filename: "Arrival.2016.2160p",
			kind:     KindMovie,
		},
		{
			name:     "season word marker",
			path:     "/watch/The Wire/the wire season 4 part 1.mkv",
			title:    "The Wire",
			filename: "the wire season 4 part 1",
			kind:     KindEpisode,
		},
		{
			name:     "bare file falls back to filename",
			path:     "movie.mkv",
			title:    "movie",
			filename: "movie",
			kind:     KindMovie,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := ParseTitle(tc.path)
			if info.Title != tc.title {
				t.Fatalf("Title = %q, want %q", info.Title, tc.title)
			}
			if info.Filename != tc.filename {
				t.Fatalf("Filename = %q, want %q", info.Filename, tc.filename)
			}
			if info.Kind != tc.kind {
				t.Fatalf("Kind = %q, want %q", info.Kind, tc.kind)
			}
		})
	}
}

func TestDisplayKind(t *testing.T) {
	if got := DisplayKind(KindEpisode); got != "Episode" {
		t.Fatalf("DisplayKind = %q", got)
	}
	if got := DisplayKind(KindMovie); got != "Movie" {
		t.Fatalf("DisplayKind = %q", got)
	}
}

func TestClassifyTreatsUndTagAsTagged(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264"},
			{CodecType: "audio", CodecName: "aac", Tags: ffprobe.StreamTags{Language: "und"}},
		},
	}
	if got := Classify(result, 1024); got != StatusOK {
		t.Fatalf("Classify() = %q, want %q", got, StatusOK)
	}
}
