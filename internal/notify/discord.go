package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediamon/internal/classify"
	"mediamon/internal/language"
)

var errDiscordUnconfigured = errors.New("discord webhook not configured")

const (
	colorClean    = 0x00ff00
	colorNeedWork = 0xff9900
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedThumbnail struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Color       int             `json:"color"`
	Fields      []embedField    `json:"fields,omitempty"`
	Thumbnail   *embedThumbnail `json:"thumbnail,omitempty"`
	Timestamp   string          `json:"timestamp"`
	Footer      embedFooter     `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type discordClient struct {
	client *http.Client
}

func (d *discordClient) send(ctx context.Context, webhook string, e embed) error {
	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func buildEmbed(event Event, info classify.TitleInfo, posterURL string) embed {
	color := colorNeedWork
	if classify.IsClean(event.Status) {
		color = colorClean
	}

	e := embed{
		Title:       fmt.Sprintf("🎬 New Media Added: %s", info.Title),
		Description: fmt.Sprintf("**File:** %s", info.Filename),
		Color:       color,
		Fields: []embedField{
			{Name: "📊 Status", Value: event.Status, Inline: true},
			{Name: "💾 Size", Value: fmt.Sprintf("%.2f GB", float64(event.Size)/(1024*1024*1024)), Inline: true},
			{Name: "📁 Type", Value: classify.DisplayKind(info.Kind), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    embedFooter{Text: "mediamon"},
	}

	if event.Probe != nil {
		if video, ok := event.Probe.FirstVideo(); ok {
			e.Fields = append(e.Fields, embedField{
				Name:   "🎥 Video",
				Value:  fmt.Sprintf("%s - %dx%d", codecName(video.CodecName), video.Width, video.Height),
				Inline: true,
			})
		}
		if audio, ok := event.Probe.FirstAudio(); ok {
			value := fmt.Sprintf("%s - %d track(s)", codecName(audio.CodecName), event.Probe.AudioStreamCount())
			if audio.HasLanguage() {
				value = fmt.Sprintf("%s (%s) - %d track(s)",
					codecName(audio.CodecName), language.DisplayName(audio.Tags.Language), event.Probe.AudioStreamCount())
			}
			e.Fields = append(e.Fields, embedField{
				Name:   "🔊 Audio",
				Value:  value,
				Inline: true,
			})
		}
		e.Fields = append(e.Fields, embedField{
			Name:   "⏱️ Duration",
			Value:  fmt.Sprintf("%.1f minutes", event.Probe.DurationSeconds()/60),
			Inline: true,
		})
	}

	if posterURL != "" {
		e.Thumbnail = &embedThumbnail{URL: posterURL}
	}
	return e
}

func codecName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unknown"
	}
	return name
}

func testEmbed() embed {
	return embed{
		Title:       "🎬 Test Notification",
		Description: "This is a test from mediamon!",
		Color:       colorClean,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      embedFooter{Text: "mediamon"},
	}
}
