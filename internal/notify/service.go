package notify

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mediamon/internal/classify"
	"mediamon/internal/logging"
	"mediamon/internal/media/ffprobe"
	"mediamon/internal/posters"
	"mediamon/internal/settings"
)

const userAgent = "mediamon/0.1.0"

// Event describes one processed file for notification rendering.
type Event struct {
	Path   string
	Status string
	Size   int64
	// Probe carries the media metadata when probing succeeded; nil otherwise.
	Probe *ffprobe.Result
}

// SnapshotSource provides the per-attempt settings snapshot.
type SnapshotSource interface {
	Snapshot() settings.Snapshot
}

// Service is the notification surface exposed to the pipeline and the API.
type Service interface {
	// FileProcessed dispatches to every enabled channel. Channel failures are
	// logged, never returned; both channels are always attempted.
	FileProcessed(ctx context.Context, event Event)
	// TestNtfy sends a test message over the simple channel.
	TestNtfy(ctx context.Context) error
	// TestDiscord sends a test embed over the rich channel.
	TestDiscord(ctx context.Context) error
}

// NewService builds the production dispatcher.
func NewService(source SnapshotSource, timeout time.Duration, logger *slog.Logger) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	return &dispatcher{
		source: source,
		ntfy:   &ntfyClient{client: client},
		rich:   &discordClient{client: client},
		logger: logging.NewComponentLogger(logger, "notify"),
	}
}

type dispatcher struct {
	source SnapshotSource
	ntfy   *ntfyClient
	rich   *discordClient
	logger *slog.Logger
}

func (d *dispatcher) FileProcessed(ctx context.Context, event Event) {
	snap := d.source.Snapshot()
	info := classify.ParseTitle(event.Path)

	if err := d.sendNtfy(ctx, snap, event, info); err != nil {
		d.logger.Warn("ntfy delivery failed",
			logging.String(logging.FieldChannel, "ntfy"),
			logging.String(logging.FieldPath, event.Path),
			logging.Error(err),
		)
	}
	if err := d.sendDiscord(ctx, snap, event, info); err != nil {
		d.logger.Warn("discord delivery failed",
			logging.String(logging.FieldChannel, "discord"),
			logging.String(logging.FieldPath, event.Path),
			logging.Error(err),
		)
	}
}

func (d *dispatcher) sendNtfy(ctx context.Context, snap settings.Snapshot, event Event, info classify.TitleInfo) error {
	if !snap.EnableNtfy || snap.NtfyTopic == "" || snap.NtfyServer == "" {
		return nil
	}
	formatName := ""
	if event.Probe != nil {
		formatName = event.Probe.Format.FormatName
	}
	return d.ntfy.send(ctx, snap.NtfyServer, snap.NtfyTopic, ntfyMessage{
		title:   info.Title,
		message: renderSummary(event),
		tags:    formatName,
	})
}

func (d *dispatcher) sendDiscord(ctx context.Context, snap settings.Snapshot, event Event, info classify.TitleInfo) error {
	if !snap.EnableDiscord || snap.DiscordWebhook == "" {
		return nil
	}
	posterURL, err := posters.Lookup(ctx, snap, info.Title, info.Kind)
	if err != nil {
		d.logger.Debug("poster lookup failed", logging.Error(err))
		posterURL = ""
	}
	embed := buildEmbed(event, info, posterURL)
	return d.rich.send(ctx, snap.DiscordWebhook, embed)
}

func (d *dispatcher) TestNtfy(ctx context.Context) error {
	snap := d.source.Snapshot()
	if snap.NtfyTopic == "" || snap.NtfyServer == "" {
		return errNtfyUnconfigured
	}
	return d.ntfy.send(ctx, snap.NtfyServer, snap.NtfyTopic, ntfyMessage{
		title:   "Test Notification",
		message: "🎬 This is a test from mediamon!",
		tags:    "test",
	})
}

func (d *dispatcher) TestDiscord(ctx context.Context) error {
	snap := d.source.Snapshot()
	if snap.DiscordWebhook == "" {
		return errDiscordUnconfigured
	}
	return d.rich.send(ctx, snap.DiscordWebhook, testEmbed())
}

// NewNop returns a Service that never sends anything. Used in tests and as a
// safe default when wiring is incomplete.
func NewNop() Service { return nopService{} }

type nopService struct{}

func (nopService) FileProcessed(context.Context, Event) {}
func (nopService) TestNtfy(context.Context) error       { return nil }
func (nopService) TestDiscord(context.Context) error    { return nil }
