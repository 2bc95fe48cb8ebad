package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var errNtfyUnconfigured = errors.New("ntfy server or topic not configured")

type ntfyMessage struct {
	title   string
	message string
	tags    string
}

type ntfyClient struct {
	client *http.Client
}

func (n *ntfyClient) send(ctx context.Context, server, topic string, msg ntfyMessage) error {
	endpoint := strings.TrimRight(server, "/") + "/" + topic

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(msg.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if msg.tags != "" {
		req.Header.Set("Tags", msg.tags)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func renderSummary(event Event) string {
	return fmt.Sprintf("📦 File: %s\n🎯 Result: %s", filepath.Base(event.Path), event.Status)
}
