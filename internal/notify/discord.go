package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

const colorBlue = 0x3498DB

// DiscordIndexer implements MediaIndexer by posting an embed to a Discord
// webhook.
type DiscordIndexer struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordIndexer creates a new DiscordIndexer.
func NewDiscordIndexer(webhookURL string, opts ...DiscordOption) *DiscordIndexer {
	d := &DiscordIndexer{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordIndexer.
type DiscordOption func(*DiscordIndexer)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordIndexer) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Image       *discordImage       `json:"image,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordImage struct {
	URL string `json:"url"`
}

// MediaAdded posts the downloaded file as a Discord embed.
func (d *DiscordIndexer) MediaAdded(ctx context.Context, m Media) error {
	return d.post(ctx, discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(m)},
	})
}

func buildEmbed(m Media) discordEmbed {
	embed := discordEmbed{
		Title: "Media added: " + filepath.Base(m.Path),
		URL:   m.SourceURL,
		Color: colorBlue,
		Fields: []discordEmbedField{
			{Name: "Path", Value: m.Path},
		},
	}

	if isImage(m.Path) && strings.HasPrefix(m.SourceURL, "http") {
		embed.Image = &discordImage{URL: m.SourceURL}
	}

	return embed
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

func (d *DiscordIndexer) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
