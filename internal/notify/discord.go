package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const colorRed = 0xE74C3C

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendImportFailure sends a single failure as a Discord embed.
func (d *DiscordNotifier) SendImportFailure(ctx context.Context, failure *ImportFailure) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(failure)},
	}
	return d.post(ctx, payload)
}

// SendBatchImportFailure sends multiple failures as a single Discord message.
func (d *DiscordNotifier) SendBatchImportFailure(
	ctx context.Context,
	failures []ImportFailure,
) error {
	embeds := make([]discordEmbed, 0, len(failures))

	// Discord allows max 10 embeds per message.
	limit := min(len(failures), 10)

	for i := range limit {
		embeds = append(embeds, buildEmbed(&failures[i]))
	}

	if len(failures) > 10 {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more import failures", len(failures)-10),
			Color:       colorRed,
			Description: "Check the product listing for the full set.",
		})
	}

	payload := discordWebhookPayload{Embeds: embeds}
	return d.post(ctx, payload)
}

func buildEmbed(failure *ImportFailure) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Import failed: %s", failure.Name),
		Color: colorRed,
		Fields: []discordEmbedField{
			{Name: "Product", Value: failure.ProductID, Inline: true},
			{Name: "SKU", Value: failure.SKU, Inline: true},
		},
	}

	if failure.TaskID != "" {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Task", Value: failure.TaskID, Inline: true})
	}
	if failure.Reason != "" {
		embed.Description = failure.Reason
	}
	if len(failure.Errors) > 0 {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  "Errors",
			Value: strings.Join(failure.Errors, "\n"),
		})
	}

	return embed
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
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
