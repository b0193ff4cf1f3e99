// Package discord delivers notices and operator alerts through
// Discord-compatible webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// webhookMessage is the wire shape of a webhook execution request.
type webhookMessage struct {
	Content   string  `json:"content,omitempty"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []embed `json:"embeds,omitempty"`
}

type embed struct {
	Description string `json:"description"`
}

// WebhookSender implements ports.NoticeSender. Each channel's destination is
// a full webhook URL; the sender holds no per-channel state.
type WebhookSender struct {
	client ports.HTTPClient
	logger ports.Logger
}

// NewWebhookSender creates a webhook notice sender.
func NewWebhookSender(client ports.HTTPClient, logger ports.Logger) *WebhookSender {
	return &WebhookSender{client: client, logger: logger}
}

// Send pushes one notice to the destination webhook. The notice's display
// name and avatar override the webhook's own identity so the message reads
// as the watched account.
func (s *WebhookSender) Send(ctx context.Context, destination string, notice domain.Notice) error {
	msg := webhookMessage{
		Content:   notice.BodyText,
		Username:  notice.DisplayName,
		AvatarURL: notice.AvatarURL,
	}
	return post(ctx, s.client, destination, msg)
}

// post executes one webhook request and checks for a 2xx response.
func post(ctx context.Context, client ports.HTTPClient, url string, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
