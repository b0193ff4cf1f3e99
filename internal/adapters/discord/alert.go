package discord

import (
	"context"
	"fmt"

	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// AlertSender implements ports.AlertSender against a fixed operator webhook.
// Urgent alerts mention the owner so they surface as a ping rather than an
// unread channel message.
type AlertSender struct {
	client     ports.HTTPClient
	webhookURL string
	ownerID    string
	logger     ports.Logger
}

// NewAlertSender creates an operator alert sender. ownerID may be empty, in
// which case urgent alerts carry no mention.
func NewAlertSender(client ports.HTTPClient, webhookURL, ownerID string, logger ports.Logger) *AlertSender {
	return &AlertSender{
		client:     client,
		webhookURL: webhookURL,
		ownerID:    ownerID,
		logger:     logger,
	}
}

// Alert posts the message as an embed on the operator webhook.
func (s *AlertSender) Alert(ctx context.Context, message string, urgent bool) error {
	content := "Info:"
	if urgent {
		content = "Urgent:"
		if s.ownerID != "" {
			content = fmt.Sprintf("<@%s> Urgent:", s.ownerID)
		}
	}

	msg := webhookMessage{
		Content: content,
		Embeds:  []embed{{Description: message}},
	}
	return post(ctx, s.client, s.webhookURL, msg)
}
