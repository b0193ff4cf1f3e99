package ports

import (
	"context"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

// NoticeSender pushes one formatted notice to a channel destination.
// Delivery is fire-and-forget: no confirmation is required and callers
// isolate failures per destination.
type NoticeSender interface {
	Send(ctx context.Context, destination string, notice domain.Notice) error
}

// AlertSender reports status and alerts to the operator out of band.
// Delivery is best effort; callers log failures and move on.
type AlertSender interface {
	// Alert sends a free-text message. Urgent alerts indicate human
	// intervention is required.
	Alert(ctx context.Context, message string, urgent bool) error
}
