package ports

import (
	"context"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

// SubscriptionStore provides read access to channel subscriptions and a
// change-notification feed over them. The store owns the records; the bot
// only ever takes snapshots.
type SubscriptionStore interface {
	// Subscriptions returns a snapshot of all channel subscription records.
	Subscriptions(ctx context.Context) ([]domain.ChannelSubscription, error)

	// Watch returns a channel that receives an element on every insert,
	// update, or delete of a subscription record. No payload interpretation
	// is needed beyond "something changed". The channel is closed when the
	// watch terminates.
	Watch(ctx context.Context) (<-chan struct{}, error)

	// Close releases the store connection.
	Close() error
}
