package app

import (
	"context"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Watcher consumes the subscription store's change feed for the process
// lifetime and triggers a rule sync on every mutation. Triggering is
// fire-and-forget: a slow sync never blocks delivery of later notifications
// (coalescing lives in the Synchronizer).
type Watcher struct {
	store  ports.SubscriptionStore
	sync   *Synchronizer
	alerts ports.AlertSender
	logger ports.Logger
}

// NewWatcher wires a Watcher from its dependencies.
func NewWatcher(store ports.SubscriptionStore, sync *Synchronizer, alerts ports.AlertSender, logger ports.Logger) *Watcher {
	return &Watcher{
		store:  store,
		sync:   sync,
		alerts: alerts,
		logger: logger,
	}
}

// Run blocks consuming change notifications until ctx is canceled or the
// feed terminates. Feed termination is urgent: the bot would silently stop
// following subscription edits otherwise.
func (w *Watcher) Run(ctx context.Context) error {
	ch, err := w.store.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ch:
			if !ok {
				w.logger.Error("subscription change feed terminated")
				w.sendAlert(ctx, "Subscription change feed terminated; edits will no longer be picked up.", true)
				return domain.ErrWatchClosed
			}
			w.logger.Info("subscription change detected")
			w.sendAlert(ctx, "Change detected in subscription store.", false)
			w.sync.Trigger(ctx)
		}
	}
}

func (w *Watcher) sendAlert(ctx context.Context, message string, urgent bool) {
	if err := w.alerts.Alert(ctx, message, urgent); err != nil {
		w.logger.Warn("alert delivery failed", ports.Err(err))
	}
}
