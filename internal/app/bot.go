package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Bot ties the long-lived activities together: establish the initial rule
// set, open the stream session, and keep the change watcher running for the
// process lifetime.
type Bot struct {
	sync    *Synchronizer
	session *Session
	watcher *Watcher
	alerts  ports.AlertSender
	logger  ports.Logger
}

// NewBot wires a Bot from its already-constructed components.
func NewBot(sync *Synchronizer, session *Session, watcher *Watcher, alerts ports.AlertSender, logger ports.Logger) *Bot {
	return &Bot{
		sync:    sync,
		session: session,
		watcher: watcher,
		alerts:  alerts,
		logger:  logger,
	}
}

// Run executes the startup sequence and then blocks until ctx is canceled or
// a fatal error occurs.
//
// A failed initial sync is reported but not fatal: the next subscription
// change retries it. Failure to open the stream or the watch feed is fatal;
// the caller owns closing the store and process exit.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.sync.Sync(ctx); err != nil {
		// Already reported by the synchronizer.
		b.logger.Warn("startup sync failed; continuing, next change will retry", ports.Err(err))
	}

	b.sendAlert(ctx, "Tweetbot starting up: ruleset established, connecting to stream.", false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.session.Run(gctx) })
	g.Go(func() error { return b.watcher.Run(gctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.sendAlert(context.Background(), "Tweetbot SHUTDOWN: "+err.Error(), true)
		return err
	}

	b.logger.Info("shutdown complete")
	return nil
}

func (b *Bot) sendAlert(ctx context.Context, message string, urgent bool) {
	if err := b.alerts.Alert(ctx, message, urgent); err != nil {
		b.logger.Warn("alert delivery failed", ports.Err(err))
	}
}
