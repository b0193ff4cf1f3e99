package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/metrics"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Dispatcher maps a matched event to the channels watching its original
// author and pushes one formatted notice per channel.
type Dispatcher struct {
	store   ports.SubscriptionStore
	sender  ports.NoticeSender
	logger  ports.Logger
	metrics *metrics.Set
}

// NewDispatcher wires a Dispatcher from its dependencies.
func NewDispatcher(store ports.SubscriptionStore, sender ports.NoticeSender, logger ports.Logger, m *metrics.Set) *Dispatcher {
	return &Dispatcher{
		store:   store,
		sender:  sender,
		logger:  logger,
		metrics: m,
	}
}

// Dispatch resolves the event's original author against the current
// subscriptions and pushes a notice to every matching destination.
//
// Destinations are attempted concurrently and failures are isolated: one
// channel's broken webhook never blocks the others. Failures are aggregated
// into a single log entry; there is no retry at this layer.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.MatchedEvent) {
	subs, err := d.store.Subscriptions(ctx)
	if err != nil {
		d.logger.Error("dispatch: subscription snapshot failed", ports.Err(err))
		return
	}

	// Reposts resolve to the original poster, not the reposting account.
	handle := ev.OriginalAuthorHandle()
	notice := buildNotice(ev)

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
		matched  int
	)
	for _, sub := range subs {
		if !sub.Watches(handle) {
			continue
		}
		matched++
		sub := sub
		g.Go(func() error {
			if err := d.sender.Send(ctx, sub.Destination, notice); err != nil {
				d.metrics.NoticeFailed()
				mu.Lock()
				failures = append(failures, fmt.Errorf("channel %s: %w", sub.ChannelID, err))
				mu.Unlock()
				return nil
			}
			d.metrics.NoticeSent()
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		d.logger.Warn("notice delivery failures",
			ports.String("author", handle),
			ports.Int("channels", matched),
			ports.Int("failed", len(failures)),
			ports.Err(errors.Join(failures...)),
		)
	}
}

// buildNotice formats the outgoing notice for one matched event. The body is
// the post URL, prefixed for reposts; the display identity is the account
// whose activity matched.
func buildNotice(ev domain.MatchedEvent) domain.Notice {
	body := ev.PostURL()
	if ev.IsRepost {
		body = "RT " + body
	}
	return domain.Notice{
		BodyText:    body,
		DisplayName: ev.AuthorName,
		AvatarURL:   ev.AvatarURL,
	}
}
