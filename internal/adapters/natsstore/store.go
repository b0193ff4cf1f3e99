// Package natsstore keeps channel subscriptions in a NATS JetStream
// key-value bucket. Each key is a channel id and each value is the JSON
// subscription record, so edits made by external tooling surface through the
// bucket watcher without the bot restarting.
package natsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Store implements ports.SubscriptionStore on a JetStream KV bucket.
type Store struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	logger ports.Logger
}

// Open connects to the NATS server and binds the subscription bucket,
// creating it when it does not exist yet.
func Open(ctx context.Context, url, bucket string, logger ports.Logger) (*Store, error) {
	conn, err := nats.Connect(url, nats.Name("tweetbot"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open jetstream: %w", err)
	}

	kv, err := js.KeyValue(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "tweetbot channel subscriptions",
			History:     5,
		})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind bucket %s: %w", bucket, err)
	}

	logger.Info("subscription store ready",
		ports.String("backend", "nats"),
		ports.String("bucket", bucket),
	)
	return &Store{conn: conn, kv: kv, logger: logger}, nil
}

// Subscriptions reads every record in the bucket. Records that fail to
// decode are skipped with a warning so one bad edit cannot take down a sync
// cycle.
func (s *Store) Subscriptions(ctx context.Context) ([]domain.ChannelSubscription, error) {
	keys, err := s.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list subscription keys: %w", err)
	}

	subs := make([]domain.ChannelSubscription, 0, len(keys))
	for _, key := range keys {
		entry, err := s.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			// Deleted between Keys and Get.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read subscription %s: %w", key, err)
		}

		var sub domain.ChannelSubscription
		if err := json.Unmarshal(entry.Value(), &sub); err != nil {
			s.logger.Warn("skipping undecodable subscription record",
				ports.String("key", key),
				ports.Err(err),
			)
			continue
		}
		sub.ChannelID = key
		subs = append(subs, sub)
	}
	return subs, nil
}

// Watch emits one signal per bucket mutation. The channel closes when the
// underlying watcher ends.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := s.kv.WatchAll(ctx, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("watch bucket: %w", err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() { _ = watcher.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry == nil {
					// Initial replay marker from the watcher.
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
					// A signal is already pending; coalesce.
				}
			}
		}
	}()
	return changes, nil
}

// Close drains the NATS connection.
func (s *Store) Close() error {
	return s.conn.Drain()
}
