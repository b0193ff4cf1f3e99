// Package filestore keeps channel subscriptions in a single TOML file and
// turns edits to that file into change signals. It is the zero-infrastructure
// alternative to the NATS-backed store.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// debounceDelay absorbs the bursts of events editors produce for one save.
const debounceDelay = 100 * time.Millisecond

// fileRecord is one [[channel]] entry in the subscriptions file.
type fileRecord struct {
	ID       string   `toml:"id"`
	Webhook  string   `toml:"webhook"`
	Accounts []string `toml:"accounts"`
}

type subscriptionsFile struct {
	Channels []fileRecord `toml:"channel"`
}

// Store implements ports.SubscriptionStore on a TOML file.
type Store struct {
	path   string
	logger ports.Logger

	mu       sync.Mutex
	debounce *time.Timer
	closed   bool
}

// Open verifies the subscriptions file is readable and parseable before the
// bot starts depending on it.
func Open(path string, logger ports.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	logger.Info("subscription store ready",
		ports.String("backend", "file"),
		ports.String("path", path),
	)
	return s, nil
}

// Subscriptions re-reads the file on every call so a sync cycle always sees
// the latest saved state.
func (s *Store) Subscriptions(ctx context.Context) ([]domain.ChannelSubscription, error) {
	return s.load()
}

func (s *Store) load() ([]domain.ChannelSubscription, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions file: %w", err)
	}

	var file subscriptionsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse subscriptions file: %w", err)
	}

	subs := make([]domain.ChannelSubscription, 0, len(file.Channels))
	for _, rec := range file.Channels {
		subs = append(subs, domain.ChannelSubscription{
			ChannelID:   rec.ID,
			Destination: rec.Webhook,
			Accounts:    rec.Accounts,
		})
	}
	return subs, nil
}

// Watch signals once per debounced burst of writes to the subscriptions
// file. The directory is watched rather than the file itself so atomic
// rename-style saves keep working.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer s.closeChanges(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.signalAfterDebounce(changes)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("subscriptions file watcher error", ports.Err(err))
			}
		}
	}()
	return changes, nil
}

func (s *Store) signalAfterDebounce(changes chan<- struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(debounceDelay, func() {
		// The watch goroutine may have closed the channel between arming the
		// timer and this callback firing.
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		select {
		case changes <- struct{}{}:
		default:
		}
	})
}

// closeChanges marks the signal channel closed and stops any armed debounce
// timer before closing, so a late timer callback cannot send on it.
func (s *Store) closeChanges(changes chan struct{}) {
	s.mu.Lock()
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.mu.Unlock()
	close(changes)
}

// Close releases nothing; the watcher goroutine owns its resources and stops
// with its context.
func (s *Store) Close() error {
	return nil
}
