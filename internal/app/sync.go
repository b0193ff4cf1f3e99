package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/metrics"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
	"github.com/jamesm2w/tweetbot-v2/internal/rules"
)

// Synchronizer replaces the provider's entire active rule set with the
// compiler's output for the current subscription snapshot.
//
// Sync failures are reported to the operator and returned, never retried
// internally: the next subscription change is the de-facto retry mechanism.
type Synchronizer struct {
	store    ports.SubscriptionStore
	rules    ports.RuleService
	compiler rules.Compiler
	alerts   ports.AlertSender
	logger   ports.Logger
	metrics  *metrics.Set

	// Single-flight guard: at most one sync in flight, with at most one more
	// queued behind it. Triggers during a running sync set dirty and are
	// coalesced into a single re-run.
	mu      sync.Mutex
	running bool
	dirty   bool
}

// NewSynchronizer wires a Synchronizer from its dependencies.
func NewSynchronizer(
	store ports.SubscriptionStore,
	ruleSvc ports.RuleService,
	compiler rules.Compiler,
	alerts ports.AlertSender,
	logger ports.Logger,
	m *metrics.Set,
) *Synchronizer {
	return &Synchronizer{
		store:    store,
		rules:    ruleSvc,
		compiler: compiler,
		alerts:   alerts,
		logger:   logger,
		metrics:  m,
	}
}

// Sync performs one full reconcile pass: snapshot the subscriptions, compile
// the desired rule set, delete every currently active provider rule, then add
// the desired set.
//
// Delete-before-add is deliberate: the provider has no atomic replace, so a
// window with zero active rules is accepted. A provider-reported invalid rule
// fails the whole cycle even though rules may have been partially applied;
// there is no rollback.
func (s *Synchronizer) Sync(ctx context.Context) error {
	cycle := uuid.NewString()[:8]
	s.logger.Info("sync started", ports.String("cycle", cycle))

	subs, err := s.store.Subscriptions(ctx)
	if err != nil {
		return s.fail(ctx, cycle, fmt.Errorf("fetch subscriptions: %w", err))
	}

	active, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return s.fail(ctx, cycle, fmt.Errorf("fetch active rules: %w", err))
	}

	desired, dropped := s.compiler.Compile(subs)
	if dropped > 0 {
		// Known degradation, not a failure: handles past the truncation point
		// are unmonitored until the subscription set shrinks.
		s.logger.Warn("rule set truncated at provider limit",
			ports.String("cycle", cycle),
			ports.Int("rules", len(desired)),
			ports.Int("dropped_handles", dropped),
		)
		s.sendAlert(ctx, fmt.Sprintf(
			"Rule set truncated at the provider limit: %d account(s) are unmonitored this cycle.",
			dropped), false)
	}

	if len(active) > 0 {
		ids := make([]string, len(active))
		for i, r := range active {
			ids[i] = r.ID
		}
		if err := s.rules.DeleteRules(ctx, ids); err != nil {
			return s.fail(ctx, cycle, fmt.Errorf("delete %d active rules: %w", len(ids), err))
		}
	}

	if len(desired) > 0 {
		summary, err := s.rules.AddRules(ctx, desired)
		if err != nil {
			return s.fail(ctx, cycle, fmt.Errorf("add %d rules: %w", len(desired), err))
		}
		if summary.Invalid > 0 {
			return s.fail(ctx, cycle, fmt.Errorf("%w: %d invalid of %d submitted",
				domain.ErrInvalidRules, summary.Invalid, len(desired)))
		}
	}

	s.logger.Info("sync complete",
		ports.String("cycle", cycle),
		ports.Int("subscriptions", len(subs)),
		ports.Int("rules", len(desired)),
	)
	s.metrics.SyncRun("ok")
	return nil
}

// Trigger schedules a sync without blocking the caller. Bursts of triggers
// coalesce: one sync runs at a time and a trigger arriving mid-flight queues
// exactly one follow-up run against fresh state.
func (s *Synchronizer) Trigger(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		for {
			// Sync reports its own failures; nothing to do with the error here.
			_ = s.Sync(ctx)

			s.mu.Lock()
			if s.dirty {
				s.dirty = false
				s.mu.Unlock()
				continue
			}
			s.running = false
			s.mu.Unlock()
			return
		}
	}()
}

// InFlight reports whether a triggered sync is currently running.
func (s *Synchronizer) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Synchronizer) fail(ctx context.Context, cycle string, err error) error {
	s.logger.Error("sync failed", ports.String("cycle", cycle), ports.Err(err))
	s.metrics.SyncRun("error")
	s.sendAlert(ctx, "Error synchronizing filter rules: "+err.Error(), false)
	return err
}

func (s *Synchronizer) sendAlert(ctx context.Context, message string, urgent bool) {
	if err := s.alerts.Alert(ctx, message, urgent); err != nil {
		s.logger.Warn("alert delivery failed", ports.Err(err))
	}
}
