package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/metrics"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// DefaultMaxReconnectRetries bounds automatic reconnect attempts after a lost
// or closed connection.
const DefaultMaxReconnectRetries = 10

// SessionConfig tunes the stream session's reconnect policy.
type SessionConfig struct {
	MaxRetries          int
	ReconnectDelay      time.Duration
	ReconnectDelayLimit time.Duration
}

// DefaultSessionConfig returns the session defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxRetries:          DefaultMaxReconnectRetries,
		ReconnectDelay:      DefaultReconnectDelayInitial,
		ReconnectDelayLimit: DefaultReconnectDelayMax,
	}
}

// Session manages the one long-lived connection to the provider's event feed.
// It drives the domain session state machine, classifies connection-lifecycle
// events, and hands matched events to the dispatcher without blocking the
// read loop.
type Session struct {
	cfg        SessionConfig
	provider   ports.StreamProvider
	dispatcher *Dispatcher
	alerts     ports.AlertSender
	logger     ports.Logger
	metrics    *metrics.Set
	backoff    *backoff

	mu       sync.Mutex
	state    domain.SessionState
	attempts int

	wg sync.WaitGroup
}

// NewSession wires a Session from its dependencies.
func NewSession(
	cfg SessionConfig,
	provider ports.StreamProvider,
	dispatcher *Dispatcher,
	alerts ports.AlertSender,
	logger ports.Logger,
	m *metrics.Set,
) *Session {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxReconnectRetries
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelayInitial
	}
	if cfg.ReconnectDelayLimit <= 0 {
		cfg.ReconnectDelayLimit = DefaultReconnectDelayMax
	}
	return &Session{
		cfg:        cfg,
		provider:   provider,
		dispatcher: dispatcher,
		alerts:     alerts,
		logger:     logger,
		metrics:    m,
		backoff:    newBackoff(cfg.ReconnectDelay, cfg.ReconnectDelayLimit),
		state:      domain.SessionDisconnected,
	}
}

// State returns the current session state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns the reconnect attempt counter. It resets to zero when a
// connection is established.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Run opens the stream and consumes it until ctx is canceled, the reconnect
// budget is exhausted, or the initial open fails.
//
// The initial open is not retried: a failure there is a startup failure for
// the process. Reconnects only happen after the session has been connected.
func (s *Session) Run(ctx context.Context) error {
	defer s.wg.Wait()

	s.transition(domain.EventOpen, "open requested")
	stream, err := s.provider.Open(ctx)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	s.onConnected(ctx, "provider acknowledged session")
	s.sendAlert(ctx, "Connected to stream.", false)

	for {
		err := s.consume(ctx, stream)
		_ = stream.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if errors.Is(err, domain.ErrStreamClosed) {
			s.transition(domain.EventProviderClosed, "provider closed the connection")
			s.sendAlert(ctx, "Stream connection CLOSED by provider.", true)
		} else {
			s.transition(domain.EventTransportLost, "transport disconnect: "+err.Error())
			s.sendAlert(ctx, "Stream connection LOST.", true)
		}

		stream, err = s.reconnect(ctx)
		if err != nil {
			return err
		}
		s.onConnected(ctx, "reconnected")
		s.sendAlert(ctx, "Reconnected to stream.", true)
	}
}

// consume reads events until the stream errors. Malformed payloads are
// logged and skipped; they never escalate the connection state. Each event
// is dispatched on its own goroutine so a slow push cannot stall the read
// loop.
func (s *Session) consume(ctx context.Context, stream ports.EventStream) error {
	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedPayload) {
				s.logger.Warn("dropping malformed payload", ports.Err(err))
				s.metrics.MalformedPayload()
				continue
			}
			return err
		}

		s.metrics.EventReceived()
		s.logger.Info("matched post",
			ports.String("author", ev.AuthorHandle),
			ports.String("url", ev.PostURL()),
			ports.Bool("repost", ev.IsRepost),
		)

		s.wg.Add(1)
		go func(ev domain.MatchedEvent) {
			defer s.wg.Done()
			s.dispatcher.Dispatch(ctx, ev)
		}(ev)
	}
}

// reconnect attempts to re-open the stream, bounded by MaxRetries. On
// success the attempt counter and backoff reset. On exhaustion the session
// enters its terminal state and exactly one urgent alert is produced.
func (s *Session) reconnect(ctx context.Context) (ports.EventStream, error) {
	for attempt := 1; ; attempt++ {
		s.setAttempts(attempt)
		s.metrics.ReconnectAttempt()
		s.transition(domain.EventRetry, fmt.Sprintf("reconnect attempt %d/%d", attempt, s.cfg.MaxRetries))

		stream, err := s.provider.Open(ctx)
		if err == nil {
			return stream, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Warn("reconnect attempt failed",
			ports.Int("attempt", attempt),
			ports.Int("max", s.cfg.MaxRetries),
			ports.Err(err),
		)

		if attempt >= s.cfg.MaxRetries {
			s.transition(domain.EventRetriesExhausted, "reconnect budget exhausted")
			s.sendAlert(ctx, "Stream reconnect limit exceeded. Will not try again.", true)
			return nil, domain.ErrReconnectExhausted
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff.Next()):
		}
	}
}

func (s *Session) onConnected(ctx context.Context, reason string) {
	s.setAttempts(0)
	s.backoff.Reset()
	s.transition(domain.EventConnectAck, reason)
}

// transition applies ev to the session state. An invalid transition is a
// programming error in the session loop; it is logged and the state is left
// unchanged.
func (s *Session) transition(ev domain.SessionEvent, reason string) {
	s.mu.Lock()
	from := s.state
	next, err := domain.Transition(from, ev)
	if err == nil {
		s.state = next
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("session transition rejected", ports.Err(err))
		return
	}

	s.metrics.SessionState(int(next))
	s.logger.Info("session state",
		ports.String("from", from.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)
}

func (s *Session) setAttempts(n int) {
	s.mu.Lock()
	s.attempts = n
	s.mu.Unlock()
}

func (s *Session) sendAlert(ctx context.Context, message string, urgent bool) {
	if err := s.alerts.Alert(ctx, message, urgent); err != nil {
		s.logger.Warn("alert delivery failed", ports.Err(err))
	}
}
