package app

import (
	"context"
	"sync"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockAlerter records operator alerts.
type mockAlerter struct {
	mu     sync.Mutex
	alerts []alertRecord
}

type alertRecord struct {
	message string
	urgent  bool
}

func (m *mockAlerter) Alert(ctx context.Context, message string, urgent bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alertRecord{message, urgent})
	return nil
}

func (m *mockAlerter) records() []alertRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]alertRecord{}, m.alerts...)
}

// mockStore implements ports.SubscriptionStore with a fixed snapshot and a
// test-fed change channel.
type mockStore struct {
	mu      sync.Mutex
	subs    []domain.ChannelSubscription
	subsErr error
	changes chan struct{}
}

func newMockStore(subs ...domain.ChannelSubscription) *mockStore {
	return &mockStore{subs: subs, changes: make(chan struct{}, 8)}
}

func (m *mockStore) Subscriptions(ctx context.Context) ([]domain.ChannelSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subsErr != nil {
		return nil, m.subsErr
	}
	return append([]domain.ChannelSubscription{}, m.subs...), nil
}

func (m *mockStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	return m.changes, nil
}

func (m *mockStore) Close() error { return nil }

// mockRuleService records rule-management calls in order.
type mockRuleService struct {
	mu      sync.Mutex
	active  []domain.ActiveRule
	summary domain.RuleSummary

	activeErr error
	addErr    error
	deleteErr error

	calls   []string
	added   []domain.RuleSet
	deleted [][]string

	// blockAdd, when non-nil, makes AddRules wait until the channel closes.
	blockAdd chan struct{}
}

func (m *mockRuleService) ActiveRules(ctx context.Context) ([]domain.ActiveRule, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "active")
	active, err := m.active, m.activeErr
	m.mu.Unlock()
	return active, err
}

func (m *mockRuleService) AddRules(ctx context.Context, set domain.RuleSet) (domain.RuleSummary, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "add")
	m.added = append(m.added, set)
	block := m.blockAdd
	summary, err := m.summary, m.addErr
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return summary, err
}

func (m *mockRuleService) DeleteRules(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete")
	m.deleted = append(m.deleted, append([]string{}, ids...))
	return m.deleteErr
}

func (m *mockRuleService) callOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// mockSender records notice deliveries and can fail specific destinations.
type mockSender struct {
	mu       sync.Mutex
	sent     map[string]domain.Notice
	failDest map[string]error
}

func newMockSender() *mockSender {
	return &mockSender{sent: make(map[string]domain.Notice), failDest: make(map[string]error)}
}

func (m *mockSender) Send(ctx context.Context, destination string, notice domain.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failDest[destination]; ok {
		return err
	}
	m.sent[destination] = notice
	return nil
}

func (m *mockSender) delivered() map[string]domain.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Notice, len(m.sent))
	for k, v := range m.sent {
		out[k] = v
	}
	return out
}

// scriptedStream yields a fixed sequence of results from Next.
type scriptedStream struct {
	mu      sync.Mutex
	script  []streamResult
	pos     int
	reads   int
	onEnd   error // returned once the script runs out
	readsCh chan struct{}
}

type streamResult struct {
	ev  domain.MatchedEvent
	err error
}

func (s *scriptedStream) Next(ctx context.Context) (domain.MatchedEvent, error) {
	s.mu.Lock()
	s.reads++
	if s.readsCh != nil {
		select {
		case s.readsCh <- struct{}{}:
		default:
		}
	}
	if s.pos >= len(s.script) {
		err := s.onEnd
		s.mu.Unlock()
		if err == nil {
			<-ctx.Done()
			return domain.MatchedEvent{}, ctx.Err()
		}
		return domain.MatchedEvent{}, err
	}
	r := s.script[s.pos]
	s.pos++
	s.mu.Unlock()
	return r.ev, r.err
}

func (s *scriptedStream) Close() error { return nil }

// mockProvider returns streams (or errors) in sequence from Open.
type mockProvider struct {
	mu    sync.Mutex
	opens []openResult
	pos   int
	calls int
}

type openResult struct {
	stream ports.EventStream
	err    error
}

func (m *mockProvider) Open(ctx context.Context) (ports.EventStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.pos >= len(m.opens) {
		last := m.opens[len(m.opens)-1]
		return last.stream, last.err
	}
	r := m.opens[m.pos]
	m.pos++
	return r.stream, r.err
}

func (m *mockProvider) openCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
