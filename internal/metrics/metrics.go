// Package metrics exposes prometheus instrumentation for the bot's three
// long-lived activities: the stream session, the sync engine, and notice
// dispatch. A nil *Set is valid and records nothing, so tests can pass nil.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the bot's metric collectors.
type Set struct {
	eventsReceived    prometheus.Counter
	malformedPayloads prometheus.Counter
	noticesSent       prometheus.Counter
	noticeFailures    prometheus.Counter
	syncRuns          *prometheus.CounterVec
	reconnectAttempts prometheus.Counter
	sessionState      prometheus.Gauge
}

// NewSet registers the bot's collectors with reg and returns the set.
func NewSet(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		eventsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_events_received_total",
			Help: "Matched events received from the filtered stream.",
		}),
		malformedPayloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_malformed_payloads_total",
			Help: "Stream payloads dropped because they could not be parsed.",
		}),
		noticesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_notices_sent_total",
			Help: "Notices successfully delivered to channel destinations.",
		}),
		noticeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_notice_failures_total",
			Help: "Notice deliveries that failed.",
		}),
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbot_sync_runs_total",
			Help: "Rule synchronization cycles by result.",
		}, []string{"result"}),
		reconnectAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_reconnect_attempts_total",
			Help: "Stream reconnect attempts.",
		}),
		sessionState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tweetbot_session_state",
			Help: "Current stream session state as its enum value.",
		}),
	}
}

// EventReceived counts one matched event.
func (s *Set) EventReceived() {
	if s == nil {
		return
	}
	s.eventsReceived.Inc()
}

// MalformedPayload counts one dropped payload.
func (s *Set) MalformedPayload() {
	if s == nil {
		return
	}
	s.malformedPayloads.Inc()
}

// NoticeSent counts one delivered notice.
func (s *Set) NoticeSent() {
	if s == nil {
		return
	}
	s.noticesSent.Inc()
}

// NoticeFailed counts one failed delivery.
func (s *Set) NoticeFailed() {
	if s == nil {
		return
	}
	s.noticeFailures.Inc()
}

// SyncRun counts one sync cycle with result "ok" or "error".
func (s *Set) SyncRun(result string) {
	if s == nil {
		return
	}
	s.syncRuns.WithLabelValues(result).Inc()
}

// ReconnectAttempt counts one reconnect attempt.
func (s *Set) ReconnectAttempt() {
	if s == nil {
		return
	}
	s.reconnectAttempts.Inc()
}

// SessionState records the session's current state value.
func (s *Set) SessionState(state int) {
	if s == nil {
		return
	}
	s.sessionState.Set(float64(state))
}

// Handler returns an HTTP handler serving the registry in the prometheus
// exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
