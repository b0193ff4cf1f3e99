package ports

import (
	"context"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

// StreamProvider opens long-lived connections to the provider's filtered
// event feed. The feed delivers posts matching the active rule set.
type StreamProvider interface {
	// Open establishes one streaming connection. The returned stream is owned
	// by the caller and must be closed when done.
	Open(ctx context.Context) (EventStream, error)
}

// EventStream is one live connection to the filtered feed.
type EventStream interface {
	// Next blocks until the next matched event arrives.
	//
	// Error classification drives the session state machine:
	//   - domain.ErrMalformedPayload: the payload could not be parsed; the
	//     stream is still healthy and Next may be called again.
	//   - domain.ErrStreamClosed: the provider performed an orderly close.
	//   - anything else: transport-level disconnect.
	Next(ctx context.Context) (domain.MatchedEvent, error)

	// Close releases the underlying connection.
	Close() error
}
