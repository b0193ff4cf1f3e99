package domain

import "errors"

// Domain errors represent error conditions in the tweetbot domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrStreamClosed is returned by a stream read when the provider performed
	// an orderly close of the connection.
	ErrStreamClosed = errors.New("tweetbot: stream closed by provider")

	// ErrMalformedPayload is returned when a stream payload cannot be parsed
	// into a matched event. It is non-fatal; the session skips the payload.
	ErrMalformedPayload = errors.New("tweetbot: malformed stream payload")

	// ErrInvalidTransition is returned when a session event is not valid in
	// the current session state.
	ErrInvalidTransition = errors.New("tweetbot: invalid session transition")

	// ErrReconnectExhausted is returned when the session has used up its
	// reconnect budget. The session is terminal and will not retry again.
	ErrReconnectExhausted = errors.New("tweetbot: reconnect attempts exhausted")

	// ErrInvalidRules is returned when the provider reports one or more
	// submitted filter rules as invalid.
	ErrInvalidRules = errors.New("tweetbot: provider rejected rules as invalid")

	// ErrWatchClosed is returned when the subscription change feed terminates
	// before the process does.
	ErrWatchClosed = errors.New("tweetbot: subscription watch terminated")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("tweetbot: invalid configuration")
)
