package domain

import "fmt"

// SessionState represents the lifecycle state of the stream session.
// Exactly one session is alive per process and its transitions are
// sequential, never concurrent.
type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionConnecting
	SessionConnected
	SessionLost
	SessionClosed
	SessionReconnectExhausted
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "Disconnected"
	case SessionConnecting:
		return "Connecting"
	case SessionConnected:
		return "Connected"
	case SessionLost:
		return "Lost"
	case SessionClosed:
		return "Closed"
	case SessionReconnectExhausted:
		return "ReconnectExhausted"
	default:
		return "Unknown"
	}
}

// SessionEvent is a connection-lifecycle event observed by the session.
type SessionEvent int

const (
	// EventOpen is the explicit request to establish the session.
	EventOpen SessionEvent = iota

	// EventConnectAck means the provider acknowledged session establishment.
	EventConnectAck

	// EventTransportLost means a transport-level disconnect was detected.
	EventTransportLost

	// EventProviderClosed means the provider performed an orderly close.
	EventProviderClosed

	// EventRetry schedules the next bounded reconnect attempt.
	EventRetry

	// EventRetriesExhausted means the reconnect budget is spent.
	EventRetriesExhausted
)

// String returns a human-readable representation of the event.
func (e SessionEvent) String() string {
	switch e {
	case EventOpen:
		return "Open"
	case EventConnectAck:
		return "ConnectAck"
	case EventTransportLost:
		return "TransportLost"
	case EventProviderClosed:
		return "ProviderClosed"
	case EventRetry:
		return "Retry"
	case EventRetriesExhausted:
		return "RetriesExhausted"
	default:
		return "Unknown"
	}
}

// Transition returns the state that follows ev in state st.
// Invalid (state, event) pairs return ErrInvalidTransition and leave the
// caller's state untouched. SessionReconnectExhausted is terminal: no event
// leads out of it.
func Transition(st SessionState, ev SessionEvent) (SessionState, error) {
	switch st {
	case SessionDisconnected:
		if ev == EventOpen {
			return SessionConnecting, nil
		}
	case SessionConnecting:
		switch ev {
		case EventConnectAck:
			return SessionConnected, nil
		case EventRetry:
			return SessionConnecting, nil
		case EventRetriesExhausted:
			return SessionReconnectExhausted, nil
		}
	case SessionConnected:
		switch ev {
		case EventTransportLost:
			return SessionLost, nil
		case EventProviderClosed:
			return SessionClosed, nil
		}
	case SessionLost, SessionClosed:
		switch ev {
		case EventRetry:
			return SessionConnecting, nil
		case EventRetriesExhausted:
			return SessionReconnectExhausted, nil
		}
	case SessionReconnectExhausted:
		// Terminal.
	}
	return st, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, st)
}
