package domain

import (
	"errors"
	"testing"
)

func TestSessionState_String(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{SessionDisconnected, "Disconnected"},
		{SessionConnecting, "Connecting"},
		{SessionConnected, "Connected"},
		{SessionLost, "Lost"},
		{SessionClosed, "Closed"},
		{SessionReconnectExhausted, "ReconnectExhausted"},
		{SessionState(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SessionState(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestTransition_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from SessionState
		ev   SessionEvent
		want SessionState
	}{
		{"disconnected open", SessionDisconnected, EventOpen, SessionConnecting},
		{"connecting ack", SessionConnecting, EventConnectAck, SessionConnected},
		{"connecting retry", SessionConnecting, EventRetry, SessionConnecting},
		{"connecting exhausted", SessionConnecting, EventRetriesExhausted, SessionReconnectExhausted},
		{"connected lost", SessionConnected, EventTransportLost, SessionLost},
		{"connected closed", SessionConnected, EventProviderClosed, SessionClosed},
		{"lost retry", SessionLost, EventRetry, SessionConnecting},
		{"closed retry", SessionClosed, EventRetry, SessionConnecting},
		{"lost exhausted", SessionLost, EventRetriesExhausted, SessionReconnectExhausted},
		{"closed exhausted", SessionClosed, EventRetriesExhausted, SessionReconnectExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if err != nil {
				t.Fatalf("Transition(%s, %s) error = %v", tt.from, tt.ev, err)
			}
			if got != tt.want {
				t.Errorf("Transition(%s, %s) = %s, want %s", tt.from, tt.ev, got, tt.want)
			}
		})
	}
}

func TestTransition_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from SessionState
		ev   SessionEvent
	}{
		{"disconnected ack", SessionDisconnected, EventConnectAck},
		{"disconnected lost", SessionDisconnected, EventTransportLost},
		{"connecting lost", SessionConnecting, EventTransportLost},
		{"connected open", SessionConnected, EventOpen},
		{"connected retry", SessionConnected, EventRetry},
		{"lost ack", SessionLost, EventConnectAck},
		{"exhausted open", SessionReconnectExhausted, EventOpen},
		{"exhausted retry", SessionReconnectExhausted, EventRetry},
		{"exhausted ack", SessionReconnectExhausted, EventConnectAck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Transition(%s, %s) error = %v, want ErrInvalidTransition", tt.from, tt.ev, err)
			}
			if got != tt.from {
				t.Errorf("invalid transition moved state: %s -> %s", tt.from, got)
			}
		})
	}
}
