package app

import (
	"math/rand"
	"time"
)

// Default reconnect pacing values.
const (
	DefaultReconnectDelayInitial = 2 * time.Second
	DefaultReconnectDelayMax     = 2 * time.Minute
)

// backoff implements exponential backoff with jitter. Unlike a plain sleep,
// Next returns the duration so callers can wait in a context-aware select.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

// newBackoff creates a new backoff with the given initial and max durations.
func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Next returns the delay before the next attempt and advances the schedule.
func (b *backoff) Next() time.Duration {
	// Add jitter: ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	delay := time.Duration(float64(b.current) + jitter)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return delay
}

// Reset resets the backoff to the initial duration.
func (b *backoff) Reset() {
	b.current = b.initial
}
