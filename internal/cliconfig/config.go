// Package cliconfig layers the bot's configuration from defaults, a TOML
// file, TWEETBOT_* environment variables, and command-line flags, in that
// order of increasing precedence.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

// Subscription store backends.
const (
	BackendFile = "file"
	BackendNATS = "nats"
)

// Config holds CLI configuration for tweetbot.
type Config struct {
	BearerToken     string
	AlertWebhookURL string
	OwnerID         string

	StoreBackend      string
	SubscriptionsFile string
	NATSURL           string
	NATSBucket        string

	MaxReconnectRetries int
	ReconnectDelay      time.Duration
	ReconnectDelayLimit time.Duration

	HTTPTimeout time.Duration
	MetricsAddr string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BearerToken:         os.Getenv("TWEETBOT_BEARER_TOKEN"),
		StoreBackend:        BackendFile,
		SubscriptionsFile:   "subscriptions.toml",
		NATSURL:             "nats://127.0.0.1:4222",
		NATSBucket:          "tweetbot-subscriptions",
		MaxReconnectRetries: 10,
		ReconnectDelay:      2 * time.Second,
		ReconnectDelayLimit: 2 * time.Minute,
		HTTPTimeout:         15 * time.Second,
		MetricsAddr:         "", // metrics listener disabled unless set
	}
}

// Validate checks the configuration for errors. All failures wrap
// domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.BearerToken == "" {
		return fmt.Errorf("%w: bearer token is required (flag, config file, or TWEETBOT_BEARER_TOKEN)", domain.ErrInvalidConfig)
	}
	if c.AlertWebhookURL == "" {
		return fmt.Errorf("%w: alert-webhook is required", domain.ErrInvalidConfig)
	}

	switch c.StoreBackend {
	case BackendFile:
		if c.SubscriptionsFile == "" {
			return fmt.Errorf("%w: subscriptions-file is required for the file backend", domain.ErrInvalidConfig)
		}
	case BackendNATS:
		if c.NATSURL == "" || c.NATSBucket == "" {
			return fmt.Errorf("%w: nats-url and nats-bucket are required for the nats backend", domain.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q (want %q or %q)", domain.ErrInvalidConfig, c.StoreBackend, BackendFile, BackendNATS)
	}

	if c.MaxReconnectRetries <= 0 {
		return fmt.Errorf("%w: max-reconnects must be positive", domain.ErrInvalidConfig)
	}
	if c.ReconnectDelay <= 0 || c.ReconnectDelayLimit < c.ReconnectDelay {
		return fmt.Errorf("%w: reconnect delays must be positive with limit >= initial", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
