package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BearerToken     string `toml:"bearer_token"`
	AlertWebhookURL string `toml:"alert_webhook"`
	OwnerID         string `toml:"owner_id"`

	StoreBackend      string `toml:"store_backend"`
	SubscriptionsFile string `toml:"subscriptions_file"`
	NATSURL           string `toml:"nats_url"`
	NATSBucket        string `toml:"nats_bucket"`

	MaxReconnectRetries int    `toml:"max_reconnects"`
	ReconnectDelay      string `toml:"reconnect_delay"`
	ReconnectDelayLimit string `toml:"reconnect_delay_limit"`

	HTTPTimeout string `toml:"http_timeout"`
	MetricsAddr string `toml:"metrics_addr"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.tweetbot/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tweetbot", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bearer-token", fc.BearerToken, &cfg.BearerToken)
	s.setString("alert-webhook", fc.AlertWebhookURL, &cfg.AlertWebhookURL)
	s.setString("owner-id", fc.OwnerID, &cfg.OwnerID)

	s.setString("store-backend", fc.StoreBackend, &cfg.StoreBackend)
	s.setString("subscriptions-file", fc.SubscriptionsFile, &cfg.SubscriptionsFile)
	s.setString("nats-url", fc.NATSURL, &cfg.NATSURL)
	s.setString("nats-bucket", fc.NATSBucket, &cfg.NATSBucket)

	s.setInt("max-reconnects", fc.MaxReconnectRetries, &cfg.MaxReconnectRetries)

	if err := s.setDuration("reconnect-delay", fc.ReconnectDelay, &cfg.ReconnectDelay); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-delay-limit", fc.ReconnectDelayLimit, &cfg.ReconnectDelayLimit); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
