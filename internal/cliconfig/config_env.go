package cliconfig

import "os"

// ApplyEnvConfig applies TWEETBOT_* environment variables to the Config.
// Environment values override the config file but lose to explicit flags
// (tracked in the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bearer-token", os.Getenv("TWEETBOT_BEARER_TOKEN"), &cfg.BearerToken)
	s.setString("alert-webhook", os.Getenv("TWEETBOT_ALERT_WEBHOOK"), &cfg.AlertWebhookURL)
	s.setString("owner-id", os.Getenv("TWEETBOT_OWNER_ID"), &cfg.OwnerID)

	s.setString("store-backend", os.Getenv("TWEETBOT_STORE_BACKEND"), &cfg.StoreBackend)
	s.setString("subscriptions-file", os.Getenv("TWEETBOT_SUBSCRIPTIONS_FILE"), &cfg.SubscriptionsFile)
	s.setString("nats-url", os.Getenv("TWEETBOT_NATS_URL"), &cfg.NATSURL)
	s.setString("nats-bucket", os.Getenv("TWEETBOT_NATS_BUCKET"), &cfg.NATSBucket)

	if err := s.setIntFromString("max-reconnects", os.Getenv("TWEETBOT_MAX_RECONNECTS"), &cfg.MaxReconnectRetries); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-delay", os.Getenv("TWEETBOT_RECONNECT_DELAY"), &cfg.ReconnectDelay); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-delay-limit", os.Getenv("TWEETBOT_RECONNECT_DELAY_LIMIT"), &cfg.ReconnectDelayLimit); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("TWEETBOT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setString("metrics-addr", os.Getenv("TWEETBOT_METRICS_ADDR"), &cfg.MetricsAddr)

	return nil
}
