// Package tweetbot relays posts from watched social accounts to Discord
// channels. It keeps the provider's filtered stream rules in sync with a
// subscription store, consumes the matched-event stream, and fans each event
// out to the channels watching its original author.
//
// Example usage:
//
//	cfg := tweetbot.DefaultConfig()
//	cfg.BearerToken = "provider-token"
//	cfg.AlertWebhookURL = "https://discord.com/api/webhooks/..."
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := tweetbot.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package tweetbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesm2w/tweetbot-v2/internal/adapters/discord"
	"github.com/jamesm2w/tweetbot-v2/internal/adapters/filestore"
	"github.com/jamesm2w/tweetbot-v2/internal/adapters/natsstore"
	"github.com/jamesm2w/tweetbot-v2/internal/adapters/twitter"
	"github.com/jamesm2w/tweetbot-v2/internal/app"
	"github.com/jamesm2w/tweetbot-v2/internal/cliconfig"
	"github.com/jamesm2w/tweetbot-v2/internal/metrics"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
	"github.com/jamesm2w/tweetbot-v2/internal/rules"
	"github.com/jamesm2w/tweetbot-v2/pkg/log"
)

// Config holds the bot's configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible default values.
// At minimum, set BearerToken and AlertWebhookURL before calling Run.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Option customizes a Run invocation.
type Option func(*options)

type options struct {
	logger ports.Logger
}

// WithLogger replaces the default console logger.
func WithLogger(l ports.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run assembles the bot from cfg and blocks until ctx is canceled or a fatal
// error occurs. cfg must already be validated.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	o := options{logger: log.NewZerologAdapter()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	registry := prometheus.NewRegistry()
	m := metrics.NewSet(registry)
	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, cfg.MetricsAddr, registry, logger)
	}

	apiClient := &http.Client{Timeout: cfg.HTTPTimeout}
	// The streaming connection is long-lived; a client timeout would cut it.
	streamClient := &http.Client{}

	alerts := discord.NewAlertSender(apiClient, cfg.AlertWebhookURL, cfg.OwnerID, logger)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open subscription store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("subscription store close failed", ports.Err(err))
		}
	}()

	provider := twitter.NewClient(apiClient, streamClient, cfg.BearerToken, logger)

	sync := app.NewSynchronizer(store, provider, rules.NewCompiler(), alerts, logger, m)
	dispatcher := app.NewDispatcher(store, discord.NewWebhookSender(apiClient, logger), logger, m)
	session := app.NewSession(app.SessionConfig{
		MaxRetries:          cfg.MaxReconnectRetries,
		ReconnectDelay:      cfg.ReconnectDelay,
		ReconnectDelayLimit: cfg.ReconnectDelayLimit,
	}, provider, dispatcher, alerts, logger, m)
	watcher := app.NewWatcher(store, sync, alerts, logger)

	return app.NewBot(sync, session, watcher, alerts, logger).Run(ctx)
}

func openStore(ctx context.Context, cfg Config, logger ports.Logger) (ports.SubscriptionStore, error) {
	switch cfg.StoreBackend {
	case cliconfig.BackendNATS:
		return natsstore.Open(ctx, cfg.NATSURL, cfg.NATSBucket, logger)
	case cliconfig.BackendFile:
		return filestore.Open(cfg.SubscriptionsFile, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// serveMetrics exposes the registry on addr until ctx is canceled. Serving
// errors are logged rather than fatal; metrics are an aid, not a dependency.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, logger ports.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("metrics listener starting", ports.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener failed", ports.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
