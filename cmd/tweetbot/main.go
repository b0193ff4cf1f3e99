package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	tweetbot "github.com/jamesm2w/tweetbot-v2"
	"github.com/jamesm2w/tweetbot-v2/internal/cliconfig"
	"github.com/jamesm2w/tweetbot-v2/pkg/log"
)

const longHelp = `Relay posts from watched social accounts to Discord channels.

Tweetbot keeps the provider's filtered-stream rules in sync with a
subscription store (a TOML file or a NATS key-value bucket), consumes the
matched-event stream, and pushes a webhook notice to every channel watching
the post's original author. Operator alerts go to a dedicated webhook.`

const exampleUsage = `  tweetbot --alert-webhook https://discord.com/api/webhooks/... --subscriptions-file subs.toml
  tweetbot --config $HOME/.tweetbot/config.toml --store-backend nats --nats-url nats://10.0.0.5:4222`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := tweetbot.DefaultConfig()
	var cfgPath string

	logger := log.NewZerologAdapter()

	root := &cobra.Command{
		Use:     "tweetbot",
		Short:   "Relay posts from watched social accounts to Discord channels",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file first (default $HOME/.tweetbot/config.toml), then
			// environment, with explicit flags winning over both.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			// Log configuration with the token masked.
			logCfg := cfg
			if len(logCfg.BearerToken) > 0 {
				logCfg.BearerToken = "*****"
			}
			logger.Info("configuration", log.Any("config", logCfg))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return tweetbot.Run(ctx, cfg, tweetbot.WithLogger(logger))
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.tweetbot/config.toml)")

	root.Flags().StringVar(&cfg.BearerToken, "bearer-token", cfg.BearerToken, "provider API bearer token")
	root.Flags().StringVar(&cfg.AlertWebhookURL, "alert-webhook", cfg.AlertWebhookURL, "webhook URL for operator alerts")
	root.Flags().StringVar(&cfg.OwnerID, "owner-id", cfg.OwnerID, "user id mentioned on urgent alerts")

	root.Flags().StringVar(&cfg.StoreBackend, "store-backend", cfg.StoreBackend, `subscription store backend ("file" or "nats")`)
	root.Flags().StringVar(&cfg.SubscriptionsFile, "subscriptions-file", cfg.SubscriptionsFile, "path to the TOML subscriptions file (file backend)")
	root.Flags().StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS server URL (nats backend)")
	root.Flags().StringVar(&cfg.NATSBucket, "nats-bucket", cfg.NATSBucket, "NATS KV bucket holding subscriptions (nats backend)")

	root.Flags().IntVar(&cfg.MaxReconnectRetries, "max-reconnects", cfg.MaxReconnectRetries, "reconnect attempts before giving up on the stream")
	root.Flags().DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "initial delay between reconnect attempts")
	root.Flags().DurationVar(&cfg.ReconnectDelayLimit, "reconnect-delay-limit", cfg.ReconnectDelayLimit, "upper bound on the reconnect backoff")

	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for API and webhook requests")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for prometheus metrics (empty disables)")

	if err := root.Execute(); err != nil {
		logger.Error("tweetbot", log.Err(err))
		os.Exit(1)
	}
}
