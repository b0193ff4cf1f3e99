package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
bearer_token = "file-token"
alert_webhook = "https://discord.example.com/api/webhooks/1/abc"
owner_id = "owner-1"
store_backend = "nats"
nats_url = "nats://nats.internal:4222"
nats_bucket = "subs"
max_reconnects = 5
reconnect_delay = "5s"
http_timeout = "30s"
metrics_addr = ":9102"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.BearerToken != "file-token" || fc.StoreBackend != "nats" {
		t.Errorf("file config = %+v", fc)
	}

	cfg := DefaultConfig()
	cfg.BearerToken = ""
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.BearerToken != "file-token" {
		t.Errorf("bearer token = %q", cfg.BearerToken)
	}
	if cfg.MaxReconnectRetries != 5 {
		t.Errorf("max reconnects = %d", cfg.MaxReconnectRetries)
	}
	if cfg.ReconnectDelay != 5*time.Second || cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("durations = %v / %v", cfg.ReconnectDelay, cfg.HTTPTimeout)
	}
	if cfg.MetricsAddr != ":9102" {
		t.Errorf("metrics addr = %q", cfg.MetricsAddr)
	}
}

func TestApplyFileConfig_RespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BearerToken = "flag-token"

	fc := FileConfig{BearerToken: "file-token", OwnerID: "file-owner"}
	changed := map[string]bool{"bearer-token": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.BearerToken != "flag-token" {
		t.Errorf("bearer token = %q, want flag value preserved", cfg.BearerToken)
	}
	if cfg.OwnerID != "file-owner" {
		t.Errorf("owner id = %q, want file value applied", cfg.OwnerID)
	}
}

func TestApplyFileConfig_InvalidDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{ReconnectDelay: "soon"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Fatal("ApplyFileConfig() error = nil, want parse failure")
	}
}
