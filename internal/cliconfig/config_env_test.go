package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies valid env vars",
			envVars: map[string]string{
				"TWEETBOT_BEARER_TOKEN":    "env-token",
				"TWEETBOT_OWNER_ID":        "env-owner",
				"TWEETBOT_STORE_BACKEND":   "nats",
				"TWEETBOT_MAX_RECONNECTS":  "4",
				"TWEETBOT_RECONNECT_DELAY": "10s",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.BearerToken != "env-token" || cfg.OwnerID != "env-owner" {
					t.Errorf("identity = %q / %q", cfg.BearerToken, cfg.OwnerID)
				}
				if cfg.StoreBackend != BackendNATS {
					t.Errorf("backend = %q", cfg.StoreBackend)
				}
				if cfg.MaxReconnectRetries != 4 || cfg.ReconnectDelay != 10*time.Second {
					t.Errorf("reconnect = %d / %v", cfg.MaxReconnectRetries, cfg.ReconnectDelay)
				}
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"TWEETBOT_BEARER_TOKEN": "env-token",
				"TWEETBOT_OWNER_ID":     "env-owner",
			},
			changed: map[string]bool{"bearer-token": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.BearerToken == "env-token" {
					t.Error("env var overrode an explicit flag")
				}
				if cfg.OwnerID != "env-owner" {
					t.Errorf("owner id = %q", cfg.OwnerID)
				}
			},
		},
		{
			name:    "invalid duration",
			envVars: map[string]string{"TWEETBOT_RECONNECT_DELAY": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "invalid int",
			envVars: map[string]string{"TWEETBOT_MAX_RECONNECTS": "many"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := Config{BearerToken: "flag-token"}
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnvConfig() error = nil, want failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
