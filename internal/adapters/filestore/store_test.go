package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jamesm2w/tweetbot-v2/pkg/log"
)

const sampleFile = `
[[channel]]
id = "chan-1"
webhook = "https://discord.example.com/api/webhooks/1/abc"
accounts = ["nasa", "esa"]

[[channel]]
id = "chan-2"
webhook = "https://discord.example.com/api/webhooks/2/def"
accounts = ["spacex"]
`

func writeSubscriptions(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "subscriptions.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAndLoad(t *testing.T) {
	path := writeSubscriptions(t, t.TempDir(), sampleFile)

	store, err := Open(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	subs, err := store.Subscriptions(context.Background())
	if err != nil {
		t.Fatalf("Subscriptions() error = %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("subscriptions = %d, want 2", len(subs))
	}
	if subs[0].ChannelID != "chan-1" || subs[0].Destination != "https://discord.example.com/api/webhooks/1/abc" {
		t.Errorf("sub 0 = %+v", subs[0])
	}
	if len(subs[1].Accounts) != 1 || subs[1].Accounts[0] != "spacex" {
		t.Errorf("sub 1 accounts = %v", subs[1].Accounts)
	}
}

func TestOpen_RejectsUnparseableFile(t *testing.T) {
	path := writeSubscriptions(t, t.TempDir(), "[[channel\nid = ")

	if _, err := Open(path, log.NewNoopLogger()); err == nil {
		t.Fatal("Open() error = nil, want parse failure")
	}
}

func TestOpen_RejectsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	if _, err := Open(path, log.NewNoopLogger()); err == nil {
		t.Fatal("Open() error = nil, want read failure")
	}
}

func TestWatch_SignalsOnEdit(t *testing.T) {
	dir := t.TempDir()
	path := writeSubscriptions(t, dir, sampleFile)

	store, err := Open(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeSubscriptions(t, dir, sampleFile+`
[[channel]]
id = "chan-3"
webhook = "https://discord.example.com/api/webhooks/3/ghi"
accounts = ["jaxa"]
`)

	select {
	case _, ok := <-changes:
		if !ok {
			t.Fatal("change channel closed unexpectedly")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after file edit")
	}
}

func TestWatch_DebounceArmedAtShutdown(t *testing.T) {
	dir := t.TempDir()
	path := writeSubscriptions(t, dir, sampleFile)

	store, err := Open(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// An edit can arm the debounce timer right before the watch goroutine
	// exits and closes the channel; the late timer callback must not send.
	changes := make(chan struct{}, 1)
	store.signalAfterDebounce(changes)
	store.closeChanges(changes)

	time.Sleep(3 * debounceDelay)

	if _, ok := <-changes; ok {
		t.Fatal("signal delivered after the channel owner shut down")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeSubscriptions(t, dir, sampleFile)

	store, err := Open(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
		t.Fatal("change signal for unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}
