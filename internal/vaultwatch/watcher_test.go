package vaultwatch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T) (string, *syncBuffer, context.CancelFunc, chan error) {
	t.Helper()
	vaultDir := t.TempDir()
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, vaultDir, "+/task-inbox.md", logger)
	}()

	// Let the watcher register before producing events.
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "watcher: started")
	}, "watcher did not start")

	return vaultDir, out, cancel, done
}

func TestWatchLogsNoteChanges(t *testing.T) {
	vaultDir, out, cancel, done := startWatcher(t)
	defer cancel()

	if err := os.WriteFile(filepath.Join(vaultDir, "new.md"), []byte("# New"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "note changed") && strings.Contains(out.String(), "new.md")
	}, "note change not logged")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop on cancel")
	}
}

func TestWatchWarnsOnInboxEdit(t *testing.T) {
	vaultDir, out, cancel, _ := startWatcher(t)
	defer cancel()

	inboxDir := filepath.Join(vaultDir, "+")
	if err := os.MkdirAll(inboxDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// The new directory must be picked up before the inbox write.
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "watching new dir")
	}, "new directory not watched")

	if err := os.WriteFile(filepath.Join(inboxDir, "task-inbox.md"), []byte("- [ ] #to/do X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "task inbox edited outside the bot")
	}, "inbox edit not warned")
}

func TestWatchIgnoresHiddenDirs(t *testing.T) {
	vaultDir, out, cancel, _ := startWatcher(t)
	defer cancel()

	hidden := filepath.Join(vaultDir, ".obsidian")
	if err := os.MkdirAll(hidden, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(hidden, "workspace.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the watcher time to (wrongly) report it.
	time.Sleep(300 * time.Millisecond)
	if strings.Contains(out.String(), "workspace.md") {
		t.Errorf("hidden dir events must be ignored: %s", out.String())
	}
}
