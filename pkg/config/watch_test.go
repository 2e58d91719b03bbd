package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(minimalConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan *Config, 1)
	watcher := NewWatcher(path)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(200 * time.Millisecond)

	updated := minimalConfig + "\nquota:\n  global_limit: 123\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Quota.GlobalLimit != 123 {
			t.Errorf("global limit = %d, want 123", cfg.Quota.GlobalLimit)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}

	watcher.Stop()
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}

func TestWatcherKeepsPreviousConfigOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(minimalConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reloads := make(chan *Config, 8)
	watcher := NewWatcher(path)
	go func() {
		_ = watcher.Watch(ctx, func(cfg *Config) { reloads <- cfg })
	}()

	time.Sleep(200 * time.Millisecond)

	// An invalid file must not invoke the callback.
	if err := os.WriteFile(path, []byte("auth: [broken"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloads:
		t.Errorf("callback invoked for invalid config: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}
