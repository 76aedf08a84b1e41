package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"balance_scale_backend/internal/config"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	body := "storage:\n  driver: memory\nlog:\n  level: " + level + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "info")
	t.Setenv("BALANCE_SCALE_OBJECT_STORAGE_LOCAL_PATH", filepath.Join(dir, "exports"))

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan string, 4)
	go w.Run(ctx, func(cfg *config.Config) { got <- cfg.Log.Level })

	writeConfig(t, path, "error")

	select {
	case level := <-got:
		if level != "error" {
			t.Errorf("reloaded level = %q, want error", level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "info")

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan struct{}, 1)
	go w.Run(ctx, func(*config.Config) { got <- struct{}{} })

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-got:
		t.Fatal("reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
