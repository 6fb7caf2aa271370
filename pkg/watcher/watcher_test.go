package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSignalsAfterSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "milestone.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// A burst of writes collapses into one settled signal
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("{\"id\":\"1\"}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-w.Changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after the settle delay")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "milestone.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes:
		t.Fatal("writes to sibling files must not signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSurvivesRenameOverReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "milestone.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Export writers often write a temp file and rename it into place
	tmp := filepath.Join(dir, ".milestone.tmp")
	if err := os.WriteFile(tmp, []byte("{\"id\":\"2\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes:
	case <-time.After(2 * time.Second):
		t.Fatal("rename-over-replace should still signal")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "f.jsonl"), 0); err == nil {
		t.Error("watching a missing directory should fail")
	}
}
