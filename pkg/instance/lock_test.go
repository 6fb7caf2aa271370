package instance

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// A live lock blocks a second acquisition
	if _, err := Acquire(dir); err == nil {
		t.Error("second Acquire should fail while the lock is held")
	}

	lock.Release()
	if _, err := os.Stat(filepath.Join(dir, "compass.lock")); !os.IsNotExist(err) {
		t.Error("Release should remove the lock file")
	}

	// Re-acquirable after release
	again, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again.Release()
}

func TestAcquireReclaimsStaleLock(t *testing.T) {
	dir := t.TempDir()

	// A pid that cannot be alive
	stale := filepath.Join(dir, "compass.lock")
	if err := os.WriteFile(stale, []byte(strconv.Itoa(1<<22+12345)), 0o644); err != nil {
		t.Fatal(err)
	}

	lock, err := Acquire(dir)
	if err != nil {
		t.Fatalf("stale lock should be reclaimed: %v", err)
	}
	lock.Release()
}

func TestAcquireCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	lock, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire should create the directory: %v", err)
	}
	lock.Release()
}

func TestReleaseNilSafe(t *testing.T) {
	var lock *Lock
	lock.Release() // must not panic
}
