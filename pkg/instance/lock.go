// Package instance guards the persistence database against concurrent
// compass processes. The engine assumes exactly one logical actor per
// scope; two processes writing the same state db would break
// last-writer-wins in ways the user can't see.
package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Lock is a held single-instance lock
type Lock struct {
	path string
}

// Acquire takes the per-state-directory lock. A lock file left behind by
// a dead process is reclaimed.
func Acquire(stateDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	path := filepath.Join(stateDir, "compass.lock")

	if raw, err := os.ReadFile(path); err == nil {
		pid, _ := strconv.Atoi(strings.TrimSpace(string(raw)))
		if isProcessAlive(pid) {
			return nil, fmt.Errorf("another compass instance (pid %d) is using %s", pid, stateDir)
		}
		// Stale lock from a dead process; reclaim it
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release drops the lock
func (l *Lock) Release() {
	if l != nil && l.path != "" {
		os.Remove(l.path)
	}
}
