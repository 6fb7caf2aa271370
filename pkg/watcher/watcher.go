// Package watcher watches the milestone export file and reports change
// events after a short settle delay, so the engine re-reads the file only
// once the writer has finished rebuilding it.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long the watcher waits after the last write
// before reporting a change. Export writers rewrite the whole file; firing
// on the first write would read a half-written collection.
const DefaultSettleDelay = 250 * time.Millisecond

// Watcher debounces filesystem events for a single export file
type Watcher struct {
	path   string
	fsw    *fsnotify.Watcher
	settle time.Duration

	// Changes receives one signal per settled burst of writes
	Changes chan struct{}
}

// New starts watching the directory containing path. Watching the
// directory rather than the file survives rename-over-replace writers.
func New(path string, settle time.Duration) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		path:    path,
		fsw:     fsw,
		settle:  settle,
		Changes: make(chan struct{}, 1),
	}, nil
}

// Run pumps debounced change signals until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Restart the settle timer on every burst write
			if timer == nil {
				timer = time.NewTimer(w.settle)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.settle)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.Changes <- struct{}{}:
			default: // a pending signal already covers this burst
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			// Watch errors are non-fatal; the next manual reload still works
			_ = err
		}
	}
}
