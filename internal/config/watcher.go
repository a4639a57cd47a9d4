// ABOUTME: Polling-based watcher for config file hot-reload
// ABOUTME: Compares file mtimes each tick; Run blocks until the context is done

package config

import (
	"context"
	"os"
	"time"
)

// DefaultWatchInterval is the polling period used when none is given.
const DefaultWatchInterval = 2 * time.Second

// Watcher reports changes to a fixed set of files by polling mtimes.
// Missing files are tracked too: creating or removing one counts as a change.
type Watcher struct {
	paths    []string
	interval time.Duration
	mtimes   map[string]time.Time
}

// NewWatcher creates a watcher over paths. A non-positive interval selects
// DefaultWatchInterval.
func NewWatcher(interval time.Duration, paths ...string) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	w := &Watcher{
		paths:    paths,
		interval: interval,
		mtimes:   make(map[string]time.Time),
	}
	w.snapshot()
	return w
}

// Run polls until ctx is cancelled, calling onChange from the polling
// goroutine after each detected change. It always returns nil so it can sit
// in an errgroup next to other long-running tasks.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if w.Check() {
				onChange()
			}
		}
	}
}

// Check reports whether any watched file changed since the last snapshot and
// takes a new snapshot if so.
func (w *Watcher) Check() bool {
	if !w.changed() {
		return false
	}
	w.snapshot()
	return true
}

func (w *Watcher) changed() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			// Removed since the last snapshot.
			if _, existed := w.mtimes[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			return true
		}
	}
	return false
}

func (w *Watcher) snapshot() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
