// Package watch re-runs verification whenever a watched log source or the
// registry snapshot changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is invoked for the initial run and after every detected change.
type RunFunc func(ctx context.Context) error

// Watcher observes a set of files and triggers a callback when any of them
// is written, created, or removed. Events are debounced so a burst of writes
// to the same log file produces a single re-run.
type Watcher struct {
	paths    []string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
}

// New creates a Watcher for the given file paths. Parent directories are
// watched rather than the files themselves so rotation and atomic replacement
// (write to temp, rename over) are still observed.
func New(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		paths:    paths,
		debounce: 250 * time.Millisecond,
		watcher:  fsw,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("creating watched directory: %w", err)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run performs an initial invocation of fn, then blocks re-running fn after
// each debounced change until the context is cancelled. Errors from fn do not
// stop the loop; the last error is returned once the context ends.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	lastErr := fn(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return lastErr
		case event, ok := <-w.watcher.Events:
			if !ok {
				return lastErr
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			lastErr = fn(ctx)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return lastErr
			}
		}
	}
}

// relevant reports whether the event touches one of the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range w.paths {
		if filepath.Clean(p) == name {
			return true
		}
	}
	return false
}

// Close stops the underlying fsnotify watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
