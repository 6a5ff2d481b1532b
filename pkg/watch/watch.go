// Package watch reloads a tree's backing item files when they change on
// disk, so hosts can re-parse without polling.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the minimum interval between reload notifications.
// Editors often fire several write events per save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a set of item files and invokes a callback when any of
// them is written or created.
type Watcher struct {
	paths   []string
	watcher *fsnotify.Watcher
	onEvent func(path string)

	// context for shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// debounce rapid file changes
	mu        sync.Mutex
	lastEvent time.Time
	debounce  time.Duration

	stopOnce sync.Once
}

// New creates a watcher over the given files. onEvent is invoked from the
// watch goroutine with the changed path; hosts that re-parse on it must do
// their own serialization onto their event loop.
func New(paths []string, onEvent func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		paths:    paths,
		watcher:  fsw,
		onEvent:  onEvent,
		ctx:      ctx,
		cancel:   cancel,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides the notification debounce interval. Call before
// Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching. The containing directories are watched rather than
// the files themselves, so atomic save-and-rename (how most editors write)
// still produces events.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for _, path := range w.paths {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.watcher.Close()
	})
}

// watchLoop processes file system events and invokes the callback.
func (w *Watcher) watchLoop() {
	watched := make(map[string]bool, len(w.paths))
	for _, p := range w.paths {
		watched[filepath.Clean(p)] = true
	}

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only notify on write/create events (not chmod, etc)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Directory watch sees sibling files too; filter to ours
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			w.mu.Lock()
			now := time.Now()
			if now.Sub(w.lastEvent) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastEvent = now
			w.mu.Unlock()

			if w.onEvent != nil {
				w.onEvent(event.Name)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Errors don't stop the watcher
		}
	}
}
