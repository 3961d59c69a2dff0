// Package watcher re-checks documents as they change on disk.
//
// It is used by `prefab-checker watch`.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/benjamin-asdf/prefab-checker/internal/ignore"
	"github.com/benjamin-asdf/prefab-checker/internal/logging"
)

// Watcher monitors a directory tree and reports changed documents once
// writes to them have settled.
type Watcher struct {
	root    string
	matcher *ignore.Matcher
	accept  func(path string) bool

	debounceDelay time.Duration
	log           *slog.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	// muted holds paths whose events are dropped until the given time.
	muted map[string]time.Time
	mu    sync.Mutex

	onChange func(path string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Root string
	// Exclude holds ignore rules applied relative to Root.
	Exclude []string
	// Accept selects document files, usually by extension.
	Accept        func(path string) bool
	DebounceDelay time.Duration // Default: 200ms
	Logger        *slog.Logger
	OnChange      func(path string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch root is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Root)
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		// Editors save documents in several writes.
		debounce = 200 * time.Millisecond
	}
	accept := cfg.Accept
	if accept == nil {
		accept = func(string) bool { return true }
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Watcher{
		root:          cfg.Root,
		matcher:       ignore.NewMatcher(cfg.Exclude),
		accept:        accept,
		debounceDelay: debounce,
		log:           log,
		pending:       make(map[string]time.Time),
		muted:         make(map[string]time.Time),
		onChange:      cfg.OnChange,
	}, nil
}

// Start begins watching. It blocks until ctx is cancelled and then returns
// ctx.Err().
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.log.Debug("watching", "root", w.root)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.shouldIgnore(path, true) {
				_ = w.addWatchRecursive(path)
			}
			return
		}
	}

	if !w.accept(path) || w.shouldIgnore(path, false) {
		return
	}

	if w.isMuted(path, time.Now()) {
		w.log.Debug("ignoring own write", "path", path)
		return
	}

	// Removals are not reported; atomic saves show up as a create.
	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.log.Debug("event", "op", event.Op.String(), "path", path)
		w.schedule(path)
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// Suppress drops pending and upcoming events for path for one debounce
// window. OnChange callbacks that write the file call it afterwards so the
// write is not reported as a new change.
func (w *Watcher) Suppress(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, path)
	w.muted[path] = time.Now().Add(w.debounceDelay)
}

func (w *Watcher) isMuted(path string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	until, ok := w.muted[path]
	if !ok {
		return false
	}
	if now.After(until) {
		delete(w.muted, path)
		return false
	}
	return true
}

// processDebounced reports pending paths after the debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.ready(time.Now()) {
				w.onChange(path)
			}
		}
	}
}

// ready removes and returns the paths whose last event is older than the
// debounce delay.
func (w *Watcher) ready(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	return out
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.shouldIgnore(path, true) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.log.Debug("failed to watch", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string, isDir bool) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.matcher.ShouldIgnore(rel, isDir)
}
