// Package watch re-runs a callback when watched files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches directory trees and single files. Bursts of events are
// coalesced into one callback once no event has arrived for the debounce
// period. All state is owned by the Run goroutine.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration

	trees   map[string]bool
	files   map[string]bool
	ignore  []string
	pending bool
	due     time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore drops events for path and anything below it, typically the
// generated files.
func WithIgnore(path string) Option {
	return func(w *Watcher) {
		w.ignore = append(w.ignore, clean(path))
	}
}

// New creates a Watcher.
func New(logger *zap.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		fs:       fsw,
		logger:   logger,
		debounce: DefaultDebounce,
		trees:    make(map[string]bool),
		files:    make(map[string]bool),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// AddTree watches dir and every directory below it. A missing directory is
// skipped with a warning so that a root created later can be added again.
func (w *Watcher) AddTree(dir string) error {
	dir = clean(dir)
	w.trees[dir] = true

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if w.ignored(p) {
			return filepath.SkipDir
		}

		return w.fs.Add(p)
	})
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn("watch root does not exist", zap.String("dir", dir))

		return nil
	}

	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	return nil
}

// AddFile watches a single file through its parent directory.
func (w *Watcher) AddFile(path string) error {
	path = clean(path)
	w.files[path] = true

	if err := w.fs.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	return nil
}

// Run blocks until ctx is cancelled, calling onChange after each debounced
// burst of relevant events. Callback errors are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	defer func() {
		if err := w.fs.Close(); err != nil {
			w.logger.Warn("closing watcher", zap.Error(err))
		}
	}()

	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			w.handleEvent(event, time.Now())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if !w.ready(now) {
				continue
			}

			w.logger.Info("change detected; regenerating")

			if err := onChange(ctx); err != nil {
				w.logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

// handleEvent records a relevant event and extends the debounce window.
func (w *Watcher) handleEvent(event fsnotify.Event, now time.Time) {
	if event.Op == fsnotify.Chmod {
		return
	}

	name := clean(event.Name)
	if !w.relevant(name) {
		return
	}

	if event.Has(fsnotify.Create) && w.underTree(name) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.AddTree(name); err != nil {
				w.logger.Warn("watching new directory", zap.String("dir", name), zap.Error(err))
			}
		}
	}

	w.logger.Debug("file changed", zap.String("path", name), zap.Stringer("op", event.Op))

	w.pending = true
	w.due = now.Add(w.debounce)
}

// ready reports whether a pending burst has gone quiet, and clears it.
func (w *Watcher) ready(now time.Time) bool {
	if !w.pending || now.Before(w.due) {
		return false
	}

	w.pending = false

	return true
}

func (w *Watcher) relevant(name string) bool {
	if w.ignored(name) {
		return false
	}

	return w.files[name] || w.underTree(name)
}

func (w *Watcher) underTree(name string) bool {
	for dir := range w.trees {
		if within(dir, name) {
			return true
		}
	}

	return false
}

func (w *Watcher) ignored(name string) bool {
	for _, dir := range w.ignore {
		if within(dir, name) {
			return true
		}
	}

	return false
}

func within(dir, name string) bool {
	return name == dir || strings.HasPrefix(name, dir+string(filepath.Separator))
}

func clean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}

	return filepath.Clean(p)
}
