// Package watch rebuilds documentation when source files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phobologic/minidoc/internal/lang"
)

// DefaultDebounce is the quiet period before a rebuild is triggered.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a project tree and calls a rebuild function after source
// files change. Rebuilds never overlap.
type Watcher struct {
	root      string
	fsWatcher *fsnotify.Watcher
	rebuild   func(ctx context.Context, changed []string)

	debounceDelay time.Duration
	pendingMu     sync.Mutex
	pendingFiles  map[string]struct{}
	debounceTimer *time.Timer

	onError func(error)

	buildMu sync.Mutex
	stopped bool // guarded by buildMu
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay sets the debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnError sets the callback for watcher errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a Watcher for every directory under root.
func New(root string, rebuild func(ctx context.Context, changed []string), opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:          root,
		fsWatcher:     fsWatcher,
		rebuild:       rebuild,
		debounceDelay: DefaultDebounce,
		pendingFiles:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirs(root); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("adding directories to watch: %w", err)
	}
	return w, nil
}

func (w *Watcher) addDirs(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// Run processes events until ctx is done, then closes the watcher. It returns
// only after any running rebuild has finished.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.pendingMu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.pendingMu.Unlock()
		_ = w.fsWatcher.Close()

		// Waits for a rebuild already in flight.
		w.buildMu.Lock()
		w.stopped = true
		w.buildMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Relevant reports whether a change to path can affect the document.
func Relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return lang.ForExtension(filepath.Ext(path)) != ""
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// Handle new directories
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(event.Name); err != nil && w.onError != nil {
				w.onError(err)
			}
			return
		}
	}

	if !Relevant(event.Name) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pendingFiles[event.Name] = struct{}{}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() { w.trigger(ctx) })
}

func (w *Watcher) trigger(ctx context.Context) {
	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pendingFiles))
	for f := range w.pendingFiles {
		files = append(files, f)
	}
	w.pendingFiles = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(files) == 0 || ctx.Err() != nil {
		return
	}

	w.buildMu.Lock()
	defer w.buildMu.Unlock()
	// Run may have returned while this callback waited for the lock.
	if w.stopped || ctx.Err() != nil {
		return
	}
	w.rebuild(ctx, files)
}
