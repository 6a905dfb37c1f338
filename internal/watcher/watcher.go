// Package watcher provides debounced file watching for source trees.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/docwright-ai/docwright/internal/logging"
)

// Watcher errors.
var (
	ErrWatcherAlreadyRunning = errors.New("watcher already running")
	ErrWatcherNotRunning     = errors.New("watcher not running")
)

// Config contains watcher configuration.
type Config struct {
	// Root is the directory tree to watch.
	Root string

	// Extensions lists the file extensions that trigger batches.
	// Empty means every file counts.
	Extensions []string

	// Ignore lists directory names that are not watched.
	// Default: .git only.
	Ignore []string

	// Debounce is how long to wait after the last change before
	// delivering a batch. Default: 500ms.
	Debounce time.Duration
}

// Batch is a burst of file changes coalesced by the debounce window.
type Batch struct {
	// Paths are the changed files, sorted and deduplicated.
	Paths []string

	// At is when the batch was delivered.
	At time.Time
}

// Watcher watches a source tree and coalesces change bursts into batches.
type Watcher struct {
	config     Config
	extensions map[string]bool
	ignore     map[string]bool
	logger     zerolog.Logger
	batches    chan Batch

	// Runtime state
	mu      sync.Mutex
	running bool
	fs      *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a watcher with defaults applied.
func New(config Config) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = []string{".git"}
	}

	w := &Watcher{
		config:     config,
		extensions: make(map[string]bool, len(config.Extensions)),
		ignore:     make(map[string]bool, len(config.Ignore)),
		logger:     logging.Component("watcher"),
		batches:    make(chan Batch, 16),
	}
	for _, ext := range config.Extensions {
		w.extensions[ext] = true
	}
	for _, name := range config.Ignore {
		w.ignore[name] = true
	}
	return w
}

// Batches returns the channel of coalesced change batches.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// Start registers the tree and begins the background event loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrWatcherAlreadyRunning
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w.fs = fsw

	if err := w.addRecursive(w.config.Root); err != nil {
		fsw.Close()
		w.fs = nil
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true

	w.logger.Info().
		Str("root", w.config.Root).
		Dur("debounce", w.config.Debounce).
		Msg("watcher starting")

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrWatcherNotRunning
	}

	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	w.fs.Close()
	w.fs = nil

	w.logger.Info().Msg("watcher stopped")
	return nil
}

// run is the event loop: filter, coalesce, deliver after the debounce
// window goes quiet.
func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}

			// New directories need their own watches.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}

			if !w.matchesExtension(ev.Name) {
				continue
			}
			pending[ev.Name] = true

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.config.Debounce)
			timerC = timer.C

		case at := <-timerC:
			timer = nil
			timerC = nil
			if len(pending) == 0 {
				continue
			}

			batch := Batch{Paths: sortedPaths(pending), At: at}
			pending = make(map[string]bool)

			w.logger.Debug().Int("files", len(batch.Paths)).Msg("delivering change batch")
			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// addRecursive registers dir and every non-ignored subdirectory.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignore[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant filters event ops and ignored locations.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !w.ignoredPath(ev.Name)
}

// ignoredPath reports whether any path element below the root is ignored.
func (w *Watcher) ignoredPath(path string) bool {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.ignore[part] {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[filepath.Ext(path)]
}

func sortedPaths(pending map[string]bool) []string {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
