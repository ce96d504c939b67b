// Package watch reports edits of the API document and adjustment files.
//
// Watches are placed on the parent directories so that editors which save
// through a rename are still observed. Bursts of events are debounced into
// a single notification.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"yasmcp/pkg/logging"
)

// DefaultDebounce is used when a non-positive interval is given.
const DefaultDebounce = 500 * time.Millisecond

// Operation describes what happened to a watched file.
type Operation string

const (
	OperationWrite  Operation = "write"
	OperationCreate Operation = "create"
	OperationRemove Operation = "remove"
)

// Change is one debounced notification.
type Change struct {
	// Paths lists every watched file touched during the debounce window.
	Paths     []string
	Operation Operation
	Timestamp time.Time
}

// Watcher watches a fixed set of files.
type Watcher struct {
	mu sync.Mutex

	files            map[string]bool
	debounceInterval time.Duration

	timer     *time.Timer
	pending   []string
	operation Operation
	fire      chan struct{}
}

// New creates a Watcher for paths. Empty entries are ignored.
func New(paths []string, debounceInterval time.Duration) (*Watcher, error) {
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounce
	}
	w := &Watcher{
		files:            map[string]bool{},
		debounceInterval: debounceInterval,
		fire:             make(chan struct{}, 1),
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		w.files[filepath.Clean(abs)] = true
	}
	if len(w.files) == 0 {
		return nil, errors.New("no files to watch")
	}
	return w, nil
}

// Run watches until ctx is cancelled, calling onChange from the Run
// goroutine after each debounced burst.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		logging.Debug("Watch", "Watching directory: %s", dir)
	}
	logging.Info("Watch", "Started watching %d files for changes", len(w.files))

	defer w.cleanupPending()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFsEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch", err, "Filesystem watcher error")

		case <-w.fire:
			if change, ok := w.takePending(); ok {
				logging.Debug("Watch", "Emitting %s change for %v", change.Operation, change.Paths)
				onChange(change)
			}
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.files[filepath.Clean(name)] {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OperationWrite
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = OperationRemove
	default:
		return
	}
	w.debounce(filepath.Clean(name), op)
}

// debounce restarts the window; the last operation of the burst is reported.
func (w *Watcher) debounce(path string, op Operation) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	seen := false
	for _, p := range w.pending {
		if p == path {
			seen = true
			break
		}
	}
	if !seen {
		w.pending = append(w.pending, path)
	}
	w.operation = op

	w.timer = time.AfterFunc(w.debounceInterval, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) takePending() (Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return Change{}, false
	}
	c := Change{Paths: w.pending, Operation: w.operation, Timestamp: time.Now()}
	w.pending = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return c, true
}

func (w *Watcher) cleanupPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
}
