package daemon

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// SnapshotWatcher calls onChange once a burst of writes to the snapshot file
// has been quiet for the debounce period.
type SnapshotWatcher struct {
	path     string
	debounce time.Duration
	onChange func()

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	stopChan chan struct{}
	done     chan struct{}
}

// NewSnapshotWatcher creates a watcher for path.
func NewSnapshotWatcher(path string, debounce time.Duration, onChange func()) (*SnapshotWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &SnapshotWatcher{
		path:     absPath,
		debounce: debounce,
		onChange: onChange,
		watcher:  watcher,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins monitoring. The containing directory is watched so editors
// that save by rename are still noticed.
func (w *SnapshotWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		_ = w.watcher.Close()
		return fmt.Errorf("failed to watch snapshot directory %s: %w", dir, err)
	}
	slog.Info("Watching snapshot file", logfields.Path(w.path), slog.Duration("debounce", w.debounce))
	go w.loop()
	return nil
}

// Stop stops the watcher and cancels a pending notification.
func (w *SnapshotWatcher) Stop() {
	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		slog.Error("Error closing file watcher", logfields.Error(err))
	}
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *SnapshotWatcher) loop() {
	defer close(w.done)
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				slog.Debug("Snapshot change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.schedule()
			case event.Op.Has(fsnotify.Remove):
				slog.Warn("Snapshot file removed", logfields.Path(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Snapshot watcher error", logfields.Error(err))
		}
	}
}

func (w *SnapshotWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
