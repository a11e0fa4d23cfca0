package datasource

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"envrepo/pkg/logging"
)

// DefaultDebounceInterval is how long Watcher waits for further writes
// before reporting a change.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher reports changes to a single file.
//
// It watches the parent directory rather than the file itself so that
// editors replacing the file through rename are still seen. Bursts of events
// are collapsed into one callback per debounce interval.
type Watcher struct {
	path             string
	debounceInterval time.Duration
	onChange         func()
}

// NewWatcher creates a watcher for path that calls onChange after each
// debounced burst of changes.
func NewWatcher(path string, debounceInterval time.Duration, onChange func()) *Watcher {
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &Watcher{
		path:             filepath.Clean(path),
		debounceInterval: debounceInterval,
		onChange:         onChange,
	}
}

// Run watches until ctx is done. onChange is called from Run's goroutine.
// It returns nil on cancellation and an error only if the watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("FileWatcher", err, "Error closing filesystem watcher")
		}
	}()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logging.Info("FileWatcher", "Watching %s for environment changes", w.path)

	// A stopped timer whose channel is only read while a change is pending.
	timer := time.NewTimer(w.debounceInterval)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logging.Debug("FileWatcher", "Event %s on %s", event.Op, event.Name)
			timer.Reset(w.debounceInterval)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("FileWatcher", err, "Filesystem watcher error")

		case <-timer.C:
			if pending {
				pending = false
				w.onChange()
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
