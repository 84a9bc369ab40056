package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexmap/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk and then
// calls the registered callback with the reloaded store.
type Watcher struct {
	store    *ConfigStore
	onChange func(*ConfigStore)
	debounce time.Duration
}

// NewWatcher creates a watcher for store. onChange runs on the watcher's
// goroutine after every successful reload.
func NewWatcher(store *ConfigStore, onChange func(*ConfigStore)) *Watcher {
	return &Watcher{
		store:    store,
		onChange: onChange,
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file so that atomic rename-on-save is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	path := filepath.Clean(w.store.Path())
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Debug("watching config file %s", path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if isConfigEvent(ev, path) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("reload config %s: %v", w.store.Path(), err)
		return
	}
	logger.Info("config reloaded from %s", w.store.Path())
	if w.onChange != nil {
		w.onChange(w.store)
	}
}

// isConfigEvent reports whether ev changed the contents of the file at path.
func isConfigEvent(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
