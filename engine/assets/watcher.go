package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tylercaldwell27/prism/engine/core"
)

// Watcher reports writes to registered asset files so the engine can reload
// them. Events are delivered on Changes from a background goroutine.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string

	mu      sync.Mutex
	tracked map[string]bool
	done    chan struct{}
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create asset watcher: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		changes: make(chan string, 16),
		tracked: make(map[string]bool),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Watch registers a single file. The containing directory is watched so that
// editors which replace files on save (rename + create) are still caught.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve asset path %s: %w", path, err)
	}

	w.mu.Lock()
	w.tracked[abs] = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	core.LogDebug("watching asset %s", abs)
	return nil
}

// Changes delivers absolute paths of tracked files that were modified.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			tracked := w.tracked[abs]
			w.mu.Unlock()
			if !tracked {
				continue
			}
			select {
			case w.changes <- abs:
			default:
				core.LogWarn("asset change channel full, dropping event for %s", abs)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher error: %v", err)
		}
	}
}
