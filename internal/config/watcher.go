package config

import (
	"context"
	"errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher triggers a Manager reload whenever its config file changes on
// disk, using inotify (or the platform equivalent) instead of polling.
type Watcher struct {
	manager *Manager
	watcher *fsnotify.Watcher
	onError func(error)
}

// NewWatcher creates a Watcher for manager's config file.
func NewWatcher(manager *Manager) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(manager.Path()); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{manager: manager, watcher: fw}, nil
}

// SetOnError registers a callback for reload errors (the watch itself
// continues regardless).
func (w *Watcher) SetOnError(fn func(error)) {
	w.onError = fn
}

// Run blocks, reloading the config on every write/create event until ctx
// is canceled or the underlying watch fails unrecoverably.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("config: watcher event channel closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := w.manager.Reload(); err != nil && w.onError != nil {
				w.onError(err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("config: watcher error channel closed")
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}
