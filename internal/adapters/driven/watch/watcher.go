// Package watch notifies the picker when the session directory's
// contents change. Filesystem events arrive in bursts (editors write
// temp files, batch jobs append); the watcher coalesces them so the
// picker relists at most once per second.
package watch

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/curiolabs/curio/internal/core/ports/driven"
	"github.com/curiolabs/curio/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DirWatcher = (*Watcher)(nil)

// Watcher wraps fsnotify over one directory.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
}

// New starts watching a directory. Close releases the watch.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:     fsw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run forwards coalesced events until the watcher closes.
func (w *Watcher) run() {
	defer close(w.changes)

	// One relist per second is plenty for a picker.
	limiter := rate.NewLimiter(rate.Limit(1), 1)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if !limiter.Allow() {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
				// A notification is already queued; it covers this event.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("directory watch: %v", err)
		}
	}
}

// Changes returns the notification channel.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close releases the watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
