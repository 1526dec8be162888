// Package watch notifies about on-disk changes to a single file, for
// auto-reloading an open document.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to one file, debounced, on Events.
type Watcher struct {
	path   string
	events chan time.Time
	fw     *fsnotify.Watcher
}

// New creates a watcher for the given file. The file's directory is
// watched and events are filtered by name, so an atomic replace save
// (write to temp, rename over) is seen as a change to the file.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{path: abs, events: make(chan time.Time, 1), fw: fw}, nil
}

// Events delivers one timestamp per debounced burst of file changes.
// Deliveries are dropped, not queued, while the receiver is behind.
func (w *Watcher) Events() <-chan time.Time {
	return w.events
}

// Run processes file events until ctx is cancelled. Changes within the
// debounce window collapse into one delivery. The Events channel is
// closed when Run returns.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-timerCh:
			select {
			case w.events <- time.Now():
			default:
			}

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				timer.Reset(debounce)
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
