// Package watch observes out-of-band replacement of the canonical
// database file by the sync service.
//
// The watcher is observability-only: an already-open database handle
// keeps referencing the old inode after an atomic external replace, so
// seeing fresh content requires a full close/reopen. Deciding when to do
// that belongs to the application layer; this package only surfaces the
// events.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op classifies what happened to the watched file.
type Op int

const (
	// OpReplaced indicates the file was swapped out from under us
	// (created or renamed into place by the sync agent).
	OpReplaced Op = iota
	// OpModified indicates the file was written in place.
	OpModified
	// OpRemoved indicates the file disappeared.
	OpRemoved
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpReplaced:
		return "replaced"
	case OpModified:
		return "modified"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes one observed change to the canonical file.
// Size and ModTime carry the file's metadata at notification time when
// it still exists; they are zero after a removal.
type Event struct {
	Path    string
	Op      Op
	Size    int64
	ModTime time.Time
}

// Watcher monitors the directory containing the canonical database file
// and emits an Event whenever the file itself changes. Events are
// delivered one at a time from a single goroutine, so a slow consumer
// delays further notifications instead of receiving them re-entrantly.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	path    string
	stat    func(string) (int64, time.Time, bool)
}

// New creates a Watcher. It must be started with Start before it emits
// events.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher: fw,
		events:  make(chan Event, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
		stat:    statFile,
	}, nil
}

// Start begins watching the directory that contains path, filtering
// events down to the file itself.
func (w *Watcher) Start(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}
	w.path = abs

	// Watch the parent directory: atomic replaces show up as create or
	// rename events on the directory, not as writes to the file.
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch directory %s: %w", filepath.Dir(abs), err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop stops watching and releases resources. It blocks until the event
// goroutine has exited; the event and error channels are closed.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel of file change notifications.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent filters directory events down to the canonical file and
// classifies the operation. Chmod and events for other files in the
// directory are dropped.
func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.path {
		return Event{}, false
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpReplaced
	case event.Has(fsnotify.Rename):
		op = OpReplaced
	case event.Has(fsnotify.Write):
		op = OpModified
	case event.Has(fsnotify.Remove):
		op = OpRemoved
	default:
		return Event{}, false
	}

	ev := Event{Path: w.path, Op: op}
	if op != OpRemoved {
		if size, mtime, ok := w.stat(w.path); ok {
			ev.Size = size
			ev.ModTime = mtime
		}
	}
	return ev, true
}
