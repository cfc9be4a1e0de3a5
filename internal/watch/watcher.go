package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"imagesort/internal/log"
	"imagesort/pkg/types"

	"github.com/fsnotify/fsnotify"
)

// Source hands out change subscriptions for a single directory.
type Source interface {
	Subscribe(dir string) (Subscription, error)
}

// Subscription streams change events for one directory until closed.
// Close stops delivery and closes both channels; it must not wait for the
// consumer to drain them.
type Subscription interface {
	Dir() string
	Events() <-chan types.FileEvent
	Errors() <-chan error
	Close() error
}

// FSNotify is a Source backed by fsnotify.
type FSNotify struct {
	buffer int
}

// NewFSNotify returns a Source whose subscriptions buffer up to buffer
// events.
func NewFSNotify(buffer int) *FSNotify {
	if buffer < 1 {
		buffer = 1
	}
	return &FSNotify{buffer: buffer}
}

var _ Source = (*FSNotify)(nil)

// Subscribe starts watching dir (not recursively).
func (s *FSNotify) Subscribe(dir string) (Subscription, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w := &Watcher{
		dir:       filepath.Clean(dir),
		fsWatcher: fsWatcher,
		events:    make(chan types.FileEvent, s.buffer),
		errors:    make(chan error, 8),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop()

	log.LogWithFields(log.F("directory", w.dir)).Info("Watching directory")
	return w, nil
}

// Watcher is the fsnotify subscription for one directory.
type Watcher struct {
	dir       string
	fsWatcher *fsnotify.Watcher
	events    chan types.FileEvent
	errors    chan error
	stopChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ Subscription = (*Watcher)(nil)

func (w *Watcher) Dir() string                    { return w.dir }
func (w *Watcher) Events() <-chan types.FileEvent { return w.events }
func (w *Watcher) Errors() <-chan error           { return w.errors }

// Close stops the event loop and releases the fsnotify handle. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		w.closeErr = w.fsWatcher.Close()
		<-w.done
		log.LogWithFields(log.F("directory", w.dir)).Debug("Stopped watching directory")
	})
	return w.closeErr
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			ev, keep := translate(event)
			if !keep {
				continue
			}
			// Blocking send: a dropped event would leave the listing stale
			select {
			case w.events <- ev:
			case <-w.stopChan:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("directory", w.dir), log.F("error", err)).Error("fsnotify watcher error")
			select {
			case w.errors <- err:
			default:
			}

		case <-w.stopChan:
			return
		}
	}
}

// translate maps an fsnotify event onto the listing's vocabulary.
// fsnotify reports a rename as Rename on the old name followed by Create on
// the new one, so renames arrive as a Deleted/Created pair.
func translate(event fsnotify.Event) (types.FileEvent, bool) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return types.FileEvent{}, false
		}
		return types.CreatedEvent(event.Name), true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return types.DeletedEvent(event.Name), true
	default:
		return types.FileEvent{}, false
	}
}
