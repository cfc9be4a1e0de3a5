// Package browser ties the listing, the view and the action history to one
// watched folder. Every mutation runs on a single owner goroutine; public
// methods hand closures to it and wait for the result.
package browser

import (
	"context"
	"sync"

	"imagesort/internal/actions"
	"imagesort/internal/errors"
	"imagesort/internal/fsport"
	"imagesort/internal/listing"
	"imagesort/internal/log"
	"imagesort/internal/view"
	"imagesort/internal/watch"
)

// HistoryStatus is a snapshot of the undo/redo history for display.
type HistoryStatus struct {
	Done    []actions.ReversibleAction // oldest first
	Undone  []actions.ReversibleAction // next redo last
	CanUndo bool
	CanRedo bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithIdentity overrides the platform path identity.
func WithIdentity(id listing.Identity) Option {
	return func(b *Browser) { b.identity = id }
}

// WithHistoryLimit caps the number of undoable actions; 0 is unlimited.
func WithHistoryLimit(limit int) Option {
	return func(b *Browser) { b.historyLimit = limit }
}

// WithErrorBuffer sets how many watch errors Errors() holds before newer
// ones are dropped.
func WithErrorBuffer(n int) Option {
	return func(b *Browser) {
		if n > 0 {
			b.errorBuffer = n
		}
	}
}

// Browser is the caller-visible surface of the image browser core.
type Browser struct {
	// Collaborators
	port   fsport.Port
	source watch.Source

	// State owned by the loop goroutine
	listing *listing.Listing
	view    *view.Pipeline
	history *actions.History
	folder  string

	// Current subscription and its generation. Events carrying an older
	// generation belong to a released subscription and are dropped.
	sub        watch.Subscription
	generation uint64

	// Settings
	identity     listing.Identity
	historyLimit int
	errorBuffer  int

	// Loop plumbing
	ops       chan func()
	quit      chan struct{}
	done      chan struct{}
	errs      chan error
	pumps     sync.WaitGroup
	closeOnce sync.Once
}

// New starts a browser over port. source may be nil, in which case folders
// are enumerated but not watched.
func New(port fsport.Port, source watch.Source, opts ...Option) *Browser {
	b := &Browser{
		port:        port,
		source:      source,
		identity:    listing.PlatformIdentity(),
		errorBuffer: 16,
		ops:         make(chan func()),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.listing = listing.New(b.identity)
	b.view = view.New()
	b.history = actions.NewHistory(b.historyLimit)
	b.errs = make(chan error, b.errorBuffer)

	go b.loop()
	return b
}

func (b *Browser) loop() {
	defer close(b.done)
	for {
		select {
		case op := <-b.ops:
			op()
		case <-b.quit:
			b.release()
			return
		}
	}
}

// do runs fn on the loop and returns its error. ctx bounds only the wait for
// the loop to accept fn; once accepted fn always runs to completion.
func (b *Browser) do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	op := func() { result <- fn() }

	select {
	case b.ops <- op:
	case <-b.quit:
		return errors.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-result
}

// read runs fn on the loop, or directly once the loop has exited and the
// state is frozen.
func (b *Browser) read(fn func()) {
	err := b.do(context.Background(), func() error {
		fn()
		return nil
	})
	if err != nil {
		<-b.done
		fn()
	}
}

// post queues fn without waiting. It reports false once the browser is
// closing.
func (b *Browser) post(fn func()) bool {
	select {
	case b.ops <- fn:
		return true
	case <-b.quit:
		return false
	}
}

// Close stops the loop and releases the watch. Later mutating calls return
// ErrClosed; accessors keep returning the last state.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		close(b.quit)
		<-b.done
		b.pumps.Wait()
		close(b.errs)
		log.Debug("Browser closed")
	})
	return nil
}

// Errors delivers watch failures. It is closed by Close.
func (b *Browser) Errors() <-chan error {
	return b.errs
}

// SwitchDirectory makes dir the browsed folder. See switchDirectory.
func (b *Browser) SwitchDirectory(ctx context.Context, dir string) error {
	return b.do(ctx, func() error { return b.switchDirectory(dir) })
}

// CurrentFolder returns the folder of the last successful switch.
func (b *Browser) CurrentFolder() string {
	var folder string
	b.read(func() { folder = b.folder })
	return folder
}

// Images returns the visible, filtered and sorted sequence.
func (b *Browser) Images() []string {
	var images []string
	b.read(func() { images = b.view.Images() })
	return images
}

func (b *Browser) SearchTerm() string {
	var term string
	b.read(func() { term = b.view.SearchTerm() })
	return term
}

// SetSearchTerm changes the filter; the empty term shows everything.
func (b *Browser) SetSearchTerm(term string) error {
	return b.do(context.Background(), func() error {
		b.view.SetSearchTerm(term, b.listing.Items())
		return nil
	})
}

func (b *Browser) SelectedIndex() int {
	index := -1
	b.read(func() { index = b.view.SelectedIndex() })
	return index
}

// SetSelectedIndex selects the image at index.
func (b *Browser) SetSelectedIndex(index int) error {
	return b.do(context.Background(), func() error {
		return b.view.SetSelectedIndex(index)
	})
}

// SelectedImage returns the selected image, or "" when nothing is visible.
func (b *Browser) SelectedImage() string {
	var image string
	b.read(func() { image = b.view.SelectedImage() })
	return image
}

// GoLeft selects the previous image and reports whether it moved.
func (b *Browser) GoLeft() bool {
	var moved bool
	b.do(context.Background(), func() error {
		moved = b.view.GoLeft()
		return nil
	})
	return moved
}

// GoRight selects the next image and reports whether it moved.
func (b *Browser) GoRight() bool {
	var moved bool
	b.do(context.Background(), func() error {
		moved = b.view.GoRight()
		return nil
	})
	return moved
}

func (b *Browser) CanGoLeft() bool {
	var ok bool
	b.read(func() { ok = b.view.CanGoLeft() })
	return ok
}

func (b *Browser) CanGoRight() bool {
	var ok bool
	b.read(func() { ok = b.view.CanGoRight() })
	return ok
}

// Subscribe registers fn for view changes. fn runs on the loop goroutine and
// must not call back into the Browser synchronously.
func (b *Browser) Subscribe(fn func(view.Change)) (func(), error) {
	var unsubscribe func()
	err := b.do(context.Background(), func() error {
		unsubscribe = b.view.Subscribe(fn)
		return nil
	})
	if err != nil {
		return func() {}, err
	}
	return func() {
		b.do(context.Background(), func() error {
			unsubscribe()
			return nil
		})
	}, nil
}

// History returns a snapshot of the undo/redo stacks.
func (b *Browser) History() HistoryStatus {
	var status HistoryStatus
	b.read(func() {
		status = HistoryStatus{
			Done:    b.history.Done(),
			Undone:  b.history.Undone(),
			CanUndo: b.history.CanUndo(),
			CanRedo: b.history.CanRedo(),
		}
	})
	return status
}
