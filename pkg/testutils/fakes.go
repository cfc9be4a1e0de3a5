package testutils

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"imagesort/internal/errors"
	"imagesort/internal/fsport"
	"imagesort/internal/watch"
	"imagesort/pkg/types"
)

// FakePort is an in-memory fsport.Port with exact path identity.
type FakePort struct {
	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	// MoveErr, when set, decides whether a move fails before it happens.
	MoveErr func(src, dst string) error
	// ListErr, when set, fails every ListFiles call.
	ListErr error

	moves int
}

var _ fsport.Port = (*FakePort)(nil)

// NewFakePort returns an empty in-memory filesystem.
func NewFakePort() *FakePort {
	return &FakePort{files: make(map[string]bool), dirs: make(map[string]bool)}
}

// AddDir creates dir and its parents.
func (p *FakePort) AddDir(dir string) *FakePort {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addDirLocked(filepath.Clean(dir))
	return p
}

func (p *FakePort) addDirLocked(dir string) {
	for {
		p.dirs[dir] = true
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// AddFiles creates files (and their folders).
func (p *FakePort) AddFiles(paths ...string) *FakePort {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, path := range paths {
		path = filepath.Clean(path)
		p.addDirLocked(filepath.Dir(path))
		p.files[path] = true
	}
	return p
}

// RemoveFile deletes a file behind the browser's back.
func (p *FakePort) RemoveFile(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.files, filepath.Clean(path))
}

// Files returns every file path, sorted.
func (p *FakePort) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.files))
	for f := range p.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Moves returns the number of successful moves.
func (p *FakePort) Moves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moves
}

func (p *FakePort) FileExists(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files[filepath.Clean(path)]
}

func (p *FakePort) DirectoryExists(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirs[filepath.Clean(path)]
}

func (p *FakePort) Move(src, dst string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	if p.MoveErr != nil {
		if err := p.MoveErr(src, dst); err != nil {
			return errors.NewIoError("failed to move file", src, err)
		}
	}
	if !p.files[src] {
		return errors.NewIoError("failed to move file", src, fmt.Errorf("no such file"))
	}
	if p.files[dst] || p.dirs[dst] {
		return errors.NewIoError("destination already exists", dst, nil)
	}
	if !p.dirs[filepath.Dir(dst)] {
		return errors.NewIoError("failed to move file", src, fmt.Errorf("no such directory %s", filepath.Dir(dst)))
	}

	delete(p.files, src)
	p.files[dst] = true
	p.moves++
	return nil
}

func (p *FakePort) ListFiles(dir string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dir = filepath.Clean(dir)

	if p.ListErr != nil {
		return nil, errors.NewIoError("failed to list directory", dir, p.ListErr)
	}
	if !p.dirs[dir] {
		return nil, errors.NewIoError("cannot access directory", dir, fmt.Errorf("no such directory"))
	}

	var out []string
	for f := range p.files {
		if filepath.Dir(f) == dir {
			out = append(out, f)
		}
	}
	return out, nil
}

// FakeSource is a watch.Source whose events are pushed by the test.
type FakeSource struct {
	mu   sync.Mutex
	subs []*FakeSubscription

	// SubscribeErr, when set, fails every Subscribe call.
	SubscribeErr error
}

var _ watch.Source = (*FakeSource)(nil)

// NewFakeSource returns a source with no subscriptions.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

func (s *FakeSource) Subscribe(dir string) (watch.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SubscribeErr != nil {
		return nil, s.SubscribeErr
	}
	sub := &FakeSubscription{
		dir:    filepath.Clean(dir),
		events: make(chan types.FileEvent, 256),
		errs:   make(chan error, 16),
	}
	s.subs = append(s.subs, sub)
	return sub, nil
}

// Subscriptions returns every subscription handed out, oldest first.
func (s *FakeSource) Subscriptions() []*FakeSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeSubscription(nil), s.subs...)
}

// Latest returns the most recent subscription, or nil.
func (s *FakeSource) Latest() *FakeSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return nil
	}
	return s.subs[len(s.subs)-1]
}

// OpenCount returns how many subscriptions are not closed.
func (s *FakeSource) OpenCount() int {
	n := 0
	for _, sub := range s.Subscriptions() {
		if !sub.Closed() {
			n++
		}
	}
	return n
}

// FakeSubscription delivers events pushed with Emit.
type FakeSubscription struct {
	mu     sync.Mutex
	dir    string
	events chan types.FileEvent
	errs   chan error
	closed bool
}

var _ watch.Subscription = (*FakeSubscription)(nil)

func (s *FakeSubscription) Dir() string                    { return s.dir }
func (s *FakeSubscription) Events() <-chan types.FileEvent { return s.events }
func (s *FakeSubscription) Errors() <-chan error           { return s.errs }

// Emit delivers ev unless the subscription is closed.
func (s *FakeSubscription) Emit(ev types.FileEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.events <- ev
	}
}

// EmitError delivers err unless the subscription is closed.
func (s *FakeSubscription) EmitError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.errs <- err
	}
}

// Close closes both channels; later calls are no-ops.
func (s *FakeSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
		close(s.errs)
	}
	return nil
}

// Closed reports whether Close was called.
func (s *FakeSubscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
