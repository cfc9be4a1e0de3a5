// Package actions implements reversible file mutations and the linear
// undo/redo history that executes them.
package actions

import (
	"path/filepath"
	"time"

	"imagesort/internal/errors"
	"imagesort/internal/fsport"
	"imagesort/internal/log"

	"github.com/google/uuid"
)

// Notify is invoked after a successful move with the path the file left
// and the path it now has.
type Notify func(from, to string)

// Callbacks are the caller-supplied hooks that keep a listing in sync with
// an action without waiting for a rescan. Either may be nil.
type Callbacks struct {
	OnAct    Notify
	OnRevert Notify
}

// ReversibleAction is a file mutation packaged with its inverse.
// Act and Revert must alternate; calling either out of turn returns an
// InvalidStateError and touches nothing.
type ReversibleAction interface {
	ID() string
	DisplayName() string
	CreatedAt() time.Time
	Source() string
	Destination() string
	Applied() bool
	Act() error
	Revert() error
}

var now = time.Now

// reversible carries the state shared by Move and Rename.
type reversible struct {
	id        string
	createdAt time.Time
	port      fsport.Port
	oldPath   string
	newPath   string
	callbacks Callbacks
	applied   bool
}

func newReversible(port fsport.Port, oldPath, newPath string, cb Callbacks) reversible {
	return reversible{
		id:        uuid.New().String(),
		createdAt: now(),
		port:      port,
		oldPath:   oldPath,
		newPath:   newPath,
		callbacks: cb,
	}
}

func (r *reversible) ID() string           { return r.id }
func (r *reversible) CreatedAt() time.Time { return r.createdAt }
func (r *reversible) Source() string       { return r.oldPath }
func (r *reversible) Destination() string  { return r.newPath }
func (r *reversible) Applied() bool        { return r.applied }

func (r *reversible) Act() error {
	if r.applied {
		return errors.NewInvalidStateError("action already applied: " + r.id)
	}
	if err := r.move(r.oldPath, r.newPath); err != nil {
		return err
	}
	r.applied = true
	if r.callbacks.OnAct != nil {
		r.callbacks.OnAct(r.oldPath, r.newPath)
	}
	return nil
}

func (r *reversible) Revert() error {
	if !r.applied {
		return errors.NewInvalidStateError("action not applied: " + r.id)
	}
	if err := r.move(r.newPath, r.oldPath); err != nil {
		return err
	}
	r.applied = false
	if r.callbacks.OnRevert != nil {
		r.callbacks.OnRevert(r.newPath, r.oldPath)
	}
	return nil
}

func (r *reversible) move(from, to string) error {
	if err := r.port.Move(from, to); err != nil {
		log.LogWithError(err).With(log.F("action", r.id)).Warn("Move failed")
		if errors.IsIO(err) {
			return err
		}
		return errors.NewIoError("failed to move file", from, err)
	}
	return nil
}

// absolute resolves path, falling back to a cleaned path when the working
// directory is unavailable.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
