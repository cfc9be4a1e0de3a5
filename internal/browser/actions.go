package browser

import (
	"context"

	"imagesort/internal/actions"
	"imagesort/pkg/types"
)

// callbacks keep the listing in step with an action without waiting for the
// watcher. They run inside Act/Revert, which Record, Undo and Redo execute on
// the loop; actions built here must only be executed through those methods.
func (b *Browser) callbacks() actions.Callbacks {
	onMove := func(from, to string) { b.apply(types.RenamedEvent(from, to)) }
	return actions.Callbacks{OnAct: onMove, OnRevert: onMove}
}

// NewMove prepares moving file into toFolder. Nothing is touched until the
// action is recorded.
func (b *Browser) NewMove(file, toFolder string) (actions.ReversibleAction, error) {
	var action actions.ReversibleAction
	err := b.do(context.Background(), func() error {
		move, err := actions.NewMove(file, toFolder, b.port, b.callbacks())
		if err != nil {
			return err
		}
		action = move
		return nil
	})
	return action, err
}

// NewRename prepares renaming file to newName within its folder.
func (b *Browser) NewRename(file, newName string) (actions.ReversibleAction, error) {
	var action actions.ReversibleAction
	err := b.do(context.Background(), func() error {
		rename, err := actions.NewRename(file, newName, b.port, b.callbacks())
		if err != nil {
			return err
		}
		action = rename
		return nil
	})
	return action, err
}

// Record executes action and pushes it onto the history.
func (b *Browser) Record(action actions.ReversibleAction) error {
	return b.do(context.Background(), func() error {
		return b.history.Record(action)
	})
}

// Undo reverts the most recent action.
func (b *Browser) Undo() (actions.ReversibleAction, error) {
	var action actions.ReversibleAction
	err := b.do(context.Background(), func() error {
		var err error
		action, err = b.history.Undo()
		return err
	})
	return action, err
}

// Redo re-executes the most recently undone action.
func (b *Browser) Redo() (actions.ReversibleAction, error) {
	var action actions.ReversibleAction
	err := b.do(context.Background(), func() error {
		var err error
		action, err = b.history.Redo()
		return err
	})
	return action, err
}
