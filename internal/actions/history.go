package actions

import (
	"imagesort/internal/errors"
	"imagesort/internal/log"
)

// History is a linear undo/redo stack. Actions in the done list have been
// acted, actions in the redo tail have been reverted. History is not safe
// for concurrent use.
type History struct {
	done   []ReversibleAction
	undone []ReversibleAction
	limit  int
}

// NewHistory returns an empty history. A positive limit caps the number of
// undoable actions; the oldest is forgotten (and stays applied) when full.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Record acts the action and, on success, pushes it and clears the redo tail.
// A failed action is not recorded.
func (h *History) Record(action ReversibleAction) error {
	if action == nil {
		return errors.NewInvalidStateError("nil action")
	}
	if err := action.Act(); err != nil {
		return err
	}

	h.done = append(h.done, action)
	h.undone = nil
	if h.limit > 0 && len(h.done) > h.limit {
		dropped := h.done[0]
		h.done = h.done[1:]
		log.LogWithFields(log.F("action", dropped.ID())).Debug("History full, forgot oldest action")
	}

	log.LogWithFields(log.F("action", action.ID()), log.F("name", action.DisplayName())).Info("Recorded action")
	return nil
}

// Undo reverts the most recently done action.
func (h *History) Undo() (ReversibleAction, error) {
	if len(h.done) == 0 {
		return nil, errors.NewEmptyHistoryError("undo")
	}

	action := h.done[len(h.done)-1]
	if err := action.Revert(); err != nil {
		return nil, err
	}

	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, action)
	log.LogWithFields(log.F("action", action.ID())).Info("Undid action")
	return action, nil
}

// Redo re-acts the most recently undone action.
func (h *History) Redo() (ReversibleAction, error) {
	if len(h.undone) == 0 {
		return nil, errors.NewEmptyHistoryError("redo")
	}

	action := h.undone[len(h.undone)-1]
	if err := action.Act(); err != nil {
		return nil, err
	}

	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, action)
	log.LogWithFields(log.F("action", action.ID())).Info("Redid action")
	return action, nil
}

// CanUndo reports whether Undo has an action to revert.
func (h *History) CanUndo() bool { return len(h.done) > 0 }

// CanRedo reports whether Redo has an action to re-act.
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Done returns the done actions, oldest first.
func (h *History) Done() []ReversibleAction {
	return append([]ReversibleAction(nil), h.done...)
}

// Undone returns the redo tail, the next action to redo last.
func (h *History) Undone() []ReversibleAction {
	return append([]ReversibleAction(nil), h.undone...)
}

