package actions

import (
	"fmt"
	"path/filepath"
	"testing"

	"imagesort/internal/errors"
	"imagesort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renameAction(t *testing.T, port *testutils.FakePort, from, to string) ReversibleAction {
	t.Helper()
	a, err := NewRename(filepath.Join(picsDir, from), to, port, Callbacks{})
	require.NoError(t, err)
	return a
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, err := h.Undo()
	assert.True(t, errors.IsEmptyHistory(err))
	_, err = h.Redo()
	assert.True(t, errors.IsEmptyHistory(err))

	assert.Error(t, h.Record(nil))
}

func TestHistoryUndoRedo(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	first := renameAction(t, port, "a.png", "b.png")
	require.NoError(t, h.Record(first))
	second := renameAction(t, port, "b.png", "c.png")
	require.NoError(t, h.Record(second))
	assert.Equal(t, testutils.Join(picsDir, "c.png"), port.Files())

	undone, err := h.Undo()
	require.NoError(t, err)
	assert.Same(t, second, undone, "undo is LIFO")
	assert.Equal(t, testutils.Join(picsDir, "b.png"), port.Files())

	undone, err = h.Undo()
	require.NoError(t, err)
	assert.Same(t, first, undone)
	assert.Equal(t, testutils.Join(picsDir, "a.png"), port.Files())
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	redone, err := h.Redo()
	require.NoError(t, err)
	assert.Same(t, first, redone, "redo replays in original order")
	redone, err = h.Redo()
	require.NoError(t, err)
	assert.Same(t, second, redone)
	assert.Equal(t, testutils.Join(picsDir, "c.png"), port.Files())

	assert.Len(t, h.Done(), 2)
	assert.Empty(t, h.Undone())
}

func TestRecordAfterUndoDropsRedoTail(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	require.NoError(t, h.Record(renameAction(t, port, "a.png", "b.png")))
	_, err := h.Undo()
	require.NoError(t, err)

	require.NoError(t, h.Record(renameAction(t, port, "a.png", "z.png")))
	_, err = h.Redo()
	assert.True(t, errors.IsEmptyHistory(err))
	assert.Equal(t, testutils.Join(picsDir, "z.png"), port.Files())
}

func TestFailedRecordIsNotKept(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	action := renameAction(t, port, "a.png", "b.png")
	port.MoveErr = func(_, _ string) error { return fmt.Errorf("read-only") }

	err := h.Record(action)
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
	assert.False(t, h.CanUndo())
}

func TestFailedRecordKeepsRedoTail(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	require.NoError(t, h.Record(renameAction(t, port, "a.png", "b.png")))
	_, err := h.Undo()
	require.NoError(t, err)

	action := renameAction(t, port, "a.png", "c.png")
	port.MoveErr = func(_, _ string) error { return fmt.Errorf("read-only") }
	require.Error(t, h.Record(action))

	assert.True(t, h.CanRedo(), "a failed record does not truncate history")
}

func TestFailedUndoKeepsActionDone(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	action := renameAction(t, port, "a.png", "b.png")
	require.NoError(t, h.Record(action))

	port.MoveErr = func(_, _ string) error { return fmt.Errorf("locked") }
	_, err := h.Undo()
	require.Error(t, err)
	assert.True(t, action.Applied())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	port.MoveErr = nil
	_, err = h.Undo()
	require.NoError(t, err)
	assert.Equal(t, testutils.Join(picsDir, "a.png"), port.Files())
}

func TestFailedRedoKeepsActionUndone(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "a.png"))
	h := NewHistory(0)

	require.NoError(t, h.Record(renameAction(t, port, "a.png", "b.png")))
	_, err := h.Undo()
	require.NoError(t, err)

	// Someone else took the name in the meantime
	port.AddFiles(filepath.Join(picsDir, "b.png"))
	_, err = h.Redo()
	require.Error(t, err)
	assert.True(t, h.CanRedo())
	assert.False(t, h.CanUndo())
}

func TestHistoryLimit(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(filepath.Join(picsDir, "0.png"))
	h := NewHistory(2)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Record(renameAction(t, port, fmt.Sprintf("%d.png", i), fmt.Sprintf("%d.png", i+1))))
	}
	assert.Len(t, h.Done(), 2)

	_, err := h.Undo()
	require.NoError(t, err)
	_, err = h.Undo()
	require.NoError(t, err)
	_, err = h.Undo()
	assert.True(t, errors.IsEmptyHistory(err))
	assert.Equal(t, testutils.Join(picsDir, "1.png"), port.Files(), "the forgotten action stays applied")
}
