package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"imagesort/internal/errors"
	"imagesort/internal/listing"
	"imagesort/internal/view"
	"imagesort/pkg/testutils"
	"imagesort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	picsDir  = filepath.FromSlash("/pics")
	keepDir  = filepath.FromSlash("/pics/keep")
	otherDir = filepath.FromSlash("/other")
)

func pic(name string) string { return filepath.Join(picsDir, name) }

func newTestBrowser(t *testing.T, port *testutils.FakePort, source *testutils.FakeSource) *Browser {
	t.Helper()
	var b *Browser
	if source == nil {
		b = New(port, nil, WithIdentity(listing.ExactIdentity()))
	} else {
		b = New(port, source, WithIdentity(listing.ExactIdentity()))
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// settle emits a marker file through sub and waits until the listing holds
// it, so every event emitted before it has been applied. The marker is
// removed again before returning.
func settle(t *testing.T, b *Browser, sub *testutils.FakeSubscription) {
	t.Helper()
	marker := pic(fmt.Sprintf("zz-marker-%d.png", time.Now().UnixNano()))
	listed := func() bool {
		var ok bool
		b.read(func() { ok = b.listing.Contains(marker) })
		return ok
	}

	sub.Emit(types.CreatedEvent(marker))
	require.Eventually(t, listed, 2*time.Second, 5*time.Millisecond, "marker event never applied")
	sub.Emit(types.DeletedEvent(marker))
	require.Eventually(t, func() bool { return !listed() }, 2*time.Second, 5*time.Millisecond)
}

func TestSwitchDirectory(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("b.png"), pic("a.PNG"), pic("notes.txt"), pic("sub/c.png"))
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)

	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	assert.Equal(t, []string{pic("a.PNG"), pic("b.png")}, b.Images())
	assert.Equal(t, 0, b.SelectedIndex())
	assert.Equal(t, pic("a.PNG"), b.SelectedImage())
	assert.Equal(t, picsDir, b.CurrentFolder())

	require.NotNil(t, source.Latest())
	assert.Equal(t, picsDir, source.Latest().Dir())
	assert.Equal(t, 1, source.OpenCount())
}

func TestSearchScenario(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png"))
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	var mu sync.Mutex
	var selections []int
	_, err := b.Subscribe(func(c view.Change) {
		if c.Kind == view.SelectionChanged {
			mu.Lock()
			selections = append(selections, c.SelectedIndex)
			mu.Unlock()
		}
	})
	require.NoError(t, err)

	require.NoError(t, b.SetSearchTerm("b"))
	assert.Equal(t, []string{pic("b.png")}, b.Images())
	assert.Equal(t, 0, b.SelectedIndex())
	mu.Lock()
	assert.Equal(t, []int{-1, 0}, selections)
	mu.Unlock()

	port.AddFiles(pic("c.png"))
	source.Latest().Emit(types.CreatedEvent(pic("c.png")))
	settle(t, b, source.Latest())
	assert.Equal(t, []string{pic("b.png")}, b.Images())

	require.NoError(t, b.SetSearchTerm(""))
	assert.Equal(t, []string{pic("a.png"), pic("b.png"), pic("c.png")}, b.Images())
	assert.Equal(t, "", b.SearchTerm())
}

func TestSwitchDirectoryUnavailable(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	err := b.SwitchDirectory(context.Background(), filepath.FromSlash("/missing"))
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryUnavailable(err))

	assert.Equal(t, []string{pic("a.png")}, b.Images(), "previous listing kept")
	assert.Equal(t, picsDir, b.CurrentFolder())
	assert.Equal(t, 0, source.OpenCount(), "previous watch released")
	assert.Len(t, source.Subscriptions(), 1, "no watch for a missing folder")
}

func TestSwitchDirectoryListFailureReleasesNewWatch(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png")).AddDir(otherDir)
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	port.ListErr = fmt.Errorf("permission denied")
	err := b.SwitchDirectory(context.Background(), otherDir)
	assert.True(t, errors.IsDirectoryUnavailable(err))

	assert.Len(t, source.Subscriptions(), 2)
	assert.Equal(t, 0, source.OpenCount())
	assert.Equal(t, []string{pic("a.png")}, b.Images())
}

func TestWatchFailureKeepsListing(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	source := testutils.NewFakeSource()
	source.SubscribeErr = fmt.Errorf("too many open files")
	b := newTestBrowser(t, port, source)

	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))
	assert.Equal(t, []string{pic("a.png")}, b.Images())

	select {
	case err := <-b.Errors():
		assert.Contains(t, err.Error(), "too many open files")
	case <-time.After(time.Second):
		t.Fatal("watch failure was not reported")
	}
}

func TestWatchErrorsAreForwarded(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	source.Latest().EmitError(fmt.Errorf("queue overflow"))
	select {
	case err := <-b.Errors():
		assert.EqualError(t, err, "queue overflow")
	case <-time.After(2 * time.Second):
		t.Fatal("watch error was not forwarded")
	}
	assert.Equal(t, []string{pic("a.png")}, b.Images())
}

func TestSwitchReleasesPreviousWatch(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), filepath.Join(otherDir, "x.png"))
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)

	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))
	first := source.Latest()
	require.NoError(t, b.SwitchDirectory(context.Background(), otherDir))

	assert.True(t, first.Closed())
	assert.Equal(t, 1, source.OpenCount())
	assert.Equal(t, []string{filepath.Join(otherDir, "x.png")}, b.Images())
	assert.Equal(t, otherDir, b.CurrentFolder())
}

func TestSwitchToSameFolderRescans(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	b := newTestBrowser(t, port, nil)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	port.AddFiles(pic("b.png"))
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))
	assert.Equal(t, []string{pic("a.png"), pic("b.png")}, b.Images())
}

func TestWatcherEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []types.FileEvent
		want   []string
	}{
		{"create", []types.FileEvent{types.CreatedEvent(pic("c.png"))}, []string{pic("a.png"), pic("b.png"), pic("c.png")}},
		{"create unsupported", []types.FileEvent{types.CreatedEvent(pic("c.txt"))}, []string{pic("a.png"), pic("b.png")}},
		{"create in subfolder", []types.FileEvent{types.CreatedEvent(pic("sub/c.png"))}, []string{pic("a.png"), pic("b.png")}},
		{"delete", []types.FileEvent{types.DeletedEvent(pic("a.png"))}, []string{pic("b.png")}},
		{"delete unknown", []types.FileEvent{types.DeletedEvent(pic("x.png"))}, []string{pic("a.png"), pic("b.png")}},
		{"rename", []types.FileEvent{types.RenamedEvent(pic("a.png"), pic("c.png"))}, []string{pic("b.png"), pic("c.png")}},
		{"rename to unsupported", []types.FileEvent{types.RenamedEvent(pic("a.png"), pic("a.txt"))}, []string{pic("b.png")}},
		{"rename out of folder", []types.FileEvent{types.RenamedEvent(pic("a.png"), filepath.Join(otherDir, "a.png"))}, []string{pic("b.png")}},
		{"rename unknown source", []types.FileEvent{types.RenamedEvent(pic("x.txt"), pic("x.png"))}, []string{pic("a.png"), pic("b.png"), pic("x.png")}},
		{"rename as delete and create", []types.FileEvent{types.DeletedEvent(pic("a.png")), types.CreatedEvent(pic("c.png"))}, []string{pic("b.png"), pic("c.png")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png"))
			source := testutils.NewFakeSource()
			b := newTestBrowser(t, port, source)
			require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

			// Every event is delivered twice; the result must match a single delivery.
			for _, ev := range tc.events {
				source.Latest().Emit(ev)
				source.Latest().Emit(ev)
			}
			settle(t, b, source.Latest())
			assert.Equal(t, tc.want, b.Images())
		})
	}
}

func TestStaleGenerationIsDropped(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	b := newTestBrowser(t, port, testutils.NewFakeSource())
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	require.NoError(t, b.do(context.Background(), func() error {
		b.applyEvent(b.generation-1, types.CreatedEvent(pic("stale.png")))
		b.applyEvent(b.generation, types.CreatedEvent(pic("fresh.png")))
		return nil
	}))
	assert.Equal(t, []string{pic("a.png"), pic("fresh.png")}, b.Images())
}

func TestMoveUndoRedo(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png")).AddDir(keepDir)
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	move, err := b.NewMove(pic("a.png"), keepDir)
	require.NoError(t, err)
	require.NoError(t, b.Record(move))

	assert.Equal(t, []string{pic("b.png")}, b.Images(), "listing updated without a watcher event")
	assert.True(t, port.FileExists(move.Destination()))

	// The watcher echo of the same move changes nothing
	source.Latest().Emit(types.DeletedEvent(pic("a.png")))
	settle(t, b, source.Latest())
	assert.Equal(t, []string{pic("b.png")}, b.Images())

	undone, err := b.Undo()
	require.NoError(t, err)
	assert.Same(t, move, undone)
	assert.Equal(t, []string{pic("a.png"), pic("b.png")}, b.Images())
	assert.True(t, port.FileExists(pic("a.png")))

	redone, err := b.Redo()
	require.NoError(t, err)
	assert.Same(t, move, redone)
	assert.Equal(t, []string{pic("b.png")}, b.Images())

	h := b.History()
	assert.Len(t, h.Done, 1)
	assert.Empty(t, h.Undone)
	assert.True(t, h.CanUndo)
	assert.False(t, h.CanRedo)
}

func TestRenameUpdatesListing(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png"))
	b := newTestBrowser(t, port, nil)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	rename, err := b.NewRename(pic("a.png"), "z.png")
	require.NoError(t, err)
	require.NoError(t, b.Record(rename))
	assert.Equal(t, []string{pic("b.png"), pic("z.png")}, b.Images())

	_, err = b.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{pic("a.png"), pic("b.png")}, b.Images())

	// A new action drops the redo tail
	rename, err = b.NewRename(pic("b.png"), "c.png")
	require.NoError(t, err)
	require.NoError(t, b.Record(rename))
	_, err = b.Redo()
	assert.True(t, errors.IsEmptyHistory(err))
}

func TestActionErrorsLeaveListingUnchanged(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png"))
	b := newTestBrowser(t, port, nil)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))
	before := b.Images()

	_, err := b.NewMove(pic("a.png"), filepath.FromSlash("/pics/X"))
	assert.True(t, errors.IsNotFound(err))

	_, err = b.NewRename(pic("a.png"), "a:b.png")
	assert.True(t, errors.IsInvalidName(err))

	_, err = b.Undo()
	assert.True(t, errors.IsEmptyHistory(err))

	rename, err := b.NewRename(pic("a.png"), "c.png")
	require.NoError(t, err)
	port.MoveErr = func(_, _ string) error { return fmt.Errorf("locked") }
	assert.True(t, errors.IsIO(b.Record(rename)))
	assert.False(t, b.History().CanUndo)

	assert.Equal(t, before, b.Images())
	assert.Equal(t, 0, port.Moves())
}

func TestNavigation(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"), pic("b.png"), pic("c.png"))
	b := newTestBrowser(t, port, nil)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	assert.False(t, b.CanGoLeft())
	assert.True(t, b.GoRight())
	assert.True(t, b.GoRight())
	assert.False(t, b.GoRight())
	assert.Equal(t, pic("c.png"), b.SelectedImage())

	// Deleting the selected last image clamps the selection
	rename, err := b.NewRename(pic("c.png"), "c.txt")
	require.NoError(t, err)
	require.NoError(t, b.Record(rename))
	assert.Equal(t, 1, b.SelectedIndex())

	require.NoError(t, b.SetSelectedIndex(0))
	assert.True(t, errors.IsInvalidState(b.SetSelectedIndex(5)))
	assert.True(t, b.CanGoRight())
}

func TestClose(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	source := testutils.NewFakeSource()
	b := New(port, source, WithIdentity(listing.ExactIdentity()))
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Equal(t, 0, source.OpenCount())
	assert.True(t, errors.IsClosed(b.SwitchDirectory(context.Background(), picsDir)))
	assert.True(t, errors.IsClosed(b.SetSearchTerm("x")))
	_, err := b.Undo()
	assert.True(t, errors.IsClosed(err))

	assert.Equal(t, []string{pic("a.png")}, b.Images(), "accessors keep the last state")
	assert.Equal(t, picsDir, b.CurrentFolder())

	_, ok := <-b.Errors()
	assert.False(t, ok)
}

func TestSwitchDirectoryHonorsContext(t *testing.T) {
	port := testutils.NewFakePort().AddFiles(pic("a.png"))
	b := newTestBrowser(t, port, nil)

	release := make(chan struct{})
	go b.do(context.Background(), func() error {
		<-release
		return nil
	})
	defer close(release)

	// Give the blocking op time to occupy the loop
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := b.SwitchDirectory(ctx, picsDir)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentEventsAndActions(t *testing.T) {
	port := testutils.NewFakePort().AddDir(picsDir)
	for i := 0; i < 10; i++ {
		port.AddFiles(pic(fmt.Sprintf("own-%d.png", i)))
	}
	source := testutils.NewFakeSource()
	b := newTestBrowser(t, port, source)
	require.NoError(t, b.SwitchDirectory(context.Background(), picsDir))
	sub := source.Latest()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				path := pic(fmt.Sprintf("ext-%d-%d.jpg", w, i))
				port.AddFiles(path)
				sub.Emit(types.CreatedEvent(path))
				_ = b.Images()
			}
		}(w)
	}

	for i := 0; i < 10; i++ {
		rename, err := b.NewRename(pic(fmt.Sprintf("own-%d.png", i)), fmt.Sprintf("renamed-%d.png", i))
		require.NoError(t, err)
		require.NoError(t, b.Record(rename))
	}
	for i := 0; i < 5; i++ {
		_, err := b.Undo()
		require.NoError(t, err)
	}

	wg.Wait()
	settle(t, b, sub)

	var want []string
	for _, f := range port.Files() {
		if filepath.Dir(f) == picsDir {
			want = append(want, f)
		}
	}
	assert.Equal(t, want, b.Images())
	assert.Len(t, want, 90)
}
