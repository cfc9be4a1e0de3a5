package messages

import (
	"imagesort/internal/view"
)

type ErrorMsg struct {
	Err error
}

// ChangeMsg carries a view change from the browser loop.
type ChangeMsg struct {
	Change view.Change
}

// WatchErrorMsg carries an error reported by the folder watch.
type WatchErrorMsg struct {
	Err error
}

// ActionDoneMsg reports a recorded, undone or redone action.
type ActionDoneMsg struct {
	Verb string
	Name string
}
