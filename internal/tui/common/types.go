package common

import "time"

type Mode int

const (
	Normal Mode = iota
	Search
	Rename
)

func (m Mode) String() string {
	switch m {
	case Search:
		return "SEARCH"
	case Rename:
		return "RENAME"
	default:
		return "NORMAL"
	}
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Images() []string
	Cursor() int
	CurrentDir() string
	SearchTerm() string
	Mode() Mode
	Input() string
	Status() string
	Err() error
	LastAction() *ActionEntry
	ShowHelp() bool
	KeyHelp() string
	Targets() []Target
}

// ActionEntry describes the most recent history entry for display.
type ActionEntry struct {
	Name    string
	At      time.Time
	CanUndo bool
	CanRedo bool
}

// Target is a quick-move destination bound to a digit key.
type Target struct {
	Key    string
	Folder string
}
