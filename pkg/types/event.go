package types

import "fmt"

// EventKind identifies a change to a watched directory.
type EventKind int

const (
	// Created reports a new file in the directory
	Created EventKind = iota + 1
	// Deleted reports a file that left the directory
	Deleted
	// Renamed reports a file whose path changed from OldPath to Path
	Renamed
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// FileEvent is a single change notification for one watched directory.
// OldPath is only set for Renamed events.
type FileEvent struct {
	Kind    EventKind
	Path    string
	OldPath string
}

// CreatedEvent builds a Created notification.
func CreatedEvent(path string) FileEvent {
	return FileEvent{Kind: Created, Path: path}
}

// DeletedEvent builds a Deleted notification.
func DeletedEvent(path string) FileEvent {
	return FileEvent{Kind: Deleted, Path: path}
}

// RenamedEvent builds a Renamed notification from oldPath to newPath.
func RenamedEvent(oldPath, newPath string) FileEvent {
	return FileEvent{Kind: Renamed, Path: newPath, OldPath: oldPath}
}

func (e FileEvent) String() string {
	if e.Kind == Renamed {
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.OldPath, e.Path)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}
