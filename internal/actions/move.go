package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"imagesort/internal/errors"
	"imagesort/internal/fsport"
)

// timestampLayout is appended to moved file names to avoid collisions.
// Two moves of the same name into the same folder within one second still
// collide; the port then refuses the second move.
const timestampLayout = "2006-01-02_15-04-05"

// Move relocates a file into another folder under a timestamped name.
type Move struct {
	reversible
}

var _ ReversibleAction = (*Move)(nil)

// NewMove validates file and toFolder against port and prepares the move.
func NewMove(file, toFolder string, port fsport.Port, cb Callbacks) (*Move, error) {
	if port == nil {
		return nil, errors.NewInvalidStateError("nil filesystem port")
	}
	if file == "" || !port.FileExists(file) {
		return nil, errors.NewNotFoundError("source file not found", file)
	}
	if toFolder == "" || !port.DirectoryExists(toFolder) {
		return nil, errors.NewNotFoundError("destination folder not found", toFolder)
	}

	file = absolute(file)
	toFolder = absolute(toFolder)

	ext := filepath.Ext(file)
	base := strings.TrimSuffix(filepath.Base(file), ext)
	newName := fmt.Sprintf("%s_%s%s", base, now().Format(timestampLayout), ext)

	return &Move{reversible: newReversible(port, file, filepath.Join(toFolder, newName), cb)}, nil
}

// DisplayName describes the move for history listings.
func (m *Move) DisplayName() string {
	return fmt.Sprintf("Move %s to %s", filepath.Base(m.oldPath), filepath.Dir(m.newPath))
}
