package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"imagesort/internal/errors"
	"imagesort/internal/fsport"
)

// reservedChars may not appear in a new file name on any supported platform.
const reservedChars = `\/*?:<>|"`

// ValidateName rejects names the filesystem cannot store as a single path
// element. It performs no I/O.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return errors.NewInvalidNameError(name)
	}
	if strings.ContainsAny(name, reservedChars) {
		return errors.NewInvalidNameError(name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return errors.NewInvalidNameError(name)
		}
	}
	return nil
}

// Rename gives a file a new name inside its current folder.
type Rename struct {
	reversible
}

var _ ReversibleAction = (*Rename)(nil)

// NewRename validates newName, then checks file exists through port.
// An invalid name is rejected before the port is consulted.
func NewRename(file, newName string, port fsport.Port, cb Callbacks) (*Rename, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	if port == nil {
		return nil, errors.NewInvalidStateError("nil filesystem port")
	}
	if file == "" || !port.FileExists(file) {
		return nil, errors.NewNotFoundError("source file not found", file)
	}

	file = absolute(file)
	return &Rename{reversible: newReversible(port, file, filepath.Join(filepath.Dir(file), newName), cb)}, nil
}

// DisplayName describes the rename for history listings.
func (r *Rename) DisplayName() string {
	return fmt.Sprintf("Rename %s to %s", filepath.Base(r.oldPath), filepath.Base(r.newPath))
}
