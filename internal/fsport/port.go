// Package fsport defines the filesystem operations the browser core consumes
// and provides the OS-backed implementation.
package fsport

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	"imagesort/internal/errors"
	"imagesort/internal/log"

	"github.com/charlievieth/fastwalk"
)

// Port is the filesystem seen by actions and directory switches.
type Port interface {
	// FileExists reports whether path names an existing non-directory.
	FileExists(path string) bool
	// DirectoryExists reports whether path names an existing directory.
	DirectoryExists(path string) bool
	// Move renames src to dst. It either fully succeeds or leaves src
	// untouched, and never replaces an existing dst.
	Move(src, dst string) error
	// ListFiles returns the absolute paths of the files directly inside dir.
	ListFiles(dir string) ([]string, error)
}

// OS implements Port on the local filesystem.
type OS struct{}

// NewOS returns the local filesystem port.
func NewOS() *OS {
	return &OS{}
}

var _ Port = (*OS)(nil)

func (OS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OS) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Move uses a single rename(2), so cross-device moves fail instead of
// degrading into a copy that could leave both files behind.
func (OS) Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return errors.NewIoError("destination already exists", dst, nil)
	} else if !os.IsNotExist(err) {
		return errors.NewIoError("cannot inspect destination", dst, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return errors.NewIoError("failed to move file", src, err)
	}

	log.LogWithFields(log.F("from", src), log.F("to", dst)).Debug("Moved file")
	return nil
}

// ListFiles enumerates dir without descending into subdirectories.
func (OS) ListFiles(dir string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewIoError("invalid directory path", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewIoError("cannot access directory", root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewIoError("not a directory", root, nil)
	}

	var (
		files []string
		mu    sync.Mutex
	)

	conf := &fastwalk.Config{Follow: false}
	err = fastwalk.Walk(conf, root, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil // Entry vanished or is unreadable, skip it
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			return filepath.SkipDir
		}

		if d.Type()&iofs.ModeSymlink != 0 {
			// Keep links that resolve to regular files
			target, err := fastwalk.StatDirEntry(path, d)
			if err != nil || target.IsDir() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		mu.Lock()
		files = append(files, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, errors.NewIoError("failed to list directory", root, err)
	}

	return files, nil
}
