// Package listing holds the in-memory set of image files known for the
// currently browsed folder.
package listing

import (
	"path/filepath"
)

// Listing is an unordered set of absolute image paths scoped to one folder.
// No two members are equal under the listing's Identity. A Listing is not
// safe for concurrent use; the browser owns it from a single goroutine.
type Listing struct {
	id     Identity
	dir    string
	dirKey string
	items  map[string]string // identity key -> path as first seen
}

// New returns an empty listing using id for path equality.
func New(id Identity) *Listing {
	return &Listing{
		id:    id,
		items: make(map[string]string),
	}
}

// Identity returns the path equality used by the listing.
func (l *Listing) Identity() Identity {
	return l.id
}

// Dir returns the folder the listing is scoped to.
func (l *Listing) Dir() string {
	return l.dir
}

// Reset replaces the contents wholesale with the supported files from paths
// and scopes the listing to dir. Duplicates under identity are collapsed.
func (l *Listing) Reset(dir string, paths []string) {
	items := make(map[string]string, len(paths))
	l.dir = filepath.Clean(dir)
	l.dirKey = l.id.Key(l.dir)
	for _, p := range paths {
		if !l.Accepts(p) {
			continue
		}
		key := l.id.Key(p)
		if _, dup := items[key]; !dup {
			items[key] = filepath.Clean(p)
		}
	}
	l.items = items
}

// Accepts reports whether path may be a member: a supported image directly
// inside the listing's folder.
func (l *Listing) Accepts(path string) bool {
	if !IsSupported(path) {
		return false
	}
	if l.dir == "" {
		return true
	}
	return l.id.Key(filepath.Dir(filepath.Clean(path))) == l.dirKey
}

// Contains reports whether a member is equal to path.
func (l *Listing) Contains(path string) bool {
	_, ok := l.items[l.id.Key(path)]
	return ok
}

// Add inserts path if it is accepted and not already present.
func (l *Listing) Add(path string) bool {
	if !l.Accepts(path) {
		return false
	}
	key := l.id.Key(path)
	if _, ok := l.items[key]; ok {
		return false
	}
	l.items[key] = filepath.Clean(path)
	return true
}

// Remove deletes the member equal to path, if any.
func (l *Listing) Remove(path string) bool {
	key := l.id.Key(path)
	if _, ok := l.items[key]; !ok {
		return false
	}
	delete(l.items, key)
	return true
}

// Len returns the number of members.
func (l *Listing) Len() int {
	return len(l.items)
}

// Items returns a copy of the members in no particular order.
func (l *Listing) Items() []string {
	out := make([]string, 0, len(l.items))
	for _, p := range l.items {
		out = append(out, p)
	}
	return out
}
