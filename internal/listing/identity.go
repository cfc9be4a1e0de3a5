package listing

import (
	"path/filepath"
	"runtime"

	"golang.org/x/text/cases"
)

// Identity decides when two paths name the same file.
type Identity struct {
	caseInsensitive bool
}

// PlatformIdentity matches the default filesystem semantics of the running
// OS: case-insensitive on windows and darwin, exact elsewhere.
func PlatformIdentity() Identity {
	return Identity{caseInsensitive: runtime.GOOS == "windows" || runtime.GOOS == "darwin"}
}

// ExactIdentity compares cleaned paths byte for byte.
func ExactIdentity() Identity {
	return Identity{}
}

// FoldedIdentity compares cleaned paths under Unicode case folding.
func FoldedIdentity() Identity {
	return Identity{caseInsensitive: true}
}

// CaseInsensitive reports whether case is ignored.
func (id Identity) CaseInsensitive() bool {
	return id.caseInsensitive
}

// Key returns the canonical form of path used for set membership.
func (id Identity) Key(path string) string {
	clean := filepath.Clean(path)
	if !id.caseInsensitive {
		return clean
	}
	// Casers keep state and are not shareable across goroutines
	return cases.Fold().String(clean)
}

// Equal reports whether a and b identify the same file.
func (id Identity) Equal(a, b string) bool {
	return id.Key(a) == id.Key(b)
}
