package listing

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// SupportedExtensions is the fixed allow-list of image types.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".ico"}

var supportedGlob = compileSupported()

func compileSupported() glob.Glob {
	exts := make([]string, len(SupportedExtensions))
	for i, ext := range SupportedExtensions {
		exts[i] = strings.TrimPrefix(ext, ".")
	}
	return glob.MustCompile("*.{" + strings.Join(exts, ",") + "}")
}

// IsSupported reports whether path has one of the supported image
// extensions, ignoring case.
func IsSupported(path string) bool {
	return supportedGlob.Match(strings.ToLower(filepath.Base(path)))
}
