package envfile

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultGlobs are the discovery patterns used when the configuration
// names none.
var DefaultGlobs = []string{".env", ".env.*"}

// Discover walks root and returns the relative paths of env files matching
// the given globs, sorted and de-duplicated. An empty glob list falls back
// to DefaultGlobs.
func Discover(root string, globs []string) ([]string, error) {
	if len(globs) == 0 {
		globs = DefaultGlobs
	}

	fsys := os.DirFS(root)
	found := map[string]struct{}{}
	for _, glob := range globs {
		matches, err := doublestar.Glob(fsys, glob)
		if err != nil {
			return nil, fmt.Errorf("invalid file glob %q: %w", glob, err)
		}
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err != nil || info.IsDir() {
				continue
			}
			found[m] = struct{}{}
		}
	}

	paths := make([]string, 0, len(found))
	for p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
