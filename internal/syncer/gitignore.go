package syncer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// CheckIgnored reports which of the given env file paths are NOT covered
// by the repository's .gitignore. Paths must be relative to root. A
// missing .gitignore means every path is exposed.
func CheckIgnored(root string, paths []string) ([]string, error) {
	patterns, err := readGitignore(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), paths...), nil
		}
		return nil, err
	}

	var exposed []string
	for _, p := range paths {
		if !matchesAny(patterns, filepath.ToSlash(p)) {
			exposed = append(exposed, p)
		}
	}
	return exposed, nil
}

func readGitignore(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// matchesAny applies gitignore-style matching: a pattern containing a
// slash anchors to the repository root, otherwise it matches the path's
// base name in any directory. A trailing slash marks a directory pattern
// that covers everything beneath it.
func matchesAny(patterns []string, path string) bool {
	for _, pat := range patterns {
		pat = strings.TrimPrefix(pat, "/")
		if dir, ok := strings.CutSuffix(pat, "/"); ok {
			if ok, _ := doublestar.Match(dir+"/**", path); ok {
				return true
			}
			continue
		}
		if strings.Contains(pat, "/") {
			if ok, _ := doublestar.Match(pat, path); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pat, filepath.Base(path)); ok {
			return true
		}
		if ok, _ := doublestar.Match("**/"+pat, path); ok {
			return true
		}
	}
	return false
}
