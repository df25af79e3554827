// Package envfile discovers and parses .env-style files holding the
// locally-defined configuration values envsync pushes to the remote store.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one NAME=value pair, in file order.
type Entry struct {
	Key   string
	Value string
	// Line is the 1-based line number the entry was parsed from.
	Line int
}

// File is one parsed env file.
type File struct {
	Path    string
	Entries []Entry
}

// Get returns the value for key and whether it was present.
func (f *File) Get(key string) (string, bool) {
	for _, e := range f.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Parse reads one env file. Supported syntax: NAME=value, optional
// "export " prefix, single or double quoted values, blank lines and
// full-line or trailing # comments. Later assignments of the same key win.
func Parse(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer func() { _ = f.Close() }()

	file := &File{Path: path}
	seen := map[string]int{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, rawValue, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || !validKey(key) {
			return nil, fmt.Errorf("%s:%d: malformed entry", path, lineNo)
		}

		entry := Entry{Key: key, Value: parseValue(rawValue), Line: lineNo}
		if idx, dup := seen[key]; dup {
			file.Entries[idx] = entry
			continue
		}
		seen[key] = len(file.Entries)
		file.Entries = append(file.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return file, nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func parseValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		if q := raw[0]; q == '"' || q == '\'' {
			if end := strings.IndexByte(raw[1:], q); end >= 0 {
				return raw[1 : end+1]
			}
		}
	}
	// Unquoted values end at a trailing comment.
	if i := strings.Index(raw, " #"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}
