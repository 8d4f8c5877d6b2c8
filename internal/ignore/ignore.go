// Package ignore decides which directories the catalog walks skip.
//
// Patterns are doublestar globs matched against both the directory's base
// name and its path relative to the walk root, so a bare "node_modules"
// excludes the directory at any depth while "**/testdata" style patterns
// keep working.
package ignore

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher reports whether a directory under root should be skipped.
type Matcher struct {
	root     string
	patterns []string
}

// NewMatcher builds a Matcher for the given walk root and glob patterns.
// Invalid globs are ignored at match time rather than rejected up front.
func NewMatcher(root string, patterns []string) *Matcher {
	return &Matcher{root: root, patterns: patterns}
}

// Skip reports whether path (a directory) matches any ignore pattern.
// The root itself is never skipped.
func (m *Matcher) Skip(path string) bool {
	if path == m.root {
		return false
	}

	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range m.patterns {
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
