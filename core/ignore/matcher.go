// Package ignore filters tree entries against the configured exclusion
// rules. The same matcher instance is shared by the packager and the
// validator so that ignored entries never participate in comparison.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule names the rule category that excluded an entry, used for
// verbose reporting.
type Rule string

const (
	// RulePath is an exact-path exclusion.
	RulePath Rule = "path"
	// RuleFolderPattern is a folder-name glob exclusion.
	RuleFolderPattern Rule = "folder pattern"
	// RuleFilePattern is a file-name glob exclusion.
	RuleFilePattern Rule = "file pattern"
	// RuleExtension is a file-extension exclusion.
	RuleExtension Rule = "extension"
)

// Rules holds the configured exclusion lists.
type Rules struct {
	// Extensions excludes files whose name ends with any of these
	// suffixes (case-insensitive).
	Extensions []string

	// FilePatterns excludes files whose base name matches any of
	// these glob patterns.
	FilePatterns []string

	// FolderPatterns excludes directories whose base name matches
	// any of these glob patterns.
	FolderPatterns []string

	// Paths excludes entries whose relative path or base name
	// matches exactly.
	Paths []string
}

// Matcher evaluates the exclusion rules for tree entries.
type Matcher struct {
	rules Rules
}

// NewMatcher builds a matcher from the configured rules.
func NewMatcher(rules Rules) *Matcher {
	return &Matcher{rules: rules}
}

// Match reports whether an entry should be excluded from the tree, and
// which rule category excluded it. relPath is slash-separated and
// relative to the scanned root. Rules apply in a fixed order: exact
// paths, then name globs, then extensions.
func (m *Matcher) Match(relPath string, isDir bool) (Rule, bool) {
	name := filepath.Base(relPath)

	for _, p := range m.rules.Paths {
		if relPath == p || name == p || strings.HasSuffix(relPath, "/"+p) {
			return RulePath, true
		}
	}

	if isDir {
		for _, pattern := range m.rules.FolderPatterns {
			if matchGlob(pattern, name) {
				return RuleFolderPattern, true
			}
		}
		return "", false
	}

	for _, pattern := range m.rules.FilePatterns {
		if matchGlob(pattern, name) {
			return RuleFilePattern, true
		}
	}

	lower := strings.ToLower(name)
	for _, ext := range m.rules.Extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return RuleExtension, true
		}
	}

	return "", false
}

// matchGlob matches a base name against a doublestar glob pattern.
// Invalid patterns never match.
func matchGlob(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}
