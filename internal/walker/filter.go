package walker

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SkippedDirs are directory names Walk never descends into, compared
// case-insensitively.
var SkippedDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".pagenav",
	"dist",
	"build",
	".idea",
	".vscode",
}

func skipDir(name string) bool {
	for _, s := range SkippedDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// InExcludedDir reports whether any directory of relPath is one Walk
// would skip.
func InExcludedDir(relPath string) bool {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." {
		return false
	}
	for _, name := range strings.Split(dir, "/") {
		if skipDir(name) {
			return true
		}
	}
	return false
}

// ValidatePatterns returns an error naming the first malformed glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// matchAny reports whether relPath, or its base name alone, matches one
// of patterns. Matching the base name lets "_*.md" exclude partials in
// every directory.
func matchAny(relPath string, patterns []string) bool {
	rel := filepath.ToSlash(relPath)
	base := path.Base(rel)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}
