package resolve

import (
	"path/filepath"
	"strings"
)

// matchesOverride tests a file against every override pattern using three
// representations: the display path as produced by the walk, the bare file
// name, and the display path with separators normalized to forward slashes.
// A file is rescued when any representation matches any pattern. Pattern
// syntax was validated before the walk started, so match errors cannot occur
// here.
func matchesOverride(candidateDisplayPath string, fileName string, overridePatterns []string) bool {
	slashNormalizedPath := strings.ReplaceAll(candidateDisplayPath, "\\", "/")
	representations := []string{
		candidateDisplayPath,
		fileName,
		slashNormalizedPath,
	}
	for _, pattern := range overridePatterns {
		for _, representation := range representations {
			if matched, _ := filepath.Match(pattern, representation); matched {
				return true
			}
		}
	}
	return false
}
