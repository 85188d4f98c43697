package resolve

import (
	"path/filepath"
	"strings"
)

// Auto-excluded entries are matched purely by name, never by content.
// Directory names cover common build output, dependency caches, and VCS
// metadata; file names cover lockfiles, desktop litter, and local secrets
// files; suffixes cover compiled and minified artifacts.
var autoExcludedDirectoryNames = map[string]struct{}{
	".git":          {},
	".hg":           {},
	".svn":          {},
	".idea":         {},
	".vscode":       {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"node_modules":  {},
	"dist":          {},
	"build":         {},
	"target":        {},
	".venv":         {},
	".tox":          {},
	"coverage":      {},
}

var autoExcludedFileNames = map[string]struct{}{
	".env":              {},
	".DS_Store":         {},
	"Thumbs.db":         {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"Cargo.lock":        {},
	"poetry.lock":       {},
	"go.sum":            {},
}

var autoExcludedSuffixes = []string{
	".pyc",
	".pyo",
	".o",
	".a",
	".obj",
	".so",
	".dylib",
	".dll",
	".exe",
	".class",
	".jar",
	".min.js",
	".min.css",
	".map",
}

// isAutoExcludedName reports whether a directory or file name belongs to the
// built-in artifact tables.
func isAutoExcludedName(entryName string) bool {
	if _, excludedDirectory := autoExcludedDirectoryNames[entryName]; excludedDirectory {
		return true
	}
	if _, excludedFile := autoExcludedFileNames[entryName]; excludedFile {
		return true
	}
	lowerName := strings.ToLower(entryName)
	for _, excludedSuffix := range autoExcludedSuffixes {
		if strings.HasSuffix(lowerName, excludedSuffix) {
			return true
		}
	}
	return false
}

// IsAutoExcludedEntry exposes name-based auto-exclusion for other stages,
// such as the directory-structure section of the renderer.
func IsAutoExcludedEntry(path string) bool {
	return isAutoExcludedName(filepath.Base(path))
}
