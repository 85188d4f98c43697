// Package resolve walks root paths and produces the deduplicated,
// deterministically ordered candidate list the extraction stage consumes.
package resolve

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/promptpack/promptpack/internal/types"
)

// Config is the immutable filter configuration applied during traversal.
type Config struct {
	// MaxDepth bounds traversal depth below each root; zero means unlimited.
	// Files directly inside a root sit at depth one.
	MaxDepth int
	// UseGitignore applies version-control ignore rules during the primary walk.
	UseGitignore bool
	// OverridePatterns re-include files that the primary walk rejected.
	OverridePatterns []string
	// IncludeExtensions and ExcludeExtensions hold normalized extension tokens
	// without leading dots. An empty include set admits every extension.
	IncludeExtensions []string
	// ExcludeExtensions rejects matching extensions before the include set is
	// consulted.
	ExcludeExtensions []string
	// AutoExclude drops well-known build and VCS artifact names.
	AutoExclude bool
}

// ValidatePatterns checks override glob syntax up front. Invalid syntax is a
// configuration error that aborts the run.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, matchError := filepath.Match(pattern, "probe"); matchError != nil {
			return fmt.Errorf("invalid override pattern %q: %w", pattern, matchError)
		}
	}
	return nil
}

// Resolve traverses every root and returns the sorted, deduplicated candidate
// sequence. Unreadable entries are logged as warnings and skipped; they never
// abort the walk.
func Resolve(roots []types.ValidatedPath, configuration Config, logger *zap.Logger) ([]types.Candidate, error) {
	if patternError := ValidatePatterns(configuration.OverridePatterns); patternError != nil {
		return nil, patternError
	}

	candidatesByAbsolutePath := make(map[string]types.Candidate)

	for _, root := range roots {
		primaryWalk(root, configuration, candidatesByAbsolutePath, logger)
	}
	if len(configuration.OverridePatterns) > 0 {
		for _, root := range roots {
			overrideWalk(root, configuration, candidatesByAbsolutePath, logger)
		}
	}

	candidates := make([]types.Candidate, 0, len(candidatesByAbsolutePath))
	for _, candidate := range candidatesByAbsolutePath {
		candidates = append(candidates, candidate)
	}
	// The sort is the sole source of output determinism; traversal order
	// itself is not trusted.
	sort.Slice(candidates, func(firstIndex, secondIndex int) bool {
		if candidates[firstIndex].DisplayPath != candidates[secondIndex].DisplayPath {
			return candidates[firstIndex].DisplayPath < candidates[secondIndex].DisplayPath
		}
		return candidates[firstIndex].AbsolutePath < candidates[secondIndex].AbsolutePath
	})
	return candidates, nil
}

// primaryWalk traverses one root applying ignore rules, extension sets, and
// the auto-exclude table.
func primaryWalk(root types.ValidatedPath, configuration Config, accumulator map[string]types.Candidate, logger *zap.Logger) {
	if !root.IsDir {
		if passesExtensionFilter(filepath.Base(root.AbsolutePath), configuration) &&
			!(configuration.AutoExclude && isAutoExcludedName(filepath.Base(root.AbsolutePath))) {
			accumulator[root.AbsolutePath] = types.Candidate{
				AbsolutePath: root.AbsolutePath,
				DisplayPath:  displayPath(root, ""),
				Reason:       types.AdmissionFilter,
			}
		}
		return
	}

	matchers := newIgnoreStack(configuration.UseGitignore)
	matchers.enter(root.AbsolutePath)

	walkError := filepath.WalkDir(root.AbsolutePath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("could not process entry", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == root.AbsolutePath {
			return nil
		}

		relativePath, relativeError := filepath.Rel(root.AbsolutePath, walkedPath)
		if relativeError != nil {
			logger.Warn("could not relativize entry", zap.String("path", walkedPath), zap.Error(relativeError))
			return nil
		}
		entryDepth := strings.Count(filepath.ToSlash(relativePath), "/") + 1

		if directoryEntry.IsDir() {
			if configuration.AutoExclude && isAutoExcludedName(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			if matchers.matches(walkedPath, true) {
				return filepath.SkipDir
			}
			if configuration.MaxDepth > 0 && entryDepth >= configuration.MaxDepth {
				return filepath.SkipDir
			}
			matchers.enter(walkedPath)
			return nil
		}

		if configuration.MaxDepth > 0 && entryDepth > configuration.MaxDepth {
			return nil
		}
		if configuration.AutoExclude && isAutoExcludedName(directoryEntry.Name()) {
			return nil
		}
		if matchers.matches(walkedPath, false) {
			return nil
		}
		if !passesExtensionFilter(directoryEntry.Name(), configuration) {
			return nil
		}

		accumulator[walkedPath] = types.Candidate{
			AbsolutePath: walkedPath,
			DisplayPath:  displayPath(root, relativePath),
			Reason:       types.AdmissionFilter,
		}
		return nil
	})
	if walkError != nil {
		logger.Warn("walk aborted", zap.String("root", root.AbsolutePath), zap.Error(walkError))
	}
}

// overrideWalk re-traverses a root with ignore rules disabled and rescues
// files matching any override pattern. Files already admitted by the primary
// walk keep their original admission reason.
func overrideWalk(root types.ValidatedPath, configuration Config, accumulator map[string]types.Candidate, logger *zap.Logger) {
	if !root.IsDir {
		if _, alreadyAdmitted := accumulator[root.AbsolutePath]; alreadyAdmitted {
			return
		}
		if matchesOverride(displayPath(root, ""), filepath.Base(root.AbsolutePath), configuration.OverridePatterns) {
			accumulator[root.AbsolutePath] = types.Candidate{
				AbsolutePath: root.AbsolutePath,
				DisplayPath:  displayPath(root, ""),
				Reason:       types.AdmissionOverride,
			}
		}
		return
	}

	walkError := filepath.WalkDir(root.AbsolutePath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("could not process entry", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == root.AbsolutePath {
			return nil
		}

		relativePath, relativeError := filepath.Rel(root.AbsolutePath, walkedPath)
		if relativeError != nil {
			return nil
		}
		entryDepth := strings.Count(filepath.ToSlash(relativePath), "/") + 1

		if directoryEntry.IsDir() {
			if configuration.MaxDepth > 0 && entryDepth >= configuration.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if configuration.MaxDepth > 0 && entryDepth > configuration.MaxDepth {
			return nil
		}
		if _, alreadyAdmitted := accumulator[walkedPath]; alreadyAdmitted {
			return nil
		}
		if matchesOverride(displayPath(root, relativePath), directoryEntry.Name(), configuration.OverridePatterns) {
			accumulator[walkedPath] = types.Candidate{
				AbsolutePath: walkedPath,
				DisplayPath:  displayPath(root, relativePath),
				Reason:       types.AdmissionOverride,
			}
		}
		return nil
	})
	if walkError != nil {
		logger.Warn("walk aborted", zap.String("root", root.AbsolutePath), zap.Error(walkError))
	}
}

// passesExtensionFilter applies the include and exclude extension sets to a
// file name. Files without an extension are admitted only when the include
// set is empty.
func passesExtensionFilter(fileName string, configuration Config) bool {
	extensionToken := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if extensionToken == "" {
		return len(configuration.IncludeExtensions) == 0
	}
	for _, excludedExtension := range configuration.ExcludeExtensions {
		if extensionToken == excludedExtension {
			return false
		}
	}
	if len(configuration.IncludeExtensions) == 0 {
		return true
	}
	for _, includedExtension := range configuration.IncludeExtensions {
		if extensionToken == includedExtension {
			return true
		}
	}
	return false
}

// displayPath renders a root-relative, slash-separated path used for ordering
// and rendering. A file root displays as the path it was supplied with.
func displayPath(root types.ValidatedPath, relativePath string) string {
	if relativePath == "" {
		return filepath.ToSlash(root.DisplayPath)
	}
	return filepath.ToSlash(filepath.Join(root.DisplayPath, relativePath))
}
