package resolve

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

const gitignoreFileName = ".gitignore"

// scopedMatcher pairs an ignore matcher with the directory whose .gitignore
// produced it. The matcher only applies to paths under that directory.
type scopedMatcher struct {
	baseDirectory string
	matcher       gitignore.IgnoreMatcher
}

// ignoreStack evaluates layered .gitignore files. Each directory entered
// during the walk contributes its .gitignore, if present, and a path is
// ignored when any matcher whose base directory contains the path matches
// it. Matchers are never popped; the base-directory check scopes them, so a
// nested .gitignore never affects siblings of its own directory.
type ignoreStack struct {
	enabled  bool
	matchers []scopedMatcher
}

func newIgnoreStack(enabled bool) *ignoreStack {
	return &ignoreStack{enabled: enabled}
}

// enter registers the .gitignore of the given directory when one exists.
func (stack *ignoreStack) enter(directoryPath string) {
	if !stack.enabled {
		return
	}
	gitignorePath := filepath.Join(directoryPath, gitignoreFileName)
	if _, statError := os.Stat(gitignorePath); statError != nil {
		return
	}
	matcher, parseError := gitignore.NewGitIgnore(gitignorePath)
	if parseError != nil {
		return
	}
	stack.matchers = append(stack.matchers, scopedMatcher{
		baseDirectory: directoryPath,
		matcher:       matcher,
	})
}

// matches reports whether any registered matcher whose subtree contains the
// absolute path ignores it.
func (stack *ignoreStack) matches(absolutePath string, isDirectory bool) bool {
	if !stack.enabled {
		return false
	}
	for _, scoped := range stack.matchers {
		if !isWithinDirectory(absolutePath, scoped.baseDirectory) {
			continue
		}
		if scoped.matcher.Match(absolutePath, isDirectory) {
			return true
		}
	}
	return false
}

// isWithinDirectory reports whether path sits strictly below directory.
func isWithinDirectory(path string, directory string) bool {
	return strings.HasPrefix(path, directory+string(os.PathSeparator))
}
