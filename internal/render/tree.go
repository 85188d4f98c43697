package render

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptpack/promptpack/internal/resolve"
	"github.com/promptpack/promptpack/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// defaultTreeDepth bounds the structure section when no explicit depth is
	// configured.
	defaultTreeDepth = 4
)

// RenderTree produces a textual tree of each root's contents up to the
// bounded depth, skipping auto-excluded entries. Unreadable directories are
// simply omitted; the structure section is advisory.
func RenderTree(roots []types.ValidatedPath, maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = defaultTreeDepth
	}

	var builder strings.Builder
	for _, root := range roots {
		builder.WriteString(filepath.ToSlash(root.DisplayPath))
		if root.IsDir {
			builder.WriteString("/")
		}
		builder.WriteString("\n")
		if root.IsDir {
			renderTreeLevel(&builder, root.AbsolutePath, "", 1, maxDepth)
		}
	}
	return builder.String()
}

func renderTreeLevel(builder *strings.Builder, directoryPath string, prefix string, depth int, maxDepth int) {
	if depth > maxDepth {
		return
	}
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return
	}

	visible := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if resolve.IsAutoExcludedEntry(entry.Name()) {
			continue
		}
		visible = append(visible, entry)
	}
	sort.Slice(visible, func(firstIndex, secondIndex int) bool {
		return visible[firstIndex].Name() < visible[secondIndex].Name()
	})

	for entryIndex, entry := range visible {
		isLast := entryIndex == len(visible)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLast {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(entry.Name())
		if entry.IsDir() {
			builder.WriteString("/")
		}
		builder.WriteString("\n")
		if entry.IsDir() {
			renderTreeLevel(builder, filepath.Join(directoryPath, entry.Name()), childPrefix, depth+1, maxDepth)
		}
	}
}
