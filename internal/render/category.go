package render

import (
	"path/filepath"
	"sort"
	"strings"
)

// Category names used when grouping files for rendering.
const (
	CategorySourceCode    = "source code"
	CategoryStylesheets   = "stylesheets"
	CategoryConfiguration = "configuration"
	CategoryDocumentation = "documentation"
	CategoryScripts       = "scripts"
	CategoryNoExtension   = "no extension"
	CategoryOther         = "other"
)

// categoriesByExtension buckets extensions into named rendering categories.
var categoriesByExtension = map[string]string{
	"go":    CategorySourceCode,
	"py":    CategorySourceCode,
	"js":    CategorySourceCode,
	"jsx":   CategorySourceCode,
	"ts":    CategorySourceCode,
	"tsx":   CategorySourceCode,
	"rs":    CategorySourceCode,
	"rb":    CategorySourceCode,
	"java":  CategorySourceCode,
	"kt":    CategorySourceCode,
	"swift": CategorySourceCode,
	"c":     CategorySourceCode,
	"h":     CategorySourceCode,
	"cpp":   CategorySourceCode,
	"cc":    CategorySourceCode,
	"hpp":   CategorySourceCode,
	"cs":    CategorySourceCode,
	"php":   CategorySourceCode,
	"sql":   CategorySourceCode,
	"proto": CategorySourceCode,
	"css":   CategoryStylesheets,
	"scss":  CategoryStylesheets,
	"sass":  CategoryStylesheets,
	"less":  CategoryStylesheets,
	"json":  CategoryConfiguration,
	"yaml":  CategoryConfiguration,
	"yml":   CategoryConfiguration,
	"toml":  CategoryConfiguration,
	"ini":   CategoryConfiguration,
	"cfg":   CategoryConfiguration,
	"conf":  CategoryConfiguration,
	"env":   CategoryConfiguration,
	"md":    CategoryDocumentation,
	"rst":   CategoryDocumentation,
	"txt":   CategoryDocumentation,
	"adoc":  CategoryDocumentation,
	"sh":    CategoryScripts,
	"bash":  CategoryScripts,
	"zsh":   CategoryScripts,
	"fish":  CategoryScripts,
	"ps1":   CategoryScripts,
	"bat":   CategoryScripts,
	"cmd":   CategoryScripts,
}

// CategoryFor buckets a path into a named rendering category by extension.
func CategoryFor(path string) string {
	extensionToken := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(path)), "."))
	if extensionToken == "" {
		return CategoryNoExtension
	}
	if category, known := categoriesByExtension[extensionToken]; known {
		return category
	}
	return CategoryOther
}

// categoryGroup is one named bucket of entries rendered as its own section.
type categoryGroup struct {
	Name    string
	Entries []fileEntry
}

// groupEntries buckets entries by category. Sections sort by category name,
// then by descending file count; entries within a section keep their path
// order.
func groupEntries(entries []fileEntry) []categoryGroup {
	groupsByName := make(map[string]*categoryGroup)
	for _, entry := range entries {
		group, exists := groupsByName[entry.Category]
		if !exists {
			group = &categoryGroup{Name: entry.Category}
			groupsByName[entry.Category] = group
		}
		group.Entries = append(group.Entries, entry)
	}

	groups := make([]categoryGroup, 0, len(groupsByName))
	for _, group := range groupsByName {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(firstIndex, secondIndex int) bool {
		if groups[firstIndex].Name != groups[secondIndex].Name {
			return groups[firstIndex].Name < groups[secondIndex].Name
		}
		return len(groups[firstIndex].Entries) > len(groups[secondIndex].Entries)
	})
	return groups
}
