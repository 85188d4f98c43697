package render

import (
	"fmt"
	"strings"
)

const (
	plainTreeHeader     = "Directory structure:"
	plainManifestHeader = "Declared dependencies:"
)

// renderPlain serializes the document as plain text: a `--- <path> ---`
// header followed by the raw content of each file.
func renderPlain(assembled document, options Options) string {
	var builder strings.Builder

	writePlainPreamble(&builder, assembled)

	if options.GroupByCategory {
		for _, group := range assembled.Groups {
			fmt.Fprintf(&builder, "=== %s (%d %s) ===\n\n", group.Name, len(group.Entries), pluralFiles(len(group.Entries)))
			for _, entry := range group.Entries {
				writePlainEntry(&builder, entry)
			}
		}
		return builder.String()
	}

	for _, entry := range assembled.Entries {
		writePlainEntry(&builder, entry)
	}
	return builder.String()
}

func writePlainEntry(builder *strings.Builder, entry fileEntry) {
	fmt.Fprintf(builder, "--- %s ---\n", entry.Path)
	builder.WriteString(entry.Content)
	builder.WriteString("\n\n")
}

func writePlainPreamble(builder *strings.Builder, assembled document) {
	if assembled.Tree != "" {
		builder.WriteString(plainTreeHeader + "\n")
		builder.WriteString(assembled.Tree)
		builder.WriteString("\n")
	}
	if len(assembled.Manifests) > 0 {
		builder.WriteString(plainManifestHeader + "\n")
		for _, manifest := range assembled.Manifests {
			fmt.Fprintf(builder, "%s:\n", manifest.Source)
			for _, dependency := range manifest.Dependencies {
				if dependency.Version != "" {
					fmt.Fprintf(builder, "  %s %s\n", dependency.Name, dependency.Version)
				} else {
					fmt.Fprintf(builder, "  %s\n", dependency.Name)
				}
			}
		}
		builder.WriteString("\n")
	}
}

func pluralFiles(count int) string {
	if count == 1 {
		return "file"
	}
	return "files"
}
