package render

import (
	"fmt"
	"strings"
)

// renderMarkdown serializes the document as structured markup: a heading per
// file followed by a fenced block tagged with the inferred language label.
func renderMarkdown(assembled document, options Options) string {
	var builder strings.Builder

	if assembled.Tree != "" {
		builder.WriteString("## Directory structure\n\n```\n")
		builder.WriteString(assembled.Tree)
		builder.WriteString("```\n\n")
	}
	if len(assembled.Manifests) > 0 {
		builder.WriteString("## Declared dependencies\n\n")
		for _, manifest := range assembled.Manifests {
			fmt.Fprintf(&builder, "### %s\n\n", manifest.Source)
			for _, dependency := range manifest.Dependencies {
				if dependency.Version != "" {
					fmt.Fprintf(&builder, "- %s %s\n", dependency.Name, dependency.Version)
				} else {
					fmt.Fprintf(&builder, "- %s\n", dependency.Name)
				}
			}
			builder.WriteString("\n")
		}
	}

	if options.GroupByCategory {
		for _, group := range assembled.Groups {
			fmt.Fprintf(&builder, "## %s (%d %s)\n\n", group.Name, len(group.Entries), pluralFiles(len(group.Entries)))
			for _, entry := range group.Entries {
				writeMarkdownEntry(&builder, entry, "###")
			}
		}
		return builder.String()
	}

	for _, entry := range assembled.Entries {
		writeMarkdownEntry(&builder, entry, "##")
	}
	return builder.String()
}

func writeMarkdownEntry(builder *strings.Builder, entry fileEntry, headingMarker string) {
	fmt.Fprintf(builder, "%s %s\n\n", headingMarker, entry.Path)
	fence := fenceFor(entry.Content)
	builder.WriteString(fence)
	builder.WriteString(entry.Language)
	builder.WriteString("\n")
	builder.WriteString(entry.Content)
	if !strings.HasSuffix(entry.Content, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(fence)
	builder.WriteString("\n\n")
}

// fenceFor widens the fence when the content itself contains triple
// backticks, keeping the block well-formed.
func fenceFor(content string) string {
	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	return fence
}
