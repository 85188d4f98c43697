// Package render turns the admitted file set into one of the supported
// output layouts, optionally prefixed with structural and dependency
// sections.
package render

import (
	"fmt"

	"github.com/promptpack/promptpack/internal/token"
	"github.com/promptpack/promptpack/internal/types"
)

// Options holds the rendering configuration derived from the filter and CLI
// layers.
type Options struct {
	Layout           string
	IncludeTree      bool
	TreeDepth        int
	IncludeManifests bool
	GroupByCategory  bool
	Compress         bool
	// Counter, when set, replaces heuristic token estimates with exact counts
	// in structured output and document totals.
	Counter   token.Counter
	ModelName string
}

// fileEntry is the layout-agnostic intermediate record every serializer
// consumes. The admitted files are traversed exactly once to produce these
// records; layouts differ only in how they serialize them.
type fileEntry struct {
	Path     string
	Content  string
	Tokens   int
	Bytes    int64
	Language string
	Category string
}

// document is the assembled layout-agnostic form of one artifact.
type document struct {
	Roots       []types.ValidatedPath
	Tree        string
	Manifests   []ManifestSection
	Entries     []fileEntry
	Groups      []categoryGroup
	TotalBytes  int64
	TotalTokens int
}

// Render produces the final artifact for the admitted files in the selected
// layout.
func Render(roots []types.ValidatedPath, files []types.LoadedFile, options Options) (types.RenderedArtifact, error) {
	assembled := buildDocument(roots, files, options)

	var renderedText string
	var renderError error
	switch options.Layout {
	case types.FormatPlain:
		renderedText = renderPlain(assembled, options)
	case types.FormatMarkdown:
		renderedText = renderMarkdown(assembled, options)
	case types.FormatJSON:
		renderedText, renderError = renderJSON(assembled, options)
	default:
		return types.RenderedArtifact{}, fmt.Errorf("unsupported layout %q", options.Layout)
	}
	if renderError != nil {
		return types.RenderedArtifact{}, renderError
	}

	return types.RenderedArtifact{
		Text:        renderedText,
		TotalFiles:  len(files),
		TotalBytes:  int64(len(renderedText)),
		TotalTokens: token.Estimate(renderedText),
	}, nil
}

// buildDocument runs the single traversal over admitted files shared by all
// layouts, applying compression, grouping, and the optional preamble
// sections.
func buildDocument(roots []types.ValidatedPath, files []types.LoadedFile, options Options) document {
	assembled := document{Roots: roots}

	if options.IncludeTree {
		assembled.Tree = RenderTree(roots, options.TreeDepth)
	}
	if options.IncludeManifests {
		assembled.Manifests = CollectManifests(roots)
	}

	assembled.Entries = make([]fileEntry, 0, len(files))
	for _, file := range files {
		content := file.Content
		tokenCount := file.Tokens
		byteCount := file.SizeBytes
		if options.Compress {
			content = Compress(content)
			byteCount = int64(len(content))
			tokenCount = token.Estimate(content)
		}
		if options.Counter != nil {
			if exactCount, countError := options.Counter.CountString(content); countError == nil {
				tokenCount = exactCount
			}
		}
		assembled.Entries = append(assembled.Entries, fileEntry{
			Path:     file.Path,
			Content:  content,
			Tokens:   tokenCount,
			Bytes:    byteCount,
			Language: LanguageLabel(file.Path),
			Category: CategoryFor(file.Path),
		})
		assembled.TotalBytes += byteCount
		assembled.TotalTokens += tokenCount
	}

	if options.GroupByCategory {
		assembled.Groups = groupEntries(assembled.Entries)
	}
	return assembled
}
