package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptpack/promptpack/internal/extract"
	"github.com/promptpack/promptpack/internal/load"
	"github.com/promptpack/promptpack/internal/types"
	"github.com/promptpack/promptpack/internal/utils"
)

const (
	summaryHeaderLine        = "Summary:"
	summaryFilesTemplate     = "  files: %d admitted of %d processed\n"
	summarySizeTemplate      = "  size: %s, ~%d tokens\n"
	summaryRejectedTemplate  = "  rejected by budget: %d\n"
	summarySkippedTemplate   = "  skipped: %s\n"
	summaryExtensionTemplate = "    %s: %d\n"
	summaryByExtensionLine   = "  by extension:"
	summaryNoExtensionLabel  = "(none)"
)

var skipReasonLabels = map[load.SkipReason]string{
	load.ReasonBinary:   "binary",
	load.ReasonEncoding: "non-UTF8",
	load.ReasonEmpty:    "empty",
}

// buildRunSummary aggregates the extraction result into the reportable form.
func buildRunSummary(result extract.Result) types.RunSummary {
	summary := types.RunSummary{
		FilesProcessed: result.FilesProcessed,
		FilesAdmitted:  len(result.Files),
		TotalBytes:     result.TotalBytes,
		TotalTokens:    result.TotalTokens,
		ByExtension:    make(map[string]int),
	}
	for _, admittedFile := range result.Files {
		extensionName := strings.ToLower(strings.TrimPrefix(filepath.Ext(admittedFile.Path), "."))
		if extensionName == "" {
			extensionName = summaryNoExtensionLabel
		}
		summary.ByExtension[extensionName]++
	}
	return summary
}

// printRunSummary writes a human-readable account of the run to the writer.
func printRunSummary(writer io.Writer, result extract.Result) {
	summary := buildRunSummary(result)

	fmt.Fprintln(writer, summaryHeaderLine)
	fmt.Fprintf(writer, summaryFilesTemplate, summary.FilesAdmitted, summary.FilesProcessed)
	fmt.Fprintf(writer, summarySizeTemplate, utils.FormatByteSize(summary.TotalBytes), summary.TotalTokens)
	if result.BudgetRejected > 0 {
		fmt.Fprintf(writer, summaryRejectedTemplate, result.BudgetRejected)
	}
	if skipLine := formatSkipCounts(result.SkipCounts); skipLine != "" {
		fmt.Fprintf(writer, summarySkippedTemplate, skipLine)
	}

	if len(summary.ByExtension) == 0 {
		return
	}
	fmt.Fprintln(writer, summaryByExtensionLine)
	extensionNames := make([]string, 0, len(summary.ByExtension))
	for extensionName := range summary.ByExtension {
		extensionNames = append(extensionNames, extensionName)
	}
	sort.Strings(extensionNames)
	for _, extensionName := range extensionNames {
		fmt.Fprintf(writer, summaryExtensionTemplate, extensionName, summary.ByExtension[extensionName])
	}
}

// formatSkipCounts renders non-zero skip tallies in a stable order.
func formatSkipCounts(skipCounts map[load.SkipReason]int) string {
	orderedReasons := []load.SkipReason{load.ReasonBinary, load.ReasonEncoding, load.ReasonEmpty}
	var parts []string
	for _, reason := range orderedReasons {
		if count := skipCounts[reason]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, skipReasonLabels[reason]))
		}
	}
	return strings.Join(parts, ", ")
}
