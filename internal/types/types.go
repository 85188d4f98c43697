// Package types defines every cross-package data structure used by the promptpack CLI.
package types

const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// AdmissionReason records how a candidate entered the candidate set.
type AdmissionReason string

const (
	// AdmissionFilter marks a candidate accepted by the normal inclusion rules.
	AdmissionFilter AdmissionReason = "filter"
	// AdmissionOverride marks a candidate rescued by a force-include pattern.
	AdmissionOverride AdmissionReason = "override"
)

// ValidatedPath is an input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	DisplayPath  string
	IsDir        bool
}

// Candidate is a file path that survived traversal and filtering and is
// eligible for loading. Candidates are unique by absolute path.
type Candidate struct {
	AbsolutePath string
	DisplayPath  string
	Reason       AdmissionReason
}

// LoadedFile holds the normalized UTF-8 content of a single file together
// with its derived byte length and estimated token count. Content is
// immutable once loaded.
type LoadedFile struct {
	Path         string
	AbsolutePath string
	Content      string
	SizeBytes    int64
	Tokens       int
}

// RenderedArtifact is the final rendered document plus its derived totals.
type RenderedArtifact struct {
	Text        string
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
}

// RunSummary captures aggregate information reported on the diagnostic
// stream after a run completes. It is never mixed into the artifact itself.
type RunSummary struct {
	FilesProcessed int
	FilesAdmitted  int
	TotalBytes     int64
	TotalTokens    int
	ByExtension    map[string]int
}
