// Package load reads single files, classifies binary content, and normalizes
// text for downstream rendering.
package load

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/promptpack/promptpack/internal/token"
	"github.com/promptpack/promptpack/internal/types"
)

// SkipReason identifies why a file was excluded without failing the run.
type SkipReason string

const (
	ReasonBinary   SkipReason = "binary"
	ReasonEncoding SkipReason = "encoding"
	ReasonEmpty    SkipReason = "empty"
)

// SkipError reports a recoverable per-file exclusion. Binary and empty skips
// are expected conditions; encoding skips are surfaced to the user.
type SkipError struct {
	Path   string
	Reason SkipReason
}

func (skip *SkipError) Error() string {
	return fmt.Sprintf("skipped %s: %s", skip.Path, skip.Reason)
}

// Options controls per-file loading behavior.
type Options struct {
	ExcludeEmpty bool
}

// LoadFile reads the candidate's content and returns a normalized LoadedFile,
// or a *SkipError when the file is binary, undecodable, or empty. Loading is
// read-only and shares no state, so callers may invoke it concurrently.
func LoadFile(candidate types.Candidate, options Options) (types.LoadedFile, error) {
	rawBytes, readError := os.ReadFile(candidate.AbsolutePath)
	if readError != nil {
		return types.LoadedFile{}, fmt.Errorf("read %s: %w", candidate.DisplayPath, readError)
	}

	sampleIsBinary := IsBinarySample(rawBytes)
	if sampleIsBinary {
		return types.LoadedFile{}, &SkipError{Path: candidate.DisplayPath, Reason: ReasonBinary}
	}
	if !utf8.Valid(rawBytes) {
		return types.LoadedFile{}, &SkipError{Path: candidate.DisplayPath, Reason: ReasonEncoding}
	}

	normalizedContent := Normalize(string(rawBytes))
	if options.ExcludeEmpty && strings.TrimSpace(normalizedContent) == "" {
		return types.LoadedFile{}, &SkipError{Path: candidate.DisplayPath, Reason: ReasonEmpty}
	}

	return types.LoadedFile{
		Path:         candidate.DisplayPath,
		AbsolutePath: candidate.AbsolutePath,
		Content:      normalizedContent,
		SizeBytes:    int64(len(normalizedContent)),
		Tokens:       token.Estimate(normalizedContent),
	}, nil
}

// Normalize strips a leading UTF-8 byte-order marker and converts CRLF line
// endings to LF. Normalizing already-normalized content is a no-op.
func Normalize(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")
	return strings.ReplaceAll(content, "\r\n", "\n")
}
