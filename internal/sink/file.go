package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptpack/promptpack/internal/types"
)

const outputFileMode = 0o644

// FileSink delivers the artifact to disk, optionally appending or splitting
// the artifact into fixed-size chunks.
type FileSink struct {
	path         string
	appendOutput bool
	chunkSize    int64
}

// NewFileSink validates the destination configuration. A negative chunk size
// and the append/chunk combination are configuration errors.
func NewFileSink(path string, appendOutput bool, chunkSize int64) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path is empty")
	}
	if chunkSize < 0 {
		return nil, fmt.Errorf("invalid chunk size %d: must be positive", chunkSize)
	}
	if chunkSize > 0 && appendOutput {
		return nil, fmt.Errorf("chunked output cannot be combined with append mode")
	}
	return &FileSink{path: path, appendOutput: appendOutput, chunkSize: chunkSize}, nil
}

// Path returns the absolute destination path, used by the extraction stage to
// skip a candidate identical to the output destination.
func (fileSink *FileSink) Path() (string, error) {
	return filepath.Abs(fileSink.path)
}

// Deliver writes the artifact to disk. When a chunk size is configured and
// the artifact exceeds it, the artifact splits into chunks named with a
// zero-padded sequence suffix that preserves the original extension.
// Concatenating all chunks in sequence order reproduces the artifact
// byte-for-byte.
func (fileSink *FileSink) Deliver(artifact types.RenderedArtifact) error {
	artifactBytes := []byte(artifact.Text)

	if fileSink.chunkSize > 0 && int64(len(artifactBytes)) > fileSink.chunkSize {
		return fileSink.writeChunks(artifactBytes)
	}

	if fileSink.appendOutput {
		outputFile, openError := os.OpenFile(fileSink.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, outputFileMode)
		if openError != nil {
			return fmt.Errorf("open %s for append: %w", fileSink.path, openError)
		}
		defer outputFile.Close()
		if _, writeError := outputFile.Write(artifactBytes); writeError != nil {
			return fmt.Errorf("append to %s: %w", fileSink.path, writeError)
		}
		return nil
	}

	if writeError := os.WriteFile(fileSink.path, artifactBytes, outputFileMode); writeError != nil {
		return fmt.Errorf("write %s: %w", fileSink.path, writeError)
	}
	return nil
}

func (fileSink *FileSink) writeChunks(artifactBytes []byte) error {
	extension := filepath.Ext(fileSink.path)
	stem := strings.TrimSuffix(fileSink.path, extension)

	sequenceNumber := 1
	for offset := int64(0); offset < int64(len(artifactBytes)); offset += fileSink.chunkSize {
		end := offset + fileSink.chunkSize
		if end > int64(len(artifactBytes)) {
			end = int64(len(artifactBytes))
		}
		chunkPath := fmt.Sprintf("%s.%03d%s", stem, sequenceNumber, extension)
		if writeError := os.WriteFile(chunkPath, artifactBytes[offset:end], outputFileMode); writeError != nil {
			return fmt.Errorf("write chunk %s: %w", chunkPath, writeError)
		}
		sequenceNumber++
	}
	return nil
}

var _ Sink = (*FileSink)(nil)
