package sink_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/promptpack/promptpack/internal/sink"
	"github.com/promptpack/promptpack/internal/types"
)

func TestNewFileSinkConfigurationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		path         string
		appendOutput bool
		chunkSize    int64
		expectError  bool
	}{
		{name: "empty_path", path: "", expectError: true},
		{name: "negative_chunk_size", path: "out.txt", chunkSize: -1, expectError: true},
		{name: "chunk_with_append", path: "out.txt", appendOutput: true, chunkSize: 10, expectError: true},
		{name: "plain_write", path: "out.txt", expectError: false},
		{name: "append_only", path: "out.txt", appendOutput: true, expectError: false},
		{name: "chunk_only", path: "out.txt", chunkSize: 10, expectError: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, sinkError := sink.NewFileSink(testCase.path, testCase.appendOutput, testCase.chunkSize)
			if (sinkError != nil) != testCase.expectError {
				t.Fatalf("expectError=%v, got %v", testCase.expectError, sinkError)
			}
		})
	}
}

func TestFileSinkOverwrites(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "artifact.txt")
	if writeError := os.WriteFile(outputPath, []byte("previous run\n"), 0o644); writeError != nil {
		t.Fatalf("seed file: %v", writeError)
	}

	fileSink, sinkError := sink.NewFileSink(outputPath, false, 0)
	if sinkError != nil {
		t.Fatalf("new sink: %v", sinkError)
	}
	if deliverError := fileSink.Deliver(types.RenderedArtifact{Text: "fresh run\n"}); deliverError != nil {
		t.Fatalf("deliver: %v", deliverError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read back: %v", readError)
	}
	if string(written) != "fresh run\n" {
		t.Fatalf("expected overwrite, got %q", written)
	}
}

func TestFileSinkAppends(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "artifact.txt")
	fileSink, sinkError := sink.NewFileSink(outputPath, true, 0)
	if sinkError != nil {
		t.Fatalf("new sink: %v", sinkError)
	}

	if deliverError := fileSink.Deliver(types.RenderedArtifact{Text: "first\n"}); deliverError != nil {
		t.Fatalf("first deliver: %v", deliverError)
	}
	if deliverError := fileSink.Deliver(types.RenderedArtifact{Text: "second\n"}); deliverError != nil {
		t.Fatalf("second deliver: %v", deliverError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read back: %v", readError)
	}
	if string(written) != "first\nsecond\n" {
		t.Fatalf("expected appended content, got %q", written)
	}
}

func TestFileSinkChunkingRoundTrip(t *testing.T) {
	t.Parallel()

	outputDirectory := t.TempDir()
	outputPath := filepath.Join(outputDirectory, "artifact.md")

	artifactText := strings.Repeat("0123456789", 7)
	fileSink, sinkError := sink.NewFileSink(outputPath, false, 25)
	if sinkError != nil {
		t.Fatalf("new sink: %v", sinkError)
	}
	if deliverError := fileSink.Deliver(types.RenderedArtifact{Text: artifactText}); deliverError != nil {
		t.Fatalf("deliver: %v", deliverError)
	}

	if _, statError := os.Stat(outputPath); !os.IsNotExist(statError) {
		t.Fatalf("unchunked output file must not exist, stat error: %v", statError)
	}

	var reassembled strings.Builder
	for chunkNumber := 1; ; chunkNumber++ {
		chunkPath := filepath.Join(outputDirectory, fmt.Sprintf("artifact.%03d.md", chunkNumber))
		chunkBytes, readError := os.ReadFile(chunkPath)
		if readError != nil {
			if chunkNumber == 1 {
				t.Fatalf("first chunk missing: %v", readError)
			}
			break
		}
		if int64(len(chunkBytes)) > 25 {
			t.Fatalf("chunk %d exceeds configured size: %d bytes", chunkNumber, len(chunkBytes))
		}
		reassembled.Write(chunkBytes)
	}

	if reassembled.String() != artifactText {
		t.Fatalf("chunk concatenation does not reproduce the artifact:\n%q", reassembled.String())
	}
}

func TestFileSinkSmallArtifactSkipsChunking(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "artifact.txt")
	fileSink, sinkError := sink.NewFileSink(outputPath, false, 1024)
	if sinkError != nil {
		t.Fatalf("new sink: %v", sinkError)
	}
	if deliverError := fileSink.Deliver(types.RenderedArtifact{Text: "small\n"}); deliverError != nil {
		t.Fatalf("deliver: %v", deliverError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("artifact under the chunk size must land in the plain file: %v", readError)
	}
	if string(written) != "small\n" {
		t.Fatalf("unexpected content %q", written)
	}
}

func TestFileSinkPathIsAbsolute(t *testing.T) {
	t.Parallel()

	fileSink, sinkError := sink.NewFileSink("relative/artifact.txt", false, 0)
	if sinkError != nil {
		t.Fatalf("new sink: %v", sinkError)
	}
	absolutePath, pathError := fileSink.Path()
	if pathError != nil {
		t.Fatalf("path: %v", pathError)
	}
	if !filepath.IsAbs(absolutePath) {
		t.Fatalf("expected absolute path, got %q", absolutePath)
	}
}

// recordingCopier captures clipboard writes for assertions.
type recordingCopier struct {
	copied []string
	fail   error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.fail != nil {
		return copier.fail
	}
	copier.copied = append(copier.copied, text)
	return nil
}

func TestClipboardSinkDelivers(t *testing.T) {
	t.Parallel()

	copier := &recordingCopier{}
	clipboardSink := sink.NewClipboardSink(copier)
	if deliverError := clipboardSink.Deliver(types.RenderedArtifact{Text: "artifact text"}); deliverError != nil {
		t.Fatalf("deliver: %v", deliverError)
	}
	if len(copier.copied) != 1 || copier.copied[0] != "artifact text" {
		t.Fatalf("unexpected clipboard writes: %v", copier.copied)
	}
}

func TestClipboardSinkPropagatesFailure(t *testing.T) {
	t.Parallel()

	copier := &recordingCopier{fail: os.ErrPermission}
	clipboardSink := sink.NewClipboardSink(copier)
	if deliverError := clipboardSink.Deliver(types.RenderedArtifact{Text: "x"}); deliverError == nil {
		t.Fatal("expected delivery failure")
	}
}
