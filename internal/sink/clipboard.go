package sink

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/promptpack/promptpack/internal/types"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// ClipboardService implements Copier using github.com/atotto/clipboard.
type ClipboardService struct{}

// Copy writes text to the system clipboard in a single atomic write.
func (service ClipboardService) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = ClipboardService{}

// ClipboardSink delivers the artifact to the host clipboard.
type ClipboardSink struct {
	copier Copier
}

// NewClipboardSink constructs a clipboard sink. A nil copier selects the
// system clipboard service.
func NewClipboardSink(copier Copier) *ClipboardSink {
	if copier == nil {
		copier = ClipboardService{}
	}
	return &ClipboardSink{copier: copier}
}

// Deliver copies the artifact text to the clipboard. Failure is run-fatal,
// which covers headless hosts without clipboard access.
func (clipboardSink *ClipboardSink) Deliver(artifact types.RenderedArtifact) error {
	if copyError := clipboardSink.copier.Copy(artifact.Text); copyError != nil {
		return fmt.Errorf("copy to clipboard: %w", copyError)
	}
	return nil
}

var _ Sink = (*ClipboardSink)(nil)
