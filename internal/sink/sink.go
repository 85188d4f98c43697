// Package sink delivers rendered artifacts to the system clipboard or to
// disk.
package sink

import "github.com/promptpack/promptpack/internal/types"

// Sink delivers one rendered artifact to its destination. Delivery failures
// are run-fatal: no partial output is left behind by a failed clipboard
// write, and disk errors surface to the caller.
type Sink interface {
	Deliver(artifact types.RenderedArtifact) error
}
