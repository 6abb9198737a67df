package ports

import (
	"image"
)

// DebugSink captures what the bridge received and what it sent to the
// camera. seq is the 1-based payload sequence number within the run.
type DebugSink interface {
	// Enabled reports whether captures are kept. Callers skip work for
	// disabled sinks.
	Enabled() bool

	// SavePayload stores an encoded payload as received.
	SavePayload(seq int, data []byte) error

	// SaveFrame stores the letterboxed, mirrored frame.
	SaveFrame(seq int, img image.Image) error
}
