// Package nullsink provides the debug sink used when captures are off.
package nullsink

import (
	"image"

	"github.com/user/phonecam/pkg/ports"
)

// Sink discards every capture.
type Sink struct{}

func New() *Sink {
	return &Sink{}
}

// Enabled is always false, so callers skip capture work entirely.
func (s *Sink) Enabled() bool { return false }

func (s *Sink) SavePayload(int, []byte) error { return nil }

func (s *Sink) SaveFrame(int, image.Image) error { return nil }

var _ ports.DebugSink = (*Sink)(nil)
