package mocks

import (
	"image"
	"sync"

	"github.com/user/phonecam/pkg/ports"
)

// DebugSink records captures by sequence number.
type DebugSink struct {
	mu      sync.Mutex
	enabled bool

	Payloads map[int][]byte
	Frames   map[int]image.Image

	// SaveErr, when set, is returned by both save methods after recording.
	SaveErr error
}

// NewDebugSink creates a DebugSink reporting enabled from Enabled.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Payloads: make(map[int][]byte),
		Frames:   make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool { return m.enabled }

func (m *DebugSink) SavePayload(seq int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payloads[seq] = data
	return m.SaveErr
}

func (m *DebugSink) SaveFrame(seq int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[seq] = img
	return m.SaveErr
}

var _ ports.DebugSink = (*DebugSink)(nil)
