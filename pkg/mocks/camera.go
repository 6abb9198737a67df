package mocks

import (
	"sync"

	"github.com/user/phonecam/pkg/ports"
)

// CameraDriver is a mock implementation of ports.CameraDriver.
type CameraDriver struct {
	mu sync.Mutex

	OpenFunc func(format ports.CameraFormat) (ports.Camera, error)

	Opened []ports.CameraFormat
	Camera *Camera
}

// NewCameraDriver creates a driver that hands out a single recording Camera.
func NewCameraDriver() *CameraDriver {
	return &CameraDriver{Camera: &Camera{}}
}

func (m *CameraDriver) Open(format ports.CameraFormat) (ports.Camera, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, format)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(format)
	}
	m.Camera.mu.Lock()
	m.Camera.format = format
	m.Camera.mu.Unlock()
	return m.Camera, nil
}

// OpenCount returns the number of Open calls.
func (m *CameraDriver) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Opened)
}

var _ ports.CameraDriver = (*CameraDriver)(nil)

// Camera is a mock implementation of ports.Camera that records frames.
type Camera struct {
	mu sync.Mutex

	format ports.CameraFormat

	WriteFunc func(frame []byte) error

	Frames     [][]byte
	CloseCount int
}

func (m *Camera) WriteFrame(frame []byte) error {
	if m.WriteFunc != nil {
		if err := m.WriteFunc(frame); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, append([]byte(nil), frame...))
	return nil
}

func (m *Camera) Device() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.format.Device == "" {
		return "mock"
	}
	return m.format.Device
}

func (m *Camera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCount++
	return nil
}

// FrameCount returns the number of frames written.
func (m *Camera) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

// Closed returns the number of Close calls.
func (m *Camera) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CloseCount
}

var _ ports.Camera = (*Camera)(nil)
