// Package output owns the lifecycle of the virtual camera: it opens the
// device once, serializes frame writes, and guarantees release.
package output

import (
	"errors"
	"fmt"
	"sync"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

// ErrNotOpen is returned by Write before Open or after Close.
var ErrNotOpen = errors.New("output: sink not open")

// Sink is the single-writer handle around a ports.Camera.
type Sink struct {
	driver ports.CameraDriver
	logger ports.Logger

	mu     sync.Mutex
	format ports.CameraFormat
	camera ports.Camera
	closed bool
}

// New creates a Sink. No device is opened until Open.
func New(driver ports.CameraDriver, logger ports.Logger) *Sink {
	return &Sink{
		driver: driver,
		logger: logger.WithComponent("sink"),
	}
}

// Open creates the virtual camera. Any failure wraps pipeline.ErrSinkUnavailable.
func (s *Sink) Open(format ports.CameraFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera != nil {
		return nil
	}
	if format.Width <= 0 || format.Height <= 0 || format.FPS <= 0 {
		return fmt.Errorf("%w: unsupported format %dx%d@%d", pipeline.ErrSinkUnavailable, format.Width, format.Height, format.FPS)
	}

	cam, err := s.driver.Open(format)
	if err != nil {
		if errors.Is(err, pipeline.ErrSinkUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", pipeline.ErrSinkUnavailable, err)
	}

	s.camera = cam
	s.format = format
	s.closed = false
	s.logger.Info("Virtual camera created: %s", cam.Device())
	s.logger.Info("Output resolution: %dx%d @ %dfps", format.Width, format.Height, format.FPS)
	return nil
}

// Format returns the geometry the sink was opened with.
func (s *Sink) Format() ports.CameraFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Write delivers one frame. The frame must match the opened geometry exactly;
// a mismatch wraps pipeline.ErrFrameSize, a device error wraps
// pipeline.ErrSinkWrite.
func (s *Sink) Write(frame pipeline.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera == nil {
		return fmt.Errorf("%w: %w", pipeline.ErrSinkWrite, ErrNotOpen)
	}
	if frame.Width != s.format.Width || frame.Height != s.format.Height || len(frame.Pix) != frame.Size() {
		return fmt.Errorf("%w: got %dx%d (%d bytes), want %dx%d",
			pipeline.ErrFrameSize, frame.Width, frame.Height, len(frame.Pix), s.format.Width, s.format.Height)
	}

	if err := s.camera.WriteFrame(frame.Pix); err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrSinkWrite, err)
	}
	return nil
}

// Close releases the device. It is safe to call before Open and more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera == nil || s.closed {
		return nil
	}
	s.closed = true
	cam := s.camera
	s.camera = nil

	if err := cam.Close(); err != nil {
		s.logger.Warn("Failed to close virtual camera: %s", err)
		return err
	}
	s.logger.Debug("Virtual camera closed")
	return nil
}
