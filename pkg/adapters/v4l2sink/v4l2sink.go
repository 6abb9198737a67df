// Package v4l2sink writes frames to a v4l2loopback output device.
//
// The device is opened once, configured for packed RGB24 at the requested
// geometry with VIDIOC_S_FMT, and each frame is delivered with a single
// write(2). Only Linux is supported; other platforms get a driver whose
// Open fails with pipeline.ErrSinkUnavailable.
package v4l2sink

import (
	"errors"
	"strings"

	"github.com/user/phonecam/pkg/ports"
)

var (
	// ErrPlatformNotSupported is returned on platforms without V4L2.
	ErrPlatformNotSupported = errors.New("v4l2sink: platform not supported")

	// ErrNotOutputDevice is returned when the device cannot accept frames.
	ErrNotOutputDevice = errors.New("v4l2sink: not a video output device")

	// ErrDeviceNotFound is returned when no device matches the configured name.
	ErrDeviceNotFound = errors.New("v4l2sink: no matching output device")

	// ErrShortWrite is returned when the device accepts part of a frame.
	ErrShortWrite = errors.New("v4l2sink: short write")
)

// DevicePattern is the glob scanned when the device is given by label.
const DevicePattern = "/dev/video*"

// Driver implements ports.CameraDriver for v4l2loopback.
type Driver struct {
	logger ports.Logger
}

// New creates a new Driver.
func New(logger ports.Logger) *Driver {
	return &Driver{logger: logger.WithComponent("v4l2")}
}

// IsDevicePath reports whether name is a device node path rather than a card label.
func IsDevicePath(name string) bool {
	return strings.HasPrefix(name, "/dev/")
}

// matchLabel compares a card label with the configured device name.
// v4l2loopback labels are compared case-insensitively and trimmed.
func matchLabel(card, name string) bool {
	return strings.EqualFold(strings.TrimSpace(card), strings.TrimSpace(name))
}

var _ ports.CameraDriver = (*Driver)(nil)
