//go:build !linux

package v4l2sink

import (
	"fmt"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

// Open always fails: V4L2 exists only on Linux.
func (d *Driver) Open(f ports.CameraFormat) (ports.Camera, error) {
	return nil, fmt.Errorf("%w: %w", pipeline.ErrSinkUnavailable, ErrPlatformNotSupported)
}
