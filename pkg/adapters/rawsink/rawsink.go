// Package rawsink writes packed RGB24 frames to a file, FIFO, or stdout,
// e.g. for piping into ffmpeg -f rawvideo -pix_fmt rgb24.
package rawsink

import (
	"fmt"
	"io"
	"os"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

// Stdout is the device name that selects standard output.
const Stdout = "-"

// Driver implements ports.CameraDriver for raw byte streams.
type Driver struct {
	stdout io.Writer
	logger ports.Logger
}

// New creates a Driver that writes "-" to os.Stdout.
func New(logger ports.Logger) *Driver {
	return &Driver{stdout: os.Stdout, logger: logger.WithComponent("rawsink")}
}

// NewWithStdout creates a Driver that writes "-" to w.
func NewWithStdout(w io.Writer, logger ports.Logger) *Driver {
	return &Driver{stdout: w, logger: logger.WithComponent("rawsink")}
}

// Open opens the output. Files are truncated.
func (d *Driver) Open(f ports.CameraFormat) (ports.Camera, error) {
	size := f.Width * f.Height * pipeline.BytesPerPixel

	if f.Device == "" || f.Device == Stdout {
		d.logger.Debug("Writing rgb24 %dx%d@%d to stdout", f.Width, f.Height, f.FPS)
		return &camera{w: d.stdout, name: "stdout", size: size}, nil
	}

	file, err := os.OpenFile(f.Device, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrSinkUnavailable, err)
	}
	d.logger.Debug("Writing rgb24 %dx%d@%d to %s", f.Width, f.Height, f.FPS, f.Device)
	return &camera{w: file, closer: file, name: f.Device, size: size}, nil
}

type camera struct {
	w      io.Writer
	closer io.Closer
	name   string
	size   int
}

func (c *camera) WriteFrame(frame []byte) error {
	if len(frame) != c.size {
		return fmt.Errorf("%w: got %d bytes, want %d", pipeline.ErrFrameSize, len(frame), c.size)
	}
	n, err := c.w.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return io.ErrShortWrite
	}
	return nil
}

func (c *camera) Device() string {
	return c.name
}

func (c *camera) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Ensure Driver implements ports.CameraDriver
var _ ports.CameraDriver = (*Driver)(nil)
