//go:build linux

package v4l2sink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

// V4L2 constants from linux/videodev2.h.
const (
	bufTypeVideoOutput = 2
	fieldNone          = 1
	colorspaceSRGB     = 8
	pixFmtRGB24        = 'R' | 'G'<<8 | 'B'<<16 | '3'<<24

	capVideoOutput = 0x00000002
	capDeviceCaps  = 0x80000000
)

// capability mirrors struct v4l2_capability.
type capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

// format mirrors struct v4l2_format. The union holds pointers on some
// members, so it is pointer-aligned after the 32-bit type field.
type format struct {
	Type uint32
	_    [unsafe.Sizeof(uintptr(0)) - 4]byte
	Fmt  [200]byte
}

// streamParm mirrors struct v4l2_streamparm. Its union has no pointer
// members, so it stays 4-byte aligned on every architecture.
type streamParm struct {
	Type uint32
	Parm [200]byte
}

// fract mirrors struct v4l2_fract.
type fract struct {
	Numerator   uint32
	Denominator uint32
}

// outputParm mirrors struct v4l2_outputparm.
type outputParm struct {
	Capability   uint32
	OutputMode   uint32
	TimePerFrame fract
	ExtendedMode uint32
	WriteBuffers uint32
	Reserved     [4]uint32
}

// pixFormat mirrors struct v4l2_pix_format.
type pixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  uint32
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	YcbcrEnc     uint32
	Quantization uint32
	XferFunc     uint32
}

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | 'V'<<8 | nr
}

var (
	vidiocQueryCap = ioc(2, 0, unsafe.Sizeof(capability{}))
	vidiocSFmt     = ioc(3, 5, unsafe.Sizeof(format{}))
	vidiocSParm    = ioc(3, 22, unsafe.Sizeof(streamParm{}))
)

func ioctl(fd, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// Open resolves and configures the device.
func (d *Driver) Open(f ports.CameraFormat) (ports.Camera, error) {
	path, err := d.resolve(f.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrSinkUnavailable, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", pipeline.ErrSinkUnavailable, path, err)
	}

	cam := &camera{file: file, path: path, size: f.Width * f.Height * pipeline.BytesPerPixel}
	if err := cam.configure(f); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s: %w", pipeline.ErrSinkUnavailable, path, err)
	}

	d.logger.Debug("Configured %s for RGB24 %dx%d@%d", path, f.Width, f.Height, f.FPS)
	return cam, nil
}

// resolve maps the configured name to a device node. A path is used as is;
// a label selects the output device whose card name matches; an empty name
// selects the first output device.
func (d *Driver) resolve(name string) (string, error) {
	if IsDevicePath(name) {
		return name, nil
	}

	paths, err := filepath.Glob(DevicePattern)
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	for _, p := range paths {
		card, ok := queryOutput(p)
		if !ok {
			continue
		}
		if name == "" || matchLabel(card, name) {
			d.logger.Debug("Resolved %q to %s (%s)", name, p, card)
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}

// queryOutput returns the card label of an output-capable device.
func queryOutput(path string) (string, bool) {
	file, err := os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return "", false
	}
	defer file.Close()

	var c capability
	if err := ioctl(file.Fd(), vidiocQueryCap, unsafe.Pointer(&c)); err != nil {
		return "", false
	}
	caps := c.Capabilities
	if caps&capDeviceCaps != 0 {
		caps = c.DeviceCaps
	}
	if caps&capVideoOutput == 0 {
		return "", false
	}
	return string(bytes.TrimRight(c.Card[:], "\x00")), true
}

type camera struct {
	file *os.File
	path string
	size int
}

func (c *camera) configure(f ports.CameraFormat) error {
	pix := pixFormat{
		Width:        uint32(f.Width),
		Height:       uint32(f.Height),
		PixelFormat:  pixFmtRGB24,
		Field:        fieldNone,
		BytesPerLine: uint32(f.Width * pipeline.BytesPerPixel),
		SizeImage:    uint32(c.size),
		Colorspace:   colorspaceSRGB,
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, pix); err != nil {
		return err
	}

	v := format{Type: bufTypeVideoOutput}
	copy(v.Fmt[:], buf.Bytes())
	if err := ioctl(c.file.Fd(), vidiocSFmt, unsafe.Pointer(&v)); err != nil {
		return fmt.Errorf("VIDIOC_S_FMT: %w", err)
	}

	var got pixFormat
	if err := binary.Read(bytes.NewReader(v.Fmt[:]), binary.NativeEndian, &got); err != nil {
		return err
	}
	if got.Width != pix.Width || got.Height != pix.Height || got.PixelFormat != pixFmtRGB24 {
		return fmt.Errorf("device negotiated %dx%d fourcc %#x", got.Width, got.Height, got.PixelFormat)
	}

	return c.setFrameRate(f.FPS)
}

// setFrameRate sets timeperframe to 1/fps and rejects any other result.
func (c *camera) setFrameRate(fps int) error {
	parm, err := encodeOutputParm(fps)
	if err != nil {
		return err
	}
	if err := ioctl(c.file.Fd(), vidiocSParm, unsafe.Pointer(&parm)); err != nil {
		return fmt.Errorf("VIDIOC_S_PARM: %w", err)
	}
	got, err := decodeTimePerFrame(parm)
	if err != nil {
		return err
	}
	if !sameRate(got, fps) {
		return fmt.Errorf("device negotiated %d/%d s per frame, want 1/%d", got.Numerator, got.Denominator, fps)
	}
	return nil
}

func encodeOutputParm(fps int) (streamParm, error) {
	if fps <= 0 {
		return streamParm{}, fmt.Errorf("invalid frame rate %d", fps)
	}
	out := outputParm{TimePerFrame: fract{Numerator: 1, Denominator: uint32(fps)}}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, out); err != nil {
		return streamParm{}, err
	}
	p := streamParm{Type: bufTypeVideoOutput}
	copy(p.Parm[:], buf.Bytes())
	return p, nil
}

func decodeTimePerFrame(p streamParm) (fract, error) {
	var out outputParm
	if err := binary.Read(bytes.NewReader(p.Parm[:]), binary.NativeEndian, &out); err != nil {
		return fract{}, err
	}
	return out.TimePerFrame, nil
}

// sameRate reports whether tpf equals 1/fps, allowing unreduced fractions.
func sameRate(tpf fract, fps int) bool {
	return tpf.Numerator != 0 && uint64(tpf.Denominator) == uint64(fps)*uint64(tpf.Numerator)
}

func (c *camera) WriteFrame(frame []byte) error {
	if len(frame) != c.size {
		return fmt.Errorf("%w: got %d bytes, want %d", pipeline.ErrFrameSize, len(frame), c.size)
	}
	n, err := c.file.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(frame))
	}
	return nil
}

func (c *camera) Device() string {
	return c.path
}

func (c *camera) Close() error {
	return c.file.Close()
}
