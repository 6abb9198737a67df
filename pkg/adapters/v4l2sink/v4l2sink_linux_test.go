//go:build linux

package v4l2sink

import (
	"encoding/binary"
	"errors"
	"os"
	"testing"
	"unsafe"

	"github.com/user/phonecam/pkg/adapters/logger"
	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

func TestStructLayout(t *testing.T) {
	if got := unsafe.Sizeof(capability{}); got != 104 {
		t.Errorf("v4l2_capability size = %d, want 104", got)
	}
	if got := unsafe.Sizeof(pixFormat{}); got != 48 {
		t.Errorf("v4l2_pix_format size = %d, want 48", got)
	}
	want := uintptr(204)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 208
	}
	if got := unsafe.Sizeof(format{}); got != want {
		t.Errorf("v4l2_format size = %d, want %d", got, want)
	}
	if got := unsafe.Sizeof(streamParm{}); got != 204 {
		t.Errorf("v4l2_streamparm size = %d, want 204", got)
	}
	if got := unsafe.Sizeof(outputParm{}); got != 40 {
		t.Errorf("v4l2_outputparm size = %d, want 40", got)
	}
}

func TestIoctlNumbers(t *testing.T) {
	if vidiocQueryCap != 0x80685600 {
		t.Errorf("VIDIOC_QUERYCAP = %#x", vidiocQueryCap)
	}
	if unsafe.Sizeof(uintptr(0)) == 8 && vidiocSFmt != 0xc0d05605 {
		t.Errorf("VIDIOC_S_FMT = %#x", vidiocSFmt)
	}
	if vidiocSParm != 0xc0cc5616 {
		t.Errorf("VIDIOC_S_PARM = %#x", vidiocSParm)
	}
	if pixFmtRGB24 != 0x33424752 {
		t.Errorf("RGB3 fourcc = %#x", pixFmtRGB24)
	}
}

func TestOpen_MissingDevice(t *testing.T) {
	d := New(logger.NewNoop())

	_, err := d.Open(ports.CameraFormat{Width: 64, Height: 36, FPS: 30, Device: "/dev/phonecam-test-missing"})
	if !errors.Is(err, pipeline.ErrSinkUnavailable) {
		t.Errorf("expected ErrSinkUnavailable, got %v", err)
	}
}

func TestOpen_UnknownLabel(t *testing.T) {
	d := New(logger.NewNoop())

	_, err := d.Open(ports.CameraFormat{Width: 64, Height: 36, FPS: 30, Device: "no such camera label"})
	if !errors.Is(err, pipeline.ErrSinkUnavailable) {
		t.Errorf("expected ErrSinkUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestCamera_WriteFrame(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "frame")
	if err != nil {
		t.Fatal(err)
	}
	cam := &camera{file: f, path: f.Name(), size: 4 * 2 * 3}
	defer cam.Close()

	if err := cam.WriteFrame(make([]byte, 24)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cam.WriteFrame(make([]byte, 10)); !errors.Is(err, pipeline.ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
	if cam.Device() != f.Name() {
		t.Errorf("unexpected device %q", cam.Device())
	}
}

func TestEncodeOutputParm(t *testing.T) {
	p, err := encodeOutputParm(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != bufTypeVideoOutput {
		t.Errorf("type = %d, want %d", p.Type, bufTypeVideoOutput)
	}

	// timeperframe sits after capability and outputmode.
	num := binary.NativeEndian.Uint32(p.Parm[8:12])
	den := binary.NativeEndian.Uint32(p.Parm[12:16])
	if num != 1 || den != 30 {
		t.Errorf("timeperframe = %d/%d, want 1/30", num, den)
	}

	got, err := decodeTimePerFrame(p)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (fract{Numerator: 1, Denominator: 30}) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEncodeOutputParm_InvalidRate(t *testing.T) {
	for _, fps := range []int{0, -5} {
		if _, err := encodeOutputParm(fps); err == nil {
			t.Errorf("expected error for %d fps", fps)
		}
	}
}

func TestSameRate(t *testing.T) {
	cases := []struct {
		tpf  fract
		fps  int
		want bool
	}{
		{fract{1, 30}, 30, true},
		{fract{2, 60}, 30, true},
		{fract{1, 25}, 30, false},
		{fract{1001, 30000}, 30, false},
		{fract{0, 0}, 30, false},
	}
	for _, tc := range cases {
		if got := sameRate(tc.tpf, tc.fps); got != tc.want {
			t.Errorf("sameRate(%+v, %d) = %v, want %v", tc.tpf, tc.fps, got, tc.want)
		}
	}
}
