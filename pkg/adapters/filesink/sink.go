// Package filesink keeps sampled debug captures on disk.
//
// Layout under the base directory:
//
//	payloads/000030.jpeg   encoded payload as received
//	frames/000030.png      frame as written to the camera
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/phonecam/pkg/adapters/imagedecoder"
	"github.com/user/phonecam/pkg/ports"
)

const (
	payloadDir = "payloads"
	frameDir   = "frames"
)

// Sink saves every Nth payload and frame.
type Sink struct {
	baseDir  string
	every    int
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a Sink. every < 1 is treated as 1.
func New(baseDir string, every int, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		every:    max(every, 1),
		fs:       fs,
		renderer: renderer,
	}
}

func (s *Sink) Enabled() bool { return true }

// SavePayload names the file after the detected image format, or .bin.
func (s *Sink) SavePayload(seq int, data []byte) error {
	if !s.sampled(seq) {
		return nil
	}
	ext := "bin"
	if f := imagedecoder.Detect(data); f != imagedecoder.FormatUnknown {
		ext = string(f)
	}
	return s.save(payloadDir, seq, ext, data)
}

func (s *Sink) SaveFrame(seq int, img image.Image) error {
	if !s.sampled(seq) {
		return nil
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", seq, err)
	}
	return s.save(frameDir, seq, "png", data)
}

func (s *Sink) save(kind string, seq int, ext string, data []byte) error {
	dir := filepath.Join(s.baseDir, kind)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("%06d.%s", seq, ext)), data)
}

func (s *Sink) sampled(seq int) bool {
	return seq%s.every == 0
}

var _ ports.DebugSink = (*Sink)(nil)
