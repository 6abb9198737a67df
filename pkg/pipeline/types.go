package pipeline

import (
	"time"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Pixels returns Width*Height.
func (d Dimension) Pixels() int64 {
	return int64(d.Width) * int64(d.Height)
}

// Orientation classifies a source frame as portrait or landscape.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// =============================================================================
// Placement Types
// =============================================================================

// Placement describes where a scaled source image lands on the output canvas.
type Placement struct {
	Canvas      Dimension   // Output canvas, always the configured target
	Scaled      Dimension   // Source dimensions after scale-to-fit
	XOffset     int         // Left padding
	YOffset     int         // Top padding
	Orientation Orientation // Classification of the source, not the canvas
}

// =============================================================================
// Frame Types
// =============================================================================

// Payload is one inbound encoded image frame. It is only valid for the
// duration of a single Execute call.
type Payload []byte

// BytesPerPixel is the channel count of every frame handed to a sink (RGB24).
const BytesPerPixel = 3

// Frame is a packed RGB24 buffer with fixed geometry.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len(Pix) == Width*Height*BytesPerPixel, rows top to bottom
}

// NewFrame allocates a zeroed (black) frame.
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// Size returns the expected buffer length for the frame geometry.
func (f Frame) Size() int {
	return f.Width * f.Height * BytesPerPixel
}

// =============================================================================
// Report Types
// =============================================================================

// ThroughputSample is emitted once per closed reporting window.
type ThroughputSample struct {
	Frames      int
	Elapsed     time.Duration
	Rate        float64 // Frames / Elapsed seconds
	Orientation Orientation
	Source      Dimension
}

// FrameReport describes the outcome of one successfully delivered frame.
type FrameReport struct {
	Source             Dimension
	Placement          Placement
	OrientationChanged bool
	Throughput         *ThroughputSample // non-nil when a reporting window closed
}
