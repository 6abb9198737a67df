package ports

import (
	"image"
	"image/color"
)

// Renderer draws the standby card and encodes debug captures.
type Renderer interface {
	// CreateCanvas returns a width x height canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	EncodePNG(img image.Image) ([]byte, error)
}

// Canvas is a drawing surface.
type Canvas interface {
	FillRect(r image.Rectangle, c color.Color)

	// DrawText draws text with its vertical center on y. x is the left
	// edge, center, or right edge depending on style.Align.
	DrawText(text string, x, y int, style TextStyle)

	Image() image.Image
}

// TextStyle defines text rendering properties. An empty FontPath uses the
// renderer's built-in face.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies horizontal text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)
