// Package ggrenderer draws on fogleman/gg contexts.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/user/phonecam/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	encoder png.Encoder
}

// New creates a Renderer. Debug captures favour speed over size.
func New() *Renderer {
	return &Renderer{encoder: png.Encoder{CompressionLevel: png.BestSpeed}}
}

func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas wraps a gg.Context.
type Canvas struct {
	dc   *gg.Context
	font string
	size float64
}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	r = r.Canon()
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.dc.Fill()
}

// DrawText keeps the current face when style.FontPath cannot be loaded,
// so a missing font degrades to the built-in bitmap face.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.useFace(style.FontPath, style.FontSize)
	c.dc.SetColor(style.Color)
	c.dc.DrawStringAnchored(text, float64(x), float64(y), anchorX(style.Align), 0.5)
}

func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

func (c *Canvas) useFace(path string, size float64) {
	if path == "" || size <= 0 || (path == c.font && size == c.size) {
		return
	}
	if err := c.dc.LoadFontFace(path, size); err == nil {
		c.font, c.size = path, size
	}
}

func anchorX(align ports.TextAlign) float64 {
	switch align {
	case ports.AlignCenter:
		return 0.5
	case ports.AlignRight:
		return 1
	}
	return 0
}

var _ ports.Canvas = (*Canvas)(nil)
