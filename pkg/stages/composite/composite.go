// Package composite implements the frame composition stage: color
// normalization, letterboxing onto a black canvas, and the mirror flip.
package composite

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/user/phonecam/pkg/pipeline"
)

// Input is a decoded source image and where it goes on the canvas.
type Input struct {
	Image     image.Image
	Placement pipeline.Placement
}

// Result contains the composed frame in both forms.
type Result struct {
	Image *image.RGBA    // Mirrored canvas, kept for debug capture
	Frame pipeline.Frame // Packed RGB24 of exactly Placement.Canvas size
}

// Stage composes decoded images into sink-ready frames.
type Stage struct {
	scaler draw.Scaler
	mirror bool
}

// Option configures a Stage.
type Option func(*Stage)

// WithScaler overrides the resampling filter (default Lanczos3).
func WithScaler(s draw.Scaler) Option {
	return func(st *Stage) { st.scaler = s }
}

// WithoutMirror disables the horizontal flip.
func WithoutMirror() Option {
	return func(st *Stage) { st.mirror = false }
}

// NewStage creates a new composite stage.
func NewStage(opts ...Option) *Stage {
	s := &Stage{
		scaler: Lanczos3,
		mirror: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute letterboxes, mirrors, and packs one image.
func (s *Stage) Execute(ctx context.Context, input Input) (Result, error) {
	if input.Image == nil {
		return Result{}, fmt.Errorf("%w: nil image", pipeline.ErrDecode)
	}
	p := input.Placement
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return Result{}, fmt.Errorf("%w: canvas %dx%d", pipeline.ErrInvalidDimensions, p.Canvas.Width, p.Canvas.Height)
	}

	canvas := Letterbox(input.Image, p, s.scaler)
	if s.mirror {
		Mirror(canvas)
	}

	return Result{
		Image: canvas,
		Frame: PackRGB24(canvas),
	}, nil
}

// Normalize converts any image to an opaque RGBA image with bounds starting
// at (0,0). Alpha is discarded (not blended), so transparent pixels keep
// their color channels.
func Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Opaque() {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			srcRow := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
			dstRow := dst.Pix[y*dst.Stride:]
			for x := 0; x < b.Dx(); x++ {
				i := x * 4
				dstRow[i+0] = srcRow[i+0]
				dstRow[i+1] = srcRow[i+1]
				dstRow[i+2] = srcRow[i+2]
				dstRow[i+3] = 0xff
			}
		}
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// Letterbox draws img scaled to p.Scaled at (p.XOffset, p.YOffset) on a black
// canvas of p.Canvas size. When no scaling is needed the pixels are copied.
func Letterbox(img image.Image, p pipeline.Placement, scaler draw.Scaler) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, p.Canvas.Width, p.Canvas.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	target := image.Rect(p.XOffset, p.YOffset, p.XOffset+p.Scaled.Width, p.YOffset+p.Scaled.Height)
	src := img.Bounds()

	if src.Dx() == p.Scaled.Width && src.Dy() == p.Scaled.Height {
		draw.Draw(canvas, target, img, src.Min, draw.Src)
		return canvas
	}

	scaler.Scale(canvas, target, img, src, draw.Src, nil)
	return canvas
}

// Mirror flips img horizontally in place.
func Mirror(img *image.RGBA) {
	b := img.Bounds()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			li, ri := l*4, r*4
			row[li+0], row[ri+0] = row[ri+0], row[li+0]
			row[li+1], row[ri+1] = row[ri+1], row[li+1]
			row[li+2], row[ri+2] = row[ri+2], row[li+2]
			row[li+3], row[ri+3] = row[ri+3], row[li+3]
		}
	}
}

// PackRGB24 drops the alpha channel and returns a tightly packed RGB24 frame.
func PackRGB24(img *image.RGBA) pipeline.Frame {
	b := img.Bounds()
	frame := pipeline.NewFrame(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := frame.Pix[y*b.Dx()*pipeline.BytesPerPixel:]
		for x := 0; x < b.Dx(); x++ {
			dst[x*3+0] = src[x*4+0]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return frame
}
