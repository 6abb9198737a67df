// Package standby renders the card shown on the virtual camera while no
// stream is connected.
package standby

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
	"github.com/user/phonecam/pkg/stages/composite"
)

// DefaultTitle is the headline drawn on the card.
const DefaultTitle = "Waiting for stream…"

var (
	titleColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	detailColor = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	accentColor = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

// Input contains the card content.
type Input struct {
	Target   pipeline.Dimension
	Title    string // Defaults to DefaultTitle
	Detail   string // Second line, e.g. the endpoint; optional
	FontPath string // TrueType font; empty uses the built-in face
}

// Stage renders a standby card into a sink-ready frame.
type Stage struct {
	renderer ports.Renderer
}

// NewStage creates a new standby stage.
func NewStage(renderer ports.Renderer) *Stage {
	return &Stage{renderer: renderer}
}

// Execute draws the card at the target geometry. The card is not mirrored.
func (s *Stage) Execute(ctx context.Context, input Input) (pipeline.Frame, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Frame{}, err
	}
	w, h := input.Target.Width, input.Target.Height
	if w <= 0 || h <= 0 {
		return pipeline.Frame{}, fmt.Errorf("%w: standby card %dx%d", pipeline.ErrInvalidDimensions, w, h)
	}

	title := input.Title
	if title == "" {
		title = DefaultTitle
	}
	fontSize := float64(h) / 16

	canvas := s.renderer.CreateCanvas(w, h, color.Black)

	// Thin rule under the title.
	rule := max(w/4, 1)
	ruleY := h/2 + int(fontSize)
	canvas.FillRect(image.Rect((w-rule)/2, ruleY, (w+rule)/2, ruleY+max(h/180, 1)), accentColor)

	canvas.DrawText(title, w/2, h/2, ports.TextStyle{
		FontSize: fontSize,
		FontPath: input.FontPath,
		Color:    titleColor,
		Align:    ports.AlignCenter,
	})
	if input.Detail != "" {
		canvas.DrawText(input.Detail, w/2, h/2+int(fontSize*2.5), ports.TextStyle{
			FontSize: fontSize / 2,
			FontPath: input.FontPath,
			Color:    detailColor,
			Align:    ports.AlignCenter,
		})
	}

	img := composite.Normalize(canvas.Image())
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return pipeline.Frame{}, fmt.Errorf("%w: renderer returned %dx%d", pipeline.ErrFrameSize, b.Dx(), b.Dy())
	}
	return composite.PackRGB24(img), nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[Input, pipeline.Frame] = (*Stage)(nil)
