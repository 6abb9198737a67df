package standby

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/user/phonecam/pkg/adapters/ggrenderer"
	"github.com/user/phonecam/pkg/mocks"
	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

func TestStage_Execute(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer)

	frame, err := stage.Execute(context.Background(), Input{
		Target: pipeline.Dimension{Width: 320, Height: 180},
		Detail: "wss://localhost:8443",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if frame.Width != 320 || frame.Height != 180 {
		t.Errorf("expected 320x180, got %dx%d", frame.Width, frame.Height)
	}
	if len(frame.Pix) != frame.Size() {
		t.Errorf("expected %d bytes, got %d", frame.Size(), len(frame.Pix))
	}

	if len(renderer.Canvases) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(renderer.Canvases))
	}
	texts := renderer.Canvases[0].Texts
	if len(texts) != 2 || texts[0] != DefaultTitle || texts[1] != "wss://localhost:8443" {
		t.Errorf("unexpected texts: %q", texts)
	}

	// The rule is a quarter of the width, centered, below the title.
	rects := renderer.Canvases[0].Rects
	if len(rects) != 1 {
		t.Fatalf("expected 1 rule, got %v", rects)
	}
	if r := rects[0]; r.Dx() != 80 || r.Min.X != 120 || r.Min.Y <= 90 || r.Dy() < 1 {
		t.Errorf("unexpected rule %v", r)
	}
}

func TestStage_Execute_CustomTitleNoDetail(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer)

	_, err := stage.Execute(context.Background(), Input{
		Target: pipeline.Dimension{Width: 64, Height: 36},
		Title:  "Reconnecting",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	texts := renderer.Canvases[0].Texts
	if len(texts) != 1 || texts[0] != "Reconnecting" {
		t.Errorf("unexpected texts: %q", texts)
	}
}

func TestStage_Execute_InvalidTarget(t *testing.T) {
	stage := NewStage(&mocks.Renderer{})

	_, err := stage.Execute(context.Background(), Input{Target: pipeline.Dimension{Width: 0, Height: 720}})
	if !errors.Is(err, pipeline.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestStage_Execute_RendererSizeMismatch(t *testing.T) {
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			return &mocks.Canvas{}
		},
	}
	stage := NewStage(renderer)

	_, err := stage.Execute(context.Background(), Input{Target: pipeline.Dimension{Width: 64, Height: 36}})
	if !errors.Is(err, pipeline.ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

func TestStage_Execute_WithGG(t *testing.T) {
	stage := NewStage(ggrenderer.New())

	frame, err := stage.Execute(context.Background(), Input{Target: pipeline.Dimension{Width: 640, Height: 360}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Corners stay black, the title draws something light near the centre.
	if frame.Pix[0] != 0 || frame.Pix[1] != 0 || frame.Pix[2] != 0 {
		t.Errorf("expected black corner, got %v", frame.Pix[:3])
	}
	lit := 0
	for y := 360/2 - 20; y < 360/2+20; y++ {
		for x := 0; x < 640; x++ {
			i := (y*640 + x) * 3
			if frame.Pix[i] > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected title pixels near the centre")
	}
}
