// Package placement implements the letterbox geometry for the frame pipeline.
package placement

import (
	"context"
	"fmt"

	"github.com/user/phonecam/pkg/pipeline"
)

// Input is the pair of rectangles a placement is computed for.
type Input struct {
	Source pipeline.Dimension
	Target pipeline.Dimension
}

// Stage computes placements.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new placement stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute computes the placement of input.Source inside input.Target.
func (s *Stage) Execute(ctx context.Context, input Input) (pipeline.Placement, error) {
	return ComputePlacement(input.Source.Width, input.Source.Height, input.Target.Width, input.Target.Height)
}

// Classify returns Portrait iff height > width. Square sources are Landscape.
func Classify(width, height int) pipeline.Orientation {
	if height > width {
		return pipeline.Portrait
	}
	return pipeline.Landscape
}

// ComputePlacement scales a sw×sh source to fit inside a tw×th target while
// preserving aspect ratio, and centers it.
// This is exposed as a standalone function for testing and reuse.
//
// The fitted axis is chosen by comparing aspect ratios (sw/sh against tw/th):
//   - source relatively wider: scaled = (tw, floor(tw / aspect))
//   - otherwise:               scaled = (floor(th * aspect), th)
//
// Offsets are floor((target - scaled) / 2), so odd padding favors the top-left.
// The free axis never collapses below one pixel.
func ComputePlacement(sw, sh, tw, th int) (pipeline.Placement, error) {
	if sw <= 0 || sh <= 0 || tw <= 0 || th <= 0 {
		return pipeline.Placement{}, fmt.Errorf("%w: source %dx%d, target %dx%d",
			pipeline.ErrInvalidDimensions, sw, sh, tw, th)
	}

	sourceAspect := float64(sw) / float64(sh)
	targetAspect := float64(tw) / float64(th)

	var scaledWidth, scaledHeight int
	if sourceAspect > targetAspect {
		// Source is wider than target - fit by width
		scaledWidth = tw
		scaledHeight = int(float64(tw) / sourceAspect)
	} else {
		// Source is taller than (or as wide as) target - fit by height
		scaledHeight = th
		scaledWidth = int(float64(th) * sourceAspect)
	}
	scaledWidth = clamp(scaledWidth, 1, tw)
	scaledHeight = clamp(scaledHeight, 1, th)

	return pipeline.Placement{
		Canvas:      pipeline.Dimension{Width: tw, Height: th},
		Scaled:      pipeline.Dimension{Width: scaledWidth, Height: scaledHeight},
		XOffset:     (tw - scaledWidth) / 2,
		YOffset:     (th - scaledHeight) / 2,
		Orientation: Classify(sw, sh),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
