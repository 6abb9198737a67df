package processor

import (
	"testing"
	"time"

	"github.com/user/phonecam/pkg/pipeline"
)

func TestStats_InitialOrientationIsLandscape(t *testing.T) {
	s := NewStats(time.Unix(0, 0))
	if s.Orientation != pipeline.Landscape {
		t.Errorf("expected landscape, got %s", s.Orientation)
	}
	if s.Frames != 0 {
		t.Errorf("expected 0 frames, got %d", s.Frames)
	}
}

func TestStats_Observe_Window(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewStats(start)
	src := pipeline.Dimension{Width: 640, Height: 480}

	var samples []*pipeline.ThroughputSample
	// 30 frames at 10 fps: the window closes on the frame at t=3.0s.
	for i := 1; i <= 30; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		if _, sample := s.Observe(now, DefaultWindow, pipeline.Landscape, src); sample != nil {
			samples = append(samples, sample)
		}
	}

	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	got := samples[0]
	if got.Frames != 30 {
		t.Errorf("expected 30 frames, got %d", got.Frames)
	}
	if got.Elapsed != 3*time.Second {
		t.Errorf("expected 3s elapsed, got %v", got.Elapsed)
	}
	if got.Rate != 10 {
		t.Errorf("expected 10 fps, got %f", got.Rate)
	}
	if got.Source != src {
		t.Errorf("expected source %v, got %v", src, got.Source)
	}
	if s.Frames != 0 {
		t.Errorf("expected counter reset, got %d", s.Frames)
	}
	if !s.WindowStart.Equal(start.Add(3 * time.Second)) {
		t.Errorf("expected window restart at 3s, got %v", s.WindowStart.Sub(start))
	}
}

func TestStats_Observe_OrientationChange(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewStats(start)
	src := pipeline.Dimension{Width: 1080, Height: 1920}

	changed, _ := s.Observe(start, DefaultWindow, pipeline.Portrait, src)
	if !changed {
		t.Error("expected change on first portrait frame")
	}
	changed, _ = s.Observe(start, DefaultWindow, pipeline.Portrait, src)
	if changed {
		t.Error("expected no change on repeated portrait frame")
	}
	changed, _ = s.Observe(start, DefaultWindow, pipeline.Landscape, src)
	if !changed {
		t.Error("expected change back to landscape")
	}
	if s.Frames != 3 {
		t.Errorf("expected 3 frames, got %d", s.Frames)
	}
}

func TestStats_Observe_LongGap(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewStats(start)

	_, sample := s.Observe(start.Add(10*time.Second), DefaultWindow, pipeline.Landscape, pipeline.Dimension{Width: 1, Height: 1})
	if sample == nil {
		t.Fatal("expected sample after long gap")
	}
	if sample.Frames != 1 {
		t.Errorf("expected 1 frame, got %d", sample.Frames)
	}
	if sample.Rate != 0.1 {
		t.Errorf("expected 0.1 fps, got %f", sample.Rate)
	}
}
