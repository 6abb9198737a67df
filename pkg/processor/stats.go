package processor

import (
	"time"

	"github.com/user/phonecam/pkg/pipeline"
)

// DefaultWindow is the throughput reporting window.
const DefaultWindow = 3 * time.Second

// Stats is the rolling throughput and orientation state of one Processor.
// It is owned by the processing path and is not safe for concurrent use.
type Stats struct {
	Frames      int                  // Frames delivered in the current window
	WindowStart time.Time            // Start of the current window
	Orientation pipeline.Orientation // Last observed orientation
}

// NewStats starts a window at now. The initial orientation is landscape.
func NewStats(now time.Time) Stats {
	return Stats{
		WindowStart: now,
		Orientation: pipeline.Landscape,
	}
}

// Observe updates the stats with one delivered frame.
// It reports whether the orientation changed and, if the window elapsed,
// returns a throughput sample and starts a new window at now.
func (s *Stats) Observe(now time.Time, window time.Duration, orientation pipeline.Orientation, source pipeline.Dimension) (bool, *pipeline.ThroughputSample) {
	s.Frames++

	changed := orientation != s.Orientation
	if changed {
		s.Orientation = orientation
	}

	elapsed := now.Sub(s.WindowStart)
	if elapsed < window {
		return changed, nil
	}

	sample := &pipeline.ThroughputSample{
		Frames:      s.Frames,
		Elapsed:     elapsed,
		Rate:        float64(s.Frames) / elapsed.Seconds(),
		Orientation: orientation,
		Source:      source,
	}
	s.Frames = 0
	s.WindowStart = now
	return changed, sample
}
