// Package processor implements the frame pipeline: one encoded payload in,
// one mirrored, letterboxed, fixed-size frame out to the virtual camera.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
	"github.com/user/phonecam/pkg/stages/composite"
	"github.com/user/phonecam/pkg/stages/placement"
)

// DefaultMaxPixels is the default decoded-image pixel ceiling (50 MP).
const DefaultMaxPixels int64 = 50_000_000

// FrameWriter accepts sink-ready frames. output.Sink implements it.
type FrameWriter interface {
	Write(frame pipeline.Frame) error
}

// Config contains the processor settings.
type Config struct {
	Target    pipeline.Dimension
	MaxPixels int64         // 0 means DefaultMaxPixels
	Window    time.Duration // 0 means DefaultWindow
	Mirror    bool
}

// Processor turns payloads into frames. It must not be invoked concurrently.
type Processor struct {
	cfg       Config
	decoder   ports.ImageDecoder
	composite *composite.Stage
	out       FrameWriter
	debug     ports.DebugSink
	metrics   ports.Metrics
	logger    ports.Logger
	now       func() time.Time

	stats    Stats
	received int
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the time source used for throughput windows.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithDebugSink saves payloads and composed frames when the sink is enabled.
func WithDebugSink(sink ports.DebugSink) Option {
	return func(p *Processor) { p.debug = sink }
}

// WithMetrics records delivered and dropped frames.
func WithMetrics(m ports.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// New creates a new Processor.
func New(cfg Config, decoder ports.ImageDecoder, out FrameWriter, logger ports.Logger, opts ...Option) *Processor {
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	var compositeOpts []composite.Option
	if !cfg.Mirror {
		compositeOpts = append(compositeOpts, composite.WithoutMirror())
	}

	p := &Processor{
		cfg:       cfg,
		decoder:   decoder,
		composite: composite.NewStage(compositeOpts...),
		out:       out,
		logger:    logger.WithComponent("pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stats = NewStats(p.now())
	return p
}

// Stats returns a copy of the current throughput state.
func (p *Processor) Stats() Stats {
	return p.stats
}

// Execute processes one payload.
//
// Frame-level failures (decode, oversize, bad geometry) are logged, counted,
// and returned; the processor state is left untouched and the next payload
// can be processed normally. A sink failure is returned wrapped in
// pipeline.ErrSinkWrite and ends the session.
func (p *Processor) Execute(ctx context.Context, payload pipeline.Payload) (pipeline.FrameReport, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.FrameReport{}, err
	}

	p.received++
	if p.debug != nil && p.debug.Enabled() {
		if err := p.debug.SavePayload(p.received, payload); err != nil {
			p.logger.Debug("Failed to save debug payload: %s", err)
		}
	}

	report, composed, err := p.compose(payload)
	if err != nil {
		p.drop(err)
		return pipeline.FrameReport{}, err
	}

	if err := p.out.Write(composed.Frame); err != nil {
		if !errors.Is(err, pipeline.ErrSinkWrite) && !errors.Is(err, pipeline.ErrFrameSize) {
			err = fmt.Errorf("%w: %w", pipeline.ErrSinkWrite, err)
		}
		return pipeline.FrameReport{}, err
	}

	if p.debug != nil && p.debug.Enabled() {
		if err := p.debug.SaveFrame(p.received, composed.Image); err != nil {
			p.logger.Debug("Failed to save debug frame: %s", err)
		}
	}
	if p.metrics != nil {
		p.metrics.FrameDelivered()
	}

	changed, sample := p.stats.Observe(p.now(), p.cfg.Window, report.Placement.Orientation, report.Source)
	report.OrientationChanged = changed
	report.Throughput = sample

	if changed {
		p.logger.Info("Orientation changed to: %s (%dx%d)",
			report.Placement.Orientation, report.Source.Width, report.Source.Height)
	}
	if sample != nil {
		p.logger.Info("FPS: %.1f, Mode: %s, Input: %dx%d",
			sample.Rate, sample.Orientation, sample.Source.Width, sample.Source.Height)
		if p.metrics != nil {
			p.metrics.Throughput(sample.Rate)
		}
	}

	return report, nil
}

// compose runs the frame-level steps: decode, normalize, size check,
// placement, letterbox, and mirror.
func (p *Processor) compose(payload pipeline.Payload) (pipeline.FrameReport, composite.Result, error) {
	if len(payload) == 0 {
		return pipeline.FrameReport{}, composite.Result{}, fmt.Errorf("%w: empty payload", pipeline.ErrDecode)
	}

	// Reject oversized images from the header before allocating pixels.
	if cfg, _, err := p.decoder.DecodeConfig(payload); err == nil {
		if err := p.checkSize(cfg.Width, cfg.Height); err != nil {
			return pipeline.FrameReport{}, composite.Result{}, err
		}
	}

	img, format, err := p.decoder.Decode(payload)
	if err != nil {
		return pipeline.FrameReport{}, composite.Result{}, fmt.Errorf("%w: %w", pipeline.ErrDecode, err)
	}

	// Decoders without a header size check only reach this one; it must run
	// before Normalize copies the pixels.
	bounds := img.Bounds()
	source := pipeline.Dimension{Width: bounds.Dx(), Height: bounds.Dy()}
	if err := p.checkSize(source.Width, source.Height); err != nil {
		return pipeline.FrameReport{}, composite.Result{}, err
	}
	rgba := composite.Normalize(img)

	placed, err := placement.ComputePlacement(source.Width, source.Height, p.cfg.Target.Width, p.cfg.Target.Height)
	if err != nil {
		return pipeline.FrameReport{}, composite.Result{}, err
	}

	p.logger.Debug("Decoded %s frame %dx%d, scaled to %dx%d at (%d,%d)",
		format, source.Width, source.Height, placed.Scaled.Width, placed.Scaled.Height, placed.XOffset, placed.YOffset)

	composed, err := p.composite.Execute(context.Background(), composite.Input{Image: rgba, Placement: placed})
	if err != nil {
		return pipeline.FrameReport{}, composite.Result{}, err
	}

	return pipeline.FrameReport{Source: source, Placement: placed}, composed, nil
}

func (p *Processor) checkSize(width, height int) error {
	if int64(width)*int64(height) > p.cfg.MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", pipeline.ErrImageTooLarge, width, height, p.cfg.MaxPixels)
	}
	return nil
}

func (p *Processor) drop(err error) {
	p.logger.Warn("Frame dropped: %s", err)
	if p.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, pipeline.ErrImageTooLarge):
		p.metrics.FrameDropped("too_large")
	case errors.Is(err, pipeline.ErrDecode):
		p.metrics.FrameDropped("decode")
	default:
		p.metrics.FrameDropped("invalid")
	}
}

// Ensure Processor implements pipeline.FrameStage
var _ pipeline.FrameStage = (*Processor)(nil)
