// Package supervisor owns the inbound stream lifecycle: it opens the sink,
// connects, forwards binary payloads to the frame pipeline, and reconnects
// with a bounded, fixed-delay retry policy.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 5 * time.Second
)

// FrameSink is the output side as seen by the supervisor. output.Sink implements it.
type FrameSink interface {
	Open(format ports.CameraFormat) error
	Write(frame pipeline.Frame) error
	Close() error
}

// Settings contains the supervisor settings.
type Settings struct {
	Format      ports.CameraFormat
	Dial        ports.DialOptions
	MaxAttempts int           // 0 means DefaultMaxAttempts
	RetryDelay  time.Duration // 0 means DefaultRetryDelay
}

// Observer is notified of every state transition.
type Observer func(from, to State)

// Supervisor runs one bridge session from sink open to teardown.
type Supervisor struct {
	settings Settings
	sink     FrameSink
	dialer   ports.StreamDialer
	frames   pipeline.FrameStage
	logger   ports.Logger
	metrics  ports.Metrics
	observer Observer
	standby  *pipeline.Frame
	sleep    func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(s *Supervisor) { s.observer = o }
}

// WithMetrics records connection attempts and states.
func WithMetrics(m ports.Metrics) Option {
	return func(s *Supervisor) { s.metrics = m }
}

// WithStandby writes frame to the sink after it opens and after each
// disconnect.
func WithStandby(frame pipeline.Frame) Option {
	return func(s *Supervisor) { s.standby = &frame }
}

// WithSleep overrides the retry delay wait.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Supervisor) { s.sleep = sleep }
}

// New creates a new Supervisor in the Disconnected state.
func New(settings Settings, sink FrameSink, dialer ports.StreamDialer, frames pipeline.FrameStage, logger ports.Logger, opts ...Option) *Supervisor {
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = DefaultMaxAttempts
	}
	if settings.RetryDelay <= 0 {
		settings.RetryDelay = DefaultRetryDelay
	}

	s := &Supervisor{
		settings: settings,
		sink:     sink,
		dialer:   dialer,
		frames:   frames,
		logger:   logger.WithComponent("supervisor"),
		sleep:    sleepContext,
		state:    Disconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run opens the sink and services the stream until ctx is canceled, the
// sink fails, or the retry budget is spent. It returns nil on interrupt.
// The sink is closed on every exit path once it was opened.
//
// Every failed dial and every session that ends with a transport error or
// a remote close consumes one attempt. The budget is never refilled.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.sink.Open(s.settings.Format); err != nil {
		s.logger.Error("Failed to initialize camera: %s", err)
		s.transition(Closed)
		return err
	}
	defer func() {
		if err := s.sink.Close(); err != nil {
			s.logger.Warn("Failed to close virtual camera: %s", err)
		}
		s.logger.Info("Bridge stopped")
	}()

	if tls := s.settings.Dial.TLSConfig; tls != nil && tls.InsecureSkipVerify {
		s.logger.Warn("SSL certificate verification is disabled")
	}

	if err := s.writeStandby(); err != nil {
		s.transition(Closed)
		return err
	}

	maxAttempts := s.settings.MaxAttempts
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return s.interrupted()
		}

		s.transition(Connecting)
		s.logger.Info("Connecting to %s", s.settings.Dial.URL)

		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return s.interrupted()
		}
		if pipeline.IsSinkError(err) {
			s.logger.Error("Virtual camera failed: %s", err)
			s.transition(Closed)
			return err
		}

		if connected {
			s.logger.Warn("Connection closed (attempt %d/%d): %s", attempt, maxAttempts, err)
		} else {
			s.logger.Warn("Connection failed (attempt %d/%d): %s", attempt, maxAttempts, err)
		}
		s.transition(Disconnected)
		if err := s.writeStandby(); err != nil {
			s.transition(Closed)
			return err
		}

		if attempt >= maxAttempts {
			s.logger.Error("Max retries reached, exiting")
			s.transition(Closed)
			return fmt.Errorf("%w: %d attempts: %w", pipeline.ErrRetriesExhausted, attempt, err)
		}

		s.logger.Info("Retrying in %s", s.settings.RetryDelay)
		if err := s.sleep(ctx, s.settings.RetryDelay); err != nil {
			return s.interrupted()
		}
	}
}

// session dials once and reads until the connection ends.
// It always returns a non-nil error and reports whether the handshake succeeded.
func (s *Supervisor) session(ctx context.Context) (bool, error) {
	conn, err := s.dialer.Dial(ctx, s.settings.Dial)
	if err != nil {
		s.recordAttempt("error")
		return false, err
	}
	s.recordAttempt("ok")
	defer conn.Close()

	id := uuid.NewString()
	s.transition(Connected)
	s.logger.Info("Connected! Receiving phone camera (%s)", conn.RemoteAddr())
	s.logger.Debug("Session %s started", id)

	frames := 0
	defer func() {
		s.logger.Debug("Session %s ended after %d frames", id, frames)
	}()

	for {
		mt, data, err := conn.ReadMessage(ctx)
		if err != nil {
			return true, err
		}
		if mt != ports.MessageBinary {
			s.logger.Debug("Ignoring %s message (%d bytes)", mt, len(data))
			continue
		}

		if _, err := s.frames.Execute(ctx, data); err != nil {
			if pipeline.IsFrameError(err) {
				continue
			}
			return true, err
		}
		frames++
	}
}

func (s *Supervisor) writeStandby() error {
	if s.standby == nil {
		return nil
	}
	if err := s.sink.Write(*s.standby); err != nil {
		s.logger.Error("Failed to write standby frame: %s", err)
		if !errors.Is(err, pipeline.ErrSinkWrite) && !errors.Is(err, pipeline.ErrFrameSize) {
			err = fmt.Errorf("%w: %w", pipeline.ErrSinkWrite, err)
		}
		return err
	}
	return nil
}

func (s *Supervisor) interrupted() error {
	s.logger.Info("Stopping")
	s.transition(Closed)
	return nil
}

func (s *Supervisor) transition(to State) {
	s.mu.Lock()
	from := s.state
	if from.Terminal() || from == to {
		s.mu.Unlock()
		return
	}
	s.state = to
	s.mu.Unlock()

	s.logger.Debug("State %s -> %s", from, to)
	if s.metrics != nil {
		s.metrics.ConnectionState(to.String())
	}
	if s.observer != nil {
		s.observer(from, to)
	}
}

func (s *Supervisor) recordAttempt(outcome string) {
	if s.metrics != nil {
		s.metrics.ConnectAttempt(outcome)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
