package pipeline

import "errors"

// Frame-level errors. These are recoverable: the frame is dropped and the
// pipeline keeps accepting payloads.
var (
	// ErrInvalidDimensions is returned when source or target dimensions are not positive.
	ErrInvalidDimensions = errors.New("pipeline: invalid dimensions")

	// ErrDecode is returned when a payload cannot be decoded as an image.
	ErrDecode = errors.New("pipeline: decode failed")

	// ErrImageTooLarge is returned when a decoded image exceeds the pixel ceiling.
	ErrImageTooLarge = errors.New("pipeline: image too large")
)

// Sink-level errors. These end the current run.
var (
	// ErrSinkUnavailable is returned when the virtual camera cannot be opened.
	ErrSinkUnavailable = errors.New("pipeline: sink unavailable")

	// ErrSinkWrite is returned when a frame cannot be written to an open sink.
	ErrSinkWrite = errors.New("pipeline: sink write failed")

	// ErrFrameSize is returned when a buffer does not match the sink geometry.
	ErrFrameSize = errors.New("pipeline: frame size mismatch")
)

// Transport and configuration errors.
var (
	// ErrRetriesExhausted is returned when the connection retry budget is spent.
	ErrRetriesExhausted = errors.New("pipeline: connection retries exhausted")

	// ErrInvalidConfig is returned when settings fail validation.
	ErrInvalidConfig = errors.New("pipeline: invalid configuration")
)

// IsFrameError reports whether err is a recoverable, frame-level error.
func IsFrameError(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrImageTooLarge) ||
		errors.Is(err, ErrInvalidDimensions)
}

// IsSinkError reports whether err ends the current run because of the sink.
func IsSinkError(err error) bool {
	return errors.Is(err, ErrSinkUnavailable) ||
		errors.Is(err, ErrSinkWrite) ||
		errors.Is(err, ErrFrameSize)
}
