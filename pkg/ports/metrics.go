package ports

// Metrics records pipeline and connection counters.
type Metrics interface {
	// FrameDelivered counts a frame written to the sink.
	FrameDelivered()

	// FrameDropped counts a frame dropped for the given reason
	// ("decode", "too_large", "invalid").
	FrameDropped(reason string)

	// Throughput records the rate of the last closed reporting window.
	Throughput(fps float64)

	// ConnectAttempt counts a connection attempt with its outcome
	// ("ok", "error").
	ConnectAttempt(outcome string)

	// ConnectionState records the current supervisor state.
	ConnectionState(state string)
}
