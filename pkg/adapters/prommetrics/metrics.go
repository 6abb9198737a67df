// Package prommetrics records bridge metrics with Prometheus collectors
// and serves them over HTTP.
package prommetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/user/phonecam/pkg/ports"
)

const namespace = "phonecam"

// States is the set of connection_state label values.
var States = []string{"disconnected", "connecting", "connected", "closed"}

// Metrics implements ports.Metrics.
type Metrics struct {
	framesTotal     prometheus.Counter
	framesDropped   *prometheus.CounterVec
	throughput      prometheus.Gauge
	connectAttempts *prometheus.CounterVec
	connectionState *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames written to the virtual camera",
		}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Total number of inbound frames dropped",
		}, []string{"reason"}), // reason: decode, too_large, invalid
		throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_fps",
			Help:      "Frame rate over the last reporting window",
		}),
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Total number of stream connection attempts",
		}, []string{"outcome"}), // outcome: ok, error
		connectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "1 for the current connection state, 0 otherwise",
		}, []string{"state"}),
	}

	reg.MustRegister(m.framesTotal, m.framesDropped, m.throughput, m.connectAttempts, m.connectionState)
	m.ConnectionState("disconnected")
	return m
}

func (m *Metrics) FrameDelivered() {
	m.framesTotal.Inc()
}

func (m *Metrics) FrameDropped(reason string) {
	m.framesDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) Throughput(fps float64) {
	m.throughput.Set(fps)
}

func (m *Metrics) ConnectAttempt(outcome string) {
	m.connectAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ConnectionState(state string) {
	for _, s := range States {
		v := 0.0
		if s == state {
			v = 1
		}
		m.connectionState.WithLabelValues(s).Set(v)
	}
}

// Ensure Metrics implements ports.Metrics
var _ ports.Metrics = (*Metrics)(nil)
