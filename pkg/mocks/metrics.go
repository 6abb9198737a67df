package mocks

import (
	"sync"

	"github.com/user/phonecam/pkg/ports"
)

// Metrics is a mock implementation of ports.Metrics that counts calls.
type Metrics struct {
	mu sync.Mutex

	Delivered int
	Dropped   map[string]int
	Rates     []float64
	Attempts  map[string]int
	States    []string
}

// NewMetrics creates a new mock Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Dropped:  make(map[string]int),
		Attempts: make(map[string]int),
	}
}

func (m *Metrics) FrameDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Delivered++
}

func (m *Metrics) FrameDropped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped[reason]++
}

func (m *Metrics) Throughput(fps float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rates = append(m.Rates, fps)
}

func (m *Metrics) ConnectAttempt(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts[outcome]++
}

func (m *Metrics) ConnectionState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States = append(m.States, state)
}

var _ ports.Metrics = (*Metrics)(nil)
