package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/user/phonecam/pkg/ports"
)

// Message is one scripted inbound message.
type Message struct {
	Type ports.MessageType
	Data []byte
}

// StreamDialer is a mock implementation of ports.StreamDialer.
type StreamDialer struct {
	mu sync.Mutex

	// DialFunc is called with the 1-based attempt number.
	DialFunc func(ctx context.Context, attempt int, opts ports.DialOptions) (ports.StreamConn, error)

	Attempts []ports.DialOptions
}

func (m *StreamDialer) Dial(ctx context.Context, opts ports.DialOptions) (ports.StreamConn, error) {
	m.mu.Lock()
	m.Attempts = append(m.Attempts, opts)
	attempt := len(m.Attempts)
	m.mu.Unlock()

	if m.DialFunc != nil {
		return m.DialFunc(ctx, attempt, opts)
	}
	return NewStreamConn(nil, io.EOF), nil
}

// AttemptCount returns the number of Dial calls.
func (m *StreamDialer) AttemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Attempts)
}

var _ ports.StreamDialer = (*StreamDialer)(nil)

// StreamConn is a mock implementation of ports.StreamConn that replays
// scripted messages and then returns a terminal error.
// A nil terminal error blocks until the context is canceled.
type StreamConn struct {
	mu sync.Mutex

	messages []Message
	final    error
	closed   int
}

// NewStreamConn creates a connection that yields messages then final.
func NewStreamConn(messages []Message, final error) *StreamConn {
	return &StreamConn{messages: messages, final: final}
}

func (m *StreamConn) ReadMessage(ctx context.Context) (ports.MessageType, []byte, error) {
	m.mu.Lock()
	if m.closed > 0 {
		m.mu.Unlock()
		return 0, nil, io.ErrClosedPipe
	}
	if len(m.messages) > 0 {
		msg := m.messages[0]
		m.messages = m.messages[1:]
		m.mu.Unlock()
		return msg.Type, msg.Data, nil
	}
	final := m.final
	m.mu.Unlock()

	if final != nil {
		return 0, nil, final
	}
	<-ctx.Done()
	return 0, nil, ctx.Err()
}

func (m *StreamConn) RemoteAddr() string {
	return "mock:0"
}

func (m *StreamConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Closed returns the number of Close calls.
func (m *StreamConn) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.StreamConn = (*StreamConn)(nil)
