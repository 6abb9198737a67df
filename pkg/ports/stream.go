package ports

import (
	"context"
	"crypto/tls"
	"time"
)

// MessageType distinguishes inbound stream messages.
type MessageType int

const (
	MessageBinary MessageType = iota
	MessageText
	MessageControl
)

// String returns the string representation of the message type.
func (m MessageType) String() string {
	switch m {
	case MessageBinary:
		return "binary"
	case MessageText:
		return "text"
	case MessageControl:
		return "control"
	default:
		return "unknown"
	}
}

// DialOptions configures a stream connection attempt.
type DialOptions struct {
	URL              string
	TLSConfig        *tls.Config // nil for plain ws://
	HandshakeTimeout time.Duration
	ReadLimit        int64
}

// StreamDialer establishes inbound stream connections.
type StreamDialer interface {
	// Dial connects and completes the handshake.
	Dial(ctx context.Context, opts DialOptions) (StreamConn, error)
}

// StreamConn is an established, message-oriented inbound connection.
type StreamConn interface {
	// ReadMessage blocks until a message arrives, the peer closes,
	// or the context is canceled.
	ReadMessage(ctx context.Context) (MessageType, []byte, error)

	// RemoteAddr returns the peer address for logging.
	RemoteAddr() string

	// Close closes the connection. Safe to call more than once.
	Close() error
}
