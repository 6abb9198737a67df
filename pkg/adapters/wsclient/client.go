// Package wsclient provides the inbound frame stream over WebSocket
// using github.com/gorilla/websocket.
package wsclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/phonecam/pkg/ports"
)

// Default connection constants.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadLimit        = 16 * 1024 * 1024 // 16MB
	closeGracePeriod        = time.Second
)

var (
	// ErrHandshake is returned when the server answers the upgrade with a non-101 status.
	ErrHandshake = errors.New("wsclient: handshake rejected")

	// ErrRemoteClosed is returned when the peer sends a close frame.
	ErrRemoteClosed = errors.New("wsclient: closed by remote")

	// ErrClosed is returned when reading from a closed connection.
	ErrClosed = errors.New("wsclient: connection closed")
)

// Dialer implements ports.StreamDialer.
type Dialer struct {
	logger ports.Logger
}

// New creates a new Dialer.
func New(logger ports.Logger) *Dialer {
	return &Dialer{logger: logger.WithComponent("wsclient")}
}

// Dial connects to opts.URL and completes the WebSocket handshake.
func (d *Dialer) Dial(ctx context.Context, opts ports.DialOptions) (ports.StreamConn, error) {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}

	dialer := websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		HandshakeTimeout:  opts.HandshakeTimeout,
		TLSClientConfig:   opts.TLSConfig,
		EnableCompression: false,
	}

	d.logger.Debug("Dialing %s", opts.URL)

	conn, resp, err := dialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		if resp != nil {
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrHandshake, resp.Status, err)
		}
		return nil, fmt.Errorf("wsclient: dial %s: %w", opts.URL, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	conn.SetReadLimit(opts.ReadLimit)
	return &Conn{conn: conn}, nil
}

// Conn implements ports.StreamConn over a gorilla/websocket connection.
type Conn struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

type readResult struct {
	msgType int
	data    []byte
	err     error
}

// ReadMessage blocks until a message arrives, the peer closes, or ctx is
// canceled. Cancellation closes the connection, since gorilla/websocket
// does not allow a second reader while the first is still blocked.
func (c *Conn) ReadMessage(ctx context.Context) (ports.MessageType, []byte, error) {
	if c.isClosed() {
		return 0, nil, ErrClosed
	}

	ch := make(chan readResult, 1)
	go func() {
		msgType, data, err := c.conn.ReadMessage()
		ch <- readResult{msgType: msgType, data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = c.Close()
		return 0, nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return 0, nil, c.classify(r.err)
		}
		return messageType(r.msgType), r.data, nil
	}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close sends a normal close frame and closes the connection.
// It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
	return c.conn.Close()
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) classify(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrRemoteClosed, err)
	}
	if c.isClosed() {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

func messageType(t int) ports.MessageType {
	switch t {
	case websocket.BinaryMessage:
		return ports.MessageBinary
	case websocket.TextMessage:
		return ports.MessageText
	default:
		return ports.MessageControl
	}
}

// Ensure interfaces are implemented
var (
	_ ports.StreamDialer = (*Dialer)(nil)
	_ ports.StreamConn   = (*Conn)(nil)
)
