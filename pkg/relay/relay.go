// Package relay implements the companion server the phone connects to:
// it serves the capture page and rebroadcasts every WebSocket message from
// one client to all other connected clients.
package relay

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/user/phonecam/pkg/ports"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadLimit         = 16 * 1024 * 1024 // 16MB
	writeWait                = 5 * time.Second
	shutdownGrace            = 5 * time.Second

	// sendQueue is the per-client backlog. A client that falls further
	// behind loses messages rather than stalling the sender.
	sendQueue = 8
)

// Config contains the relay settings.
type Config struct {
	Addr      string
	StaticDir string      // Served at /; empty disables static files
	TLSConfig *tls.Config // nil serves plain HTTP
	ReadLimit int64       // 0 means 16MB
}

type message struct {
	kind int
	data []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan message
}

// Server is the broadcast relay.
type Server struct {
	cfg      Config
	logger   ports.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	addrMu sync.Mutex
	addr   net.Addr
}

// New creates a new Server.
func New(cfg Config, logger ports.Logger) *Server {
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	return &Server{
		cfg:    cfg,
		logger: logger.WithComponent("relay"),
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(*http.Request) bool { return true },
			EnableCompression: false,
		},
		clients: make(map[*client]struct{}),
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Addr returns the listening address once Run has bound it.
func (s *Server) Addr() net.Addr {
	s.addrMu.Lock()
	defer s.addrMu.Unlock()
	return s.addr
}

// Handler returns the HTTP handler: WebSocket upgrades on any path,
// static files otherwise.
func (s *Server) Handler() http.Handler {
	var static http.Handler = http.NotFoundHandler()
	if s.cfg.StaticDir != "" {
		static = http.FileServer(http.Dir(s.cfg.StaticDir))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			s.serveWS(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		static.ServeHTTP(w, r)
	})
}

// Run listens and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	if s.cfg.TLSConfig != nil {
		ln = tls.NewListener(ln, s.cfg.TLSConfig)
	}

	s.addrMu.Lock()
	s.addr = ln.Addr()
	s.addrMu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	scheme := "http"
	if s.cfg.TLSConfig != nil {
		scheme = "https"
	}
	s.logger.Info("Relay listening on %s://%s", scheme, ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		// Hijacked WebSocket connections are not tracked by Shutdown.
		s.closeAll()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed: %s", err)
		return
	}
	conn.SetReadLimit(s.cfg.ReadLimit)

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan message, sendQueue),
	}
	s.add(c)
	s.logger.Info("New WebSocket client connected: %s (%s)", c.id, conn.RemoteAddr())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(c)
	}()

	s.readLoop(c)

	s.remove(c)
	close(c.send)
	<-done
	_ = conn.Close()
	s.logger.Info("WebSocket client disconnected: %s", c.id)
}

func (s *Server) readLoop(c *client) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("WebSocket error from %s: %s", c.id, err)
			}
			return
		}
		s.broadcast(c, message{kind: kind, data: data})
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
			s.logger.Debug("Write to %s failed: %s", c.id, err)
			_ = c.conn.Close()
			// Drain so broadcasters never block on this client.
			for range c.send {
			}
			return
		}
	}
}

// broadcast queues msg for every client except from.
func (s *Server) broadcast(from *client, msg message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if c == from {
			continue
		}
		select {
		case c.send <- msg:
		default:
			s.logger.Debug("Dropping message for slow client %s", c.id)
		}
	}
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

func (s *Server) closeAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = c.conn.Close()
	}
}
