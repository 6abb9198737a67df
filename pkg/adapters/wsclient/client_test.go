package wsclient

import (
	"context"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/phonecam/pkg/adapters/logger"
	"github.com/user/phonecam/pkg/mocks"
	"github.com/user/phonecam/pkg/ports"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// scriptHandler returns a handler that sends the given messages, then
// either closes normally or holds the connection open until the client leaves.
func scriptHandler(msgs []mocks.Message, closeAfter bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range msgs {
			mt := websocket.BinaryMessage
			if m.Type == ports.MessageText {
				mt = websocket.TextMessage
			}
			if err := conn.WriteMessage(mt, m.Data); err != nil {
				return
			}
		}
		if closeAfter {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestDialer_ReadMessages(t *testing.T) {
	srv := httptest.NewServer(scriptHandler([]mocks.Message{
		{Type: ports.MessageBinary, Data: []byte{0xff, 0xd8}},
		{Type: ports.MessageText, Data: []byte("hello")},
	}, true))
	defer srv.Close()

	d := New(logger.NewNoop())
	conn, err := d.Dial(context.Background(), ports.DialOptions{URL: wsURL(srv)})
	require.NoError(t, err)
	defer conn.Close()

	mt, data, err := conn.ReadMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.MessageBinary, mt)
	assert.Equal(t, []byte{0xff, 0xd8}, data)

	mt, data, err = conn.ReadMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.MessageText, mt)
	assert.Equal(t, "hello", string(data))

	_, _, err = conn.ReadMessage(context.Background())
	assert.ErrorIs(t, err, ErrRemoteClosed)
	assert.NotEmpty(t, conn.RemoteAddr())
}

func TestDialer_HandshakeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	d := New(logger.NewNoop())
	_, err := d.Dial(context.Background(), ports.DialOptions{URL: wsURL(srv)})
	assert.ErrorIs(t, err, ErrHandshake)
}

func TestDialer_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	d := New(logger.NewNoop())
	_, err := d.Dial(context.Background(), ports.DialOptions{URL: url, HandshakeTimeout: time.Second})
	assert.Error(t, err)
}

func TestConn_ReadLimit(t *testing.T) {
	srv := httptest.NewServer(scriptHandler([]mocks.Message{
		{Type: ports.MessageBinary, Data: make([]byte, 4096)},
	}, false))
	defer srv.Close()

	d := New(logger.NewNoop())
	conn, err := d.Dial(context.Background(), ports.DialOptions{URL: wsURL(srv), ReadLimit: 1024})
	require.NoError(t, err)
	defer conn.Close()

	_, _, err = conn.ReadMessage(context.Background())
	assert.ErrorIs(t, err, websocket.ErrReadLimit)
}

func TestConn_ReadMessageCanceled(t *testing.T) {
	srv := httptest.NewServer(scriptHandler(nil, false))
	defer srv.Close()

	d := New(logger.NewNoop())
	conn, err := d.Dial(context.Background(), ports.DialOptions{URL: wsURL(srv)})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err = conn.ReadMessage(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The connection is closed by the cancellation.
	_, _, err = conn.ReadMessage(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, conn.Close())
}

func TestDialer_TLSModes(t *testing.T) {
	srv := httptest.NewTLSServer(scriptHandler([]mocks.Message{
		{Type: ports.MessageBinary, Data: []byte("frame")},
	}, true))
	defer srv.Close()

	caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/certs/ca.pem", caPEM))

	tests := []struct {
		name    string
		opts    TLSOptions
		wantErr bool
	}{
		{name: "verify rejects unknown authority", opts: TLSOptions{Mode: TLSVerify}, wantErr: true},
		{name: "insecure accepts", opts: TLSOptions{Mode: TLSInsecure}},
		{name: "ca accepts", opts: TLSOptions{Mode: TLSCA, CAFile: "/certs/ca.pem"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tlsCfg, err := BuildTLSConfig(tt.opts, fs)
			require.NoError(t, err)

			d := New(logger.NewNoop())
			conn, err := d.Dial(context.Background(), ports.DialOptions{
				URL:       wsURL(srv),
				TLSConfig: tlsCfg,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer conn.Close()

			_, data, err := conn.ReadMessage(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "frame", string(data))
		})
	}
}
