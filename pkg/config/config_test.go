package config

import (
	"crypto/tls"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/phonecam/pkg/adapters/wsclient"
	"github.com/user/phonecam/pkg/pipeline"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "wss://localhost:8443", cfg.Endpoint())
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, "OBS Virtual Camera", cfg.Device)
	assert.Equal(t, int64(50_000_000), cfg.MaxPixels)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.True(t, cfg.Mirror)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonecam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_ip: 192.168.1.20
port: 9443
width: 1920
height: 1080
retry_delay: 2s
tls_mode: insecure
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://192.168.1.20:9443", cfg.Endpoint())
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.Equal(t, 30, cfg.FPS, "unset keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, "insecure", cfg.TLSMode)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [1, 2"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorIs(t, err, pipeline.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"SERVER_IP":             "10.0.0.5",
		"PORT":                  "9000",
		"CAMERA_WIDTH":          "640",
		"CAMERA_HEIGHT":         "480",
		"CAMERA_FPS":            "15",
		"VIRTUAL_CAMERA_DEVICE": "/dev/video10",
		"MAX_PIXELS":            "1000000",
		"RETRY_DELAY":           "250ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, "wss://10.0.0.5:9000", cfg.Endpoint())
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 15, cfg.FPS)
	assert.Equal(t, "/dev/video10", cfg.Device)
	assert.Equal(t, int64(1_000_000), cfg.MaxPixels)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
}

func TestApplyEnv_InvalidNumbers(t *testing.T) {
	cfg := Defaults()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":         "https",
		"CAMERA_WIDTH": "wide",
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "CAMERA_WIDTH")
	assert.Equal(t, 8443, cfg.Port)
}

func TestApplyEnv_SSLVerify(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unset", map[string]string{}, "verify"},
		{"true", map[string]string{"SSL_VERIFY": "True"}, "verify"},
		{"false", map[string]string{"SSL_VERIFY": "false"}, "insecure"},
		{"anything else", map[string]string{"SSL_VERIFY": "0"}, "insecure"},
		{"cert pair", map[string]string{"SSL_VERIFY": "true", "SSL_CERT_PATH": "c.pem", "SSL_KEY_PATH": "k.pem"}, "ca"},
		{"ca path", map[string]string{"SSL_VERIFY": "true", "SSL_CA_PATH": "ca.pem"}, "ca"},
		{"explicit mode wins", map[string]string{"SSL_VERIFY": "false", "TLS_MODE": "verify"}, "verify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			require.NoError(t, cfg.ApplyEnv(envMap(tt.env)))
			assert.Equal(t, tt.want, cfg.TLSMode)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")), "missing file is fine")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PHONECAM_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("PHONECAM_TEST_DOTENV", "")
	os.Unsetenv("PHONECAM_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("PHONECAM_TEST_DOTENV"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width and height"},
		{"negative fps", func(c *Config) { c.FPS = -1 }, "fps"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "port"},
		{"bad url", func(c *Config) { c.URL = "http://example.com" }, "url"},
		{"bad tls mode", func(c *Config) { c.TLSMode = "maybe" }, "TLS mode"},
		{"ca without path", func(c *Config) { c.TLSMode = "ca" }, "ca_path"},
		{"cert without key", func(c *Config) { c.CertPath = "c.pem" }, "key_path"},
		{"client cert without key", func(c *Config) { c.ClientCertPath = "c.pem" }, "client_key_path"},
		{"unknown sink", func(c *Config) { c.Sink = "obs" }, "sink"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max_attempts"},
		{"zero max pixels", func(c *Config) { c.MaxPixels = 0 }, "max_pixels"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, pipeline.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Width = 0
	cfg.FPS = 0
	cfg.Sink = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width")
	assert.Contains(t, err.Error(), "fps")
	assert.Contains(t, err.Error(), "sink")
}

func TestEndpoint(t *testing.T) {
	cfg := Defaults()
	cfg.Plain = true
	assert.Equal(t, "ws://localhost:8443", cfg.Endpoint())
	assert.False(t, cfg.Secure())

	cfg.ServerIP = "::1"
	assert.Equal(t, "ws://[::1]:8443", cfg.Endpoint())

	cfg.URL = "wss://relay.example.com/stream"
	assert.Equal(t, "wss://relay.example.com/stream", cfg.Endpoint())
	assert.True(t, cfg.Secure())
}

func TestTLSOptions_CertAsTrustAnchor(t *testing.T) {
	cfg := Defaults()
	cfg.TLSMode = "ca"
	cfg.CertPath = "server.pem"
	cfg.KeyPath = "server.key"

	opts := cfg.TLSOptions()
	assert.Equal(t, wsclient.TLSCA, opts.Mode)
	assert.Equal(t, "server.pem", opts.CAFile)

	cfg.CAPath = "ca.pem"
	assert.Equal(t, "ca.pem", cfg.TLSOptions().CAFile)
}

func TestTLSOptions_ServerPairIsNotClientCertificate(t *testing.T) {
	cfg := Defaults()
	cfg.TLSMode = "ca"
	cfg.CertPath = "server.pem"
	cfg.KeyPath = "server.key"

	opts := cfg.TLSOptions()
	assert.Empty(t, opts.CertFile)
	assert.Empty(t, opts.KeyFile)

	cfg.ClientCertPath = "client.pem"
	cfg.ClientKeyPath = "client.key"
	opts = cfg.TLSOptions()
	assert.Equal(t, "client.pem", opts.CertFile)
	assert.Equal(t, "client.key", opts.KeyFile)
	assert.Equal(t, "server.pem", opts.CAFile)
}

func TestApplyEnv_ClientCredentials(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"SSL_VERIFY":           "true",
		"SSL_CERT_PATH":        "server.pem",
		"SSL_KEY_PATH":         "server.key",
		"SSL_CLIENT_CERT_PATH": "client.pem",
		"SSL_CLIENT_KEY_PATH":  "client.key",
	})))

	assert.Equal(t, "ca", cfg.TLSMode)
	assert.Equal(t, "server.pem", cfg.CertPath)
	assert.Equal(t, "client.pem", cfg.ClientCertPath)
	assert.Equal(t, "client.key", cfg.ClientKeyPath)
}

func TestConversions(t *testing.T) {
	cfg := Defaults()
	cfg.Device = "/dev/video10"

	format := cfg.CameraFormat()
	assert.Equal(t, 1280, format.Width)
	assert.Equal(t, "/dev/video10", format.Device)

	pc := cfg.ProcessorConfig()
	assert.Equal(t, pipeline.Dimension{Width: 1280, Height: 720}, pc.Target)
	assert.Equal(t, cfg.MaxPixels, pc.MaxPixels)
	assert.True(t, pc.Mirror)

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	s := cfg.SupervisorSettings(tlsCfg)
	assert.Equal(t, "wss://localhost:8443", s.Dial.URL)
	assert.Same(t, tlsCfg, s.Dial.TLSConfig)
	assert.Equal(t, 5, s.MaxAttempts)

	cfg.Plain = true
	assert.Nil(t, cfg.SupervisorSettings(tlsCfg).Dial.TLSConfig)
}
