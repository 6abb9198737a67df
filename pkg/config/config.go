// Package config provides configuration loading and management.
//
// Values are layered: Defaults, then an optional YAML file, then
// environment variables (including a .env file), then CLI flags.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/phonecam/pkg/adapters/wsclient"
	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
	"github.com/user/phonecam/pkg/processor"
	"github.com/user/phonecam/pkg/supervisor"
)

// Sink backends.
const (
	SinkV4L2 = "v4l2"
	SinkRaw  = "raw"
)

// Config represents the full configuration for phonecam.
type Config struct {
	// Stream source
	ServerIP         string        `yaml:"server_ip"`
	Port             int           `yaml:"port"`
	URL              string        `yaml:"url"`   // Overrides server_ip/port when set
	Plain            bool          `yaml:"plain"` // ws:// instead of wss://
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadLimit        int64         `yaml:"read_limit"`

	// Transport security
	TLSMode  string `yaml:"tls_mode"` // verify, insecure, ca
	CAPath   string `yaml:"ca_path"`
	CertPath string `yaml:"cert_path"` // Server certificate; relay listener, bridge trust anchor
	KeyPath  string `yaml:"key_path"`

	// Presented to the relay only when set explicitly
	ClientCertPath string `yaml:"client_cert_path"`
	ClientKeyPath  string `yaml:"client_key_path"`

	// Retry
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`

	// Virtual camera
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Device string `yaml:"device"`
	Sink   string `yaml:"sink"`
	Mirror bool   `yaml:"mirror"`

	// Frame pipeline
	MaxPixels int64 `yaml:"max_pixels"`

	// Standby card
	Standby      bool   `yaml:"standby"`
	StandbyTitle string `yaml:"standby_title"`
	FontPath     string `yaml:"font_path"`

	// Relay server
	RelayAddr      string `yaml:"relay_addr"`
	RelayStaticDir string `yaml:"relay_static_dir"`
	RelayPlain     bool   `yaml:"relay_plain"`

	// Observability
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	// Debug
	DebugDir   string `yaml:"debug_dir"`
	DebugEvery int    `yaml:"debug_every"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Stream source
		ServerIP:         "localhost",
		Port:             8443,
		HandshakeTimeout: wsclient.DefaultHandshakeTimeout,
		ReadLimit:        wsclient.DefaultReadLimit,

		// Transport security
		TLSMode: string(wsclient.TLSVerify),

		// Retry
		MaxAttempts: supervisor.DefaultMaxAttempts,
		RetryDelay:  supervisor.DefaultRetryDelay,

		// Virtual camera
		Width:  1280,
		Height: 720,
		FPS:    30,
		Device: "OBS Virtual Camera",
		Sink:   SinkV4L2,
		Mirror: true,

		// Frame pipeline
		MaxPixels: processor.DefaultMaxPixels,

		// Standby card
		Standby: true,

		// Relay server
		RelayAddr:      ":8443",
		RelayStaticDir: "public",

		// Observability
		LogLevel: "info",

		// Debug
		DebugEvery: 30,
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", pipeline.ErrInvalidConfig, path, err)
	}

	return cfg, nil
}

// Endpoint returns the stream URL.
func (c Config) Endpoint() string {
	if c.URL != "" {
		return c.URL
	}
	scheme := "wss"
	if c.Plain {
		scheme = "ws"
	}
	return scheme + "://" + net.JoinHostPort(c.ServerIP, strconv.Itoa(c.Port))
}

// Secure reports whether the endpoint uses TLS.
func (c Config) Secure() bool {
	u, err := url.Parse(c.Endpoint())
	return err == nil && u.Scheme == "wss"
}

// Validate checks every setting and reports all problems at once.
// The returned error wraps pipeline.ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.URL == "" {
		if c.ServerIP == "" {
			add("server_ip is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			add("port %d out of range", c.Port)
		}
	} else if u, err := url.Parse(c.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		add("url %q must be ws:// or wss://", c.URL)
	}

	if c.Width <= 0 || c.Height <= 0 {
		add("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		add("fps must be positive, got %d", c.FPS)
	}
	if c.Sink != SinkV4L2 && c.Sink != SinkRaw {
		add("sink %q must be %s or %s", c.Sink, SinkV4L2, SinkRaw)
	}
	if c.MaxPixels <= 0 {
		add("max_pixels must be positive")
	}
	if c.ReadLimit <= 0 {
		add("read_limit must be positive")
	}
	if c.HandshakeTimeout <= 0 {
		add("handshake_timeout must be positive")
	}
	if c.MaxAttempts < 1 {
		add("max_attempts must be at least 1")
	}
	if c.RetryDelay < 0 {
		add("retry_delay must not be negative")
	}
	if c.DebugEvery < 1 {
		add("debug_every must be at least 1")
	}

	mode, err := wsclient.ParseTLSMode(c.TLSMode)
	if err != nil {
		errs = append(errs, err)
	}
	if mode == wsclient.TLSCA && c.CAPath == "" && c.CertPath == "" {
		add("tls_mode ca requires ca_path")
	}
	if (c.CertPath == "") != (c.KeyPath == "") {
		add("cert_path and key_path must be set together")
	}
	if (c.ClientCertPath == "") != (c.ClientKeyPath == "") {
		add("client_cert_path and client_key_path must be set together")
	}

	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		add("log_level: %w", err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", pipeline.ErrInvalidConfig, errors.Join(errs...))
}

// Level returns the parsed log level, info when unknown.
func (c Config) Level() ports.LogLevel {
	level, _ := ports.ParseLogLevel(c.LogLevel)
	return level
}

// Target returns the output canvas size.
func (c Config) Target() pipeline.Dimension {
	return pipeline.Dimension{Width: c.Width, Height: c.Height}
}

// CameraFormat returns the virtual camera format.
func (c Config) CameraFormat() ports.CameraFormat {
	return ports.CameraFormat{
		Width:  c.Width,
		Height: c.Height,
		FPS:    c.FPS,
		Device: c.Device,
	}
}

// TLSOptions returns the client transport security settings.
// In ca mode without ca_path the certificate path doubles as the trust
// anchor, which is how SSL_CERT_PATH was historically used. The server
// cert/key pair is never sent as a client certificate.
func (c Config) TLSOptions() wsclient.TLSOptions {
	mode, _ := wsclient.ParseTLSMode(c.TLSMode)
	opts := wsclient.TLSOptions{
		Mode:     mode,
		CAFile:   c.CAPath,
		CertFile: c.ClientCertPath,
		KeyFile:  c.ClientKeyPath,
	}
	if mode == wsclient.TLSCA && opts.CAFile == "" {
		opts.CAFile = c.CertPath
	}
	return opts
}

// ProcessorConfig converts Config to processor.Config.
func (c Config) ProcessorConfig() processor.Config {
	return processor.Config{
		Target:    c.Target(),
		MaxPixels: c.MaxPixels,
		Mirror:    c.Mirror,
	}
}

// SupervisorSettings converts Config to supervisor.Settings.
// tlsConfig is ignored for plain endpoints.
func (c Config) SupervisorSettings(tlsConfig *tls.Config) supervisor.Settings {
	if !c.Secure() {
		tlsConfig = nil
	}
	return supervisor.Settings{
		Format: c.CameraFormat(),
		Dial: ports.DialOptions{
			URL:              c.Endpoint(),
			TLSConfig:        tlsConfig,
			HandshakeTimeout: c.HandshakeTimeout,
			ReadLimit:        c.ReadLimit,
		},
		MaxAttempts: c.MaxAttempts,
		RetryDelay:  c.RetryDelay,
	}
}
