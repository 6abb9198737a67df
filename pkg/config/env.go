package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/phonecam/pkg/adapters/wsclient"
	"github.com/user/phonecam/pkg/pipeline"
)

// LookupFunc returns the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", pipeline.ErrInvalidConfig, path, err)
	}
	return nil
}

// ApplyEnv overrides c with environment variables. Unset or empty
// variables leave the current value.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}
	int64Val := func(key string, dst *int64) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}
	duration := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a duration", key, v))
			return
		}
		*dst = d
	}

	str("SERVER_IP", &c.ServerIP)
	integer("PORT", &c.Port)
	str("STREAM_URL", &c.URL)
	integer("CAMERA_WIDTH", &c.Width)
	integer("CAMERA_HEIGHT", &c.Height)
	integer("CAMERA_FPS", &c.FPS)
	str("VIRTUAL_CAMERA_DEVICE", &c.Device)
	str("VIRTUAL_CAMERA_SINK", &c.Sink)
	str("SSL_CERT_PATH", &c.CertPath)
	str("SSL_KEY_PATH", &c.KeyPath)
	str("SSL_CA_PATH", &c.CAPath)
	str("SSL_CLIENT_CERT_PATH", &c.ClientCertPath)
	str("SSL_CLIENT_KEY_PATH", &c.ClientKeyPath)
	int64Val("MAX_PIXELS", &c.MaxPixels)
	integer("MAX_RETRIES", &c.MaxAttempts)
	duration("RETRY_DELAY", &c.RetryDelay)
	str("LOG_LEVEL", &c.LogLevel)
	str("METRICS_ADDR", &c.MetricsAddr)

	// SSL_VERIFY=true keeps verification, switching to ca mode when a CA
	// or a cert/key pair is configured. Anything else disables it.
	if v, ok := lookup("SSL_VERIFY"); ok && v != "" {
		if strings.EqualFold(strings.TrimSpace(v), "true") {
			c.TLSMode = string(wsclient.TLSVerify)
			if c.CAPath != "" || (c.CertPath != "" && c.KeyPath != "") {
				c.TLSMode = string(wsclient.TLSCA)
			}
		} else {
			c.TLSMode = string(wsclient.TLSInsecure)
		}
	}
	str("TLS_MODE", &c.TLSMode)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", pipeline.ErrInvalidConfig, errors.Join(errs...))
}
