package wsclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/user/phonecam/pkg/ports"
)

// TLSMode selects how the server certificate is checked.
type TLSMode string

const (
	// TLSVerify verifies the server against the system roots.
	TLSVerify TLSMode = "verify"

	// TLSInsecure disables certificate verification.
	TLSInsecure TLSMode = "insecure"

	// TLSCA verifies the server against a supplied trust anchor.
	TLSCA TLSMode = "ca"
)

// ParseTLSMode parses a mode name. The empty string means TLSVerify.
func ParseTLSMode(s string) (TLSMode, error) {
	switch TLSMode(s) {
	case "", TLSVerify:
		return TLSVerify, nil
	case TLSInsecure, TLSCA:
		return TLSMode(s), nil
	default:
		return "", fmt.Errorf("wsclient: unknown TLS mode %q", s)
	}
}

// ErrNoTrustAnchor is returned when TLSCA is selected without a CA file.
var ErrNoTrustAnchor = errors.New("wsclient: ca mode requires a CA file")

// TLSOptions are the transport security settings.
type TLSOptions struct {
	Mode     TLSMode
	CAFile   string // PEM bundle, used by TLSCA
	CertFile string // Optional client certificate
	KeyFile  string // Optional client key
}

// BuildTLSConfig creates the client TLS configuration for opts.
// Files are read through fs.
func BuildTLSConfig(opts TLSOptions, fs ports.FileSystem) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	switch opts.Mode {
	case "", TLSVerify:
	case TLSInsecure:
		cfg.InsecureSkipVerify = true // #nosec G402 -- operator-selected mode
	case TLSCA:
		if opts.CAFile == "" {
			return nil, ErrNoTrustAnchor
		}
		pem, err := fs.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("wsclient: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("wsclient: no certificates in %s", opts.CAFile)
		}
		cfg.RootCAs = pool
	default:
		return nil, fmt.Errorf("wsclient: unknown TLS mode %q", opts.Mode)
	}

	if opts.CertFile != "" && opts.KeyFile != "" {
		certPEM, err := fs.ReadFile(opts.CertFile)
		if err != nil {
			return nil, fmt.Errorf("wsclient: read client certificate: %w", err)
		}
		keyPEM, err := fs.ReadFile(opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("wsclient: read client key: %w", err)
		}
		pair, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, fmt.Errorf("wsclient: load client key pair: %w", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}
