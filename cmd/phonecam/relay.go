package main

import (
	"crypto/tls"
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/phonecam/pkg/config"
	"github.com/user/phonecam/pkg/ports"
	"github.com/user/phonecam/pkg/relay"
)

func relayCommand() *cli.Command {
	server := l10n.T("Relay server")

	flags := []cli.Flag{
		&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Usage: l10n.T("Listen address (default: :8443)"), Category: server},
		&cli.StringFlag{Name: "static-dir", Usage: l10n.T("Directory served to browsers (default: public)"), Category: server},
		&cli.StringFlag{Name: "cert", Usage: l10n.T("Server certificate PEM file"), Category: server},
		&cli.StringFlag{Name: "key", Usage: l10n.T("Server key PEM file"), Category: server},
		&cli.BoolFlag{Name: "plain", Usage: l10n.T("Serve plain HTTP instead of HTTPS"), Category: server},
		&cli.StringSliceFlag{Name: "host", Usage: l10n.T("Extra host name or IP for the generated certificate"), Category: server},
	}

	return &cli.Command{
		Name:   "relay",
		Usage:  l10n.T("Serve the phone page and relay its frames to the bridge"),
		Flags:  append(commonFlags(), flags...),
		Action: runRelay,
	}
}

func runRelay(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.RelayAddr = c.String("addr")
	}
	if c.IsSet("static-dir") {
		cfg.RelayStaticDir = c.String("static-dir")
	}
	if c.IsSet("cert") {
		cfg.CertPath = c.String("cert")
	}
	if c.IsSet("key") {
		cfg.KeyPath = c.String("key")
	}
	if c.IsSet("plain") {
		cfg.RelayPlain = c.Bool("plain")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg, false)
	ctx, cancel := signalContext(log)
	defer cancel()

	var tlsConfig *tls.Config
	if !cfg.RelayPlain {
		cert, err := serverCertificate(cfg, c.StringSlice("host"), log)
		if err != nil {
			return err
		}
		tlsConfig = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	}

	srv := relay.New(relay.Config{
		Addr:      cfg.RelayAddr,
		StaticDir: cfg.RelayStaticDir,
		TLSConfig: tlsConfig,
		ReadLimit: cfg.ReadLimit,
	}, log)
	return srv.Run(ctx)
}

// serverCertificate loads cert_path/key_path or generates a self-signed pair.
func serverCertificate(cfg config.Config, hosts []string, log ports.Logger) (tls.Certificate, error) {
	if cfg.CertPath != "" && cfg.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("load server certificate: %w", err)
		}
		return cert, nil
	}

	generated, err := relay.GenerateSelfSigned(hosts, relay.DefaultCertValidity)
	if err != nil {
		return tls.Certificate{}, err
	}
	log.Warn("Using a self-signed certificate, SHA-256 fingerprint %s", generated.FingerprintHex())
	return generated.TLSCert, nil
}
