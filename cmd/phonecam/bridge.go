package main

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/user/phonecam/pkg/adapters/filesink"
	"github.com/user/phonecam/pkg/adapters/ggrenderer"
	"github.com/user/phonecam/pkg/adapters/imagedecoder"
	"github.com/user/phonecam/pkg/adapters/nullsink"
	"github.com/user/phonecam/pkg/adapters/osfilesystem"
	"github.com/user/phonecam/pkg/adapters/prommetrics"
	"github.com/user/phonecam/pkg/adapters/rawsink"
	"github.com/user/phonecam/pkg/adapters/v4l2sink"
	"github.com/user/phonecam/pkg/adapters/wsclient"
	"github.com/user/phonecam/pkg/config"
	"github.com/user/phonecam/pkg/output"
	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
	"github.com/user/phonecam/pkg/processor"
	"github.com/user/phonecam/pkg/stages/standby"
	"github.com/user/phonecam/pkg/supervisor"
)

func bridgeCommand() *cli.Command {
	stream := l10n.T("Stream source")
	security := l10n.T("Transport security")
	camera := l10n.T("Virtual camera")
	debug := l10n.T("Debug")

	flags := []cli.Flag{
		// Stream source
		&cli.StringFlag{Name: "server-ip", Usage: l10n.T("Relay host (default: localhost)"), Category: stream},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: l10n.T("Relay port (default: 8443)"), Category: stream},
		&cli.StringFlag{Name: "url", Usage: l10n.T("Full stream URL, overrides host and port"), Category: stream},
		&cli.BoolFlag{Name: "plain", Usage: l10n.T("Use ws:// instead of wss://"), Category: stream},
		&cli.IntFlag{Name: "max-retries", Usage: l10n.T("Connection attempts before giving up (default: 5)"), Category: stream},
		&cli.DurationFlag{Name: "retry-delay", Usage: l10n.T("Delay between connection attempts (default: 5s)"), Category: stream},

		// Transport security
		&cli.StringFlag{Name: "tls-mode", Usage: l10n.T("Certificate check: verify, insecure, or ca"), Category: security},
		&cli.StringFlag{Name: "ca", Usage: l10n.T("Trust anchor PEM file for ca mode"), Category: security},
		&cli.StringFlag{Name: "client-cert", Usage: l10n.T("Client certificate PEM file"), Category: security},
		&cli.StringFlag{Name: "client-key", Usage: l10n.T("Client key PEM file"), Category: security},

		// Virtual camera
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Output width (default: 1280)"), Category: camera},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Output height (default: 720)"), Category: camera},
		&cli.IntFlag{Name: "fps", Usage: l10n.T("Output frame rate (default: 30)"), Category: camera},
		&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Usage: l10n.T("Device path or label; \"-\" with the raw sink writes to stdout"), Category: camera},
		&cli.StringFlag{Name: "sink", Usage: l10n.T("Output backend: v4l2 or raw"), Category: camera},
		&cli.BoolFlag{Name: "no-mirror", Usage: l10n.T("Do not mirror the picture"), Category: camera},
		&cli.Int64Flag{Name: "max-pixels", Usage: l10n.T("Largest accepted input image in pixels"), Category: camera},
		&cli.BoolFlag{Name: "no-standby", Usage: l10n.T("Do not show the standby card while disconnected"), Category: camera},
		&cli.StringFlag{Name: "standby-title", Usage: l10n.T("Standby card text"), Category: camera},
		&cli.StringFlag{Name: "font", Usage: l10n.T("TrueType font for the standby card"), Category: camera},

		// Debug
		&cli.StringFlag{Name: "metrics-addr", Usage: l10n.T("Serve Prometheus metrics on this address"), Category: debug},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Save sampled payloads and frames to this directory"), Category: debug},
		&cli.IntFlag{Name: "debug-every", Usage: l10n.T("Save every Nth frame (default: 30)"), Category: debug},
	}

	return &cli.Command{
		Name:   "bridge",
		Usage:  l10n.T("Receive the phone stream and feed the virtual camera"),
		Flags:  append(commonFlags(), flags...),
		Action: runBridge,
	}
}

// applyBridgeFlags overrides cfg with explicitly set flags.
func applyBridgeFlags(c *cli.Context, cfg *config.Config) {
	str := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	integer := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	str("server-ip", &cfg.ServerIP)
	integer("port", &cfg.Port)
	str("url", &cfg.URL)
	if c.IsSet("plain") {
		cfg.Plain = c.Bool("plain")
	}
	integer("max-retries", &cfg.MaxAttempts)
	if c.IsSet("retry-delay") {
		cfg.RetryDelay = c.Duration("retry-delay")
	}

	str("tls-mode", &cfg.TLSMode)
	str("ca", &cfg.CAPath)
	str("client-cert", &cfg.ClientCertPath)
	str("client-key", &cfg.ClientKeyPath)

	integer("width", &cfg.Width)
	integer("height", &cfg.Height)
	integer("fps", &cfg.FPS)
	str("device", &cfg.Device)
	str("sink", &cfg.Sink)
	if c.Bool("no-mirror") {
		cfg.Mirror = false
	}
	if c.IsSet("max-pixels") {
		cfg.MaxPixels = c.Int64("max-pixels")
	}
	if c.Bool("no-standby") {
		cfg.Standby = false
	}
	str("standby-title", &cfg.StandbyTitle)
	str("font", &cfg.FontPath)

	str("metrics-addr", &cfg.MetricsAddr)
	str("debug-dir", &cfg.DebugDir)
	integer("debug-every", &cfg.DebugEvery)
}

func runBridge(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyBridgeFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	framesOnStdout := cfg.Sink == config.SinkRaw && (cfg.Device == "" || cfg.Device == rawsink.Stdout)
	log := newLogger(cfg, framesOnStdout)

	ctx, cancel := signalContext(log)
	defer cancel()

	return runBridgeWith(ctx, cfg, log)
}

// runBridgeWith wires the adapters and runs the supervisor, plus the
// metrics exporter when configured, until ctx ends or the run fails.
func runBridgeWith(ctx context.Context, cfg config.Config, log ports.Logger) error {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var driver ports.CameraDriver
	switch cfg.Sink {
	case config.SinkRaw:
		driver = rawsink.New(log)
	default:
		driver = v4l2sink.New(log)
	}
	sink := output.New(driver, log)

	var debugSink ports.DebugSink = nullsink.New()
	if cfg.DebugDir != "" {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		debugSink = filesink.New(cfg.DebugDir, cfg.DebugEvery, fs, renderer)
	}

	var tlsConfig *tls.Config
	if cfg.Secure() {
		built, err := wsclient.BuildTLSConfig(cfg.TLSOptions(), fs)
		if err != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrInvalidConfig, err)
		}
		tlsConfig = built
	}

	procOpts := []processor.Option{processor.WithDebugSink(debugSink)}
	supOpts := []supervisor.Option{}

	var exporter *prommetrics.Exporter
	if cfg.MetricsAddr != "" {
		exporter = prommetrics.NewExporter(cfg.MetricsAddr)
		metrics := prommetrics.New(exporter.Registry())
		procOpts = append(procOpts, processor.WithMetrics(metrics))
		supOpts = append(supOpts, supervisor.WithMetrics(metrics))
	}

	if cfg.Standby {
		frame, err := standby.NewStage(renderer).Execute(ctx, standby.Input{
			Target:   cfg.Target(),
			Title:    cfg.StandbyTitle,
			Detail:   cfg.Endpoint(),
			FontPath: cfg.FontPath,
		})
		if err != nil {
			return err
		}
		supOpts = append(supOpts, supervisor.WithStandby(frame))
	}

	proc := processor.New(cfg.ProcessorConfig(), imagedecoder.New(), sink, log, procOpts...)
	sup := supervisor.New(cfg.SupervisorSettings(tlsConfig), sink, wsclient.New(log), proc, log, supOpts...)

	log.Info("Starting bridge...")
	log.Info("Stream: %s", cfg.Endpoint())
	if cfg.Secure() {
		log.Info("TLS mode: %s", cfg.TLSOptions().Mode)
	}
	log.Info("Output: %dx%d @ %dfps to %s (%s)", cfg.Width, cfg.Height, cfg.FPS, cfg.Device, cfg.Sink)
	log.Info("Press Ctrl+C to stop")

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// Stop the exporter once the bridge is done, whatever the outcome.
		defer stop()
		return sup.Run(gctx)
	})
	if exporter != nil {
		g.Go(func() error {
			log.Info("Metrics on http://%s/metrics", cfg.MetricsAddr)
			return exporter.Run(gctx)
		})
	}

	return g.Wait()
}
