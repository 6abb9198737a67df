package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/phonecam/pkg/ports"
)

func TestConsoleLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelWarn, &buf)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn: warn 3") {
		t.Errorf("expected warn record, got %q", out)
	}
	if !strings.Contains(out, "error: error 4") {
		t.Errorf("expected error record, got %q", out)
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelInfo, &buf).WithComponent("supervisor")

	log.Info("Connected to %s", "wss://example:8443")

	if got := strings.TrimSpace(buf.String()); got != "[supervisor] Connected to wss://example:8443" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]ports.LogLevel{
		"debug":   ports.LevelDebug,
		"WARN":    ports.LevelWarn,
		"warning": ports.LevelWarn,
		" error ": ports.LevelError,
		"quiet":   ports.LevelQuiet,
	}
	for in, want := range cases {
		got, err := ports.ParseLogLevel(in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseLogLevel_Unknown(t *testing.T) {
	for _, in := range []string{"bogus", ""} {
		got, err := ports.ParseLogLevel(in)
		if !errors.Is(err, ports.ErrUnknownLogLevel) {
			t.Errorf("ParseLogLevel(%q) error = %v, want ErrUnknownLogLevel", in, err)
		}
		if got != ports.LevelInfo {
			t.Errorf("ParseLogLevel(%q) = %s, want info", in, got)
		}
	}
}

func TestConsoleLogger_Timestamps(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 5, 1, 9, 30, 15, 250_000_000, time.UTC)
	log := NewWriter(ports.LevelInfo, &buf, WithTimestamps(func() time.Time { return at }))

	log.Warn("Max retries reached, exiting")

	want := "09:30:15.250 warn: Max retries reached, exiting\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsoleLogger_NestedComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelDebug, &buf).WithComponent("bridge").WithComponent("wsclient")

	log.Debug("Dialing %s", "ws://phone")

	if got := strings.TrimSpace(buf.String()); got != "[bridge.wsclient] Dialing ws://phone" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelQuiet, &buf)

	log.Error("Failed to initialize camera: %s", "busy")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
