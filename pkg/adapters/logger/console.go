// Package logger provides the console and no-op loggers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/phonecam/pkg/ports"
)

const timeLayout = "15:04:05.000"

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

var levelColors = map[ports.LogLevel]string{
	ports.LevelDebug: ansiGray,
	ports.LevelWarn:  ansiYellow,
	ports.LevelError: ansiRed,
}

// sink is shared by a logger and every logger derived from it.
type sink struct {
	mu     sync.Mutex
	out    io.Writer // debug, info
	errOut io.Writer // warn, error
	color  bool
	now    func() time.Time // nil: no timestamps
}

// ConsoleLogger writes one translated line per record.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	sink      *sink
}

// Option configures a ConsoleLogger.
type Option func(*sink)

// WithTimestamps prefixes each record with the wall-clock time from now.
func WithTimestamps(now func() time.Time) Option {
	return func(s *sink) { s.now = now }
}

// NewConsole logs Debug and Info to stdout and Warn and Error to stderr,
// with timestamps. Records are colored when stdout is a terminal.
func NewConsole(level ports.LogLevel, opts ...Option) *ConsoleLogger {
	fd := os.Stdout.Fd()
	s := &sink{
		out:    os.Stdout,
		errOut: os.Stderr,
		color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &ConsoleLogger{level: level, sink: s}
}

// NewWriter logs every level to w without color. Used when stdout carries
// frames, and in tests.
func NewWriter(level ports.LogLevel, w io.Writer, opts ...Option) *ConsoleLogger {
	s := &sink{out: w, errOut: w}
	for _, opt := range opts {
		opt(s)
	}
	return &ConsoleLogger{level: level, sink: s}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args)
}

func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args)
}

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args)
}

func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args)
}

// WithComponent returns a logger tagging records with component. Nested
// components are joined with a dot.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &ConsoleLogger{level: l.level, component: component, sink: l.sink}
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.level {
		return
	}
	s := l.sink

	var b strings.Builder
	if s.now != nil {
		b.WriteString(s.now().Format(timeLayout))
		b.WriteByte(' ')
	}
	if !s.color && level >= ports.LevelWarn {
		b.WriteString(level.String())
		b.WriteString(": ")
	}
	if l.component != "" {
		if s.color {
			fmt.Fprintf(&b, "%s[%s]%s ", ansiCyan, l.component, ansiReset)
		} else {
			fmt.Fprintf(&b, "[%s] ", l.component)
		}
	}

	text := l10n.F(msg, args...)
	if c, ok := levelColors[level]; ok && s.color {
		text = c + text + ansiReset
	}
	b.WriteString(text)
	b.WriteByte('\n')

	w := s.out
	if level >= ports.LevelWarn {
		w = s.errOut
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(w, b.String())
}

var _ ports.Logger = (*ConsoleLogger)(nil)
