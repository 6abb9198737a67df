package ports

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLogLevel is returned by ParseLogLevel.
var ErrUnknownLogLevel = errors.New("unknown log level")

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug covers per-message detail: skipped messages, frame
	// geometry, state transitions.
	LevelDebug LogLevel = iota
	// LevelInfo covers the connection lifecycle and throughput records.
	LevelInfo
	// LevelWarn covers dropped frames and failed connection attempts.
	LevelWarn
	// LevelError covers sink failures and exhausted retries.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var levelNames = map[LogLevel]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLogLevel parses a level name, ignoring case. "warning" is accepted
// for warn. Unknown names return LevelInfo with ErrUnknownLogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
}

// Logger is the logging port. Messages are lexicon keys: adapters may
// translate msg before formatting it with args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags records with component.
	WithComponent(component string) Logger
}
