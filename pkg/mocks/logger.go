package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/phonecam/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that records formatted lines.
type Logger struct {
	mu    *sync.Mutex
	lines *[]string
	comp  string
}

// NewLogger creates a new recording Logger.
func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, lines: &[]string{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record(ports.LevelDebug, msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record(ports.LevelInfo, msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record(ports.LevelWarn, msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record(ports.LevelError, msg, args...) }

// WithComponent returns a logger sharing the same record buffer.
func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{mu: m.mu, lines: m.lines, comp: component}
}

func (m *Logger) record(level ports.LogLevel, msg string, args ...interface{}) {
	line := msg
	if len(args) > 0 {
		line = fmt.Sprintf(msg, args...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.lines = append(*m.lines, fmt.Sprintf("%s [%s] %s", level, m.comp, line))
}

// Lines returns all recorded lines.
func (m *Logger) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *m.lines...)
}

// Count returns the number of recorded lines containing substr.
func (m *Logger) Count(substr string) int {
	n := 0
	for _, l := range m.Lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

var _ ports.Logger = (*Logger)(nil)
