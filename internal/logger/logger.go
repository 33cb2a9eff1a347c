// Package logger provides a simple logging interface for svcmon components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DebugEnv enables debug output for the env logger when set to any value.
const DebugEnv = "SVCMON_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger implements Logger and logs through the standard log package.
// Debug messages are only printed when SVCMON_DEBUG is set.
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the SVCMON_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[monitor]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// jsonLogger writes one JSON object per message using zerolog.
type jsonLogger struct {
	zl zerolog.Logger
}

// NewJSONLogger creates a structured logger writing to w. component is attached
// to every event. level is a zerolog level name ("debug", "info", ...); an
// unparseable level falls back to info, and SVCMON_DEBUG forces debug.
func NewJSONLogger(w io.Writer, component, level string) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if os.Getenv(DebugEnv) != "" {
		lvl = zerolog.DebugLevel
	}

	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if component != "" {
		zl = zl.With().Str("component", component).Logger()
	}
	return &jsonLogger{zl: zl}
}

func (l *jsonLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *jsonLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *jsonLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *jsonLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// sinkLogger hands every message to a callback. Debug messages are dropped
// unless SVCMON_DEBUG is set.
type sinkLogger struct {
	fn func(LogMessage)
}

// NewSinkLogger creates a logger that forwards formatted messages to fn.
// The dashboard uses it to feed its log pane. fn may be called from
// multiple goroutines.
func NewSinkLogger(fn func(LogMessage)) Logger {
	return &sinkLogger{fn: fn}
}

func (l *sinkLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		l.fn(LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
	}
}

func (l *sinkLogger) Info(format string, args ...interface{}) {
	l.fn(LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *sinkLogger) Warn(format string, args ...interface{}) {
	l.fn(LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *sinkLogger) Error(format string, args ...interface{}) {
	l.fn(LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// BufferLogger captures log messages for testing.
// Safe for concurrent use; probes log from many goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Snapshot() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// levelRank orders level names; unknown names rank as info.
func levelRank(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// leveledLogger drops messages below a minimum level.
type leveledLogger struct {
	next Logger
	min  int
}

// WithMinLevel wraps l so messages below level are discarded. Debug
// messages still need SVCMON_DEBUG when l is an env logger.
func WithMinLevel(l Logger, level string) Logger {
	return &leveledLogger{next: l, min: levelRank(level)}
}

func (l *leveledLogger) Debug(format string, args ...interface{}) {
	if l.min <= 0 {
		l.next.Debug(format, args...)
	}
}

func (l *leveledLogger) Info(format string, args ...interface{}) {
	if l.min <= 1 {
		l.next.Info(format, args...)
	}
}

func (l *leveledLogger) Warn(format string, args ...interface{}) {
	if l.min <= 2 {
		l.next.Warn(format, args...)
	}
}

func (l *leveledLogger) Error(format string, args ...interface{}) {
	l.next.Error(format, args...)
}
