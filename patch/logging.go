package patch

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LevelDebug logs verbose diagnostics: fuzzy matches, fallbacks,
	// count mismatches.
	LevelDebug LogLevel = iota
	// LevelInfo logs normal operational messages.
	LevelInfo
	// LevelWarn logs warning messages.
	LevelWarn
	// LevelError logs error messages only.
	LevelError
	// LevelOff disables all logging.
	LevelOff
)

// Logger wraps slog for engine diagnostics. Logging is off by default so
// library consumers see nothing unless they opt in.
type Logger struct {
	slog  *slog.Logger
	level LogLevel
}

var defaultLogger = &Logger{level: LevelOff}

// SetLogger sets the package-level logger.
func SetLogger(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

func logger() *Logger {
	return defaultLogger
}

// NewLogger creates a logger with the given level writing to w.
func NewLogger(level LogLevel, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	return &Logger{slog: slog.New(handler), level: level}
}

// NewLoggerFromEnv creates a logger based on the LOG_LEVEL environment
// variable. Unset or unrecognized values disable logging.
func NewLoggerFromEnv() *Logger {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return NewLogger(LevelDebug, os.Stderr)
	case "INFO":
		return NewLogger(LevelInfo, os.Stderr)
	case "WARN", "WARNING":
		return NewLogger(LevelWarn, os.Stderr)
	case "ERROR":
		return NewLogger(LevelError, os.Stderr)
	}
	return &Logger{level: LevelOff}
}

func (l *Logger) enabled() bool {
	return l != nil && l.level != LevelOff && l.slog != nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled() && l.level <= LevelDebug {
		l.slog.Debug(msg, args...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	if l.enabled() && l.level <= LevelInfo {
		l.slog.Info(msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	if l.enabled() && l.level <= LevelWarn {
		l.slog.Warn(msg, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	if l.enabled() && l.level <= LevelError {
		l.slog.Error(msg, args...)
	}
}
