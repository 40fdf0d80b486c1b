// Package logger provides structured logging for the application services.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger with the field-chaining helpers the service
// layer uses.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger for the named component. Output is JSON on stderr;
// LOG_LEVEL controls verbosity (debug, info, warn, error).
func New(component string) *Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zl := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl}
}

// NewDefault returns a logger suitable as a fallback when callers pass nil.
func NewDefault(component string) *Logger {
	return New(component)
}

// NewConsole creates a human-readable logger for local development.
func NewConsole(component string) *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	zl := zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	return &Logger{zl: zl}
}

// WithField returns a logger with an extra field attached to every entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }
