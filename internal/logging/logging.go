// Package logging provides the zerolog-backed mason.Logger used by the CLI
// and the demo server.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/rs/zerolog"
)

// Logger implements mason.Logger on top of zerolog.
type Logger struct {
	logger zerolog.Logger
}

var _ mason.Logger = (*Logger)(nil)

// New creates a logger writing to w at the given level. Unknown levels fall
// back to info. When console is set output is human readable.
func New(w io.Writer, level string, console bool) *Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return &Logger{
		logger: zerolog.New(w).Level(parsed).With().Timestamp().Logger(),
	}
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// With returns a child logger carrying component in every entry.
func (l *Logger) With(component string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", component).Logger()}
}

// Zerolog exposes the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
