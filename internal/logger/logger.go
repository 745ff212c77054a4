package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type ctxKey struct{}

type implLogger struct {
	logger zerolog.Logger
}

// New creates a text Logger writing to stdout.
func New(level string) Logger {
	return NewWithWriter(level, FormatText, os.Stdout)
}

// NewWithWriter creates a Logger in the given format ("text" or "json").
func NewWithWriter(level, format string, w io.Writer) Logger {
	lvl := parseLevel(level)

	var zl zerolog.Logger
	if strings.ToLower(format) == FormatJSON {
		zl = zerolog.New(w)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true})
	}

	return &implLogger{
		logger: zl.Level(lvl).With().Timestamp().Logger(),
	}
}

// WithRun returns a context whose log lines carry the run id.
func WithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if ctx == nil {
		return e
	}
	if runID, ok := ctx.Value(ctxKey{}).(string); ok && runID != "" {
		e = e.Str("run", runID)
	}
	return e
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Debug()).Msgf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Info()).Msgf(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Warn()).Msgf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Error()).Msgf(msg, args...)
}
