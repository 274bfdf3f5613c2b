// Package logging wraps zerolog with the process-wide configuration and a
// request-scoped logger that carries the request id.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // json or console
	Output io.Writer
}

// requestIDKey is the key used to store the request ID in a standard context
type requestIDKey struct{}

// Init configures the global zerolog logger. Safe to call more than once.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from a standard context
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for one operation of a request.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger bound to the request id found in ctx.
func NewLogger(ctx context.Context, component string) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{
		zl: log.With().Str("request_id", rid).Str("component", component).Logger(),
	}
}

func (l *Logger) Info(operation string) *zerolog.Event {
	return l.zl.Info().Str("operation", operation)
}

func (l *Logger) Warn(operation string) *zerolog.Event {
	return l.zl.Warn().Str("operation", operation)
}

func (l *Logger) Error(operation string, err error) *zerolog.Event {
	return l.zl.Error().Str("operation", operation).Err(err)
}

func (l *Logger) Debug(operation string) *zerolog.Event {
	return l.zl.Debug().Str("operation", operation)
}
