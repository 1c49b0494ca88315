package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type loggerContextKey struct{}

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns ctx with a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// ContextWithLogger stores a request-scoped logger in ctx
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// ContextLogger returns the logger stored by ContextWithLogger
func ContextLogger(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger)
	return logger, ok && logger != nil
}

// LoggerWithContext returns the request-scoped logger in ctx, falling back to
// the global logger. Loggers that do not inject the trace ID themselves are
// tagged with it here.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger, ok := ContextLogger(ctx)
	if !ok {
		logger = GetLogger()
	}
	if _, traced := logger.Handler().(*traceHandler); traced {
		return logger
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}
	return logger
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
