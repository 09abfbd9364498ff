package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a structured JSON logger. Args are key-value pairs:
//
//	logger.Info(ctx, "server_start", "addr", addr)
//
// When ctx carries a request id it is attached as "request_id".
type Logger struct {
	base *slog.Logger
}

func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, slog.LevelInfo)
}

func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	return &Logger{base: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (l *Logger) Info(ctx context.Context, message string, args ...any) {
	l.base.InfoContext(ctx, message, withRequestID(ctx, args)...)
}

func (l *Logger) Warn(ctx context.Context, message string, args ...any) {
	l.base.WarnContext(ctx, message, withRequestID(ctx, args)...)
}

func (l *Logger) Error(ctx context.Context, message string, args ...any) {
	l.base.ErrorContext(ctx, message, withRequestID(ctx, args)...)
}

// With returns a child logger that always includes args.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

func withRequestID(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	id := RequestIDFromContext(ctx)
	if id == "" {
		return args
	}
	return append(args, "request_id", id)
}
