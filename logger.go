package ptrbuf

import (
	"context"
	"log/slog"
	"os"

	"github.com/ptrbuf/ptrbuf/schema"
)

// Logger wraps slog.Logger with ptrbuf-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithType adds a schema type field to the logger.
func (l *Logger) WithType(t schema.TypeKey) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", t.String()),
	}
}

// LogCompile logs a schema compilation.
func (l *Logger) LogCompile(ctx context.Context, source string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "schema compile failed",
			"source", source,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "schema compiled",
			"source", source,
		)
	}
}

// LogSet logs a value write.
func (l *Logger) LogSet(ctx context.Context, t schema.TypeKey, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "set failed",
			"type", t.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "set completed",
			"type", t.String(),
			"buffer_bytes", size,
		)
	}
}

// LogCompact logs a buffer compaction.
func (l *Logger) LogCompact(ctx context.Context, before, after int) {
	l.DebugContext(ctx, "compaction completed",
		"before_bytes", before,
		"after_bytes", after,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, key string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"key", key,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"key", key,
			"bytes", size,
		)
	}
}
