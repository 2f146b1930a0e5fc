// Package ctxlog provides a context key for safely passing a slog.Logger
// instance through context.Context. Adopted near-verbatim from the
// teacher's internal/ctxlog, promoted to a top-level package since
// sitegraph is a library other modules import rather than an
// application with a private internal/ tree (see DESIGN.md).
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns the default global logger rather than panicking,
// since executor.Run is also reachable from library consumers who may
// not have threaded a logger in (the teacher's CLI always does, but a
// library caller may not).
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
