// Package logging configures the charmbracelet/log loggers used by minidoc
// and carries them through a context.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var std = New(os.Stderr, "info")

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). Unknown names log at info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{Prefix: "minidoc", Level: lvl})
}

// Default is the stderr logger used when no logger was attached to a context.
func Default() *log.Logger {
	return std
}

type ctxKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return logger
	}
	return Default()
}
