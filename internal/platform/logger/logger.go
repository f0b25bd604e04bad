// Package logger builds the shared structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger tagged with the service name.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler).With("service", service)
}
