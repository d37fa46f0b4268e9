// Package testhelpers contains logging helpers shared by package tests.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/jkarvonen/trainwell/internal/logging"
)

// NewLogger creates a debug-level text logger writing to the given sink,
// typically a bytes.Buffer or a [Writer].
func NewLogger(sink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(sink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}
