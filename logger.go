package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured JSON slog.Logger writing to stdout at level.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", "pixel-gif")
}
