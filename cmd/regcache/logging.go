package main

import (
	"io"
	"log/slog"
)

// newLogger writes text records to w. Default level is Warn; --verbose
// lowers it to Debug and --quiet raises it to Error.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
