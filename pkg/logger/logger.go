package logger

import (
	"log/slog"
	"os"
)

var Log *slog.Logger

// Init builds the process-wide JSON logger. Every record carries the
// service name so mock-mode and live-mode lines stay attributable in a
// shared stream.
func Init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler).With("service", "miservicio-api")
}
