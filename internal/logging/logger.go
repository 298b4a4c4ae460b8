// Package logging holds the process-wide slog wiring: a JSON handler on
// stdout plus an async sink that batches ERROR+ records into the system_logs
// table for after-the-fact review.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the bootstrap JSON logger. Once the database connection is
// up, main replaces it with a fan-out that also feeds the PG sink.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
