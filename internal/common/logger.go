package common

import (
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide structured logger.
func SetupLogger(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q: %w", format, ErrInvalidConfig)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
