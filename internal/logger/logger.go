package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/school-finance-ledger/internal/config"
)

// NewLogger builds the JSON slog logger shared by the API server and the
// notifier. Unknown level names fall back to info; at debug level each
// record carries its source location.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler)
	logger.Info("logger initialized", "level", level)
	return logger
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
