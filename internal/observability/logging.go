package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/fleetsight/fuel-etl/internal/config"
)

// NewLogger builds the process-wide structured logger from config.
// LOG_FORMAT selects the handler (json or text), LOG_LEVEL the threshold;
// unrecognized values fall back to json at info.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
