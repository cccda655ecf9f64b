package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/celestial/internal/config"
)

// New creates a preconfigured slog.Logger.
func New(cfg *config.Config) *slog.Logger {
	level := ""
	if cfg != nil {
		level = cfg.LogLevel
	}
	return newLogger(os.Stdout, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
