package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func levelFromString(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitLogger routes the default slog logger to a file. Expanded prompts are
// the program's stdout, so logging must never reach it; if the log file
// cannot be opened, logging is discarded rather than breaking the prompt.
func InitLogger(path, level string) {
	loglevel, _ := levelFromString(level)

	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		discard()
		return
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		discard()
		return
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: loglevel})
	slog.SetDefault(slog.New(handler))
}

func discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
