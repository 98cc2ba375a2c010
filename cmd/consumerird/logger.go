package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MrWong99/consumerir/internal/config"
)

// newLogger builds the process logger. Its level follows levelVar so it can
// change on config reload. With cfg.File set, output goes to a rotating
// file; the returned func closes it.
func newLogger(cfg config.LogConfig, levelVar *slog.LevelVar) (*slog.Logger, func()) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		w = lj
		closeFn = func() { _ = lj.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})), closeFn
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
