package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/consumerir/internal/config"
	"github.com/MrWong99/consumerir/internal/transmit"
)

func TestSlogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   config.LogLevel
		want slog.Level
	}{
		{config.LogDebug, slog.LevelDebug},
		{config.LogInfo, slog.LevelInfo},
		{config.LogWarn, slog.LevelWarn},
		{config.LogError, slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := slogLevel(tc.in); got != tc.want {
			t.Errorf("slogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestApplyReload(t *testing.T) {
	t.Parallel()
	var levelVar slog.LevelVar
	orch := transmit.New()

	old := config.Default()
	new := config.Default()
	new.Log.Level = config.LogDebug
	new.Hardware.PCMDevice = 7
	new.Hardware.IRRCDevice = "/dev/irrc_alt"

	applyReload(old, new, &levelVar, orch)

	if levelVar.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", levelVar.Level())
	}
	s := orch.Settings()
	if s.PCMDevice != 7 || s.DevicePath != "/dev/irrc_alt" {
		t.Errorf("settings = %+v", s)
	}
}

func TestApplyReload_NilOrchestrator(t *testing.T) {
	t.Parallel()
	var levelVar slog.LevelVar
	new := config.Default()
	new.Hardware.PCMCard = 3
	applyReload(config.Default(), new, &levelVar, nil)
}

func TestNewLogger_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "consumerir.log")
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelWarn)

	logger, closeLog := newLogger(config.LogConfig{File: path, MaxSizeMB: 1}, &levelVar)
	logger.Info("dropped")
	logger.Warn("kept", "k", "v")
	levelVar.Set(slog.LevelInfo)
	logger.Info("now kept")
	closeLog()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept k=v") || !strings.Contains(out, "now kept") {
		t.Errorf("log file = %q", out)
	}
	if bytes.Count(b, []byte("\n")) != 2 {
		t.Errorf("lines = %d, want 2", bytes.Count(b, []byte("\n")))
	}
}
