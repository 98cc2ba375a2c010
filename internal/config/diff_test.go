package config_test

import (
	"slices"
	"testing"

	"github.com/MrWong99/consumerir/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	d := config.Diff(cfg, cfg)
	if d.LogLevelChanged || d.HardwareChanged || len(d.HardwareFields) != 0 {
		t.Errorf("Diff(identical) = %+v", d)
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := config.Default()
	new := config.Default()
	new.Log.Level = config.LogDebug

	d := config.Diff(old, new)
	if !d.LogLevelChanged || d.NewLogLevel != config.LogDebug {
		t.Errorf("Diff = %+v, want level change to debug", d)
	}
	if d.HardwareChanged {
		t.Error("HardwareChanged = true, want false")
	}
}

func TestDiff_HardwareFields(t *testing.T) {
	t.Parallel()
	old := config.Default()
	new := config.Default()
	new.Hardware.PCMDevice = 4
	new.Hardware.MixerXML = "/tmp/mixer.xml"

	d := config.Diff(old, new)
	if !d.HardwareChanged {
		t.Fatal("HardwareChanged = false")
	}
	want := []string{"mixer_xml", "pcm_device"}
	if !slices.Equal(d.HardwareFields, want) {
		t.Errorf("HardwareFields = %v, want %v", d.HardwareFields, want)
	}
}

func TestRestartRequired(t *testing.T) {
	t.Parallel()
	off := false
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{"level only", func(c *config.Config) { c.Log.Level = config.LogWarn }, false},
		{"hardware only", func(c *config.Config) { c.Hardware.PCMCard = 1 }, false},
		{"listen addr", func(c *config.Config) { c.Server.ListenAddr = ":9000" }, true},
		{"log file", func(c *config.Config) { c.Log.File = "/tmp/x.log" }, true},
		{"metrics off", func(c *config.Config) { c.Telemetry.Metrics = &off }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			new := config.Default()
			tc.mutate(new)
			if got := config.RestartRequired(config.Default(), new); got != tc.want {
				t.Errorf("RestartRequired = %v, want %v", got, tc.want)
			}
		})
	}
}
