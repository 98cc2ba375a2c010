package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; server,
// log file and telemetry changes need a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	HardwareChanged bool
	HardwareFields  []string // yaml keys of the changed hardware fields
}

// RestartRequired reports whether old and new differ in a section that is
// only read at startup.
func RestartRequired(old, new *Config) bool {
	return old.Server != new.Server ||
		old.Log.File != new.Log.File ||
		old.Log.MaxSizeMB != new.Log.MaxSizeMB ||
		old.Log.MaxBackups != new.Log.MaxBackups ||
		old.Log.MaxAgeDays != new.Log.MaxAgeDays ||
		old.Telemetry.ServiceName != new.Telemetry.ServiceName ||
		old.Telemetry.MetricsEnabled() != new.Telemetry.MetricsEnabled()
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Log.Level != new.Log.Level {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Log.Level
	}

	o, n := old.Hardware, new.Hardware
	changed := func(key string, differ bool) {
		if differ {
			d.HardwareFields = append(d.HardwareFields, key)
		}
	}
	changed("irrc_device", o.IRRCDevice != n.IRRCDevice)
	changed("mixer_card", o.MixerCard != n.MixerCard)
	changed("mixer_xml", o.MixerXML != n.MixerXML)
	changed("lineout_path", o.LineoutPath != n.LineoutPath)
	changed("playback_path", o.PlaybackPath != n.PlaybackPath)
	changed("pcm_card", o.PCMCard != n.PCMCard)
	changed("pcm_device", o.PCMDevice != n.PCMDevice)
	changed("max_buffer_bytes", o.MaxBufferBytes != n.MaxBufferBytes)
	d.HardwareChanged = len(d.HardwareFields) > 0

	return d
}
