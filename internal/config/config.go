// Package config provides the configuration schema and loader for the
// consumerir daemon.
package config

import "github.com/MrWong99/consumerir/internal/transmit"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Hardware  HardwareConfig  `yaml:"hardware"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig selects where the HTTP API listens. SocketPath takes
// precedence over ListenAddr when both are set.
type ServerConfig struct {
	// ListenAddr is a TCP address such as "127.0.0.1:8087".
	ListenAddr string `yaml:"listen_addr"`

	// SocketPath is a unix socket path. A stale socket file is removed on
	// startup.
	SocketPath string `yaml:"socket_path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level LogLevel `yaml:"level"`

	// File, when set, sends logs to a size-rotated file instead of stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// HardwareConfig locates the devices a transmission uses. Every field is
// applied to the next transmission when the file is reloaded.
type HardwareConfig struct {
	IRRCDevice     string `yaml:"irrc_device"`
	MixerCard      uint   `yaml:"mixer_card"`
	MixerXML       string `yaml:"mixer_xml"`
	LineoutPath    string `yaml:"lineout_path"`
	PlaybackPath   string `yaml:"playback_path"`
	PCMCard        uint   `yaml:"pcm_card"`
	PCMDevice      uint   `yaml:"pcm_device"`
	MaxBufferBytes int    `yaml:"max_buffer_bytes"`
}

// TelemetryConfig controls OpenTelemetry setup.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`

	// Metrics enables the /metrics endpoint. Nil means enabled.
	Metrics *bool `yaml:"metrics"`
}

// MetricsEnabled reports whether the Prometheus endpoint should be served.
func (t TelemetryConfig) MetricsEnabled() bool {
	return t.Metrics == nil || *t.Metrics
}

// Default returns the configuration used when no file is given. The
// hardware section matches the stock device.
func Default() *Config {
	s := transmit.DefaultSettings()
	return &Config{
		Server: ServerConfig{ListenAddr: "127.0.0.1:8087"},
		Log: LogConfig{
			Level:      LogInfo,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Hardware: HardwareConfig{
			IRRCDevice:     s.DevicePath,
			MixerCard:      s.MixerCard,
			MixerXML:       s.MixerXML,
			LineoutPath:    s.LineoutPath,
			PlaybackPath:   s.PlaybackPath,
			PCMCard:        s.PCMCard,
			PCMDevice:      s.PCMDevice,
			MaxBufferBytes: s.MaxBufferBytes,
		},
		Telemetry: TelemetryConfig{ServiceName: "consumerir"},
	}
}

// Settings converts the hardware section into transmission settings.
// Empty strings and a non-positive buffer cap fall back to the stock values.
func (h HardwareConfig) Settings() transmit.Settings {
	s := transmit.DefaultSettings()
	if h.IRRCDevice != "" {
		s.DevicePath = h.IRRCDevice
	}
	s.MixerCard = h.MixerCard
	if h.MixerXML != "" {
		s.MixerXML = h.MixerXML
	}
	if h.LineoutPath != "" {
		s.LineoutPath = h.LineoutPath
	}
	if h.PlaybackPath != "" {
		s.PlaybackPath = h.PlaybackPath
	}
	s.PCMCard = h.PCMCard
	s.PCMDevice = h.PCMDevice
	if h.MaxBufferBytes > 0 {
		s.MaxBufferBytes = h.MaxBufferBytes
	}
	return s
}
