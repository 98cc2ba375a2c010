package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over [Default] and validates
// the result. Keys missing from r keep their default values; unknown keys
// are an error.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.ListenAddr == "" && cfg.Server.SocketPath == "" {
		errs = append(errs, errors.New("server: one of listen_addr or socket_path is required"))
	}
	if p := cfg.Server.SocketPath; p != "" && !filepath.IsAbs(p) {
		errs = append(errs, fmt.Errorf("server.socket_path %q must be absolute", p))
	}

	// Log
	if cfg.Log.Level != "" && !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log: max_size_mb, max_backups and max_age_days must not be negative"))
	}

	// Hardware
	hw := cfg.Hardware
	if hw.IRRCDevice == "" {
		errs = append(errs, errors.New("hardware.irrc_device is required"))
	}
	if hw.MixerXML == "" {
		errs = append(errs, errors.New("hardware.mixer_xml is required"))
	}
	if hw.LineoutPath == "" || hw.PlaybackPath == "" {
		errs = append(errs, errors.New("hardware: lineout_path and playback_path are required"))
	}
	if hw.MaxBufferBytes < 0 {
		errs = append(errs, fmt.Errorf("hardware.max_buffer_bytes %d must not be negative", hw.MaxBufferBytes))
	}

	return errors.Join(errs...)
}
