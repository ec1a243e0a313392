// Package commands implements the synmap CLI commands.
package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/synmap/synmap-go/pkg/sysex"
)

// ConfigFileName is looked up under the user config directory when no
// -config flag is given.
const ConfigFileName = "synmap/config.yaml"

// Config holds settings shared by every command. Flags override it.
type Config struct {
	// Device is the registry name used when -device is not given.
	Device string `yaml:"device,omitempty"`

	// DeviceNumber overrides the device number of the selected device.
	DeviceNumber *int `yaml:"device_number,omitempty"`

	// Checksum is the policy for received dumps: reject or warn.
	Checksum string `yaml:"checksum,omitempty"`

	// ProtocolLog receives CBOR protocol events when set.
	ProtocolLog string `yaml:"protocol_log,omitempty"`

	// Tables lists extra directories of device table YAMLs.
	Tables []string `yaml:"tables,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Device:   "xg",
		Checksum: "reject",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file. Unset keys keep their defaults;
// unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// FindConfig loads path, or the per-user config file when path is empty.
// A missing per-user file yields the defaults.
func FindConfig(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := sysex.ParsePolicy(c.Checksum); err != nil {
		return err
	}
	if c.DeviceNumber != nil && (*c.DeviceNumber < 0 || *c.DeviceNumber > 15) {
		return fmt.Errorf("device_number must be 0-15, got %d", *c.DeviceNumber)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// Policy returns the parsed checksum policy.
func (c *Config) Policy() sysex.Policy {
	p, _ := sysex.ParsePolicy(c.Checksum)
	return p
}
