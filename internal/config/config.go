package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "hearth"
	configFile = "config.yaml"
)

// Controller modes.
const (
	ControllerReal      = "real"
	ControllerSimulated = "simulated"
)

// Config is the whole configuration file for the daemon and CLI.
type Config struct {
	Device Device `yaml:"device"`
	Server Server `yaml:"server"`
	// LogLevel overrides HEARTH_LOG_LEVEL when set.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Device holds the fireplace module connection settings. The address is
// fixed configuration: there is no discovery.
type Device struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ExchangeTimeoutSec bounds one connect/send/receive cycle.
	ExchangeTimeoutSec int `yaml:"exchange_timeout,omitempty"`
	// QueueTimeoutSec bounds how long a request may wait for its turn.
	QueueTimeoutSec int `yaml:"queue_timeout,omitempty"`

	// Controller selects the backend: "real" (TCP) or "simulated".
	Controller string `yaml:"controller,omitempty"`
}

// Server holds the HTTP API settings.
type Server struct {
	Listen string `yaml:"listen"`
	// StatusIntervalSec is the push interval for the WebSocket status
	// stream.
	StatusIntervalSec int `yaml:"status_interval,omitempty"`
}

// Default returns the built-in configuration: the module's factory address
// and the timings the official app uses.
func Default() Config {
	return Config{
		Device: Device{
			Host:               "192.168.0.22",
			Port:               2000,
			ExchangeTimeoutSec: 5,
			QueueTimeoutSec:    30,
			Controller:         ControllerReal,
		},
		Server: Server{
			Listen:            ":8000",
			StatusIntervalSec: 2,
		},
	}
}

// ExchangeTimeout returns the per-exchange timeout as a duration.
func (d Device) ExchangeTimeout() time.Duration {
	return time.Duration(d.ExchangeTimeoutSec) * time.Second
}

// QueueTimeout returns the queue-wait timeout as a duration.
func (d Device) QueueTimeout() time.Duration {
	return time.Duration(d.QueueTimeoutSec) * time.Second
}

// Addr returns the device host:port.
func (d Device) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// StatusInterval returns the WebSocket push interval as a duration.
func (s Server) StatusInterval() time.Duration {
	return time.Duration(s.StatusIntervalSec) * time.Second
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	switch c.Device.Controller {
	case ControllerReal, ControllerSimulated:
	default:
		return fmt.Errorf("unknown controller mode %q (want %q or %q)",
			c.Device.Controller, ControllerReal, ControllerSimulated)
	}
	if c.Device.Controller == ControllerReal && c.Device.Host == "" {
		return errors.New("device host is required for the real controller")
	}
	if c.Device.Port <= 0 || c.Device.Port > 65535 {
		return fmt.Errorf("device port %d out of range", c.Device.Port)
	}
	if c.Device.ExchangeTimeoutSec <= 0 {
		return errors.New("exchange_timeout must be positive")
	}
	if c.Device.QueueTimeoutSec <= 0 {
		return errors.New("queue_timeout must be positive")
	}
	return nil
}

// DefaultPath returns the OS-appropriate config file location, e.g.
// ~/.config/hearth/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, appName, configFile), nil
}

// Load reads the configuration from path. An empty path selects
// DefaultPath; a missing file yields Default() so the tools work out of the
// box. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. An empty path selects DefaultPath.
func Save(cfg Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
