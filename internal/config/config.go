// Package config loads and saves the depot demo configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Wiring modes.
const (
	WiringManual    = "manual"
	WiringContainer = "container"
	WiringShared    = "shared"
)

// Auth modes.
const (
	AuthDefault = "default"
	AuthStatic  = "static"
)

// Analytics backends.
const (
	AnalyticsNoop    = "noop"
	AnalyticsLog     = "log"
	AnalyticsMetrics = "metrics"
)

// Config represents the application configuration
type Config struct {
	Logging   Logging   `yaml:"logging"`
	Auth      Auth      `yaml:"auth"`
	Analytics Analytics `yaml:"analytics"`
	Server    Server    `yaml:"server"`
	Wiring    Wiring    `yaml:"wiring"`
}

// Logging contains logging configuration
type Logging struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Auth selects the authentication service.
type Auth struct {
	Mode string `yaml:"mode"`

	// Users maps usernames to hex-encoded SHA-256 password digests.
	// Only used in static mode.
	Users map[string]string `yaml:"users,omitempty"`
}

// Analytics selects the analytics backend.
type Analytics struct {
	Backend string `yaml:"backend"`
}

// Server contains HTTP server configuration
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Wiring selects how the login view model is assembled.
type Wiring struct {
	Mode string `yaml:"mode"`
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Level:    "info",
			Encoding: "console",
		},
		Auth: Auth{
			Mode: AuthDefault,
		},
		Analytics: Analytics{
			Backend: AnalyticsLog,
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Wiring: Wiring{
			Mode: WiringContainer,
		},
	}
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.Auth.Mode, AuthDefault, AuthStatic) {
		errs = append(errs, fmt.Errorf("auth.mode: unknown mode %q", c.Auth.Mode))
	}

	if c.Auth.Mode == AuthStatic && len(c.Auth.Users) == 0 {
		errs = append(errs, errors.New("auth.users: static mode needs at least one user"))
	}

	if !oneOf(c.Analytics.Backend, AnalyticsNoop, AnalyticsLog, AnalyticsMetrics) {
		errs = append(errs, fmt.Errorf("analytics.backend: unknown backend %q", c.Analytics.Backend))
	}

	if !oneOf(c.Wiring.Mode, WiringManual, WiringContainer, WiringShared) {
		errs = append(errs, fmt.Errorf("wiring.mode: unknown mode %q", c.Wiring.Mode))
	}

	if !oneOf(c.Logging.Encoding, "console", "json") {
		errs = append(errs, fmt.Errorf("logging.encoding: unknown encoding %q", c.Logging.Encoding))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}

	return false
}
