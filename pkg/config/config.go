// Package config loads engine credentials and service settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPollSchedule = "@every 30s"
	DefaultEventBus     = "memory"
)

// DefaultEnvFiles are loaded, when present, before flags and environment are read.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Engine holds the address and credential of one upstream engine.
// An engine with either value empty is served from mock data.
type Engine struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,http_url"`
	APIKey  string `yaml:"api_key"`
}

// Configured reports whether both the address and the API key are set.
func (e Engine) Configured() bool {
	return e.BaseURL != "" && e.APIKey != ""
}

// Config is the complete service configuration.
type Config struct {
	N8n             Engine        `yaml:"n8n"`
	Langflow        Engine        `yaml:"langflow"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  validate:"min=0"`
	DisplayTimezone string        `yaml:"display_timezone" validate:"omitempty,timezone"`
	PollSchedule    string        `yaml:"poll_schedule"`
	EventBus        string        `yaml:"event_bus"        validate:"omitempty,oneof=memory kafka"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		RequestTimeout: 5 * time.Second,
		PollSchedule:   DefaultPollSchedule,
		EventBus:       DefaultEventBus,
	}
}

// FullyConfigured reports whether all four engine settings are present.
func (c Config) FullyConfigured() bool {
	return c.N8n.Configured() && c.Langflow.Configured()
}

// Location resolves the zone execution start times are displayed in.
// An empty zone means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return time.Local, nil
	}

	location, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", c.DisplayTimezone, err)
	}

	return location, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return cfg, nil
}

// LoadEnvFiles exports variables from the given dotenv files without overriding
// variables already set in the environment. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}

		err := godotenv.Load(file)
		if err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	return nil
}
