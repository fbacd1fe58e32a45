package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const (
	defaultName     = "requests"
	defaultObserver = "slog"
)

// Config holds replay settings. Observer names an entry in the observability
// registry so config files stay plain JSON.
//
// Example JSON:
//
//	{
//	  "name": "user-fetches",
//	  "observer": "slog",
//	  "fail_fast": true
//	}
type Config struct {
	Name     string `json:"name,omitempty" env:"NAME"`
	Observer string `json:"observer,omitempty" env:"OBSERVER"`
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`

	// FailFast stops at the first invalid step. Otherwise invalid steps are
	// recorded and skipped.
	FailFast bool `json:"fail_fast,omitempty" env:"FAIL_FAST"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:     defaultName,
		Observer: defaultObserver,
		LogLevel: "INFO",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.FailFast {
		c.FailFast = source.FailFast
	}
}

// LoadConfig reads a JSON config file and merges it over the defaults. An
// empty filename returns the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// ApplyEnv overrides c with DATUM_* environment variables
// (DATUM_NAME, DATUM_OBSERVER, DATUM_LOG_LEVEL, DATUM_FAIL_FAST).
func (c *Config) ApplyEnv() error {
	var fromEnv Config
	if err := env.ParseWithOptions(&fromEnv, env.Options{Prefix: "DATUM_"}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	c.Merge(&fromEnv)
	return nil
}
