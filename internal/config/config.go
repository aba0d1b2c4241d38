// Package config provides configuration loading for printtrace.
//
// Values are layered: built-in defaults, then the YAML file, then
// PRINTTRACE_* environment variables. Command line flags are applied on top
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/printtrace/internal/instrument"
	"github.com/sirkon/printtrace/internal/logging"
	"github.com/sirkon/printtrace/internal/pipeline"
)

// Environment variables overriding file values.
const (
	EnvHook     = "PRINTTRACE_HOOK"
	EnvVariant  = "PRINTTRACE_VARIANT"
	EnvPasses   = "PRINTTRACE_PASSES"
	EnvJobs     = "PRINTTRACE_JOBS"
	EnvLogLevel = "PRINTTRACE_LOG_LEVEL"
)

// Config is the printtrace configuration.
type Config struct {
	// Hook is the logging hook symbol name.
	Hook string `yaml:"hook"`

	// Variant selects the hook call shape.
	Variant instrument.Variant `yaml:"variant"`

	// Passes is an explicit pipeline. It takes priority over ExtensionPoints.
	Passes string `yaml:"passes"`

	// ExtensionPoints select pipeline positions the pass runs at.
	ExtensionPoints []pipeline.ExtensionPoint `yaml:"extension_points"`

	// Jobs limits functions processed concurrently, 0 means the number of CPUs.
	Jobs int `yaml:"jobs"`

	Log logging.Config `yaml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hook:            instrument.DefaultHook,
		Variant:         instrument.VariantBasic,
		ExtensionPoints: []pipeline.ExtensionPoint{pipeline.OptimizerEarly},
		Log:             logging.DefaultConfig(),
	}
}

// Load reads the configuration file at path over defaults and applies
// environment overrides. An empty path means no file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvHook); v != "" {
		c.Hook = v
	}
	if v := os.Getenv(EnvVariant); v != "" {
		if err := c.Variant.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvVariant, err)
		}
	}
	if v := os.Getenv(EnvPasses); v != "" {
		c.Passes = v
	}
	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJobs, err)
		}
		c.Jobs = jobs
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}

	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Hook == "" {
		return errors.New("hook name must not be empty")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Passes == "" && len(c.ExtensionPoints) == 0 {
		return errors.New("either passes or extension points must be set")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}

	return c.Instrument().Validate()
}

// Instrument returns the pass configuration.
func (c *Config) Instrument() instrument.Config {
	return instrument.Config{
		Hook:    c.Hook,
		Variant: c.Variant,
	}
}
