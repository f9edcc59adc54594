// Package config loads randomart settings from a YAML or JSON file, then applies
// command-line overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "randomart.yaml"

// Config is the full set of settings shared by the CLI commands.
type Config struct {
	// Phrases points at a phrase file or a directory holding "text" or "text.txt".
	Phrases string `yaml:"phrases" json:"phrases" mapstructure:"phrases"`
	// Target is the output directory, relative to the phrase path's directory.
	Target string `yaml:"target" json:"target" mapstructure:"target" validate:"required"`
	// Complexity is an integer, "all", or empty to derive it from each phrase.
	Complexity string `yaml:"complexity" json:"complexity" mapstructure:"complexity"`
	Size       int    `yaml:"size" json:"size" mapstructure:"size" validate:"min=1,max=8192"`
	Workers    int    `yaml:"workers" json:"workers" mapstructure:"workers" validate:"min=0"`
	SaveTree   bool   `yaml:"save_tree" json:"save_tree" mapstructure:"save_tree"`
	Indent     string `yaml:"indent" json:"indent" mapstructure:"indent"`
	LogLevel   string `yaml:"log_level" json:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	HTTP  HTTPConfig  `yaml:"http" json:"http" mapstructure:"http"`
	Redis RedisConfig `yaml:"redis" json:"redis" mapstructure:"redis"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port      string `yaml:"port" json:"port" mapstructure:"port" validate:"required,numeric"`
	SmallSize int    `yaml:"small_size" json:"small_size" mapstructure:"small_size" validate:"min=1"`
	BigSize   int    `yaml:"big_size" json:"big_size" mapstructure:"big_size" validate:"min=1,gtefield=SmallSize"`
	MaxSize   int    `yaml:"max_size" json:"max_size" mapstructure:"max_size" validate:"min=1,gtefield=BigSize"`
	// MaxComplexity caps explicit complexities; it never falls below the derived range.
	MaxComplexity int  `yaml:"max_complexity" json:"max_complexity" mapstructure:"max_complexity" validate:"min=150"`
	Metrics       bool `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// RedisConfig enables the shared cache and busy flags. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string        `yaml:"password" json:"password" mapstructure:"password"`
	DB       int           `yaml:"db" json:"db" mapstructure:"db" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl" validate:"min=0"`
	Prefix   string        `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Phrases: ".",
		Target:  "data",
		Size:    512,
		Indent:  "  ",
		HTTP: HTTPConfig{
			Port:      "8080",
			SmallSize: 128,
			BigSize:   512,
			MaxSize:   2048,

			MaxComplexity: 1000,
		},
		Redis: RedisConfig{
			TTL:    24 * time.Hour,
			Prefix: "randomart:",
		},
	}
}

var validate = validator.New()

// Load reads path over the defaults. A missing DefaultFile is not an error;
// a missing explicitly named file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		// JSON has no duration type; decode through mapstructure like flag overrides.
		if err := cfg.Apply(raw); err != nil {
			return cfg, err
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return cfg, cfg.Validate()
}

// Apply decodes overrides (e.g. changed CLI flags) into cfg.
// Keys follow the mapstructure tags; nested sections are nested maps.
// Values are weakly typed, so "512" fills an int and "1h" fills a duration.
func (c *Config) Apply(overrides map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(overrides); err != nil {
		return fmt.Errorf("invalid config override: %w", err)
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
