// Package config provides the build-time context: application identity,
// window definitions and plugin settings.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed context.yaml
var defaultContext []byte

// MainWindow is the label every context must declare.
const MainWindow = "main"

var ErrInvalidConfig = errors.New("invalid configuration")

// WindowConfig declares one window created at startup.
type WindowConfig struct {
	Label       string  `mapstructure:"label" yaml:"label"`
	Title       string  `mapstructure:"title" yaml:"title"`
	Width       float32 `mapstructure:"width" yaml:"width"`
	Height      float32 `mapstructure:"height" yaml:"height"`
	Visible     bool    `mapstructure:"visible" yaml:"visible"`
	Center      bool    `mapstructure:"center" yaml:"center"`
	HideOnClose bool    `mapstructure:"hide_on_close" yaml:"hide_on_close"` // only honored where reopen exists
}

// OpenerConfig configures the URL opener plugin.
type OpenerConfig struct {
	AllowedSchemes []string `mapstructure:"allowed_schemes" yaml:"allowed_schemes"`
}

type PluginsConfig struct {
	Opener OpenerConfig `mapstructure:"opener" yaml:"opener"`
}

// TelemetryConfig controls command tracing.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	PrettyPrint bool   `mapstructure:"pretty_print" yaml:"pretty_print"`
}

// Config holds the full build-time context.
type Config struct {
	Identifier  string          `mapstructure:"identifier" yaml:"identifier"`
	ProductName string          `mapstructure:"product_name" yaml:"product_name"`
	Version     string          `mapstructure:"version" yaml:"version"`
	HomepageURL string          `mapstructure:"homepage_url" yaml:"homepage_url"`
	Windows     []WindowConfig  `mapstructure:"windows" yaml:"windows"`
	Plugins     PluginsConfig   `mapstructure:"plugins" yaml:"plugins"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// Load reads the embedded context, merges the optional file at path over it
// and applies PENTAMIND_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultContext)); err != nil {
		return nil, fmt.Errorf("read embedded context: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("PENTAMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded context.
func Default() (*Config, error) {
	return Load("")
}

// Validate checks the context for errors that would prevent startup.
func (c *Config) Validate() error {
	if c.Identifier == "" {
		return fmt.Errorf("%w: identifier is required", ErrInvalidConfig)
	}
	if len(c.Windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Windows))
	for i, w := range c.Windows {
		if w.Label == "" {
			return fmt.Errorf("%w: window %d: label is required", ErrInvalidConfig, i)
		}
		if seen[w.Label] {
			return fmt.Errorf("%w: window %d: duplicate label %q", ErrInvalidConfig, i, w.Label)
		}
		if w.Width < 0 || w.Height < 0 {
			return fmt.Errorf("%w: window %q: negative size", ErrInvalidConfig, w.Label)
		}
		seen[w.Label] = true
	}
	if !seen[MainWindow] {
		return fmt.Errorf("%w: no %q window declared", ErrInvalidConfig, MainWindow)
	}
	return nil
}

// Window returns the declaration for label.
func (c *Config) Window(label string) (WindowConfig, bool) {
	for _, w := range c.Windows {
		if w.Label == label {
			return w, true
		}
	}
	return WindowConfig{}, false
}

// YAML renders the resolved context.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
