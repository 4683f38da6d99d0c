// Package config loads the CLI and server configuration from files,
// environment variables and flags. The layout engine itself is configured
// through layout.Config; this package exposes the operationally useful knobs
// and maps them onto the engine defaults.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pagelab/reflow/layout"
)

// Config is the complete configuration of the reflow binary and service.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Layout engine knobs
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout" json:"layout"`

	// Output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// HTTP service settings
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// LayoutConfig exposes the layout engine tunables that make sense to set from
// the outside. Everything not listed keeps its engine default.
type LayoutConfig struct {
	MaxIterations      int     `mapstructure:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	ForceLinear        bool    `mapstructure:"force_linear" yaml:"force_linear" json:"force_linear"`
	StripMinConfidence float64 `mapstructure:"strip_min_confidence" yaml:"strip_min_confidence" json:"strip_min_confidence"`
	BandMinConfidence  float64 `mapstructure:"band_min_confidence" yaml:"band_min_confidence" json:"band_min_confidence"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format        string  `mapstructure:"format" yaml:"format" json:"format"`
	File          string  `mapstructure:"file" yaml:"file" json:"file"`
	OverlayScale  float64 `mapstructure:"overlay_scale" yaml:"overlay_scale" json:"overlay_scale"`
	OverlayLabels bool    `mapstructure:"overlay_labels" yaml:"overlay_labels" json:"overlay_labels"`
}

// ServerConfig contains HTTP service settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BatchConfig contains multi-page batch settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	engine := layout.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Layout: LayoutConfig{
			MaxIterations:      engine.MaxIterations,
			ForceLinear:        engine.ForceLinear,
			StripMinConfidence: engine.Strip.MinConfidence,
			BandMinConfidence:  engine.Band.MinConfidence,
		},
		Output: OutputConfig{
			Format:        "json",
			OverlayScale:  1,
			OverlayLabels: true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		Batch: BatchConfig{
			Workers: 0, // 0 = NumCPU
		},
	}
}

// EngineConfig maps the exposed knobs onto a full engine configuration.
func (c *Config) EngineConfig() layout.Config {
	engine := layout.DefaultConfig()
	engine.MaxIterations = c.Layout.MaxIterations
	engine.ForceLinear = c.Layout.ForceLinear
	engine.Strip.MinConfidence = c.Layout.StripMinConfidence
	engine.Band.MinConfidence = c.Layout.BandMinConfidence
	return engine
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Output.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid output format %q (must be json or text)", c.Output.Format)
	}

	if c.Layout.MaxIterations < 1 {
		return fmt.Errorf("layout.max_iterations must be at least 1, got %d", c.Layout.MaxIterations)
	}
	if c.Layout.StripMinConfidence < 0 || c.Layout.StripMinConfidence > 1 {
		return fmt.Errorf("layout.strip_min_confidence must be in [0,1], got %g", c.Layout.StripMinConfidence)
	}
	if c.Layout.BandMinConfidence < 0 || c.Layout.BandMinConfidence > 1 {
		return fmt.Errorf("layout.band_min_confidence must be in [0,1], got %g", c.Layout.BandMinConfidence)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("server.timeout_sec must be at least 1, got %d", c.Server.TimeoutSec)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	if c.Output.OverlayScale <= 0 {
		return fmt.Errorf("output.overlay_scale must be positive, got %g", c.Output.OverlayScale)
	}

	return nil
}

// WriteYAML dumps the effective configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
