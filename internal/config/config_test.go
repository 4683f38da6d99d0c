package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, 5, cfg.Layout.MaxIterations)
	assert.False(t, cfg.Layout.ForceLinear)
	assert.InDelta(t, 0.6, cfg.Layout.StripMinConfidence, 1e-9)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)

	require.NoError(t, cfg.Validate())
}

func TestConfig_EngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.ForceLinear = true
	cfg.Layout.MaxIterations = 3
	cfg.Layout.StripMinConfidence = 0.8

	engine := cfg.EngineConfig()

	assert.True(t, engine.ForceLinear)
	assert.Equal(t, 3, engine.MaxIterations)
	assert.InDelta(t, 0.8, engine.Strip.MinConfidence, 1e-9)
	// Unexposed knobs keep their engine defaults.
	assert.InDelta(t, 1.5, engine.Grid.MinGutterMultiplier, 1e-9)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"zero iterations", func(c *Config) { c.Layout.MaxIterations = 0 }},
		{"confidence above one", func(c *Config) { c.Layout.StripMinConfidence = 1.5 }},
		{"negative confidence", func(c *Config) { c.Layout.BandMinConfidence = -0.1 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }},
		{"zero overlay scale", func(c *Config) { c.Output.OverlayScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_WriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultConfig().WriteYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "log_level: info")
	assert.Contains(t, out, "max_iterations: 5")
	assert.Contains(t, out, "port: 8080")
}

func TestLoader_LoadWithFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "reflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"log_level: debug\nlayout:\n  force_linear: true\nserver:\n  port: 9090\n"), 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Layout.ForceLinear)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults fill the rest.
	assert.Equal(t, 5, cfg.Layout.MaxIterations)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoader_LoadWithFile_Missing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewLoader().LoadWithFile("/nonexistent/reflow.yaml")
	assert.Error(t, err)
}

func TestLoader_LoadWithFile_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "reflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	assert.Error(t, err)
}
